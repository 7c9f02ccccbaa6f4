package xipv4

import "testing"

func BenchmarkValidate(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_, _ = Validate("192.168.100.200")
	}
}

func BenchmarkValidateInvalid(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_, _ = Validate("192.168.01.200")
	}
}

func BenchmarkAnalyze(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = Analyze("172.16.5.4")
	}
}

func BenchmarkClassify(b *testing.B) {
	for b.Loop() {
		_ = Classify(200)
	}
}
