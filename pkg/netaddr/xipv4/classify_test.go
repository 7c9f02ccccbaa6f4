package xipv4

import (
	"encoding/json"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		first uint8
		want  Class
	}{
		{0, ClassUnknown},
		{1, ClassA},
		{10, ClassA},
		{126, ClassA},
		{127, ClassUnknown},
		{128, ClassB},
		{172, ClassB},
		{191, ClassB},
		{192, ClassC},
		{223, ClassC},
		{224, ClassD},
		{239, ClassD},
		{240, ClassE},
		{255, ClassE},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.first), "first octet %d", tt.first)
		})
	}
}

func TestClassifyTotal(t *testing.T) {
	// 每个首段值都落入唯一类别，且与范围表一致。
	for v := 0; v <= 255; v++ {
		c := Classify(uint8(v))
		if v == 0 || v == 127 {
			assert.Equal(t, ClassUnknown, c, "first octet %d", v)
			continue
		}
		require.True(t, c.IsKnown(), "first octet %d", v)
		r := Info(c).Range
		addr := netip.AddrFrom4([4]byte{uint8(v), 0, 0, 0})
		assert.True(t, r.Contains(addr), "class %s range should contain %s", c, addr)
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "A", ClassA.String())
	assert.Equal(t, "E", ClassE.String())
	assert.Equal(t, "Unknown", ClassUnknown.String())
	assert.Equal(t, "Class(9)", Class(9).String())

	data, err := json.Marshal(map[string]Class{"class": ClassB})
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":"B"}`, string(data))
}

func TestClassPredicates(t *testing.T) {
	assert.True(t, ClassA.IsUnicast())
	assert.True(t, ClassC.IsUnicast())
	assert.False(t, ClassD.IsUnicast())
	assert.False(t, ClassUnknown.IsUnicast())

	assert.True(t, ClassE.IsKnown())
	assert.False(t, ClassUnknown.IsKnown())
	assert.False(t, Class(6).IsKnown())
}

func TestNetworkAndHost(t *testing.T) {
	tests := []struct {
		input       string
		wantNetwork string
		wantHost    string
	}{
		{"10.0.0.1", "10.0.0.0", "0.0.1"},
		{"172.16.5.4", "172.16.0.0", "5.4"},
		{"192.168.1.1", "192.168.1.0", "1"},
		{"224.0.0.1", NotApplicableMulticast, NotApplicableMulticast},
		{"250.1.2.3", NotApplicableMulticast, NotApplicableMulticast},
		{"127.0.0.1", NotApplicableUnknown, NotApplicableUnknown},
		{"0.1.2.3", NotApplicableUnknown, NotApplicableUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			addr := MustValidate(tt.input)
			network, host := NetworkAndHost(addr, Classify(addr.FirstOctet()))
			assert.Equal(t, tt.wantNetwork, network)
			assert.Equal(t, tt.wantHost, host)
		})
	}
}

func TestNetworkAndHostExplicitClass(t *testing.T) {
	// 类别由调用方给出，不重新计算。
	addr := MustValidate("192.168.1.1")
	network, host := NetworkAndHost(addr, ClassA)
	assert.Equal(t, "192.0.0.0", network)
	assert.Equal(t, "168.1.1", host)
}
