package xreport

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/omeyang/ipclass/pkg/netaddr/xipv4"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" JSON ", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTextValidClassC(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, xipv4.Analyze("192.168.1.1"), FormatText))

	want := strings.Join([]string{
		"✅ Valid IPv4 Address",
		"IP Address:          192.168.1.1",
		"Class:               Class C",
		"                     Used for small networks",
		"Range:               192.0.0.0 to 223.255.255.255",
		"Default Subnet Mask: 255.255.255.0",
		"Network ID:          192.168.1.0",
		"Host ID:             1",
		"Network Bits:        24",
		"Host Bits:           8",
		"Max Hosts:           254 (2⁸ - 2)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderTextMulticastHasNoCapacity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, xipv4.Analyze("224.0.0.1"), FormatText))

	out := buf.String()
	assert.Contains(t, out, "Class:               Class D")
	assert.Contains(t, out, "Default Subnet Mask: N/A")
	assert.Contains(t, out, "Network ID:          N/A (Multicast/Experimental)")
	assert.NotContains(t, out, "Network Bits")
	assert.NotContains(t, out, "Max Hosts")
}

func TestRenderTextUnknownClass(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, xipv4.Analyze("127.0.0.1"), FormatText))

	out := buf.String()
	assert.Contains(t, out, "Class:               Class Unknown")
	assert.Contains(t, out, "Unknown class")
	assert.Contains(t, out, "Host ID:             Unknown")
	assert.NotContains(t, out, "Host Bits")
}

func TestRenderTextInvalid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, xipv4.Analyze("192.168.1.abc"), FormatText))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "❌ Invalid IPv4 Address\n"))
	assert.Contains(t, out, "Reason:              Octet 4 (abc) is not a valid decimal number.")
	for _, h := range usageHint {
		assert.Contains(t, out, "  - "+h)
	}
	assert.Contains(t, out, "Example:             192.168.1.1")
}

func TestRenderTextBlank(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, xipv4.Analyze("  "), FormatText))
	assert.Equal(t, "⚠️ Error\nPlease enter an IP address\n", buf.String())
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, xipv4.Analyze("10.0.0.1"), FormatJSON))

	assert.JSONEq(t, `{
		"valid": true,
		"input": "10.0.0.1",
		"class": "A",
		"description": "Used for large networks with many hosts",
		"range": "1.0.0.0 to 126.255.255.255",
		"subnet_mask": "255.0.0.0",
		"network_id": "10.0.0.0",
		"host_id": "0.0.1",
		"network_prefix": "10.0.0.0/8",
		"capacity": {"network_bits": 8, "host_bits": 24, "max_hosts": 16777214}
	}`, buf.String())
}

func TestRenderJSONInvalid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, xipv4.Analyze("1.2.3"), FormatJSON))

	var rep Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	assert.False(t, rep.Valid)
	assert.Equal(t, "wrong_octet_count", rep.Reason)
	assert.Contains(t, rep.Message, "This address has 3 octets.")
	assert.Nil(t, rep.Capacity)
	assert.Empty(t, rep.Class)
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, xipv4.Analyze("172.16.5.4"), FormatYAML))

	out := buf.String()
	assert.Contains(t, out, "class: B\n")
	assert.Contains(t, out, "network_id: 172.16.0.0\n")
	assert.Contains(t, out, "  host_bits: 16\n")

	var rep Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rep))
	assert.Equal(t, "5.4", rep.HostID)
}

func TestRenderAll(t *testing.T) {
	results := []xipv4.Result{
		xipv4.Analyze("192.168.1.1"),
		xipv4.Analyze("1.2.3"),
	}

	var text bytes.Buffer
	require.NoError(t, RenderAll(&text, results, FormatText))
	panels := strings.Split(text.String(), "\n\n")
	assert.True(t, strings.HasPrefix(panels[0], "✅"))
	assert.Contains(t, text.String(), "\n❌ Invalid IPv4 Address\n")

	var js bytes.Buffer
	require.NoError(t, RenderAll(&js, results, FormatJSON))
	var reps []Report
	require.NoError(t, json.Unmarshal(js.Bytes(), &reps))
	require.Len(t, reps, 2)
	assert.True(t, reps[0].Valid)
	assert.False(t, reps[1].Valid)

	var ym bytes.Buffer
	require.NoError(t, RenderAll(&ym, results, FormatYAML))
	assert.True(t, strings.HasPrefix(ym.String(), "- valid: true\n"))
}

func TestRenderClasses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderClasses(&buf, FormatText))
	out := buf.String()
	assert.Contains(t, out, "Class A\n")
	assert.Contains(t, out, "Max Hosts:           65,534 (2¹⁶ - 2)")
	assert.Contains(t, out, "Class E\n")

	buf.Reset()
	require.NoError(t, RenderClasses(&buf, FormatJSON))
	var rows []ClassRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 5)
	assert.Equal(t, "N/A", rows[3].SubnetMask)
}

func TestRenderUnknownFormat(t *testing.T) {
	r := xipv4.Analyze("1.1.1.1")
	assert.ErrorIs(t, Render(&bytes.Buffer{}, r, "xml"), ErrUnknownFormat)
	assert.ErrorIs(t, RenderAll(&bytes.Buffer{}, nil, "xml"), ErrUnknownFormat)
	assert.ErrorIs(t, RenderClasses(&bytes.Buffer{}, "xml"), ErrUnknownFormat)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	err := Render(failWriter{}, xipv4.Analyze("1.1.1.1"), FormatText)
	assert.EqualError(t, err, "disk full")

	err = Render(failWriter{}, xipv4.Analyze("1.1.1.1"), FormatJSON)
	assert.ErrorIs(t, err, ErrEncodeFailed)
}
