package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFields(t *testing.T) {
	testCases := []struct {
		desc string
		line string
		want []string
	}{
		{desc: "plain", line: "a,b,c", want: []string{"a", "b", "c"}},
		{desc: "spaces and cr", line: " a , b,c\r", want: []string{"a", "b", "c"}},
		{desc: "empty tail", line: "a,", want: []string{"a", ""}},
		{desc: "single", line: "abc", want: []string{"abc"}},
	}

	var dst [][]byte
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			dst = SplitFields([]byte(tc.line), ',', dst)
			got := make([]string, len(dst))
			for i, f := range dst {
				got[i] = string(f)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseInt(t *testing.T) {
	testCases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{in: "1000000", want: 1000000, ok: true},
		{in: "-42", want: -42, ok: true},
		{in: "+7", want: 7, ok: true},
		{in: "9223372036854775807", want: 9223372036854775807, ok: true},
		{in: "-9223372036854775808", want: -9223372036854775808, ok: true},
		{in: "9223372036854775808", ok: false},
		{in: "", ok: false},
		{in: "-", ok: false},
		{in: "1e6", ok: false},
		{in: "12 3", ok: false},
	}

	for _, tc := range testCases {
		got, ok := ParseInt([]byte(tc.in))
		assert.Equalf(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equalf(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank([]byte(" \t\r\n")))
	assert.False(t, IsBlank([]byte(" x ")))
}
