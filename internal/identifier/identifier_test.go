package identifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kevinmiles/win32gen/internal/identifier"
)

func TestCapSafeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keyword escaped then capped", "type", "Type_"},
		{"leading underscore rotated", "_Anonymous", "Anonymous_"},
		{"ordinary field", "fIcon", "FIcon"},
		{"already capitalized", "CreateFile", "CreateFile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identifier.CapSafeName(tt.in))
		})
	}
}

func TestBuildGuidExpr(t *testing.T) {
	got := identifier.BuildGuidExpr("00021401-0000-0000-C000-000000000046")
	want := "syscall.GUID{0x00021401, 0x0000, 0x0000, [8]byte{0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}}"
	assert.Equal(t, want, got)
}

func TestFloatLiteral(t *testing.T) {
	assert.Equal(t, "math.NaN()", identifier.FloatLiteral(0, true, false, false))
	assert.Equal(t, "math.Inf(1)", identifier.FloatLiteral(0, false, true, false))
	assert.Equal(t, "math.Inf(-1)", identifier.FloatLiteral(0, false, false, true))
}
