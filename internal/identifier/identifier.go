// Package identifier renders metadata names as Go identifiers and literals:
// casing, reserved-word escaping, GUID constructor expressions, and the
// special forms IEEE float constants need (handle-typed sentinel constants
// are rendered by internal/emit's Const, not here). It is
// the generalized form of zzl-go-winapi-gen's utils package.
package identifier

import (
	"strings"
	"syscall"

	"github.com/zzl/go-win32api/win32"
)

// reserved holds every Go keyword; unlike zzl-go-winapi-gen's four-word list
// (type/var/range/map) this is exhaustive, since any metadata field or
// parameter name could coincide with any of them.
var reserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// SafeName escapes a metadata identifier that collides with a Go keyword by
// appending an underscore, leaving the original spelling otherwise intact
// (spec.md §4.4: "escaped verbatim").
func SafeName(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}

// CapName exported-cases a metadata identifier: leading underscores are
// rotated to the end (Go disfavors exported identifiers starting with `_`,
// and metadata occasionally prefixes anonymous-union/struct field names with
// one), then the first letter is upper-cased.
func CapName(name string) string {
	if name == "" {
		return name
	}
	for name[0] == '_' {
		name = name[1:] + "_"
	}
	if name == "" {
		return "_"
	}
	if c := name[0]; c >= 'a' && c <= 'z' {
		name = string(c-32) + name[1:]
	}
	return name
}

// CapSafeName composes SafeName then CapName — used for exported symbol
// names (a collision with a keyword can't arise post-export-casing since Go
// keywords are all lower-case, but composing both keeps call sites uniform
// with zzl-go-winapi-gen's own utils.CapSafeName).
func CapSafeName(name string) string {
	return CapName(SafeName(name))
}

// BuildGuidExpr renders a canonical "XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX"
// GUID string as a syscall.GUID composite literal.
func BuildGuidExpr(canonical string) string {
	var b strings.Builder
	b.WriteString("syscall.GUID{0x")
	b.WriteString(canonical[:8])
	b.WriteString(", 0x")
	b.WriteString(canonical[9:13])
	b.WriteString(", 0x")
	b.WriteString(canonical[14:18])
	b.WriteString(", [8]byte{")
	rest := strings.Replace(canonical[19:], "-", "", 1)
	for n := 0; n < 16; n += 2 {
		if n > 0 {
			b.WriteString(", ")
		}
		b.WriteString("0x")
		b.WriteString(rest[n : n+2])
	}
	b.WriteString("}}")
	return b.String()
}

// GuidLiteral renders a syscall.GUID value as a composite-literal
// expression, going through win32.GuidToStr the same way zzl-go-winapi-gen's
// codegen.go does for constant/var GUID values.
func GuidLiteral(g syscall.GUID) string {
	canonical, _ := win32.GuidToStr(&g)
	return BuildGuidExpr(canonical)
}

// FloatLiteral renders an IEEE-special float as the Go expression that
// reproduces it exactly: math.NaN()/math.Inf(±1) have no Go literal syntax,
// unlike finite values which render with fmt.Sprintf("%#v", v).
func FloatLiteral(v float64, isNaN, isPosInf, isNegInf bool) string {
	switch {
	case isNaN:
		return "math.NaN()"
	case isPosInf:
		return "math.Inf(1)"
	case isNegInf:
		return "math.Inf(-1)"
	default:
		return ""
	}
}
