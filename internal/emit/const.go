package emit

import (
	"fmt"
	"math"
	"strings"
	"syscall"

	"github.com/kevinmiles/win32gen/internal/identifier"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// Const renders one ConstantRef (spec.md §4.4): plain literal, or one of the
// four special payload shapes — IEEE specials, GUIDs, handle-typed
// sentinels, and UTF-16 string constants, each needing a constructor
// expression rather than a bare Go literal.
func (e *Emitter) Const(c *mdindex.ConstantRef) (Fragment, []irmodel.EmissionKey) {
	proj := e.projector.Project(c.Type, project.CtxField, false)
	name := identifier.CapSafeName(c.Name)

	if v, ok := c.Value.(float64); ok {
		switch {
		case math.IsNaN(v):
			return e.constDecl(c, proj, name, identifier.FloatLiteral(v, true, false, false), true)
		case math.IsInf(v, 1):
			return e.constDecl(c, proj, name, identifier.FloatLiteral(v, false, true, false), true)
		case math.IsInf(v, -1):
			return e.constDecl(c, proj, name, identifier.FloatLiteral(v, false, false, true), true)
		}
	}

	if g, ok := c.Value.(syscall.GUID); ok {
		return e.constDecl(c, proj, name, identifier.GuidLiteral(g), true)
	}

	if proj.Type.IsHandle {
		return e.constDecl(c, proj, name,
			fmt.Sprintf("%s(%#v)", proj.Type.Name, c.Value), false)
	}

	if proj.Type.Kind == irmodel.KindString {
		if s, ok := c.Value.(string); ok {
			return e.constDecl(c, proj, name, fmt.Sprintf("utf16Ptr(%q)", s), true)
		}
	}

	return e.constDecl(c, proj, name, fmt.Sprintf("%#v", c.Value), false)
}

// constDecl renders either a `const` (literal, integer-valued) or a `var`
// (anything needing a constructor call — Go consts can't hold the result of
// a function call or a composite literal) declaration.
func (e *Emitter) constDecl(c *mdindex.ConstantRef, proj irmodel.ProjectedType, name, valueExpr string, needsVar bool) (Fragment, []irmodel.EmissionKey) {
	var b strings.Builder
	if needsVar {
		fmt.Fprintf(&b, "var %s %s = %s\n\n", name, proj.Type.Name, valueExpr)
	} else {
		fmt.Fprintf(&b, "const %s %s = %s\n\n", name, proj.Type.Name, valueExpr)
	}
	return Fragment{Key: irmodel.Key(c.Name), Source: b.String()}, proj.Deps
}
