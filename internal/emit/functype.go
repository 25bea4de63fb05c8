package emit

import (
	"fmt"
	"strings"

	"github.com/kevinmiles/win32gen/internal/identifier"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// FuncType renders a delegate TypeDef (spec.md §4.4) as a Go function-
// pointer type: an alias to uintptr for the ABI-facing storage slot, plus
// the named func type a caller converts to/from it — the same split the
// teacher's codegen.go makes for its unmanaged (IID == nil) function types.
func (e *Emitter) FuncType(t *mdindex.TypeDef) (Fragment, []irmodel.EmissionKey) {
	name := identifier.CapSafeName(t.Name)
	var b strings.Builder
	var deps []irmodel.EmissionKey

	fmt.Fprintf(&b, "type %s = uintptr\n", name)
	fmt.Fprintf(&b, "type %sFunc func(", name)
	for i, p := range t.FuncDef.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		proj := e.projector.Project(p.Type, project.CtxParam, false)
		deps = append(deps, proj.Deps...)
		fmt.Fprintf(&b, "%s %s", paramName(p.Name), proj.Type.Name)
	}
	b.WriteString(")")
	retProj := e.projector.Project(t.FuncDef.ReturnType, project.CtxReturn, false)
	deps = append(deps, retProj.Deps...)
	if retProj.Type.Kind != irmodel.KindVoid {
		fmt.Fprintf(&b, " %s", retProj.Type.Name)
	}
	b.WriteString("\n\n")

	return Fragment{Key: irmodel.Key(t.FullName), Source: b.String()}, deps
}
