package emit

import (
	"fmt"
	"strings"

	"github.com/kevinmiles/win32gen/internal/identifier"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// Enum renders an enum TypeDef (spec.md §4.4): underlying integer type
// preserved, members merged with any AssociatedEnum-tagged constants that
// live outside the enum body in metadata.
func (e *Emitter) Enum(t *mdindex.TypeDef, associated []*mdindex.ConstantRef) (Fragment, []irmodel.EmissionKey) {
	name := identifier.CapSafeName(t.Name)
	baseProj := e.projector.Project(t.EnumDef.BaseType, project.CtxField, false)

	var b strings.Builder
	if t.EnumDef.Flags {
		b.WriteString("// flags\n")
	}
	fmt.Fprintf(&b, "type %s %s\n\n", name, baseProj.Type.Name)
	b.WriteString("const (\n")
	for _, v := range t.EnumDef.Values {
		fmt.Fprintf(&b, "\t%s %s = %#v\n", identifier.CapName(v.Name), name, v.Value)
	}
	for _, v := range associated {
		fmt.Fprintf(&b, "\t%s %s = %#v\n", identifier.CapName(v.Name), name, v.Value)
	}
	b.WriteString(")\n\n")

	return Fragment{Key: irmodel.Key(t.FullName), Source: b.String()}, baseProj.Deps
}
