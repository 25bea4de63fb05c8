package emit

import (
	"fmt"
	"strings"

	"github.com/kevinmiles/win32gen/internal/identifier"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
)

// HandleTypedef renders a typedef'd handle struct (glossary) as a distinct
// named type over uintptr — nominal typing without the overhead of a
// single-field struct, since Go (unlike metadata's native-struct layout
// requirements) has no ABI reason to keep it a struct.
func (e *Emitter) HandleTypedef(t *mdindex.TypeDef) (Fragment, []irmodel.EmissionKey) {
	name := identifier.CapSafeName(t.Name)
	src := fmt.Sprintf("type %s uintptr\n\n", name)
	return Fragment{Key: irmodel.Key(t.FullName), Source: src}, nil
}

// SafeHandle renders the `<T>SafeHandle` wrapper named by a
// SafeHandleDescriptor (spec.md §4.4): a scoped-release resource holder
// whose ReleaseHandle invokes the release function and returns the success
// predicate appropriate to its classification (spec.md §4.3 step 3). It also
// schedules the release function's EmissionKey (invariant 3: "its release
// method is also emitted").
func (e *Emitter) SafeHandle(handle *mdindex.TypeDef, desc *irmodel.SafeHandleDescriptor, releaseModule string) (Fragment, []irmodel.EmissionKey) {
	handleName := identifier.CapSafeName(handle.Name)
	wrapperName := desc.WrapperTypeName()
	releaseFunc := e.ClassName + "_" + identifier.CapSafeName(desc.ReleaseFuncName)

	var b strings.Builder
	fmt.Fprintf(&b, "// %s owns a %s and releases it via %s in ReleaseHandle.\n", wrapperName, handleName, desc.ReleaseFuncName)
	fmt.Fprintf(&b, "type %s struct {\n\thandle %s\n\treleased bool\n}\n\n", wrapperName, handleName)
	fmt.Fprintf(&b, "func New%s(h %s) *%s {\n\ts := &%s{handle: h}\n\truntime.SetFinalizer(s, (*%s).ReleaseHandle)\n\treturn s\n}\n\n",
		wrapperName, handleName, wrapperName, wrapperName, wrapperName)
	fmt.Fprintf(&b, "func (s *%s) Handle() %s { return s.handle }\n\n", wrapperName, handleName)

	fmt.Fprintf(&b, "func (s *%s) ReleaseHandle() bool {\n", wrapperName)
	b.WriteString("\tif s.released {\n\t\treturn true\n\t}\n")
	if releaseSuccessExpr(desc.Classification) == "true" {
		// ReleaseVoid and ReleaseOther never reference the release call's
		// result, so binding it to ret would leave it unused.
		fmt.Fprintf(&b, "\t%s(s.handle)\n", releaseFunc)
	} else {
		fmt.Fprintf(&b, "\tret := %s(s.handle)\n", releaseFunc)
	}
	b.WriteString("\ts.released = true\n")
	b.WriteString("\truntime.SetFinalizer(s, nil)\n")
	b.WriteString("\treturn " + releaseSuccessExpr(desc.Classification) + "\n")
	b.WriteString("}\n\n")

	deps := []irmodel.EmissionKey{
		irmodel.Key(handle.FullName),
		irmodel.Key(releaseEntityName(releaseModule, desc.ReleaseFuncName)).WithVariant(irmodel.VariantRaw),
	}
	return Fragment{Key: irmodel.Key(handle.FullName).WithVariant(irmodel.VariantSafeHandle), Source: b.String()}, deps
}

func releaseEntityName(module, funcName string) string {
	return module + "!" + funcName
}

func releaseSuccessExpr(c irmodel.ReleaseClassification) string {
	switch c {
	case irmodel.ReleaseBoolLike:
		return "ret != 0"
	case irmodel.ReleaseLStatus:
		return "ret == 0"
	case irmodel.ReleaseNTStatus:
		return "int32(ret) >= 0"
	case irmodel.ReleaseHResult:
		return "int32(ret) >= 0"
	case irmodel.ReleaseVoid:
		return "true"
	default:
		return "true"
	}
}
