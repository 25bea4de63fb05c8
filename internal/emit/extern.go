package emit

import (
	"fmt"
	"strings"

	"github.com/kevinmiles/win32gen/internal/identifier"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// ExternMethod renders one P/Invoke MethodDef (spec.md §4.4): the raw
// ABI-exact overload always, and a friendly overload alongside it when any
// parameter qualifies (safe-handle substitution, size-indexed array promoted
// to a slice, BOOL→bool, or the method's own BOOL return). The generated
// function lives at package scope, named with e.ClassName as a prefix —
// Go has no nested static classes, so the "static class hosting extern
// methods" configuration knob becomes an identifier prefix instead (spec.md
// §6's ClassName option, effect unchanged: controls one identifier).
func (e *Emitter) ExternMethod(m *mdindex.MethodDef, variant irmodel.Variant) (Fragment, []irmodel.EmissionKey) {
	friendly := variant == irmodel.VariantFriendly
	procName := m.SysCallName
	if procName == "" {
		procName = m.Name
	}

	funcName := e.ClassName + "_" + identifier.CapSafeName(m.Name)
	if friendly {
		funcName += "Friendly"
	}

	params, deps := e.externParams(m, friendly)
	retProj := e.projector.Project(m.ReturnType, project.CtxReturn, friendly)
	deps = append(deps, retProj.Deps...)
	hasRet := retProj.Type.Kind != irmodel.KindVoid

	var b strings.Builder
	fmt.Fprintf(&b, "func %s(", funcName)
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", p.name, p.renderType.Name)
	}
	b.WriteString(")")
	if hasRet {
		if retProj.Type.Kind == irmodel.KindStruct && retProj.Type.IsHandle {
			// castFromUintptr's New<Wrapper>(...) yields a pointer.
			b.WriteString(" *")
			b.WriteString(retProj.Type.Name)
		} else {
			fmt.Fprintf(&b, " %s", retProj.Type.Name)
		}
	}
	b.WriteString(" {\n")

	for _, p := range params {
		b.WriteString(p.prologue)
	}

	procVar := "p" + identifier.CapSafeName(m.Name)
	libVar := "lib" + identifier.CapSafeName(strings.ToLower(m.SysCallDll))
	fmt.Fprintf(&b, "\taddr := lazyAddr(&%s, %s, %q)\n", procVar, libVar, procName)

	if hasRet {
		b.WriteString("\tret, _, _ := ")
	} else {
		b.WriteString("\t_, _, _ = ")
	}
	b.WriteString("syscall.SyscallN(addr")
	for _, p := range params {
		fmt.Fprintf(&b, ", %s", p.callExpr)
	}
	b.WriteString(")\n")

	for _, p := range params {
		b.WriteString(p.epilogue)
	}

	if hasRet {
		fmt.Fprintf(&b, "\treturn %s\n", castFromUintptr(retProj.Type, "ret"))
	}
	b.WriteString("}\n\n")

	key := irmodel.EmissionKey{EntityFullName: m.SysCallDll + "!" + procName, Variant: variant}
	return Fragment{Key: key, Source: b.String(), Module: strings.ToLower(m.SysCallDll), ProcVar: procVar}, deps
}

type renderedExternParam struct {
	name       string
	renderType *irmodel.Type
	callExpr   string
	prologue   string
	epilogue   string
}

// externParams renders projectParams's result (shared with interfaceMethod)
// in the shape ExternMethod's call-site assembly already expects.
func (e *Emitter) externParams(m *mdindex.MethodDef, friendly bool) ([]renderedExternParam, []irmodel.EmissionKey) {
	projected, deps := e.projectParams(m.Params, project.CtxParam, friendly)
	out := make([]renderedExternParam, len(projected))
	for i, p := range projected {
		out[i] = renderedExternParam{
			name:       p.name,
			renderType: p.typ,
			callExpr:   strings.Join(p.callArgs, ", "),
		}
	}
	return out, deps
}
