package emit

import (
	"fmt"
	"strings"

	"github.com/kevinmiles/win32gen/internal/identifier"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// Interface renders a COM interface TypeDef (spec.md §4.4) as a vtable-
// struct — not a Go interface — so call sites can go through
// syscall.SyscallN directly, the same structural choice zzl-go-winapi-gen's
// genInterface makes. Base interfaces are scheduled for emission (their
// vtable slots are concatenated ahead of this interface's own, recursively,
// by virtue of each base interface itself embedding its own base).
func (e *Emitter) Interface(t *mdindex.TypeDef, friendly bool) (Fragment, []irmodel.EmissionKey) {
	name := identifier.CapSafeName(t.Name)
	var b strings.Builder
	var deps []irmodel.EmissionKey

	iid, _ := e.idx.GetIID(t)
	fmt.Fprintf(&b, "var IID_%s = %s\n\n", name, identifier.GuidLiteral(iid))

	var baseName string
	if len(t.InterfaceDef.Extends) > 0 {
		base := t.InterfaceDef.Extends[0]
		baseName = identifier.CapSafeName(base.Name)
		deps = append(deps, irmodel.Key(base.FullName))
	}

	fmt.Fprintf(&b, "type %sVtbl struct {\n", name)
	if baseName != "" {
		fmt.Fprintf(&b, "\t%sVtbl\n", baseName)
	}
	for _, m := range t.InterfaceDef.Methods {
		fmt.Fprintf(&b, "\t%s uintptr\n", identifier.CapSafeName(m.Name))
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// %s is extensible: user code may declare additional methods on it\n", name)
	fmt.Fprintf(&b, "// in this package.\ntype %s struct {\n", name)
	if baseName == "" {
		b.WriteString("\tLpVtbl *[1024]uintptr\n")
	} else {
		fmt.Fprintf(&b, "\t%s\n", baseName)
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (v *%s) Vtbl() *%sVtbl {\n\treturn (*%sVtbl)(unsafe.Pointer(v.rootVtblPtr()))\n}\n\n", name, name, name)
	fmt.Fprintf(&b, "func (v *%s) rootVtblPtr() unsafe.Pointer {\n", name)
	if baseName == "" {
		b.WriteString("\treturn unsafe.Pointer(v.LpVtbl)\n")
	} else {
		fmt.Fprintf(&b, "\treturn v.%s.rootVtblPtr()\n", baseName)
	}
	b.WriteString("}\n\n")

	for _, m := range t.InterfaceDef.Methods {
		src, mdeps := e.interfaceMethod(name, m, false)
		b.WriteString(src)
		deps = append(deps, mdeps...)
		if friendly && e.MethodQualifiesFriendly(m) {
			src, mdeps := e.interfaceMethod(name, m, true)
			b.WriteString(src)
			deps = append(deps, mdeps...)
		}
	}

	return Fragment{Key: irmodel.Key(t.FullName), Source: b.String()}, deps
}

func (e *Emitter) interfaceMethod(ifaceName string, m *mdindex.MethodDef, friendly bool) (string, []irmodel.EmissionKey) {
	var b strings.Builder

	methodName := identifier.CapSafeName(m.Name)
	if friendly {
		methodName += "Friendly"
	}

	params, deps := e.projectParams(m.Params, project.CtxInterfaceMethodParam, friendly)

	retProj := e.projector.Project(m.ReturnType, project.CtxReturn, friendly)
	deps = append(deps, retProj.Deps...)
	hasRet := retProj.Type.Kind != irmodel.KindVoid

	fmt.Fprintf(&b, "func (v *%s) %s(", ifaceName, methodName)
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", p.name, p.typ.Name)
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

	if hasRet {
		b.WriteString("\tret, _, _ := ")
	} else {
		b.WriteString("\t_, _, _ = ")
	}
	fmt.Fprintf(&b, "syscall.SyscallN(v.Vtbl().%s, uintptr(unsafe.Pointer(v))", identifier.CapSafeName(m.Name))
	for _, p := range params {
		for _, arg := range p.callArgs {
			fmt.Fprintf(&b, ", %s", arg)
		}
	}
	b.WriteString(")\n")
	if hasRet {
		fmt.Fprintf(&b, "\treturn %s\n", castFromUintptr(retProj.Type, "ret"))
	}
	b.WriteString("}\n\n")

	return b.String(), deps
}

// MethodQualifiesFriendly mirrors spec.md §4.4's "any parameter qualifies"
// rule for both COM methods and P/Invoke methods (Interface calls it per
// method, and generator.go's methodSeedKeys calls it to decide whether to
// schedule a VariantFriendly sibling of an extern method at all): a BOOL
// return/param, a handle return or parameter with a safe-handle wrapper
// available, or a size-indexed array parameter promotable to a slice.
func (e *Emitter) MethodQualifiesFriendly(m *mdindex.MethodDef) bool {
	if m.ReturnType != nil && m.ReturnType.Name == "BOOL" {
		return true
	}
	if m.ReturnType != nil && m.ReturnType.Struct {
		if _, ok := e.idx.GetCustomAttribute(m.ReturnType, mdindex.NativeTypedef); ok {
			if _, ok := e.policy.Resolve(m.ReturnType); ok {
				return true
			}
		}
	}
	for _, p := range m.Params {
		if p.Type == nil {
			continue
		}
		if p.Type.Name == "BOOL" {
			return true
		}
		if p.Type.Struct {
			if _, ok := e.idx.GetCustomAttribute(p.Type, mdindex.NativeTypedef); ok {
				if _, ok := e.policy.Resolve(p.Type); ok {
					return true
				}
			}
		}
		if _, ok := e.idx.GetParamCustomAttribute(p, mdindex.ArraySizeInfo); ok {
			return true
		}
	}
	return false
}
