package irmodel

import "syscall"

// Method is one vtable slot of an Interface, or the signature of a FuncType
// (delegate). spec.md §3 calls this MethodDef when it owns a type and names
// the same in/out/optional/marshalling-hint shape Param already carries.
type Method struct {
	Name       string
	Params     []*Param
	ReturnType *Type
}

// Interface is a TypeDef of kind interface (spec.md §3): identity GUID plus
// the inheritance chain and vtable-slot methods spec.md §4.4 requires be
// preserved in declaration order, recursively through every base.
type Interface struct {
	Name string
	IID  syscall.GUID

	// Extends lists direct base interfaces; internal/emit concatenates base
	// vtable slots ahead of this interface's own (spec.md §4.4: "the
	// inherited slots from every base interface (recursively, in
	// declaration order)").
	Extends []*Type
	Methods []*Method
}
