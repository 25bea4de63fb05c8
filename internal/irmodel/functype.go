package irmodel

import "syscall"

// FuncType is a TypeDef of kind delegate (spec.md §3/§4.4): a function-
// pointer type with a translated signature. IID is non-nil for delegates
// that also carry COM identity (rare, but zzl-go-winapi-gen's codegen.go handles
// it — see the `ft.IID != nil` branch it special-cases).
type FuncType struct {
	Name       string
	Params     []*Param
	ReturnType *Type
	IID        *syscall.GUID
}
