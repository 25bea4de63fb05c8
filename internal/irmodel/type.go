// Package irmodel is the derived model of spec.md §3: ProjectedType,
// EmissionKey, SafeHandleDescriptor, and entity shapes (Struct, Enum,
// Interface, FuncType, Method, Const, HandleTypedef). internal/emit renders
// from mdindex entities and uses only Type, ProjectedType, EmissionKey and
// SafeHandleDescriptor from here. It generalizes zzl-go-winapi-gen's
// gomodel package: same shape of IR, but carrying the extra bits (SizeConst,
// SizeParamIndex, ownership/RAIIFree metadata, in/out/optional flags) the
// friendly-overload and safe-handle machinery needs and zzl-go-winapi-gen's
// raw-syscall-only generator never had to track.
package irmodel

// TypeKind tags the shape a Type projects to.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindString
	KindPointer
	KindStruct
	KindFunc
	KindArray
	KindInterface
	KindGenericParam
	KindVoid
)

// TypeSize mirrors the ABI layout facts the struct-size and union-size
// calculators need: total size and required alignment, both in bytes.
type TypeSize struct {
	TotalSize int
	AlignSize int
}

// PtrSize32 and PtrSize64 are the pointer widths of the 32- and 64-bit
// Windows syscall ABIs. internal/project does not use them: it takes type
// sizes from the metadata's own Size values.
const PtrSize32 = 4
const PtrSize64 = 8

// Type is a projected type expression: a Go type name plus the facts the
// projector and emitters need to decide marshaling (BOOL↔bool, handle↔safe
// handle, array↔span) without re-deriving them from the name string.
type Type struct {
	Name     string // the rendered Go type expression, e.g. "*HWND", "[]uint16"
	Kind     TypeKind
	Size     TypeSize
	Unsigned bool
	Pointer  bool // uintptr-shaped (handles, IntPtr) rather than a Go pointer

	// IsHandle marks a typedef'd handle struct (spec.md glossary): the
	// projector consults internal/handlepolicy for these before deciding
	// between the raw typedef and a safe-handle substitution.
	IsHandle bool
	// IsBool marks the metadata BOOL typedef specifically, since BOOL↔bool
	// projection depends on context (field vs. call boundary) rather than
	// on the type alone (spec.md §4.2, invariant 6).
	IsBool bool

	GenericArgs []*Type
}

func (t *Type) Clone() *Type {
	c := *t
	c.GenericArgs = append([]*Type(nil), t.GenericArgs...)
	return &c
}

// GUID is the shared projection of System.Guid: a 16-byte, 4-byte-aligned
// struct rendered as syscall.GUID, grounded on zzl-go-winapi-gen's main.go type
// replacement map entry for "System.Guid".
var GUID = &Type{
	Name: "syscall.GUID",
	Kind: KindStruct,
	Size: TypeSize{TotalSize: 16, AlignSize: 4},
}

// BOOL is the Win32 32-bit boolean typedef, projected verbatim in field
// contexts and to native bool only at call boundaries (spec.md §4.2).
var BOOL = &Type{
	Name:   "BOOL",
	Kind:   KindPrimitive,
	Size:   TypeSize{TotalSize: 4, AlignSize: 4},
	IsBool: true,
}
