package irmodel

// LayoutKind mirrors TypeDef's layout attribute (spec.md §3): sequential
// (fields laid out in declaration order, the default) or explicit (each
// field carries its own byte offset, used by overlay-heavy Win32 structs).
type LayoutKind int

const (
	LayoutSequential LayoutKind = iota
	LayoutExplicit
)

// Struct is a TypeDef of kind struct or union (spec.md §3). Unions are
// modeled as a Struct with UnionFields populated instead of Fields — the
// same shape zzl-go-winapi-gen's gomodel.Struct uses, kept here because the Go
// emission for both (common leading fields + one shared backing member) is
// genuinely shared code in internal/emit.
type Struct struct {
	Name   string
	Layout LayoutKind
	Pack   int // alignment pack, 0 = default

	Fields      []*Field // struct: every field, in metadata order
	UnionFields []*Field // union: alternative views over the same storage

	// Extensible marks the type as emitted with a user-extension point
	// (spec.md invariant 7) — always true for struct/union in this model.
	// internal/emit does not read it: emit.Struct writes the extension-point
	// doc comment for every struct and union.
	Extensible bool
}
