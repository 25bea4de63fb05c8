package irmodel

// EnumValue is one named constant of an Enum, including members folded back
// in from a secondary AssociatedEnum-tagged constant (spec.md §4.4).
type EnumValue struct {
	Name  string
	Value interface{}
}

// Enum is a TypeDef of kind enum (spec.md §3): an underlying integer type
// plus its members, with Flags marking bitmask enums (spec.md doesn't name a
// different rendering for flags enums, but zzl-go-winapi-gen's codegen.go keeps a
// "// flags" doc comment distinguishing them, which this model preserves).
type Enum struct {
	Name     string
	BaseType *Type
	Flags    bool
	Values   []*EnumValue
}
