package irmodel

// ProjectedType is the Type Projector's (C2) return value (spec.md §3): a
// type expression plus every EmissionKey its full definition depends on.
// internal/project returns one of these per projection; callers splice
// .Type into the Field/Param/Method they're building and feed .Deps into
// the pending set internal/accumulate drains.
type ProjectedType struct {
	Type *Type
	Deps []EmissionKey
}

func Projected(t *Type, deps ...EmissionKey) ProjectedType {
	return ProjectedType{Type: t, Deps: deps}
}
