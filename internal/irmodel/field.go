package irmodel

// Field is a FieldDef (spec.md §3): name, type, and the marshalling hints
// that matter for field-context projection — fields are always projected
// verbatim (invariant 6), so a Field never carries the friendly-projection
// bits Param does, only the ones layout needs.
type Field struct {
	Name string
	Type *Type

	// FixedArrayLength, when > 0, marks a fixed-length inline array field
	// (spec.md §4.4: "Fixed-length array fields → fixed buffers").
	FixedArrayLength int

	// Bitfield, when non-nil, marks a field that shares backing storage with
	// others and is emitted as an accessor property (spec.md §4.4).
	Bitfield *BitfieldInfo

	// ConstantValue is set for a literal field value (rare, but spec.md §3
	// allows FieldDef to carry one).
	ConstantValue interface{}
}

// BitfieldInfo describes one bitfield slice of a backing scalar.
type BitfieldInfo struct {
	BackingType *Type
	BitOffset   int
	BitWidth    int
}
