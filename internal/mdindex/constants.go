package mdindex

// Top-level manifest constants live on each namespace's pseudo-type the same
// way P/Invoke methods do — grounded directly on zzl-go-winapi-gen's
// gomodel.ModelParser.parsePseudo, which walks `pseudoDef.Constants`
// alongside `pseudoDef.Methods` to build pkg.Consts.
func (idx *Index) allPseudoConstants() []*ConstantRef {
	var out []*ConstantRef
	for _, ns := range idx.apiModel.AllNamespaces {
		for _, t := range ns.Types {
			if !t.Pseudo || t.PseudoDef == nil {
				continue
			}
			out = append(out, t.PseudoDef.Constants...)
		}
	}
	return out
}

// IterAllConstants enumerates every top-level manifest constant across every
// namespace (spec.md §4.7's "generate all").
func (idx *Index) IterAllConstants() []*ConstantRef {
	return idx.allPseudoConstants()
}

// FindConstant resolves a top-level constant by exact name.
func (idx *Index) FindConstant(name string) (*ConstantRef, bool) {
	for _, c := range idx.allPseudoConstants() {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// AssociatedConstants returns every top-level constant tagged with
// AssociatedEnum pointing at enumFullName — members win32metadata models as
// manifest constants rather than enum fields, merged back in by
// internal/emit's Enum (spec.md §4.4).
func (idx *Index) AssociatedConstants(enumFullName string) []*ConstantRef {
	var out []*ConstantRef
	for _, c := range idx.allPseudoConstants() {
		attr, ok := findAttribute(c.Attributes, AssociatedEnum)
		if !ok || len(attr.Args) == 0 {
			continue
		}
		target, ok := attr.Args[0].(string)
		if !ok {
			continue
		}
		if target == enumFullName {
			out = append(out, c)
		}
	}
	return out
}
