package mdindex

import "path"

// NamespaceFilter is one entry of a parsed `--namespace` filter list
// (cmd/win32gen): a glob matched against a namespace's full name, optionally
// negated with a leading "!" — the Go-generator equivalent of zzl-go-winapi-gen's
// gomodel.ApiFilter.Namespaces, which the same cmd/win32api-gen/main.go flags
// populate with a literal mix of plain names, trailing "*" globs, and "!"-
// prefixed exclusions.
type NamespaceFilter struct {
	Glob   string
	Negate bool
}

// ParseNamespaceFilters splits a raw `--namespace` flag list into its parsed
// form. A nil or empty patterns slice means "every namespace".
func ParseNamespaceFilters(patterns []string) []NamespaceFilter {
	if len(patterns) == 0 {
		return nil
	}
	out := make([]NamespaceFilter, 0, len(patterns))
	for _, p := range patterns {
		if len(p) > 0 && p[0] == '!' {
			out = append(out, NamespaceFilter{Glob: p[1:], Negate: true})
			continue
		}
		out = append(out, NamespaceFilter{Glob: p})
	}
	return out
}

// namespaceMatches applies filters the way ApiFilter.Namespaces behaves: a
// namespace is excluded by any matching negated entry regardless of the
// positive entries, otherwise included if it matches at least one positive
// entry (or there are no positive entries at all, i.e. the filter list is
// purely exclusionary or empty).
func namespaceMatches(fullName string, filters []NamespaceFilter) bool {
	if len(filters) == 0 {
		return true
	}
	hasPositive := false
	matchedPositive := false
	for _, f := range filters {
		match, _ := path.Match(f.Glob, fullName)
		if f.Negate {
			if match {
				return false
			}
			continue
		}
		hasPositive = true
		if match {
			matchedPositive = true
		}
	}
	if !hasPositive {
		return true
	}
	return matchedPositive
}

// dllMatches reports whether dll belongs to allow, the parsed `--dll` list
// (ApiFilter.DllImports' equivalent). An empty allow list means every DLL is
// eligible.
func dllMatches(dll string, allow map[string]bool) bool {
	if len(allow) == 0 {
		return true
	}
	return allow[dll]
}

// IterTopLevelTypesInNamespaces is IterAllTopLevelTypes scoped to the
// namespaces filters selects (spec.md §4.7's "generate all", narrowed by
// cmd/win32gen's `--namespace` flag).
func (idx *Index) IterTopLevelTypesInNamespaces(filters []NamespaceFilter) []*TypeDef {
	var out []*TypeDef
	for _, ns := range idx.apiModel.AllNamespaces {
		if !namespaceMatches(ns.FullName, filters) {
			continue
		}
		for _, t := range ns.Types {
			if t.Pseudo {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

// IterMethodsInNamespaces is IterAllMethods scoped to filters and further
// narrowed to methods whose SysCallDll appears in allowDlls (cmd/win32gen's
// `--dll` flag; a nil/empty allowDlls means every DLL is eligible).
func (idx *Index) IterMethodsInNamespaces(filters []NamespaceFilter, allowDlls map[string]bool) []*MethodDef {
	var out []*MethodDef
	for _, ns := range idx.apiModel.AllNamespaces {
		if !namespaceMatches(ns.FullName, filters) {
			continue
		}
		for _, t := range ns.Types {
			if !t.Pseudo || t.PseudoDef == nil {
				continue
			}
			for _, m := range t.PseudoDef.Methods {
				if dllMatches(m.SysCallDll, allowDlls) {
					out = append(out, m)
				}
			}
		}
	}
	return out
}

// IterConstantsInNamespaces is IterAllConstants scoped to the namespaces
// filters selects.
func (idx *Index) IterConstantsInNamespaces(filters []NamespaceFilter) []*ConstantRef {
	var out []*ConstantRef
	for _, ns := range idx.apiModel.AllNamespaces {
		if !namespaceMatches(ns.FullName, filters) {
			continue
		}
		for _, t := range ns.Types {
			if !t.Pseudo || t.PseudoDef == nil {
				continue
			}
			out = append(out, t.PseudoDef.Constants...)
		}
	}
	return out
}
