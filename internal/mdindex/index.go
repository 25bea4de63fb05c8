// Package mdindex is the Metadata Index (C1, spec.md §4.1): random-access
// and name lookup over types, methods, fields, and constants read from a
// precompiled Win32 metadata file. It is a thin query layer over
// github.com/zzl/go-winmd's mdmodel/apimodel readers, grounded directly on
// how zzl-go-winapi-gen drives them in cmd/win32api-gen/main.go
// and gomodel.ModelParser — but restructured from "eagerly build every
// namespace's package" into "answer one lookup at a time", since the Type
// Projector (C2) needs random access, not a pre-walked tree.
package mdindex

import (
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/zzl/go-winmd/apimodel"
	"github.com/zzl/go-winmd/mdmodel"

	werrors "github.com/kevinmiles/win32gen/internal/errors"
)

// TypeDef, MethodDef, FieldDef and ConstantRef are spec.md §3's "opaque
// handles into C1" — in practice the apimodel types the underlying reader
// already hands back, aliased here so the rest of this module names them
// the way the specification does without duplicating their fields.
type (
	TypeDef     = apimodel.Type
	MethodDef   = apimodel.Method
	FieldDef    = apimodel.Field
	ConstantRef = apimodel.Constant
	ParamDef    = apimodel.Param
)

// Index wraps one open metadata file for the lifetime of a generation
// session (spec.md §5: "opened once per generator ... released on explicit
// teardown").
type Index struct {
	mdModel  *mdmodel.Model
	apiModel *apimodel.Model
	logger   *zap.Logger

	// typeByFullName is built once at Open and never mutated afterward,
	// mirroring zzl-go-winapi-gen's ModelParser.addToApiTypeMap walk.
	typeByFullName map[string]*apimodel.Type
}

// Open parses the metadata file at path and builds the lookup index.
// typeReplacements is forwarded verbatim to apimodel.NewModelParser, letting
// callers substitute well-known types (System.Guid, LARGE_INTEGER, ...) the
// same way zzl-go-winapi-gen's main.go does.
func Open(mdFilePath string, typeReplacements map[string]*apimodel.Type, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("opening metadata file", zap.String("path", mdFilePath))

	mdModelParser := mdmodel.NewModelParser()
	mdModel, err := mdModelParser.Parse(mdFilePath)
	if err != nil {
		return nil, werrors.Wrap(werrors.MetadataCorrupt, mdFilePath, err)
	}

	apiModelParser := apimodel.NewModelParser(typeReplacements)
	apiModel := apiModelParser.Parse(mdModel)

	idx := &Index{
		mdModel:        mdModel,
		apiModel:       apiModel,
		logger:         logger,
		typeByFullName: make(map[string]*apimodel.Type),
	}
	for _, ns := range apiModel.AllNamespaces {
		for _, t := range ns.Types {
			idx.indexType(t)
		}
	}
	logger.Info("metadata index built",
		zap.Int("namespaces", len(apiModel.AllNamespaces)),
		zap.Int("types", len(idx.typeByFullName)))
	return idx, nil
}

// NewForTest builds an Index directly from an in-memory apimodel.Model,
// bypassing Open/mdmodel.Parse entirely. Every lookup on Index only ever
// reads the apiModel tree, so this lets other packages' tests (and this
// package's own) build small metadata fixtures without a real .winmd file.
func NewForTest(m *apimodel.Model) *Index {
	idx := &Index{
		apiModel:       m,
		logger:         zap.NewNop(),
		typeByFullName: make(map[string]*apimodel.Type),
	}
	for _, ns := range m.AllNamespaces {
		for _, t := range ns.Types {
			idx.indexType(t)
		}
	}
	return idx
}

func (idx *Index) indexType(t *apimodel.Type) {
	if t.Kind == apimodel.TypeRef {
		return
	}
	if _, ok := idx.typeByFullName[t.FullName]; !ok {
		idx.typeByFullName[t.FullName] = t
	}
	for _, nested := range t.NestedTypes {
		idx.indexType(nested)
	}
}

// Close releases the underlying metadata file handle. Safe to call once, at
// the end of a generation session (spec.md §5).
func (idx *Index) Close() error {
	idx.logger.Debug("closing metadata index")
	return idx.mdModel.Close()
}

// FindType resolves a TypeDef by namespace and short name.
func (idx *Index) FindType(namespace, name string) (*TypeDef, bool) {
	full := namespace + "." + name
	t, ok := idx.typeByFullName[full]
	return t, ok
}

// FindTypeByFullName resolves a TypeDef by its full dotted name.
func (idx *Index) FindTypeByFullName(fullName string) (*TypeDef, bool) {
	t, ok := idx.typeByFullName[fullName]
	return t, ok
}

// ResolveRef follows a TypeRef-kind Type to its definition. Types that are
// already definitions pass through unchanged.
func (idx *Index) ResolveRef(t *TypeDef) *TypeDef {
	if t == nil || t.Kind != apimodel.TypeRef {
		return t
	}
	if def, ok := idx.typeByFullName[t.FullName]; ok {
		return def
	}
	return t
}

// pseudoMethod pairs a method with the per-namespace pseudo-type it lives
// under, since Win32 P/Invoke entry points are metadata methods of a
// synthetic module-level type rather than a standalone top-level entity
// (the same shape zzl-go-winapi-gen's parsePseudo walk assumes).
type pseudoMethod struct {
	method *apimodel.Method
	owner  *apimodel.Type
}

func (idx *Index) allPseudoMethods() []pseudoMethod {
	var out []pseudoMethod
	for _, ns := range idx.apiModel.AllNamespaces {
		for _, t := range ns.Types {
			if !t.Pseudo || t.PseudoDef == nil {
				continue
			}
			for _, m := range t.PseudoDef.Methods {
				out = append(out, pseudoMethod{method: m, owner: t})
			}
		}
	}
	return out
}

// FindMethod resolves a P/Invoke method by its owning DLL and exported name.
func (idx *Index) FindMethod(module, name string) (*MethodDef, bool) {
	for _, pm := range idx.allPseudoMethods() {
		if strings.EqualFold(pm.method.SysCallDll, module) &&
			(pm.method.SysCallName == name || pm.method.Name == name) {
			return pm.method, true
		}
	}
	return nil, false
}

// FindMethodAnywhere resolves a P/Invoke method by name regardless of which
// module exports it; the first match wins, same as zzl-go-winapi-gen's "anywhere"
// lookups elsewhere in this pack's sibling generators.
func (idx *Index) FindMethodAnywhere(name string) (*MethodDef, bool) {
	for _, pm := range idx.allPseudoMethods() {
		if pm.method.SysCallName == name || pm.method.Name == name {
			return pm.method, true
		}
	}
	return nil, false
}

// ModulePattern is a parsed "module.glob" request (spec.md §4.1), e.g.
// "kernel32.*" selecting every export of kernel32.dll.
type ModulePattern struct {
	Module string
	Glob   string
}

// ParseModulePattern splits a "module.glob" pattern into its two halves.
func ParseModulePattern(pattern string) (ModulePattern, error) {
	pos := strings.IndexByte(pattern, '.')
	if pos < 0 {
		return ModulePattern{}, fmt.Errorf("module pattern %q must be of the form module.glob", pattern)
	}
	return ModulePattern{Module: pattern[:pos], Glob: pattern[pos+1:]}, nil
}

// IterMethodsByModulePattern enumerates every P/Invoke method exported by
// pattern's module whose name matches pattern's glob.
func (idx *Index) IterMethodsByModulePattern(pattern ModulePattern) []*MethodDef {
	var out []*MethodDef
	for _, pm := range idx.allPseudoMethods() {
		if !strings.EqualFold(pm.method.SysCallDll, pattern.Module) {
			continue
		}
		name := pm.method.SysCallName
		if name == "" {
			name = pm.method.Name
		}
		match, _ := path.Match(pattern.Glob, name)
		if match {
			out = append(out, pm.method)
		}
	}
	return out
}

// IterAllTopLevelTypes enumerates every non-pseudo top-level TypeDef across
// every namespace (spec.md §4.1): structs, unions, enums, delegates,
// interfaces, handle typedefs, classes.
func (idx *Index) IterAllTopLevelTypes() []*TypeDef {
	var out []*TypeDef
	for _, ns := range idx.apiModel.AllNamespaces {
		for _, t := range ns.Types {
			if t.Pseudo {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

// IterAllMethods enumerates every P/Invoke method across every namespace
// (spec.md §4.7's "generate all" needs both this and IterAllTopLevelTypes).
func (idx *Index) IterAllMethods() []*MethodDef {
	pms := idx.allPseudoMethods()
	out := make([]*MethodDef, len(pms))
	for i, pm := range pms {
		out[i] = pm.method
	}
	return out
}

// GetCustomAttribute looks up a single CustomAttribute of the given kind on
// a TypeDef. Field-level attributes use GetFieldCustomAttribute instead,
// since apimodel.Field and apimodel.Type are distinct Go types with their
// own, non-overlapping Attributes slices.
func (idx *Index) GetCustomAttribute(t *TypeDef, kind AttributeKind) (*CustomAttribute, bool) {
	return findAttribute(t.Attributes, kind)
}

// GetFieldCustomAttribute is GetCustomAttribute's field-level counterpart.
func (idx *Index) GetFieldCustomAttribute(f *FieldDef, kind AttributeKind) (*CustomAttribute, bool) {
	return findAttribute(f.Attributes, kind)
}

// GetParamCustomAttribute is GetCustomAttribute's parameter-level
// counterpart, used for the array-sizing attribute C2 needs off a P/Invoke
// or COM method parameter.
func (idx *Index) GetParamCustomAttribute(p *ParamDef, kind AttributeKind) (*CustomAttribute, bool) {
	return findAttribute(p.Attributes, kind)
}

// HasNamespaceHandleAttribute reports the dedicated marker attribute
// spec.md §4.3 uses to exclude "namespace handle" types from safe-handle
// generation even when a release function exists.
func (idx *Index) HasNamespaceHandleAttribute(t *TypeDef) bool {
	return t.HasAttribute(namespaceHandleAttributeFullName)
}

func findAttribute(attrs []*apimodel.Attribute, kind AttributeKind) (*CustomAttribute, bool) {
	fullName, ok := attributeFullNames[kind]
	if !ok {
		return nil, false
	}
	for _, a := range attrs {
		if a.Type.FullName == fullName || a.Type.Name == typeNameOf(fullName) {
			return &CustomAttribute{Kind: kind, Args: a.Args}, true
		}
	}
	return nil, false
}

func typeNameOf(fullName string) string {
	pos := strings.LastIndexByte(fullName, '.')
	if pos < 0 {
		return fullName
	}
	return fullName[pos+1:]
}
