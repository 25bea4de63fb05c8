// Package project is the Type Projector (C2, spec.md §4.2): it turns a
// metadata type signature into an irmodel.ProjectedType, applying the
// context-sensitive rules (BOOL↔bool, handle↔safe handle, unbounded
// array↔pointer, LARGE_INTEGER↔int64) the raw metadata shape alone can't answer. It
// generalizes zzl-go-winapi-gen's gomodel.ModelParser.parseType,
// which does the equivalent walk but only ever produces one rendering per
// metadata type — this projector produces a different irmodel.Type for the
// same metadata type depending on Context and friendliness.
package project

import (
	"go.uber.org/zap"

	"github.com/zzl/go-winmd/apimodel"

	"github.com/kevinmiles/win32gen/internal/handlepolicy"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
)

// Projector resolves metadata type signatures to irmodel.ProjectedTypes.
type Projector struct {
	idx    *mdindex.Index
	policy *handlepolicy.Policy
	logger *zap.Logger

	// replacements substitutes well-known metadata types wholesale, the same
	// role zzl-go-winapi-gen's main.go typeReplaceMap plays for System.Guid and
	// friends, generalized to cover LARGE_INTEGER/ULARGE_INTEGER (spec.md
	// §4.2's "used as a scalar" special case).
	replacements map[string]*irmodel.Type
}

func New(idx *mdindex.Index, policy *handlepolicy.Policy, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{
		idx:          idx,
		policy:       policy,
		logger:       logger,
		replacements: defaultReplacements(),
	}
}

func defaultReplacements() map[string]*irmodel.Type {
	return map[string]*irmodel.Type{
		"System.Guid":                          irmodel.GUID,
		"Windows.Win32.Foundation.LARGE_INTEGER":  {Name: "int64", Kind: irmodel.KindPrimitive, Size: irmodel.TypeSize{TotalSize: 8, AlignSize: 8}},
		"Windows.Win32.Foundation.ULARGE_INTEGER": {Name: "uint64", Kind: irmodel.KindPrimitive, Size: irmodel.TypeSize{TotalSize: 8, AlignSize: 8}, Unsigned: true},
	}
}

// Project is the single entry point every emitter calls. friendly only
// matters at call boundaries (Context != CtxField): it is ignored for field
// projections, which are always rendered verbatim (spec.md invariant 6).
func (p *Projector) Project(apiType *mdindex.TypeDef, ctx Context, friendly bool) irmodel.ProjectedType {
	if apiType == nil {
		return irmodel.Projected(&irmodel.Type{Name: "unsafe.Pointer", Kind: irmodel.KindPointer, Pointer: true})
	}
	if repl, ok := p.replacements[apiType.FullName]; ok {
		return irmodel.Projected(repl)
	}

	apiType = p.idx.ResolveRef(apiType)

	switch {
	case apiType.Pointer:
		return p.projectPointer(apiType, ctx, friendly)
	case apiType.Array:
		return p.projectArray(apiType, ctx)
	case apiType.Struct:
		return p.projectStruct(apiType, ctx, friendly)
	case apiType.Union:
		return irmodel.Projected(&irmodel.Type{Name: apiType.Name, Kind: irmodel.KindStruct, Size: p.sizeOf(apiType)},
			irmodel.Key(apiType.FullName))
	case apiType.Func:
		return irmodel.Projected(&irmodel.Type{Name: apiType.Name, Kind: irmodel.KindFunc, Pointer: true},
			irmodel.Key(apiType.FullName))
	case apiType.Interface:
		return irmodel.Projected(&irmodel.Type{Name: "*" + apiType.Name, Kind: irmodel.KindInterface, Pointer: true},
			irmodel.Key(apiType.FullName))
	case apiType.Primitive:
		return p.projectPrimitive(apiType, ctx, friendly)
	}

	switch apiType.Kind {
	case apimodel.TypeEnum:
		return irmodel.Projected(&irmodel.Type{Name: apiType.Name, Kind: irmodel.KindPrimitive, Size: p.sizeOf(apiType)},
			irmodel.Key(apiType.FullName))
	case apimodel.TypeString:
		return irmodel.Projected(&irmodel.Type{Name: "*uint16", Kind: irmodel.KindString, Pointer: true})
	case apimodel.TypeVoid:
		return irmodel.Projected(&irmodel.Type{Name: "", Kind: irmodel.KindVoid})
	case apimodel.TypeGenericParam:
		return irmodel.Projected(&irmodel.Type{Name: apiType.Name, Kind: irmodel.KindGenericParam})
	default:
		// WinRT classes (apimodel.TypeClass) and anything else outside the
		// Win32-metadata surface this module targets: fall back to an opaque
		// pointer rather than failing the whole generation request, mirroring
		// how zzl-go-winapi-gen's genCastToUintptr treats types it can't name.
		p.logger.Debug("projecting unsupported type kind as opaque pointer",
			zap.String("type", apiType.FullName), zap.Int("kind", int(apiType.Kind)))
		return irmodel.Projected(&irmodel.Type{Name: "unsafe.Pointer", Kind: irmodel.KindPointer, Pointer: true})
	}
}

func (p *Projector) projectPointer(apiType *mdindex.TypeDef, ctx Context, friendly bool) irmodel.ProjectedType {
	pointee := p.idx.ResolveRef(apiType.PointerTo)
	inner := p.Project(pointee, CtxField, false)

	if inner.Type.Kind == irmodel.KindInterface {
		// The pointee's own projection is already "*IFoo"; a metadata
		// pointer-to-interface doesn't add a second star (COM interfaces are
		// always passed by the single pointer their vtable already implies).
		return inner
	}

	t := &irmodel.Type{
		Name:    "*" + inner.Type.Name,
		Kind:    irmodel.KindPointer,
		Pointer: true,
	}
	deps := append([]irmodel.EmissionKey{}, inner.Deps...)
	if pointee != nil && needsDefinitionDep(pointee) {
		key := irmodel.Key(pointee.FullName)
		present := false
		for _, d := range deps {
			if d == key {
				present = true
				break
			}
		}
		if !present {
			deps = append(deps, key)
		}
	}
	return irmodel.Projected(t, deps...)
}

// needsDefinitionDep reports whether a pointed-to type has its own emitted
// definition (struct/union/enum/func/interface/handle) as opposed to being a
// primitive or string that needs no fragment of its own.
func needsDefinitionDep(t *mdindex.TypeDef) bool {
	if t.Primitive {
		return false
	}
	switch t.Kind {
	case apimodel.TypeString, apimodel.TypeVoid, apimodel.TypeGenericParam:
		return false
	}
	return true
}

func (p *Projector) projectArray(apiType *mdindex.TypeDef, ctx Context) irmodel.ProjectedType {
	elem := p.Project(apiType.ArrayDef.ElementType, CtxField, false)

	if apiType.ArrayDef.DimSizes == nil {
		// An array type with no fixed dimension is metadata's shape for an
		// "out" pointer parameter (spec.md §4.2): projects as a pointer to
		// the element type, not a Go array or slice.
		t := &irmodel.Type{Name: "*" + elem.Type.Name, Kind: irmodel.KindPointer, Pointer: true}
		return irmodel.Projected(t, elem.Deps...)
	}

	n := apiType.ArrayDef.DimSizes[0]
	t := &irmodel.Type{
		Name: "[" + itoa(n) + "]" + elem.Type.Name,
		Kind: irmodel.KindArray,
		Size: irmodel.TypeSize{TotalSize: elem.Type.Size.TotalSize * n, AlignSize: elem.Type.Size.AlignSize},
	}
	return irmodel.Projected(t, elem.Deps...)
}

func (p *Projector) projectStruct(apiType *mdindex.TypeDef, ctx Context, friendly bool) irmodel.ProjectedType {
	if _, ok := p.idx.GetCustomAttribute(apiType, mdindex.NativeTypedef); ok {
		return p.projectHandle(apiType, ctx, friendly)
	}
	return irmodel.Projected(&irmodel.Type{Name: apiType.Name, Kind: irmodel.KindStruct, Size: p.sizeOf(apiType)},
		irmodel.Key(apiType.FullName))
}

// projectHandle implements spec.md §4.3's substitution: a handle typedef
// always projects as its raw uintptr-shaped self in a field context
// (invariant 6 — no friendly substitution inside a struct layout), and as
// either the raw typedef or the `<T>SafeHandle` wrapper at a call boundary
// depending on friendliness and whether a SafeHandleDescriptor exists at all.
func (p *Projector) projectHandle(apiType *mdindex.TypeDef, ctx Context, friendly bool) irmodel.ProjectedType {
	raw := &irmodel.Type{Name: apiType.Name, Kind: irmodel.KindPrimitive, Pointer: true, IsHandle: true}

	if !ctx.isCallBoundary() || !friendly {
		return irmodel.Projected(raw, irmodel.Key(apiType.FullName))
	}

	desc, ok := p.policy.Resolve(apiType)
	if !ok {
		return irmodel.Projected(raw, irmodel.Key(apiType.FullName))
	}

	wrapper := &irmodel.Type{Name: desc.WrapperTypeName(), Kind: irmodel.KindStruct, IsHandle: true}
	return irmodel.Projected(wrapper, irmodel.Key(apiType.FullName).WithVariant(irmodel.VariantSafeHandle))
}

func (p *Projector) projectPrimitive(apiType *mdindex.TypeDef, ctx Context, friendly bool) irmodel.ProjectedType {
	if apiType.Name == "BOOL" {
		if ctx.isCallBoundary() && friendly {
			return irmodel.Projected(&irmodel.Type{Name: "bool", Kind: irmodel.KindPrimitive, IsBool: true,
				Size: irmodel.TypeSize{TotalSize: 4, AlignSize: 4}})
		}
		return irmodel.Projected(irmodel.BOOL)
	}

	t := &irmodel.Type{
		Name:     apiType.Name,
		Kind:     irmodel.KindPrimitive,
		Size:     p.sizeOf(apiType),
		Unsigned: apiType.Unsigned,
		Pointer:  apiType.Name == "uintptr",
	}
	return irmodel.Projected(t)
}

func (p *Projector) sizeOf(apiType *mdindex.TypeDef) irmodel.TypeSize {
	return irmodel.TypeSize{TotalSize: apiType.Size, AlignSize: apiType.Size}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
