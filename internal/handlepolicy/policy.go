// Package handlepolicy is the Handle Policy (C3, spec.md §4.3): given a
// handle typedef, decide whether it has an associated release function and,
// if so, which ReleaseClassification its safe-handle wrapper should use.
package handlepolicy

import (
	"strings"

	"go.uber.org/zap"

	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
)

// classificationByReturnTypeName matches spec.md §4.3 step 3: BOOL-like
// (nonzero = success), LSTATUS (0 = success), NTSTATUS (>=0 = success),
// HRESULT (>=0 = success), void, or other. Matching is by the release
// function's declared return-type name, which is how win32metadata itself
// distinguishes these (they are all distinct typedefs over int32/uint32,
// not a single shared "status" type).
var classificationByReturnTypeName = map[string]irmodel.ReleaseClassification{
	"BOOL":     irmodel.ReleaseBoolLike,
	"LSTATUS":  irmodel.ReleaseLStatus,
	"NTSTATUS": irmodel.ReleaseNTStatus,
	"HRESULT":  irmodel.ReleaseHResult,
}

// Policy resolves SafeHandleDescriptors against an open metadata index.
type Policy struct {
	idx    *mdindex.Index
	logger *zap.Logger
}

func New(idx *mdindex.Index, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{idx: idx, logger: logger}
}

// Resolve implements spec.md §4.3's four steps for one handle typedef. It
// returns (nil, false) — not an error — whenever the handle simply doesn't
// qualify for a safe-handle wrapper; that is an ordinary, expected outcome
// (most handle typedefs have no RAIIFree attribute at all), not a failure.
func (p *Policy) Resolve(handle *mdindex.TypeDef) (*irmodel.SafeHandleDescriptor, bool) {
	if p.idx.HasNamespaceHandleAttribute(handle) {
		p.logger.Debug("handle excluded from safe-handle generation: namespace handle",
			zap.String("type", handle.Name))
		return nil, false
	}

	attr, ok := p.idx.GetCustomAttribute(handle, mdindex.RAIIFree)
	if !ok || len(attr.Args) == 0 {
		return nil, false
	}
	releaseFuncName, ok := attr.Args[0].(string)
	if !ok || releaseFuncName == "" {
		return nil, false
	}

	releaseMethod, ok := p.idx.FindMethodAnywhere(releaseFuncName)
	if !ok {
		p.logger.Warn("RAIIFree names a release function absent from metadata",
			zap.String("type", handle.Name), zap.String("release_func", releaseFuncName))
		return nil, false
	}

	classification := classify(releaseMethod)

	desc := &irmodel.SafeHandleDescriptor{
		HandleType:      &irmodel.Type{Name: handle.Name, Kind: irmodel.KindPrimitive, IsHandle: true, Pointer: true},
		ReleaseFuncName: releaseFuncName,
		Classification:  classification,
	}
	return desc, true
}

func classify(release *mdindex.MethodDef) irmodel.ReleaseClassification {
	retTypeName := ""
	if release.ReturnType != nil {
		retTypeName = strings.TrimPrefix(release.ReturnType.Name, "*")
	}
	if retTypeName == "" || retTypeName == "void" || retTypeName == "Void" {
		return irmodel.ReleaseVoid
	}
	if c, ok := classificationByReturnTypeName[retTypeName]; ok {
		return c
	}
	return irmodel.ReleaseOther
}
