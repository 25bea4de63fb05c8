package emit

import (
	"fmt"
	"strings"

	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// projectedParam is one rendered parameter, shared between externParams
// (P/Invoke) and interfaceMethod (COM): a Go-side name/type plus the one or
// more syscall.SyscallN call-site arguments it expands to — two, in the
// size-indexed-array span-promotion case below, in whichever order the
// native signature actually puts them.
type projectedParam struct {
	name     string
	typ      *irmodel.Type
	callArgs []string
}

// projectParams applies spec.md §4.2's size-indexed-array-to-slice
// promotion uniformly across both call shapes a friendly overload can take
// (P/Invoke's CtxParam and COM's CtxInterfaceMethodParam): the friendly
// signature drops the separate length parameter and rebuilds it from
// len(slice) at the call site, positioned by the actual relative index of
// the array parameter versus its ArraySizeInfo-named length parameter —
// never a fixed (length, pointer) literal order, since native Win32
// signatures put the buffer first far more often than not (WriteConsole,
// ReadFile) even though a few put the count first.
func (e *Emitter) projectParams(params []*mdindex.ParamDef, ctx project.Context, friendly bool) ([]projectedParam, []irmodel.EmissionKey) {
	var out []projectedParam
	var deps []irmodel.EmissionKey

	sizeParamOf := make(map[int]int) // array param index -> its length param index
	if friendly {
		for i, p := range params {
			if attr, ok := e.idx.GetParamCustomAttribute(p, mdindex.ArraySizeInfo); ok && len(attr.Args) > 0 {
				if idx, ok := attr.Args[0].(int); ok && idx >= 0 {
					sizeParamOf[i] = idx
				}
			}
		}
	}
	skipAsLengthParam := make(map[int]bool)
	for _, lenIdx := range sizeParamOf {
		skipAsLengthParam[lenIdx] = true
	}

	for i, p := range params {
		if skipAsLengthParam[i] {
			continue
		}
		name := paramName(p.Name)
		proj := e.projector.Project(p.Type, ctx, friendly)
		deps = append(deps, proj.Deps...)

		if lenIdx, ok := sizeParamOf[i]; ok && proj.Type.Kind == irmodel.KindPointer {
			elemType := strings.TrimPrefix(proj.Type.Name, "*")
			lenParam := params[lenIdx]
			lenProj := e.projector.Project(lenParam.Type, ctx, false)
			deps = append(deps, lenProj.Deps...)

			ptrExpr := fmt.Sprintf("uintptr(unsafe.Pointer(&%s[0]))", name)
			lenExpr := fmt.Sprintf("uintptr(len(%s))", name)
			callArgs := []string{ptrExpr, lenExpr}
			if lenIdx < i {
				callArgs = []string{lenExpr, ptrExpr}
			}
			sliceType := &irmodel.Type{Name: "[]" + elemType, Kind: irmodel.KindArray}
			out = append(out, projectedParam{name: name, typ: sliceType, callArgs: callArgs})
			continue
		}

		out = append(out, projectedParam{name: name, typ: proj.Type, callArgs: []string{castToUintptr(proj.Type, name)}})
	}
	return out, deps
}
