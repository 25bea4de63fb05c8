// Package emit is the Entity Emitters (C4, spec.md §4.4): one renderer per
// metadata entity kind, each producing a Go source fragment plus the further
// EmissionKeys discovered while rendering it. Grounded on zzl-go-winapi-gen's
// (zzl-go-winapi-gen) codegen.go — genStruct, genInterface, genSysCall, and
// the const/enum blocks of GenPkg — generalized with the friendly-overload
// and safe-handle machinery zzl-go-winapi-gen's raw-syscall-only generator never
// needed.
package emit

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kevinmiles/win32gen/internal/handlepolicy"
	"github.com/kevinmiles/win32gen/internal/identifier"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// Fragment is one rendered declaration plus the key that names it. Module
// and ProcVar are set only for extern-method fragments: internal/accumulate
// needs them to emit the one shared lazy-DLL/proc-address support block a
// compilation unit's extern methods share, mirroring how zzl-go-winapi-gen's
// codegen.go GenPkg collects pkg.SysCalls into a single var block rather
// than duplicating DLL-loading machinery per function.
type Fragment struct {
	Key     irmodel.EmissionKey
	Source  string
	Module  string // DLL base name, e.g. "kernel32", set for extern methods
	ProcVar string // the "p<Name>" proc-address cache variable name it references
}

// Emitter renders metadata entities to Go source. ClassName names the
// static-class-equivalent (a plain exported identifier prefix in Go, since
// Go has no nested static classes) hosting extern methods (spec.md §4.4,
// default "PInvoke").
type Emitter struct {
	idx       *mdindex.Index
	projector *project.Projector
	policy    *handlepolicy.Policy
	logger    *zap.Logger

	ClassName string
}

func New(idx *mdindex.Index, projector *project.Projector, policy *handlepolicy.Policy, className string, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if className == "" {
		className = "PInvoke"
	}
	return &Emitter{idx: idx, projector: projector, policy: policy, logger: logger, ClassName: className}
}

// castToUintptr renders the expression passed as one syscall.SyscallN
// argument for a value of type t held in variable name — the mirror of the
// teacher's genCastToUintptr, adapted to irmodel.Type.
func castToUintptr(t *irmodel.Type, name string) string {
	switch {
	case t.Kind == irmodel.KindStruct && !t.IsHandle:
		if t.Size.TotalSize > 8 {
			return fmt.Sprintf("uintptr(unsafe.Pointer(&%s))", name)
		}
		return fmt.Sprintf("*(*uintptr)(unsafe.Pointer(&%s))", name)
	case t.Kind == irmodel.KindStruct && t.IsHandle:
		// a safe-handle wrapper: pass its raw token
		return fmt.Sprintf("uintptr(%s.Handle())", name)
	case t.Kind == irmodel.KindPointer, t.Kind == irmodel.KindString:
		return fmt.Sprintf("uintptr(unsafe.Pointer(%s))", name)
	case t.Kind == irmodel.KindInterface:
		return fmt.Sprintf("uintptr(unsafe.Pointer(%s))", name)
	case t.Name == "bool":
		return fmt.Sprintf("uintptr(boolToUintptr(%s))", name)
	case t.Kind == irmodel.KindArray && strings.HasPrefix(t.Name, "[]"):
		return fmt.Sprintf("uintptr(len(%s)), uintptr(unsafe.Pointer(&%s[0]))", name, name)
	case t.Pointer: // already uintptr-shaped: raw handle, IntPtr
		return name
	default:
		return fmt.Sprintf("uintptr(%s)", name)
	}
}

// castFromUintptr renders the expression converting a raw syscall.SyscallN
// return value (held in varName) back to t — the mirror of zzl-go-winapi-gen's
// genCastFromUintptr.
func castFromUintptr(t *irmodel.Type, varName string) string {
	switch {
	case t.Kind == irmodel.KindPointer:
		if t.Name == "unsafe.Pointer" {
			return varName
		}
		return fmt.Sprintf("(%s)(unsafe.Pointer(%s))", t.Name, varName)
	case t.Kind == irmodel.KindStruct && t.IsHandle:
		// a safe-handle wrapper: varName is the raw token syscall.SyscallN
		// returned, wrap it back up the way castToUintptr's mirror case
		// unwraps it (t.Name is "<Handle>SafeHandle" by construction, see
		// SafeHandleDescriptor.WrapperTypeName).
		handleName := strings.TrimSuffix(t.Name, "SafeHandle")
		return fmt.Sprintf("New%s(%s(%s))", t.Name, handleName, varName)
	case t.Kind == irmodel.KindStruct && !t.IsHandle:
		return fmt.Sprintf("*(*%s)(unsafe.Pointer(%s))", t.Name, varName)
	case t.Kind == irmodel.KindInterface:
		return fmt.Sprintf("(%s)(unsafe.Pointer(%s))", t.Name, varName)
	case t.Name == "bool":
		return fmt.Sprintf("%s != 0", varName)
	case t.Pointer:
		return varName
	default:
		return fmt.Sprintf("%s(%s)", t.Name, varName)
	}
}

func paramName(name string) string {
	return identifier.SafeName(name)
}
