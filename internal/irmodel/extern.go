package irmodel

// CallingConvention mirrors the P/Invoke metadata spec.md §3 names under
// MethodDef: module, entry point, calling convention, last-error flag.
type CallingConvention int

const (
	ConvStdCall CallingConvention = iota
	ConvCDecl
)

// ExternMethod is a P/Invoke MethodDef (spec.md §3/§4.4): the raw ABI
// signature plus everything internal/emit needs to render both the
// `syscall.SyscallN`-based raw overload and, when it qualifies, the
// friendly overload alongside it.
type ExternMethod struct {
	Name       string // exported Go name
	Module     string // DLL name, e.g. "kernel32"
	EntryPoint string // native export name, usually == Name
	Convention CallingConvention

	Params     []*Param
	ReturnType *Type

	// SetLastError marks a method whose failure path requires the caller to
	// retrieve extended error information via GetLastWin32Error-style
	// retrieval rather than the native GetLastError entry point directly
	// (spec.md §4.4 and invariant 5 — GetLastError itself is never emitted).
	SetLastError bool
}
