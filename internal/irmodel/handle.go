package irmodel

// ReleaseClassification is how a handle's release function signals success,
// derived by internal/handlepolicy from the release function's return type
// (spec.md §4.3 step 3).
type ReleaseClassification int

const (
	ReleaseBoolLike ReleaseClassification = iota // nonzero = success
	ReleaseLStatus                                // 0 = success
	ReleaseNTStatus                               // >= 0 = success
	ReleaseHResult                                // >= 0 = success (SUCCEEDED)
	ReleaseVoid                                   // no failure signal
	ReleaseOther                                   // unrecognized return shape
)

func (c ReleaseClassification) String() string {
	switch c {
	case ReleaseBoolLike:
		return "bool_like"
	case ReleaseLStatus:
		return "lstatus"
	case ReleaseNTStatus:
		return "ntstatus"
	case ReleaseHResult:
		return "hresult"
	case ReleaseVoid:
		return "void"
	default:
		return "other"
	}
}

// HandleTypedef is a typedef'd handle struct (glossary): a single-field
// wrapper over an integer-sized OS resource token, with nominal typing.
type HandleTypedef struct {
	Name string // e.g. "HANDLE", "HBITMAP"
	Type *Type  // the underlying uintptr-shaped Type

	// ReleaseFuncName is the RAIIFree attribute's argument, if present —
	// empty when the handle typedef carries no release function at all
	// (spec.md §4.3: "A handle typedef without RAIIFree never yields a
	// safe handle").
	ReleaseFuncName string

	// NamespaceHandle excludes safe-handle generation even when a release
	// function exists (spec.md §4.3 exceptions: kernel namespace handles).
	NamespaceHandle bool
}

// SafeHandleDescriptor is the derived model spec.md §3 names: a handle type,
// its release function, and the success predicate appropriate to that
// function's return-type classification. internal/handlepolicy constructs
// these; internal/emit's safe-handle emitter renders ReleaseHandle from one.
type SafeHandleDescriptor struct {
	HandleType      *Type
	ReleaseFuncName string
	Classification  ReleaseClassification
}

// WrapperTypeName is the emitted safe-handle type's name, `<T>SafeHandle`
// (spec.md invariant 2 names this exact pattern).
func (d *SafeHandleDescriptor) WrapperTypeName() string {
	return d.HandleType.Name + "SafeHandle"
}
