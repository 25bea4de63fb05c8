package mdindex

// AttributeKind enumerates the CustomAttribute kinds spec.md §3 names.
// Each maps to the fully-qualified attribute type name win32metadata uses;
// SupportedOSPlatform reuses the BCL's own versioning attribute rather than
// a Windows-specific one, matching how win32metadata itself borrows it.
type AttributeKind int

const (
	RAIIFree AttributeKind = iota
	NativeTypedef
	ConstantSpecial
	NativeBitfield
	SupportedOSPlatform
	AssociatedEnum
	// ArraySizeInfo marks a P/Invoke parameter carrying either a sibling
	// length-parameter index or a fixed element count (spec.md §4.2's
	// SizeParamIndex/SizeConst array rules).
	ArraySizeInfo
)

var attributeFullNames = map[AttributeKind]string{
	RAIIFree:            "Windows.Win32.Foundation.Metadata.RAIIFreeAttribute",
	NativeTypedef:       "Windows.Win32.Foundation.Metadata.NativeTypedefAttribute",
	ConstantSpecial:     "Windows.Win32.Foundation.Metadata.ConstantAttribute",
	NativeBitfield:      "Windows.Win32.Foundation.Metadata.NativeBitfieldAttribute",
	SupportedOSPlatform: "System.Runtime.Versioning.SupportedOSPlatformAttribute",
	AssociatedEnum:      "Windows.Win32.Foundation.Metadata.AssociatedEnumAttribute",
	ArraySizeInfo:       "Windows.Win32.Foundation.Metadata.NativeArrayInfoAttribute",
}

// CustomAttribute is the resolved handle spec.md §3 names: a kind plus its
// constructor argument tuple, exactly as recorded in the metadata.
type CustomAttribute struct {
	Kind AttributeKind
	Args []interface{}
}

// NamespaceHandleAttribute is the dedicated attribute spec.md §4.3 calls out
// for excluding namespace-kind handles (e.g. CreatePrivateNamespace) from
// safe-handle generation, regardless of whether a release function exists.
// It isn't one of the seven enumerated kinds — it is a marker with no
// arguments — so it gets its own lookup rather than a slot in AttributeKind.
const namespaceHandleAttributeFullName = "Windows.Win32.Foundation.Metadata.NamespaceHandleAttribute"
