package mdindex

import "syscall"

// GetIID extracts a TypeDef's identity GUID from its GuidAttribute
// (win32metadata uses "Windows.Win32.Interop.GuidAttribute"; the WinRT
// surface uses "Windows.Foundation.Metadata.GuidAttribute" — both carry the
// same 11-argument Data1/Data2/Data3/Data4[8] tuple), mirroring zzl-go-winapi-gen's
// gomodel.ModelParser.parseGuidAttrValue.
func (idx *Index) GetIID(t *TypeDef) (syscall.GUID, bool) {
	for _, a := range t.Attributes {
		if a.Type == nil {
			continue
		}
		name := a.Type.FullName
		if name != "Windows.Win32.Interop.GuidAttribute" && name != "Windows.Foundation.Metadata.GuidAttribute" {
			continue
		}
		if len(a.Args) != 11 {
			continue
		}
		var g syscall.GUID
		g.Data1, _ = a.Args[0].(uint32)
		g.Data2, _ = toUint16(a.Args[1])
		g.Data3, _ = toUint16(a.Args[2])
		for n := 0; n < 8; n++ {
			g.Data4[n], _ = a.Args[3+n].(uint8)
		}
		return g, true
	}
	return syscall.GUID{}, false
}

func toUint16(v interface{}) (uint16, bool) {
	u, ok := v.(uint16)
	return u, ok
}
