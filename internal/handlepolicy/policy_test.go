package handlepolicy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zzl/go-winmd/apimodel"

	"github.com/kevinmiles/win32gen/internal/handlepolicy"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
)

func indexWith(t *testing.T, types ...*apimodel.Type) *mdindex.Index {
	t.Helper()
	return mdindex.NewForTest(&apimodel.Model{
		AllNamespaces: []*apimodel.Namespace{
			{FullName: "Windows.Win32.Foundation", Types: types},
		},
	})
}

func raiiFree(name string) []apimodel.Attribute {
	return []apimodel.Attribute{
		{Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.RAIIFreeAttribute"}, Args: []interface{}{name}},
	}
}

func TestResolveBoolLikeHandle(t *testing.T) {
	closeHandle := &apimodel.Type{
		Pseudo: true,
		PseudoDef: &apimodel.PseudoDef{
			Methods: []*apimodel.Method{
				{Name: "CloseHandle", SysCall: true, SysCallDll: "kernel32", SysCallName: "CloseHandle",
					ReturnType: &apimodel.Type{Name: "BOOL"}},
			},
		},
	}
	handle := &apimodel.Type{Name: "HANDLE", FullName: "Windows.Win32.Foundation.HANDLE", Attributes: raiiFree("CloseHandle")}

	idx := indexWith(t, closeHandle, handle)
	p := handlepolicy.New(idx, zaptest.NewLogger(t))

	desc, ok := p.Resolve(handle)
	require.True(t, ok)
	assert.Equal(t, irmodel.ReleaseBoolLike, desc.Classification)
	assert.Equal(t, "CloseHandle", desc.ReleaseFuncName)
	assert.Equal(t, "HANDLESafeHandle", desc.WrapperTypeName())
}

func TestResolveNoRAIIFreeMeansNoSafeHandle(t *testing.T) {
	handle := &apimodel.Type{Name: "HGDIOBJ", FullName: "Windows.Win32.Foundation.HGDIOBJ"}
	idx := indexWith(t, handle)
	p := handlepolicy.New(idx, zaptest.NewLogger(t))

	_, ok := p.Resolve(handle)
	assert.False(t, ok)
}

func TestResolveNamespaceHandleExcluded(t *testing.T) {
	nsHandle := &apimodel.Type{
		Name:     "HPRIVATENAMESPACE",
		FullName: "Windows.Win32.System.Threading.HPRIVATENAMESPACE",
		Attributes: append(raiiFree("ClosePrivateNamespace"),
			apimodel.Attribute{Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.NamespaceHandleAttribute"}}),
	}
	idx := indexWith(t, nsHandle)
	p := handlepolicy.New(idx, zaptest.NewLogger(t))

	_, ok := p.Resolve(nsHandle)
	assert.False(t, ok)
}

func TestResolveHResultClassification(t *testing.T) {
	release := &apimodel.Type{
		Pseudo: true,
		PseudoDef: &apimodel.PseudoDef{
			Methods: []*apimodel.Method{
				{Name: "SHReleaseThreadRef", SysCall: true, SysCallDll: "shell32", SysCallName: "SHReleaseThreadRef",
					ReturnType: &apimodel.Type{Name: "HRESULT"}},
			},
		},
	}
	handle := &apimodel.Type{Name: "HTHREADREF", FullName: "Windows.Win32.UI.Shell.HTHREADREF", Attributes: raiiFree("SHReleaseThreadRef")}
	idx := indexWith(t, release, handle)
	p := handlepolicy.New(idx, zaptest.NewLogger(t))

	desc, ok := p.Resolve(handle)
	require.True(t, ok)
	assert.Equal(t, irmodel.ReleaseHResult, desc.Classification)
}
