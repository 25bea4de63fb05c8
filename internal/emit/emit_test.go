package emit_test

import (
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zzl/go-winmd/apimodel"

	"github.com/kevinmiles/win32gen/internal/emit"
	"github.com/kevinmiles/win32gen/internal/handlepolicy"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

func newEmitter(t *testing.T, types ...*apimodel.Type) *emit.Emitter {
	t.Helper()
	idx := mdindex.NewForTest(&apimodel.Model{
		AllNamespaces: []*apimodel.Namespace{
			{FullName: "Windows.Win32.Foundation", Types: types},
		},
	})
	policy := handlepolicy.New(idx, zaptest.NewLogger(t))
	projector := project.New(idx, policy, zaptest.NewLogger(t))
	return emit.New(idx, projector, policy, "PInvoke", zaptest.NewLogger(t))
}

func raiiFree(name string) []apimodel.Attribute {
	return []apimodel.Attribute{
		{Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.RAIIFreeAttribute"}, Args: []interface{}{name}},
	}
}

func pointType() *apimodel.Type {
	return &apimodel.Type{Name: "POINT", FullName: "Windows.Win32.Foundation.POINT", Struct: true, Size: 8,
		StructDef: &apimodel.StructDef{Fields: []*apimodel.Field{
			{Name: "X", Type: &apimodel.Type{Name: "int32", Primitive: true, Size: 4}},
			{Name: "Y", Type: &apimodel.Type{Name: "int32", Primitive: true, Size: 4}},
		}}}
}

func TestStructRendersFieldsInOrder(t *testing.T) {
	e := newEmitter(t, pointType())
	frag, deps := e.Struct(pointType())

	assert.Contains(t, frag.Source, "type POINT struct {")
	assert.Contains(t, frag.Source, "X int32")
	assert.Contains(t, frag.Source, "Y int32")
	assert.Empty(t, deps)
}

func TestStructBitfieldRendersBackingFieldAndAccessors(t *testing.T) {
	bf := apimodel.Attribute{
		Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.NativeBitfieldAttribute"},
		Args: []interface{}{0, 1},
	}
	t2 := &apimodel.Type{Name: "BITSET", FullName: "Windows.Win32.Foundation.BITSET", Struct: true, Size: 4,
		StructDef: &apimodel.StructDef{Fields: []*apimodel.Field{
			{Name: "flag", Type: &apimodel.Type{Name: "uint32", Primitive: true, Size: 4}, Attributes: []apimodel.Attribute{bf}},
		}}}
	e := newEmitter(t, t2)
	frag, _ := e.Struct(t2)

	assert.NotContains(t, frag.Source, "Flag uint32\n")
	assert.Contains(t, frag.Source, "flagBits uint32")
	assert.Contains(t, frag.Source, "func (s *BITSET) GetFlag() uint32 {")
	assert.Contains(t, frag.Source, "func (s *BITSET) SetFlag(v uint32) {")
}

func TestStructBitfieldRunSharesOneBackingField(t *testing.T) {
	attr := func(offset, width int) apimodel.Attribute {
		return apimodel.Attribute{
			Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.NativeBitfieldAttribute"},
			Args: []interface{}{offset, width},
		}
	}
	u32 := func() *apimodel.Type { return &apimodel.Type{Name: "uint32", Primitive: true, Size: 4} }
	t2 := &apimodel.Type{Name: "PACKEDFLAGS", FullName: "Windows.Win32.Foundation.PACKEDFLAGS", Struct: true, Size: 4,
		StructDef: &apimodel.StructDef{Fields: []*apimodel.Field{
			{Name: "enabled", Type: u32(), Attributes: []apimodel.Attribute{attr(0, 1)}},
			{Name: "priority", Type: u32(), Attributes: []apimodel.Attribute{attr(1, 3)}},
		}}}
	e := newEmitter(t, t2)
	frag, _ := e.Struct(t2)

	assert.Equal(t, 1, strings.Count(frag.Source, "enabledBits uint32"))
	assert.Contains(t, frag.Source, "func (s *PACKEDFLAGS) GetEnabled() uint32 {")
	assert.Contains(t, frag.Source, "func (s *PACKEDFLAGS) GetPriority() uint32 {")
	assert.Contains(t, frag.Source, "s.enabledBits >> 1")
}

func TestStructPointerFieldAddsDependency(t *testing.T) {
	point := pointType()
	rect := &apimodel.Type{Name: "RECTPTR", FullName: "Windows.Win32.Foundation.RECTPTR", Struct: true,
		StructDef: &apimodel.StructDef{Fields: []*apimodel.Field{
			{Name: "TopLeft", Type: &apimodel.Type{Pointer: true, PointerTo: point}},
		}}}
	e := newEmitter(t, point, rect)
	frag, deps := e.Struct(rect)

	assert.Contains(t, frag.Source, "TopLeft *POINT")
	require.Len(t, deps, 1)
	assert.Equal(t, "Windows.Win32.Foundation.POINT", deps[0].EntityFullName)
}

func colorRefEnum() *apimodel.Type {
	return &apimodel.Type{
		Name: "SYS_COLOR_INDEX", FullName: "Windows.Win32.Graphics.Gdi.SYS_COLOR_INDEX", Kind: apimodel.TypeEnum,
		EnumDef: &apimodel.EnumDef{
			BaseType: &apimodel.Type{Name: "int32", Primitive: true, Size: 4},
			Values: []*apimodel.EnumValue{
				{Name: "COLOR_SCROLLBAR", Value: int32(0)},
				{Name: "COLOR_BACKGROUND", Value: int32(1)},
			},
		},
	}
}

func TestEnumRendersUnderlyingTypeAndMembers(t *testing.T) {
	e := newEmitter(t)
	frag, _ := e.Enum(colorRefEnum(), nil)

	assert.Contains(t, frag.Source, "type SYS_COLOR_INDEX int32")
	assert.Contains(t, frag.Source, "COLOR_SCROLLBAR SYS_COLOR_INDEX = 0")
	assert.Contains(t, frag.Source, "COLOR_BACKGROUND SYS_COLOR_INDEX = 1")
	assert.NotContains(t, frag.Source, "// flags")
}

func TestEnumFlagsGetsDocComment(t *testing.T) {
	en := colorRefEnum()
	en.EnumDef.Flags = true
	e := newEmitter(t)
	frag, _ := e.Enum(en, nil)

	assert.Contains(t, frag.Source, "// flags\n")
}

func TestEnumMergesAssociatedConstants(t *testing.T) {
	en := colorRefEnum()
	e := newEmitter(t)
	associated := []*mdindex.ConstantRef{
		{Name: "COLOR_MENUBAR", Value: int32(30)},
	}
	frag, _ := e.Enum(en, associated)

	assert.Contains(t, frag.Source, "COLOR_MENUBAR SYS_COLOR_INDEX = 30")
}

func TestConstPlainIntegerLiteral(t *testing.T) {
	e := newEmitter(t)
	c := &mdindex.ConstantRef{Name: "MAX_PATH", Type: &apimodel.Type{Name: "int32", Primitive: true}, Value: int32(260)}
	frag, _ := e.Const(c)

	assert.Contains(t, frag.Source, "const MAX_PATH int32 = 260")
}

func TestConstGUIDRendersVarWithConstructor(t *testing.T) {
	e := newEmitter(t)
	c := &mdindex.ConstantRef{
		Name:  "CLSID_Foo",
		Type:  &apimodel.Type{Name: "syscall.GUID", Struct: true},
		Value: syscall.GUID{Data1: 1},
	}
	frag, _ := e.Const(c)

	assert.Contains(t, frag.Source, "var CLSID_Foo")
	assert.NotContains(t, frag.Source, "const CLSID_Foo")
}

func TestConstUTF16StringRendersUtf16PtrCall(t *testing.T) {
	e := newEmitter(t)
	c := &mdindex.ConstantRef{
		Name:  "SOME_STRING_CONST",
		Type:  &apimodel.Type{Kind: apimodel.TypeString},
		Value: "hello",
	}
	frag, _ := e.Const(c)

	assert.Contains(t, frag.Source, `var SOME_STRING_CONST *uint16 = utf16Ptr("hello")`)
}

func TestConstNaNRendersVar(t *testing.T) {
	e := newEmitter(t)
	c := &mdindex.ConstantRef{Name: "FP_NAN", Type: &apimodel.Type{Name: "float64", Primitive: true}, Value: nan()}
	frag, _ := e.Const(c)

	assert.Contains(t, frag.Source, "var FP_NAN")
}

// nan builds a NaN value at runtime — a literal 0.0/0.0 division is a
// compile-time constant error in Go.
func nan() float64 {
	var zero float64
	return zero / zero
}

func closeHandleMethod() *apimodel.Type {
	return &apimodel.Type{
		Pseudo: true,
		PseudoDef: &apimodel.PseudoDef{
			Methods: []*apimodel.Method{
				{Name: "CloseHandle", SysCall: true, SysCallDll: "kernel32", SysCallName: "CloseHandle",
					ReturnType: &apimodel.Type{Name: "BOOL"}},
			},
		},
	}
}

func handleType() *apimodel.Type {
	return &apimodel.Type{
		Name: "HANDLE", FullName: "Windows.Win32.Foundation.HANDLE", Struct: true,
		Attributes: append(raiiFree("CloseHandle"),
			apimodel.Attribute{Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.NativeTypedefAttribute"}}),
	}
}

func TestHandleTypedefRendersDistinctUintptrType(t *testing.T) {
	e := newEmitter(t)
	frag, deps := e.HandleTypedef(handleType())

	assert.Equal(t, "type HANDLE uintptr\n\n", frag.Source)
	assert.Empty(t, deps)
}

func TestSafeHandleRendersReleaseHandleAndSchedulesDeps(t *testing.T) {
	closeFn, handle := closeHandleMethod(), handleType()
	e := newEmitter(t, closeFn, handle)

	idx := mdindex.NewForTest(&apimodel.Model{AllNamespaces: []*apimodel.Namespace{
		{FullName: "Windows.Win32.Foundation", Types: []*apimodel.Type{closeFn, handle}},
	}})
	policy := handlepolicy.New(idx, zaptest.NewLogger(t))
	desc, ok := policy.Resolve(handle)
	require.True(t, ok)

	frag, deps := e.SafeHandle(handle, desc, "kernel32")

	assert.Contains(t, frag.Source, "type HANDLESafeHandle struct {")
	assert.Contains(t, frag.Source, "func NewHANDLESafeHandle(h HANDLE) *HANDLESafeHandle {")
	assert.Contains(t, frag.Source, "runtime.SetFinalizer(s, (*HANDLESafeHandle).ReleaseHandle)")
	assert.Contains(t, frag.Source, "ret := PInvoke_CloseHandle(s.handle)")
	assert.Contains(t, frag.Source, "return ret != 0")
	assert.Equal(t, irmodel.VariantSafeHandle, frag.Key.Variant)

	require.Len(t, deps, 2)
	assert.Equal(t, "Windows.Win32.Foundation.HANDLE", deps[0].EntityFullName)
	assert.Equal(t, "kernel32!CloseHandle", deps[1].EntityFullName)
	assert.Equal(t, irmodel.VariantRaw, deps[1].Variant)
}

func releaseOtherMethod() *apimodel.Type {
	return &apimodel.Type{
		Pseudo: true,
		PseudoDef: &apimodel.PseudoDef{
			Methods: []*apimodel.Method{
				{Name: "ReleaseOtherThing", SysCall: true, SysCallDll: "kernel32", SysCallName: "ReleaseOtherThing",
					ReturnType: &apimodel.Type{Name: "int32"}},
			},
		},
	}
}

func handleTypeReleaseOther() *apimodel.Type {
	return &apimodel.Type{
		Name: "OTHERHANDLE", FullName: "Windows.Win32.Foundation.OTHERHANDLE", Struct: true,
		Attributes: append(raiiFree("ReleaseOtherThing"),
			apimodel.Attribute{Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.NativeTypedefAttribute"}}),
	}
}

func TestSafeHandleReleaseOtherDoesNotDeclareUnusedRet(t *testing.T) {
	releaseFn, handle := releaseOtherMethod(), handleTypeReleaseOther()
	e := newEmitter(t, releaseFn, handle)

	idx := mdindex.NewForTest(&apimodel.Model{AllNamespaces: []*apimodel.Namespace{
		{FullName: "Windows.Win32.Foundation", Types: []*apimodel.Type{releaseFn, handle}},
	}})
	policy := handlepolicy.New(idx, zaptest.NewLogger(t))
	desc, ok := policy.Resolve(handle)
	require.True(t, ok)
	require.Equal(t, irmodel.ReleaseOther, desc.Classification)

	frag, _ := e.SafeHandle(handle, desc, "kernel32")

	assert.Contains(t, frag.Source, "PInvoke_ReleaseOtherThing(s.handle)\n")
	assert.NotContains(t, frag.Source, "ret :=")
	assert.Contains(t, frag.Source, "return true")
}

func TestExternMethodFriendlyWrapsHandleReturnInSafeHandle(t *testing.T) {
	closeFn, handle := closeHandleMethod(), handleType()
	e := newEmitter(t, closeFn, handle)
	m := &apimodel.Method{
		Name: "CreateFileW", SysCall: true, SysCallDll: "kernel32", SysCallName: "CreateFileW",
		Params: []*apimodel.Param{
			{Name: "lpFileName", Type: &apimodel.Type{Pointer: true, PointerTo: &apimodel.Type{Name: "uint16", Primitive: true}}},
		},
		ReturnType: handle,
	}

	assert.True(t, e.MethodQualifiesFriendly(m))

	frag, _ := e.ExternMethod(m, irmodel.VariantFriendly)
	assert.Contains(t, frag.Source, ") *HANDLESafeHandle {")
	assert.Contains(t, frag.Source, "return NewHANDLESafeHandle(HANDLE(ret))")
}

func TestMethodQualifiesFriendlyForHandleReturn(t *testing.T) {
	closeFn, handle := closeHandleMethod(), handleType()
	e := newEmitter(t, closeFn, handle)
	m := &apimodel.Method{
		Name: "OpenSomething", SysCall: true, SysCallDll: "kernel32", SysCallName: "OpenSomething",
		ReturnType: handle,
	}

	assert.True(t, e.MethodQualifiesFriendly(m))
}

func comInterface() *apimodel.Type {
	return &apimodel.Type{
		Name: "IFoo", FullName: "Windows.Win32.System.Com.IFoo", Interface: true,
		Attributes: []apimodel.Attribute{
			{Type: &apimodel.Type{FullName: "Windows.Win32.Interop.GuidAttribute"}, Args: []interface{}{
				uint32(1), uint16(2), uint16(3),
				uint8(4), uint8(5), uint8(6), uint8(7), uint8(8), uint8(9), uint8(10), uint8(11),
			}},
		},
		InterfaceDef: &apimodel.InterfaceDef{
			Methods: []*apimodel.Method{
				{Name: "GetValue", Params: []*apimodel.Param{
					{Name: "pValue", Type: &apimodel.Type{Pointer: true, PointerTo: &apimodel.Type{Name: "int32", Primitive: true}}},
				}, ReturnType: &apimodel.Type{Name: "HRESULT", Primitive: true}},
			},
		},
	}
}

func TestInterfaceRendersVtableAndAccessor(t *testing.T) {
	e := newEmitter(t, comInterface())
	frag, _ := e.Interface(comInterface(), false)

	assert.Contains(t, frag.Source, "var IID_IFoo =")
	assert.Contains(t, frag.Source, "type IFooVtbl struct {")
	assert.Contains(t, frag.Source, "GetValue uintptr")
	assert.Contains(t, frag.Source, "type IFoo struct {")
	assert.Contains(t, frag.Source, "LpVtbl *[1024]uintptr")
	assert.Contains(t, frag.Source, "func (v *IFoo) Vtbl() *IFooVtbl {")
	assert.Contains(t, frag.Source, "func (v *IFoo) GetValue(pValue *int32) HRESULT {")
	assert.Contains(t, frag.Source, "syscall.SyscallN(v.Vtbl().GetValue, uintptr(unsafe.Pointer(v))")
}

func TestInterfaceBaseEmbedsBaseVtblAndSchedulesDep(t *testing.T) {
	base := &apimodel.Type{
		Name: "IUnknown", FullName: "Windows.Win32.System.Com.IUnknown", Interface: true,
		InterfaceDef: &apimodel.InterfaceDef{},
	}
	derived := &apimodel.Type{
		Name: "IBar", FullName: "Windows.Win32.System.Com.IBar", Interface: true,
		InterfaceDef: &apimodel.InterfaceDef{
			Extends: []*apimodel.Type{base},
		},
	}
	e := newEmitter(t, base, derived)
	frag, deps := e.Interface(derived, false)

	assert.Contains(t, frag.Source, "IUnknownVtbl\n")
	assert.Contains(t, frag.Source, "IUnknown\n")
	require.Len(t, deps, 1)
	assert.Equal(t, "Windows.Win32.System.Com.IUnknown", deps[0].EntityFullName)
}

func TestInterfaceMethodFriendlyPromotesSizedArrayToSlice(t *testing.T) {
	iface := &apimodel.Type{
		Name: "IBuffer", FullName: "Windows.Win32.System.Com.IBuffer", Interface: true,
		Attributes: []apimodel.Attribute{
			{Type: &apimodel.Type{FullName: "Windows.Win32.Interop.GuidAttribute"}, Args: []interface{}{
				uint32(1), uint16(2), uint16(3),
				uint8(4), uint8(5), uint8(6), uint8(7), uint8(8), uint8(9), uint8(10), uint8(11),
			}},
		},
		InterfaceDef: &apimodel.InterfaceDef{
			Methods: []*apimodel.Method{
				{Name: "Write", Params: []*apimodel.Param{
					{Name: "pBuffer", Type: &apimodel.Type{Pointer: true, PointerTo: &apimodel.Type{Name: "byte", Primitive: true}},
						Attributes: []apimodel.Attribute{
							{Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.NativeArrayInfoAttribute"}, Args: []interface{}{1}},
						}},
					{Name: "cb", Type: &apimodel.Type{Name: "uint32", Primitive: true}},
				}, ReturnType: &apimodel.Type{Name: "HRESULT", Primitive: true}},
			},
		},
	}
	e := newEmitter(t, iface)

	assert.True(t, e.MethodQualifiesFriendly(iface.InterfaceDef.Methods[0]))

	frag, _ := e.Interface(iface, true)
	assert.Contains(t, frag.Source, "func (v *IBuffer) WriteFriendly(pBuffer []byte) HRESULT {")
	assert.Contains(t, frag.Source, "uintptr(unsafe.Pointer(&pBuffer[0])), uintptr(len(pBuffer))")
}

func TestFuncTypeRendersUintptrAliasAndNamedFunc(t *testing.T) {
	fn := &apimodel.Type{
		Name: "WNDPROC", FullName: "Windows.Win32.UI.WindowsAndMessaging.WNDPROC", Func: true,
		FuncDef: &apimodel.FuncDef{
			Params: []*apimodel.Param{
				{Name: "msg", Type: &apimodel.Type{Name: "uint32", Primitive: true}},
			},
			ReturnType: &apimodel.Type{Name: "int32", Primitive: true},
		},
	}
	e := newEmitter(t, fn)
	frag, _ := e.FuncType(fn)

	assert.Contains(t, frag.Source, "type WNDPROC = uintptr\n")
	assert.Contains(t, frag.Source, "type WNDPROCFunc func(msg uint32) int32")
}

func createFileMethod() *mdindex.MethodDef {
	return &apimodel.Method{
		Name: "CreateFileW", SysCall: true, SysCallDll: "kernel32", SysCallName: "CreateFileW",
		Params: []*apimodel.Param{
			{Name: "lpFileName", Type: &apimodel.Type{Pointer: true, PointerTo: &apimodel.Type{Name: "uint16", Primitive: true}}},
		},
		ReturnType: &apimodel.Type{Name: "BOOL", Primitive: true},
	}
}

func TestExternMethodRawRendersLazyAddrAndSyscall(t *testing.T) {
	e := newEmitter(t)
	frag, _ := e.ExternMethod(createFileMethod(), irmodel.VariantRaw)

	assert.Contains(t, frag.Source, "func PInvoke_CreateFileW(")
	assert.Contains(t, frag.Source, `addr := lazyAddr(&pCreateFileW, libKernel32, "CreateFileW")`)
	assert.Contains(t, frag.Source, "ret, _, _ := syscall.SyscallN(addr")
	assert.Equal(t, "kernel32", frag.Module)
	assert.Equal(t, "pCreateFileW", frag.ProcVar)
	assert.Equal(t, "kernel32!CreateFileW", frag.Key.EntityFullName)
	assert.Equal(t, irmodel.VariantRaw, frag.Key.Variant)
}

func TestExternMethodFriendlyConvertsBoolReturn(t *testing.T) {
	e := newEmitter(t)
	frag, _ := e.ExternMethod(createFileMethod(), irmodel.VariantFriendly)

	assert.Contains(t, frag.Source, "func PInvoke_CreateFileWFriendly(")
	assert.Contains(t, frag.Source, ") bool {")
	assert.Contains(t, frag.Source, "ret != 0")
}

func TestExternMethodFriendlyPromotesSizedArrayToSlice(t *testing.T) {
	m := &apimodel.Method{
		Name: "WriteConsole", SysCall: true, SysCallDll: "kernel32", SysCallName: "WriteConsole",
		Params: []*apimodel.Param{
			{Name: "lpBuffer", Type: &apimodel.Type{Pointer: true, PointerTo: &apimodel.Type{Name: "uint16", Primitive: true}},
				Attributes: []apimodel.Attribute{
					{Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.NativeArrayInfoAttribute"}, Args: []interface{}{1}},
				}},
			{Name: "nNumberOfCharsToWrite", Type: &apimodel.Type{Name: "uint32", Primitive: true}},
		},
		ReturnType: &apimodel.Type{Name: "BOOL", Primitive: true},
	}
	e := newEmitter(t)
	frag, _ := e.ExternMethod(m, irmodel.VariantFriendly)

	assert.Contains(t, frag.Source, "func PInvoke_WriteConsoleFriendly(lpBuffer []uint16) bool {")
	assert.Contains(t, frag.Source, "uintptr(unsafe.Pointer(&lpBuffer[0])), uintptr(len(lpBuffer))")
}

func TestExternMethodFriendlyOrdersCountBeforeBufferWhenNativeSignatureDoes(t *testing.T) {
	m := &apimodel.Method{
		Name: "FillBuffer", SysCall: true, SysCallDll: "kernel32", SysCallName: "FillBuffer",
		Params: []*apimodel.Param{
			{Name: "cchBuffer", Type: &apimodel.Type{Name: "uint32", Primitive: true}},
			{Name: "lpBuffer", Type: &apimodel.Type{Pointer: true, PointerTo: &apimodel.Type{Name: "uint16", Primitive: true}},
				Attributes: []apimodel.Attribute{
					{Type: &apimodel.Type{FullName: "Windows.Win32.Foundation.Metadata.NativeArrayInfoAttribute"}, Args: []interface{}{0}},
				}},
		},
		ReturnType: &apimodel.Type{Name: "BOOL", Primitive: true},
	}
	e := newEmitter(t)
	frag, _ := e.ExternMethod(m, irmodel.VariantFriendly)

	assert.Contains(t, frag.Source, "func PInvoke_FillBufferFriendly(lpBuffer []uint16) bool {")
	assert.Contains(t, frag.Source, "uintptr(len(lpBuffer)), uintptr(unsafe.Pointer(&lpBuffer[0]))")
}

func TestMethodQualifiesFriendlyForBoolReturn(t *testing.T) {
	e := newEmitter(t)
	assert.True(t, e.MethodQualifiesFriendly(createFileMethod()))
}

func TestMethodQualifiesFriendlyFalseForPlainScalarMethod(t *testing.T) {
	m := &apimodel.Method{
		Name: "GetTickCount", SysCall: true, SysCallDll: "kernel32", SysCallName: "GetTickCount",
		ReturnType: &apimodel.Type{Name: "uint32", Primitive: true},
	}
	e := newEmitter(t)
	assert.False(t, e.MethodQualifiesFriendly(m))
}
