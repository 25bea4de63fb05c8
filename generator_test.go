package win32gen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zzl/go-winmd/apimodel"

	"github.com/kevinmiles/win32gen/internal/accumulate"
	"github.com/kevinmiles/win32gen/internal/collision"
	"github.com/kevinmiles/win32gen/internal/config"
	werrors "github.com/kevinmiles/win32gen/internal/errors"
	"github.com/kevinmiles/win32gen/internal/emit"
	"github.com/kevinmiles/win32gen/internal/handlepolicy"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// newTestGenerator builds a Generator the way Open would, but over an
// in-memory apimodel.Model (mdindex.NewForTest) instead of a real .winmd
// file — Open itself is exercised only by cmd/win32gen against a real file,
// since mdmodel.Parse needs actual ECMA-335 bytes on disk.
func newTestGenerator(t *testing.T, hostSymbols map[string]bool, opts config.Options, types ...*apimodel.Type) *Generator {
	t.Helper()
	idx := mdindex.NewForTest(&apimodel.Model{
		AllNamespaces: []*apimodel.Namespace{
			{FullName: "Windows.Win32.Foundation", Types: types},
		},
	})
	opts = opts.WithDefaults()
	policy := handlepolicy.New(idx, zaptest.NewLogger(t))
	projector := project.New(idx, policy, zaptest.NewLogger(t))
	emitter := emit.New(idx, projector, policy, opts.ClassName, zaptest.NewLogger(t))

	mode := accumulate.SingleFile
	if !opts.EmitSingleFile {
		mode = accumulate.OneFilePerEntity
	}

	return &Generator{
		idx:       idx,
		policy:    policy,
		projector: projector,
		emitter:   emitter,
		scope:     collision.New(hostSymbols, opts.QualifiedPrefix),
		unit:      accumulate.New(mode, opts.ClassName),
		logger:    zaptest.NewLogger(t),
		opts:      opts,
	}
}

func kernel32Methods() *apimodel.Type {
	return &apimodel.Type{
		Pseudo: true,
		PseudoDef: &apimodel.PseudoDef{
			Methods: []*apimodel.Method{
				{Name: "GetLastError", SysCall: true, SysCallDll: "kernel32", SysCallName: "GetLastError",
					ReturnType: &apimodel.Type{Name: "uint32", Primitive: true}},
				{Name: "CreateFileW", SysCall: true, SysCallDll: "kernel32", SysCallName: "CreateFileW",
					ReturnType: &apimodel.Type{Name: "BOOL", Primitive: true}},
			},
		},
	}
}

func pointType() *apimodel.Type {
	return &apimodel.Type{Name: "POINT", FullName: "Windows.Win32.Foundation.POINT", Struct: true, Size: 8,
		StructDef: &apimodel.StructDef{Fields: []*apimodel.Field{
			{Name: "X", Type: &apimodel.Type{Name: "int32", Primitive: true, Size: 4}},
			{Name: "Y", Type: &apimodel.Type{Name: "int32", Primitive: true, Size: 4}},
		}}}
}

func TestGenerateByNameRejectsGetLastErrorDirectly(t *testing.T) {
	g := newTestGenerator(t, nil, config.Options{}, kernel32Methods())
	produced, err := g.GenerateByName(context.Background(), "GetLastError")
	assert.False(t, produced)
	require.Error(t, err)
	assert.True(t, werrors.IsNotSupported(err))
}

func TestGenerateByNameUnknownReturnsNothingProduced(t *testing.T) {
	g := newTestGenerator(t, nil, config.Options{})
	produced, err := g.GenerateByName(context.Background(), "DoesNotExist")
	assert.False(t, produced)
	assert.NoError(t, err)
}

func TestGenerateByNameStructEndToEnd(t *testing.T) {
	g := newTestGenerator(t, nil, config.Options{EmitSingleFile: true}, pointType())
	produced, err := g.GenerateByName(context.Background(), "Windows.Win32.Foundation.POINT")
	require.NoError(t, err)
	assert.True(t, produced)

	files := g.Files()
	require.Len(t, files, 1)
	src := files["win32gen.go"]
	assert.Contains(t, src, "type POINT struct {")
	assert.Contains(t, src, "X int32")
}

func TestGenerateByModulePatternSkipsGetLastErrorSilently(t *testing.T) {
	g := newTestGenerator(t, nil, config.Options{EmitSingleFile: true}, kernel32Methods())
	produced, err := g.GenerateByModulePattern(context.Background(), "kernel32.*")
	require.NoError(t, err)
	assert.True(t, produced)

	files := g.Files()
	src := files["win32gen.go"]
	assert.Contains(t, src, "PInvoke_CreateFileW")
	assert.NotContains(t, src, "PInvoke_GetLastError")
}

func TestGenerateAllCancelledMidEnumeration(t *testing.T) {
	g := newTestGenerator(t, nil, config.Options{}, pointType(), kernel32Methods())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateAll(ctx)
	require.Error(t, err)
	assert.True(t, werrors.IsCancelled(err))
}

func rectType() *apimodel.Type {
	return &apimodel.Type{Name: "RECT", FullName: "Windows.Win32.Foundation.RECT", Struct: true, Size: 16,
		StructDef: &apimodel.StructDef{Fields: []*apimodel.Field{
			{Name: "TopLeft", Type: &apimodel.Type{Name: "POINT", FullName: "Windows.Win32.Foundation.POINT", Struct: true, Size: 8}},
		}}}
}

// TestGenerateByNameQualifiesAgainstHostSymbol covers a Qualify decision: the
// host already declares POINT, so this session's own POINT declaration must
// not be re-emitted, and any reference to the bare name POINT in another
// fragment (here, RECT's field type) must rewrite to the qualified form.
func TestGenerateByNameQualifiesAgainstHostSymbol(t *testing.T) {
	g := newTestGenerator(t, map[string]bool{"POINT": true}, config.Options{QualifiedPrefix: "legacywin32", EmitSingleFile: true}, pointType(), rectType())
	produced, err := g.GenerateByName(context.Background(), "Windows.Win32.Foundation.RECT")
	require.NoError(t, err)
	assert.True(t, produced)

	src := g.Files()["win32gen.go"]
	assert.NotContains(t, src, "type POINT struct {")
	assert.Contains(t, src, "TopLeft legacywin32.POINT")
}

func TestGenerateByNameOneFilePerEntityMode(t *testing.T) {
	g := newTestGenerator(t, nil, config.Options{EmitSingleFile: false}, pointType())
	_, err := g.GenerateByName(context.Background(), "Windows.Win32.Foundation.POINT")
	require.NoError(t, err)

	files := g.Files()
	_, ok := files["point.go"]
	assert.True(t, ok)
}
