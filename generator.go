// Package win32gen is the Generation Facade (C7, spec.md §4.7): the
// request-level API a host drives — by exact name, by module glob pattern,
// or "generate all" — wired to every lower component (C1 metadata index
// through C6 unit accumulator). Grounded on zzl-go-winapi-gen's
// cmd/win32api-gen/main.go, which opens one metadata file, drives one
// Generator end to end, and writes the result out; generalized from "one
// fixed batch job" into three independently callable request shapes plus
// explicit session teardown, since spec.md §5 treats a generator instance as
// a long-lived, repeatedly-queried session rather than a one-shot CLI run.
package win32gen

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/zzl/go-winmd/apimodel"

	"github.com/kevinmiles/win32gen/internal/accumulate"
	"github.com/kevinmiles/win32gen/internal/collision"
	"github.com/kevinmiles/win32gen/internal/config"
	werrors "github.com/kevinmiles/win32gen/internal/errors"
	"github.com/kevinmiles/win32gen/internal/emit"
	"github.com/kevinmiles/win32gen/internal/handlepolicy"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// forbiddenName is the one P/Invoke method spec.md invariant 4/5 permanently
// excludes: callers observe failure (Win32 error codes) through the host
// runtime's own last-error retrieval, never through a direct re-exposed
// GetLastError entry point.
const forbiddenName = "GetLastError"

// Generator is one open generation session over one metadata file (spec.md
// §5: "opened once per generator ... held open for the lifetime of the
// generator").
type Generator struct {
	idx       *mdindex.Index
	policy    *handlepolicy.Policy
	projector *project.Projector
	emitter   *emit.Emitter
	scope     *collision.Scope
	unit      *accumulate.Unit
	logger    *zap.Logger
	opts      config.Options
}

// Open parses the metadata file at mdFilePath and builds every component
// C2 through C6 over it. hostSymbols seeds the Collision Resolver with the
// consuming compilation's already-declared names (spec.md §4.5); a nil map
// means "no known collisions yet".
func Open(mdFilePath string, opts config.Options, hostSymbols map[string]bool, logger *zap.Logger) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.WithDefaults()

	idx, err := mdindex.Open(mdFilePath, typeReplacements(), logger)
	if err != nil {
		return nil, err
	}

	policy := handlepolicy.New(idx, logger)
	projector := project.New(idx, policy, logger)
	emitter := emit.New(idx, projector, policy, opts.ClassName, logger)

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
		logger:    logger,
		opts:      opts,
	}, nil
}

func typeReplacements() map[string]*apimodel.Type {
	return nil
}

// Close releases the metadata index. Safe to call once, at the end of a
// session (spec.md §5).
func (g *Generator) Close() error {
	return g.idx.Close()
}

// Files returns the accumulated fragments assembled into file contents,
// keyed by file name. Applies the Collision Resolver's accumulated Qualify
// renames (bare-name references to a host-colliding symbol) across every
// fragment before assembly — a Qualify decision made on fragment N can still
// need to rewrite a reference fragment M < N already emitted.
func (g *Generator) Files() map[string]string {
	qualified := g.scope.QualifiedNames()
	if len(qualified) > 0 {
		g.unit.RewriteAll(renameIdentifiers(qualified))
	}
	return g.unit.Files(g.opts.PackageName)
}

// renameIdentifiers builds a single replacer that rewrites every whole-word
// occurrence of each key in names to its mapped value.
func renameIdentifiers(names map[string]string) func(string) string {
	return func(src string) string {
		for name, qn := range names {
			src = rewriteIdentifier(src, name, qn)
		}
		return src
	}
}

// GenerateByName resolves name to a type or method anywhere in the metadata
// and dispatches it (spec.md §4.7 entry point 1). A direct request for
// GetLastError fails hard with NotSupported; any other unresolved name
// returns (false, nil) — "nothing produced", not an error.
func (g *Generator) GenerateByName(ctx context.Context, name string) (bool, error) {
	if name == forbiddenName {
		return false, werrors.New(werrors.NotSupported, name)
	}

	seeds, found := g.seedsForName(name)
	if !found {
		return false, nil
	}
	return g.runAccumulate(ctx, seeds)
}

// GenerateByModulePattern enumerates every export of pattern's module
// matching its glob and dispatches each, silently skipping GetLastError
// (spec.md §4.7 entry point 2, invariant 4).
func (g *Generator) GenerateByModulePattern(ctx context.Context, pattern string) (bool, error) {
	mp, err := mdindex.ParseModulePattern(pattern)
	if err != nil {
		return false, err
	}

	var seeds []irmodel.EmissionKey
	for _, m := range g.idx.IterMethodsByModulePattern(mp) {
		if err := ctx.Err(); err != nil {
			return false, werrors.Wrap(werrors.Cancelled, pattern, err)
		}
		if isForbiddenMethod(m) {
			continue
		}
		seeds = append(seeds, g.methodSeedKeys(m)...)
	}
	return g.runAccumulate(ctx, seeds)
}

// GenerateAll enumerates every eligible top-level type, method, and manifest
// constant and dispatches each (spec.md §4.7 entry point 3), narrowed to
// g.opts.NamespaceFilters/DllAllowList when the host set them (cmd/win32gen's
// `--namespace`/`--dll` flags).
func (g *Generator) GenerateAll(ctx context.Context) (bool, error) {
	var seeds []irmodel.EmissionKey

	nsFilters := mdindex.ParseNamespaceFilters(g.opts.NamespaceFilters)
	dllAllow := dllAllowSet(g.opts.DllAllowList)

	for _, t := range g.idx.IterTopLevelTypesInNamespaces(nsFilters) {
		if err := ctx.Err(); err != nil {
			return false, werrors.Wrap(werrors.Cancelled, "generate_all", err)
		}
		seeds = append(seeds, g.typeSeedKeys(t)...)
	}
	for _, m := range g.idx.IterMethodsInNamespaces(nsFilters, dllAllow) {
		if err := ctx.Err(); err != nil {
			return false, werrors.Wrap(werrors.Cancelled, "generate_all", err)
		}
		if isForbiddenMethod(m) {
			continue
		}
		seeds = append(seeds, g.methodSeedKeys(m)...)
	}
	for _, c := range g.idx.IterConstantsInNamespaces(nsFilters) {
		if err := ctx.Err(); err != nil {
			return false, werrors.Wrap(werrors.Cancelled, "generate_all", err)
		}
		seeds = append(seeds, irmodel.Key(c.Name))
	}

	return g.runAccumulate(ctx, seeds)
}

func dllAllowSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func isForbiddenMethod(m *mdindex.MethodDef) bool {
	name := m.SysCallName
	if name == "" {
		name = m.Name
	}
	return name == forbiddenName || m.Name == forbiddenName
}

// seedsForName resolves an exact-name request to its EmissionKeys: a
// full-name or short-name type match takes priority, then a P/Invoke method
// lookup by name anywhere in the metadata.
func (g *Generator) seedsForName(name string) ([]irmodel.EmissionKey, bool) {
	if t, ok := g.idx.FindTypeByFullName(name); ok {
		return g.typeSeedKeys(t), true
	}
	for _, t := range g.idx.IterAllTopLevelTypes() {
		if t.Name == name {
			return g.typeSeedKeys(t), true
		}
	}
	if m, ok := g.idx.FindMethodAnywhere(name); ok {
		return g.methodSeedKeys(m), true
	}
	if c, ok := g.idx.FindConstant(name); ok {
		return []irmodel.EmissionKey{irmodel.Key(c.Name)}, true
	}
	return nil, false
}

func (g *Generator) typeSeedKeys(t *mdindex.TypeDef) []irmodel.EmissionKey {
	key := irmodel.Key(t.FullName)
	keys := []irmodel.EmissionKey{key}
	if t.Struct {
		if _, ok := g.idx.GetCustomAttribute(t, mdindex.NativeTypedef); ok {
			if _, ok := g.policy.Resolve(t); ok {
				keys = append(keys, key.WithVariant(irmodel.VariantSafeHandle))
			}
		}
	}
	return keys
}

func (g *Generator) methodSeedKeys(m *mdindex.MethodDef) []irmodel.EmissionKey {
	procName := m.SysCallName
	if procName == "" {
		procName = m.Name
	}
	base := irmodel.EmissionKey{EntityFullName: m.SysCallDll + "!" + procName}
	keys := []irmodel.EmissionKey{base.WithVariant(irmodel.VariantRaw)}
	if g.emitter.MethodQualifiesFriendly(m) {
		keys = append(keys, base.WithVariant(irmodel.VariantFriendly))
	}
	return keys
}

func (g *Generator) runAccumulate(ctx context.Context, seeds []irmodel.EmissionKey) (bool, error) {
	if len(seeds) == 0 {
		return false, nil
	}
	before := g.unit.Len()
	err := g.unit.Accumulate(seeds, func(key irmodel.EmissionKey) (emit.Fragment, []irmodel.EmissionKey, error) {
		if err := ctx.Err(); err != nil {
			return emit.Fragment{}, nil, werrors.Wrap(werrors.Cancelled, key.EntityFullName, err)
		}
		return g.emitForKey(key)
	})
	if err != nil {
		return g.unit.Len() > before, err
	}
	return g.unit.Len() > before, nil
}

// emitForKey maps one EmissionKey back to the metadata entity it names and
// dispatches to the matching internal/emit renderer, then runs the result
// through the Collision Resolver before handing it back to the accumulator.
func (g *Generator) emitForKey(key irmodel.EmissionKey) (emit.Fragment, []irmodel.EmissionKey, error) {
	if module, proc, ok := splitMethodKey(key.EntityFullName); ok {
		m, found := g.idx.FindMethod(module, proc)
		if !found {
			return emit.Fragment{}, nil, werrors.New(werrors.NotFound, key.EntityFullName)
		}
		frag, deps := g.emitter.ExternMethod(m, key.Variant)
		return g.resolveCollision(key, externShortName(g.opts.ClassName, m, key.Variant), frag, deps), deps, nil
	}

	if c, ok := g.idx.FindConstant(key.EntityFullName); ok {
		frag, deps := g.emitter.Const(c)
		return g.resolveCollision(key, c.Name, frag, deps), deps, nil
	}

	t, found := g.idx.FindTypeByFullName(key.EntityFullName)
	if !found {
		return emit.Fragment{}, nil, werrors.New(werrors.NotFound, key.EntityFullName)
	}

	if key.Variant == irmodel.VariantSafeHandle {
		desc, ok := g.policy.Resolve(t)
		if !ok {
			return emit.Fragment{}, nil, nil
		}
		releaseModule := ""
		if rm, ok := g.idx.FindMethodAnywhere(desc.ReleaseFuncName); ok {
			releaseModule = rm.SysCallDll
		}
		frag, deps := g.emitter.SafeHandle(t, desc, releaseModule)
		return g.resolveCollision(key, desc.WrapperTypeName(), frag, deps), deps, nil
	}

	switch {
	case t.Struct || t.Union:
		if _, ok := g.idx.GetCustomAttribute(t, mdindex.NativeTypedef); ok {
			frag, deps := g.emitter.HandleTypedef(t)
			return g.resolveCollision(key, t.Name, frag, deps), deps, nil
		}
		frag, deps := g.emitter.Struct(t)
		return g.resolveCollision(key, t.Name, frag, deps), deps, nil
	case t.Interface:
		frag, deps := g.emitter.Interface(t, true)
		return g.resolveCollision(key, t.Name, frag, deps), deps, nil
	case t.Func:
		frag, deps := g.emitter.FuncType(t)
		return g.resolveCollision(key, t.Name, frag, deps), deps, nil
	case t.Kind == apimodel.TypeEnum:
		associated := g.idx.AssociatedConstants(t.FullName)
		frag, deps := g.emitter.Enum(t, associated)
		return g.resolveCollision(key, t.Name, frag, deps), deps, nil
	default:
		g.logger.Debug("no emitter for type kind, skipping", zap.String("type", t.FullName))
		return emit.Fragment{}, nil, nil
	}
}

func splitMethodKey(entityFullName string) (module, proc string, ok bool) {
	for i := 0; i < len(entityFullName); i++ {
		if entityFullName[i] == '!' {
			return entityFullName[:i], entityFullName[i+1:], true
		}
	}
	return "", "", false
}

func externShortName(className string, m *mdindex.MethodDef, variant irmodel.Variant) string {
	name := className + "_" + m.Name
	if variant == irmodel.VariantFriendly {
		name += "Friendly"
	}
	return name
}

// resolveCollision runs the Collision Resolver (internal/collision) over the
// identifier a fragment declares. Qualify means the host already owns this
// symbol: this fragment's own declaration is redundant and is dropped, the
// same as Suppress, keeping the key present in the accumulator so sibling
// fragments can still depend on it. The rename to the host-qualified form
// that other, already-emitted references to this short name now need is not
// applied here — a single fragment can't see the rest of the unit — but
// recorded by Scope and applied as one project-wide pass (Generator.Files,
// via Unit.RewriteAll) once accumulation reaches its fixed point.
func (g *Generator) resolveCollision(key irmodel.EmissionKey, shortName string, frag emit.Fragment, deps []irmodel.EmissionKey) emit.Fragment {
	res := g.scope.Resolve(key, shortName)
	switch res.Decision {
	case collision.Qualify, collision.Suppress:
		frag.Source = ""
	}
	return frag
}

// rewriteIdentifier replaces whole-word occurrences of name in src with
// replacement, leaving longer identifiers that merely contain name as a
// substring untouched.
func rewriteIdentifier(src, name, replacement string) string {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	return pattern.ReplaceAllString(src, replacement)
}
