// Package accumulate is the Unit Accumulator (C6, spec.md §4.6): a
// pending-set work-loop that drives the emitters (internal/emit) to a fixed
// point — popping one EmissionKey, emitting it if not already satisfied, and
// pushing whatever further keys that emission depends on — then assembles
// the resulting fragments into one or more compilable Go files. Grounded on
// zzl-go-winapi-gen's codegen.go GenPkg, which performs the
// same collect-then-assemble shape in one function; split here into an
// explicit work-loop plus a separate assembly step because the generalized
// EmissionKey graph (friendly overloads, safe handles, cross-module deps)
// needs cycle-safe, order-independent processing zzl-go-winapi-gen's single linear
// pass never had to handle.
package accumulate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kevinmiles/win32gen/internal/emit"
	"github.com/kevinmiles/win32gen/internal/irmodel"
)

// Mode controls how the assembled fragments are grouped into files (spec.md
// §6's EmitSingleFile option).
type Mode int

const (
	// SingleFile puts every fragment in one generated .go file.
	SingleFile Mode = iota
	// OneFilePerEntity gives each top-level metadata entity its own file,
	// named after the entity, with shared support code in one extra file.
	OneFilePerEntity
)

// EmitFunc renders one EmissionKey to a fragment plus the further keys that
// fragment's definition depends on. internal/emit's per-kind methods
// (Struct, Enum, Const, Interface, FuncType, HandleTypedef, SafeHandle,
// ExternMethod) are adapted to this shape by the caller, which is the only
// place that knows how to map an EmissionKey back to a metadata entity
// (that mapping lives in internal/mdindex, C1).
type EmitFunc func(key irmodel.EmissionKey) (emit.Fragment, []irmodel.EmissionKey, error)

// Unit accumulates fragments for one generation request and assembles them
// into file contents.
type Unit struct {
	mode      Mode
	className string

	fragments map[irmodel.EmissionKey]emit.Fragment
	order     []irmodel.EmissionKey
	modules   map[string]bool // distinct DLL base names referenced by extern fragments
}

// New builds an empty Unit. className is the extern-method host prefix
// (spec.md §6 ClassName); it is stored but not used in file naming — the
// shared support file is always zz_support.go.
func New(mode Mode, className string) *Unit {
	if className == "" {
		className = "PInvoke"
	}
	return &Unit{
		mode:      mode,
		className: className,
		fragments: make(map[irmodel.EmissionKey]emit.Fragment),
		modules:   make(map[string]bool),
	}
}

// Accumulate runs the pending-set work-loop to a fixed point (spec.md §4.6,
// invariant: "every EmissionKey reachable from the seed set is emitted
// exactly once"). Termination: the metadata index bounds the universe of
// EmissionKeys, and a key already present in u.fragments is never re-queued,
// so the loop visits each key's emitFn call at most once — strictly
// decreasing the set of unsatisfied-and-not-yet-queued keys each iteration.
func (u *Unit) Accumulate(seed []irmodel.EmissionKey, emitFn EmitFunc) error {
	pending := append([]irmodel.EmissionKey{}, seed...)
	queued := make(map[irmodel.EmissionKey]bool)
	for _, k := range pending {
		queued[k] = true
	}

	for len(pending) > 0 {
		key := pending[0]
		pending = pending[1:]

		if _, done := u.fragments[key]; done {
			continue
		}

		frag, deps, err := emitFn(key)
		if err != nil {
			return fmt.Errorf("accumulate %s: %w", key.EntityFullName, err)
		}

		u.fragments[key] = frag
		u.order = append(u.order, key)
		if frag.Module != "" {
			u.modules[frag.Module] = true
		}

		for _, d := range deps {
			if queued[d] {
				continue
			}
			queued[d] = true
			pending = append(pending, d)
		}
	}
	return nil
}

// Suppress drops a key from the accumulated output without visiting it
// again. The facade does not call it for the Collision Resolver's Suppress
// decision (generator.go's resolveCollision blanks the fragment's source and
// keeps the key instead).
func (u *Unit) Suppress(key irmodel.EmissionKey) {
	if _, ok := u.fragments[key]; !ok {
		return
	}
	delete(u.fragments, key)
	for i, k := range u.order {
		if k == key {
			u.order = append(u.order[:i], u.order[i+1:]...)
			break
		}
	}
}

// RewriteAll applies replacer to every surviving fragment's source in
// place — the project-wide rename pass a Qualify decision needs
// (internal/collision.Scope.QualifiedNames), since a bare-name reference to
// a qualified symbol can live in any fragment, not just the one that
// declared it. Called once, after accumulation reaches its fixed point, so
// it sees every fragment the work-loop ever produced.
func (u *Unit) RewriteAll(replacer func(string) string) {
	for _, k := range u.order {
		frag := u.fragments[k]
		frag.Source = replacer(frag.Source)
		u.fragments[k] = frag
	}
}

// Len reports how many fragments survive in the unit.
func (u *Unit) Len() int {
	return len(u.order)
}

// Fragment returns the fragment recorded for key, if any.
func (u *Unit) Fragment(key irmodel.EmissionKey) (emit.Fragment, bool) {
	f, ok := u.fragments[key]
	return f, ok
}

// sortedModules returns the distinct DLL base names in deterministic order.
func (u *Unit) sortedModules() []string {
	out := make([]string, 0, len(u.modules))
	for m := range u.modules {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// collectImports scans rendered source text for package-qualified references
// the way zzl-go-winapi-gen's GenPkg does (strings.Contains(code, "unsafe."),
// "syscall.", etc.) rather than tracking imports symbolically — codegen.go
// never builds an import set from the type model either, it greps its own
// output.
func collectImports(code string) []string {
	var imports []string
	add := func(substr, path string) {
		if strings.Contains(code, substr) {
			imports = append(imports, path)
		}
	}
	add("unsafe.", "unsafe")
	add("syscall.", "syscall")
	add("runtime.", "runtime")
	add("atomic.", "sync/atomic")
	add("math.", "math")
	add("win32.", "github.com/zzl/go-win32api/win32")
	sort.Strings(imports)
	return imports
}

func renderImportBlock(imports []string) string {
	if len(imports) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("import (\n")
	for _, imp := range imports {
		fmt.Fprintf(&b, "\t%q\n", imp)
	}
	b.WriteString(")\n\n")
	return b.String()
}
