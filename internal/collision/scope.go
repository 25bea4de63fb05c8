// Package collision is the Collision Resolver (C5, spec.md §4.5): tracks
// symbols declared by the consuming compilation and symbols already emitted
// this session, and decides whether a new emission's short name can be used
// as-is, must be qualified, or must be suppressed in favor of a prior
// declaration. Grounded on how VIIPER's internal/server/api tracks
// already-registered routes in a plain map rather than re-deriving it from
// source on every lookup (spec.md §4.5's own grounding note) — the Go port
// trades Roslyn syntax-tree inspection for a plain string set the host
// supplies however it likes (a literal symbol list, or a go/ast-derived one).
package collision

import "github.com/kevinmiles/win32gen/internal/irmodel"

// Decision is the outcome of resolving one short name against a Scope.
type Decision int

const (
	// Accept: no collision, emit and record the name as-is.
	Accept Decision = iota
	// Qualify: the name collides with a host-declared symbol; every
	// generated reference must use QualifiedName instead (spec.md §4.5:
	// "rewritten with a global-qualified form").
	Qualify
	// Suppress: the name collides with a prior emission of a semantically
	// distinct entity; the new emission is dropped and references rebind to
	// the existing one (spec.md §4.5's FILE_CREATE_FLAGS example).
	Suppress
)

// Resolution is Scope.Resolve's answer for one EmissionKey/short-name pair.
type Resolution struct {
	Decision      Decision
	QualifiedName string // set when Decision == Qualify
	RebindTo      string // set when Decision == Suppress: the name already in scope
}

// Scope is the "consuming compilation" view spec.md §4.5 describes: a set of
// externally declared symbols plus the running record of what this session
// has already emitted. QualifiedPrefix is prepended to build a fully
// qualified reference — in practice the import alias a host assigns this
// generator's output package, since Go has no "global::" qualifier.
type Scope struct {
	hostSymbols     map[string]bool
	emittedByName   map[string]irmodel.EmissionKey
	qualified       map[string]string // short name -> qualified form, for names actually resolved Qualify
	QualifiedPrefix string
}

// New builds a Scope from the host's declared symbol set. A nil set is
// treated as empty — every name is then free until this session claims it.
func New(hostSymbols map[string]bool, qualifiedPrefix string) *Scope {
	if hostSymbols == nil {
		hostSymbols = map[string]bool{}
	}
	return &Scope{
		hostSymbols:     hostSymbols,
		emittedByName:   make(map[string]irmodel.EmissionKey),
		qualified:       make(map[string]string),
		QualifiedPrefix: qualifiedPrefix,
	}
}

// Resolve decides what to do with one entity's short name before its
// fragment is added to the accumulator. Calling Resolve twice with the exact
// same (key, shortName) is safe and returns Accept both times (idempotence,
// spec.md §8's round-trip law) — it re-records, rather than double-flags, a
// name this exact key already claimed.
func (s *Scope) Resolve(key irmodel.EmissionKey, shortName string) Resolution {
	if s.hostSymbols[shortName] {
		qn := shortName
		if s.QualifiedPrefix != "" {
			qn = s.QualifiedPrefix + "." + shortName
		}
		s.qualified[shortName] = qn
		return Resolution{Decision: Qualify, QualifiedName: qn}
	}

	if prev, ok := s.emittedByName[shortName]; ok && prev != key {
		return Resolution{Decision: Suppress, RebindTo: shortName}
	}

	s.emittedByName[shortName] = key
	return Resolution{Decision: Accept}
}

// Declare adds a symbol to the host-declared set after construction — used
// when multiple generators share one consuming compilation and need to
// observe each other's emissions live (spec.md §5's cooperating-generators
// scenario).
func (s *Scope) Declare(shortName string) {
	s.hostSymbols[shortName] = true
}

// QualifiedNames returns every short name this Scope has actually resolved
// to Qualify so far, mapped to its qualified form. A Qualify decision drops
// the colliding fragment's own declaration (resolveCollision blanks it, the
// same as Suppress) and instead needs every bare-name reference to that
// symbol — in sibling fragments emitted before or after the collision was
// detected — rewritten to the qualified form. The facade builds one combined
// rewrite from this map and applies it to every fragment's source
// (internal/accumulate's Unit.RewriteAll) once generation finishes, since a
// single-fragment rewrite can't reach references living in other fragments.
func (s *Scope) QualifiedNames() map[string]string {
	out := make(map[string]string, len(s.qualified))
	for name, qn := range s.qualified {
		out[name] = qn
	}
	return out
}
