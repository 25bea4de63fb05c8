// Package config holds the Generation Facade's configuration knobs (spec.md
// §6): the host-tunable options plus their defaults, decoupled from the CLI
// flag parsing in cmd/win32gen so the facade itself stays usable as a plain
// library (e.g. invoked from a build-time go:generate step with no flags at
// all). Grounded on how zzl-go-winapi-gen's cmd/win32api-gen/main.go hardcodes
// these same three knobs as local variables — generalized into a struct the
// host assembles however it likes (flags, a config file, or a literal).
package config

// Options is spec.md §6's enumerated configuration surface.
type Options struct {
	// ClassName is the static-class-equivalent hosting extern methods
	// (default "PInvoke").
	ClassName string
	// EmitSingleFile concatenates all fragments into one file when true;
	// one file per top-level entity when false.
	EmitSingleFile bool
	// Namespace defaults to "Microsoft.Windows.Sdk". No generator component
	// reads it: the package clause comes from PackageName, and the metadata
	// namespaces scanned are scoped by NamespaceFilters.
	Namespace string
	// PackageName is the `package` clause written into every generated file.
	PackageName string
	// QualifiedPrefix is prepended to a generated identifier that collides
	// with a host-declared symbol (internal/collision's Qualify decision) —
	// in practice the import alias the host assigns this package.
	QualifiedPrefix string

	// NamespaceFilters scopes GenerateAll to a subset of metadata namespaces
	// (cmd/win32gen's repeatable `--namespace` flag): plain glob entries
	// select namespaces to include, a "!"-prefixed entry excludes regardless
	// of the positive entries — the same two-sided filter shape as the
	// teacher's gomodel.ApiFilter.Namespaces. Unset means every namespace.
	NamespaceFilters []string

	// DllAllowList further scopes GenerateAll's P/Invoke methods to the
	// named DLLs (cmd/win32gen's repeatable `--dll` flag, ApiFilter.
	// DllImports' equivalent). Unset means every DLL.
	DllAllowList []string
}

// Defaults returns spec.md §6's documented default values.
func Defaults() Options {
	return Options{
		ClassName:   "PInvoke",
		Namespace:   "Microsoft.Windows.Sdk",
		PackageName: "win32",
	}
}

// WithDefaults fills any zero-valued field of o with Defaults()'s value,
// the same "overlay user config onto a baseline" shape kong-yaml/kong-toml
// give cmd/win32gen for free at the flag layer — applied here too so a
// caller driving the facade directly (no CLI) still gets sane defaults.
func (o Options) WithDefaults() Options {
	d := Defaults()
	if o.ClassName == "" {
		o.ClassName = d.ClassName
	}
	if o.Namespace == "" {
		o.Namespace = d.Namespace
	}
	if o.PackageName == "" {
		o.PackageName = d.PackageName
	}
	return o
}
