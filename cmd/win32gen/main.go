// Command win32gen drives the Generation Facade (spec.md §6) from the
// command line: point it at a .winmd metadata file and it writes the
// requested slice of generated Go source to an output directory. Flag
// wiring follows zzl-go-winapi-gen's cmd/win32api-gen/main.go hardcoded values
// (assets/Windows.Win32.winmd, output/, the PInvoke class name) turned
// into flags, and the kong/kong-yaml/kong-toml CLI plumbing is grounded on
// sanjay900-VIIPER's cmd/viiper/viiper.go.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/kevinmiles/win32gen"
	"github.com/kevinmiles/win32gen/internal/config"
	"github.com/kevinmiles/win32gen/internal/genlog"
)

type cli struct {
	Metadata string `help:"Path to the .winmd metadata file to generate from." default:"assets/Windows.Win32.winmd" type:"path"`
	Out      string `help:"Output directory for generated Go source." default:"output" type:"path"`

	Namespace []string `help:"Metadata namespace filter (repeatable; trailing * glob, leading ! negates)." name:"namespace"`
	Dll       []string `help:"Restrict P/Invoke generation to these DLLs (repeatable)." name:"dll"`

	ClassName   string `help:"Static-class-equivalent prefix hosting extern methods." default:"PInvoke" name:"class-name"`
	GoNamespace string `help:"Go package name written into generated files." default:"win32" name:"go-namespace"`
	SingleFile  bool   `help:"Emit one combined file instead of one file per entity." name:"single-file"`

	Type       string `help:"Generate a single named type, constant, or method." name:"type"`
	ModuleGlob string `help:"Generate every export of a DLL matching a module.glob pattern, e.g. kernel32.*." name:"module-glob"`
	All        bool   `help:"Generate every eligible type, method, and constant." name:"all"`

	QualifiedPrefix string `help:"Import alias to qualify generated symbols that collide with a host-declared name." name:"qualified-prefix"`

	Config  string `help:"Path to a YAML or TOML config file overlaying these flags." name:"config" type:"path"`
	Verbose bool   `help:"Use a human-readable development logger instead of production JSON." short:"v"`
}

func main() {
	userCfg := findUserConfig(os.Args[1:])
	yamlPaths, tomlPaths := configCandidatePaths(userCfg)

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("win32gen"),
		kong.Description("Generates Go bindings from Win32 metadata."),
		kong.UsageOnError(),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, err := genlog.New(c.Verbose)
	kctx.FatalIfErrorf(err)
	defer logger.Sync()

	opts := config.Options{
		ClassName:        c.ClassName,
		EmitSingleFile:   c.SingleFile,
		PackageName:      c.GoNamespace,
		NamespaceFilters: c.Namespace,
		DllAllowList:     c.Dll,
		QualifiedPrefix:  c.QualifiedPrefix,
	}.WithDefaults()

	g, err := win32gen.Open(c.Metadata, opts, nil, logger)
	kctx.FatalIfErrorf(err)
	defer g.Close()

	ctx := context.Background()
	produced, err := dispatch(ctx, g, c)
	kctx.FatalIfErrorf(err)
	if !produced {
		fmt.Fprintln(os.Stderr, "win32gen: nothing matched the requested selection")
		os.Exit(1)
	}

	kctx.FatalIfErrorf(writeFiles(c.Out, g.Files()))
}

func dispatch(ctx context.Context, g *win32gen.Generator, c cli) (bool, error) {
	switch {
	case c.Type != "":
		return g.GenerateByName(ctx, c.Type)
	case c.ModuleGlob != "":
		return g.GenerateByModulePattern(ctx, c.ModuleGlob)
	case c.All:
		return g.GenerateAll(ctx)
	default:
		return false, fmt.Errorf("one of --type, --module-glob, or --all is required")
	}
}

func writeFiles(dir string, files map[string]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// findUserConfig mirrors VIIPER's pre-kong.Parse scan of the raw argument
// list: kong needs config candidate paths before it parses flags, so the
// --config flag (if any) has to be found by hand first.
func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("WIN32GEN_CONFIG"); v != "" {
		return v
	}
	return ""
}

// configCandidatePaths turns a user-supplied config path into the
// extension-matched loader lists kong.Configuration expects; an empty path
// yields no candidates and kong silently skips configuration loading.
func configCandidatePaths(userCfg string) (yamlPaths, tomlPaths []string) {
	if userCfg == "" {
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(userCfg)) {
	case ".yaml", ".yml":
		return []string{userCfg}, nil
	case ".toml":
		return nil, []string{userCfg}
	default:
		return []string{userCfg}, nil
	}
}
