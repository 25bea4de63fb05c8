package accumulate

import (
	"fmt"
	"strings"

	"github.com/kevinmiles/win32gen/internal/identifier"
)

// packageHeader is the generated-code marker written ahead of every
// assembled file's package clause.
const packageHeader = "// Code generated by win32gen. DO NOT EDIT.\n\n"

// Files assembles the accumulated fragments into the final file contents,
// keyed by file name, honoring Mode (spec.md §6 EmitSingleFile). Both modes
// carry the same shared extern-method support block (lazy DLL handles, proc-
// address caches, the lazyAddr resolver) — zzl-go-winapi-gen's GenPkg emits this
// support code inline once per package; generalized here into its own named
// block so OneFilePerEntity mode can give it a dedicated file without
// duplicating it into every entity file that happens to declare an extern
// method.
func (u *Unit) Files(packageName string) map[string]string {
	switch u.mode {
	case OneFilePerEntity:
		return u.filesPerEntity(packageName)
	default:
		return u.filesSingle(packageName)
	}
}

func (u *Unit) filesSingle(packageName string) map[string]string {
	var body strings.Builder
	for _, key := range u.order {
		body.WriteString(u.fragments[key].Source)
	}
	support := u.supportBlock(body.String())
	full := body.String() + support

	var out strings.Builder
	out.WriteString(packageHeader)
	fmt.Fprintf(&out, "package %s\n\n", packageName)
	out.WriteString(renderImportBlock(collectImports(full)))
	out.WriteString(full)

	return map[string]string{"win32gen.go": out.String()}
}

func (u *Unit) filesPerEntity(packageName string) map[string]string {
	files := make(map[string]string)
	var allBody strings.Builder

	for _, key := range u.order {
		frag := u.fragments[key]
		name := entityFileName(key.EntityFullName)
		allBody.WriteString(frag.Source)

		var out strings.Builder
		out.WriteString(packageHeader)
		fmt.Fprintf(&out, "package %s\n\n", packageName)
		out.WriteString(renderImportBlock(collectImports(frag.Source)))
		out.WriteString(frag.Source)
		files[name] = out.String()
	}

	if support := u.supportBlock(allBody.String()); support != "" {
		var out strings.Builder
		out.WriteString(packageHeader)
		fmt.Fprintf(&out, "package %s\n\n", packageName)
		out.WriteString(renderImportBlock(collectImports(support)))
		out.WriteString(support)
		files["zz_support.go"] = out.String()
	}

	return files
}

func entityFileName(entityFullName string) string {
	parts := strings.Split(entityFullName, ".")
	last := parts[len(parts)-1]
	last = strings.TrimSuffix(last, "!"+last)
	// extern-method keys ("kernel32!CreateFileW") name the file after the proc
	if i := strings.IndexByte(last, '!'); i >= 0 {
		last = last[i+1:]
	}
	return strings.ToLower(identifier.SafeName(last)) + ".go"
}

// supportBlock renders the shared runtime support any of entityBody's
// fragments reference: the extern-method DLL/proc-address machinery when
// modules were recorded, plus boolToUintptr and utf16Ptr whenever a fragment
// actually calls them — grepped out of entityBody the same way
// collectImports greps for package-qualified references, since neither
// helper's presence is tracked symbolically anywhere upstream.
//
// Grounded on zzl-go-winapi-gen's codegen.go genSysCall/GenPkg, which emits
// the call site `addr := lazyAddr(&pFoo, libFoo, "FooProc")` and the matching
// `var ( pFoo uintptr )` block inline; the resolver body itself isn't in
// codegen.go's own output (it ships as part of the consuming go-win32api
// runtime, outside this pack), so it is reconstructed here from first
// principles: a double-checked lazy init over syscall.LazyDLL.NewProc, the
// same shape zzl-go-winapi-gen's call site expects. utf16Ptr follows the
// UTF16PtrFromString-wrapping shape other_examples/jmigpin-editor__winapi.go
// uses for the same job.
func (u *Unit) supportBlock(entityBody string) string {
	modules := u.sortedModules()
	needsBool := strings.Contains(entityBody, "boolToUintptr(")
	needsUtf16 := strings.Contains(entityBody, "utf16Ptr(")

	if len(modules) == 0 && !needsBool && !needsUtf16 {
		return ""
	}

	var b strings.Builder

	if len(modules) > 0 {
		procVars := u.sortedProcVars()

		b.WriteString("var (\n")
		for _, m := range modules {
			fmt.Fprintf(&b, "\tlib%s = syscall.NewLazyDLL(%q)\n", identifier.CapSafeName(m), m+".dll")
		}
		b.WriteString(")\n\n")

		b.WriteString("var (\n")
		for _, pv := range procVars {
			fmt.Fprintf(&b, "\t%s uintptr\n", pv)
		}
		b.WriteString(")\n\n")

		b.WriteString("// lazyAddr resolves and caches a DLL export's address on first use.\n")
		b.WriteString("func lazyAddr(cache *uintptr, dll *syscall.LazyDLL, proc string) uintptr {\n")
		b.WriteString("\tif addr := atomic.LoadUintptr(cache); addr != 0 {\n\t\treturn addr\n\t}\n")
		b.WriteString("\taddr := dll.NewProc(proc).Addr()\n")
		b.WriteString("\tatomic.StoreUintptr(cache, addr)\n")
		b.WriteString("\treturn addr\n")
		b.WriteString("}\n\n")
	}

	if needsBool {
		b.WriteString("func boolToUintptr(v bool) uintptr {\n\tif v {\n\t\treturn 1\n\t}\n\treturn 0\n}\n\n")
	}

	if needsUtf16 {
		b.WriteString("// utf16Ptr returns a NUL-terminated UTF-16 encoding of s, for constants\n")
		b.WriteString("// whose native type is a pointer to string data baked into metadata.\n")
		b.WriteString("func utf16Ptr(s string) *uint16 {\n")
		b.WriteString("\tp, _ := syscall.UTF16PtrFromString(s)\n")
		b.WriteString("\treturn p\n")
		b.WriteString("}\n\n")
	}

	return b.String()
}

func (u *Unit) sortedProcVars() []string {
	seen := make(map[string]bool)
	var out []string
	for _, key := range u.order {
		frag := u.fragments[key]
		if frag.ProcVar == "" || seen[frag.ProcVar] {
			continue
		}
		seen[frag.ProcVar] = true
		out = append(out, frag.ProcVar)
	}
	return out
}
