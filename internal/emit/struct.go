package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kevinmiles/win32gen/internal/identifier"
	"github.com/kevinmiles/win32gen/internal/irmodel"
	"github.com/kevinmiles/win32gen/internal/mdindex"
	"github.com/kevinmiles/win32gen/internal/project"
)

// Struct renders a struct or union TypeDef (spec.md §4.4): fields in
// metadata order, layout reproduced exactly, fixed-length array fields as
// fixed buffers, bitfields as accessor methods over a backing scalar, and
// always extensible (invariant 7) — a plain exported struct in Go already
// is, since callers can always declare methods on it from another file in
// the same package; the doc comment below just says so explicitly, mirroring
// zzl-go-winapi-gen's own "partial"-equivalent framing.
func (e *Emitter) Struct(t *mdindex.TypeDef) (Fragment, []irmodel.EmissionKey) {
	name := identifier.CapSafeName(t.Name)
	var b strings.Builder
	var accessors strings.Builder
	var deps []irmodel.EmissionKey

	fmt.Fprintf(&b, "// %s is extensible: user code may declare additional methods on it\n", name)
	fmt.Fprintf(&b, "// in this package.\ntype %s struct {\n", name)

	if t.Struct {
		fieldSrc, fdeps := e.structFields(name, t.StructDef.Fields, &accessors)
		b.WriteString(fieldSrc)
		deps = append(deps, fdeps...)
	} else if t.Union {
		fields, fdeps := e.unionBackingField(t.UnionDef.Fields)
		b.WriteString(fields)
		deps = append(deps, fdeps...)
	}
	b.WriteString("}\n\n")
	b.WriteString(accessors.String())

	if t.Union {
		for _, f := range t.UnionDef.Fields {
			proj := e.projector.Project(f.Type, project.CtxField, false)
			fname := identifier.CapSafeName(f.Name)
			fmt.Fprintf(&b, "func (v *%s) %s() *%s {\n\treturn (*%s)(unsafe.Pointer(v))\n}\n\n",
				name, fname, proj.Type.Name, proj.Type.Name)
		}
	}

	return Fragment{Key: irmodel.Key(t.FullName), Source: b.String()}, deps
}

// structFields renders a struct's field list in metadata order. A run of
// consecutive fields carrying NativeBitfield over the same backing type
// collapses to one backing scalar field plus a Get/Set accessor pair per
// logical bitfield (spec.md §4.4: "Bitfields → accessor properties over a
// backing scalar") — dropping the field outright, as a bare comment, would
// shrink the struct below its metadata-exact size and misalign every field
// that follows it.
func (e *Emitter) structFields(structName string, fields []*mdindex.FieldDef, accessors *strings.Builder) (string, []irmodel.EmissionKey) {
	var b strings.Builder
	var deps []irmodel.EmissionKey

	for i := 0; i < len(fields); {
		f := fields[i]
		if _, ok := e.idx.GetFieldCustomAttribute(f, mdindex.NativeBitfield); !ok {
			line, fdeps := e.structField(f)
			b.WriteString(line)
			deps = append(deps, fdeps...)
			i++
			continue
		}

		proj := e.projector.Project(f.Type, project.CtxField, false)
		deps = append(deps, proj.Deps...)
		backingName := lowerFirst(identifier.SafeName(f.Name)) + "Bits"
		fmt.Fprintf(&b, "\t%s %s // backs bitfield accessors declared below\n", backingName, proj.Type.Name)

		j := i
		for j < len(fields) {
			nf := fields[j]
			nbf, ok := e.idx.GetFieldCustomAttribute(nf, mdindex.NativeBitfield)
			if !ok || nf.Type.Name != f.Type.Name {
				break
			}
			offset, width := bitfieldArgs(nbf.Args)
			writeBitfieldAccessors(accessors, structName, backingName, proj.Type.Name, identifier.CapSafeName(nf.Name), offset, width)
			j++
		}
		i = j
	}

	return b.String(), deps
}

func writeBitfieldAccessors(b *strings.Builder, structName, backingName, elemType, fieldName string, offset, width int) {
	mask := (uint64(1) << uint(width)) - 1
	fmt.Fprintf(b, "func (s *%s) Get%s() %s {\n\treturn (s.%s >> %d) & 0x%x\n}\n\n",
		structName, fieldName, elemType, backingName, offset, mask)
	fmt.Fprintf(b, "func (s *%s) Set%s(v %s) {\n\ts.%s = (s.%s &^ (0x%x << %d)) | ((v & 0x%x) << %d)\n}\n\n",
		structName, fieldName, elemType, backingName, backingName, mask, offset, mask, offset)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'A' && c <= 'Z' {
		return string(c+32) + s[1:]
	}
	return s
}

func (e *Emitter) structField(f *mdindex.FieldDef) (string, []irmodel.EmissionKey) {
	proj := e.projector.Project(f.Type, project.CtxField, false)
	name := identifier.CapSafeName(f.Name)

	typeName := proj.Type.Name
	if proj.Type.Kind == irmodel.KindArray {
		if n, elem, ok := splitFixedArray(typeName); ok {
			return fmt.Sprintf("\t%s [%d]%s\n", name, n, elem), proj.Deps
		}
	}
	return fmt.Sprintf("\t%s %s\n", name, typeName), proj.Deps
}

func (e *Emitter) unionBackingField(fields []*mdindex.FieldDef) (string, []irmodel.EmissionKey) {
	var maxSize, maxAlign int
	var deps []irmodel.EmissionKey
	for _, f := range fields {
		proj := e.projector.Project(f.Type, project.CtxField, false)
		deps = append(deps, proj.Deps...)
		if proj.Type.Size.TotalSize > maxSize {
			maxSize = proj.Type.Size.TotalSize
		}
		if proj.Type.Size.AlignSize > maxAlign {
			maxAlign = proj.Type.Size.AlignSize
		}
	}
	if maxAlign == 0 {
		maxAlign = 1
	}
	elem := "byte"
	switch maxAlign {
	case 2:
		elem = "uint16"
	case 4:
		elem = "uint32"
	case 8:
		elem = "uint64"
	}
	count := maxSize / maxAlign
	return fmt.Sprintf("\tData [%d]%s\n", count, elem), deps
}

func bitfieldArgs(args []interface{}) (offset, width int) {
	if len(args) >= 2 {
		if o, ok := args[0].(int); ok {
			offset = o
		}
		if w, ok := args[1].(int); ok {
			width = w
		}
	}
	return
}

func splitFixedArray(name string) (int, string, bool) {
	if len(name) < 3 || name[0] != '[' {
		return 0, "", false
	}
	closeIdx := strings.IndexByte(name, ']')
	if closeIdx < 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(name[1:closeIdx])
	if err != nil {
		return 0, "", false
	}
	return n, name[closeIdx+1:], true
}
