package irmodel

// ParamFlag mirrors the marshalling hints spec.md §3 requires FieldDef/
// MethodDef params to carry: in/out/optional, plus the two array-sizing
// attributes (§4.2) that drive friendly-overload span promotion.
type ParamFlag byte

const (
	ParamIn       ParamFlag = 1 << 0
	ParamOut      ParamFlag = 1 << 1
	ParamOptional ParamFlag = 1 << 2
)

// SizeParamIndex, when non-negative, names the 0-based index of the sibling
// parameter carrying this array parameter's element count (spec.md §4.2:
// "Arrays with SizeParamIndex attribute"). SizeConst, when non-negative,
// is a fixed inline length instead.
type Param struct {
	Name  string
	Type  *Type
	Flags ParamFlag

	SizeParamIndex int // -1 if absent
	SizeConst      int // -1 if absent
}

func (p *Param) In() bool       { return p.Flags&ParamIn != 0 }
func (p *Param) Out() bool      { return p.Flags&ParamOut != 0 }
func (p *Param) Optional() bool { return p.Flags&ParamOptional != 0 }

func (p *Param) HasSizeParam() bool { return p.SizeParamIndex >= 0 }
func (p *Param) HasSizeConst() bool { return p.SizeConst >= 0 }
