package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 排版单位与 pt 等价（1 单位 = 1pt = 1/72in），外部传入的长度在边界统一换算。

// Unit 表示长度的原始单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位，按排版单位处理
	UnitPX
	UnitPT
	UnitMM
	UnitCM
	UnitIN
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Units 将长度换算为排版单位。
func (l Length) Units() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength 解析 "140"、"35mm"、"1.5in" 之类的长度。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度不能为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseBounds 解析宽高两个长度并校验为正数。
func ParseBounds(width, height string) (TextBounds, error) {
	w, err := ParseLength(width)
	if err != nil {
		return TextBounds{}, err
	}
	h, err := ParseLength(height)
	if err != nil {
		return TextBounds{}, err
	}
	b := TextBounds{Width: w.Units(), Height: h.Units()}
	if b.Width <= 0 || b.Height <= 0 {
		return TextBounds{}, fmt.Errorf("区域尺寸必须为正数：%s × %s", w, h)
	}
	return b, nil
}
