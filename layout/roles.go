package layout

import "fmt"

// StrategyID 标识一种排版策略。
type StrategyID int

const (
	StrategyWrap StrategyID = iota
	StrategyShrink
	StrategyHyphenate
	StrategyEllipsis
	StrategyOverflow
)

func (s StrategyID) String() string {
	switch s {
	case StrategyWrap:
		return "wrap"
	case StrategyShrink:
		return "shrink"
	case StrategyHyphenate:
		return "hyphenate"
	case StrategyEllipsis:
		return "ellipsis"
	case StrategyOverflow:
		return "overflow"
	default:
		return fmt.Sprintf("StrategyID(%d)", int(s))
	}
}

const (
	// DefaultFontFamily 是卡面文字默认使用的字体族。
	DefaultFontFamily = "Go"

	lineHeightFactor = 1.05

	titleFontSize       = 54.0
	statHeadingFontSize = 22.0

	titleFontWeight       = 550
	statHeadingFontWeight = 700
)

// RoleConfig 是某个角色的静态配置。
type RoleConfig struct {
	Role               TextRole
	DefaultStrategies  []StrategyID
	DefaultPreferences ResolvedPreferences
	BaseFontSize       float64
	BaseLineHeight     float64
	FontWeight         int
}

var roleConfigs = map[TextRole]RoleConfig{
	RoleTitle: {
		Role:              RoleTitle,
		DefaultStrategies: []StrategyID{StrategyShrink, StrategyEllipsis, StrategyOverflow},
		DefaultPreferences: ResolvedPreferences{
			AllowWrap:         false,
			MinFontPercent:    75,
			TwoLineMinPercent: 85,
			AllowOverflow:     false,
			PreferEllipsis:    false,
		},
		BaseFontSize:   titleFontSize,
		BaseLineHeight: titleFontSize * lineHeightFactor,
		FontWeight:     titleFontWeight,
	},
	RoleStatHeading: {
		Role: RoleStatHeading,
		DefaultStrategies: []StrategyID{
			StrategyWrap,
			StrategyShrink,
			StrategyHyphenate,
			StrategyEllipsis,
			StrategyOverflow,
		},
		DefaultPreferences: ResolvedPreferences{
			MinFontPercent: 95,
			AllowOverflow:  false,
			ForceTwoLine:   true,
			PreferEllipsis: false,
		},
		BaseFontSize:   statHeadingFontSize,
		BaseLineHeight: statHeadingFontSize * lineHeightFactor,
		FontWeight:     statHeadingFontWeight,
	},
}

// ConfigFor 返回角色配置的副本；未知角色按 title 处理。
func ConfigFor(role TextRole) RoleConfig {
	cfg, ok := roleConfigs[role]
	if !ok {
		cfg = roleConfigs[RoleTitle]
		cfg.Role = role
	}
	cfg.DefaultStrategies = append([]StrategyID(nil), cfg.DefaultStrategies...)
	return cfg
}

// DefaultPreferences 以可选字段形式返回角色默认偏好（仅包含该角色拥有的字段）。
func DefaultPreferences(role TextRole) Preferences {
	d := ConfigFor(role).DefaultPreferences
	if role == RoleStatHeading {
		return Preferences{
			MinFontPercent: Percent(d.MinFontPercent),
			AllowOverflow:  Bool(d.AllowOverflow),
			ForceTwoLine:   Bool(d.ForceTwoLine),
			PreferEllipsis: Bool(d.PreferEllipsis),
		}
	}
	return Preferences{
		AllowWrap:         Bool(d.AllowWrap),
		MinFontPercent:    Percent(d.MinFontPercent),
		TwoLineMinPercent: Percent(d.TwoLineMinPercent),
		AllowOverflow:     Bool(d.AllowOverflow),
		PreferEllipsis:    Bool(d.PreferEllipsis),
	}
}

// EffectiveOrder 计算实际执行的策略顺序。
// PreferEllipsis 为 true 时，ellipsis 被移到 shrink 之前；没有 shrink 时移到最前。
func EffectiveOrder(role TextRole, prefs ResolvedPreferences) []StrategyID {
	base := ConfigFor(role).DefaultStrategies
	if !prefs.PreferEllipsis {
		return base
	}
	order := make([]StrategyID, 0, len(base))
	for _, id := range base {
		if id != StrategyEllipsis {
			order = append(order, id)
		}
	}
	for i, id := range order {
		if id == StrategyShrink {
			order = append(order[:i], append([]StrategyID{StrategyEllipsis}, order[i:]...)...)
			return order
		}
	}
	return append([]StrategyID{StrategyEllipsis}, order...)
}
