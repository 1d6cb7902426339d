package layout

import "math"

const (
	minPercent = 50.0
	maxPercent = 100.0
)

// Resolve 将角色默认值与调用方偏好逐字段合并，百分比限制在 [50,100]。p 可以为 nil。
func (p *Preferences) Resolve(role TextRole) ResolvedPreferences {
	out := ConfigFor(role).DefaultPreferences
	if p == nil {
		return out
	}
	if p.AllowWrap != nil {
		out.AllowWrap = *p.AllowWrap
	}
	if p.MinFontPercent != nil {
		out.MinFontPercent = ClampPercent(*p.MinFontPercent)
	}
	if p.TwoLineMinPercent != nil {
		out.TwoLineMinPercent = ClampPercent(*p.TwoLineMinPercent)
	}
	if p.AllowOverflow != nil {
		out.AllowOverflow = *p.AllowOverflow
	}
	if p.ForceTwoLine != nil {
		out.ForceTwoLine = *p.ForceTwoLine
	}
	if p.PreferEllipsis != nil {
		out.PreferEllipsis = *p.PreferEllipsis
	}
	return out
}

// Sanitize 只保留角色拥有的字段，并把百分比限制在 [50,100]。
func (p Preferences) Sanitize(role TextRole) Preferences {
	var next Preferences
	if p.MinFontPercent != nil {
		next.MinFontPercent = Percent(ClampPercent(*p.MinFontPercent))
	}
	next.AllowOverflow = copyBool(p.AllowOverflow)
	next.PreferEllipsis = copyBool(p.PreferEllipsis)
	switch role {
	case RoleStatHeading:
		next.ForceTwoLine = copyBool(p.ForceTwoLine)
	default:
		next.AllowWrap = copyBool(p.AllowWrap)
		if p.TwoLineMinPercent != nil {
			next.TwoLineMinPercent = Percent(ClampPercent(*p.TwoLineMinPercent))
		}
	}
	return next
}

// Overlay 返回以 p 为底、updates 中非 nil 字段覆盖后的结果。
func (p Preferences) Overlay(updates Preferences) Preferences {
	out := p
	if updates.AllowWrap != nil {
		out.AllowWrap = copyBool(updates.AllowWrap)
	}
	if updates.MinFontPercent != nil {
		out.MinFontPercent = Percent(*updates.MinFontPercent)
	}
	if updates.TwoLineMinPercent != nil {
		out.TwoLineMinPercent = Percent(*updates.TwoLineMinPercent)
	}
	if updates.AllowOverflow != nil {
		out.AllowOverflow = copyBool(updates.AllowOverflow)
	}
	if updates.ForceTwoLine != nil {
		out.ForceTwoLine = copyBool(updates.ForceTwoLine)
	}
	if updates.PreferEllipsis != nil {
		out.PreferEllipsis = copyBool(updates.PreferEllipsis)
	}
	return out
}

// MergePreferences 将 updates 叠加到 base 上并按角色清洗。
func MergePreferences(role TextRole, base, updates Preferences) Preferences {
	return base.Overlay(base.Overlay(updates).Sanitize(role))
}

// SanitizeMap 从任意 JSON 解码结果中提取角色偏好：
// 非布尔的开关与非数值的百分比被丢弃，百分比限制在 [50,100]。
func SanitizeMap(role TextRole, raw map[string]any) Preferences {
	var p Preferences
	p.MinFontPercent = numberField(raw, "minFontPercent")
	p.AllowOverflow = boolField(raw, "allowOverflow")
	p.PreferEllipsis = boolField(raw, "preferEllipsis")
	p.ForceTwoLine = boolField(raw, "forceTwoLine")
	p.AllowWrap = boolField(raw, "allowWrap")
	p.TwoLineMinPercent = numberField(raw, "twoLineMinPercent")
	return p.Sanitize(role)
}

// ClampPercent 把百分比限制在 [50,100]，NaN 视为下限。
func ClampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return minPercent
	}
	return math.Min(maxPercent, math.Max(minPercent, v))
}

func boolField(raw map[string]any, key string) *bool {
	if v, ok := raw[key].(bool); ok {
		return Bool(v)
	}
	return nil
}

func numberField(raw map[string]any, key string) *float64 {
	switch v := raw[key].(type) {
	case float64:
		return Percent(v)
	case int:
		return Percent(float64(v))
	case int64:
		return Percent(float64(v))
	default:
		return nil
	}
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	return Bool(*b)
}
