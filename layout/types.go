package layout

import (
	"fmt"
	"strings"
)

// 该文件定义排版引擎的输入、输出与偏好结构，供引擎、偏好存储与调试 JSON 共用。

// TextRole 表示文本的语义角色，每个角色有独立的策略顺序与默认偏好。
type TextRole int

const (
	RoleTitle TextRole = iota
	RoleStatHeading
)

// Roles 按固定顺序列出全部角色。
var Roles = []TextRole{RoleTitle, RoleStatHeading}

func (r TextRole) String() string {
	switch r {
	case RoleTitle:
		return "title"
	case RoleStatHeading:
		return "statHeading"
	default:
		return fmt.Sprintf("TextRole(%d)", int(r))
	}
}

// MarshalText 让角色在 JSON/YAML 中以名称输出。
func (r TextRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText 解析角色名称。
func (r *TextRole) UnmarshalText(b []byte) error {
	role, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// ParseRole 将名称解析为角色，大小写不敏感，接受 stat-heading 之类的别名。
func ParseRole(name string) (TextRole, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "title":
		return RoleTitle, nil
	case "statheading", "stat-heading", "stat_heading":
		return RoleStatHeading, nil
	default:
		return 0, fmt.Errorf("未知的文本角色：%q", name)
	}
}

// TextBounds 是文本需要放入的矩形区域（排版单位）。
type TextBounds struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// TextLayoutResult 是一次排版的可渲染结果。
// Lines 至少包含一个元素（可能是空字符串），FontSize 与 LineHeight 始终大于 0。
type TextLayoutResult struct {
	Role         TextRole `json:"role" yaml:"role"`
	Lines        []string `json:"lines" yaml:"lines"`
	FontSize     float64  `json:"fontSize" yaml:"fontSize"`
	LineHeight   float64  `json:"lineHeight" yaml:"lineHeight"`
	Ellipsis     bool     `json:"ellipsis" yaml:"ellipsis"`
	Overflow     bool     `json:"overflow" yaml:"overflow"`
	StrategyUsed string   `json:"strategyUsed" yaml:"strategyUsed"`
}

// EngineResult 保存最终布局以及每一步的尝试，便于调试。
type EngineResult struct {
	Layout   TextLayoutResult   `json:"layout" yaml:"layout"`
	Attempts []TextLayoutResult `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}

// Preferences 描述调用方提供的排版偏好，所有字段可选（nil 表示沿用角色默认值）。
//
// title 使用 AllowWrap/MinFontPercent/TwoLineMinPercent/AllowOverflow/PreferEllipsis；
// statHeading 使用 MinFontPercent/AllowOverflow/ForceTwoLine/PreferEllipsis。
type Preferences struct {
	AllowWrap         *bool    `json:"allowWrap,omitempty" yaml:"allowWrap,omitempty"`
	MinFontPercent    *float64 `json:"minFontPercent,omitempty" yaml:"minFontPercent,omitempty"`
	TwoLineMinPercent *float64 `json:"twoLineMinPercent,omitempty" yaml:"twoLineMinPercent,omitempty"`
	AllowOverflow     *bool    `json:"allowOverflow,omitempty" yaml:"allowOverflow,omitempty"`
	ForceTwoLine      *bool    `json:"forceTwoLine,omitempty" yaml:"forceTwoLine,omitempty"`
	PreferEllipsis    *bool    `json:"preferEllipsis,omitempty" yaml:"preferEllipsis,omitempty"`
}

// ResolvedPreferences 是默认值与调用方偏好合并后的标量值。
type ResolvedPreferences struct {
	AllowWrap         bool    `json:"allowWrap" yaml:"allowWrap"`
	MinFontPercent    float64 `json:"minFontPercent" yaml:"minFontPercent"`
	TwoLineMinPercent float64 `json:"twoLineMinPercent" yaml:"twoLineMinPercent"`
	AllowOverflow     bool    `json:"allowOverflow" yaml:"allowOverflow"`
	ForceTwoLine      bool    `json:"forceTwoLine" yaml:"forceTwoLine"`
	PreferEllipsis    bool    `json:"preferEllipsis" yaml:"preferEllipsis"`
}

// Bool 和 Percent 用于构造可选偏好字段。
func Bool(v bool) *bool { return &v }

func Percent(v float64) *float64 { return &v }
