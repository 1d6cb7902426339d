package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/textfit/binding"
	"github.com/ByLCY/textfit/layout"
)

// Job 是编译后的一次排版请求。
type Job struct {
	Line   int                 `json:"line" yaml:"line"`
	Role   layout.TextRole     `json:"role" yaml:"role"`
	Text   string              `json:"text" yaml:"text"`
	Bounds layout.TextBounds   `json:"bounds" yaml:"bounds"`
	Prefs  *layout.Preferences `json:"prefs,omitempty" yaml:"prefs,omitempty"`
}

// Compile 校验 batch 中的每一项并转换为 Job；data 非空时对文本做 ${path} 插值。
func Compile(b *Batch, data any) ([]Job, error) {
	if b == nil {
		return nil, fmt.Errorf("batch 为空")
	}
	jobs := make([]Job, 0, len(b.Items))
	for _, item := range b.Items {
		job, err := compileItem(item, data)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", item.Pos.Line, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func compileItem(item *Item, data any) (Job, error) {
	role, err := layout.ParseRole(item.Role)
	if err != nil {
		return Job{}, err
	}
	bounds, err := layout.ParseBounds(item.Width, item.Height)
	if err != nil {
		return Job{}, err
	}
	text := string(item.Text)
	if data != nil {
		text = binding.Interpolate(text, data)
	}
	job := Job{Line: item.Pos.Line, Role: role, Text: text, Bounds: bounds}
	if item.Prefs != nil {
		prefs, err := compilePrefs(item.Prefs)
		if err != nil {
			return Job{}, err
		}
		prefs = prefs.Sanitize(role)
		job.Prefs = &prefs
	}
	return job, nil
}

func compilePrefs(block *Block) (layout.Preferences, error) {
	var p layout.Preferences
	for _, a := range block.Assignments {
		switch a.Key {
		case "allowWrap":
			v, err := boolValue(a)
			if err != nil {
				return p, err
			}
			p.AllowWrap = v
		case "allowOverflow":
			v, err := boolValue(a)
			if err != nil {
				return p, err
			}
			p.AllowOverflow = v
		case "forceTwoLine":
			v, err := boolValue(a)
			if err != nil {
				return p, err
			}
			p.ForceTwoLine = v
		case "preferEllipsis":
			v, err := boolValue(a)
			if err != nil {
				return p, err
			}
			p.PreferEllipsis = v
		case "minFontPercent":
			v, err := percentValue(a)
			if err != nil {
				return p, err
			}
			p.MinFontPercent = v
		case "twoLineMinPercent":
			v, err := percentValue(a)
			if err != nil {
				return p, err
			}
			p.TwoLineMinPercent = v
		default:
			return p, fmt.Errorf("未知的偏好项 %s", a.Key)
		}
	}
	return p, nil
}

func boolValue(a *Assignment) (*bool, error) {
	if a.Value == nil || a.Value.Bool == nil {
		return nil, fmt.Errorf("偏好项 %s 需要 true 或 false", a.Key)
	}
	return layout.Bool(bool(*a.Value.Bool)), nil
}

func percentValue(a *Assignment) (*float64, error) {
	if a.Value == nil || a.Value.Number == nil {
		return nil, fmt.Errorf("偏好项 %s 需要数值", a.Key)
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(*a.Value.Number, "%"), 64)
	if err != nil {
		return nil, fmt.Errorf("偏好项 %s 的数值无效: %w", a.Key, err)
	}
	return layout.Percent(f), nil
}
