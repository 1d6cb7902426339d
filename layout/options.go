package layout

import "log/slog"

// Options 配置引擎所需的依赖，例如测量后端。
type Options struct {
	Measurer   Measurer
	FontFamily string       // 为空时使用 DefaultFontFamily
	Logger     *slog.Logger // 为空时使用包级 Logger()
}

// Font 描述一次测量所用的字体三元组。
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Weight int     `json:"weight"`
}

// MeasureFunc 返回文本在给定字体下的渲染宽度（排版单位）。
type MeasureFunc func(text string) float64

// Measurer 负责为某个字体构造宽度测量函数。
// 实现必须对固定输入给出确定结果，且不得修改文本。
type Measurer interface {
	Measure(font Font) MeasureFunc
}

// MeasurerFunc 让普通函数满足 Measurer 接口，便于测试注入。
type MeasurerFunc func(font Font) MeasureFunc

func (f MeasurerFunc) Measure(font Font) MeasureFunc { return f(font) }
