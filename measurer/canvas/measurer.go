package canvasmeasurer

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/textfit/fonts"
	"github.com/ByLCY/textfit/layout"
)

// Measurer measures text via github.com/tdewolff/canvas font faces.
// Widths are returned in layout units (pt); canvas reports millimeters.
type Measurer struct {
	fontBlobs map[string][]byte // by family name
	loadErrs  map[string]error  // families whose font file could not be read
	logger    *slog.Logger

	mu       sync.Mutex
	families map[string]*fontFamilyEntry
	warned   map[string]bool
}

var _ layout.Measurer = (*Measurer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas measurer.
type Options struct {
	// Fonts maps a family name to its font file. Families without an entry use the
	// built-in Go fonts picked by weight.
	Fonts  map[string]Resource
	Logger *slog.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// New creates a measurer backed by the built-in Go fonts.
func New() *Measurer { return NewWithOptions(Options{}) }

// NewWithOptions creates a measurer with injected font resources.
func NewWithOptions(opts Options) *Measurer {
	m := &Measurer{
		fontBlobs: map[string][]byte{},
		loadErrs:  map[string]error{},
		logger:    opts.Logger,
		families:  map[string]*fontFamilyEntry{},
		warned:    map[string]bool{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			m.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			switch {
			case err != nil:
				m.loadErrs[name] = fmt.Errorf("读取字体文件 %s 失败: %w", res.Path, err)
			case len(data) == 0:
				m.loadErrs[name] = fmt.Errorf("字体文件 %s 为空", res.Path)
			default:
				m.fontBlobs[name] = data
			}
		}
	}
	return m
}

// Measure 实现 layout.Measurer。字体无法加载时记录一次警告并退回估算公式，绝不报错。
func (m *Measurer) Measure(font layout.Font) layout.MeasureFunc {
	face, err := m.fontFace(font)
	if err != nil {
		m.warnOnce(font, err)
		return layout.ApproxMeasure(font.Size)
	}
	return func(text string) float64 {
		if text == "" {
			return 0
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		return face.TextWidth(text) * layout.MmToPt
	}
}

func (m *Measurer) fontFace(font layout.Font) (*canvas.FontFace, error) {
	if font.Size <= 0 {
		return nil, fmt.Errorf("字号必须为正数：%g", font.Size)
	}
	family, style, err := m.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return family.Face(font.Size, canvas.Black, style, canvas.FontNormal), nil
}

func (m *Measurer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.families[key]; ok {
		return entry.family, entry.style, nil
	}

	data, name, err := m.loadFontBytes(font)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	style := styleForWeight(font.Weight)
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	m.families[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (m *Measurer) loadFontBytes(font layout.Font) ([]byte, string, error) {
	if err, ok := m.loadErrs[font.Family]; ok {
		return nil, font.Family, err
	}
	if blob, ok := m.fontBlobs[font.Family]; ok {
		return blob, font.Family, nil
	}
	if strings.HasPrefix(font.Family, "embed:") {
		data, err := fonts.Load(font.Family)
		return data, strings.TrimPrefix(font.Family, "embed:"), err
	}
	data, name := fonts.ForWeight(font.Weight)
	if len(data) == 0 {
		return nil, name, fmt.Errorf("找不到内置字体 %s", name)
	}
	return data, name, nil
}

func (m *Measurer) warnOnce(font layout.Font, err error) {
	key := fontCacheKey(font)
	m.mu.Lock()
	seen := m.warned[key]
	m.warned[key] = true
	m.mu.Unlock()
	if seen {
		return
	}
	logger := m.logger
	if logger == nil {
		logger = layout.Logger()
	}
	logger.Warn("font unavailable, falling back to approximate measurement",
		"family", font.Family, "weight", font.Weight, "error", err)
}

// styleForWeight 将 CSS 字重映射为 canvas 字体样式。
func styleForWeight(weight int) canvas.FontStyle {
	switch {
	case weight >= 900:
		return canvas.FontBlack
	case weight >= 800:
		return canvas.FontExtraBold
	case weight >= 700:
		return canvas.FontBold
	case weight >= 600:
		return canvas.FontSemiBold
	case weight >= 500:
		return canvas.FontMedium
	case weight > 0 && weight < 400:
		return canvas.FontLight
	default:
		return canvas.FontRegular
	}
}

func fontCacheKey(font layout.Font) string {
	return fmt.Sprintf("%s|%d", font.Family, font.Weight)
}
