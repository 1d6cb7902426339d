// Package binding fills ${path} placeholders in fit texts from a JSON data document.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ${path} 或 ${path|fallback}
var exprPattern = regexp.MustCompile(`\$\{([^}|]*)(?:\|([^}]*))?\}`)

// placeholder 是一次 ${...} 的解析结果。
type placeholder struct {
	path        string
	fallback    string
	hasFallback bool
}

// placeholderAt 从 FindAllStringSubmatchIndex 的一组下标中取出占位符。
func placeholderAt(text string, loc []int) placeholder {
	p := placeholder{path: strings.TrimSpace(text[loc[2]:loc[3]])}
	if loc[4] >= 0 {
		p.hasFallback = true
		p.fallback = strings.TrimSpace(text[loc[4]:loc[5]])
	}
	return p
}

// resolve 返回替换文本。路径解析失败或值为 null 时退回默认值。
func (p placeholder) resolve(data any) (string, bool) {
	if p.path != "" && data != nil {
		if steps, err := parsePath(p.path); err == nil {
			if val, ok := walk(data, steps); ok && val != nil {
				return format(val), true
			}
		}
	}
	if p.hasFallback {
		return p.fallback, true
	}
	return "", false
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 路径不存在时使用 | 后的默认值；没有默认值则保留原占位符。
func Interpolate(text string, data any) string {
	locs := exprPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(text[last:loc[0]])
		if val, ok := placeholderAt(text, loc).resolve(data); ok {
			b.WriteString(val)
		} else {
			b.WriteString(text[loc[0]:loc[1]])
		}
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// Missing 返回 text 中无法从 data 解析且没有默认值的路径，按出现顺序去重。
func Missing(text string, data any) []string {
	var missing []string
	seen := map[string]bool{}
	for _, loc := range exprPattern.FindAllStringSubmatchIndex(text, -1) {
		p := placeholderAt(text, loc)
		if _, ok := p.resolve(data); ok || seen[p.path] {
			continue
		}
		seen[p.path] = true
		missing = append(missing, p.path)
	}
	return missing
}

// step 是路径中的一跳：index < 0 时按键取值，否则按下标取值。
type step struct {
	key   string
	index int
}

// parsePath 把 a.b[0][1].c 拆成 steps。空键、未闭合或非数字的下标都是错误。
func parsePath(path string) ([]step, error) {
	var steps []step
	for i := 0; i < len(path); {
		switch path[i] {
		case '.':
			return nil, fmt.Errorf("路径 %q 第 %d 个字符处缺少键名", path, i+1)
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("路径 %q 的下标未闭合", path)
			}
			idx, err := strconv.Atoi(path[i+1 : i+end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("路径 %q 的下标 %q 无效", path, path[i+1:i+end])
			}
			steps = append(steps, step{index: idx})
			i += end + 1
		default:
			end := strings.IndexAny(path[i:], ".[")
			if end < 0 {
				end = len(path) - i
			}
			steps = append(steps, step{key: path[i : i+end], index: -1})
			i += end
		}
		// 键或下标之后只能接 '.'、'[' 或结束；'.' 之后必须跟键名
		if i < len(path) && path[i] != '.' && path[i] != '[' {
			return nil, fmt.Errorf("路径 %q 第 %d 个字符处缺少 '.'", path, i+1)
		}
		if i < len(path) && path[i] == '.' {
			i++
			if i == len(path) || path[i] == '.' || path[i] == '[' {
				return nil, fmt.Errorf("路径 %q 以 '.' 结尾或缺少键名", path)
			}
		}
	}
	return steps, nil
}

// walk 沿 steps 在 JSON 解码结果中取值。
func walk(data any, steps []step) (any, bool) {
	current := data
	for _, s := range steps {
		var ok bool
		if s.index < 0 {
			current, ok = field(current, s.key)
		} else {
			current, ok = element(current, s.index)
		}
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func field(v any, key string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		val, ok := m[key]
		return val, ok
	case map[string]string:
		val, ok := m[key]
		return val, ok
	}
	return nil, false
}

func element(v any, idx int) (any, bool) {
	switch s := v.(type) {
	case []any:
		if idx < len(s) {
			return s[idx], true
		}
	case []string:
		if idx < len(s) {
			return s[idx], true
		}
	}
	return nil, false
}

func format(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
