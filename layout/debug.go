package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// debugDump 在 EngineResult 之外附带按顺序排列的策略名，便于快速浏览。
type debugDump struct {
	*EngineResult
	Steps []string `json:"steps"`
}

// WriteDebugJSON 将排版结果（含每一步尝试）输出为 JSON，便于调试或可视化。
// 目标目录不存在时会被创建。res 为 nil 时什么也不做。
func WriteDebugJSON(res *EngineResult, path string) error {
	if res == nil {
		return nil
	}
	dump := debugDump{EngineResult: res, Steps: make([]string, 0, len(res.Attempts))}
	for _, a := range res.Attempts {
		dump.Steps = append(dump.Steps, a.StrategyUsed)
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("编码调试 JSON 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试输出目录失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
