package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ByLCY/textfit/binding"
	"github.com/ByLCY/textfit/config"
	"github.com/ByLCY/textfit/dsl"
	"github.com/ByLCY/textfit/layout"
	"github.com/ByLCY/textfit/prefstore"
)

// batchEntry 是 batch 输出中的一项。
type batchEntry struct {
	Line   int                     `json:"line" yaml:"line"`
	Text   string                  `json:"text" yaml:"text"`
	Bounds layout.TextBounds       `json:"bounds" yaml:"bounds"`
	Layout layout.TextLayoutResult `json:"layout" yaml:"layout"`
}

// batchReport 是一个 batch 文件的排版结果。
type batchReport struct {
	Batch   string       `json:"batch" yaml:"batch"`
	Results []batchEntry `json:"results" yaml:"results"`
}

func (a *app) newBatchCmd() *cobra.Command {
	var (
		dataJSON  string
		dataFile  string
		fromStore bool
		watch     bool
	)
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Fit every text listed in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadData(dataJSON, dataFile)
			if err != nil {
				return err
			}
			path := args[0]

			var store *prefstore.Store
			if fromStore {
				s, closeStore, err := a.openStore()
				if err != nil {
					return err
				}
				defer closeStore()
				store = s
			}

			run := func() error {
				report, err := a.runBatch(cmd.Context(), path, data, store)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), a.cfg.Output, report)
			}
			if err := run(); err != nil {
				if !watch {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			if !watch {
				return nil
			}

			// 配置文件与 batch 文件的变更都会触发重排，两者串行执行
			var mu sync.Mutex
			rerun := func() {
				mu.Lock()
				defer mu.Unlock()
				if err := run(); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}
			if a.cfgm != nil && a.cfgm.ConfigFileUsed() != "" {
				a.cfgm.OnChange(func(cfg config.Config) {
					mu.Lock()
					a.cfg = cfg
					mu.Unlock()
					rerun()
				})
				a.cfgm.WatchConfig()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchFile(ctx, path, prefstore.DefaultDebounceDuration, rerun)
		},
	}
	cmd.Flags().StringVar(&dataJSON, "data", "", "JSON data for ${path} placeholders")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "read placeholder data from a JSON file")
	cmd.Flags().BoolVar(&fromStore, "prefs-from-store", false, "use stored preferences under each item's own")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run whenever the batch file changes")
	return cmd
}

// runBatch 解析、编译并排版一个 batch 文件。
func (a *app) runBatch(ctx context.Context, path string, data any, store *prefstore.Store) (*batchReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开 batch 文件 %s: %w", path, err)
	}
	defer file.Close()

	b, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析 batch 文件失败: %w", err)
	}
	jobs, err := dsl.Compile(b, data)
	if err != nil {
		return nil, fmt.Errorf("编译 batch 文件失败: %w", err)
	}

	engine := a.newEngine()
	log := layout.Logger()
	report := &batchReport{Batch: b.Name, Results: make([]batchEntry, 0, len(jobs))}
	for _, job := range jobs {
		if missing := binding.Missing(job.Text, data); len(missing) > 0 {
			log.Warn("unresolved placeholders", "line", job.Line, "paths", missing)
		}
		prefs := job.Prefs
		if store != nil {
			merged := store.Get(ctx, job.Role)
			if prefs != nil {
				merged = merged.Overlay(*prefs)
			}
			prefs = &merged
		}
		report.Results = append(report.Results, batchEntry{
			Line:   job.Line,
			Text:   job.Text,
			Bounds: job.Bounds,
			Layout: engine.FitText(job.Role, job.Text, job.Bounds, prefs),
		})
	}
	return report, nil
}

func loadData(raw, path string) (any, error) {
	if raw != "" && path != "" {
		return nil, fmt.Errorf("--data 与 --data-file 只能指定一个")
	}
	var src []byte
	switch {
	case raw != "":
		src = []byte(raw)
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件失败: %w", err)
		}
		src = b
	default:
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(src, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

// watchFile 监听 path 所在目录（编辑器常以重命名方式保存），
// 对同一文件的连续事件去抖后调用 onChange，直到 ctx 结束。
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("监听 %s 失败: %w", filepath.Dir(abs), err)
	}

	var (
		timer  *time.Timer
		fire   <-chan time.Time
		logger = layout.Logger()
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}
