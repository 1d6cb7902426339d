package main

import (
	"fmt"

	"github.com/ByLCY/textfit/config"
	"github.com/ByLCY/textfit/layout"
	canvasmeasurer "github.com/ByLCY/textfit/measurer/canvas"
	"github.com/ByLCY/textfit/prefstore"
)

// newEngine 按配置选择测量后端。
func (a *app) newEngine() *layout.Engine {
	var m layout.Measurer = layout.ApproxMeasurer{}
	if a.cfg.Measurer == config.MeasurerCanvas {
		opts := canvasmeasurer.Options{}
		if a.cfg.FontFile != "" {
			opts.Fonts = map[string]canvasmeasurer.Resource{
				a.cfg.FontFamily: {Path: a.cfg.FontFile},
			}
		}
		m = canvasmeasurer.NewWithOptions(opts)
	}
	return layout.New(layout.Options{Measurer: m, FontFamily: a.cfg.FontFamily})
}

// openStore 按配置打开偏好存储，返回的 close 函数必须调用。
func (a *app) openStore() (*prefstore.Store, func() error, error) {
	noop := func() error { return nil }
	switch a.cfg.Store.Backend {
	case config.BackendMemory:
		return prefstore.NewStore(prefstore.NewMemoryKV(), nil), noop, nil
	case config.BackendSQLite:
		kv, err := prefstore.OpenSQLiteKV(a.cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("打开偏好数据库失败: %w", err)
		}
		return prefstore.NewStore(kv, nil), kv.Close, nil
	case config.BackendFile:
		return prefstore.NewStore(prefstore.NewFileKV(a.cfg.Store.Path), nil), noop, nil
	default:
		return nil, nil, fmt.Errorf("未知的偏好存储：%s", a.cfg.Store.Backend)
	}
}
