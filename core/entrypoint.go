package core

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"runtime/trace"
	"syscall"

	"github.com/encodeous/ripsim/report"
	"github.com/encodeous/ripsim/state"
	"github.com/encodeous/tint"
	"github.com/goccy/go-yaml"
	slogmulti "github.com/samber/slog-multi"
)

// setupDebugging honours the DBG toggles. The returned cleanup must run
// before the process exits so the trace buffer gets flushed.
func setupDebugging() func() {
	cleanup := func() {}
	if state.DBG_trace {
		f, err := os.Create("trace.out")
		if err != nil {
			log.Fatal(err)
		}
		if err := trace.Start(f); err == nil {
			log.Println("Started tracing")
			cleanup = trace.Stop
		}
	}
	if state.DBG_debug {
		go func() {
			log.Println(http.ListenAndServe("0.0.0.0:6060", nil))
		}()
	}
	return cleanup
}

// ReadScenario loads a scenario file.
func ReadScenario(scenarioPath string) (*state.ScenarioCfg, error) {
	var cfg state.ScenarioCfg
	file, err := os.ReadFile(scenarioPath)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Bootstrap wires logging, reporters and signal handling around a single
// simulation run. logPath overrides the scenario's table log; slogPath adds a
// structured log file alongside the console output. A run stopped by SIGINT
// or SIGTERM is logged and returns a nil result.
func Bootstrap(cfg state.ScenarioCfg, logPath, slogPath string, verbose, parallel, noConsole bool) (*Result, error) {
	defer setupDebugging()()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: cfg.Name,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	if slogPath != "" {
		err := os.MkdirAll(path.Dir(slogPath), 0700)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(slogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	logger := slog.New(
		slogmulti.Fanout(handlers...))

	if logPath != "" {
		cfg.LogPath = logPath
	}

	reporters := make([]report.Reporter, 0)
	if !noConsole {
		reporters = append(reporters, report.NewConsole(os.Stdout))
	}
	if cfg.LogPath != "" {
		err := os.MkdirAll(path.Dir(cfg.LogPath), 0700)
		if err != nil {
			return nil, err
		}
		f, err := report.NewFile(cfg.LogPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reporters = append(reporters, f)
	}
	if verbose {
		reporters = append(reporters, report.NewSlog(logger))
	}

	sim, err := NewSimulation(cfg, logger, report.Multi(reporters...))
	if err != nil {
		return nil, err
	}
	sim.Net.SetParallel(parallel)

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(context.Canceled)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
			return
		}
	}()

	res, err := sim.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("stopped", "reason", context.Cause(ctx).Error())
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
