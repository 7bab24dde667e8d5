package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/grafana/pyroscope-go"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"bondpipe/internal/config"
	"bondpipe/internal/feed"
	"bondpipe/internal/historical"
	"bondpipe/internal/obs"
	"bondpipe/internal/position"
)

const snapshotFile = "positions.json"

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: built-in run)")
	flag.Parse()
	os.Exit(start(*configPath))
}

// start runs the process and returns its exit code. Deferred cleanup runs
// before main exits.
func start(configPath string) int {
	loaded, err := config.Load(configPath)
	if err != nil {
		logs.Errorf("config load failed, err: %+v", err)
		return 1
	}

	if loaded.Profiling.Enabled() {
		profiler, err := startProfiler(loaded.Profiling)
		if err != nil {
			logs.Errorf("pyroscope start failed, err: %+v", err)
			return 1
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-sys.Shutdown():
			logs.Info("shutdown requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := run(ctx, loaded)
	if err != nil {
		logs.Errorf("run failed, err: %+v", err)
		return 1
	}
	logMetrics(result.Metrics)
	logs.Infof("%d position entries written to %s", len(result.Snapshot.Positions), result.SnapshotPath)
	return 0
}

// runResult is what one full run leaves behind.
type runResult struct {
	Files        feed.Files
	Snapshot     position.Snapshot
	SnapshotPath string
	Metrics      obs.Snapshot
}

// run regenerates the feeds, replays them through a fresh pipeline and
// writes the position snapshot into the result directory.
func run(ctx context.Context, loaded config.Loaded) (runResult, error) {
	if err := os.RemoveAll(loaded.ResultDir); err != nil {
		return runResult{}, errors.Wrap(err, "clear result dir")
	}
	if err := os.MkdirAll(loaded.ResultDir, 0o755); err != nil {
		return runResult{}, errors.Wrap(err, "create result dir")
	}

	gen, err := feed.NewGenerator(loaded.Catalog, loaded.Instruments, loaded.Generator)
	if err != nil {
		return runResult{}, err
	}
	files, err := gen.WriteAll(loaded.DataDir)
	if err != nil {
		return runResult{}, err
	}
	logs.Infof("generated feeds for %d instruments in %s", len(loaded.Instruments), loaded.DataDir)

	sink, err := historical.Open(loaded.Historical)
	if err != nil {
		return runResult{}, err
	}
	metrics := obs.NewMetrics()
	p, err := newPipeline(loaded.Catalog, loaded.Books, sink, metrics)
	if err != nil {
		_ = sink.Close()
		return runResult{}, err
	}
	logs.Infof("pipeline wired, historical backend: %s", loaded.Historical.Backend)

	if err := p.replay(ctx, files); err != nil {
		_ = sink.Close()
		return runResult{}, err
	}
	if err := sink.Close(); err != nil {
		return runResult{}, errors.Wrap(err, "close historical sink")
	}

	snapshot := p.positions.Snapshot()
	snapshotPath := filepath.Join(loaded.ResultDir, snapshotFile)
	if err := position.WriteSnapshot(snapshotPath, snapshot); err != nil {
		return runResult{}, err
	}
	return runResult{
		Files:        files,
		Snapshot:     snapshot,
		SnapshotPath: snapshotPath,
		Metrics:      metrics.Snapshot(),
	}, nil
}

func logMetrics(snap obs.Snapshot) {
	for stage, count := range snap.StageCounts {
		logs.Infof("stage %s published %d values", stage, count)
	}
	for f, lat := range snap.FeedLatency {
		logs.Infof("feed %s replayed in %s", f, lat.Max)
	}
}

func startProfiler(cfg config.ProfilingConfig) (*pyroscope.Profiler, error) {
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.AppName,
		ServerAddress:   cfg.ServerAddress,
		Tags:            cfg.Tags,
		Logger:          profilerLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
}

// profilerLogger forwards pyroscope messages to logs. Debug output is
// dropped.
type profilerLogger struct{}

func (profilerLogger) Infof(format string, args ...interface{}) {
	logs.Infof(format, args...)
}

func (profilerLogger) Debugf(string, ...interface{}) {}

func (profilerLogger) Errorf(format string, args ...interface{}) {
	logs.Errorf(format, args...)
}
