package main

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bondpipe/internal/config"
	"bondpipe/internal/historical"
	"bondpipe/internal/obs"
	"bondpipe/internal/position"
)

func testConfig(t *testing.T, backend string) config.Loaded {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(root, "data")
	cfg.ResultDir = filepath.Join(root, "result")
	cfg.DataPoints = 40
	cfg.Start = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	cfg.Instruments = []string{"9128283H1", "912810RZ3"}
	cfg.Historical.Backend = backend
	loaded, err := cfg.Resolve()
	require.NoError(t, err)
	return loaded
}

func readLines(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines [][]string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if sc.Text() == "" {
			continue
		}
		lines = append(lines, strings.Split(sc.Text(), ","))
	}
	require.NoError(t, sc.Err())
	return lines
}

func signed(t *testing.T, qty string, buy bool) int64 {
	t.Helper()
	v, err := strconv.ParseInt(qty, 10, 64)
	require.NoError(t, err)
	if buy {
		return v
	}
	return -v
}

func TestRunFileBackend(t *testing.T) {
	loaded := testConfig(t, historical.BackendFile)
	result, err := run(context.Background(), loaded)
	require.NoError(t, err)

	stored, err := position.ReadSnapshot(result.SnapshotPath)
	require.NoError(t, err)
	require.NoError(t, position.CompareSnapshots(result.Snapshot, stored))

	// every position is the net of the booked feed trades and the
	// algorithm's executions
	expected := map[string]int64{}
	trades := readLines(t, result.Files.Trades)
	require.Len(t, trades, 20)
	for _, f := range trades {
		expected[f[0]] += signed(t, f[4], f[5] == "BUY")
	}
	executions := readLines(t, filepath.Join(loaded.ResultDir, historical.KindExecution.FileName()))
	for _, f := range executions {
		// timestamp,CUSIP,ORDERID,SIDE,TYPE,PRICE,VISIBLE,HIDDEN,...
		expected[f[1]] += signed(t, f[6], f[3] == "BID") + signed(t, f[7], f[3] == "BID")
	}
	actual := map[string]int64{}
	for _, entry := range result.Snapshot.Positions {
		assert.Contains(t, loaded.Books, entry.Book)
		actual[entry.InstrumentID] += int64(entry.Qty)
	}
	assert.Equal(t, expected, actual)

	// every inquiry is quoted and completed, DONE is published twice
	inquiries := readLines(t, filepath.Join(loaded.ResultDir, historical.KindInquiry.FileName()))
	assert.Len(t, inquiries, 40)
	for _, f := range inquiries {
		assert.Equal(t, "DONE", f[len(f)-1])
	}

	prices := readLines(t, filepath.Join(loaded.ResultDir, historical.KindPrice.FileName()))
	assert.Len(t, prices, 2*loaded.Generator.DataPoints)

	counts := result.Metrics.StageCounts
	assert.Equal(t, uint64(len(executions)), counts[obs.StageExecution])
	assert.Equal(t, uint64(20+len(executions)), counts[obs.StageTrade])
	assert.Equal(t, counts[obs.StageTrade], counts[obs.StagePosition])
	assert.Equal(t, uint64(40), counts[obs.StageInquiry])
	assert.Equal(t, uint64(2*loaded.Generator.DataPoints), counts[obs.StagePrice])
	assert.Equal(t,
		counts[obs.StagePosition]+counts[obs.StageExecution]+counts[obs.StageInquiry]+counts[obs.StagePrice],
		counts[obs.StageHistorical])
	assert.Len(t, result.Metrics.FeedLatency, 4)
	assert.Empty(t, result.Metrics.FeedErrors)
}

func TestRunIsDeterministic(t *testing.T) {
	loaded := testConfig(t, historical.BackendFile)
	first, err := run(context.Background(), loaded)
	require.NoError(t, err)
	second, err := run(context.Background(), loaded)
	require.NoError(t, err)
	assert.NoError(t, position.CompareSnapshots(first.Snapshot, second.Snapshot))
}

func TestRunPebbleBackend(t *testing.T) {
	loaded := testConfig(t, historical.BackendPebble)
	result, err := run(context.Background(), loaded)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Snapshot.Positions)

	sink, err := historical.NewPebbleSink(filepath.Join(loaded.ResultDir, "historical.db"))
	require.NoError(t, err)
	defer sink.Close()
	lines, keys, err := sink.Scan(historical.KindPosition)
	require.NoError(t, err)
	assert.ElementsMatch(t, loaded.Instruments, keys)
	assert.Len(t, lines, 2)
}

func TestRunCancelled(t *testing.T) {
	loaded := testConfig(t, historical.BackendFile)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := run(ctx, loaded)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStartExitCodes(t *testing.T) {
	root := t.TempDir()
	writeYAML := func(name, body string) string {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	ok := writeYAML("ok.yaml", "dataDir: "+filepath.Join(root, "data")+"\n"+
		"resultDir: "+filepath.Join(root, "result")+"\n"+
		"dataPoints: 5\ninstruments: [9128283H1]\n")
	assert.Equal(t, 0, start(ok))
	_, err := os.Stat(filepath.Join(root, "result", snapshotFile))
	assert.NoError(t, err)

	blocker := writeYAML("blocker", "not a directory")
	failing := writeYAML("failing.yaml", "dataDir: "+filepath.Join(blocker, "data")+"\n"+
		"resultDir: "+filepath.Join(root, "result2")+"\n"+
		"dataPoints: 5\ninstruments: [9128283H1]\n")
	assert.Equal(t, 1, start(failing))

	assert.Equal(t, 1, start(filepath.Join(root, "missing.yaml")))
}
