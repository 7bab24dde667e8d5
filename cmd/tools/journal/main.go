package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yanun0323/logs"

	"bondpipe/internal/historical"
	"bondpipe/internal/journal"
)

func main() {
	dir := flag.String("dir", "result", "Journal directory")
	prefix := flag.String("prefix", "", "Journal file prefix (default: historical)")
	kind := flag.String("kind", "", "Only print one kind: position, execution, inquiry or price")
	noChecksum := flag.Bool("no-checksum", false, "Disable checksum validation")
	maxPayload := flag.Int("max-payload", 0, "Max payload size in bytes (0=unlimited)")
	flag.Parse()

	var only historical.Kind
	if *kind != "" {
		k, ok := historical.ParseKind(*kind)
		if !ok {
			logs.Errorf("unknown kind %q", *kind)
			os.Exit(2)
		}
		only = k
	}

	pb, err := journal.NewPlayback(journal.PlaybackConfig{
		Dir:             *dir,
		FilePrefix:      *prefix,
		DisableChecksum: *noChecksum,
		MaxPayloadSize:  *maxPayload,
	})
	if err != nil {
		logs.Errorf("playback init failed, err: %+v", err)
		os.Exit(1)
	}

	var index int
	err = pb.Run(context.Background(), func(header journal.Header, payload []byte) error {
		k := historical.Kind(header.Kind)
		if only != 0 && k != only {
			return nil
		}
		index++
		ts := time.Unix(0, header.TsEvent).UTC().Format("2006-01-02 15:04:05.000")
		fmt.Printf("%06d seq=%d kind=%s ts=%s %s\n", index, header.Seq, k, ts, payload)
		return nil
	})
	if err != nil {
		logs.Errorf("playback run failed, err: %+v", err)
		os.Exit(1)
	}
}
