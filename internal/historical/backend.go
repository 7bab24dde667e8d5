package historical

import (
	"path/filepath"

	"github.com/yanun0323/errors"

	"bondpipe/internal/journal"
	"bondpipe/pkg/conn"
	"bondpipe/pkg/exception"
)

const (
	BackendFile     = "file"
	BackendJournal  = "journal"
	BackendPebble   = "pebble"
	BackendPostgres = "postgres"
)

// Config selects and configures the sink.
type Config struct {
	Backend  string      `yaml:"backend"`
	Dir      string      `yaml:"dir"`
	Postgres conn.Option `yaml:"postgres"`
}

// Open builds the sink described by cfg.
func Open(cfg Config) (Sink, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileSink(cfg.Dir)
	case BackendJournal:
		return NewJournalSink(journal.DefaultConfig(cfg.Dir))
	case BackendPebble:
		return NewPebbleSink(filepath.Join(cfg.Dir, "historical.db"))
	case BackendPostgres:
		client, err := conn.New(cfg.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "connect postgres")
		}
		sink, err := NewPostgresSink(client)
		if err != nil {
			_ = client.Close()
			return nil, errors.Wrap(err, "migrate historical records")
		}
		return sink, nil
	default:
		return nil, errors.Wrap(exception.ErrUnknownBackend, cfg.Backend)
	}
}
