package journal

import (
	"github.com/yanun0323/errors"

	"bondpipe/pkg/exception"
)

const (
	defaultSegmentMaxBytes int64 = 64 << 20
	defaultBufferSize            = 64 * 1024
	defaultFilePrefix            = "historical"
	fileSuffix                   = ".journal"
)

// Config controls journal writer behavior.
type Config struct {
	Dir             string
	SegmentMaxBytes int64
	BufferSize      int
	FilePrefix      string
	// SyncOnFlush fsyncs the segment on every Flush.
	SyncOnFlush bool
}

// DefaultConfig returns a baseline configuration for the journal writer.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:             dir,
		SegmentMaxBytes: defaultSegmentMaxBytes,
		BufferSize:      defaultBufferSize,
		FilePrefix:      defaultFilePrefix,
	}
}

func (c Config) withDefaults() Config {
	if c.SegmentMaxBytes == 0 {
		c.SegmentMaxBytes = defaultSegmentMaxBytes
	}
	if c.BufferSize == 0 {
		c.BufferSize = defaultBufferSize
	}
	if c.FilePrefix == "" {
		c.FilePrefix = defaultFilePrefix
	}
	return c
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.Dir == "" {
		return errors.Wrap(exception.ErrInvalidArgument, "journal config: Dir is empty")
	}
	if c.SegmentMaxBytes <= 0 {
		return errors.Wrap(exception.ErrInvalidArgument, "journal config: SegmentMaxBytes must be > 0")
	}
	if c.BufferSize <= 0 {
		return errors.Wrap(exception.ErrInvalidArgument, "journal config: BufferSize must be > 0")
	}
	if c.FilePrefix == "" {
		return errors.Wrap(exception.ErrInvalidArgument, "journal config: FilePrefix is empty")
	}
	return nil
}
