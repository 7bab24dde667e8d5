package journal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bondpipe/pkg/exception"
)

// Writer appends records to size-rotated segment files. It is driven from
// a single goroutine, the same one that publishes the records.
type Writer struct {
	cfg         Config
	seg         *segment
	segID       uint64
	seq         uint64
	headerBuf   []byte
	checksumBuf [recordChecksumSize]byte
	closed      bool
}

type segment struct {
	file *os.File
	buf  *bufio.Writer
	size int64
}

// NewWriter creates a journal writer and ensures the target directory exists.
func NewWriter(cfg Config) (*Writer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	return &Writer{cfg: cfg, headerBuf: make([]byte, recordHeaderSize)}, nil
}

// Append writes one record and returns the sequence number it was given.
// Sequence numbers start at 1.
func (w *Writer) Append(header Header, payload []byte) (uint64, error) {
	if w.closed {
		return 0, exception.ErrJournalClosed
	}
	if uint64(len(payload)) > maxPayloadLen {
		return 0, exception.ErrJournalPayloadLarge
	}

	size := int64(recordHeaderSize + len(payload) + recordChecksumSize)
	if w.seg == nil || w.seg.size+size > w.cfg.SegmentMaxBytes {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	w.seq++
	header.Seq = w.seq
	encodeHeader(w.headerBuf, header, len(payload))
	binary.LittleEndian.PutUint32(w.checksumBuf[:], checksum(w.headerBuf, payload))

	if _, err := w.seg.buf.Write(w.headerBuf); err != nil {
		return 0, err
	}
	if _, err := w.seg.buf.Write(payload); err != nil {
		return 0, err
	}
	if _, err := w.seg.buf.Write(w.checksumBuf[:]); err != nil {
		return 0, err
	}
	w.seg.size += size
	return header.Seq, nil
}

// Flush pushes buffered records to the segment file.
func (w *Writer) Flush() error {
	if w.seg == nil {
		return nil
	}
	if err := w.seg.buf.Flush(); err != nil {
		return err
	}
	if w.cfg.SyncOnFlush {
		return w.seg.file.Sync()
	}
	return nil
}

// Close flushes and closes the current segment.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.closeSegment()
	w.seg = nil
	return err
}

func (w *Writer) rotate() error {
	if err := w.closeSegment(); err != nil {
		return err
	}
	ts := time.Now().UTC().Format("20060102-150405")
	for {
		w.segID++
		name := fmt.Sprintf("%s-%s-%06d%s", w.cfg.FilePrefix, ts, w.segID, fileSuffix)
		file, err := os.OpenFile(filepath.Join(w.cfg.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return err
		}
		w.seg = &segment{file: file, buf: bufio.NewWriterSize(file, w.cfg.BufferSize)}
		return nil
	}
}

func (w *Writer) closeSegment() error {
	if w.seg == nil {
		return nil
	}
	seg := w.seg
	w.seg = nil
	if err := seg.buf.Flush(); err != nil {
		_ = seg.file.Close()
		return err
	}
	if err := seg.file.Sync(); err != nil {
		_ = seg.file.Close()
		return err
	}
	return seg.file.Close()
}
