package historical

import (
	"bufio"
	"os"
	"path/filepath"
)

// FileSink appends "timestamp,record" lines to one text file per kind.
type FileSink struct {
	dir   string
	files map[Kind]*fileWriter
	line  []byte
}

type fileWriter struct {
	file *os.File
	buf  *bufio.Writer
}

// NewFileSink creates dir. Existing files are appended to.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileSink{dir: dir, files: make(map[Kind]*fileWriter)}, nil
}

// Path returns the file kind is written to.
func (s *FileSink) Path(kind Kind) string {
	return filepath.Join(s.dir, kind.FileName())
}

func (s *FileSink) Write(e Entry) error {
	w, ok := s.files[e.Kind]
	if !ok {
		f, err := os.OpenFile(s.Path(e.Kind), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		w = &fileWriter{file: f, buf: bufio.NewWriter(f)}
		s.files[e.Kind] = w
	}
	s.line = e.AppendLine(s.line[:0])
	s.line = append(s.line, '\n')
	_, err := w.buf.Write(s.line)
	return err
}

// Close flushes and closes every file.
func (s *FileSink) Close() error {
	var first error
	for kind, w := range s.files {
		if err := w.buf.Flush(); err != nil && first == nil {
			first = err
		}
		if err := w.file.Close(); err != nil && first == nil {
			first = err
		}
		delete(s.files, kind)
	}
	return first
}
