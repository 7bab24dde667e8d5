package historical

import (
	"github.com/cockroachdb/pebble"
	"github.com/yanun0323/errors"

	"bondpipe/pkg/exception"
)

// PebbleSink keeps the latest line per kind and persist key in a pebble
// store, under "kind/key".
type PebbleSink struct {
	db   *pebble.DB
	key  []byte
	line []byte
}

func NewPebbleSink(dir string) (*PebbleSink, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "open pebble").With("dir", dir)
	}
	return &PebbleSink{db: db}, nil
}

func (s *PebbleSink) Write(e Entry) error {
	s.key = appendKey(s.key[:0], e.Kind, e.Key)
	s.line = e.AppendLine(s.line[:0])
	return s.db.Set(s.key, s.line, pebble.NoSync)
}

// Get returns the stored line of kind and key.
func (s *PebbleSink) Get(kind Kind, key string) (string, error) {
	val, closer, err := s.db.Get(appendKey(nil, kind, key))
	if err == pebble.ErrNotFound {
		return "", errors.Wrapf(exception.ErrNotFound, "pebble %s/%s", kind, key)
	}
	if err != nil {
		return "", err
	}
	defer closer.Close()
	return string(val), nil
}

// Scan returns every key and line of kind in key order.
func (s *PebbleSink) Scan(kind Kind) (map[string]string, []string, error) {
	prefix := appendKey(nil, kind, "")
	upper := append([]byte(nil), prefix...)
	upper[len(upper)-1]++

	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return nil, nil, err
	}
	lines := make(map[string]string)
	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		key := string(iter.Key()[len(prefix):])
		keys = append(keys, key)
		lines[key] = string(iter.Value())
	}
	if err := iter.Error(); err != nil {
		_ = iter.Close()
		return nil, nil, err
	}
	return lines, keys, iter.Close()
}

// Close flushes memtables and closes the store.
func (s *PebbleSink) Close() error {
	if err := s.db.Flush(); err != nil {
		_ = s.db.Close()
		return err
	}
	return s.db.Close()
}

func appendKey(buf []byte, kind Kind, key string) []byte {
	buf = append(buf, kind.String()...)
	buf = append(buf, '/')
	return append(buf, key...)
}
