package historical

import (
	"time"

	"github.com/yanun0323/errors"

	"bondpipe/pkg/exception"
)

// Recordable values render themselves as one comma separated record.
type Recordable interface {
	AppendRecord([]byte) []byte
}

// Service persists every value it is handed and keeps the latest one per
// persist key. It listens to a pipeline stage.
type Service[V Recordable] struct {
	kind   Kind
	keyOf  func(V) string
	sink   Sink
	latest map[string]V
	now    func() time.Time
	buf    []byte
}

// NewService persists values of kind into sink, keyed by keyOf.
func NewService[V Recordable](kind Kind, sink Sink, keyOf func(V) string) *Service[V] {
	return &Service[V]{
		kind:   kind,
		keyOf:  keyOf,
		sink:   sink,
		latest: make(map[string]V),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// PersistData writes v under persistKey.
func (s *Service[V]) PersistData(persistKey string, v V) error {
	s.latest[persistKey] = v
	s.buf = v.AppendRecord(s.buf[:0])
	err := s.sink.Write(Entry{
		Kind: s.kind,
		Key:  persistKey,
		Time: s.now(),
		Data: s.buf,
	})
	if err != nil {
		return errors.Wrap(err, "persist").With("kind", s.kind.String()).With("key", persistKey)
	}
	return nil
}

// GetData returns the last value persisted under persistKey.
func (s *Service[V]) GetData(persistKey string) (V, error) {
	v, ok := s.latest[persistKey]
	if !ok {
		return v, errors.Wrapf(exception.ErrNotFound, "historical %s: key %s", s.kind, persistKey)
	}
	return v, nil
}

// Len returns the number of distinct persist keys seen.
func (s *Service[V]) Len() int {
	return len(s.latest)
}

func (s *Service[V]) ProcessAdd(v V) error {
	return s.PersistData(s.keyOf(v), v)
}

func (s *Service[V]) ProcessRemove(V) error { return nil }

func (s *Service[V]) ProcessUpdate(V) error { return nil }
