package historical

import (
	"bondpipe/internal/journal"
)

// JournalSink frames every entry as a checksummed journal record. The
// record kind is the entry kind.
type JournalSink struct {
	w *journal.Writer
}

func NewJournalSink(cfg journal.Config) (*JournalSink, error) {
	w, err := journal.NewWriter(cfg)
	if err != nil {
		return nil, err
	}
	return &JournalSink{w: w}, nil
}

func (s *JournalSink) Write(e Entry) error {
	_, err := s.w.Append(journal.Header{
		Kind:    uint16(e.Kind),
		TsEvent: e.Time.UnixNano(),
	}, e.Data)
	return err
}

func (s *JournalSink) Close() error {
	return s.w.Close()
}
