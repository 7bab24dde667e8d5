package historical

import (
	"time"

	"bondpipe/pkg/conn"
)

// HistoricalRecord is one persisted entry.
type HistoricalRecord struct {
	ID         uint64    `gorm:"primaryKey"`
	Kind       string    `gorm:"size:16;index:idx_kind_key"`
	PersistKey string    `gorm:"size:64;index:idx_kind_key"`
	Payload    string    `gorm:"type:text"`
	RecordedAt time.Time `gorm:"index"`
}

func newHistoricalRecord(e Entry) HistoricalRecord {
	return HistoricalRecord{
		Kind:       e.Kind.String(),
		PersistKey: e.Key,
		Payload:    string(e.Data),
		RecordedAt: e.Time,
	}
}

// PostgresSink inserts one row per entry.
type PostgresSink struct {
	client *conn.Client
}

// NewPostgresSink migrates the records table.
func NewPostgresSink(client *conn.Client) (*PostgresSink, error) {
	if err := client.Migrate(&HistoricalRecord{}); err != nil {
		return nil, err
	}
	return &PostgresSink{client: client}, nil
}

func (s *PostgresSink) Write(e Entry) error {
	rec := newHistoricalRecord(e)
	return s.client.DB().Create(&rec).Error
}

func (s *PostgresSink) Close() error {
	return s.client.Close()
}
