package historical

import (
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05.000"

// Kind is the category of a persisted record.
type Kind uint16

const (
	_kind_beg Kind = iota
	KindPosition
	KindExecution
	KindInquiry
	KindPrice
	_kind_end
)

func (k Kind) IsAvailable() bool {
	return k > _kind_beg && k < _kind_end
}

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindExecution:
		return "execution"
	case KindInquiry:
		return "inquiry"
	case KindPrice:
		return "price"
	default:
		return "unknown"
	}
}

// FileName is the text file a kind is appended to.
func (k Kind) FileName() string {
	switch k {
	case KindPosition:
		return "positions.txt"
	case KindExecution:
		return "executions.txt"
	case KindInquiry:
		return "allinquiries.txt"
	case KindPrice:
		return "prices.txt"
	default:
		return "unknown.txt"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := _kind_beg + 1; k < _kind_end; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, true
		}
	}
	return _kind_beg, false
}

// Entry is one record handed to a sink.
type Entry struct {
	Kind Kind
	Key  string
	Time time.Time
	Data []byte
}

// AppendLine appends "timestamp,data".
func (e Entry) AppendLine(buf []byte) []byte {
	buf = e.Time.AppendFormat(buf, timestampLayout)
	buf = append(buf, ',')
	return append(buf, e.Data...)
}

// Sink stores entries. Data is only valid during Write.
type Sink interface {
	Write(Entry) error
	Close() error
}
