package feed

import (
	"bufio"
	"context"
	"io"

	"github.com/yanun0323/errors"

	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
	"bondpipe/pkg/exception"
	"bondpipe/pkg/scanner"
)

const maxLineSize = 64 * 1024

// Reader yields comma separated records from a feed, one per line.
// Blank lines are skipped.
type Reader struct {
	sc     *bufio.Scanner
	header bool
	line   int
	fields [][]byte
}

// NewReader wraps r. When header is set the first non-blank line is dropped.
func NewReader(r io.Reader, header bool) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Reader{sc: sc, header: header}
}

// Line is the 1-based line number of the last record returned.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the fields of the next record, or io.EOF. The fields are
// only valid until the following call.
func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		r.line++
		raw := r.sc.Bytes()
		if scanner.IsBlank(raw) {
			continue
		}
		if r.header {
			r.header = false
			continue
		}
		r.fields = scanner.SplitFields(raw, ',', r.fields)
		return Record{line: r.line, fields: r.fields}, nil
	}
	if err := r.sc.Err(); err != nil {
		return Record{}, errors.Wrapf(err, "read line %d", r.line+1)
	}
	return Record{}, io.EOF
}

// Each reads records until EOF and calls fn for each, stopping at the first
// error. ctx is checked between records.
func (r *Reader) Each(ctx context.Context, fn func(Record) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// Record is one parsed line.
type Record struct {
	line   int
	fields [][]byte
}

func (r Record) Line() int {
	return r.line
}

func (r Record) Len() int {
	return len(r.fields)
}

// Expect fails with ErrFormat unless the record has at least n fields.
func (r Record) Expect(n int) error {
	if len(r.fields) < n {
		return errors.Wrapf(exception.ErrFormat, "line %d: want %d fields, got %d", r.line, n, len(r.fields))
	}
	return nil
}

// String returns field i as a string.
func (r Record) String(i int) (string, error) {
	if i >= len(r.fields) {
		return "", r.fieldErr(i, "missing")
	}
	if len(r.fields[i]) == 0 {
		return "", r.fieldErr(i, "empty")
	}
	return string(r.fields[i]), nil
}

// Price decodes field i from fractional notation.
func (r Record) Price(i int) (model.Price, error) {
	s, err := r.String(i)
	if err != nil {
		return 0, err
	}
	p, err := model.ParsePrice(s)
	if err != nil {
		return 0, errors.Wrapf(err, "line %d field %d", r.line, i)
	}
	return p, nil
}

// Quantity decodes field i as an integer face amount.
func (r Record) Quantity(i int) (model.Quantity, error) {
	if i >= len(r.fields) {
		return 0, r.fieldErr(i, "missing")
	}
	v, ok := scanner.ParseInt(r.fields[i])
	if !ok {
		return 0, r.fieldErr(i, "invalid quantity")
	}
	if v < 0 {
		return 0, r.fieldErr(i, "negative quantity")
	}
	return model.Quantity(v), nil
}

// Side decodes field i as BUY or SELL.
func (r Record) Side(i int) (enum.Side, error) {
	s, err := r.String(i)
	if err != nil {
		return 0, err
	}
	side, ok := enum.ParseSide(s)
	if !ok {
		return 0, r.fieldErr(i, "invalid side")
	}
	return side, nil
}

// InquiryState decodes field i as an inquiry state name.
func (r Record) InquiryState(i int) (enum.InquiryState, error) {
	s, err := r.String(i)
	if err != nil {
		return 0, err
	}
	state, ok := enum.ParseInquiryState(s)
	if !ok {
		return 0, r.fieldErr(i, "invalid inquiry state")
	}
	return state, nil
}

func (r Record) fieldErr(i int, reason string) error {
	return errors.Wrapf(exception.ErrFormat, "line %d field %d: %s", r.line, i, reason)
}
