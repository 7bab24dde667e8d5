package position

import (
	"sort"
	"strconv"

	"bondpipe/internal/model"
	"bondpipe/internal/product"
)

// Position is the signed net quantity per settlement book of one instrument.
type Position struct {
	Instrument product.Instrument
	books      map[string]model.Quantity
}

// NewPosition creates a flat position.
func NewPosition(inst product.Instrument) Position {
	return Position{Instrument: inst, books: make(map[string]model.Quantity)}
}

// Book returns the quantity held in book.
func (p Position) Book(book string) model.Quantity {
	return p.books[book]
}

// Books returns the book names in ascending order.
func (p Position) Books() []string {
	names := make([]string, 0, len(p.books))
	for name := range p.books {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aggregate sums every book.
func (p Position) Aggregate() model.Quantity {
	var total model.Quantity
	for _, qty := range p.books {
		total += qty
	}
	return total
}

// Clone copies the book map so the copy can be handed out.
func (p Position) Clone() Position {
	books := make(map[string]model.Quantity, len(p.books))
	for k, v := range p.books {
		books[k] = v
	}
	return Position{Instrument: p.Instrument, books: books}
}

// Add moves the quantity of book by delta, creating the entry if needed.
func (p *Position) Add(book string, delta model.Quantity) model.Quantity {
	if p.books == nil {
		p.books = make(map[string]model.Quantity)
	}
	next := p.books[book] + delta
	p.books[book] = next
	return next
}

// AppendRecord appends "CUSIP,BOOK,QTY,...,AGGREGATE,QTY" with books sorted.
func (p Position) AppendRecord(buf []byte) []byte {
	buf = append(buf, p.Instrument.ID()...)
	for _, name := range p.Books() {
		buf = append(buf, ',')
		buf = append(buf, name...)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(p.books[name]), 10)
	}
	buf = append(buf, ",AGGREGATE,"...)
	return strconv.AppendInt(buf, int64(p.Aggregate()), 10)
}
