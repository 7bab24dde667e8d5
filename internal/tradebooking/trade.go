package tradebooking

import (
	"strconv"

	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
	"bondpipe/internal/product"
)

// Trade is a booked trade. The trade id identifies it.
type Trade struct {
	Instrument product.Instrument
	TradeID    string
	Price      model.Price
	Book       string
	Quantity   model.Quantity
	Side       enum.Side
}

// AppendRecord appends the trade in feed order:
// CUSIP,TradeId,Price,Book,Quantity,Side.
func (t Trade) AppendRecord(buf []byte) []byte {
	buf = append(buf, t.Instrument.ID()...)
	buf = append(buf, ',')
	buf = append(buf, t.TradeID...)
	buf = append(buf, ',')
	buf = t.Price.AppendFraction(buf)
	buf = append(buf, ',')
	buf = append(buf, t.Book...)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(t.Quantity), 10)
	buf = append(buf, ',')
	return append(buf, t.Side.String()...)
}
