package inquiry

import (
	"strconv"

	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
	"bondpipe/internal/product"
)

// Inquiry is a customer request for a quote, identified by its own id.
type Inquiry struct {
	ID         string
	Instrument product.Instrument
	Side       enum.Side
	Quantity   model.Quantity
	Price      model.Price
	State      enum.InquiryState
}

// AppendRecord appends the inquiry in feed order:
// InquiryId,CUSIP,Side,Quantity,Price,State.
func (i Inquiry) AppendRecord(buf []byte) []byte {
	buf = append(buf, i.ID...)
	buf = append(buf, ',')
	buf = append(buf, i.Instrument.ID()...)
	buf = append(buf, ',')
	buf = append(buf, i.Side.String()...)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(i.Quantity), 10)
	buf = append(buf, ',')
	buf = i.Price.AppendFraction(buf)
	buf = append(buf, ',')
	return append(buf, i.State.String()...)
}
