package algoexec

import (
	"strconv"

	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
	"bondpipe/internal/product"
)

// ExecutionOrder is an order the decider sends to a market.
type ExecutionOrder struct {
	Instrument    product.Instrument
	Side          enum.PricingSide
	OrderID       string
	Type          enum.OrderType
	Price         model.Price
	VisibleQty    model.Quantity
	HiddenQty     model.Quantity
	ParentOrderID string
	IsChild       bool
	Market        enum.Market
}

// Quantity is the visible plus the hidden quantity.
func (o ExecutionOrder) Quantity() model.Quantity {
	return o.VisibleQty + o.HiddenQty
}

// AppendRecord appends
// "CUSIP,ORDERID,SIDE,TYPE,PRICE,VISIBLE,HIDDEN,PARENT,CHILD,MARKET".
func (o ExecutionOrder) AppendRecord(buf []byte) []byte {
	buf = append(buf, o.Instrument.ID()...)
	buf = append(buf, ',')
	buf = append(buf, o.OrderID...)
	buf = append(buf, ',')
	buf = append(buf, o.Side.String()...)
	buf = append(buf, ',')
	buf = append(buf, o.Type.String()...)
	buf = append(buf, ',')
	buf = o.Price.AppendFraction(buf)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(o.VisibleQty), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(o.HiddenQty), 10)
	buf = append(buf, ',')
	buf = append(buf, o.ParentOrderID...)
	buf = append(buf, ',')
	buf = strconv.AppendBool(buf, o.IsChild)
	buf = append(buf, ',')
	return append(buf, o.Market.String()...)
}
