package marketdata

import (
	"github.com/yanun0323/errors"

	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
	"bondpipe/internal/product"
	"bondpipe/pkg/exception"
)

// BookDepth is the number of levels per side in a depth snapshot.
const BookDepth = 5

// PriceLevel is a quantity resting at a price on one side of the book.
type PriceLevel struct {
	Price    model.Price
	Quantity model.Quantity
	Side     enum.PricingSide
}

// OrderBook holds the bid and offer levels of one instrument.
type OrderBook struct {
	Instrument product.Instrument
	Bids       []PriceLevel
	Offers     []PriceLevel
}

// BidOffer is the best bid and offer at a point in time.
type BidOffer struct {
	Bid   PriceLevel
	Offer PriceLevel
}

// Spread is the offer price minus the bid price.
func (b BidOffer) Spread() model.Price {
	return b.Offer.Price - b.Bid.Price
}

// BestBidOffer picks the highest bid and the lowest offer. Ties go to the
// level seen first.
func (b OrderBook) BestBidOffer() (BidOffer, error) {
	if len(b.Bids) == 0 || len(b.Offers) == 0 {
		return BidOffer{}, errors.Wrap(exception.ErrEmptyBook, "best bid offer").With("instrument", b.Instrument.ID())
	}
	best := BidOffer{Bid: b.Bids[0], Offer: b.Offers[0]}
	for _, lvl := range b.Bids[1:] {
		if lvl.Price > best.Bid.Price {
			best.Bid = lvl
		}
	}
	for _, lvl := range b.Offers[1:] {
		if lvl.Price < best.Offer.Price {
			best.Offer = lvl
		}
	}
	return best, nil
}

// Aggregate returns a copy of the book with one level per distinct price
// on each side.
func (b OrderBook) Aggregate() OrderBook {
	return OrderBook{
		Instrument: b.Instrument,
		Bids:       aggregateLevels(b.Bids),
		Offers:     aggregateLevels(b.Offers),
	}
}

// Clone copies the level slices.
func (b OrderBook) Clone() OrderBook {
	return OrderBook{
		Instrument: b.Instrument,
		Bids:       append([]PriceLevel(nil), b.Bids...),
		Offers:     append([]PriceLevel(nil), b.Offers...),
	}
}

// aggregateLevels sums quantities per price, keeping the order in which
// each price first appears.
func aggregateLevels(levels []PriceLevel) []PriceLevel {
	out := make([]PriceLevel, 0, len(levels))
	index := make(map[model.Price]int, len(levels))
	for _, lvl := range levels {
		if i, ok := index[lvl.Price]; ok {
			out[i].Quantity += lvl.Quantity
			continue
		}
		index[lvl.Price] = len(out)
		out = append(out, lvl)
	}
	return out
}

// DepthSnapshot is one market data record: up to BookDepth levels a side.
type DepthSnapshot struct {
	Timestamp    string
	InstrumentID string
	Bids         []PriceLevel
	Offers       []PriceLevel
}
