package marketdata

import (
	"context"
	"io"

	"bondpipe/internal/feed"
	"bondpipe/internal/model/enum"
)

// depth record: Timestamp,CUSIP then Bid,BidSize,Ask,AskSize per level.
const depthFields = 2 + 4*BookDepth

// Connector feeds depth records into the service.
type Connector struct {
	service *Service
}

func NewConnector(service *Service) *Connector {
	return &Connector{service: service}
}

// Publish is a no-op, market data only flows in.
func (c *Connector) Publish(OrderBook) error {
	return nil
}

// Subscribe reads the header and then applies one depth snapshot per line.
// The first bad record stops the feed.
func (c *Connector) Subscribe(ctx context.Context, r io.Reader) error {
	return feed.NewReader(r, true).Each(ctx, func(rec feed.Record) error {
		snap, err := parseDepth(rec)
		if err != nil {
			return err
		}
		return c.service.ApplyDepth(snap)
	})
}

func parseDepth(rec feed.Record) (DepthSnapshot, error) {
	if err := rec.Expect(depthFields); err != nil {
		return DepthSnapshot{}, err
	}
	ts, err := rec.String(0)
	if err != nil {
		return DepthSnapshot{}, err
	}
	id, err := rec.String(1)
	if err != nil {
		return DepthSnapshot{}, err
	}
	snap := DepthSnapshot{
		Timestamp:    ts,
		InstrumentID: id,
		Bids:         make([]PriceLevel, 0, BookDepth),
		Offers:       make([]PriceLevel, 0, BookDepth),
	}
	for lvl := 0; lvl < BookDepth; lvl++ {
		base := 2 + 4*lvl
		bid, err := rec.Price(base)
		if err != nil {
			return DepthSnapshot{}, err
		}
		bidQty, err := rec.Quantity(base + 1)
		if err != nil {
			return DepthSnapshot{}, err
		}
		ask, err := rec.Price(base + 2)
		if err != nil {
			return DepthSnapshot{}, err
		}
		askQty, err := rec.Quantity(base + 3)
		if err != nil {
			return DepthSnapshot{}, err
		}
		snap.Bids = append(snap.Bids, PriceLevel{Price: bid, Quantity: bidQty, Side: enum.PricingSideBid})
		snap.Offers = append(snap.Offers, PriceLevel{Price: ask, Quantity: askQty, Side: enum.PricingSideOffer})
	}
	return snap, nil
}
