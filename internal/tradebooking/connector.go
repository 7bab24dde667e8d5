package tradebooking

import (
	"context"
	"io"

	"bondpipe/internal/feed"
	"bondpipe/internal/product"
)

const tradeFields = 6

// Connector reads the trade feed into the service.
type Connector struct {
	service *Service
	catalog *product.Catalog
}

func NewConnector(service *Service, catalog *product.Catalog) *Connector {
	return &Connector{service: service, catalog: catalog}
}

// Publish is a no-op, trades only flow in.
func (c *Connector) Publish(Trade) error {
	return nil
}

// Subscribe reads headerless trade records until EOF or the first error.
func (c *Connector) Subscribe(ctx context.Context, r io.Reader) error {
	return feed.NewReader(r, false).Each(ctx, func(rec feed.Record) error {
		trade, err := c.parse(rec)
		if err != nil {
			return err
		}
		return c.service.OnMessage(trade)
	})
}

func (c *Connector) parse(rec feed.Record) (Trade, error) {
	if err := rec.Expect(tradeFields); err != nil {
		return Trade{}, err
	}
	id, err := rec.String(0)
	if err != nil {
		return Trade{}, err
	}
	inst, err := c.catalog.Lookup(id)
	if err != nil {
		return Trade{}, err
	}
	tradeID, err := rec.String(1)
	if err != nil {
		return Trade{}, err
	}
	price, err := rec.Price(2)
	if err != nil {
		return Trade{}, err
	}
	book, err := rec.String(3)
	if err != nil {
		return Trade{}, err
	}
	qty, err := rec.Quantity(4)
	if err != nil {
		return Trade{}, err
	}
	side, err := rec.Side(5)
	if err != nil {
		return Trade{}, err
	}
	return Trade{
		Instrument: inst,
		TradeID:    tradeID,
		Price:      price,
		Book:       book,
		Quantity:   qty,
		Side:       side,
	}, nil
}
