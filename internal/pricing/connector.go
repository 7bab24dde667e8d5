package pricing

import (
	"context"
	"io"

	"bondpipe/internal/feed"
	"bondpipe/internal/product"
)

const priceFields = 4

// Connector reads the price feed into the service.
type Connector struct {
	service *Service
	catalog *product.Catalog
}

func NewConnector(service *Service, catalog *product.Catalog) *Connector {
	return &Connector{service: service, catalog: catalog}
}

// Publish is a no-op, prices only flow in.
func (c *Connector) Publish(Price) error {
	return nil
}

// Subscribe skips the header and reads Timestamp,CUSIP,Bid,Ask records.
// Trailing columns are ignored.
func (c *Connector) Subscribe(ctx context.Context, r io.Reader) error {
	return feed.NewReader(r, true).Each(ctx, func(rec feed.Record) error {
		if err := rec.Expect(priceFields); err != nil {
			return err
		}
		id, err := rec.String(1)
		if err != nil {
			return err
		}
		inst, err := c.catalog.Lookup(id)
		if err != nil {
			return err
		}
		bid, err := rec.Price(2)
		if err != nil {
			return err
		}
		ask, err := rec.Price(3)
		if err != nil {
			return err
		}
		return c.service.OnMessage(NewPrice(inst, bid, ask))
	})
}
