package inquiry

import (
	"context"
	"io"

	"bondpipe/internal/feed"
	"bondpipe/internal/model/enum"
	"bondpipe/internal/product"
)

const inquiryFields = 6

// Connector quotes received inquiries and reads the inquiry feed.
type Connector struct {
	service *Service
	catalog *product.Catalog
}

// NewConnector binds a connector to service. catalog is only needed to
// Subscribe.
func NewConnector(service *Service, catalog *product.Catalog) *Connector {
	return &Connector{service: service, catalog: catalog}
}

// Publish moves a RECEIVED inquiry to QUOTED and sends it back into the
// service. Other states are ignored.
func (c *Connector) Publish(inq Inquiry) error {
	if inq.State != enum.InquiryReceived {
		return nil
	}
	inq.State = enum.InquiryQuoted
	return c.service.OnMessage(inq)
}

// Subscribe reads headerless inquiry records until EOF or the first error.
func (c *Connector) Subscribe(ctx context.Context, r io.Reader) error {
	return feed.NewReader(r, false).Each(ctx, func(rec feed.Record) error {
		inq, err := parseInquiry(rec, c.catalog)
		if err != nil {
			return err
		}
		return c.service.OnMessage(inq)
	})
}

func parseInquiry(rec feed.Record, catalog *product.Catalog) (Inquiry, error) {
	if err := rec.Expect(inquiryFields); err != nil {
		return Inquiry{}, err
	}
	id, err := rec.String(0)
	if err != nil {
		return Inquiry{}, err
	}
	instrumentID, err := rec.String(1)
	if err != nil {
		return Inquiry{}, err
	}
	inst, err := catalog.Lookup(instrumentID)
	if err != nil {
		return Inquiry{}, err
	}
	side, err := rec.Side(2)
	if err != nil {
		return Inquiry{}, err
	}
	qty, err := rec.Quantity(3)
	if err != nil {
		return Inquiry{}, err
	}
	price, err := rec.Price(4)
	if err != nil {
		return Inquiry{}, err
	}
	state, err := rec.InquiryState(5)
	if err != nil {
		return Inquiry{}, err
	}
	return Inquiry{
		ID:         id,
		Instrument: inst,
		Side:       side,
		Quantity:   qty,
		Price:      price,
		State:      state,
	}, nil
}
