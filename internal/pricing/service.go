package pricing

import (
	"github.com/shopspring/decimal"

	"bondpipe/internal/hub"
	"bondpipe/internal/model"
	"bondpipe/internal/product"
)

// Price is the mid and bid/offer spread of an instrument.
type Price struct {
	Instrument product.Instrument
	Mid        decimal.Decimal
	Spread     decimal.Decimal
}

// NewPrice derives mid and spread from a two-sided quote.
func NewPrice(inst product.Instrument, bid, offer model.Price) Price {
	b, o := bid.Decimal(), offer.Decimal()
	return Price{
		Instrument: inst,
		Mid:        b.Add(o).Div(decimal.NewFromInt(2)),
		Spread:     o.Sub(b),
	}
}

// AppendRecord appends "CUSIP,MID,SPREAD".
func (p Price) AppendRecord(buf []byte) []byte {
	buf = append(buf, p.Instrument.ID()...)
	buf = append(buf, ',')
	buf = append(buf, p.Mid.String()...)
	buf = append(buf, ',')
	return append(buf, p.Spread.String()...)
}

// Service keeps the latest price per instrument. GetData fails with
// ErrNotFound for instruments never priced.
type Service struct {
	store *hub.Store[string, Price]
}

var _ hub.Service[string, Price] = (*Service)(nil)

func NewService() *Service {
	return &Service{
		store: hub.NewStore("pricing", func(p Price) string {
			return p.Instrument.ID()
		}),
	}
}

func (s *Service) GetData(id string) (Price, error) {
	return s.store.Lookup(id)
}

// OnMessage replaces the instrument's price and publishes it.
func (s *Service) OnMessage(p Price) error {
	return s.store.OnMessage(p)
}

func (s *Service) AddListener(listener hub.Listener[Price]) {
	s.store.AddListener(listener)
}

func (s *Service) GetListeners() []hub.Listener[Price] {
	return s.store.GetListeners()
}
