package marketdata

import (
	"github.com/yanun0323/errors"

	"bondpipe/internal/hub"
	"bondpipe/internal/product"
)

// Service owns the order books. GetData creates an empty book the first
// time an instrument from the catalog is asked for.
type Service struct {
	catalog *product.Catalog
	store   *hub.Store[string, OrderBook]
}

var _ hub.Service[string, OrderBook] = (*Service)(nil)

// NewService creates a service resolving instruments through catalog.
func NewService(catalog *product.Catalog) *Service {
	return &Service{
		catalog: catalog,
		store: hub.NewStore("marketdata", func(b OrderBook) string {
			return b.Instrument.ID()
		}),
	}
}

// GetData returns the book for id, creating an empty one if needed.
func (s *Service) GetData(id string) (OrderBook, error) {
	if book, ok := s.store.Get(id); ok {
		return book, nil
	}
	inst, err := s.catalog.Lookup(id)
	if err != nil {
		return OrderBook{}, err
	}
	book := OrderBook{Instrument: inst}
	s.store.Put(book)
	return book, nil
}

// OnMessage stores book and publishes it.
func (s *Service) OnMessage(book OrderBook) error {
	return s.store.OnMessage(book)
}

// ApplyDepth appends the snapshot's levels to the book, aggregates and
// publishes the result. Equal prices from different snapshots are summed.
func (s *Service) ApplyDepth(snap DepthSnapshot) error {
	book, err := s.GetData(snap.InstrumentID)
	if err != nil {
		return err
	}
	merged := OrderBook{
		Instrument: book.Instrument,
		Bids:       append(append(make([]PriceLevel, 0, len(book.Bids)+len(snap.Bids)), book.Bids...), snap.Bids...),
		Offers:     append(append(make([]PriceLevel, 0, len(book.Offers)+len(snap.Offers)), book.Offers...), snap.Offers...),
	}
	if err := s.OnMessage(merged.Aggregate()); err != nil {
		return errors.Wrap(err, "publish order book").With("instrument", snap.InstrumentID)
	}
	return nil
}

// AggregateDepth collapses the stored book to one level per price and
// returns it. Nothing is published.
func (s *Service) AggregateDepth(id string) (OrderBook, error) {
	book, err := s.GetData(id)
	if err != nil {
		return OrderBook{}, err
	}
	book = book.Aggregate()
	s.store.Put(book)
	return book, nil
}

// BestBidOffer returns the best levels of the stored book.
func (s *Service) BestBidOffer(id string) (BidOffer, error) {
	book, err := s.GetData(id)
	if err != nil {
		return BidOffer{}, err
	}
	return book.BestBidOffer()
}

func (s *Service) AddListener(listener hub.Listener[OrderBook]) {
	s.store.AddListener(listener)
}

func (s *Service) GetListeners() []hub.Listener[OrderBook] {
	return s.store.GetListeners()
}
