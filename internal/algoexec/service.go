package algoexec

import (
	"github.com/google/uuid"
	"github.com/yanun0323/errors"

	"bondpipe/internal/hub"
	"bondpipe/internal/marketdata"
	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
)

// MaxSpread is the widest spread, in ticks, the decider will cross: 1/128.
const MaxSpread model.Price = model.TicksPerPoint / 128

// IDGenerator produces order ids.
type IDGenerator func() string

func defaultOrderID() string {
	return "ALGO-" + uuid.NewString()
}

func defaultParentID() string {
	return "ALGOPARENT-" + uuid.NewString()
}

// Service decides on each order book update whether to cross the spread.
// It keeps the latest order per instrument; GetData fails with ErrNotFound
// for instruments that never produced one.
type Service struct {
	store    *hub.Store[string, ExecutionOrder]
	tick     uint64
	orderID  IDGenerator
	parentID IDGenerator
	market   enum.Market
}

var (
	_ hub.Service[string, ExecutionOrder] = (*Service)(nil)
	_ hub.Listener[marketdata.OrderBook]  = (*Service)(nil)
)

// Option customizes a Service.
type Option func(*Service)

// WithIDGenerators replaces the uuid based order and parent ids.
func WithIDGenerators(orderID, parentID IDGenerator) Option {
	return func(s *Service) {
		if orderID != nil {
			s.orderID = orderID
		}
		if parentID != nil {
			s.parentID = parentID
		}
	}
}

// WithMarket routes orders to m.
func WithMarket(m enum.Market) Option {
	return func(s *Service) {
		if m.IsAvailable() {
			s.market = m
		}
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		store: hub.NewStore("algoexec", func(o ExecutionOrder) string {
			return o.Instrument.ID()
		}),
		orderID:  defaultOrderID,
		parentID: defaultParentID,
		market:   enum.MarketBrokerTec,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetData(id string) (ExecutionOrder, error) {
	return s.store.Lookup(id)
}

// OnMessage replaces the instrument's order and publishes it.
func (s *Service) OnMessage(order ExecutionOrder) error {
	return s.store.OnMessage(order)
}

func (s *Service) AddListener(listener hub.Listener[ExecutionOrder]) {
	s.store.AddListener(listener)
}

func (s *Service) GetListeners() []hub.Listener[ExecutionOrder] {
	return s.store.GetListeners()
}

// Ticks returns how many order books have been seen.
func (s *Service) Ticks() uint64 {
	return s.tick
}

// Execute runs one decision on book. The tick advances whether or not an
// order comes out. Even ticks lift the offer, odd ticks hit the bid.
func (s *Service) Execute(book marketdata.OrderBook) (ExecutionOrder, bool, error) {
	tick := s.tick
	s.tick++

	if len(book.Bids) == 0 || len(book.Offers) == 0 {
		return ExecutionOrder{}, false, nil
	}
	best, err := book.BestBidOffer()
	if err != nil {
		return ExecutionOrder{}, false, err
	}
	if best.Spread() > MaxSpread {
		return ExecutionOrder{}, false, nil
	}

	order := ExecutionOrder{
		Instrument:    book.Instrument,
		OrderID:       s.orderID(),
		Type:          enum.OrderTypeMarket,
		HiddenQty:     0,
		ParentOrderID: s.parentID(),
		IsChild:       false,
		Market:        s.market,
	}
	if tick%2 == 0 {
		order.Side = enum.PricingSideBid
		order.Price = best.Offer.Price
		order.VisibleQty = best.Bid.Quantity
	} else {
		order.Side = enum.PricingSideOffer
		order.Price = best.Bid.Price
		order.VisibleQty = best.Offer.Quantity
	}

	if err := s.OnMessage(order); err != nil {
		return order, true, errors.Wrap(err, "publish execution order").With("order", order.OrderID)
	}
	return order, true, nil
}

// ProcessAdd makes the service an order book listener.
func (s *Service) ProcessAdd(book marketdata.OrderBook) error {
	_, _, err := s.Execute(book)
	return err
}

func (s *Service) ProcessRemove(marketdata.OrderBook) error { return nil }

func (s *Service) ProcessUpdate(marketdata.OrderBook) error { return nil }
