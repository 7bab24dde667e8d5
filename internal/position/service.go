package position

import (
	"github.com/yanun0323/errors"

	"bondpipe/internal/hub"
	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
	"bondpipe/internal/tradebooking"
	"bondpipe/pkg/exception"
)

// Service nets booked trades into positions. GetData fails with
// ErrNotFound for instruments that have never traded. Listeners get copies.
type Service struct {
	store *hub.Store[string, Position]
}

var (
	_ hub.Service[string, Position]    = (*Service)(nil)
	_ hub.Listener[tradebooking.Trade] = (*Service)(nil)
)

func NewService() *Service {
	return &Service{
		store: hub.NewStore("position", func(p Position) string {
			return p.Instrument.ID()
		}),
	}
}

func (s *Service) GetData(id string) (Position, error) {
	p, err := s.store.Lookup(id)
	if err != nil {
		return Position{}, err
	}
	return p.Clone(), nil
}

// OnMessage replaces the instrument's position and publishes it.
func (s *Service) OnMessage(p Position) error {
	p = p.Clone()
	s.store.Put(p)
	return s.store.Notify(p.Clone())
}

func (s *Service) AddListener(listener hub.Listener[Position]) {
	s.store.AddListener(listener)
}

func (s *Service) GetListeners() []hub.Listener[Position] {
	return s.store.GetListeners()
}

// AddTrade applies +qty for a buy and -qty for a sell to the trade's book.
// Positions are unbounded and may go short.
func (s *Service) AddTrade(trade tradebooking.Trade) (Position, error) {
	var delta model.Quantity
	switch trade.Side {
	case enum.SideBuy:
		delta = trade.Quantity
	case enum.SideSell:
		delta = -trade.Quantity
	default:
		return Position{}, errors.Wrap(exception.ErrInvalidArgument, "trade side").With("trade", trade.TradeID)
	}

	p, ok := s.store.Get(trade.Instrument.ID())
	if !ok {
		p = NewPosition(trade.Instrument)
	}
	p.Add(trade.Book, delta)
	s.store.Put(p)

	out := p.Clone()
	if err := s.store.Notify(out); err != nil {
		return out, errors.Wrap(err, "publish position").With("instrument", trade.Instrument.ID())
	}
	return out, nil
}

// ProcessAdd makes the service a trade listener.
func (s *Service) ProcessAdd(trade tradebooking.Trade) error {
	_, err := s.AddTrade(trade)
	return err
}

func (s *Service) ProcessRemove(tradebooking.Trade) error { return nil }

func (s *Service) ProcessUpdate(tradebooking.Trade) error { return nil }
