package tradebooking

import (
	"github.com/yanun0323/errors"

	"bondpipe/internal/algoexec"
	"bondpipe/internal/hub"
	"bondpipe/pkg/exception"
)

// DefaultBooks is the settlement book rotation.
var DefaultBooks = []string{"TRSY1", "TRSY2", "TRSY3"}

// Service books trades. Trades from the trade feed are kept by trade id;
// trades booked from execution orders are only published. GetData fails
// with ErrNotFound for unknown trade ids.
type Service struct {
	store *hub.Store[string, Trade]
	books []string
	next  uint64
}

var (
	_ hub.Service[string, Trade]            = (*Service)(nil)
	_ hub.Listener[algoexec.ExecutionOrder] = (*Service)(nil)
)

// NewService creates a booker rotating over books, or DefaultBooks when
// none are given.
func NewService(books ...string) (*Service, error) {
	if len(books) == 0 {
		books = DefaultBooks
	}
	for _, b := range books {
		if b == "" {
			return nil, errors.Wrap(exception.ErrInvalidArgument, "empty settlement book")
		}
	}
	return &Service{
		store: hub.NewStore("tradebooking", func(t Trade) string {
			return t.TradeID
		}),
		books: append([]string(nil), books...),
	}, nil
}

func (s *Service) GetData(tradeID string) (Trade, error) {
	return s.store.Lookup(tradeID)
}

// OnMessage stores trade and publishes it.
func (s *Service) OnMessage(trade Trade) error {
	return s.store.OnMessage(trade)
}

func (s *Service) AddListener(listener hub.Listener[Trade]) {
	s.store.AddListener(listener)
}

func (s *Service) GetListeners() []hub.Listener[Trade] {
	return s.store.GetListeners()
}

// BookTrade turns order into a trade on the next book of the rotation and
// publishes it without storing. The rotation is shared by all instruments.
func (s *Service) BookTrade(order algoexec.ExecutionOrder) (Trade, error) {
	book := s.books[s.next%uint64(len(s.books))]
	s.next++

	trade := Trade{
		Instrument: order.Instrument,
		TradeID:    order.OrderID,
		Price:      order.Price,
		Book:       book,
		Quantity:   order.Quantity(),
		Side:       order.Side.Trade(),
	}
	if !trade.Side.IsAvailable() {
		return trade, errors.Wrap(exception.ErrInvalidArgument, "order side").With("order", order.OrderID)
	}
	if err := s.store.Notify(trade); err != nil {
		return trade, errors.Wrap(err, "publish booked trade").With("trade", trade.TradeID)
	}
	return trade, nil
}

// ProcessAdd makes the service an execution order listener.
func (s *Service) ProcessAdd(order algoexec.ExecutionOrder) error {
	_, err := s.BookTrade(order)
	return err
}

func (s *Service) ProcessRemove(algoexec.ExecutionOrder) error { return nil }

func (s *Service) ProcessUpdate(algoexec.ExecutionOrder) error { return nil }
