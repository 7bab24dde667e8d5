package inquiry

import (
	"github.com/yanun0323/errors"

	"bondpipe/internal/hub"
	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
	"bondpipe/pkg/exception"
)

// Service runs the inquiry lifecycle:
//
//	RECEIVED -> QUOTED -> DONE
//
// REJECTED and CUSTOMER_REJECTED are only reached through the reject
// methods. DONE inquiries leave the store, rejected ones stay. GetData
// fails with ErrNotFound for unknown ids.
type Service struct {
	store     *hub.Store[string, Inquiry]
	connector hub.Connector[Inquiry]
}

var _ hub.Service[string, Inquiry] = (*Service)(nil)

// NewService creates a service that quotes through the default Connector
// round trip.
func NewService() *Service {
	s := &Service{
		store: hub.NewStore("inquiry", func(i Inquiry) string {
			return i.ID
		}),
	}
	s.connector = &Connector{service: s}
	return s
}

// SetConnector replaces the quoting connector. A nil connector leaves
// received inquiries unquoted.
func (s *Service) SetConnector(c hub.Connector[Inquiry]) {
	if c == nil {
		c = hub.NopConnector[Inquiry]{}
	}
	s.connector = c
}

func (s *Service) GetData(id string) (Inquiry, error) {
	return s.store.Lookup(id)
}

// OnMessage handles an inquiry by state. A RECEIVED inquiry is stored and
// handed to the connector, which quotes it and feeds it back. A QUOTED one
// is completed and published, then removed and published again as DONE.
// Any other state is stored, or removed when DONE, and published.
func (s *Service) OnMessage(inq Inquiry) error {
	switch inq.State {
	case enum.InquiryReceived:
		s.store.Put(inq)
		if err := s.connector.Publish(inq); err != nil {
			return errors.Wrap(err, "quote inquiry").With("inquiry", inq.ID)
		}
		return nil
	case enum.InquiryQuoted:
		inq.State = enum.InquiryDone
		s.store.Put(inq)
		if err := s.store.Notify(inq); err != nil {
			return err
		}
	}

	if !inq.State.IsAvailable() {
		return errors.Wrap(exception.ErrInvalidArgument, "inquiry state").With("inquiry", inq.ID)
	}
	if inq.State == enum.InquiryDone {
		s.store.Delete(inq.ID)
	} else {
		s.store.Put(inq)
	}
	return s.store.Notify(inq)
}

func (s *Service) AddListener(listener hub.Listener[Inquiry]) {
	s.store.AddListener(listener)
}

func (s *Service) GetListeners() []hub.Listener[Inquiry] {
	return s.store.GetListeners()
}

// SendQuote sets the price of a live inquiry and publishes it. The state
// does not change.
func (s *Service) SendQuote(id string, price model.Price) error {
	inq, err := s.store.Lookup(id)
	if err != nil {
		return err
	}
	inq.Price = price
	s.store.Put(inq)
	return s.store.Notify(inq)
}

// RejectInquiry marks a live inquiry REJECTED. It stays in the store and
// is published.
func (s *Service) RejectInquiry(id string) error {
	return s.terminate(id, enum.InquiryRejected)
}

// CustomerRejectInquiry marks a live inquiry CUSTOMER_REJECTED.
func (s *Service) CustomerRejectInquiry(id string) error {
	return s.terminate(id, enum.InquiryCustomerRejected)
}

func (s *Service) terminate(id string, state enum.InquiryState) error {
	inq, err := s.store.Lookup(id)
	if err != nil {
		return err
	}
	if inq.State.IsTerminal() {
		return errors.Wrapf(exception.ErrInvalidTransition, "%s to %s", inq.State, state).With("inquiry", id)
	}
	inq.State = state
	s.store.Put(inq)
	return s.store.Notify(inq)
}

// Len returns the number of inquiries held.
func (s *Service) Len() int {
	return s.store.Len()
}
