package enum

import "strings"

// InquiryState tracks a customer inquiry.
type InquiryState uint8

const (
	_inquiry_state_beg InquiryState = iota
	InquiryReceived
	InquiryQuoted
	InquiryDone
	InquiryRejected
	InquiryCustomerRejected
	_inquiry_state_end
)

func (s InquiryState) IsAvailable() bool {
	return s > _inquiry_state_beg && s < _inquiry_state_end
}

// IsTerminal reports whether no further transition is allowed.
func (s InquiryState) IsTerminal() bool {
	switch s {
	case InquiryDone, InquiryRejected, InquiryCustomerRejected:
		return true
	default:
		return false
	}
}

func (s InquiryState) String() string {
	switch s {
	case InquiryReceived:
		return "RECEIVED"
	case InquiryQuoted:
		return "QUOTED"
	case InquiryDone:
		return "DONE"
	case InquiryRejected:
		return "REJECTED"
	case InquiryCustomerRejected:
		return "CUSTOMER_REJECTED"
	default:
		return "UNKNOWN"
	}
}

// ParseInquiryState reads the feed representation of a state.
func ParseInquiryState(s string) (InquiryState, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RECEIVED":
		return InquiryReceived, true
	case "QUOTED":
		return InquiryQuoted, true
	case "DONE":
		return InquiryDone, true
	case "REJECTED":
		return InquiryRejected, true
	case "CUSTOMER_REJECTED":
		return InquiryCustomerRejected, true
	default:
		return _inquiry_state_beg, false
	}
}
