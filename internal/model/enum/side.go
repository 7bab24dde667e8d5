package enum

import "strings"

// Side is the direction of a trade or inquiry.
type Side uint8

const (
	_side_beg Side = iota
	SideBuy
	SideSell
	_side_end
)

func (s Side) IsAvailable() bool {
	return s > _side_beg && s < _side_end
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ParseSide accepts BUY or SELL, case insensitive.
func ParseSide(s string) (Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return SideBuy, true
	case "SELL":
		return SideSell, true
	default:
		return _side_beg, false
	}
}

// PricingSide is the side of a quote or execution order.
type PricingSide uint8

const (
	_pricing_side_beg PricingSide = iota
	PricingSideBid
	PricingSideOffer
	_pricing_side_end
)

func (s PricingSide) IsAvailable() bool {
	return s > _pricing_side_beg && s < _pricing_side_end
}

func (s PricingSide) String() string {
	switch s {
	case PricingSideBid:
		return "BID"
	case PricingSideOffer:
		return "OFFER"
	default:
		return "UNKNOWN"
	}
}

// Trade maps a quote side onto the trade side that lifts it: a bid buys.
func (s PricingSide) Trade() Side {
	switch s {
	case PricingSideBid:
		return SideBuy
	case PricingSideOffer:
		return SideSell
	default:
		return _side_beg
	}
}
