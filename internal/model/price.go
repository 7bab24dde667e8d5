package model

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"bondpipe/pkg/exception"
)

// TicksPerPoint is the number of ticks in one price point.
// A tick is 1/256, an eighth of a 32nd.
const TicksPerPoint = 256

const ticksPer32nd = TicksPerPoint / 32

// Price is a scaled integer counting ticks, so every quote on the
// 32nds/8ths grid is exact.
type Price int64

// PriceFromParts builds a price from whole points, 32nds and eighths of a 32nd.
func PriceFromParts(points, thirtySeconds, eighths int64) Price {
	return Price(points*TicksPerPoint + thirtySeconds*ticksPer32nd + eighths)
}

// Ticks returns the raw tick count.
func (p Price) Ticks() int64 {
	return int64(p)
}

// Decimal converts the price into a decimal number of points.
func (p Price) Decimal() decimal.Decimal {
	return decimal.New(int64(p), 0).Div(decimal.New(TicksPerPoint, 0))
}

// Float64 is only meant for display.
func (p Price) Float64() float64 {
	return float64(p) / TicksPerPoint
}

// String returns the fractional notation.
func (p Price) String() string {
	return string(p.AppendFraction(nil))
}

// AppendFraction appends the "N-XYZ" notation, with a Z of 4 written as '+'.
func (p Price) AppendFraction(buf []byte) []byte {
	ticks := int64(p)
	if ticks < 0 {
		buf = append(buf, '-')
		ticks = -ticks
	}
	whole := ticks / TicksPerPoint
	frac := ticks % TicksPerPoint
	xy := frac / ticksPer32nd
	z := frac % ticksPer32nd

	buf = strconv.AppendInt(buf, whole, 10)
	buf = append(buf, '-')
	if xy < 10 {
		buf = append(buf, '0')
	}
	buf = strconv.AppendInt(buf, xy, 10)
	if z == 4 {
		return append(buf, '+')
	}
	return append(buf, byte('0'+z))
}

// ParsePrice decodes the "N-XYZ" fractional notation. XY is 00..31 and
// Z is 0..7, with 4 always written as '+'.
func ParsePrice(s string) (Price, error) {
	dash := -1
	for i := 1; i < len(s); i++ {
		if s[i] == '-' {
			dash = i
			break
		}
	}
	if dash < 0 {
		return 0, errors.Wrap(exception.ErrFormat, "price: missing dash").With("price", s)
	}

	neg := s[0] == '-'
	wholePart := s[:dash]
	if neg {
		wholePart = wholePart[1:]
	}
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil || whole < 0 || len(wholePart) == 0 || wholePart[0] == '+' {
		return 0, errors.Wrap(exception.ErrFormat, "price: invalid whole points").With("price", s)
	}

	frac := s[dash+1:]
	if len(frac) != 3 {
		return 0, errors.Wrap(exception.ErrFormat, "price: fraction must have 3 characters").With("price", s)
	}
	if !isDigit(frac[0]) || !isDigit(frac[1]) {
		return 0, errors.Wrap(exception.ErrFormat, "price: invalid 32nds").With("price", s)
	}
	xy := int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	if xy > 31 {
		return 0, errors.Wrap(exception.ErrFormat, "price: 32nds out of range").With("price", s)
	}

	var z int64
	switch c := frac[2]; {
	case c == '+':
		z = 4
	case c >= '0' && c <= '7' && c != '4':
		z = int64(c - '0')
	default:
		return 0, errors.Wrap(exception.ErrFormat, "price: invalid eighths").With("price", s)
	}

	p := PriceFromParts(whole, xy, z)
	if neg {
		p = -p
	}
	return p, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Quantity is a face amount, unscaled.
type Quantity int64
