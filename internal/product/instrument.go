package product

import (
	"fmt"
	"time"

	"github.com/yanun0323/decimal"
)

// Kind tags the payload an Instrument carries.
type Kind uint8

const (
	_kind_beg Kind = iota
	KindBond
	KindSwap
	_kind_end
)

func (k Kind) IsAvailable() bool {
	return k > _kind_beg && k < _kind_end
}

func (k Kind) String() string {
	switch k {
	case KindBond:
		return "BOND"
	case KindSwap:
		return "SWAP"
	default:
		return "UNKNOWN"
	}
}

// IDType names the identifier scheme of a bond.
type IDType string

const (
	IDTypeCUSIP IDType = "CUSIP"
	IDTypeISIN  IDType = "ISIN"
)

// BondTerms are the static terms of a bond.
type BondTerms struct {
	IDType   IDType
	Ticker   string
	Coupon   decimal.Decimal
	Maturity time.Time
}

type (
	DayCount         string
	PaymentFrequency string
	FloatingIndex    string
	Tenor            string
	Currency         string
	SwapType         string
	SwapLegType      string
)

const (
	DayCount30360  DayCount = "30/360"
	DayCountAct360 DayCount = "ACT/360"

	PaymentQuarterly  PaymentFrequency = "QUARTERLY"
	PaymentSemiAnnual PaymentFrequency = "SEMI_ANNUAL"
	PaymentAnnual     PaymentFrequency = "ANNUAL"

	IndexLIBOR   FloatingIndex = "LIBOR"
	IndexEURIBOR FloatingIndex = "EURIBOR"

	Tenor1M  Tenor = "1M"
	Tenor3M  Tenor = "3M"
	Tenor6M  Tenor = "6M"
	Tenor12M Tenor = "12M"

	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"

	SwapStandard SwapType = "STANDARD"
	SwapForward  SwapType = "FORWARD"
	SwapIMM      SwapType = "IMM"
	SwapMAC      SwapType = "MAC"
	SwapBasis    SwapType = "BASIS"

	LegOutright SwapLegType = "OUTRIGHT"
	LegCurve    SwapLegType = "CURVE"
	LegFly      SwapLegType = "FLY"
)

// SwapTerms are the static terms of an interest rate swap.
type SwapTerms struct {
	FixedDayCount    DayCount
	FloatingDayCount DayCount
	FixedFrequency   PaymentFrequency
	FloatingIndex    FloatingIndex
	FloatingTenor    Tenor
	EffectiveDate    time.Time
	TerminationDate  time.Time
	Currency         Currency
	TermYears        int
	Type             SwapType
	LegType          SwapLegType
}

// Instrument is a tradable product: an id plus either bond or swap terms.
// It is immutable once built.
type Instrument struct {
	id   string
	kind Kind
	bond BondTerms
	swap SwapTerms
}

// NewBond creates a bond instrument.
func NewBond(id string, terms BondTerms) Instrument {
	return Instrument{id: id, kind: KindBond, bond: terms}
}

// NewSwap creates a swap instrument.
func NewSwap(id string, terms SwapTerms) Instrument {
	return Instrument{id: id, kind: KindSwap, swap: terms}
}

func (i Instrument) ID() string {
	return i.id
}

func (i Instrument) Kind() Kind {
	return i.kind
}

// Bond returns the bond terms when the instrument is a bond.
func (i Instrument) Bond() (BondTerms, bool) {
	return i.bond, i.kind == KindBond
}

// Swap returns the swap terms when the instrument is a swap.
func (i Instrument) Swap() (SwapTerms, bool) {
	return i.swap, i.kind == KindSwap
}

func (i Instrument) String() string {
	switch i.kind {
	case KindBond:
		return fmt.Sprintf("%s %s %s", i.id, i.bond.Ticker, i.bond.Maturity.Format(time.DateOnly))
	case KindSwap:
		return fmt.Sprintf("%s %s %s %dY", i.id, i.swap.Currency, i.swap.Type, i.swap.TermYears)
	default:
		return i.id
	}
}
