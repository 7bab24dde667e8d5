package product

import (
	"bytes"
	_ "embed"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/decimal"
	"github.com/yanun0323/errors"

	"bondpipe/pkg/exception"
)

//go:embed catalog.json
var defaultCatalog []byte

// Catalog is read-only reference data, looked up by instrument id.
type Catalog struct {
	instruments []Instrument
	byID        map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]int)}
}

// DefaultCatalog returns the seven on-the-run treasuries.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// Add registers an instrument. Ids must be unique.
func (c *Catalog) Add(inst Instrument) error {
	if inst.ID() == "" {
		return errors.Wrap(exception.ErrInvalidArgument, "instrument id is empty")
	}
	if !inst.Kind().IsAvailable() {
		return errors.Wrap(exception.ErrInvalidArgument, "instrument kind is unknown").With("id", inst.ID())
	}
	if _, ok := c.byID[inst.ID()]; ok {
		return errors.Wrap(exception.ErrInvalidArgument, "instrument already exists").With("id", inst.ID())
	}
	c.byID[inst.ID()] = len(c.instruments)
	c.instruments = append(c.instruments, inst)
	return nil
}

// Lookup returns the instrument for id.
func (c *Catalog) Lookup(id string) (Instrument, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Instrument{}, errors.Wrap(exception.ErrUnknownInstrument, "catalog lookup").With("id", id)
	}
	return c.instruments[idx], nil
}

// Len returns the number of instruments.
func (c *Catalog) Len() int {
	return len(c.instruments)
}

// At returns the instrument by zero-based index.
func (c *Catalog) At(index int) (Instrument, bool) {
	if index < 0 || index >= len(c.instruments) {
		return Instrument{}, false
	}
	return c.instruments[index], true
}

// IDs returns every id in registration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.instruments))
	for _, inst := range c.instruments {
		ids = append(ids, inst.ID())
	}
	return ids
}

type catalogFile struct {
	Bonds []bondEntry `json:"bonds"`
	Swaps []swapEntry `json:"swaps"`
}

type bondEntry struct {
	ID       string          `json:"id"`
	IDType   IDType          `json:"idType"`
	Ticker   string          `json:"ticker"`
	Coupon   decimal.Decimal `json:"coupon"`
	Maturity string          `json:"maturity"`
}

type swapEntry struct {
	ID               string           `json:"id"`
	FixedDayCount    DayCount         `json:"fixedDayCount"`
	FloatingDayCount DayCount         `json:"floatingDayCount"`
	FixedFrequency   PaymentFrequency `json:"fixedFrequency"`
	FloatingIndex    FloatingIndex    `json:"floatingIndex"`
	FloatingTenor    Tenor            `json:"floatingTenor"`
	EffectiveDate    string           `json:"effectiveDate"`
	TerminationDate  string           `json:"terminationDate"`
	Currency         Currency         `json:"currency"`
	TermYears        int              `json:"termYears"`
	Type             SwapType         `json:"type"`
	LegType          SwapLegType      `json:"legType"`
}

// LoadCatalog decodes a JSON catalog document.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := sonic.ConfigFastest.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	c := NewCatalog()
	for _, b := range file.Bonds {
		inst, err := b.instrument()
		if err != nil {
			return nil, err
		}
		if err := c.Add(inst); err != nil {
			return nil, err
		}
	}
	for _, s := range file.Swaps {
		inst, err := s.instrument()
		if err != nil {
			return nil, err
		}
		if err := c.Add(inst); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (b bondEntry) instrument() (Instrument, error) {
	maturity, err := parseDate(b.Maturity)
	if err != nil {
		return Instrument{}, errors.Wrap(err, "bond maturity").With("id", b.ID)
	}
	idType := b.IDType
	if idType == "" {
		idType = IDTypeCUSIP
	}
	if idType != IDTypeCUSIP && idType != IDTypeISIN {
		return Instrument{}, errors.Wrap(exception.ErrFormat, "bond id type").With("id", b.ID).With("idType", b.IDType)
	}
	return NewBond(b.ID, BondTerms{
		IDType:   idType,
		Ticker:   b.Ticker,
		Coupon:   b.Coupon,
		Maturity: maturity,
	}), nil
}

func (s swapEntry) instrument() (Instrument, error) {
	effective, err := parseDate(s.EffectiveDate)
	if err != nil {
		return Instrument{}, errors.Wrap(err, "swap effective date").With("id", s.ID)
	}
	termination, err := parseDate(s.TerminationDate)
	if err != nil {
		return Instrument{}, errors.Wrap(err, "swap termination date").With("id", s.ID)
	}
	if !termination.After(effective) {
		return Instrument{}, errors.Wrap(exception.ErrFormat, "swap terminates before it starts").With("id", s.ID)
	}
	if s.TermYears <= 0 {
		return Instrument{}, errors.Wrap(exception.ErrFormat, "swap term years must be > 0").With("id", s.ID)
	}
	return NewSwap(s.ID, SwapTerms{
		FixedDayCount:    s.FixedDayCount,
		FloatingDayCount: s.FloatingDayCount,
		FixedFrequency:   s.FixedFrequency,
		FloatingIndex:    s.FloatingIndex,
		FloatingTenor:    s.FloatingTenor,
		EffectiveDate:    effective,
		TerminationDate:  termination,
		Currency:         s.Currency,
		TermYears:        s.TermYears,
		Type:             s.Type,
		LegType:          s.LegType,
	}), nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errors.Wrap(exception.ErrFormat, err.Error())
	}
	return t, nil
}
