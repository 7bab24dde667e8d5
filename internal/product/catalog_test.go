package product

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"

	"bondpipe/pkg/exception"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, 7, c.Len())
	assert.Equal(t, []string{"9128283H1", "9128283L2", "912828M80", "9128283J7", "9128283F5", "912810TW8", "912810RZ3"}, c.IDs())

	inst, err := c.Lookup("9128283F5")
	require.NoError(t, err)
	assert.Equal(t, KindBond, inst.Kind())
	bond, ok := inst.Bond()
	require.True(t, ok)
	assert.Equal(t, "US10Y", bond.Ticker)
	assert.Equal(t, 2027, bond.Maturity.Year())
	_, ok = inst.Swap()
	assert.False(t, ok)

	_, err = c.Lookup("XXXX")
	assert.True(t, errors.Is(err, exception.ErrUnknownInstrument))
}

func TestLoadCatalogWithSwap(t *testing.T) {
	doc := `{"swaps":[{"id":"USD-5Y","fixedDayCount":"30/360","floatingDayCount":"ACT/360",
	"fixedFrequency":"SEMI_ANNUAL","floatingIndex":"LIBOR","floatingTenor":"3M",
	"effectiveDate":"2024-01-02","terminationDate":"2029-01-02","currency":"USD",
	"termYears":5,"type":"STANDARD","legType":"OUTRIGHT"}]}`
	c, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)

	inst, err := c.Lookup("USD-5Y")
	require.NoError(t, err)
	swap, ok := inst.Swap()
	require.True(t, ok)
	assert.Equal(t, KindSwap, inst.Kind())
	assert.Equal(t, IndexLIBOR, swap.FloatingIndex)
	assert.Equal(t, 5, swap.TermYears)
	assert.Equal(t, "USD-5Y USD STANDARD 5Y", inst.String())
}

func TestLoadCatalogRejectsBadEntries(t *testing.T) {
	testCases := []struct {
		desc string
		doc  string
	}{
		{desc: "bad maturity", doc: `{"bonds":[{"id":"A","maturity":"2020/01/01"}]}`},
		{desc: "bad id type", doc: `{"bonds":[{"id":"A","idType":"SEDOL","maturity":"2020-01-01"}]}`},
		{desc: "swap dates reversed", doc: `{"swaps":[{"id":"S","effectiveDate":"2029-01-02","terminationDate":"2024-01-02","termYears":5}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tc.doc))
			assert.True(t, errors.Is(err, exception.ErrFormat))
		})
	}
}

func TestCatalogAddRejectsDuplicates(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Add(NewBond("A", BondTerms{})))
	assert.True(t, errors.Is(c.Add(NewBond("A", BondTerms{})), exception.ErrInvalidArgument))
	assert.True(t, errors.Is(c.Add(Instrument{id: "B"}), exception.ErrInvalidArgument))
}
