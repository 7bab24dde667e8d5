package pricing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"

	"bondpipe/internal/hub"
	"bondpipe/internal/model"
	"bondpipe/internal/product"
	"bondpipe/pkg/exception"
)

func TestNewPriceIsExact(t *testing.T) {
	p := NewPrice(product.NewBond("A", product.BondTerms{}), model.PriceFromParts(99, 31, 7), model.PriceFromParts(100, 0, 1))
	assert.Equal(t, "100", p.Mid.String())
	assert.Equal(t, "0.0078125", p.Spread.String())
	assert.Equal(t, "A,100,0.0078125", string(p.AppendRecord(nil)))
}

func TestConnectorSubscribe(t *testing.T) {
	catalog, err := product.DefaultCatalog()
	require.NoError(t, err)
	s := NewService()
	var got []Price
	s.AddListener(hub.AddFunc[Price](func(p Price) error {
		got = append(got, p)
		return nil
	}))

	feedText := "Timestamp,CUSIP,Bid,Ask,Spread\n" +
		"1,9128283H1,99-000,99-002,0.0078125\n" +
		"2,9128283H1,99-16+,99-170,0.015625\n"
	require.NoError(t, NewConnector(s, catalog).Subscribe(t.Context(), strings.NewReader(feedText)))
	require.Len(t, got, 2)

	p, err := s.GetData("9128283H1")
	require.NoError(t, err)
	assert.Equal(t, got[1], p)
	assert.Equal(t, "99.5234375", p.Mid.String())

	_, err = s.GetData("912810RZ3")
	assert.True(t, errors.Is(err, exception.ErrNotFound))

	err = NewConnector(s, catalog).Subscribe(t.Context(), strings.NewReader("h\n1,9128283H1,99-000\n"))
	assert.True(t, errors.Is(err, exception.ErrFormat))
}
