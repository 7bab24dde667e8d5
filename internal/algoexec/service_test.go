package algoexec

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"

	"bondpipe/internal/hub"
	"bondpipe/internal/marketdata"
	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
	"bondpipe/internal/product"
	"bondpipe/pkg/exception"
)

func sequentialIDs(prefix string) IDGenerator {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func testBook(id string, spreadTicks int64) marketdata.OrderBook {
	bid := model.PriceFromParts(99, 16, 0)
	return marketdata.OrderBook{
		Instrument: product.NewBond(id, product.BondTerms{}),
		Bids: []marketdata.PriceLevel{
			{Price: bid, Quantity: 1_000_000, Side: enum.PricingSideBid},
			{Price: bid - 2, Quantity: 2_000_000, Side: enum.PricingSideBid},
		},
		Offers: []marketdata.PriceLevel{
			{Price: bid + model.Price(spreadTicks) + 2, Quantity: 4_000_000, Side: enum.PricingSideOffer},
			{Price: bid + model.Price(spreadTicks), Quantity: 3_000_000, Side: enum.PricingSideOffer},
		},
	}
}

func newTestService() *Service {
	return NewService(WithIDGenerators(sequentialIDs("O"), sequentialIDs("P")))
}

func TestQualifyingTicksAlternateSides(t *testing.T) {
	s := newTestService()
	var published []ExecutionOrder
	s.AddListener(hub.AddFunc[ExecutionOrder](func(o ExecutionOrder) error {
		published = append(published, o)
		return nil
	}))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.ProcessAdd(testBook("A", 2)))
	}

	require.Len(t, published, 3)
	bid := model.PriceFromParts(99, 16, 0)

	assert.Equal(t, enum.PricingSideBid, published[0].Side)
	assert.Equal(t, enum.SideBuy, published[0].Side.Trade())
	assert.Equal(t, bid+2, published[0].Price)
	assert.Equal(t, model.Quantity(1_000_000), published[0].VisibleQty)

	assert.Equal(t, enum.PricingSideOffer, published[1].Side)
	assert.Equal(t, bid, published[1].Price)
	assert.Equal(t, model.Quantity(3_000_000), published[1].VisibleQty)

	assert.Equal(t, enum.PricingSideBid, published[2].Side)

	for _, o := range published {
		assert.Equal(t, enum.OrderTypeMarket, o.Type)
		assert.Equal(t, model.Quantity(0), o.HiddenQty)
		assert.False(t, o.IsChild)
		assert.Equal(t, enum.MarketBrokerTec, o.Market)
	}
	assert.Equal(t, "O1", published[0].OrderID)
	assert.Equal(t, "P1", published[0].ParentOrderID)

	latest, err := s.GetData("A")
	require.NoError(t, err)
	assert.Equal(t, published[2], latest)
}

func TestWideSpreadSkipsButAdvancesTick(t *testing.T) {
	s := newTestService()
	var published []ExecutionOrder
	s.AddListener(hub.AddFunc[ExecutionOrder](func(o ExecutionOrder) error {
		published = append(published, o)
		return nil
	}))

	_, ok, err := s.Execute(testBook("A", 3))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Execute(marketdata.OrderBook{Instrument: product.NewBond("B", product.BondTerms{})})
	require.NoError(t, err)
	assert.False(t, ok)

	order, ok, err := s.Execute(testBook("A", 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, enum.PricingSideBid, order.Side, "third tick is even")
	assert.Equal(t, uint64(3), s.Ticks())
	require.Len(t, published, 1)

	_, err = s.GetData("B")
	assert.True(t, errors.Is(err, exception.ErrNotFound))
}

func TestDefaultIDsAreUnique(t *testing.T) {
	s := NewService()
	first, ok, err := s.Execute(testBook("A", 0))
	require.NoError(t, err)
	require.True(t, ok)
	second, ok, err := s.Execute(testBook("A", 0))
	require.NoError(t, err)
	require.True(t, ok)

	assert.NotEqual(t, first.OrderID, second.OrderID)
	assert.Contains(t, first.OrderID, "ALGO-")
	assert.Contains(t, first.ParentOrderID, "ALGOPARENT-")
}

func TestListenerErrorPropagates(t *testing.T) {
	s := newTestService()
	boom := errors.New("boom")
	s.AddListener(hub.AddFunc[ExecutionOrder](func(ExecutionOrder) error { return boom }))
	assert.True(t, errors.Is(s.ProcessAdd(testBook("A", 0)), boom))
}

func TestAppendRecord(t *testing.T) {
	o := ExecutionOrder{
		Instrument:    product.NewBond("9128283H1", product.BondTerms{}),
		Side:          enum.PricingSideOffer,
		OrderID:       "O1",
		Type:          enum.OrderTypeMarket,
		Price:         model.PriceFromParts(99, 16, 4),
		VisibleQty:    1_000_000,
		ParentOrderID: "P1",
		Market:        enum.MarketBrokerTec,
	}
	assert.Equal(t, "9128283H1,O1,OFFER,MARKET,99-16+,1000000,0,P1,false,BROKERTEC", string(o.AppendRecord(nil)))
}
