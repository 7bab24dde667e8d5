package marketdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"

	"bondpipe/internal/hub"
	"bondpipe/internal/model"
	"bondpipe/internal/model/enum"
	"bondpipe/internal/product"
	"bondpipe/pkg/exception"
)

const cusip = "9128283H1"

func newTestService(t *testing.T) *Service {
	t.Helper()
	catalog, err := product.DefaultCatalog()
	require.NoError(t, err)
	return NewService(catalog)
}

func bid(points, x32, z int64, qty model.Quantity) PriceLevel {
	return PriceLevel{Price: model.PriceFromParts(points, x32, z), Quantity: qty, Side: enum.PricingSideBid}
}

func offer(points, x32, z int64, qty model.Quantity) PriceLevel {
	return PriceLevel{Price: model.PriceFromParts(points, x32, z), Quantity: qty, Side: enum.PricingSideOffer}
}

func TestGetDataCreatesEmptyBook(t *testing.T) {
	s := newTestService(t)
	book, err := s.GetData(cusip)
	require.NoError(t, err)
	assert.Equal(t, cusip, book.Instrument.ID())
	assert.Empty(t, book.Bids)
	assert.Empty(t, book.Offers)

	_, err = s.GetData("UNKNOWN")
	assert.True(t, errors.Is(err, exception.ErrUnknownInstrument))
}

func TestBestBidOffer(t *testing.T) {
	book := OrderBook{
		Bids:   []PriceLevel{bid(99, 16, 0, 1), bid(99, 24, 0, 2)},
		Offers: []PriceLevel{offer(100, 8, 0, 3), offer(100, 0, 0, 4)},
	}
	best, err := book.BestBidOffer()
	require.NoError(t, err)
	assert.Equal(t, "99.75", best.Bid.Price.Decimal().String())
	assert.Equal(t, "100", best.Offer.Price.Decimal().String())
	assert.Equal(t, model.Quantity(2), best.Bid.Quantity)
	assert.Equal(t, model.Quantity(4), best.Offer.Quantity)
}

func TestBestBidOfferTiesGoToFirstSeen(t *testing.T) {
	book := OrderBook{
		Bids:   []PriceLevel{bid(99, 0, 0, 1), bid(99, 0, 0, 2)},
		Offers: []PriceLevel{offer(100, 0, 0, 3), offer(100, 0, 0, 4)},
	}
	best, err := book.BestBidOffer()
	require.NoError(t, err)
	assert.Equal(t, model.Quantity(1), best.Bid.Quantity)
	assert.Equal(t, model.Quantity(3), best.Offer.Quantity)
}

func TestBestBidOfferEmptySide(t *testing.T) {
	_, err := OrderBook{Bids: []PriceLevel{bid(99, 0, 0, 1)}}.BestBidOffer()
	assert.True(t, errors.Is(err, exception.ErrEmptyBook))
}

func TestAggregateSumsByPriceAndIsIdempotent(t *testing.T) {
	book := OrderBook{
		Bids:   []PriceLevel{bid(99, 0, 0, 1), bid(98, 0, 0, 2), bid(99, 0, 0, 3)},
		Offers: []PriceLevel{offer(101, 0, 0, 5), offer(101, 0, 0, 5)},
	}
	agg := book.Aggregate()
	assert.Equal(t, []PriceLevel{bid(99, 0, 0, 4), bid(98, 0, 0, 2)}, agg.Bids)
	assert.Equal(t, []PriceLevel{offer(101, 0, 0, 10)}, agg.Offers)
	assert.Equal(t, agg, agg.Aggregate())
}

func TestApplyDepthAccumulatesAcrossSnapshots(t *testing.T) {
	s := newTestService(t)
	var published []OrderBook
	s.AddListener(hub.AddFunc[OrderBook](func(b OrderBook) error {
		published = append(published, b)
		return nil
	}))

	snap := DepthSnapshot{
		InstrumentID: cusip,
		Bids:         []PriceLevel{bid(99, 31, 0, 1_000_000)},
		Offers:       []PriceLevel{offer(100, 1, 0, 1_000_000)},
	}
	require.NoError(t, s.ApplyDepth(snap))
	require.NoError(t, s.ApplyDepth(snap))

	require.Len(t, published, 2)
	last := published[1]
	require.Len(t, last.Bids, 1)
	assert.Equal(t, model.Quantity(2_000_000), last.Bids[0].Quantity)
	assert.Equal(t, model.Quantity(2_000_000), last.Offers[0].Quantity)

	stored, err := s.GetData(cusip)
	require.NoError(t, err)
	assert.Equal(t, last, stored)

	best, err := s.BestBidOffer(cusip)
	require.NoError(t, err)
	assert.Equal(t, int64(16), best.Spread().Ticks())
}

func TestAggregateDepthUpdatesStoreWithoutPublishing(t *testing.T) {
	s := newTestService(t)
	var calls int
	s.AddListener(hub.AddFunc[OrderBook](func(OrderBook) error {
		calls++
		return nil
	}))
	inst, err := s.catalog.Lookup(cusip)
	require.NoError(t, err)
	s.store.Put(OrderBook{Instrument: inst, Bids: []PriceLevel{bid(99, 0, 0, 1), bid(99, 0, 0, 1)}})

	book, err := s.AggregateDepth(cusip)
	require.NoError(t, err)
	assert.Equal(t, []PriceLevel{bid(99, 0, 0, 2)}, book.Bids)
	assert.Equal(t, 0, calls)
}

func TestConnectorSubscribe(t *testing.T) {
	s := newTestService(t)
	var got []OrderBook
	s.AddListener(hub.AddFunc[OrderBook](func(b OrderBook) error {
		got = append(got, b)
		return nil
	}))

	feedText := "Timestamp,CUSIP,Bid1,BidSize1,Ask1,AskSize1,Bid2,BidSize2,Ask2,AskSize2,Bid3,BidSize3,Ask3,AskSize3,Bid4,BidSize4,Ask4,AskSize4,Bid5,BidSize5,Ask5,AskSize5\n" +
		"1,9128283H1,99-317,1000000,100-001,1000000,99-316,2000000,100-002,2000000,99-315,3000000,100-003,3000000,99-31+,4000000,100-00+,4000000,99-313,5000000,100-005,5000000\n" +
		"\n" +
		"2,9128283H1,99-317,1000000,100-001,1000000,99-316,2000000,100-002,2000000,99-315,3000000,100-003,3000000,99-31+,4000000,100-00+,4000000,99-313,5000000,100-005,5000000\n"
	require.NoError(t, NewConnector(s).Subscribe(t.Context(), strings.NewReader(feedText)))

	require.Len(t, got, 2)
	book := got[1]
	require.Len(t, book.Bids, BookDepth)
	require.Len(t, book.Offers, BookDepth)
	assert.Equal(t, bid(99, 31, 7, 2_000_000), book.Bids[0])
	assert.Equal(t, offer(100, 0, 5, 10_000_000), book.Offers[4])

	best, err := book.BestBidOffer()
	require.NoError(t, err)
	assert.Equal(t, int64(2), best.Spread().Ticks())
}

func TestConnectorStopsAtMalformedRecord(t *testing.T) {
	s := newTestService(t)
	var calls int
	s.AddListener(hub.AddFunc[OrderBook](func(OrderBook) error {
		calls++
		return nil
	}))

	good := "1,9128283H1,99-317,1,100-001,1,99-316,1,100-002,1,99-315,1,100-003,1,99-31+,1,100-00+,1,99-313,1,100-005,1\n"
	testCases := []struct {
		desc    string
		line    string
		wantErr error
	}{
		{desc: "non canonical eighth", line: strings.Replace(good, "100-00+", "100-004", 1), wantErr: exception.ErrFormat},
		{desc: "short record", line: "1,9128283H1,99-317,1\n", wantErr: exception.ErrFormat},
		{desc: "bad size", line: strings.Replace(good, "99-317,1,", "99-317,x,", 1), wantErr: exception.ErrFormat},
		{desc: "unknown instrument", line: strings.Replace(good, "9128283H1", "NOPE", 1), wantErr: exception.ErrUnknownInstrument},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			calls = 0
			err := NewConnector(s).Subscribe(t.Context(), strings.NewReader("header\n"+tc.line+good))
			assert.True(t, errors.Is(err, tc.wantErr))
			assert.Equal(t, 0, calls, "records after the bad one are not read")
		})
	}
}
