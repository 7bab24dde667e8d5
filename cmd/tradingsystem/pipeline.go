package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"bondpipe/internal/algoexec"
	"bondpipe/internal/feed"
	"bondpipe/internal/historical"
	"bondpipe/internal/inquiry"
	"bondpipe/internal/marketdata"
	"bondpipe/internal/obs"
	"bondpipe/internal/position"
	"bondpipe/internal/pricing"
	"bondpipe/internal/product"
	"bondpipe/internal/tradebooking"
)

// subscriber feeds one input file into a stage.
type subscriber interface {
	Subscribe(ctx context.Context, r io.Reader) error
}

// pipeline holds every stage and the listeners between them:
//
//	market data -> algo execution -> trade booking -> positions
//	trades feed -> trade booking
//	inquiries feed -> inquiries
//	prices feed -> prices
type pipeline struct {
	catalog    *product.Catalog
	marketData *marketdata.Service
	algo       *algoexec.Service
	booking    *tradebooking.Service
	positions  *position.Service
	inquiries  *inquiry.Service
	prices     *pricing.Service

	marketDataIn *marketdata.Connector
	tradesIn     *tradebooking.Connector
	inquiriesIn  *inquiry.Connector
	pricesIn     *pricing.Connector

	metrics *obs.Metrics
}

func newPipeline(catalog *product.Catalog, books []string, sink historical.Sink, metrics *obs.Metrics) (*pipeline, error) {
	sink = countingSink{Sink: sink, metrics: metrics}
	booking, err := tradebooking.NewService(books...)
	if err != nil {
		return nil, err
	}
	p := &pipeline{
		catalog:    catalog,
		marketData: marketdata.NewService(catalog),
		algo:       algoexec.NewService(),
		booking:    booking,
		positions:  position.NewService(),
		inquiries:  inquiry.NewService(),
		prices:     pricing.NewService(),
		metrics:    metrics,
	}
	p.marketDataIn = marketdata.NewConnector(p.marketData)
	p.tradesIn = tradebooking.NewConnector(p.booking, catalog)
	p.inquiriesIn = inquiry.NewConnector(p.inquiries, catalog)
	p.pricesIn = pricing.NewConnector(p.prices, catalog)
	p.inquiries.SetConnector(p.inquiriesIn)

	p.marketData.AddListener(p.algo)
	p.algo.AddListener(p.booking)
	p.booking.AddListener(p.positions)

	p.positions.AddListener(historical.NewService(historical.KindPosition, sink, func(v position.Position) string {
		return v.Instrument.ID()
	}))
	p.algo.AddListener(historical.NewService(historical.KindExecution, sink, func(v algoexec.ExecutionOrder) string {
		return v.OrderID
	}))
	p.inquiries.AddListener(historical.NewService(historical.KindInquiry, sink, func(v inquiry.Inquiry) string {
		return v.ID
	}))
	p.prices.AddListener(historical.NewService(historical.KindPrice, sink, func(v pricing.Price) string {
		return v.Instrument.ID()
	}))

	p.marketData.AddListener(obs.StageListener[marketdata.OrderBook](metrics, obs.StageOrderBook))
	p.algo.AddListener(obs.StageListener[algoexec.ExecutionOrder](metrics, obs.StageExecution))
	p.booking.AddListener(obs.StageListener[tradebooking.Trade](metrics, obs.StageTrade))
	p.positions.AddListener(obs.StageListener[position.Position](metrics, obs.StagePosition))
	p.inquiries.AddListener(obs.StageListener[inquiry.Inquiry](metrics, obs.StageInquiry))
	p.prices.AddListener(obs.StageListener[pricing.Price](metrics, obs.StagePrice))
	return p, nil
}

// countingSink counts every entry that reaches the historical backend.
type countingSink struct {
	historical.Sink
	metrics *obs.Metrics
}

func (s countingSink) Write(e historical.Entry) error {
	if err := s.Sink.Write(e); err != nil {
		return err
	}
	s.metrics.ObserveStage(obs.StageHistorical)
	return nil
}

// replay feeds prices, market data, trades and inquiries in that order and
// stops at the first error.
func (p *pipeline) replay(ctx context.Context, files feed.Files) error {
	steps := []struct {
		feed obs.Feed
		path string
		in   subscriber
	}{
		{feed: obs.FeedPrices, path: files.Prices, in: p.pricesIn},
		{feed: obs.FeedMarketData, path: files.MarketData, in: p.marketDataIn},
		{feed: obs.FeedTrades, path: files.Trades, in: p.tradesIn},
		{feed: obs.FeedInquiries, path: files.Inquiries, in: p.inquiriesIn},
	}
	for _, step := range steps {
		start := time.Now()
		if err := replayFile(ctx, step.path, step.in); err != nil {
			p.metrics.IncFeedError(step.feed)
			return errors.Wrapf(err, "replay %s", step.feed)
		}
		elapsed := time.Since(start)
		p.metrics.ObserveFeed(step.feed, elapsed)
		logs.Infof("replayed %s in %s", step.feed, elapsed)
	}
	return nil
}

func replayFile(ctx context.Context, path string, in subscriber) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return in.Subscribe(ctx, f)
}
