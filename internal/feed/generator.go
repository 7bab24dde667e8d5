package feed

import (
	"bufio"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/yanun0323/errors"

	"bondpipe/internal/model"
	"bondpipe/internal/product"
	"bondpipe/pkg/exception"
)

const (
	PricesFile     = "prices.txt"
	MarketDataFile = "marketdata.txt"
	TradesFile     = "trades.txt"
	InquiriesFile  = "inquiries.txt"

	PricesHeader     = "Timestamp,CUSIP,Bid,Ask,Spread"
	MarketDataHeader = "Timestamp,CUSIP,Bid1,BidSize1,Ask1,AskSize1,Bid2,BidSize2,Ask2,AskSize2,Bid3,BidSize3,Ask3,AskSize3,Bid4,BidSize4,Ask4,AskSize4,Bid5,BidSize5,Ask5,AskSize5"

	timestampLayout = "2006-01-02 15:04:05.000"
	levels          = 5
	levelSize       = 1_000_000
	recordsPerFeed  = 10
	idLength        = 12
	idAlphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	lowMid  = model.PriceFromParts(99, 0, 0)
	highMid = model.PriceFromParts(101, 0, 0)
	// one step of the order book spread, 1/128
	spreadStep = model.Price(model.TicksPerPoint / 128)
	maxSpread  = model.Price(model.TicksPerPoint / 32)
	quantities = []model.Quantity{1_000_000, 2_000_000, 3_000_000, 4_000_000, 5_000_000}
)

// Config controls fixture generation.
type Config struct {
	Seed       uint64
	DataPoints int
	Start      time.Time
	Books      []string
}

// Files are the paths of a generated fixture set.
type Files struct {
	Prices     string
	MarketData string
	Trades     string
	Inquiries  string
}

// FilesIn returns the standard fixture paths under dir.
func FilesIn(dir string) Files {
	return Files{
		Prices:     filepath.Join(dir, PricesFile),
		MarketData: filepath.Join(dir, MarketDataFile),
		Trades:     filepath.Join(dir, TradesFile),
		Inquiries:  filepath.Join(dir, InquiriesFile),
	}
}

// Generator writes deterministic feeds for a set of instruments. Each feed
// restarts its own random stream of the seed, so feeds do not depend on
// the order they are written in and do not repeat each other.
type Generator struct {
	cfg Config
	ids []string
}

// NewGenerator checks every id against catalog.
func NewGenerator(catalog *product.Catalog, ids []string, cfg Config) (*Generator, error) {
	if len(ids) == 0 {
		return nil, errors.Wrap(exception.ErrInvalidArgument, "no instruments to generate")
	}
	for _, id := range ids {
		if _, err := catalog.Lookup(id); err != nil {
			return nil, err
		}
	}
	if cfg.DataPoints <= 0 {
		return nil, errors.Wrap(exception.ErrInvalidArgument, "data points must be > 0")
	}
	if len(cfg.Books) == 0 {
		return nil, errors.Wrap(exception.ErrInvalidArgument, "no settlement books")
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now().UTC()
	}
	return &Generator{cfg: cfg, ids: append([]string(nil), ids...)}, nil
}

// Each feed draws from its own stream of the seed.
const (
	streamBooks uint64 = iota + 1
	streamTrades
	streamInquiries
)

func (g *Generator) rng(stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(g.cfg.Seed, (g.cfg.Seed^0x9e3779b97f4a7c15)+stream))
}

// WriteAll creates dir and writes the four feeds into it.
func (g *Generator) WriteAll(dir string) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, err
	}
	files := FilesIn(dir)
	if err := writeFiles(func(pw, mw io.Writer) error { return g.WriteBooks(pw, mw) }, files.Prices, files.MarketData); err != nil {
		return Files{}, errors.Wrap(err, "write prices and market data")
	}
	if err := writeFile(g.WriteTrades, files.Trades); err != nil {
		return Files{}, errors.Wrap(err, "write trades")
	}
	if err := writeFile(g.WriteInquiries, files.Inquiries); err != nil {
		return Files{}, errors.Wrap(err, "write inquiries")
	}
	return files, nil
}

// WriteBooks writes the price feed and the market data feed in one pass.
// Each instrument's mid oscillates between 99 and 101 one tick at a time.
// The book's first level spread swings between 1/128 and 1/32.
func (g *Generator) WriteBooks(prices, books io.Writer) error {
	r := g.rng(streamBooks)
	pw := bufio.NewWriter(prices)
	bw := bufio.NewWriter(books)
	pw.WriteString(PricesHeader + "\n")
	bw.WriteString(MarketDataHeader + "\n")

	var buf []byte
	for _, id := range g.ids {
		mid := lowMid
		rising, widening := true, true
		fixSpread := spreadStep
		now := g.cfg.Start

		for i := 0; i < g.cfg.DataPoints; i++ {
			now = now.Add(time.Duration(1+r.IntN(20)) * time.Millisecond)
			ts := now.Format(timestampLayout)

			// 1/128 to 1/64
			spread := model.Price(2 + r.IntN(3))
			bid := mid - spread/2
			ask := bid + spread

			buf = append(buf[:0], ts...)
			buf = append(buf, ',')
			buf = append(buf, id...)
			buf = append(buf, ',')
			buf = bid.AppendFraction(buf)
			buf = append(buf, ',')
			buf = ask.AppendFraction(buf)
			buf = append(buf, ',')
			buf = append(buf, spread.Decimal().String()...)
			buf = append(buf, '\n')
			pw.Write(buf)

			buf = append(buf[:0], ts...)
			buf = append(buf, ',')
			buf = append(buf, id...)
			for lvl := 1; lvl <= levels; lvl++ {
				half := fixSpread * model.Price(lvl) / 2
				size := int64(lvl * levelSize)
				buf = append(buf, ',')
				buf = (mid - half).AppendFraction(buf)
				buf = append(buf, ',')
				buf = strconv.AppendInt(buf, size, 10)
				buf = append(buf, ',')
				buf = (mid + half).AppendFraction(buf)
				buf = append(buf, ',')
				buf = strconv.AppendInt(buf, size, 10)
			}
			buf = append(buf, '\n')
			bw.Write(buf)

			if rising {
				mid++
				if ask >= highMid {
					rising = false
				}
			} else {
				mid--
				if bid <= lowMid {
					rising = true
				}
			}

			if widening {
				fixSpread += spreadStep
				if fixSpread >= maxSpread {
					widening = false
				}
			} else {
				fixSpread -= spreadStep
				if fixSpread <= spreadStep {
					widening = true
				}
			}
		}
	}

	if err := pw.Flush(); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteTrades writes ten trades per instrument, alternating BUY and SELL.
// Buys print between 99 and 100, sells between 100 and 101.
func (g *Generator) WriteTrades(w io.Writer) error {
	r := g.rng(streamTrades)
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, id := range g.ids {
		for i := 0; i < recordsPerFeed; i++ {
			side, price := g.sideAndPrice(r, i)
			buf = append(buf[:0], id...)
			buf = append(buf, ',')
			buf = appendRandomID(buf, r)
			buf = append(buf, ',')
			buf = price.AppendFraction(buf)
			buf = append(buf, ',')
			buf = append(buf, g.cfg.Books[i%len(g.cfg.Books)]...)
			buf = append(buf, ',')
			buf = strconv.AppendInt(buf, int64(quantities[i%len(quantities)]), 10)
			buf = append(buf, ',')
			buf = append(buf, side...)
			buf = append(buf, '\n')
			bw.Write(buf)
		}
	}
	return bw.Flush()
}

// WriteInquiries writes ten RECEIVED inquiries per instrument.
func (g *Generator) WriteInquiries(w io.Writer) error {
	r := g.rng(streamInquiries)
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, id := range g.ids {
		for i := 0; i < recordsPerFeed; i++ {
			side, price := g.sideAndPrice(r, i)
			buf = appendRandomID(buf[:0], r)
			buf = append(buf, ',')
			buf = append(buf, id...)
			buf = append(buf, ',')
			buf = append(buf, side...)
			buf = append(buf, ',')
			buf = strconv.AppendInt(buf, int64(quantities[i%len(quantities)]), 10)
			buf = append(buf, ',')
			buf = price.AppendFraction(buf)
			buf = append(buf, ",RECEIVED\n"...)
			bw.Write(buf)
		}
	}
	return bw.Flush()
}

func (g *Generator) sideAndPrice(r *rand.Rand, i int) (string, model.Price) {
	offset := model.Price(r.IntN(model.TicksPerPoint))
	if i%2 == 0 {
		return "BUY", lowMid + offset
	}
	return "SELL", lowMid + model.TicksPerPoint + offset
}

func appendRandomID(buf []byte, r *rand.Rand) []byte {
	for i := 0; i < idLength; i++ {
		buf = append(buf, idAlphabet[r.IntN(len(idAlphabet))])
	}
	return buf
}

func writeFile(fn func(io.Writer) error, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeFiles(fn func(a, b io.Writer) error, pathA, pathB string) error {
	a, err := os.Create(pathA)
	if err != nil {
		return err
	}
	b, err := os.Create(pathB)
	if err != nil {
		_ = a.Close()
		return err
	}
	err = fn(a, b)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	if cerr := b.Close(); err == nil {
		err = cerr
	}
	return err
}
