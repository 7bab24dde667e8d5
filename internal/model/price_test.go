package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"

	"bondpipe/pkg/exception"
)

func TestFractionRoundTripWholeGrid(t *testing.T) {
	for whole := 0; whole <= 101; whole++ {
		for xy := 0; xy < 32; xy++ {
			for z := 0; z < 8; z++ {
				zc := fmt.Sprintf("%d", z)
				if z == 4 {
					zc = "+"
				}
				s := fmt.Sprintf("%d-%02d%s", whole, xy, zc)
				p, err := ParsePrice(s)
				require.NoError(t, err, s)
				assert.Equal(t, s, p.String())
				assert.Equal(t, PriceFromParts(int64(whole), int64(xy), int64(z)), p)
			}
		}
	}
}

func TestParsePriceValues(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
		want  string
	}{
		{desc: "half point", input: "99-160", want: "99.5"},
		{desc: "plus suffix", input: "100-00+", want: "100.015625"},
		{desc: "one tick", input: "99-001", want: "99.00390625"},
		{desc: "max fraction", input: "99-317", want: "99.99609375"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p, err := ParsePrice(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Decimal().String())
		})
	}
}

func TestParsePriceRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "99", "99-", "99-1", "99-1600", "99-320", "99-164", "99-168", "x-000", "99-a00", "-00+", "99-16-"} {
		_, err := ParsePrice(s)
		assert.Truef(t, errors.Is(err, exception.ErrFormat), "input %q", s)
	}
}

func TestTickArithmetic(t *testing.T) {
	bid := PriceFromParts(99, 31, 6)
	offer := PriceFromParts(100, 0, 0)
	assert.Equal(t, int64(2), offer.Ticks()-bid.Ticks())
	assert.Equal(t, "99-316", bid.String())
	assert.Equal(t, 100.0, offer.Float64())
}
