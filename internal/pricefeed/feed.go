package pricefeed

import (
	"context"
	"math/big"
)

// Feed is the external ETH/USD oracle: a signed fixed-point price and the
// number of decimals it is quoted with. The ledger only ever reads it.
type Feed interface {
	LatestPrice(ctx context.Context) (price *big.Int, decimals uint8, err error)
}

// StaticFeed serves a fixed quote. Used for local development and tests.
type StaticFeed struct {
	Price    *big.Int
	Decimals uint8
}

func NewStaticFeed(price int64, decimals uint8) *StaticFeed {
	return &StaticFeed{Price: big.NewInt(price), Decimals: decimals}
}

func (f *StaticFeed) LatestPrice(context.Context) (*big.Int, uint8, error) {
	return new(big.Int).Set(f.Price), f.Decimals, nil
}
