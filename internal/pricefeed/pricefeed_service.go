package pricefeed

import (
	"context"
	"math/big"
	"time"

	pricefeederrors "defisalary/internal/pricefeed/errors"
	"defisalary/internal/shared/apperror"
	"defisalary/internal/shared/money"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	priceCacheKey = "pricefeed:eth_usd:18dec"
	priceCacheTTL = 30 * time.Second

	// Normalized prices always carry 18 decimals regardless of what the
	// feed reports.
	normalizedDecimals = 18
)

var pow10 = func(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

type Service interface {
	// LatestETHPrice returns the current ETH/USD price normalized to 18
	// decimals. Non-positive feed data is rejected.
	LatestETHPrice(ctx context.Context) (*big.Int, error)
	// UsdToEth converts a whole-USD amount into wei using floor division.
	// The sub-wei truncation is deliberate and must stay bit-exact.
	UsdToEth(ctx context.Context, usdAmount uint64) (*big.Int, error)
}

type service struct {
	feed   Feed
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(feed Feed, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("pricefeed.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("pricefeed.service")
	}
	return &service{
		feed:   feed,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) LatestETHPrice(ctx context.Context) (*big.Int, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, priceCacheKey).Result(); err == nil {
			if price, ok := new(big.Int).SetString(cached, 10); ok && price.Sign() > 0 {
				return price, nil
			}
		}
	}

	// Collapse concurrent cache misses into one oracle round trip.
	v, err, _ := s.sf.Do(priceCacheKey, func() (any, error) {
		return s.fetchNormalized(ctx)
	})
	if err != nil {
		return nil, err
	}

	price := v.(*big.Int)
	return new(big.Int).Set(price), nil
}

func (s *service) fetchNormalized(ctx context.Context) (*big.Int, error) {
	raw, decimals, err := s.feed.LatestPrice(ctx)
	if err != nil {
		s.logger.Error("price feed read failed", zap.Error(err))
		return nil, apperror.Wrap(err,
			pricefeederrors.ErrFeedUnavailable.Code,
			pricefeederrors.ErrFeedUnavailable.Message,
			pricefeederrors.ErrFeedUnavailable.HTTPStatus,
		)
	}

	if raw == nil || raw.Sign() <= 0 {
		s.logger.Warn("price feed returned non-positive price")
		return nil, pricefeederrors.ErrInvalidPrice
	}

	price := normalize(raw, decimals)

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, priceCacheKey, price.String(), priceCacheTTL).Err(); err != nil {
			s.logger.Warn("price cache write failed", zap.Error(err))
		}
	}

	s.logger.Debug("price feed refreshed",
		zap.String("price_18dec", price.String()),
		zap.Uint8("feed_decimals", decimals),
	)
	return price, nil
}

// normalize scales a feed quote to 18 decimals. A feed quoting with 8
// decimals is multiplied by 10^10; a feed quoting with more than 18 is
// floored down to 18.
func normalize(raw *big.Int, decimals uint8) *big.Int {
	d := int64(decimals)
	if d == normalizedDecimals {
		return new(big.Int).Set(raw)
	}
	if d < normalizedDecimals {
		return new(big.Int).Mul(raw, pow10(normalizedDecimals-d))
	}
	return new(big.Int).Quo(raw, pow10(d-normalizedDecimals))
}

func (s *service) UsdToEth(ctx context.Context, usdAmount uint64) (*big.Int, error) {
	price18, err := s.LatestETHPrice(ctx)
	if err != nil {
		return nil, err
	}

	// wei = usd * 10^18 * 10^18 / price18, truncated.
	usd := new(big.Int).SetUint64(usdAmount)
	numerator := new(big.Int).Mul(usd, money.WeiPerEth())
	numerator.Mul(numerator, money.WeiPerEth())
	return numerator.Quo(numerator, price18), nil
}
