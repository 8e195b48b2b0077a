package upkeep

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunLoop drives the check-then-act automation: every tick it asks the
// ledger who is due and settles the fresh due set. Errors are logged and
// the loop keeps going; the ledger itself never retries a payment.
func RunLoop(
	ctx context.Context,
	svc Service,
	callerAddress string,
	pollInterval time.Duration,
	logger *zap.Logger,
) {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}

	log := logger.Named("upkeep.runner")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("upkeep runner started",
		zap.Duration("poll_interval", pollInterval),
		zap.String("caller_address", callerAddress),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("upkeep runner stopped")
			return
		case <-ticker.C:
			runOnce(ctx, svc, callerAddress, log)
		}
	}
}

func runOnce(ctx context.Context, svc Service, caller string, log *zap.Logger) {
	check, err := svc.CheckDue(ctx)
	if err != nil {
		log.Error("due check failed", zap.Error(err))
		return
	}

	if !check.AnyDue {
		return
	}

	log.Info("employees due for payment", zap.Int("count", check.Count))

	result, err := svc.Settle(ctx, caller, check.DueIDs, check.Count)
	if err != nil {
		log.Error("settlement failed", zap.Error(err))
		return
	}

	log.Info("settlement round finished",
		zap.Int("paid", len(result.Settled)),
		zap.Int("skipped", len(result.Skipped)),
	)
}
