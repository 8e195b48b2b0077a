package app

import (
	"database/sql"
	"os"
	"strconv"

	"defisalary/internal/auth"
	"defisalary/internal/employee"
	"defisalary/internal/ledger"
	"defisalary/internal/messaging/kafka"
	"defisalary/internal/ownership"
	"defisalary/internal/pricefeed"
	"defisalary/internal/shared/counter"
	"defisalary/internal/treasury"
	"defisalary/internal/upkeep"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(db)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	ownershipRepo := ownership.NewRepository(gormDB)
	treasuryRepo := treasury.NewRepository(gormDB)
	upkeepRepo := upkeep.NewRepository(gormDB)

	// --- Services ---
	ownershipService := ownership.NewService(db, ownershipRepo)
	priceService := pricefeed.NewService(feedFromEnv(), rdb)
	transferor := treasury.NewTransferor(treasuryRepo)
	treasuryService := treasury.NewService(db, treasuryRepo, ownershipService, transferor)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, ownershipService, outboxRepo)
	upkeepService := upkeep.NewService(db, upkeepRepo, employeeRepo, priceService, transferor, outboxRepo, nil)
	authService := auth.NewService(authRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	ledgerHandler := ledger.NewHandler(ownershipService, employeeService, treasuryService, priceService)
	ownershipHandler := ownership.NewHandler(ownershipService)
	treasuryHandler := treasury.NewHandler(treasuryService)
	upkeepHandler := upkeep.NewHandler(upkeepService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, logger)
		ledger.RegisterRoutes(api, ledgerHandler, logger)
		ownership.RegisterRoutes(api, ownershipHandler, logger)
		treasury.RegisterRoutes(api, treasuryHandler, rdb, logger)
		upkeep.RegisterRoutes(api, upkeepHandler, rdb, logger)
	}

	return nil
}

// feedFromEnv picks the oracle: a remote JSON feed when PRICE_FEED_URL is
// set, otherwise a fixed quote for local development.
func feedFromEnv() pricefeed.Feed {
	if url := os.Getenv("PRICE_FEED_URL"); url != "" {
		return pricefeed.NewHTTPFeed(url)
	}

	// Defaults mirror a $2000/ETH quote with 8 feed decimals.
	price := int64(200000000000)
	if v := os.Getenv("PRICE_FEED_STATIC_PRICE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			price = parsed
		}
	}

	decimals := uint8(8)
	if v := os.Getenv("PRICE_FEED_STATIC_DECIMALS"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 8); err == nil {
			decimals = uint8(parsed)
		}
	}

	return pricefeed.NewStaticFeed(price, decimals)
}
