package ledger

import (
	"net/http"
	"strconv"

	"defisalary/internal/employee"
	"defisalary/internal/ownership"
	"defisalary/internal/pricefeed"
	"defisalary/internal/shared/apperror"
	"defisalary/internal/shared/response"
	"defisalary/internal/treasury"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the dashboard aggregate views: the contract-info panel
// and the USD to ETH calculator.
type Handler struct {
	owners    ownership.Service
	employees employee.Service
	funds     treasury.Service
	prices    pricefeed.Service
	logger    *zap.Logger
}

func NewHandler(
	owners ownership.Service,
	employees employee.Service,
	funds treasury.Service,
	prices pricefeed.Service,
	logger ...*zap.Logger,
) *Handler {
	l := zap.L().Named("ledger.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.handler")
	}
	return &Handler{
		owners:    owners,
		employees: employees,
		funds:     funds,
		prices:    prices,
		logger:    l,
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("ledger request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Info(c *gin.Context) {
	ctx := c.Request.Context()

	owner, err := h.owners.Owner(ctx)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	count, err := h.employees.Count(ctx)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	balance, err := h.funds.Balance(ctx)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	price, err := h.prices.LatestETHPrice(ctx)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, InfoResponse{
		Owner:         owner,
		EmployeeCount: count,
		BalanceWei:    balance.BalanceWei,
		EthPriceWei:   price.String(),
	}, nil)
}

func (h *Handler) Conversion(c *gin.Context) {
	usd, err := strconv.ParseUint(c.Query("usd"), 10, 64)
	if err != nil {
		h.writeServiceError(c, apperror.InvalidField("Usd"))
		return
	}

	amount, err := h.prices.UsdToEth(c.Request.Context(), usd)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ConversionResponse{
		UsdAmount:    usd,
		EthAmountWei: amount.String(),
	}, nil)
}
