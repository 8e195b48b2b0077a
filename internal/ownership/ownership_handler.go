package ownership

import (
	"net/http"

	"defisalary/internal/shared/apperror"
	"defisalary/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("ownership.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ownership.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("ownership request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetOwner(c *gin.Context) {
	owner, err := h.service.Owner(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, OwnerResponse{Owner: owner}, nil)
}

func (h *Handler) Transfer(c *gin.Context) {
	caller := c.GetString("caller_address")

	var req TransferOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	if err := h.service.Transfer(c.Request.Context(), caller, req.NewOwner); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, OwnerResponse{Owner: req.NewOwner}, nil)
}
