package ownershiperrors

import (
	"net/http"

	"defisalary/internal/shared/apperror"
)

var (
	ErrOwnerNotConfigured = apperror.New(
		apperror.CodeInternalError,
		"Ledger owner has not been configured",
		http.StatusInternalServerError,
	)

	ErrInvalidOwnerAddress = apperror.New(
		apperror.CodeInvalidInput,
		"New owner address is not a valid wallet address",
		http.StatusBadRequest,
	)
)
