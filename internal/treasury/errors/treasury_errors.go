package treasuryerrors

import (
	"net/http"

	"defisalary/internal/shared/apperror"
)

var (
	ErrInsufficientFunds = apperror.New(
		apperror.CodeInsufficientFunds,
		"Held balance cannot cover the required payment",
		http.StatusConflict,
	)

	ErrTransferRejected = apperror.New(
		apperror.CodeTransferFailed,
		"Destination wallet refused the transfer",
		http.StatusConflict,
	)

	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amount must be a positive wei value",
		http.StatusBadRequest,
	)

	ErrInvalidDepositor = apperror.New(
		apperror.CodeInvalidInput,
		"Depositor address is not a valid wallet address",
		http.StatusBadRequest,
	)
)
