package employeeerrors

import (
	"net/http"

	"defisalary/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee id is out of range",
		http.StatusNotFound,
	)

	ErrInvalidWalletAddress = apperror.New(
		apperror.CodeInvalidInput,
		"Wallet address is not a valid address",
		http.StatusBadRequest,
	)
)
