package pricefeederrors

import (
	"net/http"

	"defisalary/internal/shared/apperror"
)

var (
	// A zero or negative quote is invalid oracle data, not a free asset.
	ErrInvalidPrice = apperror.New(
		apperror.CodeInvalidPrice,
		"Price feed returned a non-positive price",
		http.StatusBadGateway,
	)

	ErrFeedUnavailable = apperror.New(
		apperror.CodeInvalidPrice,
		"Price feed could not be read",
		http.StatusBadGateway,
	)
)
