package employee

import "time"

type CreateEmployeeRequest struct {
	Name          string `json:"name" binding:"required"`
	WalletAddress string `json:"wallet_address" binding:"required"`
	SalaryUSD     uint64 `json:"salary_usd" binding:"required,gt=0"`
}

type UpdateEmployeeRequest struct {
	Name          string `json:"name" binding:"required"`
	WalletAddress string `json:"wallet_address" binding:"required"`
	IsActive      *bool  `json:"is_active" binding:"required"`
	SalaryUSD     uint64 `json:"salary_usd" binding:"required,gt=0"`
}

type EmployeeResponse struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	WalletAddress   string `json:"wallet_address"`
	IsActive        bool   `json:"is_active"`
	SalaryUSD       uint64 `json:"salary_usd"`
	JoiningDate     string `json:"joining_date"`
	LastPaymentDate string `json:"last_payment_date"`
	NextPaymentDue  string `json:"next_payment_due"`
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:              e.ID,
		Name:            e.Name,
		WalletAddress:   e.WalletAddress,
		IsActive:        e.IsActive,
		SalaryUSD:       e.SalaryUSD,
		JoiningDate:     e.JoiningDate.UTC().Format(time.RFC3339),
		LastPaymentDate: e.LastPaymentDate.UTC().Format(time.RFC3339),
		NextPaymentDue:  e.NextPaymentDue().UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(list []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(list))
	for i, e := range list {
		resp[i] = mapToResponse(e)
	}
	return resp
}
