package upkeep

type CheckResult struct {
	AnyDue bool     `json:"any_due"`
	DueIDs []uint64 `json:"due_ids"`
	Count  int      `json:"count"`
}

type SettleRequest struct {
	DueIDs []uint64 `json:"due_ids" binding:"required"`
	Count  int      `json:"count" binding:"required,gt=0"`
}

type PaymentResult struct {
	EmployeeID   uint64 `json:"employee_id"`
	SalaryUSD    uint64 `json:"salary_usd"`
	EthAmountWei string `json:"eth_amount_wei"`
}

type SettlementResult struct {
	Settled []PaymentResult `json:"settled"`
	Skipped []uint64        `json:"skipped"`
}
