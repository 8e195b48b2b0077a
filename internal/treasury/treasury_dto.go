package treasury

type DepositRequest struct {
	From      string `json:"from" binding:"required"`
	AmountWei string `json:"amount_wei" binding:"required"`
}

type BalanceResponse struct {
	BalanceWei string `json:"balance_wei"`
}

type WithdrawResponse struct {
	To        string `json:"to"`
	AmountWei string `json:"amount_wei"`
}
