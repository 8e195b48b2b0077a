package ledger

type InfoResponse struct {
	Owner         string `json:"owner"`
	EmployeeCount int64  `json:"employee_count"`
	BalanceWei    string `json:"balance_wei"`
	EthPriceWei   string `json:"eth_price_wei"`
}

type ConversionResponse struct {
	UsdAmount    uint64 `json:"usd_amount"`
	EthAmountWei string `json:"eth_amount_wei"`
}
