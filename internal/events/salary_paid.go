package events

import "time"

const TypeSalaryPaid = "salary.paid"

type SalaryPaidEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   uint64    `json:"employee_id"`
	SalaryUSD    uint64    `json:"salary_usd"`
	EthAmountWei string    `json:"eth_amount_wei"`
	OccurredAt   time.Time `json:"occurred_at"`
}
