package events

import "time"

const LedgerEventsTopic = "payroll.ledger.events.v1"

const (
	TypeEmployeeAdded   = "employee.added"
	TypeEmployeeRemoved = "employee.removed"
	TypeEmployeeUpdated = "employee.updated"
)

// Payloads carry the exact field tuples the dashboard consumes to refresh
// its views; ordering is only guaranteed within a single ledger call.

type EmployeeAddedEvent struct {
	EventType     string    `json:"event_type"`
	EmployeeID    uint64    `json:"employee_id"`
	Name          string    `json:"name"`
	WalletAddress string    `json:"wallet_address"`
	SalaryUSD     uint64    `json:"salary_usd"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type EmployeeRemovedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID uint64    `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EmployeeUpdatedEvent struct {
	EventType     string    `json:"event_type"`
	EmployeeID    uint64    `json:"employee_id"`
	Name          string    `json:"name"`
	IsActive      bool      `json:"is_active"`
	WalletAddress string    `json:"wallet_address"`
	SalaryUSD     uint64    `json:"salary_usd"`
	OccurredAt    time.Time `json:"occurred_at"`
}
