package employee

import "time"

// PaymentInterval is the payroll cadence: an active employee becomes due
// once this much time has passed since their last successful payment.
const PaymentInterval = 30 * 24 * time.Hour

// Employee is a record in the append-only payroll ledger. IDs are a dense
// 0-based sequence in insertion order; removal flips IsActive and never
// deletes or compacts, so ids stay stable forever.
type Employee struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement:false"`
	Name            string
	WalletAddress   string `gorm:"size:42"`
	IsActive        bool
	SalaryUSD       uint64
	JoiningDate     time.Time
	LastPaymentDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Employee) TableName() string {
	return "employees"
}

// NextPaymentDue is when this employee next becomes payable.
func (e Employee) NextPaymentDue() time.Time {
	return e.LastPaymentDate.Add(PaymentInterval)
}
