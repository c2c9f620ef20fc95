package party

import "time"

// Party types.
const (
	TypeCustomer = "customer"
	TypeSupplier = "supplier"
)

// Balance directions.
const (
	BalanceReceivable = "receivable"
	BalancePayable    = "payable"
)

// Party is a customer or supplier account. Balances are in paise.
type Party struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	GST            string    `json:"gst"`
	ContactPerson  string    `json:"contact_person"`
	Contact        string    `json:"contact"`
	Address        string    `json:"address"`
	State          string    `json:"state"`
	Dist           string    `json:"dist"`
	City           string    `json:"city"`
	Pincode        string    `json:"pincode"`
	OpeningBalance int64     `json:"opening_balance"`
	CurrentBalance int64     `json:"current_balance"`
	IsActive       bool      `json:"is_active"`
	Type           string    `json:"type"`
	Email          string    `json:"email"`
	BalanceType    string    `json:"balance_type"`
	CreatedAt      time.Time `json:"created_at"`
}
