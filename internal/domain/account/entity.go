package account

import "time"

// Account types.
const (
	TypeCash = "cash"
	TypeBank = "bank"
)

// Transaction types.
const (
	TxIncome  = "income"
	TxExpense = "expense"
)

// Account is a money holding the business collects into and pays from.
// Balance is in paise.
type Account struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Type              string     `json:"type"`
	Balance           int64      `json:"balance"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty"`
}

// Transaction is one income or expense movement on an account.
// AccountName is filled on listings that join the account.
type Transaction struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	AccountName string    `json:"account_name,omitempty"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
}

// Summary totals balances across account types.
type Summary struct {
	TotalBalance int64 `json:"total_balance"`
	TotalCash    int64 `json:"total_cash"`
	TotalBank    int64 `json:"total_bank"`
}

// BalanceDelta is the signed movement a transaction applies to its account.
// Income raises the balance, expense lowers it.
func BalanceDelta(txType string, amount int64) int64 {
	if txType == TxExpense {
		return -amount
	}
	return amount
}
