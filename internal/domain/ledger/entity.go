package ledger

import "time"

// Entry types.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Entry is one ledger line for a party. Amount and Balance are in paise;
// Balance is the running balance after this entry.
type Entry struct {
	ID          int64     `json:"id"`
	PartyID     int64     `json:"party_id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Reference   string    `json:"reference"`
	Amount      int64     `json:"amount"`
	Balance     int64     `json:"balance"`
}

// Statement is a party's ledger with totals.
type Statement struct {
	PartyID        int64    `json:"party_id"`
	PartyName      string   `json:"party_name"`
	Entries        []*Entry `json:"entries"`
	TotalDebit     int64    `json:"total_debit"`
	TotalCredit    int64    `json:"total_credit"`
	ClosingBalance int64    `json:"closing_balance"`
}
