package account

// CreateAccountRequest is the POST /accounts body.
type CreateAccountRequest struct {
	Name           string `json:"name" binding:"required"`
	Type           string `json:"type" binding:"required,oneof=cash bank"`
	OpeningBalance int64  `json:"opening_balance" binding:"gte=0"`
}

// CreateTransactionRequest is the POST /accounts/:id/transactions body.
type CreateTransactionRequest struct {
	Type        string `json:"type" binding:"required,oneof=income expense"`
	Description string `json:"description" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
}

// ListAccountsResponse is the GET /accounts body; the dashboard renders the
// accounts and their totals together.
type ListAccountsResponse struct {
	Accounts []*Account `json:"accounts"`
	Summary  *Summary   `json:"summary"`
}
