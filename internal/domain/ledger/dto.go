package ledger

import "time"

// CreateEntryRequest is the POST /ledger/:partyId/entries body.
type CreateEntryRequest struct {
	Type        string `json:"type" binding:"required,oneof=debit credit"`
	Description string `json:"description" binding:"required"`
	Reference   string `json:"reference"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
}

// StatementFilters narrows GET /ledger/:partyId.
type StatementFilters struct {
	From *time.Time
	To   *time.Time
}
