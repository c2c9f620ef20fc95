package order

import "time"

// Fulfillment pipeline, in order. Transitions only move forward.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusPacked     = "packed"
	StatusDispatched = "dispatched"
	StatusDelivered  = "delivered"
)

var pipeline = map[string]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusPacked:     2,
	StatusDispatched: 3,
	StatusDelivered:  4,
}

// Order is one customer order. Total is in paise.
type Order struct {
	ID              int64     `json:"-"`
	Reference       string    `json:"id"`
	PartyID         int64     `json:"party_id"`
	Customer        string    `json:"customer"`
	Products        []string  `json:"products"`
	Total           int64     `json:"total"`
	Status          string    `json:"status"`
	City            string    `json:"city"`
	MarketingPerson string    `json:"marketing_person"`
	CreatedAt       time.Time `json:"date"`
}

// ValidStatus reports whether s names a pipeline stage.
func ValidStatus(s string) bool {
	_, ok := pipeline[s]
	return ok
}

// CanTransition reports whether an order may move from one stage to the
// next. Only single forward steps are allowed.
func CanTransition(from, to string) bool {
	f, ok1 := pipeline[from]
	t, ok2 := pipeline[to]
	return ok1 && ok2 && t == f+1
}
