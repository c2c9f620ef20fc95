package order

// CreateOrderRequest is the POST /orders body.
type CreateOrderRequest struct {
	PartyID         int64    `json:"party_id" binding:"required"`
	Products        []string `json:"products" binding:"required,min=1"`
	Total           int64    `json:"total" binding:"required"`
	City            string   `json:"city"`
	MarketingPerson string   `json:"marketing_person"`
}

// UpdateStatusRequest is the PUT /orders/:id/status body.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListFilters narrows GET /orders.
type ListFilters struct {
	Search string
	Status string
}
