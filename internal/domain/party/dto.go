package party

// CreatePartyRequest is the POST /parties body.
type CreatePartyRequest struct {
	Name           string `json:"name" binding:"required"`
	GST            string `json:"gst"`
	ContactPerson  string `json:"contact_person"`
	Contact        string `json:"contact" binding:"required"`
	Address        string `json:"address"`
	State          string `json:"state"`
	Dist           string `json:"dist"`
	City           string `json:"city"`
	Pincode        string `json:"pincode"`
	OpeningBalance int64  `json:"opening_balance"`
	Type           string `json:"type" binding:"required,oneof=customer supplier"`
	Email          string `json:"email"`
	BalanceType    string `json:"balance_type" binding:"omitempty,oneof=receivable payable"`
}

// UpdatePartyRequest is the PUT /parties/:id body.
type UpdatePartyRequest struct {
	Name          *string `json:"name"`
	GST           *string `json:"gst"`
	ContactPerson *string `json:"contact_person"`
	Contact       *string `json:"contact"`
	Address       *string `json:"address"`
	State         *string `json:"state"`
	Dist          *string `json:"dist"`
	City          *string `json:"city"`
	Pincode       *string `json:"pincode"`
	Email         *string `json:"email"`
}

// ListFilters narrows GET /parties.
type ListFilters struct {
	Search string
	Type   string
	Active *bool
}
