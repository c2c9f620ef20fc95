package inventory

// CreateProductRequest is the POST /products body.
type CreateProductRequest struct {
	Name     string `json:"name" binding:"required"`
	SKU      string `json:"sku" binding:"required"`
	Category string `json:"category" binding:"required"`
	Price    int64  `json:"price" binding:"required"`
	Stock    int    `json:"stock"`
	MinStock int    `json:"min_stock"`
}

// UpdateProductRequest is the PUT /products/:id body. Nil fields are left
// unchanged.
type UpdateProductRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Price    *int64  `json:"price"`
	Stock    *int    `json:"stock"`
	MinStock *int    `json:"min_stock"`
}

// ListFilters narrows GET /products.
type ListFilters struct {
	Search   string
	Category string
	Status   string
}
