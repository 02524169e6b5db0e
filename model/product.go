package model

type ProductListItem struct {
	ID             uint64 `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Image          string `db:"image" json:"image"`
	AvailableStock int64  `db:"available_stock" json:"available_stock"`
	Price          int64  `db:"price" json:"price"`
}

type VariantSize struct {
	ID    uint64 `db:"id" json:"id"`
	Size  string `db:"size" json:"size"`
	Stock int64  `db:"stock" json:"stock"`
	Sold  int64  `db:"sold" json:"sold"`
}

type ProductVariant struct {
	ID    uint64        `db:"id" json:"id"`
	Color string        `db:"color" json:"color"`
	Sizes []VariantSize `json:"sizes"`
}

type ProductDetail struct {
	ID             uint64           `db:"id" json:"id"`
	Name           string           `db:"name" json:"name"`
	Description    string           `db:"description" json:"description,omitempty"`
	Image          string           `db:"image" json:"image"`
	AvailableStock int64            `db:"available_stock" json:"available_stock"`
	Price          int64            `db:"price" json:"price"`
	Variants       []ProductVariant `json:"variants"`
}

type ProductListResponse struct {
	Items      []ProductListItem `json:"items"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
}
