package models

import "time"

// CreatedAtLayout renders creation timestamps as YYYY/MM/DD, HH:MM:SS.
const CreatedAtLayout = "2006/01/02, 15:04:05"

// Product represents a registered product. ProductCode is the business key.
type Product struct {
	ID          int64     `json:"id"`
	ProductName string    `json:"product_name"`
	ProductCode string    `json:"product_code"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductPatch lists the columns an edit writes. A field with its Set flag
// false is left untouched; a set field with a nil value is written as NULL.
type ProductPatch struct {
	ProductName    *string
	SetProductName bool
	Description    *string
	SetDescription bool
}

// Empty reports whether the patch writes no column at all.
func (p ProductPatch) Empty() bool {
	return !p.SetProductName && !p.SetDescription
}
