package model

import "time"

// Uncategorized is the category assigned to items whose category was removed
// or never set.
const Uncategorized = "uncategorized"

// DateLayout is the wire and storage format for in and expire dates.
const DateLayout = "2006-01-02"

type FoodItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Quantity   string    `json:"quantity"`
	InDate     string    `json:"in_date"`
	ExpireDate string    `json:"expire_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FoodItemFields carries the user-editable fields of a new item.
type FoodItemFields struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Quantity   string `json:"quantity"`
	InDate     string `json:"in_date"`
	ExpireDate string `json:"expire_date"`
}

// FoodItemPatch is a partial update; nil fields are left unchanged.
type FoodItemPatch struct {
	Name       *string `json:"name,omitempty"`
	Category   *string `json:"category,omitempty"`
	Quantity   *string `json:"quantity,omitempty"`
	InDate     *string `json:"in_date,omitempty"`
	ExpireDate *string `json:"expire_date,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p FoodItemPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Quantity == nil && p.InDate == nil && p.ExpireDate == nil
}

// PatchFromFields builds a patch that overwrites every editable field.
func PatchFromFields(f FoodItemFields) FoodItemPatch {
	return FoodItemPatch{
		Name:       &f.Name,
		Category:   &f.Category,
		Quantity:   &f.Quantity,
		InDate:     &f.InDate,
		ExpireDate: &f.ExpireDate,
	}
}
