package model

// Category is a top-level service category, e.g. "Home Repair".
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"categoryId"`
	Name       string `json:"name"`
}
