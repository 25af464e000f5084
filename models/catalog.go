package models

// Category represents a product category owned by the backend
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductListing is a product as returned by the backend's per-category listing
type ProductListing struct {
	Name     string  `json:"name"`
	Price    string  `json:"price"`
	Brand    string  `json:"brand"`
	Image    string  `json:"image"` // Relative to the backend base URL
	PriceINR float64 `json:"priceInr"`
}

// CategoryProducts pairs a category with the products fetched for it
type CategoryProducts struct {
	Category Category         `json:"category"`
	Products []ProductListing `json:"products"`
	Failed   bool             `json:"failed,omitempty"` // Product fetch failed; Products is empty
}
