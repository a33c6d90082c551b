package domain

// Product is the catalog entity. ID is assigned by the repository at
// creation and immutable afterwards.
type Product struct {
	ID          string `json:"id"`
	Model       string `json:"model"`
	Code        string `json:"code"`
	Price       int64  `json:"price"`
	ProductName string `json:"productName"`
	ProductURL  string `json:"productUrl,omitempty"`
}
