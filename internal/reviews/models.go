package reviews

import "time"

type Item struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
}

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Rate      int       `json:"rate"`
	Image     string    `json:"image,omitempty"`
	Item      Item      `json:"item"`
	IsDeleted bool      `json:"isDeleted"` // tombstone, bukan hapus fisik
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewView: review + display name penulis & nama produk utk listing.
type ReviewView struct {
	Review
	UserName    string `json:"userName"`
	ProductName string `json:"productName"`
}
