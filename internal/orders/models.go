package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

type ShipTo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type Order struct {
	ID         string          `json:"id"`
	OrderNum   string          `json:"orderNum"`
	UserID     string          `json:"userId"`
	ShipTo     ShipTo          `json:"shipTo"`
	Contact    Contact         `json:"contact"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Items      []Item          `json:"items"`
	Status     Status          `json:"status"` // lihat status.go
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ItemView: line item + nama produk utk listing.
type ItemView struct {
	Item
	ProductName string `json:"productName"`
}

// OrderView: order di-expand dgn nama/email user dan detail produk
// per item (join read-only, tanpa mutasi).
type OrderView struct {
	Order
	UserName  string     `json:"userName"`
	UserEmail string     `json:"userEmail"`
	Items     []ItemView `json:"items"`
}
