package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sale statuses
const (
	SaleStatusSold    = "sold"
	SaleStatusNotSold = "not_sold"
)

// Sale represents one product sale recorded by an executive.
// Ownership is immutable: salesExecutive is set at creation and never changes.
type Sale struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SalesExecutive primitive.ObjectID `json:"salesExecutive" bson:"salesExecutive"`
	ProductName    string             `json:"productName" bson:"productName"`
	SaleAmount     float64            `json:"saleAmount" bson:"saleAmount"`
	Quantity       int                `json:"quantity" bson:"quantity"`
	SaleDate       time.Time          `json:"saleDate" bson:"saleDate"`
	Status         string             `json:"status" bson:"status"` // "sold", "not_sold"
	ProductImage   string             `json:"productImage,omitempty" bson:"productImage,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SaleRequest is the create/update payload for a sale
type SaleRequest struct {
	ProductName  string  `json:"productName"`
	SaleAmount   float64 `json:"saleAmount"`
	Quantity     int     `json:"quantity"`
	SaleDate     string  `json:"saleDate,omitempty"`
	Status       string  `json:"status,omitempty"`
	ProductImage string  `json:"productImage,omitempty"`
}

// SaleBreakdownItem is the per-product line included in calculation results
// and commission statements
type SaleBreakdownItem struct {
	ProductName string    `json:"productName"`
	Amount      float64   `json:"amount"`
	Quantity    int       `json:"quantity"`
	Date        time.Time `json:"date"`
}
