package models

import (
	"time"

	"github.com/google/uuid"
)

// Допустимые значения condition товара
var ValidConditions = map[string]bool{
	"new": true, "like-new": true, "good": true,
	"fair": true, "poor": true,
}

// Допустимые значения transaction_type товара
var ValidTransactionTypes = map[string]bool{
	"sell": true, "exchange": true, "both": true,
}

// Допустимые значения status товара
var ValidStatuses = map[string]bool{
	"available": true, "sold": true,
}

// Product представляет товар в системе
type Product struct {
	ID              uuid.UUID  `json:"id"`
	SellerID        uuid.UUID  `json:"seller_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Price           float64    `json:"price"`
	Condition       string     `json:"condition"`
	TransactionType string     `json:"transaction_type"`
	Images          []string   `json:"images"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	Category        *Category  `json:"category,omitempty"`
	Views           int        `json:"views"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Category представляет категорию товаров
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	// Количество товаров в категории (заполняется в ответах API)
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}
