package model

import "time"

// Product represents an artisan product in the marketplace catalogue.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	Maker       string    `json:"maker" db:"maker"`
	State       string    `json:"state" db:"state"`
	Materials   []string  `json:"materials" db:"materials"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
