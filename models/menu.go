package models

import "time"

type MenuItem struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Price      float64   `json:"price" gorm:"not null"`
	Rank       int       `json:"order"` // display rank; unique per list, not necessarily contiguous
	IsDisabled bool      `json:"is_disabled" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
