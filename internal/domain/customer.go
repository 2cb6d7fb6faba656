package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a registered renter
type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	IsGold    bool      `json:"is_gold" db:"is_gold"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerSnapshot is an immutable copy of a customer embedded in a rental at
// creation time.
type CustomerSnapshot struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsGold    bool      `json:"is_gold"`
	Phone     string    `json:"phone"`
}

// Snapshot captures the customer fields embedded in a rental.
func (c *Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		IsGold:    c.IsGold,
		Phone:     c.Phone,
	}
}
