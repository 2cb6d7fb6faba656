package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rental records one customer renting one manga. The customer and manga
// fields are point-in-time snapshots taken when the rental was created, not
// live references. ReturnedAt and Fee are nil while the rental is open and
// are set together, exactly once, when the rental is returned.
type Rental struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	CustomerID uuid.UUID        `json:"customer_id" db:"customer_id"`
	MangaID    uuid.UUID        `json:"manga_id" db:"manga_id"`
	Customer   CustomerSnapshot `json:"customer" db:"customer"`
	Manga      MangaSnapshot    `json:"manga" db:"manga"`
	RentedAt   time.Time        `json:"rented_at" db:"rented_at"`
	ReturnedAt *time.Time       `json:"returned_at,omitempty" db:"returned_at"`
	Fee        *float64         `json:"fee,omitempty" db:"fee"`
}

// Open reports whether the rental has not been returned yet.
func (r *Rental) Open() bool {
	return r.ReturnedAt == nil
}
