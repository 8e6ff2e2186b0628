package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a single line in a user's cart. At most one line exists per
// (user, product) pair; repeated adds merge into the existing line.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Product is populated on reads that join the catalog
	Product *Product `json:"product,omitempty" db:"-"`
}
