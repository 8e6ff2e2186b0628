package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// CartService defines the interface for cart business logic
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart returns the user's cart lines with product data
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

// AddToCart merges quantity into an existing line for the product, or creates
// one. The stock check compares the add amount against total stock, not the
// cumulative cart+add amount; repeated adds can therefore exceed stock, and
// checkout re-validates.
func (s *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.StockQuantity < quantity {
		return repository.ErrInsufficientStock
	}

	now := time.Now()
	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	return nil
}

// UpdateItem sets the quantity of a line owned by the caller, revalidating
// stock against the new quantity.
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	item, err := s.cartRepo.FindByID(ctx, userID, itemID)
	if err != nil {
		return err
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return repository.ErrCartItemNotFound
		}
		return err
	}

	if product.StockQuantity < quantity {
		return repository.ErrInsufficientStock
	}

	return s.cartRepo.UpdateQuantity(ctx, userID, itemID, quantity)
}

// RemoveItem deletes a line owned by the caller
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.cartRepo.Remove(ctx, userID, itemID)
}

// ClearCart deletes every line belonging to the caller
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, userID)
}
