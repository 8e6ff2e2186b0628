package transport

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for the caller's cart
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers the cart routes; all require authentication
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCart)
		r.Post("/add/{productId}", h.AddToCart)
		r.Put("/update/{cartItemId}", h.UpdateItem)
		r.Delete("/remove/{cartItemId}", h.RemoveItem)
		r.Delete("/clear", h.ClearCart)
	})
}

// callerID extracts the authenticated user's id from the request context
func callerID(r *http.Request, w http.ResponseWriter, logger *zap.Logger) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		logger.Error("Invalid user ID in context", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	return userID, true
}

// quantityParam reads ?quantity= with a fallback used by add-to-cart
func quantityParam(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("quantity")
	if raw == "" {
		if fallback > 0 {
			return fallback, nil
		}
		return 0, errors.New("quantity is required")
	}

	quantity, err := strconv.Atoi(raw)
	if err != nil || quantity < 1 {
		return 0, errors.New("quantity must be a positive integer")
	}

	return quantity, nil
}

// GetCart returns the caller's cart lines with product data
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r, w, h.logger)
	if !ok {
		return
	}

	items, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// AddToCart adds quantity of a product to the caller's cart, merging into an
// existing line for the same product.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r, w, h.logger)
	if !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	quantity, err := quantityParam(r, 1)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.cartService.AddToCart(r.Context(), userID, productID, quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusBadRequest, "Insufficient stock")
		default:
			h.logger.Error("Failed to add to cart", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "product added to cart",
	})
}

// UpdateItem sets the quantity of a cart line owned by the caller
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r, w, h.logger)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "cartItemId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	quantity, err := quantityParam(r, 0)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.cartService.UpdateItem(r.Context(), userID, itemID, quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrCartItemNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusBadRequest, "Insufficient stock")
		default:
			h.logger.Error("Failed to update cart item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "cart updated",
	})
}

// RemoveItem deletes a cart line owned by the caller
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r, w, h.logger)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "cartItemId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), userID, itemID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
			return
		}

		h.logger.Error("Failed to remove cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "item removed from cart",
	})
}

// ClearCart deletes every cart line belonging to the caller
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r, w, h.logger)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(r.Context(), userID); err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "cart cleared",
	})
}
