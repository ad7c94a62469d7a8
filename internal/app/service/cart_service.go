package service

import (
	"context"
	"errors"

	"github.com/meshur/storefront-backend/internal/app/state"
	"github.com/meshur/storefront-backend/pkg/logger"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
	AddItem(ctx context.Context, sessionID string, productID, variantID uint, quantity int) (*CartView, error)
	UpdateQuantity(ctx context.Context, sessionID string, variantID uint, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID string, variantID uint) (*CartView, error)
	ClearCart(ctx context.Context, sessionID string) (*CartView, error)
}

type cartService struct {
	sessions *SessionRegistry
	products ProductService
}

func NewCartService(sessions *SessionRegistry, products ProductService) CartService {
	return &cartService{sessions: sessions, products: products}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewCartView(session.Cart.Get()), nil
}

// AddItem snapshots the current catalog product and variant into the cart.
// Adding a variant that is already in the cart increases its quantity.
func (s *cartService) AddItem(ctx context.Context, sessionID string, productID, variantID uint, quantity int) (*CartView, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": productID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, variant, err := s.products.GetVariant(productID, variantID)
	if err != nil {
		logger.Warn("Cannot add to cart", map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
			"variant_id": variantID,
			"error":      err.Error(),
		})
		return nil, err
	}

	return s.mutate(ctx, sessionID, func(c state.Cart) state.Cart {
		return c.Add(*product, *variant, quantity)
	})
}

// UpdateQuantity sets the quantity of a line; zero or less removes it and
// unknown variants are left alone.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID string, variantID uint, quantity int) (*CartView, error) {
	logger.Info("Updating cart quantity", map[string]interface{}{
		"session_id": sessionID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	return s.mutate(ctx, sessionID, func(c state.Cart) state.Cart {
		return c.SetQuantity(variantID, quantity)
	})
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID string, variantID uint) (*CartView, error) {
	logger.Info("Removing item from cart", map[string]interface{}{
		"session_id": sessionID,
		"variant_id": variantID,
	})

	return s.mutate(ctx, sessionID, func(c state.Cart) state.Cart {
		return c.Remove(variantID)
	})
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	logger.Info("Clearing cart", map[string]interface{}{
		"session_id": sessionID,
	})

	return s.mutate(ctx, sessionID, state.Cart.Clear)
}

func (s *cartService) mutate(ctx context.Context, sessionID string, fn func(state.Cart) state.Cart) (*CartView, error) {
	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to load session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	next := session.Cart.Update(fn)
	s.sessions.Committed(ctx, session)
	return NewCartView(next), nil
}
