package service

import (
	"context"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/internal/app/state"
	"github.com/meshur/storefront-backend/pkg/logger"
)

type FavoritesService interface {
	GetFavorites(ctx context.Context, sessionID string) ([]model.Product, error)
	AddFavorite(ctx context.Context, sessionID string, productID uint) ([]model.Product, error)
	RemoveFavorite(ctx context.Context, sessionID string, productID uint) ([]model.Product, error)
	ToggleFavorite(ctx context.Context, sessionID string, productID uint) (bool, error)
	IsFavorite(ctx context.Context, sessionID string, productID uint) (bool, error)
	ClearFavorites(ctx context.Context, sessionID string) error
}

type favoritesService struct {
	sessions *SessionRegistry
	products ProductService
}

func NewFavoritesService(sessions *SessionRegistry, products ProductService) FavoritesService {
	return &favoritesService{sessions: sessions, products: products}
}

func (s *favoritesService) GetFavorites(ctx context.Context, sessionID string) ([]model.Product, error) {
	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Favorites.Get().List(), nil
}

func (s *favoritesService) AddFavorite(ctx context.Context, sessionID string, productID uint) ([]model.Product, error) {
	logger.Info("Adding favorite", map[string]interface{}{
		"session_id": sessionID,
		"product_id": productID,
	})

	product, err := s.products.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next := session.Favorites.Update(func(f state.Favorites) state.Favorites {
		return f.Add(*product)
	})
	s.sessions.Committed(ctx, session)
	return next.List(), nil
}

// RemoveFavorite works for products that have since left the catalog.
func (s *favoritesService) RemoveFavorite(ctx context.Context, sessionID string, productID uint) ([]model.Product, error) {
	logger.Info("Removing favorite", map[string]interface{}{
		"session_id": sessionID,
		"product_id": productID,
	})

	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next := session.Favorites.Update(func(f state.Favorites) state.Favorites {
		return f.Remove(productID)
	})
	s.sessions.Committed(ctx, session)
	return next.List(), nil
}

// ToggleFavorite flips membership atomically and reports whether the product
// is a favorite afterwards. A stored favorite can be toggled off even when
// the product is no longer in the catalog.
func (s *favoritesService) ToggleFavorite(ctx context.Context, sessionID string, productID uint) (bool, error) {
	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return false, err
	}

	product, lookupErr := s.products.GetProductByID(productID)

	var missing bool
	next := session.Favorites.Update(func(f state.Favorites) state.Favorites {
		if f.IsFavorite(productID) {
			return f.Remove(productID)
		}
		if lookupErr != nil {
			missing = true
			return f
		}
		return f.Add(*product)
	})
	if missing {
		return false, lookupErr
	}
	s.sessions.Committed(ctx, session)

	isFavorite := next.IsFavorite(productID)
	logger.Info("Favorite toggled", map[string]interface{}{
		"session_id":  sessionID,
		"product_id":  productID,
		"is_favorite": isFavorite,
	})
	return isFavorite, nil
}

func (s *favoritesService) IsFavorite(ctx context.Context, sessionID string, productID uint) (bool, error) {
	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return session.Favorites.Get().IsFavorite(productID), nil
}

func (s *favoritesService) ClearFavorites(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Favorites.Update(state.Favorites.Clear)
	s.sessions.Committed(ctx, session)
	return nil
}
