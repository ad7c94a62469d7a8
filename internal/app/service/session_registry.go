package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/internal/app/repository"
	"github.com/meshur/storefront-backend/internal/app/state"
	"github.com/meshur/storefront-backend/internal/websocket"
	"github.com/meshur/storefront-backend/pkg/logger"
)

// Persisted store names; keys are "<name>:<session id>".
const (
	CartStoreName      = "meshur-cart"
	FavoritesStoreName = "meshur-favorites"
)

func CartKey(sessionID string) string      { return CartStoreName + ":" + sessionID }
func FavoritesKey(sessionID string) string { return FavoritesStoreName + ":" + sessionID }

// EventPublisher receives change notifications; websocket.Hub implements it.
type EventPublisher interface {
	Publish(event websocket.Event)
}

// CartView is the cart as returned to clients.
type CartView struct {
	Items []model.CartItem `json:"items"`
	Count int              `json:"count"`
	Total float64          `json:"total"`
}

func NewCartView(c state.Cart) *CartView {
	return &CartView{Items: c.Items(), Count: c.Count(), Total: c.Total()}
}

// Session holds the containers of one visitor.
type Session struct {
	ID        string
	Cart      *state.Store[state.Cart]
	Favorites *state.Store[state.Favorites]

	loadMu sync.Mutex
	loaded bool

	saveMu sync.Mutex

	mu             sync.Mutex
	cartDirty      bool
	favoritesDirty bool

	// guarded by the registry lock
	lastSeen time.Time

	unsubscribe []func()
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartDirty || s.favoritesDirty
}

type RegistryConfig struct {
	// Sessions untouched for this long are dropped from memory after their
	// state is saved. Zero keeps them forever.
	IdleTimeout time.Duration
	// Save after every mutation instead of waiting for the next flush.
	WriteThrough bool
}

type RegistryStats struct {
	Sessions int `json:"sessions"`
	Dirty    int `json:"dirty"`
}

// SessionRegistry owns the in-memory containers of all active sessions and
// moves their state to and from the StateRepository. Transitions never do
// I/O: listeners only mark a session dirty, and Save or Flush persist it.
type SessionRegistry struct {
	repo      repository.StateRepository
	publisher EventPublisher
	cfg       RegistryConfig
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry(repo repository.StateRepository, publisher EventPublisher, cfg RegistryConfig) *SessionRegistry {
	return &SessionRegistry{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the containers for sessionID, loading persisted state the
// first time the session is touched. Stored values that fail to decode are
// replaced with empty state.
func (r *SessionRegistry) Session(ctx context.Context, sessionID string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if !ok {
		s = &Session{ID: sessionID}
		r.sessions[sessionID] = s
	}
	s.lastSeen = r.now()
	r.mu.Unlock()

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loaded {
		return s, nil
	}

	// on failure the session stays unloaded and the next call retries
	if err := r.load(ctx, s); err != nil {
		return nil, err
	}
	s.loaded = true
	return s, nil
}

func (r *SessionRegistry) load(ctx context.Context, s *Session) error {
	cart := state.NewCart()
	if err := r.loadValue(ctx, CartKey(s.ID), &cart); err != nil {
		return err
	}
	favorites := state.NewFavorites()
	if err := r.loadValue(ctx, FavoritesKey(s.ID), &favorites); err != nil {
		return err
	}

	s.Cart = state.NewStore(cart)
	s.Favorites = state.NewStore(favorites)
	s.unsubscribe = []func(){
		s.Cart.Subscribe(func(_, next state.Cart) {
			s.mu.Lock()
			s.cartDirty = true
			s.mu.Unlock()
			r.publish(s.ID, websocket.EventCartUpdated, NewCartView(next))
		}),
		s.Favorites.Subscribe(func(_, next state.Favorites) {
			s.mu.Lock()
			s.favoritesDirty = true
			s.mu.Unlock()
			r.publish(s.ID, websocket.EventFavoritesUpdated, next.List())
		}),
	}

	logger.Debug("Session state loaded", map[string]interface{}{
		"session_id":      s.ID,
		"cart_lines":      cart.Len(),
		"favorites_count": favorites.Count(),
	})
	return nil
}

// loadValue decodes the stored value for key into dst. A missing key or a
// corrupt value leaves dst untouched.
func (r *SessionRegistry) loadValue(ctx context.Context, key string, dst json.Unmarshaler) error {
	raw, ok, err := r.repo.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := dst.UnmarshalJSON([]byte(raw)); err != nil {
		logger.Warn("Discarding unreadable stored state", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return nil
}

func (r *SessionRegistry) publish(sessionID, eventType string, data interface{}) {
	if r.publisher == nil {
		return
	}
	r.publisher.Publish(websocket.Event{Type: eventType, SessionID: sessionID, Data: data})
}

// Committed is called by services after a mutation. In write-through mode it
// saves right away; a failed save is logged and left for the next flush.
func (r *SessionRegistry) Committed(ctx context.Context, s *Session) {
	if !r.cfg.WriteThrough {
		return
	}
	if err := r.saveSession(ctx, s); err != nil {
		logger.Warn("Write-through save failed, will retry on next flush", map[string]interface{}{
			"session_id": s.ID,
			"error":      err.Error(),
		})
	}
}

// Save persists the dirty containers of sessionID. Sessions that are not in
// memory have nothing to save.
func (r *SessionRegistry) Save(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return r.saveSession(ctx, s)
}

func (r *SessionRegistry) saveSession(ctx context.Context, s *Session) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	cartDirty, favoritesDirty := s.cartDirty, s.favoritesDirty
	s.cartDirty, s.favoritesDirty = false, false
	s.mu.Unlock()

	if !cartDirty && !favoritesDirty {
		return nil
	}

	var errs []error
	if cartDirty {
		if err := r.saveValue(ctx, CartKey(s.ID), s.Cart.Get()); err != nil {
			errs = append(errs, err)
			s.mu.Lock()
			s.cartDirty = true
			s.mu.Unlock()
		}
	}
	if favoritesDirty {
		if err := r.saveValue(ctx, FavoritesKey(s.ID), s.Favorites.Get()); err != nil {
			errs = append(errs, err)
			s.mu.Lock()
			s.favoritesDirty = true
			s.mu.Unlock()
		}
	}
	return errors.Join(errs...)
}

func (r *SessionRegistry) saveValue(ctx context.Context, key string, value json.Marshaler) error {
	data, err := value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.repo.Save(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Flush saves every dirty session, then drops sessions that have been idle
// longer than the configured timeout and have nothing left to save.
func (r *SessionRegistry) Flush(ctx context.Context) (saved int, err error) {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if !s.Dirty() {
			continue
		}
		if err := r.saveSession(ctx, s); err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
	}

	evicted := r.evictIdle()
	if saved > 0 || evicted > 0 || len(errs) > 0 {
		logger.Debug("Session state flushed", map[string]interface{}{
			"saved":   saved,
			"evicted": evicted,
			"failed":  len(errs),
		})
	}
	return saved, errors.Join(errs...)
}

func (r *SessionRegistry) evictIdle() int {
	if r.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.IdleTimeout)

	r.mu.Lock()
	var evicted []*Session
	for id, s := range r.sessions {
		if s.lastSeen.After(cutoff) || s.Dirty() {
			continue
		}
		delete(r.sessions, id)
		evicted = append(evicted, s)
	}
	r.mu.Unlock()

	for _, s := range evicted {
		for _, unsubscribe := range s.unsubscribe {
			unsubscribe()
		}
	}
	return len(evicted)
}

// Close saves everything that is still dirty. Used on shutdown.
func (r *SessionRegistry) Close(ctx context.Context) error {
	saved, err := r.Flush(ctx)
	logger.Info("Session registry closed", map[string]interface{}{
		"saved": saved,
	})
	return err
}

func (r *SessionRegistry) Stats() RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := RegistryStats{Sessions: len(r.sessions)}
	for _, s := range r.sessions {
		if s.Dirty() {
			stats.Dirty++
		}
	}
	return stats
}
