package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/govindsingh74/amztwo/internal/profiles"
	"github.com/govindsingh74/amztwo/pkg/db/models"
	pkgerrors "github.com/govindsingh74/amztwo/pkg/errors"
	"github.com/govindsingh74/amztwo/pkg/logger"
)

// Snapshot is the materialized cart view handed to readers. It is rebuilt
// wholesale from persisted rows after every mutation, never patched in place.
type Snapshot struct {
	CartID     uuid.UUID         `json:"cart_id"`
	Items      []models.CartItem `json:"items"`
	TotalCount int               `json:"total_count"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Loading    bool              `json:"loading"`
}

// Session binds one authenticated identity to its cart for the life of a
// login. Mutations are serialized per session; readers always see the last
// fully reloaded snapshot.
type Session struct {
	authID   uuid.UUID
	resolver profiles.Resolver
	svc      Service
	logg     *logger.Logger

	mu      sync.Mutex // serializes mutations and first-use cart resolution
	stateMu sync.RWMutex
	userID  uuid.UUID
	cartID  uuid.UUID
	loading bool
	view    Snapshot
}

// NewSession builds a session for the given identity.
func NewSession(authID uuid.UUID, resolver profiles.Resolver, svc Service, logg *logger.Logger) (*Session, error) {
	if resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile resolver is required")
	}
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Session{authID: authID, resolver: resolver, svc: svc, logg: logg}, nil
}

// View returns the currently published snapshot. The loading flag reflects
// whether a reload is in flight at the time of the call.
func (s *Session) View() Snapshot {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	snap := s.view
	snap.Loading = s.loading
	return snap
}

// Loading reports whether a refresh is in flight.
func (s *Session) Loading() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.loading
}

// Refresh resolves identity and cart, then rebuilds the snapshot from
// persisted rows. Safe to call repeatedly; the first call creates the cart.
func (s *Session) Refresh(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cartID, err := s.ensureCartLocked(ctx)
	if err != nil {
		return s.View(), err
	}
	if err := s.reloadLocked(ctx, cartID); err != nil {
		return s.View(), err
	}
	return s.View(), nil
}

// AddItem adds or merges a variant and republishes the snapshot.
func (s *Session) AddItem(ctx context.Context, input AddItemInput) (Snapshot, error) {
	return s.mutate(ctx, "add cart item", func(ctx context.Context, cartID uuid.UUID) error {
		_, err := s.svc.AddItem(ctx, cartID, input)
		return err
	})
}

// UpdateQuantity overwrites a line item's quantity and republishes.
func (s *Session) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (Snapshot, error) {
	return s.mutate(ctx, "update cart item", func(ctx context.Context, cartID uuid.UUID) error {
		return s.svc.UpdateQuantity(ctx, cartID, itemID, quantity)
	})
}

// RemoveItem deletes a line item and republishes.
func (s *Session) RemoveItem(ctx context.Context, itemID uuid.UUID) (Snapshot, error) {
	return s.mutate(ctx, "remove cart item", func(ctx context.Context, cartID uuid.UUID) error {
		return s.svc.RemoveItem(ctx, cartID, itemID)
	})
}

// Clear empties the cart and republishes.
func (s *Session) Clear(ctx context.Context) (Snapshot, error) {
	return s.mutate(ctx, "clear cart", func(ctx context.Context, cartID uuid.UUID) error {
		userID := s.currentUserID()
		return s.svc.ClearCart(ctx, userID)
	})
}

// mutate runs one mutation under the session lock, then reloads the full
// snapshot. When the mutation fails, the reload is skipped so the previously
// published snapshot stays authoritative.
func (s *Session) mutate(ctx context.Context, action string, fn func(ctx context.Context, cartID uuid.UUID) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cartID, err := s.ensureCartLocked(ctx)
	if err != nil {
		return s.View(), err
	}
	ctx = s.logg.WithCartID(ctx, cartID.String())
	if err := fn(ctx, cartID); err != nil {
		s.logg.Error(ctx, action+" failed", err)
		return s.View(), err
	}
	if err := s.reloadLocked(ctx, cartID); err != nil {
		return s.View(), err
	}
	return s.View(), nil
}

// ensureCartLocked resolves profile and cart on first use. A nil identity is
// rejected before any lookup. An absent profile is logged and surfaced as
// not-found without creating anything.
func (s *Session) ensureCartLocked(ctx context.Context) (uuid.UUID, error) {
	if id := s.currentCartID(); id != uuid.Nil {
		return id, nil
	}
	if s.authID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no authenticated identity")
	}

	userID, err := s.resolver.Resolve(ctx, s.authID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			s.logg.Warn(ctx, "profile not found for identity, cart unavailable")
		}
		return uuid.Nil, err
	}

	resolved, err := s.svc.ResolveCart(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}

	s.stateMu.Lock()
	s.userID = userID
	s.cartID = resolved.ID
	s.stateMu.Unlock()
	return resolved.ID, nil
}

// reloadLocked refetches every line item and swaps in a freshly computed
// snapshot. Caller holds the mutation lock.
func (s *Session) reloadLocked(ctx context.Context, cartID uuid.UUID) error {
	s.setLoading(true)
	defer s.setLoading(false)

	items, err := s.svc.ListItems(ctx, cartID)
	if err != nil {
		s.logg.Error(ctx, "reload cart failed", err)
		return err
	}
	next := Snapshot{
		CartID:     cartID,
		Items:      items,
		TotalCount: TotalCount(items),
		TotalPrice: TotalPrice(items),
	}
	s.stateMu.Lock()
	s.view = next
	s.stateMu.Unlock()
	return nil
}

func (s *Session) setLoading(v bool) {
	s.stateMu.Lock()
	s.loading = v
	s.stateMu.Unlock()
}

func (s *Session) currentCartID() uuid.UUID {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.cartID
}

func (s *Session) currentUserID() uuid.UUID {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.userID
}
