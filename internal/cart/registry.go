package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/govindsingh74/amztwo/internal/profiles"
	pkgerrors "github.com/govindsingh74/amztwo/pkg/errors"
	"github.com/govindsingh74/amztwo/pkg/logger"
)

// SessionRegistry hands out one Session per authenticated identity so all of
// a user's requests share the same serialized mutation path and snapshot.
type SessionRegistry struct {
	resolver profiles.Resolver
	svc      Service
	logg     *logger.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewSessionRegistry validates dependencies and builds an empty registry.
func NewSessionRegistry(resolver profiles.Resolver, svc Service, logg *logger.Logger) (*SessionRegistry, error) {
	if resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile resolver is required")
	}
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &SessionRegistry{
		resolver: resolver,
		svc:      svc,
		logg:     logg,
		sessions: make(map[uuid.UUID]*Session),
	}, nil
}

// Session returns the identity's session, creating it on first use.
func (r *SessionRegistry) Session(authID uuid.UUID) (*Session, error) {
	if authID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no authenticated identity")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[authID]; ok {
		return existing, nil
	}
	sess, err := NewSession(authID, r.resolver, r.svc, r.logg)
	if err != nil {
		return nil, err
	}
	r.sessions[authID] = sess
	return sess, nil
}

// Drop discards the identity's session, typically on logout.
func (r *SessionRegistry) Drop(authID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, authID)
}
