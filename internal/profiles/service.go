package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/govindsingh74/amztwo/pkg/db/models"
	pkgerrors "github.com/govindsingh74/amztwo/pkg/errors"
)

type profileFinder interface {
	FindByAuthID(ctx context.Context, authID uuid.UUID) (*models.User, error)
}

// Resolver maps an authenticated identity to its internal profile id.
// The lookup is read-only; a missing profile is reported as not-found so
// callers can treat it as a transient state rather than a hard failure.
type Resolver interface {
	Resolve(ctx context.Context, authID uuid.UUID) (uuid.UUID, error)
}

type resolver struct {
	repo profileFinder
}

// NewResolver builds a profile resolver backed by the provided repository.
func NewResolver(repo profileFinder) (Resolver, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profiles repo is required")
	}
	return &resolver{repo: repo}, nil
}

// Resolve looks up the profile bound to authID. No lookup is attempted for a
// nil identity; that is the anonymous state and surfaces as unauthorized.
func (r *resolver) Resolve(ctx context.Context, authID uuid.UUID) (uuid.UUID, error) {
	if authID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no authenticated identity")
	}
	user, err := r.repo.FindByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return user.ID, nil
}
