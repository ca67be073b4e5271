package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/govindsingh74/amztwo/pkg/db"
	"github.com/govindsingh74/amztwo/pkg/db/models"
	"github.com/govindsingh74/amztwo/pkg/enums"
	pkgerrors "github.com/govindsingh74/amztwo/pkg/errors"
	"github.com/govindsingh74/amztwo/pkg/logger"
)

const cartUserUniqueConstraint = "idx_carts_user_id"

// AddItemInput carries everything needed to add a variant to a cart. Price
// and display metadata are snapshotted from the caller at add time.
type AddItemInput struct {
	VariantID         uuid.UUID
	ASIN              string
	Quantity          int
	PriceAtTime       decimal.Decimal
	ProductName       string
	ProductImage      string
	VariantWeight     decimal.Decimal
	VariantWeightUnit enums.WeightUnit
}

// Service owns cart resolution and line-item mutation. Every method is
// stateless; callers that need a materialized view reload after mutating.
type Service interface {
	ResolveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams lists the collaborators a cart service needs.
type ServiceParams struct {
	Repo   CartRepository
	Tx     txRunner
	Logger *logger.Logger
}

type service struct {
	repo CartRepository
	tx   txRunner
	logg *logger.Logger
}

// NewService validates dependencies and builds the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.Repo, tx: params.Tx, logg: params.Logger}, nil
}

// ResolveCart returns the user's cart, creating it on first use. The lookup
// and create run in one transaction; a concurrent create losing the race on
// the user_id unique index falls back to re-reading the winner's row.
func (s *service) ResolveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var resolved *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, findErr := repo.FindByUserID(ctx, userID)
		if findErr == nil {
			resolved = existing
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}
		created, createErr := repo.Create(ctx, &models.Cart{UserID: userID})
		if createErr != nil {
			return createErr
		}
		resolved = created
		return nil
	})
	if err == nil {
		return resolved, nil
	}

	if db.IsUniqueViolation(err, cartUserUniqueConstraint) {
		winner, findErr := s.repo.FindByUserID(ctx, userID)
		if findErr == nil {
			return winner, nil
		}
		err = findErr
	}
	s.logg.Error(ctx, "resolve cart failed", err)
	return nil, pkgerrors.Wrap(pkgerrors.CodeCartUnavailable, err, "cart unavailable")
}

// AddItem merges a variant into the cart. A first add inserts a full row; a
// repeat add only increments quantity, leaving the captured price untouched.
// Exactly one write is issued either way.
func (s *service) AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*models.CartItem, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	if input.VariantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if strings.TrimSpace(input.ASIN) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asin is required")
	}
	if input.PriceAtTime.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	existing, err := s.repo.FindItemByVariant(ctx, cartID, input.VariantID)
	switch {
	case err == nil:
		merged := existing.Quantity + input.Quantity
		affected, updErr := s.repo.UpdateItemQuantity(ctx, cartID, existing.ID, merged)
		if updErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, updErr, "merge cart item")
		}
		if affected == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		existing.Quantity = merged
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			CartID:            cartID,
			VariantID:         input.VariantID,
			ASIN:              input.ASIN,
			Quantity:          input.Quantity,
			PriceAtTime:       input.PriceAtTime,
			ProductName:       input.ProductName,
			ProductImage:      input.ProductImage,
			VariantWeight:     input.VariantWeight,
			VariantWeightUnit: input.VariantWeightUnit,
		}
		if insErr := s.repo.InsertItem(ctx, item); insErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, insErr, "insert cart item")
		}
		return item, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
}

// UpdateQuantity overwrites a line item's quantity. Zero and negative values
// are rejected; removal goes through RemoveItem.
func (s *service) UpdateQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	if cartID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id and item id are required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	affected, err := s.repo.UpdateItemQuantity(ctx, cartID, itemID, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item quantity")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

// RemoveItem deletes a line item. Removing an id that was already removed
// succeeds; only the cart owner's rows are ever in scope.
func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	if cartID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id and item id are required")
	}
	if err := s.repo.DeleteItem(ctx, cartID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return nil
}

// ClearCart resolves the user's cart and deletes its line items. The delete
// predicate is cart-scoped so clearing never touches another user's rows.
func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	resolved, err := s.ResolveCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItemsByCart(ctx, resolved.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// ListItems returns the cart's line items for view assembly.
func (s *service) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	items, err := s.repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	return items, nil
}
