package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/govindsingh74/amztwo/pkg/db/models"
)

// CartRepository abstracts cart persistence so services can be exercised
// against stubs in tests.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, record *models.Cart) (*models.Cart, error)
	FindItemByVariant(ctx context.Context, cartID, variantID uuid.UUID) (*models.CartItem, error)
	InsertItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (int64, error)
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
}
