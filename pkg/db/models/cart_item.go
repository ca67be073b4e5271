package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/govindsingh74/amztwo/pkg/enums"
)

// CartItem is one product variant entry in a cart. Variant id is unique per
// cart; a repeat add merges into the existing row. PriceAtTime and display
// metadata are captured on first add and never re-priced by later increments.
type CartItem struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CartID            uuid.UUID        `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_variant,priority:1"`
	VariantID         uuid.UUID        `gorm:"column:variant_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_variant,priority:2"`
	ASIN              string           `gorm:"column:asin;type:text;not null"`
	Quantity          int              `gorm:"column:quantity;not null"`
	PriceAtTime       decimal.Decimal  `gorm:"column:price_at_time;type:numeric(12,2);not null"`
	ProductName       string           `gorm:"column:product_name;type:text;not null"`
	ProductImage      string           `gorm:"column:product_image;type:text"`
	VariantWeight     decimal.Decimal  `gorm:"column:variant_weight;type:numeric(10,3)"`
	VariantWeightUnit enums.WeightUnit `gorm:"column:variant_weight_unit;type:text"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
