package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/govindsingh74/amztwo/api/middleware"
	"github.com/govindsingh74/amztwo/api/responses"
	"github.com/govindsingh74/amztwo/api/validators"
	cartsvc "github.com/govindsingh74/amztwo/internal/cart"
	"github.com/govindsingh74/amztwo/pkg/enums"
	pkgerrors "github.com/govindsingh74/amztwo/pkg/errors"
	"github.com/govindsingh74/amztwo/pkg/logger"
)

// AddItemRequest is the payload for adding a variant to the cart.
type AddItemRequest struct {
	VariantID    uuid.UUID       `json:"variant_id" validate:"required"`
	ASIN         string          `json:"asin" validate:"required"`
	Quantity     int             `json:"quantity" validate:"required,gt=0"`
	PriceAtTime  decimal.Decimal `json:"price_at_time" validate:"required"`
	ProductName  string          `json:"product_name" validate:"required"`
	ProductImage string          `json:"product_image,omitempty"`
	Weight       decimal.Decimal `json:"weight,omitempty"`
	WeightUnit   string          `json:"weight_unit,omitempty"`
}

// UpdateQuantityRequest overwrites a line item's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CartFetch rebuilds and returns the caller's cart snapshot.
func CartFetch(registry *cartsvc.SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := callerSession(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := sess.Refresh(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartAddItem merges a variant into the cart and returns the new snapshot.
func CartAddItem(registry *cartsvc.SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := callerSession(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := cartsvc.AddItemInput{
			VariantID:     payload.VariantID,
			ASIN:          payload.ASIN,
			Quantity:      payload.Quantity,
			PriceAtTime:   payload.PriceAtTime,
			ProductName:   payload.ProductName,
			ProductImage:  payload.ProductImage,
			VariantWeight: payload.Weight,
		}
		if payload.WeightUnit != "" {
			unit, err := enums.ParseWeightUnit(payload.WeightUnit)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid weight unit"))
				return
			}
			input.VariantWeightUnit = unit
		}

		snap, err := sess.AddItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartUpdateItem overwrites one line item's quantity.
func CartUpdateItem(registry *cartsvc.SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := callerSession(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := itemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := sess.UpdateQuantity(r.Context(), itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartRemoveItem deletes one line item.
func CartRemoveItem(registry *cartsvc.SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := callerSession(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := itemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := sess.RemoveItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartClear empties the caller's cart.
func CartClear(registry *cartsvc.SessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := callerSession(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := sess.Clear(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

func callerSession(r *http.Request, registry *cartsvc.SessionRegistry) (*cartsvc.Session, error) {
	if registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart sessions unavailable")
	}
	raw := middleware.AuthIDFromContext(r.Context())
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no authenticated identity")
	}
	authID, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid identity")
	}
	return registry.Session(authID)
}

func itemIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "itemId")
	itemID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return itemID, nil
}
