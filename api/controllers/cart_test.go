package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/govindsingh74/amztwo/api/middleware"
	cartsvc "github.com/govindsingh74/amztwo/internal/cart"
	"github.com/govindsingh74/amztwo/pkg/db/models"
	pkgerrors "github.com/govindsingh74/amztwo/pkg/errors"
	"github.com/govindsingh74/amztwo/pkg/logger"
	"github.com/govindsingh74/amztwo/pkg/types"
)

type fakeResolver struct {
	userID uuid.UUID
}

func (f *fakeResolver) Resolve(ctx context.Context, authID uuid.UUID) (uuid.UUID, error) {
	return f.userID, nil
}

// fakeCartService keeps a single in-memory cart.
type fakeCartService struct {
	cartID uuid.UUID
	items  map[uuid.UUID]*models.CartItem
}

func newFakeCartService() *fakeCartService {
	return &fakeCartService{
		cartID: uuid.New(),
		items:  make(map[uuid.UUID]*models.CartItem),
	}
}

func (f *fakeCartService) ResolveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return &models.Cart{ID: f.cartID, UserID: userID}, nil
}

func (f *fakeCartService) AddItem(ctx context.Context, cartID uuid.UUID, input cartsvc.AddItemInput) (*models.CartItem, error) {
	for _, item := range f.items {
		if item.VariantID == input.VariantID {
			item.Quantity += input.Quantity
			return item, nil
		}
	}
	item := &models.CartItem{
		ID:          uuid.New(),
		CartID:      cartID,
		VariantID:   input.VariantID,
		ASIN:        input.ASIN,
		Quantity:    input.Quantity,
		PriceAtTime: input.PriceAtTime,
		ProductName: input.ProductName,
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeCartService) UpdateQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	item, ok := f.items[itemID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	item.Quantity = quantity
	return nil
}

func (f *fakeCartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeCartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	f.items = make(map[uuid.UUID]*models.CartItem)
	return nil
}

func (f *fakeCartService) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	rows := make([]models.CartItem, 0, len(f.items))
	for _, item := range f.items {
		rows = append(rows, *item)
	}
	return rows, nil
}

func newCartTestRouter(t *testing.T, authID uuid.UUID) (http.Handler, *fakeCartService) {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc := newFakeCartService()
	registry, err := cartsvc.NewSessionRegistry(&fakeResolver{userID: uuid.New()}, svc, logg)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithAuthID(req.Context(), authID.String())
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/cart", CartFetch(registry, logg))
	r.Delete("/cart", CartClear(registry, logg))
	r.Post("/cart/items", CartAddItem(registry, logg))
	r.Patch("/cart/items/{itemId}", CartUpdateItem(registry, logg))
	r.Delete("/cart/items/{itemId}", CartRemoveItem(registry, logg))
	return r, svc
}

func decodeSnapshot(t *testing.T, resp *httptest.ResponseRecorder) cartsvc.Snapshot {
	t.Helper()

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("failed to re-marshal data: %v", err)
	}
	var snap cartsvc.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	return snap
}

func TestCartAddItemReturnsSnapshot(t *testing.T) {
	router, _ := newCartTestRouter(t, uuid.New())

	body := `{"variant_id":"` + uuid.NewString() + `","asin":"B0TESTASIN","quantity":2,"price_at_time":"9.99","product_name":"Travel Mug"}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	snap := decodeSnapshot(t, resp)
	if snap.TotalCount != 2 {
		t.Fatalf("expected count 2, got %d", snap.TotalCount)
	}
	if want := decimal.RequireFromString("19.98"); !snap.TotalPrice.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, snap.TotalPrice)
	}
}

func TestCartAddItemRepeatedVariantMerges(t *testing.T) {
	router, _ := newCartTestRouter(t, uuid.New())
	variantID := uuid.NewString()

	for _, qty := range []string{"2", "3"} {
		body := `{"variant_id":"` + variantID + `","asin":"B0TESTASIN","quantity":` + qty + `,"price_at_time":"9.99","product_name":"Travel Mug"}`
		req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
		}
		if qty == "3" {
			snap := decodeSnapshot(t, resp)
			if len(snap.Items) != 1 {
				t.Fatalf("expected one merged line, got %d", len(snap.Items))
			}
			if snap.TotalCount != 5 {
				t.Fatalf("expected count 5, got %d", snap.TotalCount)
			}
		}
	}
}

func TestCartAddItemRejectsInvalidBody(t *testing.T) {
	router, _ := newCartTestRouter(t, uuid.New())

	body := `{"variant_id":"` + uuid.NewString() + `","asin":"B0TESTASIN","quantity":0,"price_at_time":"9.99","product_name":"Travel Mug"}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCartUpdateMissingItemIs404(t *testing.T) {
	router, _ := newCartTestRouter(t, uuid.New())

	// seed the session's cart first
	seed := `{"variant_id":"` + uuid.NewString() + `","asin":"B0TESTASIN","quantity":1,"price_at_time":"1.00","product_name":"Seed"}`
	seedReq := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(seed))
	router.ServeHTTP(httptest.NewRecorder(), seedReq)

	req := httptest.NewRequest(http.MethodPatch, "/cart/items/"+uuid.NewString(), strings.NewReader(`{"quantity":3}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCartClearReturnsEmptySnapshot(t *testing.T) {
	router, _ := newCartTestRouter(t, uuid.New())

	seed := `{"variant_id":"` + uuid.NewString() + `","asin":"B0TESTASIN","quantity":4,"price_at_time":"2.50","product_name":"Seed"}`
	seedReq := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(seed))
	router.ServeHTTP(httptest.NewRecorder(), seedReq)

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	snap := decodeSnapshot(t, resp)
	if snap.TotalCount != 0 || len(snap.Items) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestCartFetchReportsLoadingFlag(t *testing.T) {
	router, _ := newCartTestRouter(t, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object payload, got %T", envelope.Data)
	}
	loading, ok := data["loading"]
	if !ok {
		t.Fatal("expected loading field in cart payload")
	}
	if loading != false {
		t.Fatalf("expected loading false after fetch, got %v", loading)
	}
}

func TestCartFetchWithoutIdentityIs401(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	registry, err := cartsvc.NewSessionRegistry(&fakeResolver{userID: uuid.New()}, newFakeCartService(), logg)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	resp := httptest.NewRecorder()
	CartFetch(registry, logg).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
