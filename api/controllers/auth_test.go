package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/govindsingh74/amztwo/api/middleware"
	authsvc "github.com/govindsingh74/amztwo/internal/auth"
	cartsvc "github.com/govindsingh74/amztwo/internal/cart"
	"github.com/govindsingh74/amztwo/pkg/logger"
)

type stubAuthService struct {
	loggedOut []string
	logoutErr error
}

func (s *stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.UserDTO, error) {
	return nil, nil
}

func (s *stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.TokenPair, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	if s.logoutErr != nil {
		return s.logoutErr
	}
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

func TestAuthLogoutDropsCartSession(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	registry, err := cartsvc.NewSessionRegistry(&fakeResolver{userID: uuid.New()}, newFakeCartService(), logg)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	authID := uuid.New()
	before, err := registry.Session(authID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	ctx := middleware.WithAuthID(req.Context(), authID.String())
	ctx = middleware.WithAccessID(ctx, "access-1")
	resp := httptest.NewRecorder()
	AuthLogout(svc, registry, logg).ServeHTTP(resp, req.WithContext(ctx))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "access-1" {
		t.Fatalf("expected session revoked for access-1, got %v", svc.loggedOut)
	}

	after, err := registry.Session(authID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after == before {
		t.Fatal("expected cart session discarded on logout")
	}
}

func TestAuthLogoutWithoutAccessIDIs401(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	resp := httptest.NewRecorder()
	AuthLogout(&stubAuthService{}, nil, logg).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
