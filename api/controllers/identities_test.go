package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/lodgelink/lodgelink-backend/api/middleware"
	"github.com/lodgelink/lodgelink-backend/internal/identity"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
)

type stubIdentityService struct {
	me    *identity.IdentityDTO
	meErr error

	updated   *identity.IdentityDTO
	updateErr error

	changeErr error

	provisioned  *identity.IdentityDTO
	provisionErr error

	removeErr error
	removedID uuid.UUID
}

func (s *stubIdentityService) Me(ctx context.Context, id uuid.UUID) (*identity.IdentityDTO, error) {
	return s.me, s.meErr
}

func (s *stubIdentityService) UpdateProfile(ctx context.Context, id uuid.UUID, req identity.UpdateProfileDTO) (*identity.IdentityDTO, error) {
	return s.updated, s.updateErr
}

func (s *stubIdentityService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	return s.changeErr
}

func (s *stubIdentityService) Provision(ctx context.Context, req identity.ProvisionRequest) (*identity.IdentityDTO, error) {
	return s.provisioned, s.provisionErr
}

func (s *stubIdentityService) Remove(ctx context.Context, id uuid.UUID) error {
	s.removedID = id
	return s.removeErr
}

func authedRequest(method, target string, body []byte, identityID uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithIdentityID(req.Context(), identityID.String()))
}

func TestIdentityMeSuccess(t *testing.T) {
	id := uuid.New()
	svc := &stubIdentityService{me: &identity.IdentityDTO{
		ID:    id,
		Email: "member@example.com",
		Role:  enums.RoleLodgeMember,
	}}

	resp := httptest.NewRecorder()
	IdentityMe(svc, nil).ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/identities/me", nil, id))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data *identity.IdentityDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data == nil || envelope.Data.Email != "member@example.com" {
		t.Fatalf("expected identity payload got %+v", envelope.Data)
	}
}

func TestIdentityMeWithoutContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/identities/me", nil)
	resp := httptest.NewRecorder()

	IdentityMe(&stubIdentityService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestIdentityUpdateProfileRejectsUnknownFields(t *testing.T) {
	id := uuid.New()
	req := authedRequest(http.MethodPatch, "/api/v1/identities/me", []byte(`{"full_name":"New Name","role":"SUPER_ADMIN"}`), id)
	resp := httptest.NewRecorder()

	IdentityUpdateProfile(&stubIdentityService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field got %d", resp.Code)
	}
}

func TestIdentityChangePasswordWrongCurrent(t *testing.T) {
	id := uuid.New()
	svc := &stubIdentityService{changeErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")}

	req := authedRequest(http.MethodPost, "/api/v1/identities/me/password", []byte(`{"current_password":"wrong","new_password":"NewSecret#1"}`), id)
	resp := httptest.NewRecorder()

	IdentityChangePassword(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestIdentityChangePasswordValidatesLength(t *testing.T) {
	id := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/identities/me/password", []byte(`{"current_password":"old","new_password":"short"}`), id)
	resp := httptest.NewRecorder()

	IdentityChangePassword(&stubIdentityService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password got %d", resp.Code)
	}
}
