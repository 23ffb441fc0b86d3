package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lodgelink/lodgelink-backend/internal/membership"
	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/pagination"
)

type stubMembershipService struct {
	members    []membership.MemberDTO
	membersErr error
	seenRef    string

	positions    []membership.PositionDTO
	positionsErr error

	district    []membership.MemberDTO
	districtErr error

	transferErr error
	transferred *membership.TransferRequest
}

func (s *stubMembershipService) MembersOfLodge(ctx context.Context, rawRef string) ([]membership.MemberDTO, error) {
	s.seenRef = rawRef
	return s.members, s.membersErr
}

func (s *stubMembershipService) OccupiedPositions(ctx context.Context, rawRef string) ([]membership.PositionDTO, error) {
	s.seenRef = rawRef
	return s.positions, s.positionsErr
}

func (s *stubMembershipService) DistrictMembers(ctx context.Context, districtID uuid.UUID) ([]membership.MemberDTO, error) {
	return s.district, s.districtErr
}

func (s *stubMembershipService) TransferDistrictAdmin(ctx context.Context, rawRef string, req membership.TransferRequest) error {
	s.seenRef = rawRef
	s.transferred = &req
	return s.transferErr
}

func withPathParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestLodgeMembersSuccess(t *testing.T) {
	svc := &stubMembershipService{members: []membership.MemberDTO{
		{IdentityID: uuid.New(), Email: "one@example.com", Role: enums.RoleLodgeMember, IsPrimary: true},
		{IdentityID: uuid.New(), Email: "two@example.com", Role: enums.RoleLodgeAdmin},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lodges/lodge-42/members", nil)
	req = withPathParam(req, "lodgeRef", "lodge-42")
	resp := httptest.NewRecorder()

	LodgeMembers(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.seenRef != "lodge-42" {
		t.Fatalf("expected raw ref passed through got %q", svc.seenRef)
	}

	var envelope struct {
		Data struct {
			LodgeRef string                 `json:"lodge_ref"`
			Members  []membership.MemberDTO `json:"members"`
			Count    int                    `json:"count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Count != 2 || len(envelope.Data.Members) != 2 {
		t.Fatalf("expected 2 members got %+v", envelope.Data)
	}
}

func TestLodgeMembersMissingRef(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lodges//members", nil)
	req = withPathParam(req, "lodgeRef", "")
	resp := httptest.NewRecorder()

	LodgeMembers(&stubMembershipService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLodgePositionsSuccess(t *testing.T) {
	svc := &stubMembershipService{positions: []membership.PositionDTO{
		{Position: enums.PositionTreasurer, IdentityID: uuid.New(), DisplayName: "Pat Doe"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lodges/lodge-42/positions", nil)
	req = withPathParam(req, "lodgeRef", "lodge-42")
	resp := httptest.NewRecorder()

	LodgePositions(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestLodgeTransferAdminSuccess(t *testing.T) {
	svc := &stubMembershipService{}

	body := []byte(`{"from_email":"holder@example.com","to_email":"candidate@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lodges/district-9/transfer-admin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withPathParam(req, "lodgeRef", "district-9")
	resp := httptest.NewRecorder()

	LodgeTransferAdmin(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.transferred == nil || svc.transferred.ToEmail != "candidate@example.com" {
		t.Fatalf("expected transfer request forwarded got %+v", svc.transferred)
	}
}

func TestLodgeTransferAdminPreconditionSurfaces(t *testing.T) {
	svc := &stubMembershipService{transferErr: pkgerrors.New(pkgerrors.CodePrecondition, "candidate is not a member of the district lodge")}

	body := []byte(`{"from_email":"holder@example.com","to_email":"outsider@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lodges/district-9/transfer-admin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withPathParam(req, "lodgeRef", "district-9")
	resp := httptest.NewRecorder()

	LodgeTransferAdmin(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "candidate is not a member of the district lodge" {
		t.Fatalf("expected precondition message got %q", envelope.Error.Message)
	}
}

func TestDistrictMembersValidatesUUID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/districts/not-a-uuid/members", nil)
	req = withPathParam(req, "districtID", "not-a-uuid")
	resp := httptest.NewRecorder()

	DistrictMembers(&stubMembershipService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

type stubLodgeDirectory struct {
	rows []models.Lodge
	next string
	err  error
	seen pagination.Params
}

func (s *stubLodgeDirectory) ListPage(ctx context.Context, params pagination.Params) ([]models.Lodge, string, error) {
	s.seen = params
	return s.rows, s.next, s.err
}

func TestLodgeDirectoryPagesThrough(t *testing.T) {
	store := &stubLodgeDirectory{
		rows: []models.Lodge{
			{ID: uuid.New(), Name: "Harmony Lodge", Number: 12},
			{ID: uuid.New(), Name: "Unity Lodge", Number: 17},
		},
		next: "cursor-2",
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lodges?limit=2&cursor=cursor-1", nil)
	resp := httptest.NewRecorder()

	LodgeDirectory(store, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if store.seen.Limit != 2 || store.seen.Cursor != "cursor-1" {
		t.Fatalf("expected params forwarded got %+v", store.seen)
	}

	var envelope struct {
		Data struct {
			Lodges     []json.RawMessage `json:"lodges"`
			NextCursor string            `json:"next_cursor"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Lodges) != 2 || envelope.Data.NextCursor != "cursor-2" {
		t.Fatalf("expected 2 lodges and next cursor got %+v", envelope.Data)
	}
}

func TestLodgeDirectoryRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lodges?limit=abc", nil)
	resp := httptest.NewRecorder()

	LodgeDirectory(&stubLodgeDirectory{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDistrictMembersSuccess(t *testing.T) {
	districtID := uuid.New()
	svc := &stubMembershipService{district: []membership.MemberDTO{
		{IdentityID: uuid.New(), Email: "one@example.com"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/districts/"+districtID.String()+"/members", nil)
	req = withPathParam(req, "districtID", districtID.String())
	resp := httptest.NewRecorder()

	DistrictMembers(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
