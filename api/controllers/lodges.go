package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/lodgelink/lodgelink-backend/api/responses"
	"github.com/lodgelink/lodgelink-backend/api/validators"
	"github.com/lodgelink/lodgelink-backend/internal/lodge"
	"github.com/lodgelink/lodgelink-backend/internal/membership"
	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/logger"
	"github.com/lodgelink/lodgelink-backend/pkg/pagination"
)

// LodgeDirectoryStore is the read surface LodgeDirectory needs.
type LodgeDirectoryStore interface {
	ListPage(ctx context.Context, params pagination.Params) ([]models.Lodge, string, error)
}

// LodgeDirectory pages through the lodge registry.
func LodgeDirectory(store LodgeDirectoryStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lodge store unavailable"))
			return
		}

		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be an integer"))
				return
			}
			params.Limit = limit
		}

		rows, next, err := store.ListPage(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lodges := make([]*lodge.LodgeDTO, 0, len(rows))
		for i := range rows {
			lodges = append(lodges, lodge.FromModel(&rows[i]))
		}

		responses.WriteSuccess(w, map[string]any{
			"lodges":      lodges,
			"next_cursor": next,
		})
	}
}

// LodgeMembers resolves the roster for a lodge reference. The reference can
// arrive in any of its historical spellings; matching is canonical-form.
func LodgeMembers(svc membership.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership service unavailable"))
			return
		}

		ref, err := validators.PathLodgeRef(r, "lodgeRef")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		members, err := svc.MembersOfLodge(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"lodge_ref": ref,
			"members":   members,
			"count":     len(members),
		})
	}
}

// LodgePositions lists the officer chairs currently filled in a lodge.
func LodgePositions(svc membership.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership service unavailable"))
			return
		}

		ref, err := validators.PathLodgeRef(r, "lodgeRef")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		positions, err := svc.OccupiedPositions(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"lodge_ref": ref,
			"positions": positions,
		})
	}
}

// LodgeTransferAdmin hands the district-admin role from its current holder to
// another member of the same district lodge.
func LodgeTransferAdmin(svc membership.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership service unavailable"))
			return
		}

		ref, err := validators.PathLodgeRef(r, "lodgeRef")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body membership.TransferRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.TransferDistrictAdmin(r.Context(), ref, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "transferred"})
	}
}
