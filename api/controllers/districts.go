package controllers

import (
	"net/http"

	"github.com/lodgelink/lodgelink-backend/api/responses"
	"github.com/lodgelink/lodgelink-backend/api/validators"
	"github.com/lodgelink/lodgelink-backend/internal/membership"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/logger"
)

// DistrictMembers aggregates the rosters of a district lodge and all of its
// constituent lodges into one deduplicated list.
func DistrictMembers(svc membership.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership service unavailable"))
			return
		}

		districtID, err := validators.PathUUID(r, "districtID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		members, err := svc.DistrictMembers(r.Context(), districtID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"district_id": districtID,
			"members":     members,
			"count":       len(members),
		})
	}
}
