package controllers

import (
	"net/http"

	"github.com/lodgelink/lodgelink-backend/api/responses"
	"github.com/lodgelink/lodgelink-backend/api/validators"
	"github.com/lodgelink/lodgelink-backend/internal/identity"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/logger"
)

// AdminProvisionIdentity creates an identity with an explicit role. Routed
// behind the super-admin gate.
func AdminProvisionIdentity(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var body identity.ProvisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Provision(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminRemoveIdentity deletes an identity. Admin-role holders are refused at
// the repository layer until the role has been transferred away.
func AdminRemoveIdentity(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		id, err := validators.PathUUID(r, "identityID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
