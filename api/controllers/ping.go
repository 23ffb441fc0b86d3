package controllers

import (
	"net/http"

	"github.com/lodgelink/lodgelink-backend/api/middleware"
	"github.com/lodgelink/lodgelink-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if id := middleware.IdentityIDFromContext(r.Context()); id != "" {
			payload["identity_id"] = id
		}
		if role := middleware.RoleFromContext(r.Context()); role != "" {
			payload["role"] = role
		}
		responses.WriteSuccess(w, payload)
	}
}
