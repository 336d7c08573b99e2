// Package auth contiene los controllers de login, logout y administración de staff.
package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/comanda/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/comanda/internal/http/errors"
	"github.com/dropDatabas3/comanda/internal/http/helpers"
	svc "github.com/dropDatabas3/comanda/internal/http/services/auth"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
)

// AuthController maneja /api/v1/auth y /api/v1/staff.
type AuthController struct {
	auth  svc.AuthService
	staff svc.StaffService
}

// NewAuthController crea el controller.
func NewAuthController(auth svc.AuthService, staff svc.StaffService) *AuthController {
	return &AuthController{auth: auth, staff: staff}
}

// Login maneja POST /api/v1/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	resp, err := c.auth.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, svc.ErrInvalidCredentials) {
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Login successful", resp)
}

// Logout maneja POST /api/v1/auth/logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := helpers.Principal(w, r)
	if !ok {
		return
	}
	if err := c.auth.Logout(r.Context(), p); err != nil {
		logger.From(r.Context()).Error("logout failed", logger.Layer("controller"), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Logged out", nil)
}

// CreateStaff maneja POST /api/v1/staff. El usuario nuevo queda en el tenant
// del admin que lo crea.
func (c *AuthController) CreateStaff(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	var req dto.StaffRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	out, err := c.staff.Create(r.Context(), tenant, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, "Staff created", out)
}

// ListStaff maneja GET /api/v1/staff
func (c *AuthController) ListStaff(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	out, err := c.staff.List(r.Context(), tenant)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Staff fetched", out)
}

// GetStaff maneja GET /api/v1/staff/{username}
func (c *AuthController) GetStaff(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	username, err := helpers.PathString(r, "username")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.staff.Get(r.Context(), tenant, username)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Staff fetched", out)
}

// DeleteStaff maneja DELETE /api/v1/staff/{username}
func (c *AuthController) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	username, err := helpers.PathString(r, "username")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	deleted, err := c.staff.Delete(r.Context(), tenant, username)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if !deleted {
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("staff user not found"))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Staff deleted", nil)
}
