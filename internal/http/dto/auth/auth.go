// Package auth contiene los DTOs de login, logout y alta de staff.
package auth

import "time"

// LoginRequest es el body de POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse lleva el access token emitido.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Role        string    `json:"role"`
	Tenant      string    `json:"tenant,omitempty"`
}

// StaffRequest es el body de POST /api/v1/staff.
type StaffRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// StaffResponse nunca incluye el hash.
type StaffResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Tenant   string `json:"tenant"`
}
