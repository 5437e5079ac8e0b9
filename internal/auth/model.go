package auth

import (
	"github.com/upcharify/admin-api/internal/validate"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req LoginRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("email", req.Email)
	c.Email("email", req.Email)
	c.Require("password", req.Password)
	return c.Errors()
}

// TokenPair is the login/refresh response payload.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// RefreshRequest is the body of POST /auth/refresh-token and /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (req RefreshRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("refreshToken", req.RefreshToken)
	return c.Errors()
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (req ForgotPasswordRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("email", req.Email)
	c.Email("email", req.Email)
	return c.Errors()
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (req ResetPasswordRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("token", req.Token)
	c.Require("password", req.Password)
	if req.Password != "" && len(req.Password) < 8 {
		c.Add("password", "password must be at least 8 characters")
	}
	return c.Errors()
}

// VerifyEmailRequest is the body of POST /auth/verify-email.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

func (req VerifyEmailRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("token", req.Token)
	return c.Errors()
}
