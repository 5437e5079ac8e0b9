package adminclient

import (
	"context"
	"net/http"
)

const authPath = "/api/v1/auth"

// AuthService wraps the /auth endpoints. These are the only calls that run
// without a bearer token.
type AuthService struct {
	c *Client
}

// Login exchanges credentials for a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	body := map[string]string{"email": email, "password": password}
	var out TokenPair
	if err := s.c.do(ctx, http.MethodPost, authPath+"/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register self-registers a patient-side account. Staff accounts go through
// UsersService.Create instead.
func (s *AuthService) Register(ctx context.Context, params UserParams) (*User, error) {
	var out User
	if err := s.c.do(ctx, http.MethodPost, authPath+"/register", nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates a refresh token for a new pair. The old token is burned
// whether or not the call succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var out TokenPair
	if err := s.c.do(ctx, http.MethodPost, authPath+"/refresh-token", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refreshToken": refreshToken}
	return s.c.do(ctx, http.MethodPost, authPath+"/logout", nil, body, nil)
}

// ForgotPassword requests a reset token for the email. The server answers the
// same way whether or not the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.c.do(ctx, http.MethodPost, authPath+"/forgot-password", nil, map[string]string{"email": email}, nil)
}

// ResetPassword redeems a reset token for a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return s.c.do(ctx, http.MethodPost, authPath+"/reset-password", nil, body, nil)
}

// VerifyEmail redeems an email verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	return s.c.do(ctx, http.MethodPost, authPath+"/verify-email", nil, map[string]string{"token": token}, nil)
}
