package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerbook/internal/auth"
	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/middleware"
	"github.com/mmynk/ledgerbook/pkg/api"
	"github.com/mmynk/ledgerbook/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Register creates a new user account and starts a session.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	slog.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		return nil, fail("Register", err, "email", req.Msg.Email)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fail("Register", err, "user_id", user.ID)
	}

	slog.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{User: toAPIUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	slog.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, fail("Login", auth.ErrInvalidCredentials, "email", req.Msg.Email)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		return nil, fail("Login", err, "email", req.Msg.Email)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fail("Login", err, "user_id", user.ID)
	}

	slog.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{User: toAPIUser(user), Token: token}), nil
}

// Logout revokes the token the request was made with.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	claims := middleware.ClaimsFrom(ctx)
	if claims == nil {
		return nil, fail("Logout", auth.ErrMissingToken)
	}
	s.jwtManager.Revoke(claims)

	slog.Info("User logged out", "user_id", claims.UserID)
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	caller := middleware.CallerFrom(ctx)
	if !caller.Authenticated() {
		return nil, fail("GetCurrentUser", errs.ErrUnauthenticated)
	}

	user, err := s.authenticator.User(ctx, caller.UserID)
	if err != nil {
		return nil, fail("GetCurrentUser", err, "user_id", caller.UserID)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
