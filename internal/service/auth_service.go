package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/auth"
	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/internal/storage"
	"github.com/mmynk/petpals/internal/tenant"
	"github.com/mmynk/petpals/pkg/api"
)

// AccountStore is the part of the store the auth service reads: the
// caller's own user row and memberships.
type AccountStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetMembership(ctx context.Context, orgID, userID string) (*models.Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]*models.Membership, error)
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	accounts      AccountStore
	logger        *slog.Logger
}

var _ api.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, accounts AccountStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		accounts:      accounts,
		logger:        logger,
	}
}

// Register creates a new user account. The returned token has no active
// organization.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request received", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrInvalidEmail),
			errors.Is(err, auth.ErrMissingName):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, apperr.Internal(err)
	}

	token, err := s.jwtManager.Generate(user, "")
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, apperr.Internal(err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{
		User:  userToAPI(user),
		Token: token,
	}), nil
}

// Login authenticates a user. When the user belongs to exactly one
// organization it becomes the active one.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request received", "email", req.Msg.Email)

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		return nil, apperr.Internal(err)
	}

	memberships, err := s.accounts.ListMembershipsByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to list memberships", "user_id", user.ID, "error", err)
		return nil, apperr.Internal(err)
	}

	activeOrg := ""
	if len(memberships) == 1 {
		activeOrg = memberships[0].OrgID
	}

	token, err := s.jwtManager.Generate(user, activeOrg)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, apperr.Internal(err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "org_id", activeOrg)
	return connect.NewResponse(&api.LoginResponse{
		User:        userToAPI(user),
		Token:       token,
		ActiveOrgID: activeOrg,
		Memberships: membershipsToAPI(memberships),
	}), nil
}

// ListMemberships lists the caller's organizations.
func (s *AuthService) ListMemberships(ctx context.Context, req *connect.Request[api.ListMembershipsRequest]) (*connect.Response[api.ListMembershipsResponse], error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok || tc.UserID == "" {
		return nil, apperr.ToConnect(apperr.ErrUnauthorized)
	}
	s.logger.Info("ListMemberships request received", "user_id", tc.UserID)

	memberships, err := s.accounts.ListMembershipsByUser(ctx, tc.UserID)
	if err != nil {
		s.logger.Error("ListMemberships failed", "user_id", tc.UserID, "error", err)
		return nil, apperr.Internal(err)
	}

	return connect.NewResponse(&api.ListMembershipsResponse{
		Memberships: membershipsToAPI(memberships),
		ActiveOrgID: tc.TenantID,
	}), nil
}

// SwitchOrganization issues a token whose active organization is
// req.OrgID, after checking the caller belongs to it.
func (s *AuthService) SwitchOrganization(ctx context.Context, req *connect.Request[api.SwitchOrganizationRequest]) (*connect.Response[api.SwitchOrganizationResponse], error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok || tc.UserID == "" {
		return nil, apperr.ToConnect(apperr.ErrUnauthorized)
	}
	s.logger.Info("SwitchOrganization request received", "user_id", tc.UserID, "org_id", req.Msg.OrgID)

	if req.Msg.OrgID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("org_id is required"))
	}

	membership, err := s.accounts.GetMembership(ctx, req.Msg.OrgID, tc.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("SwitchOrganization denied", "user_id", tc.UserID, "org_id", req.Msg.OrgID)
		return nil, apperr.ToConnect(apperr.ErrNotMember)
	}
	if err != nil {
		s.logger.Error("SwitchOrganization failed", "user_id", tc.UserID, "error", err)
		return nil, apperr.Internal(err)
	}

	user, err := s.accounts.GetUserByID(ctx, tc.UserID)
	if err != nil {
		s.logger.Error("SwitchOrganization failed", "user_id", tc.UserID, "error", err)
		return nil, apperr.ToConnect(apperr.ErrUnauthorized)
	}

	token, err := s.jwtManager.Generate(user, membership.OrgID)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, apperr.Internal(err)
	}

	s.logger.Info("Active organization switched", "user_id", user.ID, "org_id", membership.OrgID)
	return connect.NewResponse(&api.SwitchOrganizationResponse{
		Token:      token,
		Membership: membershipToAPI(membership),
	}), nil
}
