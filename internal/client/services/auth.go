package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/storage"
	"github.com/dmitrijs2005/marketdesk/internal/logging"
)

// DashboardKinds lists every dashboard whose preferences are dropped on
// logout.
var DashboardKinds = []string{KindCustomer, KindVendor, KindAdmin}

// AuthService logs in and out and exposes the cached session.
type AuthService struct {
	api   API
	store *storage.Adapter
	log   logging.Logger
}

func NewAuthService(api API, store *storage.Adapter, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.Nop{}
	}
	return &AuthService{api: api, store: store, log: log}
}

// Login authenticates and persists the session snapshot.
func (s *AuthService) Login(ctx context.Context, email string, password []byte) (*models.AuthenticationResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	}
	if len(password) == 0 {
		return nil, &ValidationError{Field: "password", Reason: "is required"}
	}

	auth, err := s.api.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if auth.AccessToken == "" {
		return nil, errors.New("login: server returned no access token")
	}
	if url, ok := auth.User.BioData.ResolveProfilePicture(); ok {
		auth.User.BioData.ProfilePicture = url
	}

	if err := s.store.Save(ctx, storage.KeyAuthResponse, auth); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.log.Info(ctx, "logged in", "user_id", auth.User.ID, "role", auth.PrimaryRole().String())
	return auth, nil
}

// Current returns the cached session, or false when there is none.
func (s *AuthService) Current(ctx context.Context) (*models.AuthenticationResponse, bool) {
	var auth models.AuthenticationResponse
	if !s.store.Retrieve(ctx, storage.KeyAuthResponse, &auth) {
		return nil, false
	}
	return &auth, true
}

// Logout drops the session and every dashboard preference.
func (s *AuthService) Logout(ctx context.Context) error {
	keys := []string{storage.KeyAuthResponse}
	for _, kind := range DashboardKinds {
		keys = append(keys, storage.ActiveTabKey(kind), storage.SidebarOpenKey(kind))
	}
	if err := s.store.RemoveAll(ctx, keys...); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

// Invalidate forgets a session the server has rejected. Dashboard
// preferences survive so the next login lands where the user left off.
func (s *AuthService) Invalidate(ctx context.Context) {
	invalidateSession(ctx, s.store, s.log)
	s.log.Info(ctx, "session invalidated")
}

// Ping checks API reachability.
func (s *AuthService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}

// invalidateSession is used when the server rejects the token.
func invalidateSession(ctx context.Context, store *storage.Adapter, log logging.Logger) {
	if err := store.Remove(ctx, storage.KeyAuthResponse); err != nil {
		log.Warn(ctx, "failed to drop rejected session", "error", err)
	}
}
