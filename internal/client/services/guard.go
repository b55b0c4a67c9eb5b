package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
	"github.com/dmitrijs2005/marketdesk/internal/client/storage"
)

// SessionGuard rehydrates the cached session and checks its primary role
// against an allow-list. It does not revalidate the token with the server.
type SessionGuard struct {
	store   *storage.Adapter
	allowed roles.Set
}

func NewSessionGuard(store *storage.Adapter, allowed roles.Set) *SessionGuard {
	return &SessionGuard{store: store, allowed: allowed}
}

// Check returns the cached session, or an error wrapping ErrLoginRequired
// when it is absent, unreadable or belongs to a role outside the allow-list.
func (g *SessionGuard) Check(ctx context.Context) (*models.AuthenticationResponse, error) {
	var auth models.AuthenticationResponse
	if !g.store.Retrieve(ctx, storage.KeyAuthResponse, &auth) {
		return nil, fmt.Errorf("%w: no cached session", ErrLoginRequired)
	}
	if auth.AccessToken == "" {
		return nil, fmt.Errorf("%w: cached session has no token", ErrLoginRequired)
	}

	role := auth.PrimaryRole()
	if !g.allowed.Contains(role) {
		return nil, fmt.Errorf("%w: role %s may not open this dashboard", ErrLoginRequired, role)
	}
	return &auth, nil
}
