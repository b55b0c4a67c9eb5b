package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/marketdesk/internal/client/client"
	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
)

func mountedEditor(t *testing.T, role roles.Role, api *fakeAPI) (*ProfileEditor, *models.AuthenticationResponse) {
	t.Helper()
	store := newStore(t)
	sess := sessionFor(role)
	cacheSession(t, store, sess)
	return NewProfileEditor(api, store, nil, sess), sess
}

func TestProfileEditor_CommitsOnlyAfterSuccess(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	sess := sessionFor(roles.Customer)
	cacheSession(t, store, sess)

	api := &fakeAPI{UpdateProfileRet: &models.BioData{
		ID: "b-1", FirstName: "Grace", LastName: "Obi", EmailAddress: "ada@example.com", IsEnabled: true,
	}}
	ed := NewProfileEditor(api, store, nil, sess)

	api.onUpdate = func() {
		assert.Equal(t, Submitting, ed.State())
		assert.ErrorIs(t, ed.Submit(ctx), ErrBusy)

		cached, ok := cachedSession(t, store)
		require.True(t, ok)
		assert.Equal(t, "Ada", cached.User.BioData.FirstName, "cache must not change before the PATCH resolves")
		assert.Equal(t, "Ada", sess.User.BioData.FirstName)
	}

	require.NoError(t, ed.BeginEdit())
	require.NoError(t, ed.Update("firstName", " Grace "))
	require.NoError(t, ed.Submit(ctx))

	assert.Equal(t, Viewing, ed.State())
	assert.NoError(t, ed.LastError())
	assert.Equal(t, 1, api.UpdateCalls)
	assert.Equal(t, client.ProfileUpdate{FirstName: "Grace"}, api.LastUpdate)
	assert.Equal(t, roles.Customer, api.LastUpdateRole)
	assert.Equal(t, sess.AccessToken, api.LastUpdateToken)

	cached, ok := cachedSession(t, store)
	require.True(t, ok)
	assert.Equal(t, "Grace", cached.User.BioData.FirstName)
	assert.Equal(t, []roles.Role{roles.Customer}, cached.User.BioData.Roles)
	assert.Equal(t, "Grace", sess.User.BioData.FirstName)
}

func TestProfileEditor_UnauthorizedStaysEditing(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{UpdateProfileErr: &client.APIError{Status: 401, Kind: client.ErrUnauthorized}}
	ed, sess := mountedEditor(t, roles.Vendor, api)
	store := ed.store

	require.NoError(t, ed.BeginEdit())
	require.NoError(t, ed.Update("firstName", "Grace"))
	err := ed.Submit(ctx)

	require.ErrorIs(t, err, ErrLoginRequired)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, Editing, ed.State())
	require.Error(t, ed.LastError())
	assert.Equal(t, "Your session has expired. Please log in again.", client.UserMessage(ed.LastError()))
	assert.Equal(t, "Grace", ed.Draft().FirstName, "draft is kept for retry")

	cached, ok := cachedSession(t, store)
	require.True(t, ok)
	assert.Equal(t, "Ada", cached.User.BioData.FirstName)
	assert.Equal(t, "Ada", sess.User.BioData.FirstName)

	ed.DismissError()
	assert.NoError(t, ed.LastError())
}

func TestProfileEditor_ServerMessageShownVerbatim(t *testing.T) {
	api := &fakeAPI{UpdateProfileErr: &client.APIError{Status: 409, Message: "Email already in use"}}
	ed, _ := mountedEditor(t, roles.Customer, api)

	require.NoError(t, ed.BeginEdit())
	require.NoError(t, ed.Update("email", "taken@example.com"))
	require.Error(t, ed.Submit(context.Background()))
	assert.Equal(t, "Email already in use", client.UserMessage(ed.LastError()))
	assert.Equal(t, Editing, ed.State())
}

func TestProfileEditor_ValidationBeforeNetwork(t *testing.T) {
	api := &fakeAPI{}
	ed, _ := mountedEditor(t, roles.Customer, api)

	require.NoError(t, ed.BeginEdit())
	require.NoError(t, ed.Update("firstName", ""))
	require.NoError(t, ed.Update("email", "not-an-email"))
	require.NoError(t, ed.Update("phone", "0801"))

	err := ed.Submit(context.Background())
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"FirstName", "EmailAddress", "PhoneNumber"}, fields)
	assert.Equal(t, 0, api.UpdateCalls)
	assert.Equal(t, Editing, ed.State())
}

func TestProfileEditor_NoChangesSkipsRequest(t *testing.T) {
	api := &fakeAPI{}
	ed, _ := mountedEditor(t, roles.Customer, api)

	require.NoError(t, ed.BeginEdit())
	require.NoError(t, ed.Submit(context.Background()))
	assert.Equal(t, Viewing, ed.State())
	assert.Equal(t, 0, api.UpdateCalls)
}

func TestProfileEditor_StateGuards(t *testing.T) {
	ed, _ := mountedEditor(t, roles.Customer, &fakeAPI{})

	assert.ErrorIs(t, ed.Update("firstName", "x"), ErrNotEditing)
	assert.ErrorIs(t, ed.Submit(context.Background()), ErrNotEditing)

	require.NoError(t, ed.BeginEdit())
	var ve *ValidationError
	require.ErrorAs(t, ed.Update("nickname", "x"), &ve)

	require.NoError(t, ed.Update("lastName", "Changed"))
	require.NoError(t, ed.Cancel())
	assert.Equal(t, Viewing, ed.State())
	assert.Equal(t, "Obi", ed.Draft().LastName)
}

func TestProfileEditor_TransportFailure(t *testing.T) {
	api := &fakeAPI{UpdateProfileErr: errors.Join(client.ErrUnavailable)}
	ed, _ := mountedEditor(t, roles.OrdinaryAdmin, api)

	require.NoError(t, ed.BeginEdit())
	require.NoError(t, ed.Update("phone", "+2348099999999"))
	err := ed.Submit(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, roles.OrdinaryAdmin, api.LastUpdateRole)
	assert.Equal(t, client.ProfileUpdate{PhoneNumber: "+2348099999999"}, api.LastUpdate)
}

func TestEditState_String(t *testing.T) {
	assert.Equal(t, "viewing", Viewing.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "unknown", EditState(42).String())
}
