package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
)

type failingKV struct{ *MemoryKV }

var errBroken = errors.New("broken")

func (f *failingKV) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (f *failingKV) Delete(context.Context, string) error         { return errBroken }

func session() models.AuthenticationResponse {
	return models.AuthenticationResponse{
		AccessToken: "tok",
		User: models.User{ID: "u1", BioData: models.BioData{
			ID: "u1", FirstName: "Ada", EmailAddress: "ada@example.org",
			Roles: []roles.Role{roles.Customer}, IsEnabled: true,
			Media: []models.Media{{ID: "m1", Type: models.MediaTypeProfilePicture, SecureURL: "https://cdn/x.png"}},
		}},
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	for name, kv := range map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": NewSQLiteKV(openTestDB(t)),
	} {
		t.Run(name, func(t *testing.T) {
			a := NewAdapter(kv, nil)
			ctx := context.Background()
			want := session()

			require.NoError(t, a.Save(ctx, KeyAuthResponse, want))

			var got models.AuthenticationResponse
			require.True(t, a.Retrieve(ctx, KeyAuthResponse, &got))
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestAdapter_RetrieveMissingOrMalformed(t *testing.T) {
	kv := NewMemoryKV()
	a := NewAdapter(kv, nil)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "garbage", []byte(`{"user":`)))
	require.NoError(t, kv.Set(ctx, "wrong-type", []byte(`[1,2,3]`)))
	require.NoError(t, kv.Set(ctx, "null", []byte(`null`)))
	require.NoError(t, kv.Set(ctx, "blank", []byte(`  `)))

	for _, key := range []string{"absent", "garbage", "wrong-type", "null", "blank"} {
		t.Run(key, func(t *testing.T) {
			got := session()
			assert.NotPanics(t, func() {
				assert.False(t, a.Retrieve(ctx, key, &got))
			})
			assert.Empty(t, cmp.Diff(session(), got), "dst must be untouched")
		})
	}
}

func TestAdapter_RetrieveBadDestination(t *testing.T) {
	a := NewAdapter(NewMemoryKV(), nil)
	ctx := context.Background()
	require.NoError(t, a.Save(ctx, "k", 1))

	var nilPtr *int
	assert.False(t, a.Retrieve(ctx, "k", nilPtr))
	assert.False(t, a.Retrieve(ctx, "k", 5))
	assert.False(t, a.Retrieve(ctx, "k", nil))
}

func TestAdapter_RetrieveReadError(t *testing.T) {
	a := NewAdapter(&failingKV{NewMemoryKV()}, nil)
	var got models.AuthenticationResponse
	assert.False(t, a.Retrieve(context.Background(), KeyAuthResponse, &got))
	_, ok := a.RetrieveString(context.Background(), "x")
	assert.False(t, ok)
}

func TestAdapter_SaveUnencodable(t *testing.T) {
	a := NewAdapter(NewMemoryKV(), nil)
	err := a.Save(context.Background(), "ch", make(chan int))
	require.ErrorContains(t, err, "encode ch")
}

func TestAdapter_RemoveAndRemoveAll(t *testing.T) {
	kv := NewMemoryKV()
	a := NewAdapter(kv, nil)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, "a", 1))
	require.NoError(t, a.SaveString(ctx, "b", "orders"))
	require.NoError(t, a.SaveString(ctx, "c", "true"))

	require.NoError(t, a.Remove(ctx, "a"))
	require.NoError(t, a.Remove(ctx, "a"))
	require.NoError(t, a.RemoveAll(ctx, "b", "c"))
	assert.Zero(t, kv.Len())
}

func TestAdapter_RemoveAllWithoutBatchSupport(t *testing.T) {
	type plainKV struct{ KV }
	a := NewAdapter(plainKV{NewMemoryKV()}, nil)
	ctx := context.Background()
	require.NoError(t, a.SaveString(ctx, "a", "1"))
	require.NoError(t, a.RemoveAll(ctx, "a", "b"))
	_, ok := a.RetrieveString(ctx, "a")
	assert.False(t, ok)

	broken := NewAdapter(plainKV{&failingKV{NewMemoryKV()}}, nil)
	require.ErrorIs(t, broken.RemoveAll(ctx, "a"), errBroken)
}

func TestAdapter_Strings(t *testing.T) {
	a := NewAdapter(NewMemoryKV(), nil)
	ctx := context.Background()

	_, ok := a.RetrieveString(ctx, ActiveTabKey("vendor"))
	assert.False(t, ok)

	require.NoError(t, a.SaveString(ctx, ActiveTabKey("vendor"), "products"))
	v, ok := a.RetrieveString(ctx, ActiveTabKey("vendor"))
	assert.True(t, ok)
	assert.Equal(t, "products", v)
	assert.Equal(t, "vendor_dashboard_sidebar_open", SidebarOpenKey("vendor"))
}
