package services

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/marketdesk/internal/client/client"
	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
	"github.com/dmitrijs2005/marketdesk/internal/client/storage"
)

// ---- fake API ----

// fakeAPI implements API with canned results and call recording.
type fakeAPI struct {
	LoginRet *models.AuthenticationResponse
	LoginErr error

	PingErr error

	UpdateProfileRet *models.BioData
	UpdateProfileErr error
	UpdateCalls      int
	LastUpdate       client.ProfileUpdate
	LastUpdateRole   roles.Role
	LastUpdateToken  string
	// onUpdate runs inside UpdateProfile before it returns.
	onUpdate func()

	UploadRet    *models.Media
	UploadErr    error
	UploadCalls  int
	LastUpload   client.MediaUploadRequest
	LastUploaded []byte

	ProductRet *models.Product
	ProductErr error

	VendorStatusErr  error
	VendorCalls      int
	LastVendorStatus models.VendorStatus

	ProductsRet  *models.AppPageResponse[models.Product]
	VendorsRet   *models.AppPageResponse[models.Vendor]
	OrdersRet    *models.AppPageResponse[models.Order]
	AddressesRet *models.AppPageResponse[models.Address]
	ListErr      error
	LastQuery    models.PageQuery
	LastToken    string
	LastRole     roles.Role
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) Login(_ context.Context, _, _ string) (*models.AuthenticationResponse, error) {
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Ping(context.Context) error { return f.PingErr }

func (f *fakeAPI) UpdateProfile(_ context.Context, token string, role roles.Role, upd client.ProfileUpdate) (*models.BioData, error) {
	f.UpdateCalls++
	f.LastUpdate, f.LastUpdateRole, f.LastUpdateToken = upd, role, token
	if f.onUpdate != nil {
		f.onUpdate()
	}
	return f.UpdateProfileRet, f.UpdateProfileErr
}

func (f *fakeAPI) UploadMedia(_ context.Context, _ string, up client.MediaUploadRequest) (*models.Media, error) {
	f.UploadCalls++
	f.LastUpload = up
	if up.Content != nil {
		f.LastUploaded, _ = io.ReadAll(up.Content)
	}
	return f.UploadRet, f.UploadErr
}

func (f *fakeAPI) GetProduct(_ context.Context, _, _ string) (*models.Product, error) {
	return f.ProductRet, f.ProductErr
}

func (f *fakeAPI) UpdateVendorStatus(_ context.Context, _, id string, status models.VendorStatus) (*models.Vendor, error) {
	f.VendorCalls++
	f.LastVendorStatus = status
	if f.VendorStatusErr != nil {
		return nil, f.VendorStatusErr
	}
	return &models.Vendor{ID: id, Status: status}, nil
}

func (f *fakeAPI) ListProducts(_ context.Context, token string, q models.PageQuery) (*models.AppPageResponse[models.Product], error) {
	f.LastToken, f.LastQuery = token, q
	return f.ProductsRet, f.ListErr
}

func (f *fakeAPI) ListVendors(_ context.Context, token string, q models.PageQuery) (*models.AppPageResponse[models.Vendor], error) {
	f.LastToken, f.LastQuery = token, q
	return f.VendorsRet, f.ListErr
}

func (f *fakeAPI) ListOrders(_ context.Context, token string, role roles.Role, q models.PageQuery) (*models.AppPageResponse[models.Order], error) {
	f.LastToken, f.LastQuery, f.LastRole = token, q, role
	return f.OrdersRet, f.ListErr
}

func (f *fakeAPI) ListAddresses(_ context.Context, token string, q models.PageQuery) (*models.AppPageResponse[models.Address], error) {
	f.LastToken, f.LastQuery = token, q
	return f.AddressesRet, f.ListErr
}

// ---- helpers ----

func newStore(t *testing.T) *storage.Adapter {
	t.Helper()
	return storage.NewAdapter(storage.NewMemoryKV(), nil)
}

func sessionFor(role roles.Role) *models.AuthenticationResponse {
	return &models.AuthenticationResponse{
		AccessToken: "tok-" + role.String(),
		User: models.User{
			ID: "u-1",
			BioData: models.BioData{
				ID:           "b-1",
				FirstName:    "Ada",
				LastName:     "Obi",
				EmailAddress: "ada@example.com",
				PhoneNumber:  "+2348012345678",
				Roles:        []roles.Role{role},
				IsEnabled:    true,
			},
		},
	}
}

func cacheSession(t *testing.T, store *storage.Adapter, auth *models.AuthenticationResponse) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), storage.KeyAuthResponse, auth))
}

func cachedSession(t *testing.T, store *storage.Adapter) (*models.AuthenticationResponse, bool) {
	t.Helper()
	var auth models.AuthenticationResponse
	if !store.Retrieve(context.Background(), storage.KeyAuthResponse, &auth) {
		return nil, false
	}
	return &auth, true
}
