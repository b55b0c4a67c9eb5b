package services

import (
	"context"

	"github.com/dmitrijs2005/marketdesk/internal/client/client"
	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
)

// API is the subset of *client.HTTPClient the services call.
type API interface {
	Login(ctx context.Context, email, password string) (*models.AuthenticationResponse, error)
	Ping(ctx context.Context) error
	UpdateProfile(ctx context.Context, token string, role roles.Role, upd client.ProfileUpdate) (*models.BioData, error)
	UploadMedia(ctx context.Context, token string, up client.MediaUploadRequest) (*models.Media, error)
	GetProduct(ctx context.Context, token, id string) (*models.Product, error)
	UpdateVendorStatus(ctx context.Context, token, vendorID string, status models.VendorStatus) (*models.Vendor, error)
	ListProducts(ctx context.Context, token string, q models.PageQuery) (*models.AppPageResponse[models.Product], error)
	ListVendors(ctx context.Context, token string, q models.PageQuery) (*models.AppPageResponse[models.Vendor], error)
	ListOrders(ctx context.Context, token string, role roles.Role, q models.PageQuery) (*models.AppPageResponse[models.Order], error)
	ListAddresses(ctx context.Context, token string, q models.PageQuery) (*models.AppPageResponse[models.Address], error)
}

var _ API = (*client.HTTPClient)(nil)
