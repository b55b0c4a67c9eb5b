package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/marketdesk/internal/client/client"
	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
	"github.com/dmitrijs2005/marketdesk/internal/logging"
)

// ListService backs the paginated tables. A rejected token is returned to
// the caller; any other failure is logged and shows as an empty page.
type ListService struct {
	api API
	log logging.Logger
}

func NewListService(api API, log logging.Logger) *ListService {
	if log == nil {
		log = logging.Nop{}
	}
	return &ListService{api: api, log: log}
}

func tokenOf(auth *models.AuthenticationResponse) string {
	if auth == nil {
		return ""
	}
	return auth.AccessToken
}

func fetchOrEmpty[T any](ctx context.Context, log logging.Logger, list string, q models.PageQuery,
	fetch func(models.PageQuery) (*models.AppPageResponse[T], error)) (*models.AppPageResponse[T], error) {
	q = q.Normalize()
	page, err := fetch(q)
	switch {
	case err == nil:
		if page == nil {
			return models.EmptyPage[T](q), nil
		}
		if page.Data == nil {
			page.Data = []T{}
		}
		if !page.Consistent() {
			log.Warn(ctx, "page holds more items than rowSize", "list", list, "items", len(page.Data), "row_size", page.RowSize)
		}
		return page, nil
	case errors.Is(err, client.ErrUnauthorized):
		return nil, fmt.Errorf("list %s: %w", list, err)
	case errors.Is(err, context.Canceled):
		return nil, err
	}
	log.Error(ctx, "list fetch failed", "list", list, "page", q.Page, "error", err)
	return models.EmptyPage[T](q), nil
}

// Products lists the catalog. auth may be nil for anonymous browsing.
func (s *ListService) Products(ctx context.Context, auth *models.AuthenticationResponse, q models.PageQuery) (*models.AppPageResponse[models.Product], error) {
	return fetchOrEmpty(ctx, s.log, "products", q, func(q models.PageQuery) (*models.AppPageResponse[models.Product], error) {
		return s.api.ListProducts(ctx, tokenOf(auth), q)
	})
}

// Vendors is the admin's vendor table.
func (s *ListService) Vendors(ctx context.Context, auth *models.AuthenticationResponse, q models.PageQuery) (*models.AppPageResponse[models.Vendor], error) {
	return fetchOrEmpty(ctx, s.log, "vendors", q, func(q models.PageQuery) (*models.AppPageResponse[models.Vendor], error) {
		return s.api.ListVendors(ctx, tokenOf(auth), q)
	})
}

// Orders lists the orders under the session role's prefix.
func (s *ListService) Orders(ctx context.Context, auth *models.AuthenticationResponse, q models.PageQuery) (*models.AppPageResponse[models.Order], error) {
	return fetchOrEmpty(ctx, s.log, "orders", q, func(q models.PageQuery) (*models.AppPageResponse[models.Order], error) {
		return s.api.ListOrders(ctx, tokenOf(auth), auth.PrimaryRole(), q)
	})
}

// Addresses lists the customer's addresses.
func (s *ListService) Addresses(ctx context.Context, auth *models.AuthenticationResponse, q models.PageQuery) (*models.AppPageResponse[models.Address], error) {
	return fetchOrEmpty(ctx, s.log, "addresses", q, func(q models.PageQuery) (*models.AppPageResponse[models.Address], error) {
		return s.api.ListAddresses(ctx, tokenOf(auth), q)
	})
}

// Product loads one product for the detail view.
func (s *ListService) Product(ctx context.Context, auth *models.AuthenticationResponse, id string) (*models.Product, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "is required"}
	}
	p, err := s.api.GetProduct(ctx, tokenOf(auth), id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}
	return p, nil
}

// VendorAction applies an admin decision after checking that the caller is
// an admin and that the vendor's current status permits it.
func (s *ListService) VendorAction(ctx context.Context, auth *models.AuthenticationResponse, vendorID string, current models.VendorStatus, action models.VendorAction) (*models.Vendor, error) {
	if !roles.Admins.Contains(auth.PrimaryRole()) {
		return nil, fmt.Errorf("%w: only administrators manage vendors", ErrLoginRequired)
	}
	if vendorID == "" {
		return nil, &ValidationError{Field: "vendorId", Reason: "is required"}
	}
	if !current.Allows(action) {
		return nil, &ValidationError{Field: "action", Reason: fmt.Sprintf("cannot %s a %s vendor", action, current)}
	}

	v, err := s.api.UpdateVendorStatus(ctx, tokenOf(auth), vendorID, action.Target())
	if err != nil {
		return nil, fmt.Errorf("%s vendor %s: %w", action, vendorID, err)
	}
	s.log.Info(ctx, "vendor status changed", "vendor_id", vendorID, "status", string(v.Status))
	return v, nil
}
