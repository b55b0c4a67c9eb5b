package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
)

// Credentials is the login payload.
type Credentials struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// Login exchanges credentials for a session snapshot.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthenticationResponse, error) {
	var out models.AuthenticationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", Credentials{EmailAddress: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks that the API answers.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", "", nil, nil)
}

// ProfileUpdate is the PATCH body for a profile edit. Empty fields are
// omitted so the server leaves them unchanged.
type ProfileUpdate struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// GetProfile reads the caller's profile under the role's prefix.
func (c *HTTPClient) GetProfile(ctx context.Context, token string, role roles.Role) (*models.BioData, error) {
	var out models.BioData
	if err := c.doJSON(ctx, http.MethodGet, roles.EndpointPrefix(role)+"/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile PATCHes the profile and returns the server's copy.
func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, role roles.Role, upd ProfileUpdate) (*models.BioData, error) {
	var out models.BioData
	if err := c.doJSON(ctx, http.MethodPatch, roles.EndpointPrefix(role)+"/profile", token, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MediaMetadata is one element of the upload's JSON metadata array.
type MediaMetadata struct {
	DocumentTypeID int64  `json:"documentTypeId"`
	Category       string `json:"category"`
	FileName       string `json:"fileName"`
}

// MediaUploadRequest is a single file destined for /media/upload.
type MediaUploadRequest struct {
	UserID      string
	ProductID   string
	FileName    string
	ContentType string
	Content     io.Reader
	Metadata    []MediaMetadata
}

// UploadMedia posts a multipart form with the file, its metadata array, the
// user id and, when attaching to a product, the product id.
func (c *HTTPClient) UploadMedia(ctx context.Context, token string, up MediaUploadRequest) (*models.Media, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, up.FileName))
	if up.ContentType != "" {
		h.Set("Content-Type", up.ContentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("multipart file: %w", err)
	}
	if _, err := io.Copy(part, up.Content); err != nil {
		return nil, fmt.Errorf("multipart file: %w", err)
	}

	meta, err := json.Marshal(up.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	fields := [][2]string{{"metadata", string(meta)}, {"userId", up.UserID}}
	if up.ProductID != "" {
		fields = append(fields, [2]string{"productId", up.ProductID})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("multipart %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("multipart close: %w", err)
	}

	var out models.Media
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/media/upload",
		token:       token,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchPage GETs one page of a list endpoint.
func FetchPage[T any](ctx context.Context, c *HTTPClient, token, p string, q models.PageQuery) (*models.AppPageResponse[T], error) {
	q = q.Normalize()
	values := url.Values{}
	values.Set("pageNumber", strconv.Itoa(q.Page))
	values.Set("pageSize", strconv.Itoa(q.Size))
	for k, v := range q.Filters {
		if v != "" {
			values.Set(k, v)
		}
	}

	var out models.AppPageResponse[T]
	if err := c.do(ctx, request{method: http.MethodGet, path: p, query: values, token: token}, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []T{}
	}
	return &out, nil
}

// GetProduct reads one product for the detail view.
func (c *HTTPClient) GetProduct(ctx context.Context, token, id string) (*models.Product, error) {
	seg, err := pathSegment(id)
	if err != nil {
		return nil, err
	}
	var out models.Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+seg, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateVendorStatus moves a vendor application to status.
func (c *HTTPClient) UpdateVendorStatus(ctx context.Context, token, vendorID string, status models.VendorStatus) (*models.Vendor, error) {
	seg, err := pathSegment(vendorID)
	if err != nil {
		return nil, err
	}
	var out models.Vendor
	body := map[string]models.VendorStatus{"status": status}
	p := roles.AdminPrefix + "/vendors/" + seg + "/status"
	if err := c.doJSON(ctx, http.MethodPatch, p, token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts is the public catalog.
func (c *HTTPClient) ListProducts(ctx context.Context, token string, q models.PageQuery) (*models.AppPageResponse[models.Product], error) {
	return FetchPage[models.Product](ctx, c, token, "/products", q)
}

// ListVendors is the admin view of vendor applications.
func (c *HTTPClient) ListVendors(ctx context.Context, token string, q models.PageQuery) (*models.AppPageResponse[models.Vendor], error) {
	return FetchPage[models.Vendor](ctx, c, token, roles.AdminPrefix+"/vendors", q)
}

// ListOrders lists the orders visible to role.
func (c *HTTPClient) ListOrders(ctx context.Context, token string, role roles.Role, q models.PageQuery) (*models.AppPageResponse[models.Order], error) {
	return FetchPage[models.Order](ctx, c, token, roles.EndpointPrefix(role)+"/orders", q)
}

// ListAddresses lists the customer's saved addresses.
func (c *HTTPClient) ListAddresses(ctx context.Context, token string, q models.PageQuery) (*models.AppPageResponse[models.Address], error) {
	return FetchPage[models.Address](ctx, c, token, roles.CustomerPrefix+"/addresses", q)
}
