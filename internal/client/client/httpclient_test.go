package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second})
	require.NoError(t, err)
	c.requestID = func() string { return "req-1" }
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://example.org"})
	require.Error(t, err)
	_, err = New(Options{BaseURL: "://nope"})
	require.Error(t, err)
}

func TestLogin_SendsCredentialsWithoutBearer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get(AuthorizationHeader))
		assert.Equal(t, "req-1", r.Header.Get(RequestIDHeader))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, Credentials{EmailAddress: "ada@example.org", Password: "pw"}, creds)

		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken": "tok",
			"user":        map[string]any{"id": "u1", "bioData": map[string]any{"id": "u1", "roles": []string{"VENDOR"}}},
		})
	})

	auth, err := c.Login(context.Background(), "ada@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", auth.AccessToken)
	assert.Equal(t, roles.Vendor, auth.PrimaryRole())
}

func TestUpdateProfile_UsesRolePrefixAndBearer(t *testing.T) {
	tests := []struct {
		role roles.Role
		path string
	}{
		{roles.Vendor, "/api/vendors/profile"},
		{roles.Customer, "/api/customers/profile"},
		{roles.SuperAdmin, "/api/admin/profile"},
		{roles.Unknown, "/api/customers/profile"},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get(AuthorizationHeader))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(t, `{"firstName":"Grace"}`, string(body))

				writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "firstName": "Grace"})
			})

			bio, err := c.UpdateProfile(context.Background(), "tok", tt.role, ProfileUpdate{FirstName: "Grace"})
			require.NoError(t, err)
			assert.Equal(t, "Grace", bio.FirstName)
		})
	}
}

func TestGetProfile(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/admin/profile", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": "a1", "roles": []string{"ORDINARY_ADMIN"}})
	})

	bio, err := c.GetProfile(context.Background(), "tok", roles.OrdinaryAdmin)
	require.NoError(t, err)
	assert.Equal(t, []roles.Role{roles.OrdinaryAdmin}, bio.Roles)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantIs  error
		wantMsg string
	}{
		{name: "401", status: 401, body: `{"message":"jwt expired"}`, wantIs: ErrUnauthorized, wantMsg: msgUnauthorized},
		{name: "403", status: 403, body: ``, wantIs: ErrUnauthorized, wantMsg: msgUnauthorized},
		{name: "413", status: 413, body: `nginx says no`, wantIs: ErrPayloadTooLarge, wantMsg: msgTooLarge},
		{name: "415", status: 415, body: `{}`, wantIs: ErrUnsupportedMediaType, wantMsg: msgUnsupported},
		{name: "503", status: 503, body: ``, wantIs: ErrUnavailable, wantMsg: msgUnavailable},
		{name: "400 message", status: 400, body: `{"message":"Phone number already in use"}`, wantMsg: "Phone number already in use"},
		{name: "422 error field", status: 422, body: `{"error":"invalid status transition"}`, wantMsg: "invalid status transition"},
		{name: "500 empty", status: 500, body: ``, wantMsg: msgGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.GetProduct(context.Background(), "tok", "p1")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.Equal(t, tt.wantMsg, UserMessage(err))
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, msgUnavailable, UserMessage(err))
}

func TestCancelledContextIsNotUnavailable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Ping(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestDecodeFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":`)
	})
	_, err := c.GetProduct(context.Background(), "tok", "p1")
	require.ErrorContains(t, err, "decode GET /products/p1 response")
}

func TestUserMessage_Nil(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, msgGeneric, UserMessage(errors.New("x")))
}

type displayErr struct{}

func (displayErr) Error() string       { return "raw" }
func (displayErr) UserMessage() string { return "Nice words" }

func TestUserMessage_UsesErrorsOwnText(t *testing.T) {
	assert.Equal(t, "Nice words", UserMessage(displayErr{}))
}

func TestFetchPage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vendors/orders", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("pageNumber"))
		assert.Equal(t, "20", q.Get("pageSize"))
		assert.Equal(t, "SHIPPED", q.Get("status"))
		assert.False(t, q.Has("empty"))

		writeJSON(w, http.StatusOK, map[string]any{
			"pageNumber": 2, "pageSize": 20, "totalFilteredItems": 21, "rowSize": 20,
			"data": []map[string]any{{"id": "o21", "status": "SHIPPED"}},
		})
	})

	page, err := FetchPage[models.Order](context.Background(), c, "tok", "/vendors/orders",
		models.PageQuery{Page: 2, Filters: map[string]string{"status": "SHIPPED", "empty": ""}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "o21", page.Data[0].ID)
	assert.False(t, page.HasNext())
}

func TestFetchPage_NullDataBecomesEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"pageNumber":1,"pageSize":20,"totalFilteredItems":0,"rowSize":0,"data":null}`)
	})
	page, err := FetchPage[models.Product](context.Background(), c, "", "/products", models.PageQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
}

func TestUpdateVendorStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/admin/vendors/v9/status", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"APPROVED"}`, string(body))
		writeJSON(w, http.StatusOK, map[string]any{"id": "v9", "status": "APPROVED"})
	})

	v, err := c.UpdateVendorStatus(context.Background(), "tok", "v9", models.VendorApproved)
	require.NoError(t, err)
	assert.Equal(t, models.VendorApproved, v.Status)
}

func TestIDsAreEscapedIntoOneSegment(t *testing.T) {
	var got []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, map[string]any{"id": "x"})
	})
	ctx := context.Background()

	_, err := c.GetProduct(ctx, "", "../admin/vendors")
	require.NoError(t, err)
	_, err = c.UpdateVendorStatus(ctx, "tok", "v 1/../../x", models.VendorApproved)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/products/..%2Fadmin%2Fvendors",
		"/api/admin/vendors/v%201%2F..%2F..%2Fx/status",
	}, got)
}

func TestDotIDsAreRejected(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	for _, id := range []string{"", " ", ".", ".."} {
		_, err := c.GetProduct(context.Background(), "", id)
		assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
		_, err = c.UpdateVendorStatus(context.Background(), "tok", id, models.VendorApproved)
		assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
	}
	assert.Zero(t, calls)
}

func TestUploadMedia_Multipart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/media/upload", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get(AuthorizationHeader))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "u1", r.FormValue("userId"))
		assert.Equal(t, "p7", r.FormValue("productId"))

		var meta []MediaMetadata
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("metadata")), &meta))
		assert.Equal(t, []MediaMetadata{{DocumentTypeID: 4, Category: "PROFILE_PICTURE", FileName: "me.png"}}, meta)

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "me.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		b, _ := io.ReadAll(f)
		assert.Equal(t, "PNGDATA", string(b))

		writeJSON(w, http.StatusCreated, map[string]any{"id": "m1", "type": "PROFILE_PICTURE", "secureUrl": "https://cdn/me.png"})
	})

	m, err := c.UploadMedia(context.Background(), "tok", MediaUploadRequest{
		UserID:      "u1",
		ProductID:   "p7",
		FileName:    "me.png",
		ContentType: "image/png",
		Content:     strings.NewReader("PNGDATA"),
		Metadata:    []MediaMetadata{{DocumentTypeID: 4, Category: "PROFILE_PICTURE", FileName: "me.png"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/me.png", m.SecureURL)
}

func TestUploadMedia_OmitsEmptyProductID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, ok := r.MultipartForm.Value["productId"]
		assert.False(t, ok)
		writeJSON(w, http.StatusOK, map[string]any{"secureUrl": "u"})
	})

	_, err := c.UploadMedia(context.Background(), "tok", MediaUploadRequest{
		UserID: "u1", FileName: "a.gif", Content: strings.NewReader("GIF89a"),
	})
	require.NoError(t, err)
}
