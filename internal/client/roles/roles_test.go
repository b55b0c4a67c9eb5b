package roles

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want string
	}{
		{name: "vendor", in: ptr("VENDOR"), want: "/vendors"},
		{name: "customer", in: ptr("CUSTOMER"), want: "/customers"},
		{name: "super admin", in: ptr("SUPER_ADMIN"), want: "/admin"},
		{name: "ordinary admin", in: ptr("ORDINARY_ADMIN"), want: "/admin"},
		{name: "undefined", in: nil, want: "/customers"},
		{name: "unknown", in: ptr("UNKNOWN_ROLE"), want: "/customers"},
		{name: "empty", in: ptr(""), want: "/customers"},
		{name: "lower case", in: ptr(" vendor "), want: "/vendors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveEndpoint(tt.in))
		})
	}
}

func TestEndpointPrefix_OutOfRange(t *testing.T) {
	assert.Equal(t, "/customers", EndpointPrefix(Role(42)))
}

func TestParseAndString(t *testing.T) {
	for _, r := range []Role{SuperAdmin, OrdinaryAdmin, Customer, Vendor} {
		assert.Equal(t, r, Parse(r.String()))
	}
	assert.Equal(t, Unknown, Parse("MERCHANT"))
	assert.Equal(t, "UNKNOWN", Unknown.String())
}

func TestRole_JSON(t *testing.T) {
	var got []Role
	require.NoError(t, json.Unmarshal([]byte(`["VENDOR","ORDINARY_ADMIN","WHATEVER"]`), &got))
	assert.Equal(t, []Role{Vendor, OrdinaryAdmin, Unknown}, got)

	b, err := json.Marshal([]Role{Customer})
	require.NoError(t, err)
	assert.JSONEq(t, `["CUSTOMER"]`, string(b))

	var r Role
	require.Error(t, json.Unmarshal([]byte(`7`), &r))
}

func TestSet_Contains(t *testing.T) {
	assert.True(t, Admins.Contains(SuperAdmin))
	assert.True(t, Admins.Contains(OrdinaryAdmin))
	assert.False(t, Admins.Contains(Vendor))
	assert.False(t, CustomerOnly.Contains(Unknown))
	assert.True(t, SuperAdmin.IsAdmin())
	assert.False(t, Customer.IsAdmin())
}
