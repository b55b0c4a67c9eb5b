// Package roles is the closed set of account roles and their mapping to
// REST resource prefixes.
package roles

import (
	"encoding/json"
	"strings"
)

// Role tags an account. The zero value is Unknown.
type Role int

const (
	Unknown Role = iota
	SuperAdmin
	OrdinaryAdmin
	Customer
	Vendor
)

var names = map[Role]string{
	SuperAdmin:    "SUPER_ADMIN",
	OrdinaryAdmin: "ORDINARY_ADMIN",
	Customer:      "CUSTOMER",
	Vendor:        "VENDOR",
}

// Parse maps a wire tag to a Role, ignoring case and surrounding spaces.
// Anything unrecognised is Unknown.
func Parse(s string) Role {
	s = strings.ToUpper(strings.TrimSpace(s))
	for r, name := range names {
		if name == s {
			return r
		}
	}
	return Unknown
}

func (r Role) String() string {
	if name, ok := names[r]; ok {
		return name
	}
	return "UNKNOWN"
}

func (r Role) IsAdmin() bool {
	return r == SuperAdmin || r == OrdinaryAdmin
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON never fails on unrecognised tags; they decode to Unknown.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = Parse(s)
	return nil
}

const (
	AdminPrefix    = "/admin"
	CustomerPrefix = "/customers"
	VendorPrefix   = "/vendors"
)

// EndpointPrefix returns the REST path prefix owned by role. Unknown roles
// get the customer prefix.
func EndpointPrefix(r Role) string {
	switch r {
	case SuperAdmin, OrdinaryAdmin:
		return AdminPrefix
	case Vendor:
		return VendorPrefix
	case Customer, Unknown:
		return CustomerPrefix
	default:
		return CustomerPrefix
	}
}

// ResolveEndpoint is EndpointPrefix for a raw, possibly absent, role tag.
func ResolveEndpoint(raw *string) string {
	if raw == nil {
		return CustomerPrefix
	}
	return EndpointPrefix(Parse(*raw))
}

// Set is an allow-list of roles.
type Set []Role

func (s Set) Contains(r Role) bool {
	for _, allowed := range s {
		if allowed == r {
			return true
		}
	}
	return false
}

var (
	CustomerOnly = Set{Customer}
	VendorOnly   = Set{Vendor}
	Admins       = Set{SuperAdmin, OrdinaryAdmin}
)
