// Package models holds the client-side shapes of the marketplace API:
// accounts and sessions, media, paginated lists and list items.
package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/marketdesk/internal/client/roles"
)

// BioData is a person's profile record. ProfilePicture is derived from Media
// and never authoritative.
type BioData struct {
	ID             string       `json:"id"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	EmailAddress   string       `json:"emailAddress"`
	PhoneNumber    string       `json:"phoneNumber,omitempty"`
	ProfilePicture string       `json:"profilePicture,omitempty"`
	Media          []Media      `json:"media,omitempty"`
	Roles          []roles.Role `json:"roles"`
	IsEnabled      bool         `json:"isEnabled"`
}

// User is the account wrapper around BioData.
type User struct {
	ID      string  `json:"id"`
	BioData BioData `json:"bioData"`
}

// AuthenticationResponse is the logged-in session snapshot. It is persisted
// verbatim and is the single source of truth for who is logged in.
type AuthenticationResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// PrimaryRole is the first role of the account, or roles.Unknown.
func (a *AuthenticationResponse) PrimaryRole() roles.Role {
	if a == nil || len(a.User.BioData.Roles) == 0 {
		return roles.Unknown
	}
	return a.User.BioData.Roles[0]
}

// MergeProfile applies patch onto the cached profile. Non-zero patch fields
// win; empty Roles or Media in the patch keep the cached ones. IsEnabled is
// always taken from the patch since the server returns the full record.
func (a *AuthenticationResponse) MergeProfile(patch BioData) {
	bio := &a.User.BioData

	if patch.ID != "" {
		bio.ID = patch.ID
	}
	if patch.FirstName != "" {
		bio.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		bio.LastName = patch.LastName
	}
	if patch.EmailAddress != "" {
		bio.EmailAddress = patch.EmailAddress
	}
	if patch.PhoneNumber != "" {
		bio.PhoneNumber = patch.PhoneNumber
	}
	if len(patch.Media) > 0 {
		bio.Media = patch.Media
	}
	if len(patch.Roles) > 0 {
		bio.Roles = patch.Roles
	}
	bio.IsEnabled = patch.IsEnabled

	if url, ok := bio.ResolveProfilePicture(); ok {
		bio.ProfilePicture = url
	} else if patch.ProfilePicture != "" {
		bio.ProfilePicture = patch.ProfilePicture
	}
}

// AddMedia records a freshly uploaded asset of the given category. Type and
// DocumentType default to the category when the server leaves them blank.
// ProfilePicture is re-derived from the media list afterwards.
func (a *AuthenticationResponse) AddMedia(m Media, category string) {
	bio := &a.User.BioData
	if m.Type == "" {
		m.Type = category
	}
	if m.DocumentType == "" {
		m.DocumentType = category
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	bio.Media = append(bio.Media, m)

	if url, ok := bio.ResolveProfilePicture(); ok {
		bio.ProfilePicture = url
	}
}

// FullName joins first and last name.
func (b BioData) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// Initial is the letter shown when there is no profile picture.
func (b BioData) Initial() string {
	for _, s := range []string{b.FirstName, b.LastName, b.EmailAddress} {
		r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
		if r != utf8.RuneError {
			return string(unicode.ToUpper(r))
		}
	}
	return "?"
}
