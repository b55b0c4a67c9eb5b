package models

import (
	"sort"
	"strings"
	"time"
)

const (
	MediaTypeProfilePicture = "PROFILE_PICTURE"
	MediaTypeImage          = "IMAGE"
)

// Media is an uploaded asset. SecureURL is its canonical download location.
type Media struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	DocumentType string    `json:"documentType,omitempty"`
	SecureURL    string    `json:"secureUrl"`
	FileName     string    `json:"fileName,omitempty"`
	FileSize     int64     `json:"fileSize,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (m Media) isProfilePicture() bool {
	return strings.EqualFold(m.Type, MediaTypeProfilePicture) ||
		strings.EqualFold(m.DocumentType, MediaTypeProfilePicture)
}

func (m Media) isImage() bool {
	return strings.EqualFold(m.Type, MediaTypeImage) || strings.HasPrefix(strings.ToLower(m.Type), "image/")
}

// ResolveProfilePicture picks the display URL for the profile: the newest
// profile-picture media, else the newest image, skipping entries without a
// URL. ok is false when nothing qualifies.
func (b BioData) ResolveProfilePicture() (url string, ok bool) {
	if len(b.Media) == 0 {
		return "", false
	}

	candidates := make([]Media, 0, len(b.Media))
	for _, m := range b.Media {
		if m.SecureURL != "" {
			candidates = append(candidates, m)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	for _, match := range []func(Media) bool{Media.isProfilePicture, Media.isImage} {
		for _, m := range candidates {
			if match(m) {
				return m.SecureURL, true
			}
		}
	}
	return "", false
}
