package coaches

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

const (
	maxBioLen       = 2000
	maxURLLen       = 500
	maxSpecialties  = 10
	maxSpecialtyLen = 50
	maxInstagramLen = 60
)

// ProfilePatch is a partial update of the coach's public profile; nil
// fields are left alone.
type ProfilePatch struct {
	Bio           *string   `json:"bio"`
	PhotoURL      *string   `json:"photo_url"`
	PricePerMonth *float64  `json:"price_per_month"`
	Specialties   *[]string `json:"specialties"`
	Instagram     *string   `json:"instagram"`
	IsActive      *bool     `json:"is_active"`
}

func (p ProfilePatch) Empty() bool {
	return p.Bio == nil && p.PhotoURL == nil && p.PricePerMonth == nil &&
		p.Specialties == nil && p.Instagram == nil && p.IsActive == nil
}

// normalize validates p and returns it with trimmed strings and a
// deduplicated specialty list.
func (p ProfilePatch) normalize() (ProfilePatch, error) {
	if p.Empty() {
		return p, apperr.InvalidInput("no fields to update")
	}
	if p.Bio != nil {
		bio := strings.TrimSpace(*p.Bio)
		if utf8.RuneCountInString(bio) > maxBioLen {
			return p, apperr.InvalidInput(fmt.Sprintf("bio must be at most %d characters", maxBioLen))
		}
		p.Bio = &bio
	}
	if p.PhotoURL != nil {
		u := strings.TrimSpace(*p.PhotoURL)
		if len(u) > maxURLLen || !(strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "/uploads/")) {
			return p, apperr.InvalidInput("photo_url must be an http(s) URL or an uploaded image path")
		}
		p.PhotoURL = &u
	}
	if p.PricePerMonth != nil && *p.PricePerMonth < 0 {
		return p, apperr.InvalidInput("price_per_month must not be negative")
	}
	if p.Specialties != nil {
		in := *p.Specialties
		if len(in) > maxSpecialties {
			return p, apperr.InvalidInput(fmt.Sprintf("at most %d specialties", maxSpecialties))
		}
		out := make([]string, 0, len(in))
		seen := map[string]bool{}
		for _, s := range in {
			s = strings.TrimSpace(s)
			if n := utf8.RuneCountInString(s); n < 1 || n > maxSpecialtyLen {
				return p, apperr.InvalidInput(fmt.Sprintf("specialties must be 1 to %d characters", maxSpecialtyLen))
			}
			if key := strings.ToLower(s); !seen[key] {
				seen[key] = true
				out = append(out, s)
			}
		}
		p.Specialties = &out
	}
	if p.Instagram != nil {
		handle := strings.TrimPrefix(strings.TrimSpace(*p.Instagram), "@")
		if utf8.RuneCountInString(handle) > maxInstagramLen {
			return p, apperr.InvalidInput(fmt.Sprintf("instagram must be at most %d characters", maxInstagramLen))
		}
		p.Instagram = &handle
	}
	return p, nil
}

// Profile returns the coach's own profile, creating an empty one on first
// access.
func (s *Service) Profile(ctx context.Context, coachID int64) (models.Coach, error) {
	return s.store.EnsureProfile(ctx, coachID)
}

func (s *Service) UpdateProfile(ctx context.Context, coachID int64, patch ProfilePatch) (models.Coach, error) {
	patch, err := patch.normalize()
	if err != nil {
		return models.Coach{}, err
	}
	return s.store.UpdateProfile(ctx, coachID, patch)
}
