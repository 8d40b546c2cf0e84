// Package exercises searches the shared exercise catalog coaches pick from.
package exercises

import (
	"context"
	"strconv"
	"strings"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 50
)

type Store interface {
	SearchExercises(ctx context.Context, f Filter) ([]models.Exercise, error)
}

// Filter matches Pattern (an ILIKE pattern) against the name, the external
// id and the aliases.
type Filter struct {
	Pattern string
	Limit   int
}

type SearchInput struct {
	Q     string
	Limit string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (in SearchInput) Parse() (Filter, error) {
	q := strings.TrimSpace(in.Q)
	if q == "" {
		return Filter{}, apperr.InvalidQuery("q is required")
	}
	f := Filter{Pattern: "%" + likeEscaper.Replace(q) + "%", Limit: defaultLimit}
	if s := strings.TrimSpace(in.Limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxLimit {
			return Filter{}, apperr.InvalidQuery("limit must be between 1 and 50")
		}
		f.Limit = n
	}
	return f, nil
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Search returns matches ordered by name.
func (s *Service) Search(ctx context.Context, in SearchInput) ([]models.Exercise, error) {
	f, err := in.Parse()
	if err != nil {
		return nil, err
	}
	items, err := s.store.SearchExercises(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Exercise{}
	}
	return items, nil
}
