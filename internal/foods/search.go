package foods

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aerayy/fithub-backend/internal/apperr"
)

const (
	DefaultLimit   = 20
	MaxLimit       = 100
	minQueryLength = 2
)

// SearchInput is the raw query string of a search request.
type SearchInput struct {
	Q            string
	Limit        string
	Offset       string
	FeaturedOnly string
	Unit         string
	Amount       string
}

type SearchParams struct {
	Query        string
	Limit        int
	Offset       int
	FeaturedOnly bool
	Quantity     Quantity
}

// Filter is what the catalog store needs to run a search.
type Filter struct {
	// Pattern is an ILIKE pattern with wildcards in the query escaped.
	Pattern      string
	FeaturedOnly bool
	PieceOnly    bool
	Limit        int
	Offset       int
}

func (in SearchInput) Parse() (SearchParams, error) {
	p := SearchParams{
		Query:        strings.TrimSpace(in.Q),
		Limit:        DefaultLimit,
		FeaturedOnly: true,
	}
	if utf8.RuneCountInString(p.Query) < minQueryLength {
		return SearchParams{}, apperr.InvalidQuery("q must be at least 2 characters")
	}
	if s := strings.TrimSpace(in.Limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			return SearchParams{}, apperr.InvalidQuery("limit must be between 1 and 100")
		}
		p.Limit = n
	}
	if s := strings.TrimSpace(in.Offset); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return SearchParams{}, apperr.InvalidQuery("offset must be a non-negative integer")
		}
		p.Offset = n
	}
	if s := strings.TrimSpace(in.FeaturedOnly); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return SearchParams{}, apperr.InvalidQuery("featured_only must be true or false")
		}
		p.FeaturedOnly = b
	}
	q, err := ParseQuantity(in.Unit, in.Amount)
	if err != nil {
		return SearchParams{}, err
	}
	p.Quantity = q
	return p, nil
}

func (p SearchParams) Filter() Filter {
	return Filter{
		Pattern:      "%" + EscapeLike(p.Query) + "%",
		FeaturedOnly: p.FeaturedOnly,
		PieceOnly:    p.Quantity.Unit == UnitPiece,
		Limit:        p.Limit,
		Offset:       p.Offset,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes s match literally inside a LIKE pattern using the
// default backslash escape.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// MatchLabel names the field a search hit matched on.
func MatchLabel(score int) string {
	switch score {
	case 3:
		return "name_tr"
	case 2:
		return "alias"
	case 1:
		return "name_en"
	}
	return ""
}
