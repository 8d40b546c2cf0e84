package foods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerayy/fithub-backend/internal/apperr"
)

func TestParseSearchDefaults(t *testing.T) {
	p, err := SearchInput{Q: "  yu "}.Parse()
	require.NoError(t, err)
	assert.Equal(t, "yu", p.Query)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
	assert.True(t, p.FeaturedOnly)
	assert.Equal(t, Quantity{Unit: UnitGram, Amount: 100}, p.Quantity)
}

func TestParseSearchRejects(t *testing.T) {
	cases := map[string]SearchInput{
		"one char query":     {Q: "y"},
		"blank query":        {Q: "   "},
		"limit zero":         {Q: "egg", Limit: "0"},
		"limit over max":     {Q: "egg", Limit: "101"},
		"limit not a number": {Q: "egg", Limit: "ten"},
		"negative offset":    {Q: "egg", Offset: "-1"},
		"bad featured flag":  {Q: "egg", FeaturedOnly: "maybe"},
		"bad unit":           {Q: "egg", Unit: "cup"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := in.Parse()
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindInvalidQuery))
		})
	}
}

func TestParseSearchCountsRunes(t *testing.T) {
	_, err := SearchInput{Q: "ç"}.Parse()
	require.Error(t, err)

	p, err := SearchInput{Q: "çi", Limit: "100", FeaturedOnly: "false"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, 100, p.Limit)
	assert.False(t, p.FeaturedOnly)
}

func TestFilterEscapesWildcards(t *testing.T) {
	p, err := SearchInput{Q: `50%_f\at`, Unit: "piece"}.Parse()
	require.NoError(t, err)
	flt := p.Filter()
	assert.Equal(t, `%50\%\_f\\at%`, flt.Pattern)
	assert.True(t, flt.PieceOnly)
}

func TestMatchLabel(t *testing.T) {
	assert.Equal(t, "name_tr", MatchLabel(3))
	assert.Equal(t, "alias", MatchLabel(2))
	assert.Equal(t, "name_en", MatchLabel(1))
	assert.Equal(t, "", MatchLabel(0))
}
