package store

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/foods"
)

var foodCols = []string{
	"id", "fdc_id", "name_en", "description", "data_type",
	"name_tr", "description_tr", "aliases_tr", "is_featured", "piece_weight_g",
	"calories_kcal", "protein_g", "fat_g", "carbs_g", "fiber_g", "sugar_g", "sodium_mg",
}

func TestSearchFoods(t *testing.T) {
	db, mock := newMock(t)
	flt := foods.Filter{Pattern: "%yumurta%", FeaturedOnly: true, Limit: 20}

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("%yumurta%", true, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`ORDER BY match_score DESC, fi.id ASC`).
		WithArgs("%yumurta%", true, false, 20, 0).
		WillReturnRows(sqlmock.NewRows(append(foodCols, "match_score")).
			AddRow(9, 173424, "Egg, whole, boiled", nil, "sr_legacy",
				"Haşlanmış yumurta", nil, "{yumurta,\"haşlanmış yumurta\"}", true, "50.00",
				"296.00", "12.60", nil, nil, nil, nil, nil, 3).
			AddRow(31, nil, "Egg noodles", nil, nil,
				nil, nil, nil, false, nil,
				nil, nil, nil, nil, nil, nil, nil, 2))

	items, total, err := NewFoodStore(db).SearchFoods(context.Background(), flt)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)

	egg := items[0]
	assert.Equal(t, int64(9), egg.ID)
	assert.Equal(t, 3, egg.MatchScore)
	require.NotNil(t, egg.FdcID)
	assert.Equal(t, int64(173424), *egg.FdcID)
	assert.Equal(t, []string{"yumurta", "haşlanmış yumurta"}, egg.Aliases)
	assert.Equal(t, 50.0, *egg.PieceWeightG)
	assert.Equal(t, 296.0, *egg.Per100g.CaloriesKcal)
	assert.Nil(t, egg.Per100g.FatG)

	assert.Nil(t, items[1].NameTR)
	assert.Nil(t, items[1].PieceWeightG)
	assert.Equal(t, 2, items[1].MatchScore)
}

func TestSearchFoodsNoMatchSkipsPageQuery(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := NewFoodStore(db).SearchFoods(context.Background(), foods.Filter{Pattern: "%zz%", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, items)
}

func TestGetFoodNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`WHERE fi.id = \$1`).WithArgs(int64(404)).WillReturnRows(sqlmock.NewRows(foodCols))

	_, err := NewFoodStore(db).GetFood(context.Background(), 404)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

// Tier precedence lives in SQL: a Turkish name hit outranks an alias hit even
// when the English name matches too.
func TestSearchFoodsRanksByTier(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`CASE WHEN fl.name_tr ILIKE \$1 THEN 3 ` +
		`WHEN EXISTS \(SELECT 1 FROM unnest\(fl.aliases_tr\) AS alias WHERE alias ILIKE \$1\) THEN 2 ` +
		`ELSE 1 END AS match_score .* ORDER BY match_score DESC, fi.id ASC LIMIT \$4 OFFSET \$5`).
		WillReturnRows(sqlmock.NewRows(append(foodCols, "match_score")).
			AddRow(9, nil, "Egg", nil, nil, "Yumurta", nil, nil, true, nil,
				nil, nil, nil, nil, nil, nil, nil, 3))

	items, _, err := NewFoodStore(db).SearchFoods(context.Background(), foods.Filter{Pattern: "%egg%", Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "name_tr", foods.MatchLabel(items[0].MatchScore))

	nameTR := strings.Index(matchScore, "fl.name_tr ILIKE")
	alias := strings.Index(matchScore, aliasMatch)
	fallback := strings.Index(matchScore, "ELSE 1")
	assert.True(t, nameTR >= 0 && nameTR < alias && alias < fallback, matchScore)
	assert.NotContains(t, matchScore, "fi.name_en", "English hits must fall through to the lowest tier")
}
