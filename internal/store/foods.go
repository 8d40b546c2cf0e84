package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/foods"
	"github.com/aerayy/fithub-backend/internal/models"
)

type FoodStore struct {
	db *sql.DB
}

func NewFoodStore(db *sql.DB) *FoodStore {
	return &FoodStore{db: db}
}

const aliasMatch = `EXISTS (SELECT 1 FROM unnest(fl.aliases_tr) AS alias WHERE alias ILIKE $1)`

const foodFrom = `
	FROM food_items fi
	LEFT JOIN food_localization_tr fl ON fl.food_id = fi.id
	LEFT JOIN food_nutrients_100g fn ON fn.food_id = fi.id`

const foodSearchWhere = `
	WHERE (fl.name_tr ILIKE $1 OR ` + aliasMatch + ` OR fi.name_en ILIKE $1)
	  AND ($2 = FALSE OR COALESCE(fl.is_featured, FALSE))
	  AND ($3 = FALSE OR fl.piece_weight_g IS NOT NULL)`

const foodColumns = `
	fi.id, fi.fdc_id, fi.name_en, fi.description, fi.data_type,
	fl.name_tr, fl.description_tr, fl.aliases_tr, COALESCE(fl.is_featured, FALSE), fl.piece_weight_g,
	fn.calories_kcal, fn.protein_g, fn.fat_g, fn.carbs_g, fn.fiber_g, fn.sugar_g, fn.sodium_mg`

const matchScore = `
	CASE WHEN fl.name_tr ILIKE $1 THEN 3
	     WHEN ` + aliasMatch + ` THEN 2
	     ELSE 1 END AS match_score`

// SearchFoods ranks Turkish name hits over alias hits over English name
// hits, then by id, so pages are stable.
func (s *FoodStore) SearchFoods(ctx context.Context, f foods.Filter) ([]models.FoodItem, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+foodFrom+foodSearchWhere,
		f.Pattern, f.FeaturedOnly, f.PieceOnly).Scan(&total); err != nil {
		return nil, 0, mapErr("count foods", err)
	}
	if total == 0 {
		return []models.FoodItem{}, 0, nil
	}

	q := `SELECT` + foodColumns + `,` + matchScore + foodFrom + foodSearchWhere + `
	ORDER BY match_score DESC, fi.id ASC
	LIMIT $4 OFFSET $5`
	rows, err := s.db.QueryContext(ctx, q, f.Pattern, f.FeaturedOnly, f.PieceOnly, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, mapErr("search foods", err)
	}
	defer rows.Close()

	out := []models.FoodItem{}
	for rows.Next() {
		var score int
		it, err := scanFood(rows, &score)
		if err != nil {
			return nil, 0, mapErr("scan food", err)
		}
		it.MatchScore = score
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr("search foods", err)
	}
	return out, total, nil
}

func (s *FoodStore) GetFood(ctx context.Context, id int64) (models.FoodItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+foodColumns+foodFrom+`
	WHERE fi.id = $1`, id)
	it, err := scanFood(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FoodItem{}, apperr.NotFound("food not found")
	}
	if err != nil {
		return models.FoodItem{}, mapErr("get food", err)
	}
	return it, nil
}

func scanFood(r rowScanner, extra ...any) (models.FoodItem, error) {
	var (
		it                             models.FoodItem
		fdcID                          sql.NullInt64
		desc, dataType, nameTR, descTR sql.NullString
		aliases                        []string
		pieceW                         sql.NullFloat64
		n                              [7]sql.NullFloat64
	)
	dest := []any{
		&it.ID, &fdcID, &it.NameEN, &desc, &dataType,
		&nameTR, &descTR, pq.Array(&aliases), &it.IsFeatured, &pieceW,
		&n[0], &n[1], &n[2], &n[3], &n[4], &n[5], &n[6],
	}
	if err := r.Scan(append(dest, extra...)...); err != nil {
		return models.FoodItem{}, err
	}
	it.FdcID = int64Ptr(fdcID)
	it.Description = strPtr(desc)
	it.DataType = strPtr(dataType)
	it.NameTR = strPtr(nameTR)
	it.DescriptionTR = strPtr(descTR)
	it.Aliases = aliases
	it.PieceWeightG = floatPtr(pieceW)
	it.Per100g = models.Nutrients{
		CaloriesKcal: floatPtr(n[0]),
		ProteinG:     floatPtr(n[1]),
		FatG:         floatPtr(n[2]),
		CarbsG:       floatPtr(n[3]),
		FiberG:       floatPtr(n[4]),
		SugarG:       floatPtr(n[5]),
		SodiumMg:     floatPtr(n[6]),
	}
	return it, nil
}
