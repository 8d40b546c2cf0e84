// Package foods searches the food catalog and projects nutrients onto a
// requested quantity.
package foods

import (
	"context"

	"github.com/aerayy/fithub-backend/internal/models"
)

type Store interface {
	SearchFoods(ctx context.Context, f Filter) ([]models.FoodItem, int, error)
	GetFood(ctx context.Context, id int64) (models.FoodItem, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type QuantityView struct {
	Unit   Unit    `json:"unit"`
	Amount float64 `json:"amount"`
	Grams  float64 `json:"grams"`
}

type Food struct {
	ID            int64            `json:"id"`
	FdcID         *int64           `json:"fdc_id"`
	Name          string           `json:"name"`
	NameEN        string           `json:"name_en"`
	NameTR        *string          `json:"name_tr"`
	Description   *string          `json:"description"`
	DescriptionTR *string          `json:"description_tr"`
	DataType      *string          `json:"data_type"`
	Aliases       []string         `json:"aliases_tr"`
	IsFeatured    bool             `json:"is_featured"`
	PieceWeightG  *float64         `json:"piece_weight_g"`
	Match         string           `json:"match,omitempty"`
	Per100g       models.Nutrients `json:"nutrients_100g"`
	Nutrients     models.Nutrients `json:"nutrients"`
	Quantity      QuantityView     `json:"quantity"`
}

type SearchResult struct {
	Foods []Food `json:"foods"`
	Total int    `json:"total"`
}

// Search returns matching foods, Turkish name hits first, then alias hits,
// then English name hits, each tier ordered by id.
func (s *Service) Search(ctx context.Context, in SearchInput) (SearchResult, error) {
	p, err := in.Parse()
	if err != nil {
		return SearchResult{}, err
	}
	items, total, err := s.store.SearchFoods(ctx, p.Filter())
	if err != nil {
		return SearchResult{}, err
	}
	out := SearchResult{Foods: make([]Food, 0, len(items)), Total: total}
	for _, it := range items {
		f, err := project(it, p.Quantity)
		if err != nil {
			return SearchResult{}, err
		}
		f.Match = MatchLabel(it.MatchScore)
		out.Foods = append(out.Foods, f)
	}
	return out, nil
}

// Get returns one food with nutrients for q.
func (s *Service) Get(ctx context.Context, id int64, q Quantity) (Food, error) {
	it, err := s.store.GetFood(ctx, id)
	if err != nil {
		return Food{}, err
	}
	return project(it, q)
}

func project(it models.FoodItem, q Quantity) (Food, error) {
	grams, err := q.Grams(it.PieceWeightG)
	if err != nil {
		return Food{}, err
	}
	aliases := it.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return Food{
		ID:            it.ID,
		FdcID:         it.FdcID,
		Name:          it.DisplayName(),
		NameEN:        it.NameEN,
		NameTR:        it.NameTR,
		Description:   it.Description,
		DescriptionTR: it.DescriptionTR,
		DataType:      it.DataType,
		Aliases:       aliases,
		IsFeatured:    it.IsFeatured,
		PieceWeightG:  it.PieceWeightG,
		Per100g:       it.Per100g,
		Nutrients:     Scale(it.Per100g, grams),
		Quantity:      QuantityView{Unit: q.Unit, Amount: q.Amount, Grams: grams},
	}, nil
}
