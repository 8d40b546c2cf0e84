package foods

import (
	"math"
	"strconv"
	"strings"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

type Unit string

const (
	UnitGram  Unit = "gram"
	UnitPiece Unit = "piece"
)

var unitAliases = map[string]Unit{
	"":       UnitGram,
	"g":      UnitGram,
	"gr":     UnitGram,
	"gram":   UnitGram,
	"grams":  UnitGram,
	"piece":  UnitPiece,
	"pieces": UnitPiece,
	"pc":     UnitPiece,
	"adet":   UnitPiece,
}

// Quantity is an amount in grams or in pieces.
type Quantity struct {
	Unit   Unit    `json:"unit"`
	Amount float64 `json:"amount"`
}

// ParseQuantity reads the unit and amount query parameters. An empty amount
// means 100 grams or 1 piece.
func ParseQuantity(unit, amount string) (Quantity, error) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return Quantity{}, apperr.InvalidQuery("unit must be gram or piece")
	}
	q := Quantity{Unit: u}
	amount = strings.TrimSpace(amount)
	if amount == "" {
		if u == UnitPiece {
			q.Amount = 1
		} else {
			q.Amount = 100
		}
		return q, nil
	}
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Quantity{}, apperr.InvalidQuery("amount must be a positive number")
	}
	q.Amount = v
	return q, nil
}

// Grams converts q to grams for the given piece weight. Piece mode needs a
// positive piece weight.
func (q Quantity) Grams(pieceWeightG *float64) (float64, error) {
	if q.Unit != UnitPiece {
		return q.Amount, nil
	}
	if pieceWeightG == nil || *pieceWeightG <= 0 {
		return 0, apperr.UnitNotSupported("food has no piece weight; use grams")
	}
	return q.Amount * *pieceWeightG, nil
}

// Scale projects per-100g nutrients onto grams. Every field is scaled on its
// own and missing values stay missing.
func Scale(per100g models.Nutrients, grams float64) models.Nutrients {
	f := grams / 100
	return models.Nutrients{
		CaloriesKcal: scaleField(per100g.CaloriesKcal, f),
		ProteinG:     scaleField(per100g.ProteinG, f),
		FatG:         scaleField(per100g.FatG, f),
		CarbsG:       scaleField(per100g.CarbsG, f),
		FiberG:       scaleField(per100g.FiberG, f),
		SugarG:       scaleField(per100g.SugarG, f),
		SodiumMg:     scaleField(per100g.SodiumMg, f),
	}
}

func scaleField(v *float64, f float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v * f
	return &out
}
