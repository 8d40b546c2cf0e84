package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

var nutritionCols = []string{"id", "client_user_id", "coach_user_id", "title", "is_active", "created_at", "updated_at"}

func TestSetActiveNutrition(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	nine := "09:00"
	p := models.NutritionProgram{ClientUserID: 36, CoachUserID: 7, Title: "Cut", Meals: []models.NutritionMeal{
		{MealType: "breakfast", Content: "oats", OrderIndex: 1, PlannedTime: &nine},
		{MealType: "snack", OrderIndex: 2},
	}}

	mock.MatchExpectationsInOrder(true)
	mock.ExpectBegin()
	mock.ExpectQuery(lockClient).WithArgs(int64(36)).
		WillReturnRows(sqlmock.NewRows([]string{"assigned_coach_id"}).AddRow(7))
	mock.ExpectExec(`UPDATE nutrition_programs SET is_active = FALSE`).WithArgs(int64(36)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO nutrition_programs`).WithArgs(int64(36), int64(7), "Cut").
		WillReturnRows(sqlmock.NewRows(nutritionCols).AddRow(12, 36, 7, "Cut", true, now, now))
	mock.ExpectQuery(`INSERT INTO nutrition_meals`).WithArgs(int64(12), "breakfast", "oats", 1, "09:00").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(300))
	mock.ExpectQuery(`INSERT INTO nutrition_meals`).WithArgs(int64(12), "snack", "", 2, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(301))
	mock.ExpectCommit()

	out, err := NewNutritionStore(db).SetActive(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(12), out.ID)
	assert.True(t, out.IsActive)
	require.Len(t, out.Meals, 2)
	assert.Equal(t, int64(300), out.Meals[0].ID)
	assert.Nil(t, out.Meals[1].PlannedTime)
}

func TestSetActiveNutritionUnassigned(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(lockClient).WillReturnRows(sqlmock.NewRows([]string{"assigned_coach_id"}).AddRow(nil))
	mock.ExpectRollback()

	_, err := NewNutritionStore(db).SetActive(context.Background(), models.NutritionProgram{ClientUserID: 36, CoachUserID: 7})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestSetActiveNutritionRaceLoses(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(lockClient).WillReturnRows(sqlmock.NewRows([]string{"assigned_coach_id"}).AddRow(7))
	mock.ExpectExec(`UPDATE nutrition_programs SET is_active = FALSE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO nutrition_programs`).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := NewNutritionStore(db).SetActive(context.Background(), models.NutritionProgram{ClientUserID: 36, CoachUserID: 7, Title: "x"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestActiveNutritionProgram(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM nutrition_programs`).WithArgs(int64(36)).
		WillReturnRows(sqlmock.NewRows(nutritionCols).AddRow(12, 36, 7, "Cut", true, now, now))
	mock.ExpectQuery(`ORDER BY planned_time NULLS LAST, order_index ASC, id ASC`).WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "meal_type", "content", "order_index", "planned_time"}).
			AddRow(300, "breakfast", "oats", 1, "07:30:00").
			AddRow(301, "snack", "", 2, nil))

	p, err := NewNutritionStore(db).ActiveProgram(context.Background(), 36)
	require.NoError(t, err)
	require.Len(t, p.Meals, 2)
	assert.Equal(t, "07:30", *p.Meals[0].PlannedTime)
	assert.Nil(t, p.Meals[1].PlannedTime)
}

func TestActiveNutritionProgramNone(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM nutrition_programs`).WillReturnRows(sqlmock.NewRows(nutritionCols))

	_, err := NewNutritionStore(db).ActiveProgram(context.Background(), 36)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
