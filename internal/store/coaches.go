package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/coaches"
	"github.com/aerayy/fithub-backend/internal/models"
)

type CoachStore struct {
	db *sql.DB
}

func NewCoachStore(db *sql.DB) *CoachStore {
	return &CoachStore{db: db}
}

const coachSelect = `
	SELECT c.user_id, COALESCE(u.full_name, u.email), c.bio, c.photo_url, c.price_per_month,
	       c.rating, COALESCE(c.rating_count, 0), c.specialties, c.instagram, c.is_active
	FROM coaches c
	JOIN users u ON u.id = c.user_id`

func scanCoach(r rowScanner) (models.Coach, error) {
	var (
		c                     models.Coach
		bio, photo, instagram sql.NullString
		price, rating         sql.NullFloat64
		specialties           []string
	)
	if err := r.Scan(&c.UserID, &c.FullName, &bio, &photo, &price, &rating, &c.RatingCount,
		pq.Array(&specialties), &instagram, &c.IsActive); err != nil {
		return models.Coach{}, err
	}
	c.Bio = strPtr(bio)
	c.PhotoURL = strPtr(photo)
	c.Instagram = strPtr(instagram)
	c.PricePerMonth = floatPtr(price)
	c.Rating = floatPtr(rating)
	if specialties == nil {
		specialties = []string{}
	}
	c.Specialties = specialties
	return c, nil
}

// ListCoaches returns active coaches, best rated first.
func (s *CoachStore) ListCoaches(ctx context.Context, f coaches.ListFilter) ([]models.Coach, int, error) {
	var ph placeholders
	where := []string{"c.is_active"}
	if f.Q != "" {
		p := ph.add(f.Q)
		where = append(where, `(u.full_name ILIKE `+p+` OR c.bio ILIKE `+p+`)`)
	}
	if f.Specialty != "" {
		where = append(where, `EXISTS (SELECT 1 FROM unnest(c.specialties) AS sp WHERE LOWER(sp) = LOWER(`+ph.add(f.Specialty)+`))`)
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM coaches c JOIN users u ON u.id = c.user_id`+whereSQL,
		ph.args...).Scan(&total); err != nil {
		return nil, 0, mapErr("count coaches", err)
	}

	q := coachSelect + whereSQL + `
	ORDER BY c.rating DESC NULLS LAST, c.rating_count DESC NULLS LAST, c.user_id ASC
	LIMIT ` + ph.add(f.Limit) + ` OFFSET ` + ph.add(f.Offset)
	rows, err := s.db.QueryContext(ctx, q, ph.args...)
	if err != nil {
		return nil, 0, mapErr("list coaches", err)
	}
	defer rows.Close()
	out := []models.Coach{}
	for rows.Next() {
		c, err := scanCoach(rows)
		if err != nil {
			return nil, 0, mapErr("scan coach", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr("list coaches", err)
	}
	return out, total, nil
}

func (s *CoachStore) GetCoach(ctx context.Context, coachID int64) (models.Coach, error) {
	c, err := scanCoach(s.db.QueryRowContext(ctx, coachSelect+` WHERE c.user_id = $1 AND c.is_active`, coachID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Coach{}, apperr.NotFound("coach not found")
	}
	if err != nil {
		return models.Coach{}, mapErr("get coach", err)
	}
	return c, nil
}

// EnsureProfile creates an empty coaches row on first access and returns
// the profile whether or not it is listed.
func (s *CoachStore) EnsureProfile(ctx context.Context, coachID int64) (models.Coach, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO coaches (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, coachID); err != nil {
		return models.Coach{}, mapErr("ensure coach profile", err)
	}
	return s.ownProfile(ctx, s.db, coachID)
}

func (s *CoachStore) ownProfile(ctx context.Context, q queryer, coachID int64) (models.Coach, error) {
	c, err := scanCoach(q.QueryRowContext(ctx, coachSelect+` WHERE c.user_id = $1`, coachID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Coach{}, apperr.NotFound("coach profile not found")
	}
	if err != nil {
		return models.Coach{}, mapErr("get coach profile", err)
	}
	return c, nil
}

func (s *CoachStore) UpdateProfile(ctx context.Context, coachID int64, patch coaches.ProfilePatch) (models.Coach, error) {
	var (
		ph   placeholders
		sets []string
	)
	if patch.Bio != nil {
		sets = append(sets, "bio = "+ph.add(*patch.Bio))
	}
	if patch.PhotoURL != nil {
		sets = append(sets, "photo_url = "+ph.add(*patch.PhotoURL))
	}
	if patch.PricePerMonth != nil {
		sets = append(sets, "price_per_month = "+ph.add(*patch.PricePerMonth))
	}
	if patch.Specialties != nil {
		sets = append(sets, "specialties = "+ph.add(pq.Array(*patch.Specialties)))
	}
	if patch.Instagram != nil {
		sets = append(sets, "instagram = "+ph.add(*patch.Instagram))
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = "+ph.add(*patch.IsActive))
	}
	if len(sets) == 0 {
		return models.Coach{}, apperr.InvalidInput("no fields to update")
	}

	var out models.Coach
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE coaches SET `+strings.Join(sets, ", ")+
			` WHERE user_id = `+ph.add(coachID), ph.args...)
		if err != nil {
			return mapErr("update coach profile", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return mapErr("update coach profile", err)
		} else if n == 0 {
			return apperr.NotFound("coach profile not found")
		}
		out, err = s.ownProfile(ctx, tx, coachID)
		return err
	})
	return out, err
}

const packageColumns = `id, coach_user_id, name, description, duration_days, price, is_active, created_at, updated_at`

func scanPackage(r rowScanner) (models.CoachPackage, error) {
	var (
		p    models.CoachPackage
		desc sql.NullString
	)
	if err := r.Scan(&p.ID, &p.CoachUserID, &p.Name, &desc, &p.DurationDays, &p.Price, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return models.CoachPackage{}, err
	}
	p.Description = strPtr(desc)
	return p, nil
}

// ListPackages lists a coach's packages. With activeOnly the cheapest
// package comes first; otherwise active ones first, newest first.
func (s *CoachStore) ListPackages(ctx context.Context, coachID int64, activeOnly bool) ([]models.CoachPackage, error) {
	q := `SELECT ` + packageColumns + ` FROM coach_packages WHERE coach_user_id = $1`
	if activeOnly {
		q += ` AND is_active ORDER BY price ASC, id ASC`
	} else {
		q += ` ORDER BY is_active DESC, created_at DESC, id DESC`
	}
	rows, err := s.db.QueryContext(ctx, q, coachID)
	if err != nil {
		return nil, mapErr("list packages", err)
	}
	defer rows.Close()
	out := []models.CoachPackage{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, mapErr("scan package", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list packages", err)
	}
	return out, nil
}

func (s *CoachStore) CreatePackage(ctx context.Context, p models.CoachPackage) (models.CoachPackage, error) {
	out, err := scanPackage(s.db.QueryRowContext(ctx, `
		INSERT INTO coach_packages (coach_user_id, name, description, duration_days, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+packageColumns,
		p.CoachUserID, p.Name, p.Description, p.DurationDays, p.Price, p.IsActive))
	if err != nil {
		return models.CoachPackage{}, mapErr("create package", err)
	}
	return out, nil
}

func (s *CoachStore) UpdatePackage(ctx context.Context, coachID, packageID int64, patch coaches.PackagePatch) (models.CoachPackage, error) {
	var (
		ph   placeholders
		sets []string
	)
	if patch.Name != nil {
		sets = append(sets, "name = "+ph.add(*patch.Name))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+ph.add(*patch.Description))
	}
	if patch.DurationDays != nil {
		sets = append(sets, "duration_days = "+ph.add(*patch.DurationDays))
	}
	if patch.Price != nil {
		sets = append(sets, "price = "+ph.add(*patch.Price))
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = "+ph.add(*patch.IsActive))
	}
	if len(sets) == 0 {
		return models.CoachPackage{}, apperr.InvalidInput("no fields to update")
	}
	sets = append(sets, "updated_at = NOW()")
	q := `UPDATE coach_packages SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + ph.add(packageID) + ` AND coach_user_id = ` + ph.add(coachID) +
		` RETURNING ` + packageColumns
	out, err := scanPackage(s.db.QueryRowContext(ctx, q, ph.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CoachPackage{}, apperr.NotFound("package not found")
	}
	if err != nil {
		return models.CoachPackage{}, mapErr("update package", err)
	}
	return out, nil
}

// ListStudents returns the coach's assigned clients with their latest
// subscription with that coach.
func (s *CoachStore) ListStudents(ctx context.Context, coachID int64) ([]models.Student, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, COALESCE(u.full_name, u.email), u.email, c.goal_type, c.activity_level,
		       s.id, s.package_id, s.plan_name, s.subscription_ref, s.status, s.price,
		       s.purchased_at, s.started_at, s.ends_at
		FROM clients c
		JOIN users u ON u.id = c.user_id
		LEFT JOIN LATERAL (
			SELECT * FROM subscriptions
			WHERE client_user_id = c.user_id AND coach_user_id = c.assigned_coach_id
			ORDER BY purchased_at DESC, id DESC
			LIMIT 1
		) s ON TRUE
		WHERE c.assigned_coach_id = $1
		ORDER BY u.id`, coachID)
	if err != nil {
		return nil, mapErr("list students", err)
	}
	defer rows.Close()
	out := []models.Student{}
	for rows.Next() {
		var (
			st                         models.Student
			goal, activity             sql.NullString
			subID, pkgID, price        sql.NullInt64
			plan, ref, status          sql.NullString
			purchased, started, endsAt sql.NullTime
		)
		if err := rows.Scan(&st.UserID, &st.FullName, &st.Email, &goal, &activity,
			&subID, &pkgID, &plan, &ref, &status, &price, &purchased, &started, &endsAt); err != nil {
			return nil, mapErr("scan student", err)
		}
		st.GoalType = strPtr(goal)
		st.ActivityLevel = strPtr(activity)
		if subID.Valid {
			st.Subscription = &models.Subscription{
				ID:              subID.Int64,
				ClientUserID:    st.UserID,
				CoachUserID:     coachID,
				PackageID:       int64Ptr(pkgID),
				PlanName:        plan.String,
				SubscriptionRef: ref.String,
				Status:          models.SubscriptionStatus(status.String),
				Price:           int(price.Int64),
				PurchasedAt:     purchased.Time,
				StartedAt:       started.Time,
				EndsAt:          endsAt.Time,
			}
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list students", err)
	}
	return out, nil
}
