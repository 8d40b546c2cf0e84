package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
	"github.com/aerayy/fithub-backend/internal/subscriptions"
)

type SubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

const subscriptionColumns = `id, client_user_id, coach_user_id, package_id, plan_name, subscription_ref,
	status, price, purchased_at, started_at, ends_at`

func scanSubscription(r rowScanner) (models.Subscription, error) {
	var (
		s     models.Subscription
		pkgID sql.NullInt64
	)
	if err := r.Scan(&s.ID, &s.ClientUserID, &s.CoachUserID, &pkgID, &s.PlanName, &s.SubscriptionRef,
		&s.Status, &s.Price, &s.PurchasedAt, &s.StartedAt, &s.EndsAt); err != nil {
		return models.Subscription{}, err
	}
	s.PackageID = int64Ptr(pkgID)
	return s, nil
}

// Checkout creates the subscription for o in one transaction:
// lock the client, honour a repeated ref, load the package, retire the
// previous subscription with the same coach, insert, reassign the coach.
func (s *SubscriptionStore) Checkout(ctx context.Context, o subscriptions.Order) (models.Subscription, bool, error) {
	var (
		sub     models.Subscription
		created bool
	)
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clients (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, o.ClientID); err != nil {
			return err
		}
		var one int
		if err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM clients WHERE user_id = $1 FOR UPDATE`, o.ClientID).Scan(&one); err != nil {
			return err
		}

		existing, err := scanSubscription(tx.QueryRowContext(ctx, `
			SELECT `+subscriptionColumns+`
			FROM subscriptions
			WHERE client_user_id = $1 AND subscription_ref = $2`, o.ClientID, o.Ref))
		if err == nil {
			sub = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		var (
			coachID  int64
			planName string
			days     int
			price    int
		)
		err = tx.QueryRowContext(ctx, `
			SELECT p.coach_user_id, p.name, p.duration_days, p.price
			FROM coach_packages p
			JOIN coaches c ON c.user_id = p.coach_user_id
			WHERE p.id = $1 AND p.is_active AND c.is_active`, o.PackageID).Scan(&coachID, &planName, &days, &price)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("package not found")
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE subscriptions SET status = 'inactive'
			WHERE client_user_id = $1 AND coach_user_id = $2 AND status = 'active'`,
			o.ClientID, coachID); err != nil {
			return err
		}

		start, end := subscriptions.Window(o.Now, days)
		sub, err = scanSubscription(tx.QueryRowContext(ctx, `
			INSERT INTO subscriptions (client_user_id, coach_user_id, package_id, plan_name, subscription_ref,
				status, price, purchased_at, started_at, ends_at)
			VALUES ($1, $2, $3, $4, $5, 'active', $6, $7, $8, $9)
			RETURNING `+subscriptionColumns,
			o.ClientID, coachID, o.PackageID, planName, o.Ref, price, o.Now, start, end))
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE clients SET assigned_coach_id = $2 WHERE user_id = $1`, o.ClientID, coachID); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return models.Subscription{}, false, err
	}
	return sub, created, nil
}

func (s *SubscriptionStore) Current(ctx context.Context, clientID int64, now time.Time) (models.Subscription, error) {
	sub, err := scanSubscription(s.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE client_user_id = $1 AND status = 'active' AND ends_at > $2
		ORDER BY started_at DESC, id DESC
		LIMIT 1`, clientID, now))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subscription{}, apperr.NotFound("no active subscription")
	}
	if err != nil {
		return models.Subscription{}, mapErr("current subscription", err)
	}
	return sub, nil
}
