// Package subscriptions turns a package purchase into a subscription and a
// coach assignment.
package subscriptions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

const maxRefLen = 128

type Store interface {
	// Checkout runs the whole purchase in one transaction. When ref was
	// already used by the client it returns that subscription and false.
	Checkout(ctx context.Context, o Order) (models.Subscription, bool, error)
	Current(ctx context.Context, clientID int64, now time.Time) (models.Subscription, error)
}

// Order is a validated checkout.
type Order struct {
	ClientID  int64
	PackageID int64
	Ref       string
	Now       time.Time
}

type CheckoutRequest struct {
	PackageID       int64  `json:"package_id"`
	SubscriptionRef string `json:"subscription_ref"`
}

type CheckoutResult struct {
	Subscription models.Subscription `json:"subscription"`
	Created      bool                `json:"created"`
}

// Window returns the period a package of durationDays covers from start.
func Window(start time.Time, durationDays int) (time.Time, time.Time) {
	return start, start.AddDate(0, 0, durationDays)
}

type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "subscriptions").Logger(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
}

func (s *Service) Checkout(ctx context.Context, clientID int64, req CheckoutRequest) (CheckoutResult, error) {
	if req.PackageID <= 0 {
		return CheckoutResult{}, apperr.InvalidInput("package_id is required")
	}
	ref := strings.TrimSpace(req.SubscriptionRef)
	if len(ref) > maxRefLen {
		return CheckoutResult{}, apperr.InvalidInput("subscription_ref is too long")
	}
	if ref == "" {
		ref = s.newID()
	}
	sub, created, err := s.store.Checkout(ctx, Order{ClientID: clientID, PackageID: req.PackageID, Ref: ref, Now: s.now()})
	if err != nil {
		return CheckoutResult{}, err
	}
	s.log.Info().Int64("client_id", clientID).Int64("coach_id", sub.CoachUserID).
		Int64("subscription_id", sub.ID).Str("ref", ref).Bool("created", created).Msg("checkout")
	return CheckoutResult{Subscription: sub, Created: created}, nil
}

// Current returns the client's latest active subscription that has not ended.
func (s *Service) Current(ctx context.Context, clientID int64) (models.Subscription, error) {
	return s.store.Current(ctx, clientID, s.now())
}
