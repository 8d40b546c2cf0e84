// Package coaches covers coach discovery for clients and package
// management for coaches.
package coaches

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

const (
	defaultLimit      = 20
	maxLimit          = 100
	maxNameLen        = 120
	maxDescriptionLen = 2000
)

type Store interface {
	ListCoaches(ctx context.Context, f ListFilter) ([]models.Coach, int, error)
	GetCoach(ctx context.Context, coachID int64) (models.Coach, error)
	ListPackages(ctx context.Context, coachID int64, activeOnly bool) ([]models.CoachPackage, error)
	CreatePackage(ctx context.Context, p models.CoachPackage) (models.CoachPackage, error)
	UpdatePackage(ctx context.Context, coachID, packageID int64, patch PackagePatch) (models.CoachPackage, error)
	ListStudents(ctx context.Context, coachID int64) ([]models.Student, error)
	EnsureProfile(ctx context.Context, coachID int64) (models.Coach, error)
	UpdateProfile(ctx context.Context, coachID int64, patch ProfilePatch) (models.Coach, error)
}

// ListFilter narrows the active coach list. Q is an ILIKE pattern.
type ListFilter struct {
	Q         string
	Specialty string
	Limit     int
	Offset    int
}

// ListInput is the raw query string of a coach listing.
type ListInput struct {
	Q         string
	Specialty string
	Limit     string
	Offset    string
}

func (in ListInput) Parse() (ListFilter, error) {
	f := ListFilter{Limit: defaultLimit, Specialty: strings.TrimSpace(in.Specialty)}
	if q := strings.TrimSpace(in.Q); q != "" {
		f.Q = "%" + escapeLike(q) + "%"
	}
	if s := strings.TrimSpace(in.Limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxLimit {
			return ListFilter{}, apperr.InvalidQuery("limit must be between 1 and 100")
		}
		f.Limit = n
	}
	if s := strings.TrimSpace(in.Offset); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return ListFilter{}, apperr.InvalidQuery("offset must be a non-negative integer")
		}
		f.Offset = n
	}
	return f, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

type PackageInput struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	DurationDays int     `json:"duration_days"`
	Price        int     `json:"price"`
	IsActive     *bool   `json:"is_active"`
}

func (in PackageInput) validate() error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if err := validateDescription(in.Description); err != nil {
		return err
	}
	if in.DurationDays <= 0 {
		return apperr.InvalidInput("duration_days must be positive")
	}
	if in.Price < 0 {
		return apperr.InvalidInput("price must not be negative")
	}
	return nil
}

// PackagePatch is a partial package update; nil fields are left alone.
type PackagePatch struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DurationDays *int    `json:"duration_days"`
	Price        *int    `json:"price"`
	IsActive     *bool   `json:"is_active"`
}

func (p PackagePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.DurationDays == nil && p.Price == nil && p.IsActive == nil
}

func (p PackagePatch) validate() error {
	if p.Empty() {
		return apperr.InvalidInput("no fields to update")
	}
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}
	if err := validateDescription(p.Description); err != nil {
		return err
	}
	if p.DurationDays != nil && *p.DurationDays <= 0 {
		return apperr.InvalidInput("duration_days must be positive")
	}
	if p.Price != nil && *p.Price < 0 {
		return apperr.InvalidInput("price must not be negative")
	}
	return nil
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 1 || n > maxNameLen {
		return apperr.InvalidInput(fmt.Sprintf("name must be 1 to %d characters", maxNameLen))
	}
	return nil
}

func validateDescription(d *string) error {
	if d != nil && utf8.RuneCountInString(*d) > maxDescriptionLen {
		return apperr.InvalidInput(fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}
	return nil
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type ListResult struct {
	Coaches []models.Coach `json:"coaches"`
	Total   int            `json:"total"`
}

// Detail is a coach with the packages a client can buy.
type Detail struct {
	Coach    models.Coach          `json:"coach"`
	Packages []models.CoachPackage `json:"packages"`
}

// List returns active coaches, best rated first.
func (s *Service) List(ctx context.Context, in ListInput) (ListResult, error) {
	f, err := in.Parse()
	if err != nil {
		return ListResult{}, err
	}
	list, total, err := s.store.ListCoaches(ctx, f)
	if err != nil {
		return ListResult{}, err
	}
	if list == nil {
		list = []models.Coach{}
	}
	return ListResult{Coaches: list, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, coachID int64) (Detail, error) {
	c, err := s.store.GetCoach(ctx, coachID)
	if err != nil {
		return Detail{}, err
	}
	pkgs, err := s.store.ListPackages(ctx, coachID, true)
	if err != nil {
		return Detail{}, err
	}
	if pkgs == nil {
		pkgs = []models.CoachPackage{}
	}
	return Detail{Coach: c, Packages: pkgs}, nil
}

func (s *Service) ListPackages(ctx context.Context, coachID int64) ([]models.CoachPackage, error) {
	pkgs, err := s.store.ListPackages(ctx, coachID, false)
	if err != nil {
		return nil, err
	}
	if pkgs == nil {
		pkgs = []models.CoachPackage{}
	}
	return pkgs, nil
}

func (s *Service) CreatePackage(ctx context.Context, coachID int64, in PackageInput) (models.CoachPackage, error) {
	if err := in.validate(); err != nil {
		return models.CoachPackage{}, err
	}
	p := models.CoachPackage{
		CoachUserID:  coachID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		DurationDays: in.DurationDays,
		Price:        in.Price,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	return s.store.CreatePackage(ctx, p)
}

func (s *Service) UpdatePackage(ctx context.Context, coachID, packageID int64, patch PackagePatch) (models.CoachPackage, error) {
	if err := patch.validate(); err != nil {
		return models.CoachPackage{}, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	return s.store.UpdatePackage(ctx, coachID, packageID, patch)
}

func (s *Service) ListStudents(ctx context.Context, coachID int64) ([]models.Student, error) {
	students, err := s.store.ListStudents(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}
