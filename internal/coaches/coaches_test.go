package coaches

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

type fakeStore struct {
	listCoachesFunc   func(ctx context.Context, f ListFilter) ([]models.Coach, int, error)
	getCoachFunc      func(ctx context.Context, id int64) (models.Coach, error)
	listPackagesFunc  func(ctx context.Context, coachID int64, activeOnly bool) ([]models.CoachPackage, error)
	createPackageFunc func(ctx context.Context, p models.CoachPackage) (models.CoachPackage, error)
	updatePackageFunc func(ctx context.Context, coachID, packageID int64, patch PackagePatch) (models.CoachPackage, error)
	updateProfileFunc func(ctx context.Context, coachID int64, patch ProfilePatch) (models.Coach, error)
}

func (s *fakeStore) ListCoaches(ctx context.Context, f ListFilter) ([]models.Coach, int, error) {
	if s.listCoachesFunc != nil {
		return s.listCoachesFunc(ctx, f)
	}
	return nil, 0, nil
}

func (s *fakeStore) GetCoach(ctx context.Context, id int64) (models.Coach, error) {
	if s.getCoachFunc != nil {
		return s.getCoachFunc(ctx, id)
	}
	return models.Coach{}, apperr.NotFound("coach not found")
}

func (s *fakeStore) ListPackages(ctx context.Context, coachID int64, activeOnly bool) ([]models.CoachPackage, error) {
	if s.listPackagesFunc != nil {
		return s.listPackagesFunc(ctx, coachID, activeOnly)
	}
	return nil, nil
}

func (s *fakeStore) CreatePackage(ctx context.Context, p models.CoachPackage) (models.CoachPackage, error) {
	if s.createPackageFunc != nil {
		return s.createPackageFunc(ctx, p)
	}
	p.ID = 1
	return p, nil
}

func (s *fakeStore) UpdatePackage(ctx context.Context, coachID, packageID int64, patch PackagePatch) (models.CoachPackage, error) {
	if s.updatePackageFunc != nil {
		return s.updatePackageFunc(ctx, coachID, packageID, patch)
	}
	return models.CoachPackage{}, apperr.NotFound("package not found")
}

func (s *fakeStore) ListStudents(context.Context, int64) ([]models.Student, error) {
	return nil, nil
}

func (s *fakeStore) EnsureProfile(_ context.Context, coachID int64) (models.Coach, error) {
	return models.Coach{UserID: coachID, Specialties: []string{}, IsActive: true}, nil
}

func (s *fakeStore) UpdateProfile(ctx context.Context, coachID int64, patch ProfilePatch) (models.Coach, error) {
	if s.updateProfileFunc != nil {
		return s.updateProfileFunc(ctx, coachID, patch)
	}
	return models.Coach{UserID: coachID}, nil
}

func TestListParsesFilter(t *testing.T) {
	var got ListFilter
	svc := NewService(&fakeStore{listCoachesFunc: func(_ context.Context, f ListFilter) ([]models.Coach, int, error) {
		got = f
		return nil, 0, nil
	}})
	res, err := svc.List(context.Background(), ListInput{Q: " ayşe_ ", Specialty: "pilates", Limit: "5", Offset: "10"})
	require.NoError(t, err)
	assert.Equal(t, ListFilter{Q: `%ayşe\_%`, Specialty: "pilates", Limit: 5, Offset: 10}, got)
	assert.NotNil(t, res.Coaches)
}

func TestListRejectsBadPaging(t *testing.T) {
	svc := NewService(&fakeStore{})
	for _, in := range []ListInput{{Limit: "0"}, {Limit: "500"}, {Offset: "-2"}} {
		_, err := svc.List(context.Background(), in)
		assert.True(t, apperr.Is(err, apperr.KindInvalidQuery))
	}
}

func TestGetReturnsActivePackages(t *testing.T) {
	var activeOnly bool
	svc := NewService(&fakeStore{
		getCoachFunc: func(_ context.Context, id int64) (models.Coach, error) {
			return models.Coach{UserID: id, FullName: "Ayşe"}, nil
		},
		listPackagesFunc: func(_ context.Context, _ int64, a bool) ([]models.CoachPackage, error) {
			activeOnly = a
			return []models.CoachPackage{{ID: 3, Name: "Monthly", DurationDays: 30, Price: 900}}, nil
		},
	})
	d, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, activeOnly)
	assert.Equal(t, int64(7), d.Coach.UserID)
	require.Len(t, d.Packages, 1)
}

func TestGetUnknownCoach(t *testing.T) {
	svc := NewService(&fakeStore{})
	_, err := svc.Get(context.Background(), 404)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreatePackageValidation(t *testing.T) {
	svc := NewService(&fakeStore{})
	long := strings.Repeat("a", 2001)
	bad := []PackageInput{
		{Name: "", DurationDays: 30},
		{Name: strings.Repeat("x", 121), DurationDays: 30},
		{Name: "Monthly", DurationDays: 0},
		{Name: "Monthly", DurationDays: 30, Price: -1},
		{Name: "Monthly", DurationDays: 30, Description: &long},
	}
	for _, in := range bad {
		_, err := svc.CreatePackage(context.Background(), 7, in)
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput), "%+v", in)
	}

	p, err := svc.CreatePackage(context.Background(), 7, PackageInput{Name: " Monthly ", DurationDays: 30, Price: 900})
	require.NoError(t, err)
	assert.Equal(t, "Monthly", p.Name)
	assert.Equal(t, int64(7), p.CoachUserID)
	assert.True(t, p.IsActive)
}

func TestUpdatePackage(t *testing.T) {
	svc := NewService(&fakeStore{updatePackageFunc: func(_ context.Context, coachID, packageID int64, patch PackagePatch) (models.CoachPackage, error) {
		return models.CoachPackage{ID: packageID, CoachUserID: coachID, Price: *patch.Price}, nil
	}})
	_, err := svc.UpdatePackage(context.Background(), 7, 3, PackagePatch{})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	zero := 0
	_, err = svc.UpdatePackage(context.Background(), 7, 3, PackagePatch{DurationDays: &zero})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	price := 1200
	p, err := svc.UpdatePackage(context.Background(), 7, 3, PackagePatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 1200, p.Price)
}

func TestProfileCreatesOnFirstAccess(t *testing.T) {
	c, err := NewService(&fakeStore{}).Profile(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.UserID)
	assert.NotNil(t, c.Specialties)
}

func TestUpdateProfileNormalizes(t *testing.T) {
	var got ProfilePatch
	svc := NewService(&fakeStore{updateProfileFunc: func(_ context.Context, coachID int64, patch ProfilePatch) (models.Coach, error) {
		got = patch
		return models.Coach{UserID: coachID}, nil
	}})
	bio, ig := "  Strength coach ", "@ayse.fit"
	specs := []string{" Pilates", "pilates", "Mobility "}
	_, err := svc.UpdateProfile(context.Background(), 7, ProfilePatch{Bio: &bio, Instagram: &ig, Specialties: &specs})
	require.NoError(t, err)
	assert.Equal(t, "Strength coach", *got.Bio)
	assert.Equal(t, "ayse.fit", *got.Instagram)
	assert.Equal(t, []string{"Pilates", "Mobility"}, *got.Specialties)
	assert.Nil(t, got.PricePerMonth)
}

func TestUpdateProfileRejects(t *testing.T) {
	called := false
	svc := NewService(&fakeStore{updateProfileFunc: func(context.Context, int64, ProfilePatch) (models.Coach, error) {
		called = true
		return models.Coach{}, nil
	}})
	long := strings.Repeat("x", maxBioLen+1)
	neg := -1.0
	photo := "ftp://example.com/a.png"
	tooMany := make([]string, maxSpecialties+1)
	for i := range tooMany {
		tooMany[i] = "s"
	}
	blank := []string{"yoga", " "}
	for _, p := range []ProfilePatch{
		{},
		{Bio: &long},
		{PricePerMonth: &neg},
		{PhotoURL: &photo},
		{Specialties: &tooMany},
		{Specialties: &blank},
	} {
		_, err := svc.UpdateProfile(context.Background(), 7, p)
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput), "%+v", p)
	}
	assert.False(t, called)
}
