package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/coaches"
	"github.com/aerayy/fithub-backend/internal/exercises"
	"github.com/aerayy/fithub-backend/internal/foods"
	"github.com/aerayy/fithub-backend/internal/models"
	"github.com/aerayy/fithub-backend/internal/subscriptions"
)

type fakeUsers map[int64]models.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (models.User, error) {
	u, ok := f[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeFoods struct {
	searchFoods func(ctx context.Context, f foods.Filter) ([]models.FoodItem, int, error)
	getFood     func(ctx context.Context, id int64) (models.FoodItem, error)
}

func (f *fakeFoods) SearchFoods(ctx context.Context, flt foods.Filter) ([]models.FoodItem, int, error) {
	return f.searchFoods(ctx, flt)
}

func (f *fakeFoods) GetFood(ctx context.Context, id int64) (models.FoodItem, error) {
	return f.getFood(ctx, id)
}

type fakeCoaches struct {
	listCoaches   func(ctx context.Context, f coaches.ListFilter) ([]models.Coach, int, error)
	getCoach      func(ctx context.Context, coachID int64) (models.Coach, error)
	listPackages  func(ctx context.Context, coachID int64, activeOnly bool) ([]models.CoachPackage, error)
	createPackage func(ctx context.Context, p models.CoachPackage) (models.CoachPackage, error)
	updatePackage func(ctx context.Context, coachID, packageID int64, patch coaches.PackagePatch) (models.CoachPackage, error)
	listStudents  func(ctx context.Context, coachID int64) ([]models.Student, error)
	ensureProfile func(ctx context.Context, coachID int64) (models.Coach, error)
	updateProfile func(ctx context.Context, coachID int64, patch coaches.ProfilePatch) (models.Coach, error)
}

func (f *fakeCoaches) ListCoaches(ctx context.Context, flt coaches.ListFilter) ([]models.Coach, int, error) {
	return f.listCoaches(ctx, flt)
}

func (f *fakeCoaches) GetCoach(ctx context.Context, coachID int64) (models.Coach, error) {
	return f.getCoach(ctx, coachID)
}

func (f *fakeCoaches) ListPackages(ctx context.Context, coachID int64, activeOnly bool) ([]models.CoachPackage, error) {
	return f.listPackages(ctx, coachID, activeOnly)
}

func (f *fakeCoaches) CreatePackage(ctx context.Context, p models.CoachPackage) (models.CoachPackage, error) {
	return f.createPackage(ctx, p)
}

func (f *fakeCoaches) UpdatePackage(ctx context.Context, coachID, packageID int64, patch coaches.PackagePatch) (models.CoachPackage, error) {
	return f.updatePackage(ctx, coachID, packageID, patch)
}

func (f *fakeCoaches) ListStudents(ctx context.Context, coachID int64) ([]models.Student, error) {
	return f.listStudents(ctx, coachID)
}

func (f *fakeCoaches) EnsureProfile(ctx context.Context, coachID int64) (models.Coach, error) {
	return f.ensureProfile(ctx, coachID)
}

func (f *fakeCoaches) UpdateProfile(ctx context.Context, coachID int64, patch coaches.ProfilePatch) (models.Coach, error) {
	return f.updateProfile(ctx, coachID, patch)
}

// memSubscriptions keeps subscriptions by (client, ref).
type memSubscriptions struct {
	mu     sync.Mutex
	nextID int64
	byRef  map[string]models.Subscription
}

func (m *memSubscriptions) Checkout(_ context.Context, o subscriptions.Order) (models.Subscription, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byRef[o.Ref]; ok {
		return s, false, nil
	}
	if o.PackageID != 4 {
		return models.Subscription{}, false, apperr.NotFound("package not found")
	}
	m.nextID++
	start, end := subscriptions.Window(o.Now, 30)
	pkg := o.PackageID
	s := models.Subscription{
		ID: m.nextID, ClientUserID: o.ClientID, CoachUserID: 7, PackageID: &pkg,
		PlanName: "Monthly", SubscriptionRef: o.Ref, Status: models.SubscriptionActive,
		Price: 1500, PurchasedAt: o.Now, StartedAt: start, EndsAt: end,
	}
	m.byRef[o.Ref] = s
	return s, true, nil
}

func (m *memSubscriptions) Current(_ context.Context, clientID int64, now time.Time) (models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byRef {
		if s.ClientUserID == clientID && s.EndsAt.After(now) {
			return s, nil
		}
	}
	return models.Subscription{}, apperr.NotFound("no active subscription")
}

// memWorkouts is an in-memory workout store with the same activation rules
// as the SQL one.
type memWorkouts struct {
	mu       sync.Mutex
	assigned map[int64]int64
	nextID   int64
	programs map[int64]*models.WorkoutProgram
	days     map[int64][]models.WorkoutDay
}

func newMemWorkouts() *memWorkouts {
	return &memWorkouts{
		assigned: map[int64]int64{36: 7},
		nextID:   99,
		programs: map[int64]*models.WorkoutProgram{},
		days:     map[int64][]models.WorkoutDay{},
	}
}

func (m *memWorkouts) IsAssigned(_ context.Context, coachID, clientID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assigned[clientID] == coachID, nil
}

func (m *memWorkouts) CreateDraft(_ context.Context, p models.WorkoutProgram, days []models.WorkoutDay) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	p.IsActive = false
	p.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt
	m.programs[p.ID] = &p
	m.days[p.ID] = days
	return p.ID, nil
}

func (m *memWorkouts) Assign(_ context.Context, coachID, clientID, programID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.assigned[clientID] != coachID {
		return apperr.Forbidden("student not assigned to this coach")
	}
	p, ok := m.programs[programID]
	if !ok || p.CoachUserID != coachID || p.ClientUserID != clientID {
		return apperr.NotFound("workout program not found")
	}
	for _, other := range m.programs {
		if other.ClientUserID == clientID {
			other.IsActive = false
		}
	}
	p.IsActive = true
	return nil
}

func (m *memWorkouts) ActiveProgram(_ context.Context, clientID int64) (models.WorkoutProgram, []models.WorkoutDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.programs {
		if p.ClientUserID == clientID && p.IsActive {
			return *p, m.days[id], nil
		}
	}
	return models.WorkoutProgram{}, nil, apperr.NotFound("active workout program not found")
}

func (m *memWorkouts) ListPrograms(_ context.Context, coachID, clientID int64) ([]models.WorkoutProgram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WorkoutProgram
	for _, p := range m.programs {
		if p.CoachUserID == coachID && p.ClientUserID == clientID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeMessaging struct {
	conversations map[int64]models.Conversation
	created       []models.Message
	markRead      func(conversationID, messageID int64, from models.SenderType) bool
}

func (f *fakeMessaging) ActiveSubscription(context.Context, int64, int64, time.Time) (int64, bool, error) {
	return 0, false, nil
}

func (f *fakeMessaging) LatestActiveSubscription(context.Context, int64, time.Time) (int64, int64, bool, error) {
	return 0, 0, false, nil
}

func (f *fakeMessaging) UpsertConversation(_ context.Context, clientID, coachID int64, subID *int64) (models.Conversation, error) {
	return models.Conversation{ID: 5, ClientUserID: clientID, CoachUserID: coachID, SubscriptionID: subID}, nil
}

func (f *fakeMessaging) GetConversation(_ context.Context, id int64) (models.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return models.Conversation{}, apperr.NotFound("conversation not found")
	}
	return c, nil
}

func (f *fakeMessaging) ListConversations(context.Context, models.SenderType, int64) ([]models.ConversationSummary, error) {
	return []models.ConversationSummary{}, nil
}

func (f *fakeMessaging) ListMessages(context.Context, int64, *int64, int) ([]models.Message, error) {
	return []models.Message{}, nil
}

func (f *fakeMessaging) CreateMessage(_ context.Context, m models.Message) (models.Message, error) {
	m.ID = int64(len(f.created) + 1)
	f.created = append(f.created, m)
	return m, nil
}

func (f *fakeMessaging) MarkRead(_ context.Context, conversationID, messageID int64, from models.SenderType, _ time.Time) (bool, error) {
	return f.markRead(conversationID, messageID, from), nil
}

// memNutrition keeps one active plan per client.
type memNutrition struct {
	mu       sync.Mutex
	assigned map[int64]int64
	nextID   int64
	active   map[int64]models.NutritionProgram
}

func (m *memNutrition) IsAssigned(_ context.Context, coachID, clientID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assigned[clientID] == coachID, nil
}

func (m *memNutrition) SetActive(_ context.Context, p models.NutritionProgram) (models.NutritionProgram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.assigned[p.ClientUserID] != p.CoachUserID {
		return models.NutritionProgram{}, apperr.Forbidden("student not assigned to this coach")
	}
	m.nextID++
	p.ID = m.nextID
	p.IsActive = true
	for i := range p.Meals {
		m.nextID++
		p.Meals[i].ID = m.nextID
	}
	m.active[p.ClientUserID] = p
	return p, nil
}

func (m *memNutrition) ActiveProgram(_ context.Context, clientID int64) (models.NutritionProgram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.active[clientID]
	if !ok {
		return models.NutritionProgram{}, apperr.NotFound("active nutrition program not found")
	}
	return p, nil
}

// memClients derives the profile from the last saved onboarding.
type memClients struct {
	mu         sync.Mutex
	assigned   map[int64]int64
	onboarding map[int64]models.Onboarding
}

func (m *memClients) SaveOnboarding(_ context.Context, o models.Onboarding) (models.Onboarding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onboarding[o.UserID] = o
	return o, nil
}

func (m *memClients) GetOnboarding(_ context.Context, userID int64) (models.Onboarding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.onboarding[userID]
	if !ok {
		return models.Onboarding{}, apperr.NotFound("onboarding not found")
	}
	return o, nil
}

func (m *memClients) Profile(_ context.Context, userID int64) (models.ClientProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := models.ClientProfile{User: models.User{ID: userID, Role: models.RoleClient}}
	if coach, ok := m.assigned[userID]; ok {
		p.AssignedCoachID = &coach
	}
	if o, ok := m.onboarding[userID]; ok {
		p.OnboardingDone = true
		p.Gender, p.Age, p.WeightKg, p.HeightCm = o.Gender, o.Age, o.WeightKg, o.HeightCm
		p.GoalType, p.ActivityLevel = o.GoalType, o.ActivityLevel
	}
	return p, nil
}

func (m *memClients) IsAssigned(_ context.Context, coachID, clientID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assigned[clientID] == coachID, nil
}

type fakeExercises struct {
	got   exercises.Filter
	items []models.Exercise
}

func (f *fakeExercises) SearchExercises(_ context.Context, flt exercises.Filter) ([]models.Exercise, error) {
	f.got = flt
	return f.items, nil
}
