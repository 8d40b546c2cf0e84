package models

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleClient Role = "client"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// Nutrients holds the seven tracked values. A nil field means the source
// dataset had no value for it.
type Nutrients struct {
	CaloriesKcal *float64 `json:"calories_kcal"`
	ProteinG     *float64 `json:"protein_g"`
	FatG         *float64 `json:"fat_g"`
	CarbsG       *float64 `json:"carbs_g"`
	FiberG       *float64 `json:"fiber_g"`
	SugarG       *float64 `json:"sugar_g"`
	SodiumMg     *float64 `json:"sodium_mg"`
}

type FoodItem struct {
	ID            int64     `json:"id"`
	FdcID         *int64    `json:"fdc_id"`
	NameEN        string    `json:"name_en"`
	NameTR        *string   `json:"name_tr"`
	Description   *string   `json:"description"`
	DescriptionTR *string   `json:"description_tr"`
	DataType      *string   `json:"data_type"`
	Aliases       []string  `json:"aliases_tr"`
	IsFeatured    bool      `json:"is_featured"`
	PieceWeightG  *float64  `json:"piece_weight_g"`
	Per100g       Nutrients `json:"nutrients_100g"`
	// MatchScore is 3 for a Turkish name hit, 2 for an alias, 1 for English.
	MatchScore int `json:"-"`
}

// DisplayName prefers the Turkish name.
func (f FoodItem) DisplayName() string {
	if f.NameTR != nil && *f.NameTR != "" {
		return *f.NameTR
	}
	return f.NameEN
}

type Coach struct {
	UserID        int64    `json:"user_id"`
	FullName      string   `json:"full_name"`
	Email         string   `json:"email,omitempty"`
	Bio           *string  `json:"bio"`
	PhotoURL      *string  `json:"photo_url"`
	PricePerMonth *float64 `json:"price_per_month"`
	Rating        *float64 `json:"rating"`
	RatingCount   int      `json:"rating_count"`
	Specialties   []string `json:"specialties"`
	Instagram     *string  `json:"instagram"`
	IsActive      bool     `json:"is_active"`
}

type CoachPackage struct {
	ID           int64     `json:"id"`
	CoachUserID  int64     `json:"coach_user_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	DurationDays int       `json:"duration_days"`
	Price        int       `json:"price"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

type Subscription struct {
	ID              int64              `json:"id"`
	ClientUserID    int64              `json:"client_user_id"`
	CoachUserID     int64              `json:"coach_user_id"`
	PackageID       *int64             `json:"package_id"`
	PlanName        string             `json:"plan_name"`
	SubscriptionRef string             `json:"subscription_ref"`
	Status          SubscriptionStatus `json:"status"`
	Price           int                `json:"price"`
	PurchasedAt     time.Time          `json:"purchased_at"`
	StartedAt       time.Time          `json:"started_at"`
	EndsAt          time.Time          `json:"ends_at"`
}

// Student is a client as seen by the assigned coach.
type Student struct {
	UserID        int64         `json:"user_id"`
	FullName      string        `json:"full_name"`
	Email         string        `json:"email"`
	GoalType      *string       `json:"goal_type"`
	ActivityLevel *string       `json:"activity_level"`
	Subscription  *Subscription `json:"subscription"`
}

type WorkoutProgram struct {
	ID           int64     `json:"id"`
	ClientUserID int64     `json:"client_user_id"`
	CoachUserID  int64     `json:"coach_user_id"`
	Title        string    `json:"title"`
	WeekNumber   int       `json:"week_number"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExerciseRow is one stored exercise line of a workout day.
type ExerciseRow struct {
	Name       string `json:"name"`
	Sets       *int   `json:"sets"`
	Reps       string `json:"reps"`
	Notes      string `json:"notes"`
	OrderIndex int    `json:"order_index"`
}

// WorkoutDay is a stored weekday. Payload is nil for legacy days that only
// have exercise rows.
type WorkoutDay struct {
	DayOfWeek  string          `json:"day_of_week"`
	OrderIndex int             `json:"order_index"`
	Payload    json.RawMessage `json:"day_payload"`
	Exercises  []ExerciseRow   `json:"exercises"`
}

type SenderType string

const (
	SenderClient SenderType = "client"
	SenderCoach  SenderType = "coach"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
)

type Conversation struct {
	ID             int64     `json:"id"`
	ClientUserID   int64     `json:"client_user_id"`
	CoachUserID    int64     `json:"coach_user_id"`
	SubscriptionID *int64    `json:"subscription_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ConversationSummary is a conversation list entry for one side.
type ConversationSummary struct {
	Conversation
	PeerName      string     `json:"peer_name"`
	LastMessage   *string    `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	UnreadCount   int        `json:"unread_count"`
}

type Message struct {
	ID             int64           `json:"id"`
	ConversationID int64           `json:"conversation_id"`
	SenderType     SenderType      `json:"sender_type"`
	SenderUserID   int64           `json:"sender_user_id"`
	Type           MessageType     `json:"message_type"`
	Body           string          `json:"body"`
	MediaURL       *string         `json:"media_url"`
	MediaMeta      json.RawMessage `json:"media_meta"`
	CreatedAt      time.Time       `json:"created_at"`
	ReadAt         *time.Time      `json:"read_at"`
}

type NutritionProgram struct {
	ID           int64           `json:"id"`
	ClientUserID int64           `json:"client_user_id"`
	CoachUserID  int64           `json:"coach_user_id"`
	Title        string          `json:"title"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Meals        []NutritionMeal `json:"meals"`
}

// NutritionMeal is one meal of a plan. PlannedTime is "HH:MM" or nil.
type NutritionMeal struct {
	ID          int64   `json:"id"`
	MealType    string  `json:"meal_type"`
	Content     string  `json:"content"`
	OrderIndex  int     `json:"order_index"`
	PlannedTime *string `json:"planned_time"`
}

// ClientProfile is the client-side account view.
type ClientProfile struct {
	User            User     `json:"user"`
	OnboardingDone  bool     `json:"onboarding_done"`
	Gender          *string  `json:"gender"`
	Age             *int     `json:"age"`
	WeightKg        *float64 `json:"weight_kg"`
	HeightCm        *float64 `json:"height_cm"`
	GoalType        *string  `json:"goal_type"`
	ActivityLevel   *string  `json:"activity_level"`
	AssignedCoachID *int64   `json:"assigned_coach_id"`
}

// Onboarding holds a client's questionnaire answers.
type Onboarding struct {
	UserID               int64     `json:"user_id"`
	FullName             *string   `json:"full_name"`
	Age                  *int      `json:"age"`
	Gender               *string   `json:"gender"`
	WeightKg             *float64  `json:"weight_kg"`
	HeightCm             *float64  `json:"height_cm"`
	TargetWeightKg       *float64  `json:"target_weight_kg"`
	GoalType             *string   `json:"goal_type"`
	ActivityLevel        *string   `json:"activity_level"`
	Experience           *string   `json:"experience"`
	BodyPartFocus        []string  `json:"body_part_focus"`
	WorkoutPlace         []string  `json:"workout_place"`
	PreferredWorkoutDays []string  `json:"preferred_workout_days"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type Exercise struct {
	ID               int64    `json:"id"`
	ExternalID       *string  `json:"external_id"`
	CanonicalName    string   `json:"canonical_name"`
	Level            *string  `json:"level"`
	Equipment        *string  `json:"equipment"`
	Category         *string  `json:"category"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	GifURL           *string  `json:"gif_url"`
}
