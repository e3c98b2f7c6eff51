package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fitquest/fitquest/models"
)

// Completer is the text-generation dependency of the gateway. Satisfied
// by *AIClient; tests substitute a stub.
type Completer interface {
	Complete(system string, messages []ChatMessage) (string, error)
}

// AIGateway builds prompts from stored user state, calls the model and
// applies strictly validated results. Nothing is persisted unless the
// response decodes cleanly.
type AIGateway struct {
	db       *gorm.DB
	client   Completer
	missions *MissionService
	now      func() time.Time
}

func NewAIGateway(db *gorm.DB, client Completer) *AIGateway {
	return &AIGateway{db: db, client: client, missions: NewMissionService(db), now: time.Now}
}

// userContext gathers the stored state a prompt is built from.
type userContext struct {
	profile models.Profile
	attrs   models.Attributes
	prog    models.Progression
	skills  []models.Skill
}

func (g *AIGateway) loadContext(userID uint) (*userContext, error) {
	var ctx userContext
	if err := g.db.Where("user_id = ?", userID).First(&ctx.profile).Error; err != nil {
		return nil, err
	}
	if err := g.db.Where("user_id = ?", userID).First(&ctx.attrs).Error; err != nil {
		return nil, err
	}
	if err := g.db.Where("user_id = ?", userID).First(&ctx.prog).Error; err != nil {
		return nil, err
	}
	err := g.db.
		Joins("JOIN user_skills ON user_skills.skill_id = skills.id AND user_skills.user_id = ?", userID).
		Find(&ctx.skills).Error
	if err != nil {
		return nil, err
	}
	return &ctx, nil
}

func (ctx *userContext) describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "User: %s, level %d, %d xp, streak %d days.\n",
		ctx.profile.Username, ctx.prog.Level, ctx.prog.XP, ctx.prog.CurrentStreak)
	fmt.Fprintf(&sb, "Conditioning: %s. Goal: %s. Weight %.1fkg, height %.1fcm.\n",
		ctx.profile.Conditioning, ctx.profile.MainGoal, ctx.profile.Weight, ctx.profile.Height)
	if ctx.profile.Injuries != "" {
		fmt.Fprintf(&sb, "Injuries to respect: %s.\n", ctx.profile.Injuries)
	}
	if ctx.profile.Equipment != "" {
		fmt.Fprintf(&sb, "Available equipment: %s.\n", ctx.profile.Equipment)
	}
	fmt.Fprintf(&sb, "Attributes: STR %d, CON %d, VIT %d, DEX %d, FOC %d.\n",
		ctx.attrs.Strength, ctx.attrs.Constitution, ctx.attrs.Vitality, ctx.attrs.Dexterity, ctx.attrs.Focus)
	if len(ctx.skills) > 0 {
		sb.WriteString("Unlocked skills:")
		for _, s := range ctx.skills {
			fmt.Fprintf(&sb, " %s (id %d),", s.Name, s.ID)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

type generatedMissionsPayload struct {
	Missions []GeneratedMission `json:"missions"`
}

// GenerateMissions asks the model for personalized missions and persists
// the validated batch.
func (g *AIGateway) GenerateMissions(userID uint) ([]models.Mission, error) {
	ctx, err := g.loadContext(userID)
	if err != nil {
		return nil, err
	}

	system := "You are a fitness coach for a gamified workout app. " +
		"Reply with a single JSON object of the form " +
		`{"missions":[{"title":"...","description":"...","skill_id":1,"target_reps":20,"xp_reward":50,"points_reward":10}]}` +
		" and nothing else. Use only the listed skill ids, at most 3 missions."
	prompt := ctx.describe() + "\nGenerate today's missions for this user."

	text, err := g.client.Complete(system, []ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	var payload generatedMissionsPayload
	if err := ExtractJSON(text, &payload); err != nil {
		return nil, err
	}
	if len(payload.Missions) == 0 {
		return nil, ErrBadAIResponse
	}
	for _, m := range payload.Missions {
		if m.Title == "" || m.TargetReps < 1 || m.XPReward < 0 || m.PointsReward < 0 {
			return nil, ErrBadAIResponse
		}
	}

	return g.missions.InsertGenerated(userID, payload.Missions)
}

// Chat relays a free-form conversation. The reply has no JSON contract.
func (g *AIGateway) Chat(userID uint, message string, history []ChatMessage) (string, error) {
	ctx, err := g.loadContext(userID)
	if err != nil {
		return "", err
	}

	system := "You are a supportive fitness coach inside a gamified workout app. " +
		"Answer briefly and practically.\n" + ctx.describe()

	messages := make([]ChatMessage, 0, len(history)+1)
	for _, h := range history {
		if h.Role == "user" || h.Role == "assistant" {
			messages = append(messages, h)
		}
	}
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	return g.client.Complete(system, messages)
}

// FoodData are the macros the analyzer extracted for one food item.
type FoodData struct {
	FoodName string  `json:"food_name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	MealType string  `json:"meal_type"`
}

// AnalyzeFood sends a description or photo for macro estimation and
// records a food diary entry once the response validates.
func (g *AIGateway) AnalyzeFood(userID uint, description, imageBase64 string) (*FoodData, error) {
	system := "You are a nutritionist. Estimate macros for the described food. " +
		"Reply with a single JSON object: " +
		`{"food_name":"...","calories":0,"protein":0,"carbs":0,"fats":0,"meal_type":"cafe|almoco|jantar|lanche"}` +
		" and nothing else."

	prompt := description
	if prompt == "" {
		// Image support is limited to passing it through as context; the
		// transport-level image block format is provider specific.
		prompt = "Analyze the food in this photo (base64): " + imageBase64
	}

	text, err := g.client.Complete(system, []ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	var data FoodData
	if err := ExtractJSON(text, &data); err != nil {
		return nil, err
	}
	if data.FoodName == "" || data.Calories < 0 {
		return nil, ErrBadAIResponse
	}
	switch data.MealType {
	case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
	default:
		data.MealType = models.MealSnack
	}

	entry := models.FoodEntry{
		UserID:    userID,
		FoodName:  data.FoodName,
		Calories:  data.Calories,
		Protein:   data.Protein,
		Carbs:     data.Carbs,
		Fats:      data.Fats,
		MealType:  data.MealType,
		ScannedAt: g.now(),
	}
	if err := g.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &data, nil
}

// Recommendations is the validated advice object.
type Recommendations struct {
	Training   string `json:"training"`
	Nutrition  string `json:"nutrition"`
	Recovery   string `json:"recovery"`
	Motivation string `json:"motivation"`
}

// GetRecommendations asks for personalized advice across four areas.
func (g *AIGateway) GetRecommendations(userID uint) (*Recommendations, error) {
	ctx, err := g.loadContext(userID)
	if err != nil {
		return nil, err
	}

	system := "You are a fitness coach. Reply with a single JSON object: " +
		`{"training":"...","nutrition":"...","recovery":"...","motivation":"..."}` +
		" and nothing else."
	prompt := ctx.describe() + "\nGive this user today's recommendations."

	text, err := g.client.Complete(system, []ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	var recs Recommendations
	if err := ExtractJSON(text, &recs); err != nil {
		return nil, err
	}
	if recs.Training == "" && recs.Nutrition == "" && recs.Recovery == "" {
		return nil, ErrBadAIResponse
	}
	return &recs, nil
}

// WorkoutExercise is one prescribed exercise in a suggested workout.
type WorkoutExercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
}

// WorkoutSuggestion is a validated full-workout prescription.
type WorkoutSuggestion struct {
	Name            string            `json:"name"`
	DurationMinutes int               `json:"duration_minutes"`
	Exercises       []WorkoutExercise `json:"exercises"`
}

// SuggestWorkout asks for a full workout respecting the user's profile.
func (g *AIGateway) SuggestWorkout(userID uint) (*WorkoutSuggestion, error) {
	ctx, err := g.loadContext(userID)
	if err != nil {
		return nil, err
	}

	system := "You are a fitness coach. Reply with a single JSON object: " +
		`{"name":"...","duration_minutes":30,"exercises":[{"name":"...","sets":3,"reps":12,"rest_seconds":60}]}` +
		" and nothing else."
	prompt := ctx.describe() + "\nSuggest a workout for today."

	text, err := g.client.Complete(system, []ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	var workout WorkoutSuggestion
	if err := ExtractJSON(text, &workout); err != nil {
		return nil, err
	}
	if workout.Name == "" || len(workout.Exercises) == 0 {
		return nil, ErrBadAIResponse
	}
	return &workout, nil
}
