package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/fitquest/fitquest/config"
	"github.com/fitquest/fitquest/models"
)

// stubCompleter returns a canned reply or error without any transport.
type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(system string, messages []ChatMessage) (string, error) {
	return s.reply, s.err
}

func TestExtractJSONFromChattyText(t *testing.T) {
	text := `Sure! Here is your plan:
{"training":"pushups daily","nutrition":"more protein","recovery":"sleep 8h","motivation":"keep going"}
Let me know if you need anything else.`

	var recs Recommendations
	if err := ExtractJSON(text, &recs); err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if recs.Training != "pushups daily" || recs.Motivation != "keep going" {
		t.Errorf("decoded = %+v", recs)
	}
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	text := `note: {"training":"do {nested} and \"quoted\" work","nutrition":"","recovery":"","motivation":""} done`

	var recs Recommendations
	if err := ExtractJSON(text, &recs); err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if recs.Training != `do {nested} and "quoted" work` {
		t.Errorf("training = %q", recs.Training)
	}
}

func TestExtractJSONRejections(t *testing.T) {
	var recs Recommendations

	if err := ExtractJSON("no structured data here", &recs); err != ErrBadAIResponse {
		t.Errorf("plain text err = %v, want ErrBadAIResponse", err)
	}
	if err := ExtractJSON(`{"training":"ok","bogus_field":1}`, &recs); err != ErrBadAIResponse {
		t.Errorf("unknown field err = %v, want ErrBadAIResponse", err)
	}
	if err := ExtractJSON(`{"training":"unterminated`, &recs); err != ErrBadAIResponse {
		t.Errorf("unbalanced err = %v, want ErrBadAIResponse", err)
	}
}

func newStubAIServer(t *testing.T, status int, body string) *AIClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") == "" {
			t.Error("missing x-api-key header")
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewAIClient(config.AppConfig{
		AIBaseURL:    srv.URL,
		AIAPIKey:     "test-key",
		AIModel:      "test-model",
		AIMaxTokens:  256,
		AITimeoutSec: 5,
	})
}

func TestAIClientComplete(t *testing.T) {
	client := newStubAIServer(t, http.StatusOK,
		`{"content":[{"type":"text","text":"hello "},{"type":"tool_use","text":"skip"},{"type":"text","text":"world"}]}`)

	text, err := client.Complete("sys", []ChatMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q, want concatenated text blocks", text)
	}
}

func TestAIClientCompleteUpstreamFailures(t *testing.T) {
	overloaded := newStubAIServer(t, http.StatusServiceUnavailable, `{"error":{"type":"overloaded","message":"busy"}}`)
	if _, err := overloaded.Complete("sys", nil); !errors.Is(err, ErrUpstream) {
		t.Errorf("503 err = %v, want ErrUpstream", err)
	}

	apiError := newStubAIServer(t, http.StatusOK, `{"error":{"type":"invalid_request","message":"bad"}}`)
	if _, err := apiError.Complete("sys", nil); !errors.Is(err, ErrUpstream) {
		t.Errorf("api error err = %v, want ErrUpstream", err)
	}

	empty := newStubAIServer(t, http.StatusOK, `{"content":[]}`)
	if _, err := empty.Complete("sys", nil); err != ErrBadAIResponse {
		t.Errorf("empty content err = %v, want ErrBadAIResponse", err)
	}
}

func TestGenerateMissionsPersistsValidBatch(t *testing.T) {
	db := newTestDB(t)

	userID := seedUser(t, db, "treinado")
	skillID := seedSkill(t, db, "flexao", 1, 5, 0)
	unlockSkill(t, db, userID, skillID)

	reply := `Here you go: {"missions":[
		{"title":"Fazer 30 flexao","description":"series de 10","skill_id":` + itoa(skillID) + `,"target_reps":30,"xp_reward":60,"points_reward":12}
	]}`
	gw := NewAIGateway(db, &stubCompleter{reply: reply})

	missions, err := gw.GenerateMissions(userID)
	if err != nil {
		t.Fatalf("GenerateMissions: %v", err)
	}
	if len(missions) != 1 {
		t.Fatalf("persisted %d missions, want 1", len(missions))
	}
	m := missions[0]
	if m.Title != "Fazer 30 flexao" || m.TargetReps != 30 || m.XPReward != 60 || m.PointsReward != 12 {
		t.Errorf("mission = %+v", m)
	}
	if m.SkillID == nil || *m.SkillID != skillID {
		t.Error("unlocked skill id was not kept")
	}
	if m.Deadline == nil {
		t.Error("generated mission has no deadline")
	}
}

func TestGenerateMissionsDropsLockedSkillID(t *testing.T) {
	db := newTestDB(t)

	userID := seedUser(t, db, "iniciante")
	lockedSkill := seedSkill(t, db, "planche", 10, 10, 0)

	reply := `{"missions":[{"title":"Tentar planche","description":"","skill_id":` + itoa(lockedSkill) + `,"target_reps":5,"xp_reward":20,"points_reward":5}]}`
	gw := NewAIGateway(db, &stubCompleter{reply: reply})

	missions, err := gw.GenerateMissions(userID)
	if err != nil {
		t.Fatalf("GenerateMissions: %v", err)
	}
	if len(missions) != 1 || missions[0].SkillID != nil {
		t.Errorf("missions = %+v, want one mission with no skill link", missions)
	}
}

func TestGenerateMissionsRejectsBadPayloads(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "cauteloso")

	replies := []string{
		"I could not produce missions today, sorry!",
		`{"missions":[]}`,
		`{"missions":[{"title":"","description":"","skill_id":0,"target_reps":10,"xp_reward":10,"points_reward":1}]}`,
		`{"missions":[{"title":"ok","description":"","skill_id":0,"target_reps":0,"xp_reward":10,"points_reward":1}]}`,
	}
	for _, reply := range replies {
		gw := NewAIGateway(db, &stubCompleter{reply: reply})
		if _, err := gw.GenerateMissions(userID); err != ErrBadAIResponse {
			t.Errorf("reply %q: err = %v, want ErrBadAIResponse", reply, err)
		}
	}

	var count int64
	db.Model(&models.Mission{}).Where("user_id = ?", userID).Count(&count)
	if count != 0 {
		t.Errorf("persisted %d missions from rejected payloads, want 0", count)
	}
}

func TestAnalyzeFoodPersistsOnlyAfterParse(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "faminto")

	bad := NewAIGateway(db, &stubCompleter{reply: "that looks like food"})
	if _, err := bad.AnalyzeFood(userID, "prato feito", ""); err != ErrBadAIResponse {
		t.Fatalf("err = %v, want ErrBadAIResponse", err)
	}
	var count int64
	db.Model(&models.FoodEntry{}).Where("user_id = ?", userID).Count(&count)
	if count != 0 {
		t.Fatalf("diary entries after rejected analysis = %d, want 0", count)
	}

	good := NewAIGateway(db, &stubCompleter{
		reply: `{"food_name":"Prato feito","calories":650,"protein":35,"carbs":70,"fats":20,"meal_type":"almoco"}`,
	})
	data, err := good.AnalyzeFood(userID, "prato feito", "")
	if err != nil {
		t.Fatalf("AnalyzeFood: %v", err)
	}
	if data.FoodName != "Prato feito" || data.Calories != 650 || data.MealType != models.MealLunch {
		t.Errorf("data = %+v", data)
	}

	var entry models.FoodEntry
	if err := db.Where("user_id = ?", userID).First(&entry).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.FoodName != "Prato feito" || entry.Calories != 650 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestAnalyzeFoodDefaultsMealType(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "beliscador")

	gw := NewAIGateway(db, &stubCompleter{
		reply: `{"food_name":"Castanhas","calories":180,"protein":5,"carbs":6,"fats":15,"meal_type":"madrugada"}`,
	})
	data, err := gw.AnalyzeFood(userID, "punhado de castanhas", "")
	if err != nil {
		t.Fatalf("AnalyzeFood: %v", err)
	}
	if data.MealType != models.MealSnack {
		t.Errorf("meal type = %q, want fallback %q", data.MealType, models.MealSnack)
	}
}

func TestChatForwardsOnlyConversationRoles(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "conversador")

	rec := &recordingCompleter{reply: "keep it up!"}
	gw := NewAIGateway(db, rec)

	history := []ChatMessage{
		{Role: "system", Content: "should be dropped"},
		{Role: "user", Content: "treino de ontem"},
		{Role: "assistant", Content: "bom trabalho"},
	}
	reply, err := gw.Chat(userID, "e hoje?", history)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "keep it up!" {
		t.Errorf("reply = %q", reply)
	}
	if len(rec.messages) != 3 {
		t.Fatalf("forwarded %d messages, want 3 (history minus system, plus new)", len(rec.messages))
	}
	if rec.messages[2].Content != "e hoje?" || rec.messages[2].Role != "user" {
		t.Errorf("last message = %+v", rec.messages[2])
	}
}

// recordingCompleter captures the outgoing conversation.
type recordingCompleter struct {
	reply    string
	messages []ChatMessage
}

func (r *recordingCompleter) Complete(system string, messages []ChatMessage) (string, error) {
	r.messages = messages
	return r.reply, nil
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
