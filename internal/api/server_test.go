package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicechef/internal/conversation"
	"voicechef/internal/monitoring"
	"voicechef/internal/news"
	"voicechef/internal/recipes"
)

const testSession = "projects/voicechef/agent/sessions/abc123"

type staticBulletin string

func (b staticBulletin) Bulletin(context.Context) (string, error) { return string(b), nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := discardLogger()

	ctrl := conversation.NewController(recipes.Default(), conversation.WithLogger(log))
	newsAction := news.NewAction(staticBulletin("http://audio.test/cpt.mp3"), log)
	projects := map[string]*conversation.Conversation{
		"recipes":  conversation.NewConversation("recipes", ctrl.Routes(), nil, nil, log),
		"ewn-news": conversation.NewConversation("ewn-news", newsAction.Routes(), []string{news.Welcome}, nil, log),
	}
	return NewServer(projects, append([]Option{WithLogger(log)}, opts...)...)
}

// agent plays the platform's part: it remembers the contexts the webhook
// hands back and sends them with the next turn
type agent struct {
	t        *testing.T
	server   *Server
	project  string
	screen   bool
	contexts map[string]WireContext
	header   http.Header
}

func newAgent(t *testing.T, s *Server, project string) *agent {
	return &agent{t: t, server: s, project: project, contexts: map[string]WireContext{}, header: http.Header{}}
}

func (a *agent) request(action string, params map[string]any) WebhookRequest {
	req := WebhookRequest{
		ResponseID: "r-1",
		Session:    testSession,
		QueryResult: QueryResult{
			QueryText:    action,
			Action:       action,
			Parameters:   params,
			LanguageCode: "en",
		},
	}
	for _, c := range a.contexts {
		req.QueryResult.OutputContexts = append(req.QueryResult.OutputContexts, c)
	}
	if a.screen {
		req.OriginalDetectIntentRequest.Payload.Surface.Capabilities = []Capability{{Name: capabilityScreen}}
	}
	return req
}

func (a *agent) post(req WebhookRequest) *httptest.ResponseRecorder {
	a.t.Helper()
	body, err := json.Marshal(req)
	require.NoError(a.t, err)

	w := httptest.NewRecorder()
	httpReq, _ := http.NewRequest("POST", "/webhook/"+a.project, bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range a.header {
		httpReq.Header[k] = v
	}
	a.server.Router.ServeHTTP(w, httpReq)
	return w
}

func (a *agent) say(action string, params map[string]any) WebhookResponse {
	a.t.Helper()
	w := a.post(a.request(action, params))
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var resp WebhookResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, c := range resp.OutputContexts {
		if c.LifespanCount <= 0 {
			delete(a.contexts, c.Name)
			continue
		}
		a.contexts[c.Name] = c
	}
	return resp
}

func (a *agent) context(name string) (WireContext, bool) {
	c, ok := a.contexts[testSession+contextsSegment+name]
	return c, ok
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, []any{"ewn-news", "recipes"}, response["projects"])
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestWebhookErrors(t *testing.T) {
	s := newTestServer(t)

	t.Run("unknown project", func(t *testing.T) {
		w := newAgent(t, s, "weather").post(WebhookRequest{})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "unknown project")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/webhook/recipes", bytes.NewBufferString("{not json"))
		req.Header.Set(HeaderRequestID, "req-42")
		s.Router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	})
}

func TestRecipeConversation(t *testing.T) {
	s := newTestServer(t)
	a := newAgent(t, s, "recipes")
	a.screen = true

	resp := a.say("input.welcome", nil)
	assert.Contains(t, resp.FulfillmentText, "Welcome to UCook recipes.")
	require.NotNil(t, resp.Payload)
	assert.True(t, resp.Payload.Google.ExpectUserResponse)

	resp = a.say("select.meal_category", map[string]any{"meal-category": "pork"})
	assert.Contains(t, resp.FulfillmentText, "Sticky Asian-Style Pork Patties by Chante van der Walt")
	items := resp.Payload.Google.RichResponse.Items
	require.Len(t, items, 2)
	require.NotNil(t, items[1].BasicCard)
	assert.Equal(t, "your recipe", items[1].BasicCard.Image.AccessibilityText)
	assert.Equal(t, []Suggestion{{Title: "Get help"}}, resp.Payload.Google.RichResponse.Suggestions)
	chosen, ok := a.context("chosen_recipe")
	require.True(t, ok)
	assert.Equal(t, 1000, chosen.LifespanCount)
	_, ok = a.context("meal-category-selection-followup")
	assert.True(t, ok)

	resp = a.say("meal-category-selection.yes", nil)
	assert.Contains(t, resp.FulfillmentText, "Before we start, please wash your hands")
	progress, ok := a.context("recipe_progress")
	require.True(t, ok)
	assert.Equal(t, float64(-1), progress.Parameters["guidelines"])
	_, ok = a.context("meal-category-selection-followup")
	assert.False(t, ok)
	_, ok = a.context("recipe-guidelines-followup")
	assert.True(t, ok)

	resp = a.say("recipe-guidelines.next", nil)
	assert.Equal(t, "Estimated prep & cooking time: 30 minutes", resp.FulfillmentText)

	resp = a.say("recipe-guidelines.previous", nil)
	assert.Contains(t, resp.FulfillmentText, `we can only go to the "next" guideline`)

	resp = a.say("meal-complete", nil)
	assert.False(t, resp.Payload.Google.ExpectUserResponse)
	assert.Equal(t, &LinkOutSuggestion{DestinationName: "UCook", URL: "https://ucook.co.za/"},
		resp.Payload.Google.RichResponse.LinkOutSuggestion)
	_, ok = a.context("chosen_recipe")
	assert.False(t, ok)
	_, ok = a.context("finish-recipe-followup")
	assert.True(t, ok)
}

func TestFollowupEvent(t *testing.T) {
	s := newTestServer(t)
	a := newAgent(t, s, "recipes")
	a.say("select.meal_category", map[string]any{"meal-category": "salad"})

	resp := a.say("meal-category-selection.no", nil)

	want := WebhookResponse{
		OutputContexts: []WireContext{
			{Name: testSession + "/contexts/chosen_recipe"},
			{Name: testSession + "/contexts/meal-category-selection-followup"},
		},
		FollowupEventInput: &EventInput{Name: "meal-category-selection", LanguageCode: "en"},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("webhook response mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, a.contexts)
}

func TestNewsConversation(t *testing.T) {
	s := newTestServer(t)
	a := newAgent(t, s, "ewn-news")

	resp := a.say("request.news", nil)
	items := resp.Payload.Google.RichResponse.Items
	require.Len(t, items, 3)
	assert.Equal(t, "Here's your news bulletin...", items[1].SimpleResponse.TextToSpeech)
	require.NotNil(t, items[2].MediaResponse)
	assert.Equal(t, MediaObject{
		Name:        "EWN News",
		Description: "South African news from EWN.",
		ContentURL:  "http://audio.test/cpt.mp3",
		LargeImage:  &Image{URL: "http://ewn.co.za/site/design/img/ewn-logo.png", AccessibilityText: "EWN News"},
	}, items[2].MediaResponse.MediaObjects[0])

	req := a.request("", nil)
	req.OriginalDetectIntentRequest.Payload.Inputs = []GoogleInput{{
		Intent: "actions.intent.MEDIA_STATUS",
		Arguments: []GoogleArgument{{
			Name:      "MEDIA_STATUS",
			Extension: map[string]any{"@type": "type.googleapis.com/google.actions.v2.MediaStatus", "status": "FINISHED"},
		}},
	}}
	w := a.post(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The audio is finished playing.")
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   "dialogflow",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, WithAuth("kitchen-secret"))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signedToken(t, "other-secret"), http.StatusUnauthorized},
		{"bearer", "Bearer " + signedToken(t, "kitchen-secret"), http.StatusOK},
		{"bare", signedToken(t, "kitchen-secret"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAgent(t, s, "recipes")
			if tt.header != "" {
				a.header.Set("Authorization", tt.header)
			}
			w := a.post(a.request("input.welcome", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}

	// health stays open
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	s.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMonitorRecordsTurns(t *testing.T) {
	m := monitoring.NewMonitor(discardLogger())
	s := newTestServer(t, WithMonitor(m))
	a := newAgent(t, s, "recipes")

	a.say("input.welcome", nil)
	a.say("select.meal_category", map[string]any{"meal-category": "lamb"})

	metrics := m.GetMetrics()
	assert.Equal(t, 2, metrics["recipes_turns"])
	assert.Equal(t, "select.meal_category", metrics["recipes_last_action"])
}
