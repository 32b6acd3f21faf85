package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	session       = "projects/voicechef-cli/agent/sessions/terminal"
	contextPrefix = session + "/contexts/"
)

// Stage markers the webhook leaves behind, used to tell what a bare
// "next" or "yes" refers to
const (
	markerCategory    = "meal-category-selection-followup"
	markerGuidelines  = "recipe-guidelines-followup"
	markerIngredients = "recipe-ingredients-followup"
	markerSteps       = "recipe-steps-followup"
	markerFinish      = "finish-recipe-followup"
)

var categories = []string{"seafood", "pasta", "salad", "pork", "lamb"}

// WebhookClient plays the part of the voice platform against the webhook:
// it turns typed utterances into actions, carries the contexts between
// turns and follows up on events.
type WebhookClient struct {
	httpClient *http.Client
	BaseURL    string
	Project    string
	Token      string
	contexts   map[string]wireContext
}

type wireContext struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

type webhookRequest struct {
	Session     string `json:"session"`
	QueryResult struct {
		QueryText      string         `json:"queryText"`
		Action         string         `json:"action"`
		Parameters     map[string]any `json:"parameters,omitempty"`
		OutputContexts []wireContext  `json:"outputContexts,omitempty"`
		LanguageCode   string         `json:"languageCode"`
	} `json:"queryResult"`
}

type webhookResponse struct {
	FulfillmentText string `json:"fulfillmentText"`
	Payload         *struct {
		Google struct {
			ExpectUserResponse bool `json:"expectUserResponse"`
			RichResponse       struct {
				Suggestions []struct {
					Title string `json:"title"`
				} `json:"suggestions"`
			} `json:"richResponse"`
		} `json:"google"`
	} `json:"payload"`
	OutputContexts     []wireContext `json:"outputContexts"`
	FollowupEventInput *struct {
		Name string `json:"name"`
	} `json:"followupEventInput"`
}

// Reply is what the assistant said for one utterance
type Reply struct {
	Lines       []string
	Suggestions []string
	Ended       bool
}

// NewWebhookClient creates a client from VOICECHEF_API_URL, VOICECHEF_PROJECT
// and VOICECHEF_TOKEN
func NewWebhookClient() *WebhookClient {
	baseURL := os.Getenv("VOICECHEF_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	project := os.Getenv("VOICECHEF_PROJECT")
	if project == "" {
		project = "recipes"
	}
	return &WebhookClient{
		httpClient: &http.Client{Timeout: time.Second * 10},
		BaseURL:    baseURL,
		Project:    project,
		Token:      os.Getenv("VOICECHEF_TOKEN"),
		contexts:   make(map[string]wireContext),
	}
}

// CheckHealth checks if the API is up and running
func (c *WebhookClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// Say sends one typed utterance and resolves any follow-up events
func (c *WebhookClient) Say(utterance string) (*Reply, error) {
	action, params := c.Interpret(utterance)
	reply := &Reply{}

	// events bounce at most a couple of times before the user must speak
	for hop := 0; hop < 3; hop++ {
		resp, err := c.send(utterance, action, params)
		if err != nil {
			return nil, err
		}
		if resp.FulfillmentText != "" {
			reply.Lines = append(reply.Lines, resp.FulfillmentText)
		}
		if resp.Payload != nil {
			for _, s := range resp.Payload.Google.RichResponse.Suggestions {
				reply.Suggestions = append(reply.Suggestions, s.Title)
			}
			reply.Ended = !resp.Payload.Google.ExpectUserResponse
		}
		if resp.FollowupEventInput == nil {
			return reply, nil
		}

		switch resp.FollowupEventInput.Name {
		case "meal-category-selection":
			c.setContext(markerCategory, 5)
			reply.Lines = append(reply.Lines, "What would you like to cook today?")
			return reply, nil
		case "finish-recipe-finished":
			reply.Lines = append(reply.Lines, "Goodbye, Chef!")
			reply.Ended = true
			return reply, nil
		default:
			action, params = "input.unknown", nil
		}
	}
	return reply, nil
}

// Interpret maps an utterance to the action the platform's agent would
// match, using the live stage markers for bare navigation words
func (c *WebhookClient) Interpret(utterance string) (string, map[string]any) {
	words := strings.Fields(strings.ToLower(strings.Trim(utterance, " .!?")))
	if len(words) == 0 {
		return "input.unknown", nil
	}
	if c.Project != "recipes" {
		if containsAny(words, "news", "more", "bulletin") {
			return "request.news", nil
		}
		return "input.welcome", nil
	}

	for _, w := range words {
		for _, cat := range categories {
			if w == cat {
				return "select.meal_category", map[string]any{"meal-category": cat}
			}
		}
	}

	switch {
	case containsAny(words, "hi", "hello", "start"):
		return "input.welcome", nil
	case containsAny(words, "guidelines"):
		return "recipe-guidelines", nil
	case containsAny(words, "ingredients"):
		return "recipe-ingredients", nil
	case containsAny(words, "steps"):
		return "recipe-steps", nil
	}

	if c.hasContext(markerCategory) {
		switch {
		case containsAny(words, "yes", "yeah", "sure", "continue"):
			return "meal-category-selection.yes", nil
		case containsAny(words, "no", "nope", "other"):
			return "meal-category-selection.no", nil
		}
	}
	if c.hasContext(markerFinish) {
		switch {
		case containsAny(words, "more", "another", "recipes"):
			return "finish-recipe.another", nil
		case containsAny(words, "done", "finished", "bye", "no"):
			return "finish-recipe.finished", nil
		}
	}

	section := c.activeSection()
	if section != "" {
		switch {
		case containsAny(words, "next", "continue"):
			return section + ".next", nil
		case containsAny(words, "previous", "back"):
			return section + ".previous", nil
		case containsAny(words, "repeat", "again"):
			return section + ".repeat", nil
		case containsAny(words, "done", "finished"):
			return "meal-complete", nil
		}
	}
	return "input.unknown", nil
}

func (c *WebhookClient) activeSection() string {
	switch {
	case c.hasContext(markerGuidelines):
		return "recipe-guidelines"
	case c.hasContext(markerIngredients):
		return "recipe-ingredients"
	case c.hasContext(markerSteps):
		return "recipe-steps"
	default:
		return ""
	}
}

func (c *WebhookClient) send(utterance, action string, params map[string]any) (*webhookResponse, error) {
	var req webhookRequest
	req.Session = session
	req.QueryResult.QueryText = utterance
	req.QueryResult.Action = action
	req.QueryResult.Parameters = params
	req.QueryResult.LanguageCode = "en"
	for _, ctx := range c.contexts {
		req.QueryResult.OutputContexts = append(req.QueryResult.OutputContexts, ctx)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequest("POST", fmt.Sprintf("%s/webhook/%s", c.BaseURL, c.Project), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out webhookResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	c.age()
	for _, ctx := range out.OutputContexts {
		if ctx.LifespanCount <= 0 {
			delete(c.contexts, ctx.Name)
			continue
		}
		c.contexts[ctx.Name] = ctx
	}
	return &out, nil
}

// age counts a turn off every context, as the platform does
func (c *WebhookClient) age() {
	for name, ctx := range c.contexts {
		ctx.LifespanCount--
		if ctx.LifespanCount <= 0 {
			delete(c.contexts, name)
			continue
		}
		c.contexts[name] = ctx
	}
}

func (c *WebhookClient) setContext(name string, lifespan int) {
	c.contexts[contextPrefix+name] = wireContext{Name: contextPrefix + name, LifespanCount: lifespan}
}

func (c *WebhookClient) hasContext(name string) bool {
	_, ok := c.contexts[contextPrefix+name]
	return ok
}

func containsAny(words []string, want ...string) bool {
	for _, w := range words {
		for _, x := range want {
			if w == x {
				return true
			}
		}
	}
	return false
}
