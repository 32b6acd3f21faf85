package api

import (
	"maps"
	"slices"
	"sync"

	"voicechef/internal/dialog"
)

// Reply kinds
const (
	ReplyAsk   = "ask"
	ReplyTell  = "tell"
	ReplyEvent = "event"
)

// Session is the context store and response sink of one webhook request.
// Contexts start as the request's output contexts; every change is echoed
// back in the response. It answers exactly once.
type Session struct {
	mu       sync.Mutex
	path     string
	language string
	live     map[string]dialog.Context
	touched  []string

	reply    string
	response dialog.Response
	event    string
}

// Compile-time interface checks.
var (
	_ dialog.ContextStore = (*Session)(nil)
	_ dialog.ResponseSink = (*Session)(nil)
)

// NewSession reads the session state out of req
func NewSession(req *WebhookRequest) *Session {
	s := &Session{
		path:     req.Session,
		language: req.QueryResult.LanguageCode,
		live:     make(map[string]dialog.Context, len(req.QueryResult.OutputContexts)),
	}
	if s.language == "" {
		s.language = "en"
	}
	for _, wc := range req.QueryResult.OutputContexts {
		name := contextName(wc.Name)
		s.live[name] = dialog.Context{Name: name, Lifespan: wc.LifespanCount, Parameters: wc.Parameters}
	}
	return s
}

// Get returns a live context
func (s *Session) Get(name string) (dialog.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.live[name]
	return c, ok
}

// Set writes a context; a lifespan of zero or less removes it
func (s *Session) Set(name string, lifespan int, params map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, alive := s.live[name]
	touched := slices.Contains(s.touched, name)
	if lifespan <= 0 && !alive && !touched {
		return
	}
	if !touched {
		s.touched = append(s.touched, name)
	}
	if lifespan <= 0 {
		delete(s.live, name)
		return
	}
	s.live[name] = dialog.Context{Name: name, Lifespan: lifespan, Parameters: maps.Clone(params)}
}

// List returns the live context names, sorted
func (s *Session) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.live))
}

// Ask answers and keeps the microphone open
func (s *Session) Ask(r dialog.Response) bool {
	return s.send(ReplyAsk, r, "")
}

// Tell answers and ends the conversation
func (s *Session) Tell(r dialog.Response) bool {
	return s.send(ReplyTell, r, "")
}

// EmitEvent answers with a follow-up event
func (s *Session) EmitEvent(name string) {
	s.send(ReplyEvent, dialog.Response{}, name)
}

func (s *Session) send(kind string, r dialog.Response, event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reply != "" {
		return false
	}
	s.reply = kind
	s.response = r
	s.event = event
	return true
}

// Reply returns how the session was answered, empty when it wasn't
func (s *Session) Reply() (kind string, r dialog.Response, event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reply, s.response, s.event
}

// WebhookResponse renders the answer and the changed contexts
func (s *Session) WebhookResponse() WebhookResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out WebhookResponse
	for _, name := range s.touched {
		wc := WireContext{Name: s.fullName(name)}
		if c, ok := s.live[name]; ok {
			wc.LifespanCount = c.Lifespan
			wc.Parameters = c.Parameters
		}
		out.OutputContexts = append(out.OutputContexts, wc)
	}

	switch s.reply {
	case ReplyEvent:
		out.FollowupEventInput = &EventInput{Name: s.event, LanguageCode: s.language}
	case ReplyAsk, ReplyTell:
		out.FulfillmentText = s.response.Text()
		out.Payload = &ResponsePayload{Google: googleResponse(s.response, s.reply == ReplyAsk)}
	}
	return out
}

func (s *Session) fullName(name string) string {
	if s.path == "" {
		return name
	}
	return s.path + contextsSegment + name
}

// googleResponse renders r as an Actions on Google rich response. The
// platform allows at most two simple responses, so later speech lines are
// folded into the second.
func googleResponse(r dialog.Response, expectUser bool) GoogleResponse {
	rich := RichResponse{}
	speech := r.Speech
	if len(speech) > 2 {
		rest := dialog.Say(speech[1:]...).Text()
		speech = []string{speech[0], rest}
	}
	for _, line := range speech {
		rich.Items = append(rich.Items, Item{SimpleResponse: &SimpleResponse{TextToSpeech: line}})
	}
	if r.Card != nil {
		rich.Items = append(rich.Items, Item{BasicCard: &BasicCard{
			Image: &Image{URL: r.Card.ImageURL, AccessibilityText: r.Card.AltText},
		}})
	}
	if r.Media != nil {
		obj := MediaObject{Name: r.Media.Name, Description: r.Media.Description, ContentURL: r.Media.URL}
		if r.Media.ImageURL != "" {
			obj.LargeImage = &Image{URL: r.Media.ImageURL, AccessibilityText: r.Media.Name}
		}
		rich.Items = append(rich.Items, Item{MediaResponse: &MediaResponse{
			MediaType:    "AUDIO",
			MediaObjects: []MediaObject{obj},
		}})
	}
	for _, title := range r.Suggestions {
		rich.Suggestions = append(rich.Suggestions, Suggestion{Title: title})
	}
	if r.Link != nil {
		rich.LinkOutSuggestion = &LinkOutSuggestion{DestinationName: r.Link.Name, URL: r.Link.URL}
	}
	return GoogleResponse{ExpectUserResponse: expectUser, RichResponse: rich}
}
