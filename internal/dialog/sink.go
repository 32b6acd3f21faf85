package dialog

import (
	"strings"
	"sync"
)

// Response is what the assistant says and, on devices with a screen, shows
type Response struct {
	Speech      []string
	Card        *Card
	Suggestions []string
	Link        *Link
	Media       *Media
}

// Card is a basic visual card holding an image
type Card struct {
	ImageURL string
	AltText  string
}

// Link is a link-out suggestion chip
type Link struct {
	Name string
	URL  string
}

// Media is a playable audio object
type Media struct {
	Name        string
	URL         string
	Description string
	ImageURL    string
}

// Say builds a plain speech response
func Say(lines ...string) Response {
	return Response{Speech: lines}
}

// Text joins the speech lines with spaces
func (r Response) Text() string {
	return strings.Join(r.Speech, " ")
}

// Rich reports whether the response carries anything beyond speech
func (r Response) Rich() bool {
	return r.Card != nil || len(r.Suggestions) > 0 || r.Link != nil || r.Media != nil
}

// ResponseSink is the platform's one-shot outbound channel for a turn. Ask
// expects the user to answer, Tell ends the conversation and EmitEvent asks
// the platform to re-dispatch a follow-up event instead of answering. Ask
// and Tell report false when the platform rejected the response.
type ResponseSink interface {
	Ask(r Response) bool
	Tell(r Response) bool
	EmitEvent(name string)
}

// Compile-time interface check.
var _ ResponseSink = (*Recorder)(nil)

// Reply is one recorded sink call
type Reply struct {
	Kind     string // "ask", "tell" or "event"
	Response Response
	Event    string
}

// Recorder is a ResponseSink that keeps every reply. Fail makes Ask and Tell
// report a rejected response.
type Recorder struct {
	mu      sync.Mutex
	Fail    bool
	Replies []Reply
}

// Ask records an ask reply
func (r *Recorder) Ask(resp Response) bool {
	return r.record(Reply{Kind: "ask", Response: resp})
}

// Tell records a tell reply
func (r *Recorder) Tell(resp Response) bool {
	return r.record(Reply{Kind: "tell", Response: resp})
}

// EmitEvent records a follow-up event
func (r *Recorder) EmitEvent(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Replies = append(r.Replies, Reply{Kind: "event", Event: name})
}

func (r *Recorder) record(reply Reply) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return false
	}
	r.Replies = append(r.Replies, reply)
	return true
}

// Last returns the most recent reply
func (r *Recorder) Last() (Reply, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Replies) == 0 {
		return Reply{}, false
	}
	return r.Replies[len(r.Replies)-1], true
}

// Reset drops the recorded replies
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Replies = nil
}
