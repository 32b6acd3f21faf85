package news

import (
	"context"
	"log/slog"

	"voicechef/internal/conversation"
	"voicechef/internal/dialog"
)

// Actions answered by the news conversation
const (
	ActionRequestNews = "request.news"
	ActionMediaStatus = "actions.intent.MEDIA_STATUS"
)

// ParamMediaStatus carries the platform's media playback status
const ParamMediaStatus = "media_status"

// MediaStatusFinished is reported when the bulletin played to the end
const MediaStatusFinished = "FINISHED"

// Welcome is the news conversation's default greeting
const Welcome = "Welcome to EWN News! Your source of local South African news."

const (
	introMsg    = "Welcome to Eye Witness News! Your source of South African news."
	bulletinMsg = "Here's your news bulletin..."
	failedMsg   = "We couldn't fetch Eye Witness News right now. Try again later."
	finishedMsg = "The audio is finished playing."
	brokenMsg   = "Something went wrong with the audio."

	logoURL = "http://ewn.co.za/site/design/img/ewn-logo.png"
)

// Action plays the news bulletin
type Action struct {
	source BulletinSource
	log    *slog.Logger
}

// NewAction creates a news action reading bulletins from source
func NewAction(source BulletinSource, log *slog.Logger) *Action {
	if log == nil {
		log = slog.Default()
	}
	return &Action{source: source, log: log}
}

// Deliver finds the current bulletin and plays it. Audio plays on every
// device; chips and the site link need a screen. When the bulletin can't be
// found the user is told to try again later.
func (a *Action) Deliver(ctx context.Context, turn *conversation.Turn) error {
	audio, err := a.source.Bulletin(ctx)
	if err != nil {
		a.log.Error("Failed to fetch news bulletin", "error", err)
		if !turn.Sink.Ask(dialog.Say(failedMsg)) {
			return conversation.ErrResponseFailed
		}
		return nil
	}

	a.log.Info("Playing news bulletin", "url", audio)
	resp := dialog.Response{
		Speech: []string{introMsg, bulletinMsg},
		Media: &dialog.Media{
			Name:        "EWN News",
			URL:         audio,
			Description: "South African news from EWN.",
			ImageURL:    logoURL,
		},
	}
	if turn.ScreenOutput {
		resp.Suggestions = []string{"More news"}
		resp.Link = &dialog.Link{Name: "EWN news", URL: DefaultURL}
	}
	if !turn.Sink.Ask(resp) {
		return conversation.ErrResponseFailed
	}
	return nil
}

// MediaStatus answers the platform's report that playback stopped
func (a *Action) MediaStatus(ctx context.Context, turn *conversation.Turn) error {
	msg := brokenMsg
	if turn.Param(ParamMediaStatus) == MediaStatusFinished {
		msg = finishedMsg
	}
	if !turn.Sink.Ask(dialog.Say(msg)) {
		return conversation.ErrResponseFailed
	}
	return nil
}

// Routes returns the news conversation's action table
func (a *Action) Routes() []conversation.Route {
	return []conversation.Route{
		{Action: conversation.ActionWelcome, Op: "news", Handler: a.Deliver},
		{Action: ActionRequestNews, Op: "news", Handler: a.Deliver},
		{Action: ActionMediaStatus, Op: "media_status", Handler: a.MediaStatus},
	}
}
