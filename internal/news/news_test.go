package news

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicechef/internal/conversation"
	"voicechef/internal/dialog"
)

const bulletinPage = `<html><body>
<div id="NewsBulletinAudio" name="NewsBulletinAudio">
  <span data-location="jhb" data-audiourl="http://audio.test/jhb.mp3"></span>
  <span data-location="cpt" data-audiourl="http://audio.test/cpt.mp3"></span>
</div>
</body></html>`

func newSite(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScraperBulletin(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		want    string
		wantErr error
	}{
		{name: "cape town bulletin", body: bulletinPage, status: http.StatusOK, want: "http://audio.test/cpt.mp3"},
		{name: "no player", body: "<html><body><p>nothing</p></body></html>", status: http.StatusOK, wantErr: ErrBulletinNotFound},
		{name: "server error", body: "", status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSite(t, tt.body, tt.status)
			s := NewScraper(srv.URL, time.Second, "voicechef-test")

			got, err := s.Bulletin(context.Background())
			if tt.want == "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// the page can be scraped again
			got, err = s.Bulletin(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type staticSource struct {
	url string
	err error
}

func (s staticSource) Bulletin(context.Context) (string, error) { return s.url, s.err }

func handle(t *testing.T, a *Action, action string, params map[string]any) dialog.Reply {
	t.Helper()
	return handleOn(t, a, action, params, true)
}

func handleOn(t *testing.T, a *Action, action string, params map[string]any, screen bool) dialog.Reply {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cv := conversation.NewConversation("ewn-news", a.Routes(), []string{Welcome}, nil, log)
	rec := &dialog.Recorder{}
	turn := &conversation.Turn{Intent: action, Params: params, ScreenOutput: screen, Contexts: dialog.NewMemoryStore(), Sink: rec}
	require.NoError(t, cv.Handle(context.Background(), turn))
	reply, ok := rec.Last()
	require.True(t, ok)
	return reply
}

func TestDeliver(t *testing.T) {
	a := NewAction(staticSource{url: "http://audio.test/cpt.mp3"}, nil)
	reply := handle(t, a, ActionRequestNews, nil)

	assert.Equal(t, []string{introMsg, bulletinMsg}, reply.Response.Speech)
	require.NotNil(t, reply.Response.Media)
	assert.Equal(t, dialog.Media{
		Name:        "EWN News",
		URL:         "http://audio.test/cpt.mp3",
		Description: "South African news from EWN.",
		ImageURL:    logoURL,
	}, *reply.Response.Media)
	assert.Equal(t, []string{"More news"}, reply.Response.Suggestions)
	assert.Equal(t, &dialog.Link{Name: "EWN news", URL: DefaultURL}, reply.Response.Link)

	// welcome plays the bulletin too; a speaker gets no chips
	reply = handleOn(t, a, conversation.ActionWelcome, nil, false)
	assert.NotNil(t, reply.Response.Media)
	assert.Empty(t, reply.Response.Suggestions)
	assert.Nil(t, reply.Response.Link)
}

func TestDeliverFailure(t *testing.T) {
	a := NewAction(staticSource{err: ErrBulletinNotFound}, nil)
	reply := handle(t, a, ActionRequestNews, nil)
	assert.Equal(t, failedMsg, reply.Response.Text())
	assert.Nil(t, reply.Response.Media)
}

func TestMediaStatus(t *testing.T) {
	a := NewAction(staticSource{}, nil)
	reply := handle(t, a, ActionMediaStatus, map[string]any{ParamMediaStatus: MediaStatusFinished})
	assert.Equal(t, finishedMsg, reply.Response.Text())

	reply = handle(t, a, ActionMediaStatus, map[string]any{ParamMediaStatus: "STATUS_UNSPECIFIED"})
	assert.Equal(t, brokenMsg, reply.Response.Text())
}
