package bot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ombibot/filter"
	"github.com/s0up4200/ombibot/message"
	"github.com/s0up4200/ombibot/ombi"
	"github.com/s0up4200/ombibot/store"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeOmbi is a canned OmbiClient for handler tests
type fakeOmbi struct {
	loginResp  *ombi.LoginResponse
	requests   []ombi.MediaRequest
	results    []ombi.SearchResult
	action     *ombi.ActionResult
	err        error
	lastAction string
}

func (f *fakeOmbi) Login(ctx context.Context, username, password string) (*ombi.LoginResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.loginResp, nil
}

func (f *fakeOmbi) Requests(ctx context.Context, mediaType ombi.MediaType) ([]ombi.MediaRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.requests, nil
}

func (f *fakeOmbi) Search(ctx context.Context, mediaType ombi.MediaType, term string) ([]ombi.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeOmbi) RequestMovie(ctx context.Context, theMovieDbID int) (*ombi.ActionResult, error) {
	f.lastAction = "request-movie"
	return f.action, f.err
}

func (f *fakeOmbi) RequestTV(ctx context.Context, id int, scope ombi.SeasonScope) (*ombi.ActionResult, error) {
	f.lastAction = "request-tv-" + string(scope)
	return f.action, f.err
}

func (f *fakeOmbi) Approve(ctx context.Context, mediaType ombi.MediaType, id int) (*ombi.ActionResult, error) {
	f.lastAction = "approve"
	return f.action, f.err
}

func (f *fakeOmbi) Deny(ctx context.Context, mediaType ombi.MediaType, id int) (*ombi.ActionResult, error) {
	f.lastAction = "deny"
	return f.action, f.err
}

func (f *fakeOmbi) MarkAvailable(ctx context.Context, mediaType ombi.MediaType, id int) (*ombi.ActionResult, error) {
	f.lastAction = "available"
	return f.action, f.err
}

func (f *fakeOmbi) MarkUnavailable(ctx context.Context, mediaType ombi.MediaType, id int) (*ombi.ActionResult, error) {
	f.lastAction = "unavailable"
	return f.action, f.err
}

func (f *fakeOmbi) Delete(ctx context.Context, mediaType ombi.MediaType, id int) error {
	f.lastAction = "delete"
	return f.err
}

func newTestBot(t *testing.T, fake *fakeOmbi) *Bot {
	t.Helper()
	db, err := store.NewDB(store.Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Bot{
		settings: store.NewSettingsRepository(db.Connection()),
		compiler: filter.NewCompiler(),
		logger:   zerolog.Nop(),
		botName:  "Ombi Bot",
		newOmbi: func(server, token string) (OmbiClient, error) {
			return fake, nil
		},
		now: func() time.Time { return testNow },
	}
}

// loggedIn seeds the settings a real user would have after set-server + login
func loggedIn(t *testing.T, b *Bot) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, b.settings.SetServer(ctx, "U1", "http://ombi.local"))
	require.NoError(t, b.settings.SetToken(ctx, "U1", "jwt"))
}

func inv(name string, args ...string) invocation {
	raw := ""
	for i, a := range args {
		if i > 0 {
			raw += " "
		}
		raw += a
	}
	return invocation{Name: name, Args: args, Raw: raw, UserID: "U1", ChannelID: "C1"}
}

func boolPtr(b bool) *bool { return &b }

func TestHandleRequiresServer(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{})

	units := b.handle(context.Background(), inv("/ombi-requests", "movie"))
	require.Len(t, units, 1)
	assert.Equal(t, "No Server Set!", units[0].Title.Text)
	assert.Equal(t, message.ColorError, units[0].Color)
}

func TestHandleRequiresToken(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{})
	require.NoError(t, b.settings.SetServer(context.Background(), "U1", "http://ombi.local"))

	units := b.handle(context.Background(), inv("/ombi-requests", "movie"))
	require.Len(t, units, 1)
	assert.Equal(t, "Token Expired!", units[0].Title.Text)
}

func TestHandleDefaultServerFallback(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{})
	b.defaultServer = "http://default.local"
	require.NoError(t, b.settings.SetToken(context.Background(), "U1", "jwt"))

	units := b.handle(context.Background(), inv("/ombi-requests", "movie"))
	// reaches the fetch stage and returns an empty result list
	require.NotEmpty(t, units)
	assert.Equal(t, "Results (0)", units[0].Title.Text)
}

func TestHandleRejectedTokenPromptsLogin(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{err: ombi.ErrUnauthorized})
	loggedIn(t, b)

	units := b.handle(context.Background(), inv("/ombi-requests", "movie"))
	require.Len(t, units, 1)
	assert.Equal(t, "Token Expired!", units[0].Title.Text)
}

func TestHandleRequestsPipeline(t *testing.T) {
	fake := &fakeOmbi{requests: []ombi.MediaRequest{
		{ID: 1, Title: "Old Approved", Approved: boolPtr(true), Available: boolPtr(false),
			RequestedDate: &ombi.Time{Time: testNow.AddDate(0, 0, -30)}},
		{ID: 2, Title: "New Approved", Approved: boolPtr(true), Available: boolPtr(false),
			RequestedDate: &ombi.Time{Time: testNow.AddDate(0, 0, -1)}},
		{ID: 3, Title: "Pending", Approved: boolPtr(false), Available: boolPtr(false),
			RequestedDate: &ombi.Time{Time: testNow.AddDate(0, 0, -2)}},
	}}
	b := newTestBot(t, fake)
	loggedIn(t, b)

	units := b.handle(context.Background(), inv("/ombi-requests", "movie", "approved"))
	require.Len(t, units, 3)
	assert.Equal(t, "Results (2)", units[0].Title.Text)
	// filtered to approved, newest first
	assert.Contains(t, units[1].Title.Text, "New Approved")
	assert.Contains(t, units[2].Title.Text, "Old Approved")
}

func TestHandleRequestsTitleQuery(t *testing.T) {
	fake := &fakeOmbi{requests: []ombi.MediaRequest{
		{ID: 1, Title: "The Matrix", Approved: boolPtr(true)},
		{ID: 2, Title: "Dune", Approved: boolPtr(true)},
	}}
	b := newTestBot(t, fake)
	loggedIn(t, b)

	// "matrix" is not a filter name, so it becomes the title query
	units := b.handle(context.Background(), inv("/ombi-requests", "movie", "matrix"))
	require.Len(t, units, 2)
	assert.Equal(t, "Results (1)", units[0].Title.Text)
	assert.Contains(t, units[1].Title.Text, "The Matrix")
}

func TestHandleRequestsFilterThenQuery(t *testing.T) {
	fake := &fakeOmbi{requests: []ombi.MediaRequest{
		{ID: 1, Title: "The Matrix", Approved: boolPtr(true)},
		{ID: 2, Title: "The Matrix Reloaded", Approved: boolPtr(false)},
	}}
	b := newTestBot(t, fake)
	loggedIn(t, b)

	units := b.handle(context.Background(), inv("/ombi-requests", "movie", "approved", "matrix"))
	require.Len(t, units, 2)
	assert.Contains(t, units[1].Title.Text, "The Matrix")
}

func TestHandleRequestsWhereExpression(t *testing.T) {
	fake := &fakeOmbi{requests: []ombi.MediaRequest{
		{ID: 1, Title: "Mini", TotalSeasons: 1},
		{ID: 2, Title: "Long Runner", TotalSeasons: 5},
	}}
	b := newTestBot(t, fake)
	loggedIn(t, b)

	// the expression arrives whitespace-split like any slash-command text
	units := b.handle(context.Background(), inv("/ombi-requests", "show", "where:TotalSeasons", ">", "1"))
	require.Len(t, units, 2)
	assert.Equal(t, "Results (1)", units[0].Title.Text)
	assert.Contains(t, units[1].Title.Text, "Long Runner")
}

func TestHandleRequestsStatusThenWhereExpression(t *testing.T) {
	fake := &fakeOmbi{requests: []ombi.MediaRequest{
		{ID: 1, Title: "Mini", Approved: boolPtr(true), TotalSeasons: 1},
		{ID: 2, Title: "Long Runner", Approved: boolPtr(true), TotalSeasons: 5},
		{ID: 3, Title: "Pending Epic", Approved: boolPtr(false), TotalSeasons: 9},
	}}
	b := newTestBot(t, fake)
	loggedIn(t, b)

	units := b.handle(context.Background(), inv("/ombi-requests", "show", "approved,where:TotalSeasons", ">", "1"))
	require.Len(t, units, 2)
	assert.Equal(t, "Results (1)", units[0].Title.Text)
	assert.Contains(t, units[1].Title.Text, "Long Runner")
}

func TestHandleRequestsMediaTypeCaseInsensitive(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{})
	loggedIn(t, b)

	units := b.handle(context.Background(), inv("/ombi-requests", "Movie"))
	require.NotEmpty(t, units)
	assert.Equal(t, "Results (0)", units[0].Title.Text)
}

func TestHandleRequestsShowSynonym(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{})
	loggedIn(t, b)

	units := b.handle(context.Background(), inv("/ombi-requests", "show"))
	require.NotEmpty(t, units)
	assert.Equal(t, "Results (0)", units[0].Title.Text)
}

func TestHandleUsageErrors(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{})
	loggedIn(t, b)

	tests := []struct {
		name string
		inv  invocation
	}{
		{"requests without media type", inv("/ombi-requests")},
		{"requests with bad media type", inv("/ombi-requests", "podcast")},
		{"search without term", inv("/ombi-search", "movie")},
		{"login without password", inv("/ombi-login", "alice")},
		{"set-server without address", inv("/ombi-set-server")},
		{"approve without id", inv("/ombi-approve", "movie")},
		{"approve with bad id", inv("/ombi-approve", "movie", "abc")},
		{"request tv without scope", inv("/ombi-request", "show", "42")},
		{"request tv with bad scope", inv("/ombi-request", "show", "42", "second")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := b.handle(context.Background(), tt.inv)
			require.Len(t, units, 1)
			assert.Equal(t, "Usage", units[0].Title.Text)
			assert.Equal(t, message.ColorError, units[0].Color)
		})
	}
}

func TestHandleLoginStoresToken(t *testing.T) {
	fake := &fakeOmbi{loginResp: &ombi.LoginResponse{AccessToken: "fresh-jwt", Expiration: "2026-06-02T12:00:00Z"}}
	b := newTestBot(t, fake)
	require.NoError(t, b.settings.SetServer(context.Background(), "U1", "http://ombi.local"))

	units := b.handle(context.Background(), inv("/ombi-login", "alice", "hunter2"))
	require.Len(t, units, 1)
	assert.Equal(t, "Logged In!", units[0].Title.Text)
	assert.Contains(t, units[0].Text, "2026-06-02T12:00:00Z")

	// follow-up shortcuts replay through the same dispatch path as typed commands
	require.Len(t, units[0].Actions, 4)
	assert.Equal(t, "Search for Movie", units[0].Actions[0].Text)
	assert.Equal(t, "/ombi-requests movie unavailable", units[0].Actions[2].Msg)

	token, err := b.settings.Token(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "fresh-jwt", token)
}

func TestHandleLoginBadCredentials(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{err: ombi.ErrUnauthorized})
	require.NoError(t, b.settings.SetServer(context.Background(), "U1", "http://ombi.local"))

	units := b.handle(context.Background(), inv("/ombi-login", "alice", "wrong"))
	require.Len(t, units, 1)
	assert.Equal(t, "Login Failed!", units[0].Title.Text)
}

func TestHandleSetServer(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{})

	t.Run("valid", func(t *testing.T) {
		units := b.handle(context.Background(), inv("/ombi-set-server", "http://ombi.local/"))
		require.Len(t, units, 1)
		assert.Equal(t, "Server Saved!", units[0].Title.Text)

		server, err := b.settings.Server(context.Background(), "U1")
		require.NoError(t, err)
		assert.Equal(t, "http://ombi.local", server)
	})

	t.Run("missing scheme", func(t *testing.T) {
		units := b.handle(context.Background(), inv("/ombi-set-server", "ombi.local"))
		require.Len(t, units, 1)
		assert.Equal(t, "Invalid Server!", units[0].Title.Text)
	})
}

func TestHandleActions(t *testing.T) {
	tests := []struct {
		command    string
		wantAction string
	}{
		{"/ombi-approve", "approve"},
		{"/ombi-deny", "deny"},
		{"/ombi-markavailable", "available"},
		{"/ombi-markunavailable", "unavailable"},
		{"/ombi-delete", "delete"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			fake := &fakeOmbi{action: &ombi.ActionResult{}}
			b := newTestBot(t, fake)
			loggedIn(t, b)

			units := b.handle(context.Background(), inv(tt.command, "movie", "42"))
			require.Len(t, units, 1)
			assert.Equal(t, "Done!", units[0].Title.Text)
			assert.Equal(t, tt.wantAction, fake.lastAction)
		})
	}
}

func TestHandleActionBackendRejection(t *testing.T) {
	fake := &fakeOmbi{action: &ombi.ActionResult{IsError: true, ErrorMessage: "already approved"}}
	b := newTestBot(t, fake)
	loggedIn(t, b)

	units := b.handle(context.Background(), inv("/ombi-approve", "movie", "42"))
	require.Len(t, units, 1)
	assert.Equal(t, message.ColorError, units[0].Color)
	assert.Contains(t, units[0].Text, "already approved")
}

func TestHandleRequestMovieAndShow(t *testing.T) {
	fake := &fakeOmbi{action: &ombi.ActionResult{Message: "Request added"}}
	b := newTestBot(t, fake)
	loggedIn(t, b)

	units := b.handle(context.Background(), inv("/ombi-request", "movie", "603"))
	require.Len(t, units, 1)
	assert.Equal(t, "Done!", units[0].Title.Text)
	assert.Contains(t, units[0].Text, "Request added")
	assert.Equal(t, "request-movie", fake.lastAction)

	units = b.handle(context.Background(), inv("/ombi-request", "show", "371980", "latest"))
	require.Len(t, units, 1)
	assert.Equal(t, "request-tv-latest", fake.lastAction)
}

func TestHandleSearch(t *testing.T) {
	fake := &fakeOmbi{results: []ombi.SearchResult{
		{ID: 603, Title: "The Matrix"},
		{ID: 0, Title: "Placeholder"},
	}}
	b := newTestBot(t, fake)
	loggedIn(t, b)

	units := b.handle(context.Background(), inv("/ombi-search", "movie", "the", "matrix"))
	require.Len(t, units, 2)
	assert.Equal(t, "Results (1)", units[0].Title.Text)
}

func TestHandleHelp(t *testing.T) {
	b := newTestBot(t, &fakeOmbi{})

	t.Run("no server stored", func(t *testing.T) {
		units := b.handle(context.Background(), inv("/ombi"))
		require.Len(t, units, 1)
		assert.Contains(t, units[0].Text, "/ombi-requests")
		assert.Contains(t, units[0].Text, "/ombi-login")
		assert.Empty(t, units[0].Fields)
	})

	t.Run("stored server shown", func(t *testing.T) {
		require.NoError(t, b.settings.SetServer(context.Background(), "U1", "http://ombi.local"))

		units := b.handle(context.Background(), inv("/ombi"))
		require.Len(t, units, 1)
		require.Len(t, units[0].Fields, 1)
		assert.Equal(t, "Server", units[0].Fields[0].Title)
		assert.Equal(t, "http://ombi.local", units[0].Fields[0].Value)
		assert.True(t, units[0].Fields[0].Short)
	})
}

func TestButtonInvocation(t *testing.T) {
	t.Run("command button", func(t *testing.T) {
		cb := &slack.InteractionCallback{
			User: slack.User{ID: "U1"},
			ActionCallback: slack.ActionCallbacks{
				AttachmentActions: []*slack.AttachmentAction{{Value: "/ombi-approve movie 42"}},
			},
		}
		cb.Channel.ID = "C1"

		got, ok := buttonInvocation(cb)
		require.True(t, ok)
		assert.Equal(t, "/ombi-approve", got.Name)
		assert.Equal(t, []string{"movie", "42"}, got.Args)
		assert.Equal(t, "U1", got.UserID)
		assert.Equal(t, "C1", got.ChannelID)
	})

	t.Run("non-command value ignored", func(t *testing.T) {
		cb := &slack.InteractionCallback{
			ActionCallback: slack.ActionCallbacks{
				AttachmentActions: []*slack.AttachmentAction{{Value: "not a command"}},
			},
		}
		_, ok := buttonInvocation(cb)
		assert.False(t, ok)
	})

	t.Run("empty callback ignored", func(t *testing.T) {
		_, ok := buttonInvocation(&slack.InteractionCallback{})
		assert.False(t, ok)
	})
}
