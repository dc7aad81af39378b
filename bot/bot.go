// Package bot connects the Slack surface to Ombi. It receives slash commands
// and button clicks over Socket Mode, runs them through the filter and
// formatter pipeline, and replies with ephemeral attachments.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/s0up4200/ombibot/config"
	"github.com/s0up4200/ombibot/filter"
	"github.com/s0up4200/ombibot/ombi"
	"github.com/s0up4200/ombibot/store"
)

// OmbiClient is the slice of the Ombi API the bot consumes
type OmbiClient interface {
	Login(ctx context.Context, username, password string) (*ombi.LoginResponse, error)
	Requests(ctx context.Context, mediaType ombi.MediaType) ([]ombi.MediaRequest, error)
	Search(ctx context.Context, mediaType ombi.MediaType, term string) ([]ombi.SearchResult, error)
	RequestMovie(ctx context.Context, theMovieDbID int) (*ombi.ActionResult, error)
	RequestTV(ctx context.Context, id int, scope ombi.SeasonScope) (*ombi.ActionResult, error)
	Approve(ctx context.Context, mediaType ombi.MediaType, id int) (*ombi.ActionResult, error)
	Deny(ctx context.Context, mediaType ombi.MediaType, id int) (*ombi.ActionResult, error)
	MarkAvailable(ctx context.Context, mediaType ombi.MediaType, id int) (*ombi.ActionResult, error)
	MarkUnavailable(ctx context.Context, mediaType ombi.MediaType, id int) (*ombi.ActionResult, error)
	Delete(ctx context.Context, mediaType ombi.MediaType, id int) error
}

// Bot runs the Socket Mode event loop and dispatches commands
type Bot struct {
	client   *slack.Client
	socket   *socketmode.Client
	settings *store.SettingsRepository
	compiler filter.Compiler
	logger   zerolog.Logger

	botName       string
	iconURL       string
	defaultServer string

	// newOmbi builds a per-user API client; swapped out in tests
	newOmbi func(server, token string) (OmbiClient, error)
	// now feeds every date comparison so replies are deterministic under test
	now func() time.Time
}

// New creates a Bot from the loaded configuration
func New(cfg *config.Config, settings *store.SettingsRepository, logger zerolog.Logger) *Bot {
	api := slack.New(
		cfg.Slack.BotToken,
		slack.OptionAppLevelToken(cfg.Slack.AppToken),
	)
	b := &Bot{
		client:        api,
		socket:        socketmode.New(api),
		settings:      settings,
		compiler:      filter.NewCompiler(),
		logger:        logger.With().Str("component", "bot").Logger(),
		botName:       cfg.Slack.BotName,
		iconURL:       cfg.Slack.IconURL,
		defaultServer: cfg.Ombi.DefaultServer,
		now:           time.Now,
	}
	b.newOmbi = func(server, token string) (OmbiClient, error) {
		return ombi.NewClient(server, token, logger)
	}
	return b
}

// Run connects to Slack and processes events until the context is canceled
func (b *Bot) Run(ctx context.Context) error {
	go b.consumeEvents(ctx)
	return b.socket.RunContext(ctx)
}

func (b *Bot) consumeEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.socket.Events:
			if !ok {
				return
			}
			b.handleEvent(ctx, evt)
		}
	}
}

func (b *Bot) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		b.logger.Debug().
			Str("command", cmd.Command).
			Str("user", cmd.UserID).
			Msg("Received slash command")
		go b.dispatch(ctx, invocation{
			Name:      cmd.Command,
			Args:      strings.Fields(cmd.Text),
			Raw:       strings.TrimSpace(cmd.Text),
			UserID:    cmd.UserID,
			ChannelID: cmd.ChannelID,
		})

	case socketmode.EventTypeInteractive:
		cb, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		if inv, ok := buttonInvocation(&cb); ok {
			b.logger.Debug().
				Str("command", inv.Name).
				Str("user", inv.UserID).
				Msg("Received button click")
			go b.dispatch(ctx, inv)
		}

	case socketmode.EventTypeConnectionError:
		b.logger.Warn().Msg("Socket Mode connection error, retrying")
	case socketmode.EventTypeConnected:
		b.logger.Info().Msg("Connected to Slack")
	}
}

// buttonInvocation decodes a button click. Button values carry the equivalent
// slash command line (for example "/ombi-approve movie 42") so clicks replay
// through the same dispatch path as typed commands.
func buttonInvocation(cb *slack.InteractionCallback) (invocation, bool) {
	if len(cb.ActionCallback.AttachmentActions) == 0 {
		return invocation{}, false
	}
	value := cb.ActionCallback.AttachmentActions[0].Value
	fields := strings.Fields(value)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return invocation{}, false
	}
	return invocation{
		Name:      fields[0],
		Args:      fields[1:],
		Raw:       strings.Join(fields[1:], " "),
		UserID:    cb.User.ID,
		ChannelID: cb.Channel.ID,
	}, true
}
