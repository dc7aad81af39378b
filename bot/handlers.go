package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/s0up4200/ombibot/filter"
	"github.com/s0up4200/ombibot/message"
	"github.com/s0up4200/ombibot/ombi"
)

// invocation is one command to execute, whether typed or clicked
type invocation struct {
	Name      string
	Args      []string
	Raw       string
	UserID    string
	ChannelID string
}

func (b *Bot) dispatch(ctx context.Context, inv invocation) {
	units := b.handle(ctx, inv)
	if len(units) == 0 {
		return
	}
	b.respond(ctx, inv, units)
}

func (b *Bot) handle(ctx context.Context, inv invocation) []message.Attachment {
	switch inv.Name {
	case "/ombi":
		return b.help(ctx, inv)
	case "/ombi-set-server":
		return b.setServer(ctx, inv)
	case "/ombi-login":
		return b.login(ctx, inv)
	case "/ombi-requests":
		return b.requests(ctx, inv)
	case "/ombi-search":
		return b.search(ctx, inv)
	case "/ombi-request":
		return b.request(ctx, inv)
	case "/ombi-approve", "/ombi-deny", "/ombi-markavailable", "/ombi-markunavailable", "/ombi-delete":
		return b.requestAction(ctx, inv)
	default:
		return b.help(ctx, inv)
	}
}

// server resolves the Ombi server for a user, falling back to the configured
// default.
func (b *Bot) server(ctx context.Context, userID string) (string, error) {
	server, err := b.settings.Server(ctx, userID)
	if err != nil {
		return "", err
	}
	if server == "" {
		server = b.defaultServer
	}
	if server == "" {
		return "", ombi.ErrNoServer
	}
	return server, nil
}

// clientFor builds an authenticated client for the user. The second return
// value carries the reply to send instead when the client cannot be built.
func (b *Bot) clientFor(ctx context.Context, userID string) (OmbiClient, string, []message.Attachment) {
	server, err := b.server(ctx, userID)
	if err != nil {
		if errors.Is(err, ombi.ErrNoServer) {
			return nil, "", []message.Attachment{message.Error(
				"No Server Set!",
				"Please set your Ombi server first using `"+usageFor("/ombi-set-server")+"`",
			)}
		}
		return nil, "", b.internalError(err)
	}

	token, err := b.settings.Token(ctx, userID)
	if err != nil {
		return nil, "", b.internalError(err)
	}
	if token == "" {
		return nil, "", []message.Attachment{message.TokenExpired()}
	}

	client, err := b.newOmbi(server, token)
	if err != nil {
		return nil, "", b.internalError(err)
	}
	return client, server, nil
}

func (b *Bot) setServer(ctx context.Context, inv invocation) []message.Attachment {
	if len(inv.Args) != 1 {
		return b.usageError(inv.Name)
	}
	server := strings.TrimRight(inv.Args[0], "/")
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		return []message.Attachment{message.Error("Invalid Server!", "The server address must start with `http://` or `https://`")}
	}
	if err := b.settings.SetServer(ctx, inv.UserID, server); err != nil {
		return b.internalError(err)
	}
	return []message.Attachment{message.Success("Server Saved!", server, "Now login with `"+usageFor("/ombi-login")+"`")}
}

func (b *Bot) login(ctx context.Context, inv invocation) []message.Attachment {
	if len(inv.Args) != 2 {
		return b.usageError(inv.Name)
	}
	server, err := b.server(ctx, inv.UserID)
	if err != nil {
		if errors.Is(err, ombi.ErrNoServer) {
			return []message.Attachment{message.Error(
				"No Server Set!",
				"Please set your Ombi server first using `"+usageFor("/ombi-set-server")+"`",
			)}
		}
		return b.internalError(err)
	}

	// login runs before any token exists
	client, err := b.newOmbi(server, "")
	if err != nil {
		return b.internalError(err)
	}
	resp, err := client.Login(ctx, inv.Args[0], inv.Args[1])
	if err != nil {
		if errors.Is(err, ombi.ErrUnauthorized) {
			return []message.Attachment{message.Error("Login Failed!", "Invalid username or password")}
		}
		return b.ombiError(err)
	}
	if err := b.settings.SetToken(ctx, inv.UserID, resp.AccessToken); err != nil {
		return b.internalError(err)
	}
	return []message.Attachment{message.LoginSuccess(server, resp.Expiration)}
}

func (b *Bot) requests(ctx context.Context, inv invocation) []message.Attachment {
	if len(inv.Args) < 1 {
		return b.usageError(inv.Name)
	}
	mediaType, err := ombi.ParseMediaType(inv.Args[0])
	if err != nil {
		return b.usageError(inv.Name)
	}

	terms, query, errUnits := b.parseSelector(inv.Args[1:])
	if errUnits != nil {
		return errUnits
	}

	client, server, errUnits := b.clientFor(ctx, inv.UserID)
	if errUnits != nil {
		return errUnits
	}

	records, err := client.Requests(ctx, mediaType)
	if err != nil {
		return b.ombiError(err)
	}

	now := b.now()
	records = filter.Chain(records, terms, now)
	records = filter.SortByRequestedDate(records)
	records = filter.FilterByTitle(records, query)
	return message.FormatRequests(records, mediaType, server, inv.Raw, now)
}

func (b *Bot) search(ctx context.Context, inv invocation) []message.Attachment {
	if len(inv.Args) < 2 {
		return b.usageError(inv.Name)
	}
	mediaType, err := ombi.ParseMediaType(inv.Args[0])
	if err != nil {
		return b.usageError(inv.Name)
	}
	term := strings.Join(inv.Args[1:], " ")

	client, server, errUnits := b.clientFor(ctx, inv.UserID)
	if errUnits != nil {
		return errUnits
	}

	results, err := client.Search(ctx, mediaType, term)
	if err != nil {
		return b.ombiError(err)
	}
	return message.FormatSearchResults(results, mediaType, server, inv.Raw, b.now())
}

func (b *Bot) request(ctx context.Context, inv invocation) []message.Attachment {
	if len(inv.Args) < 2 {
		return b.usageError(inv.Name)
	}
	mediaType, err := ombi.ParseMediaType(inv.Args[0])
	if err != nil {
		return b.usageError(inv.Name)
	}
	id, err := strconv.Atoi(inv.Args[1])
	if err != nil {
		return b.usageError(inv.Name)
	}

	var scope ombi.SeasonScope
	if mediaType.IsMovie() {
		if len(inv.Args) != 2 {
			return b.usageError(inv.Name)
		}
	} else {
		if len(inv.Args) != 3 {
			return b.usageError(inv.Name)
		}
		scope, err = ombi.ParseSeasonScope(inv.Args[2])
		if err != nil {
			return b.usageError(inv.Name)
		}
	}

	client, server, errUnits := b.clientFor(ctx, inv.UserID)
	if errUnits != nil {
		return errUnits
	}

	var result *ombi.ActionResult
	if mediaType.IsMovie() {
		result, err = client.RequestMovie(ctx, id)
	} else {
		result, err = client.RequestTV(ctx, id, scope)
	}
	if err != nil {
		return b.ombiError(err)
	}
	return b.actionReply(result, mediaType, server, "Requested")
}

func (b *Bot) requestAction(ctx context.Context, inv invocation) []message.Attachment {
	if len(inv.Args) != 2 {
		return b.usageError(inv.Name)
	}
	mediaType, err := ombi.ParseMediaType(inv.Args[0])
	if err != nil {
		return b.usageError(inv.Name)
	}
	id, err := strconv.Atoi(inv.Args[1])
	if err != nil {
		return b.usageError(inv.Name)
	}

	client, server, errUnits := b.clientFor(ctx, inv.UserID)
	if errUnits != nil {
		return errUnits
	}

	var (
		result *ombi.ActionResult
		verb   string
	)
	switch inv.Name {
	case "/ombi-approve":
		result, err = client.Approve(ctx, mediaType, id)
		verb = "Approved"
	case "/ombi-deny":
		result, err = client.Deny(ctx, mediaType, id)
		verb = "Denied"
	case "/ombi-markavailable":
		result, err = client.MarkAvailable(ctx, mediaType, id)
		verb = "Marked available"
	case "/ombi-markunavailable":
		result, err = client.MarkUnavailable(ctx, mediaType, id)
		verb = "Marked unavailable"
	case "/ombi-delete":
		err = client.Delete(ctx, mediaType, id)
		verb = "Deleted"
	}
	if err != nil {
		return b.ombiError(err)
	}
	if result == nil {
		result = &ombi.ActionResult{}
	}
	return b.actionReply(result, mediaType, server, fmt.Sprintf("%s %s request %d", verb, mediaType.Label(), id))
}

// actionReply turns an Ombi action result into a success or failure unit,
// preferring the backend's own message when it sent one.
func (b *Bot) actionReply(result *ombi.ActionResult, mediaType ombi.MediaType, server, fallback string) []message.Attachment {
	if err := result.Err(); err != nil {
		return []message.Attachment{message.Error(mediaType.Label()+" Error!", err.Error())}
	}
	text := result.Message
	if text == "" {
		text = fallback
	}
	return []message.Attachment{message.Success("Done!", server, text)}
}

// ombiError maps client failures to reply units. A rejected token always
// renders the login prompt.
func (b *Bot) ombiError(err error) []message.Attachment {
	if errors.Is(err, ombi.ErrUnauthorized) {
		return []message.Attachment{message.TokenExpired()}
	}
	b.logger.Error().Err(err).Msg("Ombi request failed")
	return []message.Attachment{message.Error("Ombi Error!", err.Error())}
}

func (b *Bot) internalError(err error) []message.Attachment {
	b.logger.Error().Err(err).Msg("Command failed")
	return []message.Attachment{message.Error("Something Went Wrong!", "Please try again")}
}
