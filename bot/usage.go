package bot

import (
	"context"
	"strings"

	"github.com/s0up4200/ombibot/message"
)

type commandHelp struct {
	usage       string
	description string
}

// commandTable drives both the help reply and per-command usage errors.
// Order matters; it is the order help lists the commands in.
var commandTable = []struct {
	name string
	help commandHelp
}{
	{"/ombi", commandHelp{
		usage:       "/ombi",
		description: "Show this help",
	}},
	{"/ombi-set-server", commandHelp{
		usage:       "/ombi-set-server [SERVER_ADDRESS]",
		description: "Set the Ombi server to talk to",
	}},
	{"/ombi-login", commandHelp{
		usage:       "/ombi-login [USERNAME] [PASSWORD]",
		description: "Log in and store your API token",
	}},
	{"/ombi-requests", commandHelp{
		usage:       "/ombi-requests [movie|show] [FILTERS] [QUERY]",
		description: "List requests. Filters: approved, unapproved, available, unavailable, denied, released, where:EXPR (comma-separated to combine)",
	}},
	{"/ombi-search", commandHelp{
		usage:       "/ombi-search [movie|show] [QUERY]",
		description: "Search for media to request",
	}},
	{"/ombi-request", commandHelp{
		usage:       "/ombi-request movie [ID] | /ombi-request show [ID] [first|latest|all]",
		description: "Request a movie or show",
	}},
	{"/ombi-approve", commandHelp{
		usage:       "/ombi-approve [movie|show] [ID]",
		description: "Approve a request",
	}},
	{"/ombi-deny", commandHelp{
		usage:       "/ombi-deny [movie|show] [ID]",
		description: "Deny a request",
	}},
	{"/ombi-markavailable", commandHelp{
		usage:       "/ombi-markavailable [movie|show] [ID]",
		description: "Mark a request as available on the server",
	}},
	{"/ombi-markunavailable", commandHelp{
		usage:       "/ombi-markunavailable [movie|show] [ID]",
		description: "Mark a request as unavailable again",
	}},
	{"/ombi-delete", commandHelp{
		usage:       "/ombi-delete [movie|show] [ID]",
		description: "Delete a request",
	}},
}

func usageFor(name string) string {
	for _, entry := range commandTable {
		if entry.name == name {
			return entry.help.usage
		}
	}
	return name
}

func (b *Bot) usageError(name string) []message.Attachment {
	return []message.Attachment{message.Error("Usage", "`"+usageFor(name)+"`")}
}

func (b *Bot) help(ctx context.Context, inv invocation) []message.Attachment {
	var text strings.Builder
	for _, entry := range commandTable {
		text.WriteString("`" + entry.help.usage + "`\n")
		text.WriteString(entry.help.description + "\n\n")
	}

	unit := message.Attachment{
		Color: message.ColorSummary,
		Title: message.Title{Text: "Ombi Bot Commands"},
		Text:  strings.TrimRight(text.String(), "\n"),
	}
	if server, err := b.settings.Server(ctx, inv.UserID); err == nil && server != "" {
		unit.Fields = []message.Field{{Title: "Server", Value: server, Short: true}}
	}
	return []message.Attachment{unit}
}
