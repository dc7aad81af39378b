package bot

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/s0up4200/ombibot/message"
)

// callbackID ties button clicks back to the bot's interaction handler
const callbackID = "ombibot"

// respond sends the reply as an ephemeral message so bot traffic never
// clutters the channel for other members.
func (b *Bot) respond(ctx context.Context, inv invocation, units []message.Attachment) {
	opts := []slack.MsgOption{
		slack.MsgOptionAttachments(toSlackAttachments(units)...),
		slack.MsgOptionUsername(b.botName),
	}
	if b.iconURL != "" {
		opts = append(opts, slack.MsgOptionIconURL(b.iconURL))
	}

	if _, err := b.client.PostEphemeralContext(ctx, inv.ChannelID, inv.UserID, opts...); err != nil {
		b.logger.Error().
			Err(err).
			Str("channel", inv.ChannelID).
			Str("user", inv.UserID).
			Msg("Failed to send reply")
	}
}

// toSlackAttachments translates display units into the Slack wire shape.
// Command buttons carry their slash command line in the action value; link
// buttons carry a URL and never post back.
func toSlackAttachments(units []message.Attachment) []slack.Attachment {
	out := make([]slack.Attachment, 0, len(units))
	for _, u := range units {
		att := slack.Attachment{
			Color:      u.Color,
			Title:      u.Title.Text,
			TitleLink:  u.Title.Link,
			Text:       u.Text,
			CallbackID: callbackID,
			MarkdownIn: []string{"text", "fields"},
		}
		for _, f := range u.Fields {
			att.Fields = append(att.Fields, slack.AttachmentField{
				Title: f.Title,
				Value: f.Value,
				Short: f.Short,
			})
		}
		for _, a := range u.Actions {
			action := slack.AttachmentAction{
				Name: callbackID,
				Text: a.Text,
				Type: "button",
			}
			if a.URL != "" {
				action.URL = a.URL
			} else {
				action.Value = a.Msg
			}
			att.Actions = append(att.Actions, action)
		}
		out = append(out, att)
	}
	return out
}
