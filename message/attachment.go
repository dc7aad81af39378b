// Package message turns Ombi records into platform-neutral display units.
//
// An Attachment mirrors the chat platform's attachment shape (accent color,
// title with optional link, short fields, body text, action buttons) without
// importing any platform SDK, so the formatter stays a pure function over
// parsed records and the bot layer owns the translation to wire types.
package message

import "fmt"

// Accent colors used across all bot replies
const (
	// ColorSummary marks the synthetic results-count unit and success replies
	ColorSummary = "#00CE00"
	// ColorItem marks one formatted record
	ColorItem = "#e37200"
	// ColorError marks failures and usage errors
	ColorError = "#e10000"
)

// Attachment is one display unit of a reply
type Attachment struct {
	Collapsed bool
	Color     string
	Title     Title
	Fields    []Field
	Text      string
	Actions   []Action
}

// Title is the attachment heading with an optional hyperlink
type Title struct {
	Text string
	Link string
}

// Field is a short label/value pair rendered in the attachment body
type Field struct {
	Title string
	Value string
	Short bool
}

// Action is a button: either a follow-up command (Msg) or an external URL.
// Exactly one of Msg and URL is set.
type Action struct {
	Text string
	Msg  string
	URL  string
}

// Summary builds the synthetic "Results (N)" unit that leads every formatted
// response. It is never collapsed and echoes the query that produced it.
func Summary(count int, query string) Attachment {
	a := Attachment{
		Color: ColorSummary,
		Title: Title{Text: fmt.Sprintf("Results (%d)", count)},
	}
	if query != "" {
		a.Text = "Query: `" + query + "`"
	}
	return a
}

// Error builds a single red attachment for failures
func Error(title, text string) Attachment {
	return Attachment{
		Color: ColorError,
		Title: Title{Text: title},
		Text:  text,
	}
}

// Success builds a single green attachment for confirmations
func Success(title, link, text string) Attachment {
	return Attachment{
		Color: ColorSummary,
		Title: Title{Text: title, Link: link},
		Text:  text,
	}
}

// TokenExpired is the reply sent whenever the stored token is missing or the
// server rejects it.
func TokenExpired() Attachment {
	return Error("Token Expired!", "Please login again using `/ombi-login [USERNAME] [PASSWORD]`")
}

// LoginSuccess confirms a fresh login with the token expiration and shortcut
// buttons into the common next commands.
func LoginSuccess(server, expiration string) Attachment {
	a := Success("Logged In!", server, "*Expires: *"+expiration)
	a.Actions = []Action{
		{Text: "Search for Movie", Msg: "/ombi-search movie QUERY"},
		{Text: "Search for Show", Msg: "/ombi-search show QUERY"},
		{Text: "View Movie Requests", Msg: "/ombi-requests movie unavailable"},
		{Text: "View Show Requests", Msg: "/ombi-requests show unavailable"},
	}
	return a
}
