package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/s0up4200/ombibot/ombi"
)

// FormatSearchResults renders search results as display units. Placeholder
// rows without a usable identifier are dropped before the summary count is
// taken, so the count always matches the rendered items.
func FormatSearchResults(results []ombi.SearchResult, mediaType ombi.MediaType, serverAddress, query string, now time.Time) []Attachment {
	var valid []ombi.SearchResult
	for _, res := range results {
		if res.ID > 0 {
			valid = append(valid, res)
		}
	}

	out := make([]Attachment, 0, len(valid)+1)
	out = append(out, Summary(len(valid), query))
	collapsed := len(valid) != 1
	for i := range valid {
		out = append(out, formatSearchResult(&valid[i], mediaType, serverAddress, collapsed, now))
	}
	return out
}

func formatSearchResult(res *ombi.SearchResult, mediaType ombi.MediaType, serverAddress string, collapsed bool, now time.Time) Attachment {
	child := res.Child()

	fields := []Field{{Title: "Id", Value: fmt.Sprintf("%d", res.ID), Short: true}}

	if when, who := requestedBy(res.RequestedDate, res.RequestedUser, child); when != nil {
		fields = append(fields, Field{
			Title: "Requested",
			Value: fmt.Sprintf("%s\n%s", FormatDate(when.Time), who),
			Short: true,
		})
	}
	if res.Status != "" {
		fields = append(fields, Field{Title: "Release Status", Value: res.Status, Short: true})
	}
	if res.ReleaseDate != nil && !res.ReleaseDate.IsZero() {
		fields = append(fields, releaseField("Released on", "Releases on", res.ReleaseDate.Time, now))
	}
	if res.DigitalReleaseDate != nil && !res.DigitalReleaseDate.IsZero() {
		fields = append(fields, releaseField("Digitally Released on", "Digitally Releases on", res.DigitalReleaseDate.Time, now))
	}
	if res.Available != nil {
		fields = append(fields, Field{Title: "Available on Server?", Value: yesNo(*res.Available), Short: true})
	}

	var body strings.Builder
	if res.VoteAverage > 0 {
		fmt.Fprintf(&body, "*Rating: *%.1f (%d votes)\n", res.VoteAverage, res.VoteCount)
	} else if res.Rating > 0 {
		fmt.Fprintf(&body, "*Rating: *%.1f\n", res.Rating)
	}
	if res.OriginalLanguage != "" {
		fmt.Fprintf(&body, "*Language: *%s\n", res.OriginalLanguage)
	}
	if res.Network != "" {
		fmt.Fprintf(&body, "*Network: *%s\n", res.Network)
	}
	if res.Runtime > 0 {
		fmt.Fprintf(&body, "*Runtime: *%d minutes\n", res.Runtime)
	}
	if res.TotalSeasons > 0 {
		fmt.Fprintf(&body, "*Total Seasons: *%d\n", res.TotalSeasons)
	}
	body.WriteString(episodesBlock(child, false, now))
	if res.FirstAired != nil && !res.FirstAired.IsZero() {
		fmt.Fprintf(&body, "*First Aired: *%s\n", FormatDate(res.FirstAired.Time))
	}
	if res.Overview != "" {
		body.WriteString("\n*Overview: *" + res.Overview)
	}

	actions := linkActions(res.PlexURL, res.ImdbID, res.TheMovieDbID, res.TheTVDBID(), mediaType)
	actions = append(actions, searchActions(res.ID, mediaType)...)

	return Attachment{
		Collapsed: collapsed,
		Color:     ColorItem,
		Title:     Title{Text: searchTitle(res), Link: serverAddress},
		Fields:    fields,
		Text:      body.String(),
		Actions:   actions,
	}
}

func searchTitle(res *ombi.SearchResult) string {
	if res.ReleaseDate != nil && res.ReleaseDate.Year() > 1000 {
		return fmt.Sprintf("%s (%d)", res.Title, res.ReleaseDate.Year())
	}
	if res.FirstAired != nil && res.FirstAired.Year() > 1000 {
		return fmt.Sprintf("%s (%d)", res.Title, res.FirstAired.Year())
	}
	return res.Title
}

// searchActions builds the request buttons. Movies get a single button; shows
// get one per season scope.
func searchActions(id int, mediaType ombi.MediaType) []Action {
	if mediaType.IsMovie() {
		return []Action{{
			Text: "Request movie",
			Msg:  fmt.Sprintf("/ombi-request movie %d", id),
		}}
	}
	actions := make([]Action, 0, 3)
	for _, scope := range []ombi.SeasonScope{ombi.SeasonScopeFirst, ombi.SeasonScopeLatest, ombi.SeasonScopeAll} {
		label := fmt.Sprintf("(%s season)", scope)
		if scope == ombi.SeasonScopeAll {
			label = "(all seasons)"
		}
		actions = append(actions, Action{
			Text: "Request show " + label,
			Msg:  fmt.Sprintf("/ombi-request show %d %s", id, scope),
		})
	}
	return actions
}
