package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/s0up4200/ombibot/filter"
	"github.com/s0up4200/ombibot/ombi"
)

// FormatRequests renders a filtered request list as display units: a summary
// unit followed by one unit per record, in the order the records arrive.
// Every field, body line and action is emitted only when the underlying data
// is present. Items collapse unless the list holds exactly one record.
func FormatRequests(records []ombi.MediaRequest, mediaType ombi.MediaType, serverAddress, query string, now time.Time) []Attachment {
	out := make([]Attachment, 0, len(records)+1)
	out = append(out, Summary(len(records), query))
	collapsed := len(records) != 1
	for i := range records {
		out = append(out, formatRequest(&records[i], mediaType, serverAddress, collapsed, now))
	}
	return out
}

func formatRequest(r *ombi.MediaRequest, mediaType ombi.MediaType, serverAddress string, collapsed bool, now time.Time) Attachment {
	state := filter.Resolve(r)
	child := r.Child()

	fields := []Field{{Title: "Id", Value: fmt.Sprintf("%d", r.ID), Short: true}}

	if when, who := requestedBy(r.RequestedDate, r.RequestedUser, child); when != nil {
		fields = append(fields, Field{
			Title: "Requested",
			Value: fmt.Sprintf("%s\n_(%s)_\n%s", FormatDate(when.Time), TimeSince(when.Time, now), who),
			Short: true,
		})
	}

	if r.Status != "" {
		fields = append(fields, Field{Title: "Release Status", Value: r.Status, Short: true})
	}
	if r.ReleaseDate != nil && !r.ReleaseDate.IsZero() {
		fields = append(fields, releaseField("Released on", "Releases on", r.ReleaseDate.Time, now))
	}
	if r.DigitalRelease != nil {
		fields = append(fields, Field{Title: "Digital Release?", Value: yesNo(*r.DigitalRelease), Short: true})
	}
	if state.Approved.Known() {
		fields = append(fields, Field{Title: "Approved by Admin?", Value: yesNo(state.Approved.True()), Short: true})
	}
	if r.Available != nil {
		fields = append(fields, Field{Title: "Available on Server?", Value: yesNo(*r.Available), Short: true})
	}

	var body strings.Builder
	if r.TotalSeasons > 0 {
		fmt.Fprintf(&body, "*Total Seasons: *%d\n", r.TotalSeasons)
	}
	body.WriteString(episodesBlock(child, true, now))
	if r.Overview != "" {
		body.WriteString("\n*Overview: *" + r.Overview)
	}

	actions := linkActions(r.PlexURL, r.ImdbID, r.TheMovieDbID, r.TheTVDBID(), mediaType)
	actions = append(actions, requestActions(r, state, mediaType)...)

	return Attachment{
		Collapsed: collapsed,
		Color:     ColorItem,
		Title:     Title{Text: displayTitle(r.Title, r.ReleaseDate), Link: serverAddress},
		Fields:    fields,
		Text:      body.String(),
		Actions:   actions,
	}
}

// requestedBy picks the requested-at time and requester alias, preferring the
// record's own fields and falling back to the child request's. Both must be
// resolvable for the field to render.
func requestedBy(when *ombi.Time, who *ombi.RequestedUser, child *ombi.ChildRequest) (*ombi.Time, string) {
	if (when == nil || who == nil || who.UserAlias == "") && child != nil {
		if when == nil {
			when = child.RequestedDate
		}
		if who == nil || who.UserAlias == "" {
			who = child.RequestedUser
		}
	}
	if when == nil || when.IsZero() || who == nil || who.UserAlias == "" {
		return nil, ""
	}
	return when, who.UserAlias
}

// releaseField picks the past or future label for a release date field
func releaseField(pastLabel, futureLabel string, t, now time.Time) Field {
	label := futureLabel
	if t.Before(now) {
		label = pastLabel
	}
	return Field{
		Title: label,
		Value: fmt.Sprintf("%s\n_(%s)_", FormatDate(t), TimeSince(t, now)),
		Short: true,
	}
}

// displayTitle appends the release year when a plausible one is known
func displayTitle(title string, released *ombi.Time) string {
	if released != nil && released.Year() > 1000 {
		return fmt.Sprintf("%s (%d)", title, released.Year())
	}
	return title
}

// episodesBlock renders the indented season/episode tree of a show request.
// withAired controls the per-episode air-date lines, which request listings
// show and search results omit.
func episodesBlock(child *ombi.ChildRequest, withAired bool, now time.Time) string {
	if child == nil || len(child.SeasonRequests) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("*[Episodes Requested]*\n")
	for _, season := range child.SeasonRequests {
		fmt.Fprintf(&b, "::::*Season %d:*\n", season.SeasonNumber)
		for _, ep := range season.Episodes {
			fmt.Fprintf(&b, "------*Episode %d - %s*\n", ep.EpisodeNumber, ep.Title)
			if ep.URL != "" {
				fmt.Fprintf(&b, "__________*Link: *%s\n", ep.URL)
			}
			if withAired {
				if aired := episodeAirDate(&ep, &season); aired != nil {
					fmt.Fprintf(&b, "__________*Aired: *%s _(%s)_\n", FormatDate(aired.Time), TimeSince(aired.Time, now))
				} else {
					b.WriteString("__________*Not Yet Aired*\n")
				}
			}
			fmt.Fprintf(&b, "__________*Approved? *%s\n", yesNo(ep.Approved))
			fmt.Fprintf(&b, "__________*Available?: *%s\n", yesNo(ep.Available))
			fmt.Fprintf(&b, "__________*Season Id: *%d\n", ep.SeasonID)
			fmt.Fprintf(&b, "__________*Id: *%d\n", ep.ID)
		}
	}
	return b.String()
}

func episodeAirDate(ep *ombi.Episode, season *ombi.SeasonRequest) *ombi.Time {
	if ep.AirDate != nil && !ep.AirDate.IsZero() {
		return ep.AirDate
	}
	if season.AirDate != nil && !season.AirDate.IsZero() {
		return season.AirDate
	}
	return nil
}

// linkActions builds the external-link buttons shared by requests and search
// results. Buttons appear only for identifiers the record actually carries.
func linkActions(plexURL, imdbID string, tmdbID, tvdbID int, mediaType ombi.MediaType) []Action {
	var actions []Action
	if plexURL != "" {
		actions = append(actions, Action{Text: "View on Plex", URL: plexURL})
	}
	if imdbID != "" {
		actions = append(actions, Action{Text: "View on IMDb", URL: "https://www.imdb.com/title/" + imdbID})
	}
	if tmdbID != 0 {
		kind := "tv"
		if mediaType.IsMovie() {
			kind = "movie"
		}
		actions = append(actions, Action{Text: "View on TheMovieDB", URL: fmt.Sprintf("https://www.themoviedb.org/%s/%d", kind, tmdbID)})
	}
	if tvdbID != 0 {
		actions = append(actions, Action{Text: "View on TheTVDB", URL: fmt.Sprintf("https://www.thetvdb.com/dereferrer/series/%d", tvdbID)})
	}
	return actions
}

// requestActions builds the state-changing buttons for one request. Buttons
// are offered only when the transition makes sense for the resolved state;
// Delete is always offered. Show requests also get a per-season variant of
// each transition, addressed by season-request id.
func requestActions(r *ombi.MediaRequest, state filter.RequestState, mediaType ombi.MediaType) []Action {
	scope := "Movie"
	if !mediaType.IsMovie() {
		scope = "Entire Show"
	}
	var seasons []ombi.SeasonRequest
	if !mediaType.IsMovie() {
		if child := r.Child(); child != nil {
			seasons = child.SeasonRequests
		}
	}

	var actions []Action
	add := func(verb, suffix, command string, allowed bool) {
		if !allowed {
			return
		}
		actions = append(actions, Action{
			Text: fmt.Sprintf("%s %s%s", verb, scope, suffix),
			Msg:  fmt.Sprintf("/ombi-%s %s %d", command, mediaType, r.ID),
		})
		for _, season := range seasons {
			actions = append(actions, Action{
				Text: fmt.Sprintf("%s Season %d%s", verb, season.SeasonNumber, suffix),
				Msg:  fmt.Sprintf("/ombi-%s %s %d", command, mediaType, season.ID),
			})
		}
	}

	add("Approve", "", "approve", state.Approved.Known() && !state.Approved.True())
	add("Mark Available", "", "markavailable", state.Available.Known() && !state.Available.True())
	add("Mark Unavailable", "", "markunavailable", state.Available.True())
	add("Deny", " Request", "deny", state.Denied.Known() && !state.Denied.True())
	add("Delete", " Request", "delete", true)
	return actions
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
