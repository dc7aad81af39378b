package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ombibot/ombi"
)

func testMovieResult() ombi.SearchResult {
	return ombi.SearchResult{
		ID:          603,
		Title:       "The Matrix",
		Status:      "Released",
		ReleaseDate: datePtr(1999, 3, 31),
		Available:   boolPtr(true),
		ImdbID:      "tt0133093",
		VoteAverage: 8.2,
		VoteCount:   21000,
		Runtime:     136,
		Overview:    "A computer hacker learns the truth.",
	}
}

func testShowResult() ombi.SearchResult {
	return ombi.SearchResult{
		ID:           371980,
		Title:        "Severance",
		Network:      "Apple TV+",
		TotalSeasons: 2,
		FirstAired:   datePtr(2022, 2, 18),
		Rating:       8.7,
	}
}

func TestFormatSearchResultsExcludesPlaceholders(t *testing.T) {
	results := []ombi.SearchResult{
		{ID: 0, Title: "Placeholder"},
		testMovieResult(),
		{ID: -1, Title: "Negative"},
	}

	units := FormatSearchResults(results, ombi.MediaTypeMovie, testServer, "movie matrix", testNow)
	require.Len(t, units, 2)

	// count reflects only the rendered items
	assert.Equal(t, "Results (1)", units[0].Title.Text)
	assert.Contains(t, units[0].Text, "movie matrix")

	// a single surviving result renders expanded
	assert.False(t, units[1].Collapsed)
	assert.Equal(t, "The Matrix (1999)", units[1].Title.Text)
}

func TestFormatSearchMovie(t *testing.T) {
	units := FormatSearchResults([]ombi.SearchResult{testMovieResult()}, ombi.MediaTypeMovie, testServer, "", testNow)
	item := units[1]

	assert.Equal(t, "603", fieldValue(t, item, "Id"))
	assert.True(t, hasField(item, "Released on"))
	assert.Equal(t, "Yes", fieldValue(t, item, "Available on Server?"))

	assert.Contains(t, item.Text, "*Rating: *8.2 (21000 votes)")
	assert.Contains(t, item.Text, "*Runtime: *136 minutes")
	assert.Contains(t, item.Text, "*Overview: *A computer hacker learns the truth.")

	texts := actionTexts(item)
	assert.Contains(t, texts, "View on IMDb")
	assert.Contains(t, texts, "Request movie")
	for _, a := range item.Actions {
		if a.Text == "Request movie" {
			assert.Equal(t, "/ombi-request movie 603", a.Msg)
		}
	}
}

func TestFormatSearchShowOffersSeasonScopes(t *testing.T) {
	units := FormatSearchResults([]ombi.SearchResult{testShowResult()}, ombi.MediaTypeTV, testServer, "", testNow)
	item := units[1]

	// year falls back to first-aired when no release date exists
	assert.Equal(t, "Severance (2022)", item.Title.Text)

	assert.Contains(t, item.Text, "*Network: *Apple TV+")
	assert.Contains(t, item.Text, "*Total Seasons: *2")
	assert.Contains(t, item.Text, "*First Aired: *Feb 18, 2022")
	// no voteAverage, fall back to the plain rating
	assert.Contains(t, item.Text, "*Rating: *8.7")

	texts := actionTexts(item)
	assert.Contains(t, texts, "Request show (first season)")
	assert.Contains(t, texts, "Request show (latest season)")
	assert.Contains(t, texts, "Request show (all seasons)")

	for _, a := range item.Actions {
		if a.Text == "Request show (latest season)" {
			assert.Equal(t, "/ombi-request show 371980 latest", a.Msg)
		}
	}
}

func TestFormatSearchDigitalReleaseLabel(t *testing.T) {
	past := testMovieResult()
	past.DigitalReleaseDate = datePtr(2026, 1, 1)

	units := FormatSearchResults([]ombi.SearchResult{past}, ombi.MediaTypeMovie, testServer, "", testNow)
	assert.True(t, hasField(units[1], "Digitally Released on"))

	future := testMovieResult()
	future.DigitalReleaseDate = datePtr(2027, 1, 1)

	units = FormatSearchResults([]ombi.SearchResult{future}, ombi.MediaTypeMovie, testServer, "", testNow)
	assert.True(t, hasField(units[1], "Digitally Releases on"))
	assert.False(t, hasField(units[1], "Digitally Released on"))
}

func TestFormatSearchEmpty(t *testing.T) {
	units := FormatSearchResults(nil, ombi.MediaTypeMovie, testServer, "", testNow)
	require.Len(t, units, 1)
	assert.Equal(t, "Results (0)", units[0].Title.Text)
}
