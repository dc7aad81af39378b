package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ombibot/message"
)

func TestToSlackAttachments(t *testing.T) {
	units := []message.Attachment{{
		Color: message.ColorItem,
		Title: message.Title{Text: "Dune (2021)", Link: "http://ombi.local"},
		Fields: []message.Field{
			{Title: "Id", Value: "42", Short: true},
		},
		Text: "*Overview: *sand",
		Actions: []message.Action{
			{Text: "View on IMDb", URL: "https://www.imdb.com/title/tt1160419"},
			{Text: "Approve Movie", Msg: "/ombi-approve movie 42"},
		},
	}}

	atts := toSlackAttachments(units)
	require.Len(t, atts, 1)

	att := atts[0]
	assert.Equal(t, message.ColorItem, att.Color)
	assert.Equal(t, "Dune (2021)", att.Title)
	assert.Equal(t, "http://ombi.local", att.TitleLink)
	assert.Equal(t, callbackID, att.CallbackID)

	require.Len(t, att.Fields, 1)
	assert.Equal(t, "Id", att.Fields[0].Title)
	assert.True(t, att.Fields[0].Short)

	require.Len(t, att.Actions, 2)
	link := att.Actions[0]
	assert.Equal(t, "https://www.imdb.com/title/tt1160419", link.URL)
	assert.Empty(t, link.Value)

	button := att.Actions[1]
	assert.Equal(t, "button", string(button.Type))
	assert.Equal(t, "/ombi-approve movie 42", button.Value)
	assert.Empty(t, button.URL)
}
