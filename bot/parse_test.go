package bot

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ombibot/filter"
)

func newParserBot() *Bot {
	return &Bot{
		compiler: filter.NewCompiler(),
		logger:   zerolog.Nop(),
	}
}

func TestParseSelector(t *testing.T) {
	b := newParserBot()

	// inputs are whitespace-split the way the event loop splits command text
	tests := []struct {
		name      string
		text      string
		wantTerms []string
		wantQuery string
	}{
		{
			name: "no args",
			text: "",
		},
		{
			name:      "filter only",
			text:      "approved",
			wantTerms: []string{"approved"},
		},
		{
			name:      "filter chain",
			text:      "released,unavailable",
			wantTerms: []string{"released", "unavailable"},
		},
		{
			name:      "filter then query",
			text:      "approved the matrix",
			wantTerms: []string{"approved"},
			wantQuery: "the matrix",
		},
		{
			name:      "plain query",
			text:      "the matrix",
			wantQuery: "the matrix",
		},
		{
			name:      "mixed list falls back to query",
			text:      "approved,matrix",
			wantQuery: "approved,matrix",
		},
		{
			name:      "where expression",
			text:      "where:Approved",
			wantTerms: []string{"where:Approved"},
		},
		{
			name:      "where expression with spaces",
			text:      "where:Approved and Available",
			wantTerms: []string{"where:Approved and Available"},
		},
		{
			name:      "status then spaced where",
			text:      "released,where:TotalSeasons > 1",
			wantTerms: []string{"released", "where:TotalSeasons > 1"},
		},
		{
			name:      "where with quoted string",
			text:      `where:requestedBy("alice")`,
			wantTerms: []string{`where:requestedBy("alice")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, query, errUnits := b.parseSelector(strings.Fields(tt.text))
			require.Nil(t, errUnits)
			assert.Equal(t, tt.wantQuery, query)

			var got []string
			for _, term := range terms {
				got = append(got, term.String())
			}
			assert.Equal(t, tt.wantTerms, got)
		})
	}
}

func TestParseSelectorBadExpression(t *testing.T) {
	b := newParserBot()

	tests := []struct {
		name string
		text string
	}{
		{"unclosed string", `where:Title contains "unclosed`},
		{"trailing words are not a query", "where:Approved and Available dune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// a malformed where: term is a hard error, never a title query
			terms, query, errUnits := b.parseSelector(strings.Fields(tt.text))
			assert.Nil(t, terms)
			assert.Empty(t, query)
			require.Len(t, errUnits, 1)
			assert.Equal(t, "Invalid Filter!", errUnits[0].Title.Text)
		})
	}
}
