package bot

import (
	"errors"
	"strings"

	"github.com/s0up4200/ombibot/filter"
	"github.com/s0up4200/ombibot/message"
)

// parseSelector splits the arguments after the media type into a filter chain
// and a title query. The first argument is treated as a filter list only when
// every comma-separated term in it is a valid one; otherwise the whole
// remainder is the query, so plain searches like "the matrix" never trip over
// the filter parser. A malformed where: expression is a hard error, not a
// query.
//
// Slash-command text arrives whitespace-split, so a where: expression with
// spaces spans several args. When the filter argument contains "where:" the
// expression consumes every remaining arg and no title query follows; use
// Title inside the expression to match on names.
func (b *Bot) parseSelector(args []string) ([]filter.Term, string, []message.Attachment) {
	if len(args) == 0 {
		return nil, "", nil
	}

	selector, rest := args[0], args[1:]
	if strings.Contains(selector, "where:") {
		selector, rest = strings.Join(args, " "), nil
	}

	terms, err := filter.ParseTerms(selector, b.compiler)
	if err == nil {
		return terms, strings.Join(rest, " "), nil
	}

	var unknown *filter.UnknownStatusError
	if errors.As(err, &unknown) && !strings.Contains(args[0], "where:") {
		return nil, strings.Join(args, " "), nil
	}
	return nil, "", []message.Attachment{message.Error("Invalid Filter!", err.Error())}
}
