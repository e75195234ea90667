package lexer

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// keywordNames and operatorLexemes are the candidate lists fuzzy-matched
// against a misspelled lexeme to build a "did you mean" suggestion.
// Grounded on the teacher's runtime/planner decorator-name suggestion
// (fuzzy.RankFindFold against a list of registered names).
var keywordNames = func() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

var operatorLexemes = func() []string {
	names := make([]string, 0, len(operatorTable))
	for lexeme := range operatorTable {
		names = append(names, lexeme)
	}
	sort.Strings(names)
	return names
}()

// SuggestKeyword returns the closest registered keyword to name, if
// any is within fuzzy.RankFindFold's match distance.
func SuggestKeyword(name string) (string, bool) {
	return bestRank(name, keywordNames)
}

// suggestOperator returns the closest registered operator/punctuator
// lexeme to lexeme, if any.
func suggestOperator(lexeme string) (string, bool) {
	return bestRank(lexeme, operatorLexemes)
}

func bestRank(target string, candidates []string) (string, bool) {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return "", false
	}
	return ranks[0].Target, true
}
