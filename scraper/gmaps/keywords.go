package gmaps

import (
	"errors"
	"regexp"
	"strings"
)

var errNoKeywords = errors.New("gmaps: keyword set is empty")

// KeywordMatcher tests content for whole-word, case-insensitive keywords.
type KeywordMatcher struct {
	keywords []string
	patterns []*regexp.Regexp
}

// NewKeywordMatcher compiles one pattern per keyword, in order. Internal runs
// of whitespace in a phrase match any whitespace run in the content.
func NewKeywordMatcher(keywords []string) (*KeywordMatcher, error) {
	m := &KeywordMatcher{}
	for _, kw := range keywords {
		words := strings.Fields(kw)
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		re, err := regexp.Compile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
		if err != nil {
			return nil, err
		}
		m.keywords = append(m.keywords, kw)
		m.patterns = append(m.patterns, re)
	}
	if len(m.patterns) == 0 {
		return nil, errNoKeywords
	}
	return m, nil
}

// Match returns the first keyword found in content.
func (m *KeywordMatcher) Match(content string) (string, bool) {
	for i, re := range m.patterns {
		if re.MatchString(content) {
			return m.keywords[i], true
		}
	}
	return "", false
}
