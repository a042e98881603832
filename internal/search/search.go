// Package search composes free-text and field filters over row collections.
package search

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/grintel/grconsole/internal/tableview"
)

// fuzzyMinRunes is the shortest term matched by edit distance.
const fuzzyMinRunes = 4

// Filter requires the resolved Field to equal Value, ignoring case.
type Filter struct {
	Field string
	Value string
}

// Query is a parsed search input.
type Query struct {
	Terms   []string
	Filters []Filter
}

// Empty reports whether q matches everything.
func (q Query) Empty() bool {
	return len(q.Terms) == 0 && len(q.Filters) == 0
}

// String returns a canonical form that Parse reads back to the same query.
func (q Query) String() string {
	parts := make([]string, 0, len(q.Terms)+len(q.Filters))
	for _, f := range q.Filters {
		parts = append(parts, f.Field+":"+quote(f.Value))
	}
	for _, t := range q.Terms {
		parts = append(parts, quote(t))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if strings.ContainsAny(s, " \t\":") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// Parse splits input into terms and field:value filters. Values and bare
// terms may be double-quoted to include spaces. Terms are lower-cased.
func Parse(input string) Query {
	var q Query
	for _, tok := range tokenize(input) {
		if tok.field != "" {
			if tok.text == "" {
				continue
			}
			q.Filters = append(q.Filters, Filter{Field: tok.field, Value: tok.text})
			continue
		}
		if tok.text != "" {
			q.Terms = append(q.Terms, strings.ToLower(tok.text))
		}
	}
	return q
}

type token struct {
	field string
	text  string
}

func tokenize(input string) []token {
	var (
		out     []token
		cur     strings.Builder
		field   string
		quoted  bool
		started bool
	)
	flush := func() {
		if started {
			out = append(out, token{field: field, text: cur.String()})
		}
		cur.Reset()
		field = ""
		started = false
	}
	for _, r := range input {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case unicode.IsSpace(r) && !quoted:
			flush()
		case r == ':' && !quoted && field == "" && cur.Len() > 0:
			field = cur.String()
			cur.Reset()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return out
}

// Apply returns the rows of rows matching q, in input order. fields lists
// the dotted keys searched by free-text terms. rows is not modified.
func Apply(rows []tableview.Row, q Query, fields []string) []tableview.Row {
	out := make([]tableview.Row, 0, len(rows))
	for _, r := range rows {
		if Match(r, q, fields) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether one row satisfies every filter and every term.
func Match(row tableview.Row, q Query, fields []string) bool {
	for _, f := range q.Filters {
		v, ok := tableview.Resolve(f.Field, row)
		if !ok || v == nil || !strings.EqualFold(text(v), f.Value) {
			return false
		}
	}
	for _, term := range q.Terms {
		if !matchesAnyField(row, term, fields) {
			return false
		}
	}
	return true
}

func matchesAnyField(row tableview.Row, term string, fields []string) bool {
	for _, key := range fields {
		v, ok := tableview.Resolve(key, row)
		if !ok || v == nil {
			continue
		}
		if matchTerm(strings.ToLower(text(v)), term) {
			return true
		}
	}
	return false
}

// matchTerm matches a lower-cased term against a lower-cased value by
// substring, or for long terms by edit distance 1 to one of its words.
func matchTerm(value, term string) bool {
	if strings.Contains(value, term) {
		return true
	}
	if utf8.RuneCountInString(term) < fuzzyMinRunes {
		return false
	}
	for _, w := range strings.FieldsFunc(value, isSeparator) {
		if levenshtein.ComputeDistance(w, term) <= 1 {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
