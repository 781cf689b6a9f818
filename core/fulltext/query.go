package fulltext

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
)

// Query is a node of the query AST. Engines translate the four shapes
// below into their own query objects.
type Query interface {
	fmt.Stringer
	query()
}

// Term matches documents whose Field contains the token Value.
type Term struct {
	Field string
	Value string
}

// Phrase matches documents whose Field contains Tokens contiguously and
// in order.
type Phrase struct {
	Field  string
	Tokens []string
}

// And matches documents matched by every subquery.
type And struct {
	Queries []Query
}

// TagFilter keeps only documents whose tag set contains Tag. It is applied
// to the hits of the query it is combined with, not matched in the index.
type TagFilter struct {
	Tag string
}

func (Term) query()      {}
func (Phrase) query()    {}
func (And) query()       {}
func (TagFilter) query() {}

func (q Term) String() string { return fmt.Sprintf("%s:%s", q.Field, q.Value) }

func (q Phrase) String() string {
	return fmt.Sprintf("%s:%q", q.Field, strings.Join(q.Tokens, " "))
}

func (q And) String() string {
	parts := make([]string, len(q.Queries))
	for i, sub := range q.Queries {
		parts[i] = sub.String()
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

func (q TagFilter) String() string { return "filter:" + q.Tag }

// Plan turns user query text and a scope tag into a query.
//
// Quoted or multi-word text becomes a Phrase on the content field, a
// single word a Term. Latin-script languages combine it with a TagFilter
// applied to the hits; segmented languages combine it with a required Term
// on the tags field. Both forms select the same documents.
func Plan(text, tag string, segmented bool) (Query, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.NewQuerySyntax(text, "empty query")
	}
	if strings.Count(trimmed, `"`)%2 != 0 {
		return nil, errors.NewQuerySyntax(text, "unbalanced quotes")
	}
	quoted := strings.Contains(trimmed, `"`)
	words := strings.Fields(strings.ReplaceAll(trimmed, `"`, " "))
	if len(words) == 0 {
		return nil, errors.NewQuerySyntax(text, "empty phrase")
	}

	tag = corpus.CompactName(strings.TrimSpace(tag))
	if tag == "" {
		return nil, errors.NewQuerySyntax(text, "empty scope tag")
	}
	if strings.Contains(tag, ",") {
		return nil, errors.NewQuerySyntax(text, fmt.Sprintf("invalid scope tag %q", tag))
	}

	var main Query
	if quoted || len(words) > 1 {
		main = Phrase{Field: FieldContent, Tokens: words}
	} else {
		main = Term{Field: FieldContent, Value: words[0]}
	}

	if segmented {
		return And{Queries: []Query{main, Term{Field: FieldTags, Value: tag}}}, nil
	}
	return And{Queries: []Query{main, TagFilter{Tag: tag}}}, nil
}

// SplitFilters separates the TagFilter nodes of q from the query that is
// matched against the index. The returned query is nil when q held only
// filters.
func SplitFilters(q Query) (Query, []string) {
	var tags []string
	var strip func(Query) Query
	strip = func(q Query) Query {
		switch n := q.(type) {
		case TagFilter:
			tags = append(tags, n.Tag)
			return nil
		case And:
			var kept []Query
			for _, sub := range n.Queries {
				if s := strip(sub); s != nil {
					kept = append(kept, s)
				}
			}
			switch len(kept) {
			case 0:
				return nil
			case 1:
				return kept[0]
			}
			return And{Queries: kept}
		default:
			return q
		}
	}
	return strip(q), tags
}

// MatchesFilters reports whether a document's tags satisfy every filter.
func MatchesFilters(doc IndexDocument, filters []string) bool {
	for _, tag := range filters {
		if !HasTag(doc.Tags, tag) {
			return false
		}
	}
	return true
}
