package archive

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query describes one page of an advanced search call.
type Query struct {
	Expression string
	Fields     []string
	Rows       int
	Page       int // 1-based
	Sort       string
}

// DefaultFields are the document fields the resolution pipeline consumes.
var DefaultFields = []string{
	"identifier", "title", "date", "creator", "collection",
	"coverage", "venue", "downloads", "avg_rating", "num_reviews",
}

// Encode renders the query as advancedsearch.php parameters.
func (q Query) Encode() url.Values {
	v := url.Values{}
	v.Set("q", q.Expression)
	fields := q.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, f := range fields {
		v.Add("fl[]", f)
	}
	if q.Sort != "" {
		v.Add("sort[]", q.Sort)
	}
	rows := q.Rows
	if rows <= 0 {
		rows = 100
	}
	v.Set("rows", strconv.Itoa(rows))
	page := q.Page
	if page <= 0 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("output", "json")
	return v
}

// ExpressionBuilder assembles a boolean search expression term by term.
// Terms added with Or are alternatives; terms added with And all must hold.
type ExpressionBuilder struct {
	ors  []string
	ands []string
}

func (b *ExpressionBuilder) Or(field, value string) *ExpressionBuilder {
	b.ors = append(b.ors, clause(field, value))
	return b
}

func (b *ExpressionBuilder) And(field, value string) *ExpressionBuilder {
	b.ands = append(b.ands, clause(field, value))
	return b
}

// AndRaw appends an already-formed clause, e.g. a date range.
func (b *ExpressionBuilder) AndRaw(raw string) *ExpressionBuilder {
	b.ands = append(b.ands, raw)
	return b
}

func (b *ExpressionBuilder) String() string {
	var parts []string
	if len(b.ors) > 0 {
		parts = append(parts, "("+strings.Join(b.ors, " OR ")+")")
	}
	parts = append(parts, b.ands...)
	return strings.Join(parts, " AND ")
}

func clause(field, value string) string {
	return fmt.Sprintf("%s:(%s)", field, escapeTerm(value))
}

// escapeTerm strips characters that would break the query grammar. The
// archive's parser chokes on unbalanced quotes and parens inside terms.
func escapeTerm(value string) string {
	r := strings.NewReplacer(`"`, ``, `(`, ``, `)`, ``, `:`, ` `)
	return strings.TrimSpace(r.Replace(value))
}

// DateClause builds a single-day date constraint.
func DateClause(isoDate string) string {
	return fmt.Sprintf("date:[%sT00:00:00Z TO %sT23:59:59Z]", isoDate, isoDate)
}

// TitleClause builds a quoted title constraint.
func TitleClause(query string) string {
	return fmt.Sprintf(`title:("%s")`, escapeTerm(query))
}

// TextClause builds a full-text constraint matching uploaded track listings
// and metadata, not just titles.
func TextClause(query string) string {
	return fmt.Sprintf(`text:("%s")`, escapeTerm(query))
}
