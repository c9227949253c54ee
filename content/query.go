// Package content reads collections from the club's content store.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidField is returned for field names that cannot be safely used in a query.
var ErrInvalidField = errors.New("invalid field name")

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Order sorts a collection by a single field.
type Order struct {
	Field string
	Desc  bool
}

// Query describes a read of one document type.
type Query struct {
	// Type is the document _type.
	Type string
	// Defined lists fields that must be present.
	Defined []string
	// Since keeps documents whose "date" is at or after the instant.
	Since *time.Time
	Order Order
	// Limit caps the number of records; 0 means no cap.
	Limit int
	// Projection is the GROQ projection body (without braces). Local
	// sources store documents already projected and ignore it.
	Projection string
}

// Validate checks the field names used by the query.
func (q Query) Validate() error {
	if !fieldPattern.MatchString(q.Type) {
		return fmt.Errorf("%w: type %q", ErrInvalidField, q.Type)
	}
	for _, f := range q.Defined {
		if !fieldPattern.MatchString(f) {
			return fmt.Errorf("%w: %q", ErrInvalidField, f)
		}
	}
	if q.Order.Field != "" && !fieldPattern.MatchString(q.Order.Field) {
		return fmt.Errorf("%w: order %q", ErrInvalidField, q.Order.Field)
	}
	return nil
}

// GROQ renders the query for the Sanity query API.
func (q Query) GROQ() string {
	var b strings.Builder
	fmt.Fprintf(&b, `*[_type == %q`, q.Type)
	for _, f := range q.Defined {
		fmt.Fprintf(&b, " && defined(%s)", f)
	}
	if q.Since != nil {
		fmt.Fprintf(&b, ` && date >= %q`, q.Since.UTC().Format(time.RFC3339))
	}
	b.WriteString("]")

	if q.Order.Field != "" {
		dir := "asc"
		if q.Order.Desc {
			dir = "desc"
		}
		fmt.Fprintf(&b, " | order(%s %s)", q.Order.Field, dir)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, "[0...%d]", q.Limit)
	}
	if q.Projection != "" {
		fmt.Fprintf(&b, "{%s}", q.Projection)
	}
	return b.String()
}

// Source is the read path to the content store. FetchCollection returns the
// records of one query in the order the store delivers them.
type Source interface {
	FetchCollection(ctx context.Context, q Query) ([]json.RawMessage, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, q Query) ([]json.RawMessage, error)

// FetchCollection calls f.
func (f SourceFunc) FetchCollection(ctx context.Context, q Query) ([]json.RawMessage, error) {
	return f(ctx, q)
}
