// Package dataset reads and writes content documents as newline-delimited
// JSON, one document per line, in the same shape as a Sanity dataset export.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/carlosx8664/skyy-fc/content"
	"github.com/carlosx8664/skyy-fc/model"
)

// header holds the two fields every line must carry.
type header struct {
	ID   string `json:"_id"`
	Type string `json:"_type"`
}

// Parse reads an NDJSON stream and extracts documents.
// Lines with no _id or _type are rejected.
func Parse(r io.Reader) ([]*model.Document, error) {
	decoder := json.NewDecoder(r)

	var docs []*model.Document
	for n := 1; ; n++ {
		var raw json.RawMessage
		err := decoder.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse document %d: %w", n, err)
		}

		var h header
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("document %d is not an object: %w", n, err)
		}

		d := &model.Document{ID: h.ID, Type: h.Type, Body: raw}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
		docs = append(docs, d)
	}

	return docs, nil
}

// Generate writes documents as NDJSON. Each line carries the document's
// _id and _type alongside its body fields.
func Generate(w io.Writer, docs []*model.Document) error {
	for _, d := range docs {
		line, err := Record(d)
		if err != nil {
			return err
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("failed to write document %s: %w", d.ID, err)
		}
	}
	return nil
}

// Record renders a document as a single JSON object with its _id and _type.
func Record(d *model.Document) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(d.Body, &fields); err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", d.ID, err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}

	id, _ := json.Marshal(d.ID)
	docType, _ := json.Marshal(d.Type)
	fields["_id"] = id
	fields["_type"] = docType

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %s: %w", d.ID, err)
	}
	return out, nil
}

// FromRecords wraps projected records of one type as documents. Records
// without an _id (singletons, table rows) get a positional one.
func FromRecords(docType string, records []json.RawMessage) ([]*model.Document, error) {
	docs := make([]*model.Document, 0, len(records))
	for i, r := range records {
		var h header
		if err := json.Unmarshal(r, &h); err != nil {
			return nil, fmt.Errorf("%s record %d is not an object: %w", docType, i, err)
		}
		if h.ID == "" {
			h.ID = docType + "-" + strconv.Itoa(i+1)
		}
		docs = append(docs, &model.Document{ID: h.ID, Type: docType, Body: r})
	}
	return docs, nil
}

// Collect reads every query's collection from src as documents.
func Collect(ctx context.Context, src content.Source, queries []content.Query) ([]*model.Document, error) {
	var docs []*model.Document
	for _, q := range queries {
		records, err := src.FetchCollection(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", q.Type, err)
		}
		batch, err := FromRecords(q.Type, records)
		if err != nil {
			return nil, err
		}
		docs = append(docs, batch...)
	}
	return docs, nil
}

// ExportQueries widens queries to whole collections: one query per type,
// with no field filter, date filter or limit.
func ExportQueries(queries []content.Query) []content.Query {
	seen := make(map[string]bool)
	var out []content.Query
	for _, q := range queries {
		if seen[q.Type] {
			continue
		}
		seen[q.Type] = true
		q.Defined = nil
		q.Since = nil
		q.Limit = 0
		out = append(out, q)
	}
	return out
}
