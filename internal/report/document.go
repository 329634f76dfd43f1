package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bgricker/apismoke/internal/invoker"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is the persisted JSON report.
type Document struct {
	Timestamp  string          `json:"timestamp"`
	Summary    DocumentSummary `json:"summary"`
	ByCategory CategoryTotals  `json:"by_category"`
	Working    []WorkingItem   `json:"working"`
	Failing    []FailingItem   `json:"failing"`
	Skipped    []SkippedItem   `json:"skipped"`
}

// DocumentSummary carries the flat totals with a formatted success rate.
type DocumentSummary struct {
	Working     int    `json:"working"`
	Failing     int    `json:"failing"`
	Skipped     int    `json:"skipped"`
	SuccessRate string `json:"success_rate"`
}

// CategoryCount is the per-category tally.
type CategoryCount struct {
	Working int `json:"working"`
	Failing int `json:"failing"`
	Skipped int `json:"skipped"`
}

// NamedCount is a CategoryCount keyed by category name.
type NamedCount struct {
	Name string
	CategoryCount
}

// CategoryTotals encodes as a JSON object whose keys keep first-seen order.
type CategoryTotals []NamedCount

// WorkingItem is an endpoint that answered; Duration is in milliseconds.
type WorkingItem struct {
	Name     string `json:"name"`
	Method   string `json:"method"`
	URL      string `json:"url"`
	Status   int    `json:"status"`
	Duration int64  `json:"duration"`
}

// FailingItem is an endpoint that failed. Status is 0 when no response arrived.
type FailingItem struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	URL    string `json:"url"`
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// SkippedItem is an endpoint that was never called.
type SkippedItem struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

// NewDocument converts run results into the report document. The url of every item is
// the descriptor path as declared in the registry.
func NewDocument(r *Results, now time.Time) Document {
	summary := r.Summary()

	doc := Document{
		Timestamp: now.UTC().Format(TimestampLayout),
		Summary: DocumentSummary{
			Working:     summary.Working,
			Failing:     summary.Failing,
			Skipped:     summary.Skipped,
			SuccessRate: FormatRate(summary.SuccessRate),
		},
		ByCategory: make(CategoryTotals, 0, len(r.Categories)),
		Working:    make([]WorkingItem, 0, len(r.Working)),
		Failing:    make([]FailingItem, 0, len(r.Failing)),
		Skipped:    make([]SkippedItem, 0, len(r.Skipped)),
	}

	for _, c := range r.Categories {
		doc.ByCategory = append(doc.ByCategory, NamedCount{
			Name:          c.Name,
			CategoryCount: CategoryCount{Working: len(c.Working), Failing: len(c.Failing), Skipped: len(c.Skipped)},
		})
	}
	for _, e := range r.Working {
		doc.Working = append(doc.Working, WorkingItem{
			Name:     e.Endpoint.Name,
			Method:   e.Endpoint.Method,
			URL:      e.Endpoint.Path,
			Status:   e.Result.Status(),
			Duration: invoker.DurationMS(e.Result),
		})
	}
	for _, e := range r.Failing {
		item := FailingItem{
			Name:   e.Endpoint.Name,
			Method: e.Endpoint.Method,
			URL:    e.Endpoint.Path,
		}
		if e.Result != nil {
			item.Status = e.Result.Status()
		}
		if f, ok := e.Result.(invoker.Failure); ok {
			item.Error = f.Err
		}
		doc.Failing = append(doc.Failing, item)
	}
	for _, s := range r.Skipped {
		doc.Skipped = append(doc.Skipped, SkippedItem{
			Name:   s.Endpoint.Name,
			Method: s.Endpoint.Method,
			URL:    s.Endpoint.Path,
		})
	}
	return doc
}

// FormatRate renders a success rate with one decimal, e.g. "50.0%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// MarshalJSON writes the totals as an object in slice order.
func (c CategoryTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, nc := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeUnescaped(nc.Name)
		if err != nil {
			return nil, fmt.Errorf("encode category %q: %w", nc.Name, err)
		}
		value, err := encodeUnescaped(nc.CategoryCount)
		if err != nil {
			return nil, fmt.Errorf("encode category %q: %w", nc.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the totals back, keeping the key order of the input.
func (c *CategoryTotals) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("by_category must be an object")
	}
	var out CategoryTotals
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var count CategoryCount
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("decode category %q: %w", name, err)
		}
		out = append(out, NamedCount{Name: name, CategoryCount: count})
	}
	*c = out
	return nil
}

func encodeUnescaped(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
