package report

import (
	"time"

	"github.com/bgricker/apismoke/internal/invoker"
	"github.com/bgricker/apismoke/internal/registry"
)

// SkipReason is recorded for descriptors flagged with SkipTest.
const SkipReason = "marked skip_test to avoid mutating data"

// Entry pairs an invoked descriptor with its outcome.
type Entry struct {
	Endpoint registry.Endpoint
	Result   invoker.Result
}

// Skipped records a descriptor that was never invoked.
type Skipped struct {
	Endpoint registry.Endpoint
	Reason   string
}

// Category buckets entries sharing a category label.
type Category struct {
	Name    string
	Working []Entry
	Failing []Entry
	Skipped []Skipped
}

// Invoked is the number of endpoints of the category that were actually called.
func (c Category) Invoked() int { return len(c.Working) + len(c.Failing) }

// SuccessRate of the category, 0 when nothing was invoked.
func (c Category) SuccessRate() float64 { return SuccessRate(len(c.Working), len(c.Failing)) }

// Results accumulates the outcome of a run. The zero value is ready to use.
type Results struct {
	Working    []Entry
	Failing    []Entry
	Skipped    []Skipped
	Categories []Category
	Duration   time.Duration

	index map[string]int
}

// Add files an invocation outcome under working or failing, both flat and by category.
func (r *Results) Add(ep registry.Endpoint, res invoker.Result) {
	entry := Entry{Endpoint: ep, Result: res}
	cat := r.category(ep.Category)
	if res != nil && res.OK() {
		r.Working = append(r.Working, entry)
		cat.Working = append(cat.Working, entry)
		return
	}
	r.Failing = append(r.Failing, entry)
	cat.Failing = append(cat.Failing, entry)
}

// Skip records a descriptor that was not invoked.
func (r *Results) Skip(ep registry.Endpoint, reason string) {
	s := Skipped{Endpoint: ep, Reason: reason}
	r.Skipped = append(r.Skipped, s)
	cat := r.category(ep.Category)
	cat.Skipped = append(cat.Skipped, s)
}

// Total is the number of descriptors seen by the run.
func (r *Results) Total() int {
	return len(r.Working) + len(r.Failing) + len(r.Skipped)
}

// Summary returns the flat totals of the run.
func (r *Results) Summary() Summary {
	return Summary{
		Working:     len(r.Working),
		Failing:     len(r.Failing),
		Skipped:     len(r.Skipped),
		SuccessRate: SuccessRate(len(r.Working), len(r.Failing)),
		Duration:    r.Duration,
	}
}

func (r *Results) category(name string) *Category {
	if name == "" {
		name = registry.DefaultCategory
	}
	if r.index == nil {
		r.index = make(map[string]int, len(r.Categories))
		for i, c := range r.Categories {
			r.index[c.Name] = i
		}
	}
	i, ok := r.index[name]
	if !ok {
		r.Categories = append(r.Categories, Category{Name: name})
		i = len(r.Categories) - 1
		r.index[name] = i
	}
	return &r.Categories[i]
}

// Summary aggregates run totals for the console. The persisted form is DocumentSummary.
type Summary struct {
	Working     int
	Failing     int
	Skipped     int
	SuccessRate float64
	Duration    time.Duration
}

// SuccessRate is working/(working+failing)*100, or 0 when nothing was invoked.
func SuccessRate(working, failing int) float64 {
	total := working + failing
	if total == 0 {
		return 0
	}
	return float64(working) / float64(total) * 100
}
