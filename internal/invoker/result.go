package invoker

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Result is the outcome of one invocation. It is either a Success or a Failure.
type Result interface {
	// OK reports whether a response was received and accepted at the transport level.
	OK() bool
	// Status is the HTTP status code, or 0 when no response was received.
	Status() int
	// Elapsed is the wall-clock time spent on the call.
	Elapsed() time.Duration

	result()
}

// Success means a response was received. A 4xx/5xx status is still a Success unless the
// invoker was configured to fail on HTTP errors.
type Success struct {
	StatusCode int
	Duration   time.Duration
	Body       ldvalue.Value
	Headers    map[string]string
}

func (s Success) OK() bool               { return true }
func (s Success) Status() int            { return s.StatusCode }
func (s Success) Elapsed() time.Duration { return s.Duration }
func (s Success) result()                {}

// HTTPError reports whether the response carried an error status.
func (s Success) HTTPError() bool { return s.StatusCode >= 400 }

// HasBody reports whether the response decoded to a non-empty JSON object.
func (s Success) HasBody() bool {
	return s.Body.Type() == ldvalue.ObjectType && s.Body.Count() > 0
}

// HasData reports whether the response's "data" field carries anything: a non-empty
// array or any other non-null value.
func (s Success) HasData() bool {
	data := s.Body.GetByKey("data")
	switch data.Type() {
	case ldvalue.NullType:
		return false
	case ldvalue.ArrayType:
		return data.Count() > 0
	default:
		return true
	}
}

// Failure means the call did not produce a usable response.
type Failure struct {
	StatusCode int
	Err        string
	ErrorBody  ldvalue.Value
	Duration   time.Duration
}

func (f Failure) OK() bool               { return false }
func (f Failure) Status() int            { return f.StatusCode }
func (f Failure) Elapsed() time.Duration { return f.Duration }
func (f Failure) result()                {}

// DurationMS returns the elapsed time of r in whole milliseconds.
func DurationMS(r Result) int64 {
	if r == nil {
		return 0
	}
	return r.Elapsed().Milliseconds()
}
