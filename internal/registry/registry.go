package registry

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// DefaultCategory is used for endpoints that do not declare one.
const DefaultCategory = "General"

// Endpoint describes one API endpoint to call.
type Endpoint struct {
	Name     string        `json:"name"`
	Method   string        `json:"method"`
	Path     string        `json:"url"`
	Body     ldvalue.Value `json:"body"`
	Category string        `json:"category"`
	SkipTest bool          `json:"skip_test,omitempty"`
}

// Label returns "METHOD path", the form used in listings.
func (e Endpoint) Label() string {
	return fmt.Sprintf("%s %s", e.Method, e.Path)
}

// Set is a parsed collection of endpoints together with where they came from.
type Set struct {
	Sources   []string   `json:"sources"`
	Endpoints []Endpoint `json:"endpoints"`
	Warnings  []Warning  `json:"warnings"`
}

// Warning captures non-fatal issues encountered while loading endpoint files.
type Warning struct {
	Source   string `json:"source"`
	Endpoint string `json:"endpoint"`
	Message  string `json:"message"`
}

func (w Warning) String() string {
	switch {
	case w.Source != "" && w.Endpoint != "":
		return fmt.Sprintf("%s:%s: %s", w.Source, w.Endpoint, w.Message)
	case w.Source != "":
		return fmt.Sprintf("%s: %s", w.Source, w.Message)
	case w.Endpoint != "":
		return fmt.Sprintf("%s: %s", w.Endpoint, w.Message)
	}
	return w.Message
}

// Count returns how many endpoints will be invoked and how many are flagged skip_test.
func Count(endpoints []Endpoint) (runnable, skipped int) {
	for _, ep := range endpoints {
		if ep.SkipTest {
			skipped++
			continue
		}
		runnable++
	}
	return runnable, skipped
}

var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

// NormalizeMethod upper-cases method and rejects anything that is not a standard HTTP verb.
func NormalizeMethod(method string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	if m == "" {
		return http.MethodPost, nil
	}
	if _, ok := knownMethods[m]; !ok {
		return "", fmt.Errorf("unsupported method %q", method)
	}
	return m, nil
}
