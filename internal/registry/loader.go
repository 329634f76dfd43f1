package registry

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"gopkg.in/yaml.v3"
)

// UserIDPlaceholder is replaced with the configured test user in string body values.
const UserIDPlaceholder = "${user_id}"

// Loader reads endpoint definitions from YAML files.
type Loader struct {
	Root       string
	TestUserID string
}

// NewLoader constructs a Loader that resolves paths relative to root.
func NewLoader(root, testUserID string) *Loader {
	return &Loader{Root: root, TestUserID: testUserID}
}

// Load reads the supplied endpoint files in order and concatenates their endpoints.
func (l *Loader) Load(paths []string) (Set, error) {
	set := Set{}
	for _, relPath := range paths {
		full := relPath
		if !filepath.IsAbs(full) {
			full = filepath.Join(l.Root, relPath)
		}
		endpoints, warnings, err := l.parseFile(full, relPath)
		if err != nil {
			return Set{}, err
		}
		set.Sources = append(set.Sources, relPath)
		set.Endpoints = append(set.Endpoints, endpoints...)
		set.Warnings = append(set.Warnings, warnings...)
	}
	set.Warnings = append(set.Warnings, duplicateWarnings(set.Endpoints)...)
	return set, nil
}

func (l *Loader) parseFile(fullPath, displayPath string) ([]Endpoint, []Warning, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open endpoints %q: %w", displayPath, err)
	}
	defer f.Close()
	return l.decode(f, displayPath)
}

func (l *Loader) decode(r io.Reader, displayPath string) ([]Endpoint, []Warning, error) {
	decoder := yaml.NewDecoder(r)

	var doc fileDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, []Warning{{Source: displayPath, Message: "file is empty"}}, nil
		}
		return nil, nil, fmt.Errorf("parse endpoints %q: %w", displayPath, err)
	}

	warnings := make([]Warning, 0)
	endpoints := make([]Endpoint, 0, len(doc.Endpoints))
	for idx, epDoc := range doc.Endpoints {
		path := strings.TrimSpace(epDoc.Path)
		if path == "" {
			path = strings.TrimSpace(epDoc.URL)
		}
		if path == "" {
			return nil, nil, fmt.Errorf("parse endpoints %q: endpoint %d has no path", displayPath, idx+1)
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		method, err := NormalizeMethod(epDoc.Method)
		if err != nil {
			return nil, nil, fmt.Errorf("parse endpoints %q: endpoint %d: %w", displayPath, idx+1, err)
		}

		ep := Endpoint{
			Name:     strings.TrimSpace(epDoc.Name),
			Method:   method,
			Path:     path,
			Category: strings.TrimSpace(epDoc.Category),
			SkipTest: epDoc.SkipTest,
			Body:     ldvalue.CopyArbitraryValue(substitute(epDoc.Body, l.TestUserID)),
		}
		if ep.Name == "" {
			ep.Name = ep.Label()
		}
		if ep.Category == "" {
			ep.Category = DefaultCategory
		}
		if epDoc.Body == nil {
			ep.Body = object()
		}
		if ep.Body.Type() != ldvalue.ObjectType {
			return nil, nil, fmt.Errorf("parse endpoints %q: endpoint %q body must be a mapping", displayPath, ep.Name)
		}
		if (ep.Method == http.MethodGet || ep.Method == http.MethodHead) && ep.Body.Count() > 0 {
			warnings = append(warnings, Warning{
				Source:   displayPath,
				Endpoint: ep.Name,
				Message:  fmt.Sprintf("body is not sent with %s requests", ep.Method),
			})
		}
		endpoints = append(endpoints, ep)
	}

	if len(endpoints) == 0 {
		warnings = append(warnings, Warning{Source: displayPath, Message: "no endpoints declared"})
	}

	return endpoints, warnings, nil
}

type fileDocument struct {
	Endpoints []endpointDocument `yaml:"endpoints"`
}

type endpointDocument struct {
	Name     string      `yaml:"name"`
	Method   string      `yaml:"method"`
	Path     string      `yaml:"path"`
	URL      string      `yaml:"url"`
	Body     interface{} `yaml:"body"`
	Category string      `yaml:"category"`
	SkipTest bool        `yaml:"skip_test"`
}

// substitute replaces the user placeholder in every string found inside v.
func substitute(v interface{}, userID string) interface{} {
	switch t := v.(type) {
	case string:
		return strings.ReplaceAll(t, UserIDPlaceholder, userID)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = substitute(item, userID)
		}
		return out
	case map[interface{}]interface{}:
		// yaml.v3 uses this shape as soon as one key is not a string, e.g. `1: x`.
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = substitute(item, userID)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = substitute(item, userID)
		}
		return out
	default:
		return v
	}
}

func duplicateWarnings(endpoints []Endpoint) []Warning {
	seen := make(map[string]struct{}, len(endpoints))
	var warnings []Warning
	for _, ep := range endpoints {
		key := ep.Label()
		if _, ok := seen[key]; ok {
			warnings = append(warnings, Warning{Endpoint: ep.Name, Message: fmt.Sprintf("%s is declared more than once", key)})
			continue
		}
		seen[key] = struct{}{}
	}
	return warnings
}
