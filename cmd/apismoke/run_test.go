package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/bgricker/apismoke/internal/config"
	"github.com/bgricker/apismoke/internal/mockapi"
	"github.com/bgricker/apismoke/internal/registry"
	"github.com/bgricker/apismoke/internal/report"
)

const twoEndpoints = `endpoints:
  - name: Listar Planos
    path: /monitora/listar_planos
    category: Planos
  - name: Listar Plano do Usuário
    path: /monitora/listar_plano_user
    category: Planos
    body:
      idUser: ${user_id}
  - name: Contratar Plano
    path: /monitora/contratar_plano
    category: Planos
    skip_test: true
`

func TestRunCommandAgainstMock(t *testing.T) {
	dir := workspace(t)
	endpoints := registry.Default("1")
	handler := mockapi.NewHandler(endpoints, mockapi.Options{Token: "good"})

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		stdout, _, err := execute(t, "run", "--base-url", server.URL, "--token", "good", "--delay", "0", "--category", "Planos")
		if err != nil {
			t.Fatalf("command execute: %v\n%s", err, stdout)
		}

		for _, want := range []string{
			"API ENDPOINT TEST",
			"Base URL: " + server.URL,
			"Token: good...",
			"Testing: Listar Planos",
			"SUCCESS - Status 200",
			"Data returned: empty",
			"SKIPPING: Inserir Plano Usuário",
			"FINAL REPORT",
			"Success rate: 100.0%",
			"Report saved to: " + config.DefaultOutput,
		} {
			if !strings.Contains(stdout, want) {
				t.Fatalf("expected %q in output, got %q", want, stdout)
			}
		}
		if handler.Hits("POST /monitora/listar_planos") != 1 {
			t.Fatalf("expected exactly one call to listar_planos")
		}
	})

	doc := readReport(t, filepath.Join(dir, config.DefaultOutput))
	if doc.Summary.Failing != 0 || doc.Summary.Working == 0 || doc.Summary.Skipped == 0 {
		t.Fatalf("unexpected summary %+v", doc.Summary)
	}
	if len(doc.ByCategory) != 1 || doc.ByCategory[0].Name != "Planos" {
		t.Fatalf("unexpected categories %+v", doc.ByCategory)
	}
	total := doc.ByCategory[0].Working + doc.ByCategory[0].Failing + doc.ByCategory[0].Skipped
	if total != doc.Summary.Working+doc.Summary.Failing+doc.Summary.Skipped {
		t.Fatalf("category counts do not add up: %+v vs %+v", doc.ByCategory, doc.Summary)
	}
}

func TestRunCommandPlaceholderToken(t *testing.T) {
	dir := workspace(t)
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		stdout, _, err := execute(t, "run", "--base-url", server.URL, "--delay", "0")
		if !errors.Is(err, config.ErrPlaceholderToken) {
			t.Fatalf("expected placeholder error, got %v", err)
		}
		if !strings.Contains(stdout, "configure your authentication token first") {
			t.Fatalf("expected instructions, got %q", stdout)
		}
		if len(requests) != 0 {
			t.Fatalf("expected no requests, got %d", len(requests))
		}
	})

	if _, err := os.Stat(filepath.Join(dir, config.DefaultOutput)); !os.IsNotExist(err) {
		t.Fatalf("expected no report file, stat err %v", err)
	}
}

func TestRunCommandBlankTokenCountsAsUnconfigured(t *testing.T) {
	workspace(t)
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		_, _, err := execute(t, "run", "--base-url", server.URL, "--token", "", "--delay", "0")
		if !errors.Is(err, config.ErrPlaceholderToken) {
			t.Fatalf("expected placeholder error for empty flag, got %v", err)
		}

		t.Setenv(config.TokenEnv, "   ")
		_, _, err = execute(t, "run", "--base-url", server.URL, "--delay", "0")
		if !errors.Is(err, config.ErrPlaceholderToken) {
			t.Fatalf("expected placeholder error for blank env token, got %v", err)
		}
		if len(requests) != 0 {
			t.Fatalf("expected no requests, got %d", len(requests))
		}
	})
}

func TestRunCommandFailOnHTTPError(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "endpoints.yml"), twoEndpoints)

	set, err := registry.NewLoader(dir, "1").Load([]string{"endpoints.yml"})
	if err != nil {
		t.Fatalf("load endpoints: %v", err)
	}
	handler := mockapi.NewHandler(set.Endpoints, mockapi.Options{
		Status: map[string]int{"POST /monitora/listar_plano_user": http.StatusInternalServerError},
	})

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		stdout, _, err := execute(t, "run", "--endpoints", "endpoints.yml", "--base-url", server.URL, "--token", "t", "--delay", "0", "--fail-on-http-error", "--output", "out/report.json")
		if err == nil || !strings.Contains(err.Error(), "1 endpoint(s) failing") {
			t.Fatalf("expected failing error, got %v", err)
		}
		if !strings.Contains(stdout, "FAILURE - Status 500") || !strings.Contains(stdout, "Server error") {
			t.Fatalf("expected failure with hint, got %q", stdout)
		}
	})

	doc := readReport(t, filepath.Join(dir, "out", "report.json"))
	if doc.Summary.Working != 1 || doc.Summary.Failing != 1 || doc.Summary.Skipped != 1 || doc.Summary.SuccessRate != "50.0%" {
		t.Fatalf("unexpected summary %+v", doc.Summary)
	}
	if doc.Failing[0].Status != 500 || doc.Failing[0].Error != "request failed with status code 500" {
		t.Fatalf("unexpected failing entry %+v", doc.Failing[0])
	}
}

func TestRunCommandDefaultPolicyKeepsHTTPErrorsWorking(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "endpoints.yml"), twoEndpoints)

	set, err := registry.NewLoader(dir, "1").Load([]string{"endpoints.yml"})
	if err != nil {
		t.Fatalf("load endpoints: %v", err)
	}
	handler := mockapi.NewHandler(set.Endpoints, mockapi.Options{
		Status: map[string]int{"POST /monitora/listar_plano_user": http.StatusInternalServerError},
	})

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		stdout, _, err := execute(t, "run", "--endpoints", "endpoints.yml", "--base-url", server.URL, "--token", "t", "--delay", "0")
		if err != nil {
			t.Fatalf("command execute: %v", err)
		}
		if !strings.Contains(stdout, "RESPONDED - Status 500") {
			t.Fatalf("expected highlighted HTTP error status, got %q", stdout)
		}
	})

	doc := readReport(t, filepath.Join(dir, config.DefaultOutput))
	if doc.Summary.Working != 2 || doc.Summary.Failing != 0 {
		t.Fatalf("unexpected summary %+v", doc.Summary)
	}
}

func TestRunCommandConnectionFailureContinues(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "endpoints.yml"), twoEndpoints)

	server := httptest.NewServer(http.NotFoundHandler())
	closedURL := server.URL
	server.Close()

	stdout, _, err := execute(t, "run", "--endpoints", "endpoints.yml", "--base-url", closedURL, "--token", "t", "--delay", "0")
	if err == nil || !strings.Contains(err.Error(), "2 endpoint(s) failing") {
		t.Fatalf("expected both endpoints failing, got %v", err)
	}
	if strings.Count(stdout, "FAILURE - Status N/A") != 2 {
		t.Fatalf("expected two transport failures, got %q", stdout)
	}

	doc := readReport(t, filepath.Join(dir, config.DefaultOutput))
	for _, f := range doc.Failing {
		if f.Status != 0 || f.Error == "" {
			t.Fatalf("unexpected failing entry %+v", f)
		}
	}
}

func TestRunCommandJSONFormat(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "endpoints.yml"), twoEndpoints)

	httphelpers.WithServer(httphelpers.HandlerWithJSONResponse(map[string]interface{}{"data": []interface{}{1}}, nil), func(server *httptest.Server) {
		stdout, _, err := execute(t, "run", "--endpoints", "endpoints.yml", "--base-url", server.URL, "--token", "t", "--delay", "0", "--format", "json")
		if err != nil {
			t.Fatalf("command execute: %v", err)
		}

		var doc report.Document
		if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
			t.Fatalf("stdout is not a report document: %v\n%s", err, stdout)
		}
		if doc.Summary.Working != 2 || doc.Summary.Skipped != 1 {
			t.Fatalf("unexpected summary %+v", doc.Summary)
		}
		if doc.Working[1].URL != "/monitora/listar_plano_user" {
			t.Fatalf("unexpected url %q", doc.Working[1].URL)
		}
	})

	if _, err := os.Stat(filepath.Join(dir, config.DefaultOutput)); err != nil {
		t.Fatalf("expected report file: %v", err)
	}
}

func TestRunCommandInvalidFlags(t *testing.T) {
	workspace(t)

	if _, _, err := execute(t, "run", "--format", "xml"); err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected format error, got %v", err)
	}
	if _, _, err := execute(t, "run", "--endpoints", "missing.yml"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func readReport(t *testing.T, path string) report.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var doc report.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	return doc
}
