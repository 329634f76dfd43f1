package registry

import (
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	endpoints := Default("7")

	runnable, skipped := Count(endpoints)
	if runnable != 17 || skipped != 9 {
		t.Fatalf("expected 17 runnable and 9 skipped, got %d and %d", runnable, skipped)
	}

	seen := make(map[string]struct{})
	for _, ep := range endpoints {
		if ep.Category == "" || ep.Name == "" || ep.Path == "" {
			t.Fatalf("incomplete descriptor: %+v", ep)
		}
		if _, ok := seen[ep.Label()]; ok {
			t.Fatalf("duplicate endpoint %s", ep.Label())
		}
		seen[ep.Label()] = struct{}{}
		if id := ep.Body.GetByKey("idUser"); !id.IsNull() && id.StringValue() != "7" {
			t.Fatalf("%s: expected idUser 7, got %s", ep.Name, id.JSONString())
		}
	}

	if endpoints[0].Name != "Listar Planos" || endpoints[len(endpoints)-1].Name != "Monitoramento" {
		t.Fatalf("unexpected declaration order: first %q last %q", endpoints[0].Name, endpoints[len(endpoints)-1].Name)
	}
}

func TestNormalizeMethod(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "POST", false},
		{"get", "GET", false},
		{" Delete ", "DELETE", false},
		{"FETCH", "", true},
	}
	for _, c := range cases {
		got, err := NormalizeMethod(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("NormalizeMethod(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
		}
		if got != c.want {
			t.Fatalf("NormalizeMethod(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
