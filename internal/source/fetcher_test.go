package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/logging"
	"github.com/epic-tm/completionist/internal/version"
)

const sampleDoc = `{"planets":[{"planetName":"Body","tiers":[{"tierName":"Start","achievements":[{"title":"Run","description":"5k","status":"available","dateCompleted":null}]}]}]}`

var testShape = achievements.Shape{Domains: 1, Tiers: 1, NodesPerTier: 2}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a.json", true},
		{"http://localhost:8080/a.json", true},
		{"achievements.json", false},
		{"/tmp/http-cache/a.json", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.in); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFetch_HTTP(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	f := NewFetcher(WithTimeout(5 * time.Second))

	res := f.Fetch(context.Background(), srv.URL+"/achievements.json")
	if res.Err != nil {
		t.Fatalf("Fetch: %v", res.Err)
	}
	if string(res.Data) != sampleDoc {
		t.Errorf("Data = %q", res.Data)
	}
	if gotUA != "completionist/"+version.Version {
		t.Errorf("User-Agent = %q", gotUA)
	}

	res = f.Fetch(context.Background(), srv.URL+"/missing.json")
	if res.Err == nil || !strings.Contains(res.Err.Error(), "404") {
		t.Errorf("missing document err = %v, want status 404", res.Err)
	}
}

func TestFetch_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "achievements.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(WithTimeout(time.Second))
	res := f.Fetch(context.Background(), path)
	if res.Err != nil {
		t.Fatalf("Fetch: %v", res.Err)
	}
	if res.Location != path {
		t.Errorf("Location = %q", res.Location)
	}

	res = f.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if res.Err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(good, []byte(sampleDoc), 0o644)
	os.WriteFile(bad, []byte(`{"planets": [`), 0o644)

	f := NewFetcher()
	log := logging.Discard()
	ctx := context.Background()

	tests := []struct {
		name     string
		location string
		wantOK   bool
		wantName string
	}{
		{"valid file", good, true, "Body"},
		{"malformed json", bad, false, "Planet 1"},
		{"missing file", filepath.Join(dir, "missing.json"), false, "Planet 1"},
		{"no location", "", false, "Planet 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ok := LoadDocument(ctx, f, tt.location, testShape, log)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if doc == nil {
				t.Fatal("nil document")
			}
			if doc.Domains[0].Name != tt.wantName {
				t.Errorf("domain name = %q, want %q", doc.Domains[0].Name, tt.wantName)
			}
			if !tt.wantOK {
				if diff := cmp.Diff(achievements.Default(testShape), doc); diff != "" {
					t.Errorf("fallback differs from default:\n%s", diff)
				}
			}
		})
	}
}
