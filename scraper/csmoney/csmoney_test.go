package csmoney

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"csmoney-watcher/models"
	"csmoney-watcher/utils"
)

func newTestFetcher(serverURL string) *Fetcher {
	f := NewFetcher(NewHTTPClient(5*time.Second), utils.NewLogger(), 5*time.Second)
	f.baseURL = serverURL
	return f
}

func TestFetchQueryEncoding(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	spec := models.SearchSpec{
		Name:      "AK-47 Bloodsport",
		MaxFloat:  0.2,
		Qualities: []string{"ft", "mw"},
	}
	if _, err := newTestFetcher(srv.URL).Fetch(context.Background(), spec, 84.35); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if v := got.Get("limit"); v != "60" {
		t.Errorf("limit = %q, want 60", v)
	}
	if v := got.Get("maxFloat"); v != "0.2" {
		t.Errorf("maxFloat = %q, want 0.2", v)
	}
	if v := got.Get("maxPrice"); v != "84.35" {
		t.Errorf("maxPrice = %q, want 84.35", v)
	}
	if v := got.Get("name"); v != "AK-47 Bloodsport" {
		t.Errorf("name = %q, want the unescaped spec name", v)
	}
	if q := got["quality"]; len(q) != 2 || q[0] != "ft" || q[1] != "mw" {
		t.Errorf("quality = %v, want repeated [ft mw]", q)
	}
}

func TestFetchDecodesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[
			{"id":1,"asset":{"names":{"full":"AK-47 | Bloodsport (Field-Tested)"},"float":0.11},
			 "pricing":{"computed":80},"seller":{"steamId64":"765"},"stickers":null},
			{"id":2,"asset":{"names":{"full":"AK-47 | Bloodsport (Minimal Wear)"},"float":0.08},
			 "pricing":{"computed":95},"seller":{"steamId64":"766"},"stickers":[]}
		]}`))
	}))
	defer srv.Close()

	items, err := newTestFetcher(srv.URL).Fetch(context.Background(), models.SearchSpec{Name: "AK-47"}, 100)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items len = %d, want 2", len(items))
	}
	if items[0].ID != 1 || items[0].Asset.Names.Full != "AK-47 | Bloodsport (Field-Tested)" {
		t.Errorf("item 0 decoded wrong: %+v", items[0])
	}
	if items[1].Pricing.Computed != 95 {
		t.Errorf("item 1 price = %v, want 95", items[1].Pricing.Computed)
	}
}

func TestFetchNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := newTestFetcher(srv.URL).Fetch(context.Background(), models.SearchSpec{Name: "AK-47"}, 100); err == nil {
		t.Error("non-200 response should be a fetch error")
	}
}

func TestFetchMalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>challenge page</html>"))
	}))
	defer srv.Close()

	if _, err := newTestFetcher(srv.URL).Fetch(context.Background(), models.SearchSpec{Name: "AK-47"}, 100); err == nil {
		t.Error("non-JSON body should be a fetch error")
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	f := NewFetcher(NewHTTPClient(5*time.Second), utils.NewLogger(), 20*time.Millisecond)
	f.baseURL = srv.URL

	if _, err := f.Fetch(context.Background(), models.SearchSpec{Name: "AK-47"}, 100); err == nil {
		t.Error("expired fetch timeout should be a fetch error")
	}
}
