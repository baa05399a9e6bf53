package decision

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const fetchTestPage = `<!DOCTYPE html>
<html>
<head>
<title>Go Tutorial: Slices</title>
<meta name="description" content="A beginner course on Go slices">
</head>
<body>
<form action="/search"></form>
<p>This tutorial is part of a larger course. Learn the basics here.</p>
</body>
</html>`

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(fetchTestPage))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second)
	meta, err := f.Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if meta.Title != "Go Tutorial: Slices" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Description != "A beginner course on Go slices" {
		t.Errorf("Description = %q", meta.Description)
	}
	if !meta.HasForms {
		t.Error("HasForms = false")
	}
	if meta.HasVideo {
		t.Error("HasVideo = true")
	}
	if meta.EducationalIndicators == 0 {
		t.Error("EducationalIndicators = 0")
	}
	if meta.ContentLength == 0 {
		t.Error("ContentLength = 0")
	}
}

func TestHTTPFetcherMultibytePage(t *testing.T) {
	// Runes like U+023A grow when lowercased by strings.ToLower, which
	// used to desynchronize the scan offsets from the original page and
	// panic the slice. Extraction must stay aligned on such pages.
	page := strings.Repeat("Ⱥ", 100) + `<TITLE>abc</TITLE>
<meta NAME="description" CONTENT="Ⱥ summary">`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second)
	meta, err := f.Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if meta.Title != "abc" {
		t.Errorf("Title = %q, want %q", meta.Title, "abc")
	}
	if meta.Description != "Ⱥ summary" {
		t.Errorf("Description = %q, want %q", meta.Description, "Ⱥ summary")
	}
}

func TestHTTPFetcherErrorKeepsBasicMetadata(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/page"
	srv.Close()

	f := NewHTTPFetcher(time.Second)
	meta, err := f.Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("Fetch() from a closed server succeeded")
	}
	if meta == nil || meta.URL != url {
		t.Errorf("metadata = %+v, want URL preserved", meta)
	}
}

func TestHTTPFetcherHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := NewHTTPFetcher(10 * time.Second)
	if _, err := f.Fetch(ctx, srv.URL); err == nil {
		t.Fatal("Fetch() ignored context deadline")
	}
}
