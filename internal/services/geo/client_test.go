package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeocode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Expected /search path, got %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "Marina Beach" {
			t.Errorf("Expected query 'Marina Beach', got %q", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"13.0500","lon":"80.2824","display_name":"Marina Beach, Chennai"}]`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoints(srv.URL, srv.URL, nil)
	loc, err := client.Geocode(context.Background(), "Marina Beach")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if loc == nil {
		t.Fatal("Expected a location")
	}
	if loc.Lat != 13.05 || loc.Lng != 80.2824 {
		t.Errorf("Expected (13.05, 80.2824), got (%v, %v)", loc.Lat, loc.Lng)
	}
}

func TestGeocode_NoMatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoints(srv.URL, srv.URL, nil)
	loc, err := client.Geocode(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatalf("Expected no error for empty result, got %v", err)
	}
	if loc != nil {
		t.Errorf("Expected nil location, got %+v", loc)
	}
}

func TestSearchNearby_UsesCenterForWays(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"elements":[
			{"id":1,"type":"node","lat":13.01,"lon":80.21,"tags":{"name":"Clinic A"}},
			{"id":2,"type":"way","center":{"lat":13.02,"lon":80.22},"tags":{"name":"Hospital B"}}
		]}`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoints(srv.URL, srv.URL, nil)
	places, err := client.SearchNearby(context.Background(), 13.0, 80.2, "hospital", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("Expected 2 places, got %d", len(places))
	}
	if places[1].Lat != 13.02 || places[1].Lng != 80.22 {
		t.Errorf("Expected way coordinates from center, got (%v, %v)", places[1].Lat, places[1].Lng)
	}
	if places[0].Tags["name"] != "Clinic A" {
		t.Errorf("Expected tags preserved, got %v", places[0].Tags)
	}
}
