package catapi

import (
	"context"
	"net/http"
	"testing"
)

func TestEndpointsHitExpectedRoutes(t *testing.T) {
	type call struct {
		method string
		uri    string
	}
	var calls []call

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{method: r.Method, uri: r.URL.RequestURI()})
		switch r.URL.Path {
		case "/v1/images/search":
			_, _ = w.Write([]byte(`[{"id":"r1","url":"https://cdn/r1.jpg"}]`))
		case "/v1/favourites":
			_, _ = w.Write([]byte(`[{"id":7,"image_id":"r1","image":{"id":"r1","url":"https://cdn/r1.jpg"}}]`))
		case "/v1/images/":
			_, _ = w.Write([]byte(`[{"id":"u1","url":"https://cdn/u1.jpg"}]`))
		case "/v1/breeds":
			_, _ = w.Write([]byte(`[{"id":"abys","name":"Abyssinian","adaptability":5,"image":{"url":"https://cdn/abys.jpg"}}]`))
		default:
			_, _ = w.Write([]byte(`{"message":"SUCCESS"}`))
		}
	})
	ctx := context.Background()

	random, err := client.RandomImages(ctx)
	if err != nil || len(random) != 1 || random[0].ID != "r1" {
		t.Fatalf("RandomImages = %#v, %v", random, err)
	}
	favs, err := client.Favourites(ctx)
	if err != nil || len(favs) != 1 || favs[0].ID != "7" || favs[0].Image.URL != "https://cdn/r1.jpg" {
		t.Fatalf("Favourites = %#v, %v", favs, err)
	}
	if err := client.DeleteFavourite(ctx, "7"); err != nil {
		t.Fatalf("DeleteFavourite: %v", err)
	}
	uploads, err := client.Uploads(ctx)
	if err != nil || len(uploads) != 1 {
		t.Fatalf("Uploads = %#v, %v", uploads, err)
	}
	if err := client.DeleteUpload(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUpload: %v", err)
	}
	breeds, err := client.Breeds(ctx)
	if err != nil || len(breeds) != 1 || breeds[0].Adaptability != 5 || breeds[0].Image == nil {
		t.Fatalf("Breeds = %#v, %v", breeds, err)
	}

	want := []call{
		{method: http.MethodGet, uri: "/v1/images/search?limit=4"},
		{method: http.MethodGet, uri: "/v1/favourites"},
		{method: http.MethodDelete, uri: "/v1/favourites/7"},
		{method: http.MethodGet, uri: "/v1/images/?limit=2"},
		{method: http.MethodDelete, uri: "/v1/images/u1"},
		{method: http.MethodGet, uri: "/v1/breeds"},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %#v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %#v, want %#v", i, calls[i], want[i])
		}
	}
}

func TestListEndpointsTreatEmptyPayloadAsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	favs, err := client.Favourites(context.Background())
	if err != nil {
		t.Fatalf("Favourites: %v", err)
	}
	if len(favs) != 0 {
		t.Fatalf("expected no favourites, got %#v", favs)
	}
}

func TestListEndpointsTreatObjectPayloadAsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"not-a-list"}`))
	})
	ctx := context.Background()

	random, err := client.RandomImages(ctx)
	if err != nil || len(random) != 0 {
		t.Fatalf("RandomImages = %#v, %v", random, err)
	}
	favs, err := client.Favourites(ctx)
	if err != nil || len(favs) != 0 {
		t.Fatalf("Favourites = %#v, %v", favs, err)
	}
	uploads, err := client.Uploads(ctx)
	if err != nil || len(uploads) != 0 {
		t.Fatalf("Uploads = %#v, %v", uploads, err)
	}
	breeds, err := client.Breeds(ctx)
	if err != nil || len(breeds) != 0 {
		t.Fatalf("Breeds = %#v, %v", breeds, err)
	}
}

func TestListEndpointsRejectMalformedItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":{"nested":true}}]`))
	})

	if _, err := client.RandomImages(context.Background()); err == nil {
		t.Fatalf("expected decode error for malformed item")
	}
}

func TestMutatingEndpointsRequireIDs(t *testing.T) {
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatalf("no request expected")
	})
	ctx := context.Background()

	if _, err := client.SaveFavourite(ctx, " "); err == nil {
		t.Fatalf("expected error for empty image id")
	}
	if err := client.DeleteFavourite(ctx, ""); err == nil {
		t.Fatalf("expected error for empty favourite id")
	}
	if err := client.DeleteUpload(ctx, ""); err == nil {
		t.Fatalf("expected error for empty image id")
	}
	if _, err := client.UploadImage(ctx, "a.jpg", nil); err == nil {
		t.Fatalf("expected error for missing reader")
	}
}
