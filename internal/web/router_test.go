package web_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/billi-gallery/internal/web"
	"github.com/samvad-hq/billi-gallery/pkg/catapi"
)

// fakeCatAPI is an in-memory stand-in for the remote service.
type fakeCatAPI struct {
	mu         sync.Mutex
	favourites []map[string]any
	uploads    []map[string]any
	nextID     int
	keys       []string
}

func (f *fakeCatAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, r.Header.Get(catapi.APIKeyHeader))

	path := strings.TrimPrefix(r.URL.Path, "/v1/")
	switch {
	case r.Method == http.MethodGet && path == "images/search":
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "r1", "url": "https://cdn/r1.jpg"},
			{"id": "r2", "url": "https://cdn/r2.jpg"},
		})
	case r.Method == http.MethodGet && path == "favourites":
		writeJSON(w, http.StatusOK, f.favourites)
	case r.Method == http.MethodPost && path == "favourites":
		var body struct {
			ImageID string `json:"image_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.nextID++
		f.favourites = append(f.favourites, map[string]any{
			"id":       f.nextID,
			"image_id": body.ImageID,
			"image":    map[string]any{"id": body.ImageID, "url": "https://cdn/" + body.ImageID + ".jpg"},
		})
		writeJSON(w, http.StatusOK, map[string]any{"id": f.nextID, "message": "SUCCESS"})
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "favourites/"):
		id := strings.TrimPrefix(path, "favourites/")
		for i, fav := range f.favourites {
			if fmt.Sprint(fav["id"]) == id {
				f.favourites = append(f.favourites[:i], f.favourites[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"message": "SUCCESS"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
	case r.Method == http.MethodGet && path == "images/":
		writeJSON(w, http.StatusOK, f.uploads)
	case r.Method == http.MethodPost && path == "images/upload":
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "file missing"})
			return
		}
		file.Close()
		img := map[string]any{"id": "up-" + header.Filename, "url": "https://cdn/" + header.Filename}
		f.uploads = append(f.uploads, img)
		writeJSON(w, http.StatusCreated, img)
	case r.Method == http.MethodGet && path == "breeds":
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "abys", "name": "Abyssinian", "origin": "Egypt", "life_span": "14 - 15", "affection_level": 5},
		})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newGallery(t *testing.T, opts web.Options) (*httptest.Server, *http.Client, *fakeCatAPI) {
	t.Helper()
	remote := &fakeCatAPI{}
	remoteSrv := httptest.NewServer(remote)
	t.Cleanup(remoteSrv.Close)

	client, err := catapi.NewClient(catapi.Config{BaseURL: remoteSrv.URL + "/v1/", APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	opts.API = client
	ts := httptest.NewServer(web.NewRouter(opts))
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return ts, &http.Client{Jar: jar}, remote
}

func getDoc(t *testing.T, c *http.Client, rawURL string) *goquery.Document {
	t.Helper()
	resp, err := c.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", rawURL, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse %s: %v", rawURL, err)
	}
	return doc
}

func postDoc(t *testing.T, c *http.Client, rawURL string, form url.Values) *goquery.Document {
	t.Helper()
	resp, err := c.PostForm(rawURL, form)
	if err != nil {
		t.Fatalf("POST %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST %s: status %d body=%s", rawURL, resp.StatusCode, body)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse response: %v", err)
	}
	return doc
}

func TestHealth(t *testing.T) {
	ts, c, _ := newGallery(t, web.Options{})
	resp, err := c.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}
}

func TestHomeRendersCollectionsAndSetsSession(t *testing.T) {
	ts, c, remote := newGallery(t, web.Options{})

	doc := getDoc(t, c, ts.URL+"/")

	if n := doc.Find(".randomCats__cards article.catCard").Length(); n != 2 {
		t.Fatalf("expected 2 random cards, got %d", n)
	}
	if got := doc.Find(".favouriteCats__cards p.emptyState").Text(); got != "No favorite cats yet." {
		t.Fatalf("unexpected favourites empty state %q", got)
	}
	u, _ := url.Parse(ts.URL)
	var found bool
	for _, ck := range c.Jar.Cookies(u) {
		if ck.Name == web.SessionCookie && ck.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected session cookie")
	}
	remote.mu.Lock()
	defer remote.mu.Unlock()
	for _, k := range remote.keys {
		if k != "secret" {
			t.Fatalf("expected credential on every remote call, got %q", k)
		}
	}
}

func TestSaveAndRemoveFavouriteFlow(t *testing.T) {
	ts, c, _ := newGallery(t, web.Options{})
	getDoc(t, c, ts.URL+"/")

	doc := postDoc(t, c, ts.URL+"/commands", url.Values{"kind": {"favourite.save"}, "id": {"abc"}})

	favs := doc.Find(".favouriteCats__cards article.catCard")
	if favs.Length() != 1 {
		t.Fatalf("expected 1 favourite card, got %d", favs.Length())
	}
	if src, _ := favs.Find("img").Attr("src"); src != "https://cdn/abc.jpg" {
		t.Fatalf("unexpected favourite image %q", src)
	}
	if got := doc.Find("#error").Text(); got != "Cat saved to favorites." {
		t.Fatalf("unexpected status %q", got)
	}

	favID, _ := favs.Find(`input[name="id"]`).Attr("value")
	doc = postDoc(t, c, ts.URL+"/commands", url.Values{"kind": {"favourite.delete"}, "id": {favID}})
	if n := doc.Find(".favouriteCats__cards article.catCard").Length(); n != 0 {
		t.Fatalf("expected favourite removed, got %d cards", n)
	}
	if got := doc.Find("#error").Text(); got != "Cat removed from favorites." {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestCommandRejectsUnknownKind(t *testing.T) {
	ts, c, _ := newGallery(t, web.Options{})
	resp, err := c.PostForm(ts.URL+"/commands", url.Values{"kind": {"theme.toggle"}})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write(content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadFlow(t *testing.T) {
	ts, c, _ := newGallery(t, web.Options{})
	getDoc(t, c, ts.URL+"/")

	body, ctype := multipartBody(t, "tom.jpg", []byte("jpeg-bytes"))
	resp, err := c.Post(ts.URL+"/uploads", ctype, body)
	if err != nil {
		t.Fatalf("POST /uploads: %v", err)
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got := doc.Find("#error").Text(); got != "Cat uploaded successfully." {
		t.Fatalf("unexpected status %q", got)
	}
	id, _ := doc.Find(`.uploadedCats__cards input[name="id"]`).Attr("value")
	if id != "up-tom.jpg" {
		t.Fatalf("unexpected upload card id %q", id)
	}
}

func TestUploadWithoutFile(t *testing.T) {
	ts, c, _ := newGallery(t, web.Options{})

	body, ctype := multipartBody(t, "", nil)
	resp, err := c.Post(ts.URL+"/uploads", ctype, body)
	if err != nil {
		t.Fatalf("POST /uploads: %v", err)
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Find("#error").Text(); got != "Please choose a photo before uploading." {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestUploadTooLarge(t *testing.T) {
	ts, c, _ := newGallery(t, web.Options{MaxUploadBytes: 64})

	body, ctype := multipartBody(t, "big.jpg", bytes.Repeat([]byte("x"), 4096))
	resp, err := c.Post(ts.URL+"/uploads", ctype, body)
	if err != nil {
		t.Fatalf("POST /uploads: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode < 400 {
		t.Fatalf("expected rejection, got %d", resp.StatusCode)
	}
}

func TestBreedsSelection(t *testing.T) {
	ts, c, _ := newGallery(t, web.Options{})

	doc := getDoc(t, c, ts.URL+"/breeds")
	if n := doc.Find("#breedSelector option").Length(); n != 2 {
		t.Fatalf("expected placeholder + 1 breed option, got %d", n)
	}
	if _, hidden := doc.Find("#breedDetail").Attr("hidden"); !hidden {
		t.Fatalf("expected detail hidden before selection")
	}

	doc = getDoc(t, c, ts.URL+"/breeds?breed=abys")
	if got := doc.Find("#breedName").Text(); got != "Abyssinian" {
		t.Fatalf("unexpected breed name %q", got)
	}
	if got := doc.Find("#breedImage").AttrOr("src", ""); got == "" {
		t.Fatalf("expected fallback image")
	}
	if n := doc.Find("#breedStats .statRow").Length(); n != 6 {
		t.Fatalf("expected 6 stat rows, got %d", n)
	}
}
