package web

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/alitto/pond/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/samvad-hq/billi-gallery/internal/logger"
	"github.com/samvad-hq/billi-gallery/internal/session"
	"github.com/samvad-hq/billi-gallery/internal/ui"
)

const (
	// SessionCookie carries the browser session id.
	SessionCookie = "billi_session"

	defaultMaxUploadBytes = 10 << 20
	defaultLoadWorkers    = 8
)

// Options wire the router to the remote client and shared infrastructure.
type Options struct {
	API            ui.API
	Events         ui.EventPublisher
	Pool           pond.Pool
	Log            logger.Logger
	Sessions       *session.Store[*ui.Page]
	MaxUploadBytes int64
}

type server struct {
	api       ui.API
	events    ui.EventPublisher
	pool      pond.Pool
	log       logger.Logger
	sessions  *session.Store[*ui.Page]
	maxUpload int64
}

// NewRouter builds the gallery HTTP handler.
func NewRouter(opts Options) http.Handler {
	s := &server{
		api:       opts.API,
		events:    opts.Events,
		pool:      opts.Pool,
		log:       logger.Ensure(opts.Log),
		sessions:  opts.Sessions,
		maxUpload: opts.MaxUploadBytes,
	}
	if s.sessions == nil {
		s.sessions = session.NewStore[*ui.Page](session.Options{})
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUploadBytes
	}
	if s.pool == nil {
		s.pool = pond.NewPool(defaultLoadWorkers)
	}
	s.sessions.OnEvict(func(_ string, page *ui.Page) { page.Close() })

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.handleHome)
	r.Get("/breeds", s.handleBreeds)
	r.Post("/commands", s.handleCommand)
	r.Post("/uploads", s.handleUpload)

	return r
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	page, ok := s.page(w, r, PageHome)
	if !ok {
		return
	}
	s.render(w, page)
}

func (s *server) handleBreeds(w http.ResponseWriter, r *http.Request) {
	page, ok := s.page(w, r, PageBreeds)
	if !ok {
		return
	}
	if q := r.URL.Query(); q.Has("breed") {
		if err := page.SelectBreed(q.Get("breed")); err != nil && !errors.Is(err, ui.ErrFeatureDisabled) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	s.render(w, page)
}

func (s *server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	cmd, err := ui.ParseCommand(r.PostForm.Get("kind"), r.PostForm.Get("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, ok := s.page(w, r, PageHome)
	if !ok {
		return
	}
	if err := page.Dispatch(r.Context(), cmd); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid upload form", http.StatusBadRequest)
		return
	}

	page, ok := s.page(w, r, PageHome)
	if !ok {
		return
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		err = page.Upload(r.Context(), "", nil, 0)
	case err != nil:
		http.Error(w, "invalid upload form", http.StatusBadRequest)
		return
	default:
		defer file.Close()
		err = page.Upload(r.Context(), header.Filename, file, header.Size)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// page returns the session's page, creating and loading it on first use.
func (s *server) page(w http.ResponseWriter, r *http.Request, name string) (*ui.Page, bool) {
	sid := s.sessionID(w, r)
	page, created, err := s.sessions.GetOrCreate(sid+"/"+name, func() (*ui.Page, error) {
		markup, err := pageMarkup(name)
		if err != nil {
			return nil, err
		}
		return ui.NewPage(markup, s.api, ui.Options{
			Name:   name,
			Pool:   s.pool,
			Events: s.events,
			Log:    s.log,
		})
	})
	if err != nil {
		s.log.ErrorObj("page setup failed", "page_error", map[string]any{
			"page":  name,
			"error": err.Error(),
		})
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return nil, false
	}
	if created {
		page.Init(r.Context())
	}
	return page, true
}

func (s *server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *server) render(w http.ResponseWriter, page *ui.Page) {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		s.log.ErrorObj("page render failed", "render_error", map[string]any{
			"page":  page.Name(),
			"error": err.Error(),
		})
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// backTo picks the redirect target after a command: the referring page when
// it is one of ours, otherwise home.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	switch ref.Path {
	case "/", "/breeds":
		return ref.Path
	default:
		return "/"
	}
}
