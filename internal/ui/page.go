package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/alitto/pond/v2"
	"golang.org/x/net/html"

	"github.com/samvad-hq/billi-gallery/internal/domain"
	"github.com/samvad-hq/billi-gallery/internal/logger"
	"github.com/samvad-hq/billi-gallery/internal/render"
	"github.com/samvad-hq/billi-gallery/pkg/publishers"
)

// Status messages written to the page status region.
const (
	MsgRandomLoadFailed     = "Unable to load random cats. Please try again."
	MsgFavouritesLoadFailed = "Unable to load favorite cats."
	MsgUploadsLoadFailed    = "Unable to load uploaded cats."
	MsgFavouriteSaved       = "Cat saved to favorites."
	MsgFavouriteSaveFailed  = "Unable to save to favorites."
	MsgFavouriteRemoved     = "Cat removed from favorites."
	MsgFavouriteRemoveFail  = "Unable to remove from favorites."
	MsgUploadDeleted        = "Cat upload deleted."
	MsgUploadDeleteFailed   = "Unable to delete upload."
	MsgUploadEmpty          = "Please choose a photo before uploading."
	MsgUploadSucceeded      = "Cat uploaded successfully."
	MsgUploadFailed         = "Unable to upload the cat photo."

	ConfirmUploadDelete = "Are you sure you want to delete this upload?"
)

// Container selectors looked up once per page.
const (
	SelRandom      = ".randomCats__cards"
	SelFavourites  = ".favouriteCats__cards"
	SelUploads     = ".uploadedCats__cards"
	SelRefresh     = `[data-action="refresh-random"]`
	SelUploadForm  = "#uploadCatForm"
	SelStatus      = "#error"
	SelBreedSelect = "#breedSelector"
	SelBreeds      = "#breedsContainer"
)

const initLoadWorkers = 4

// ErrFeatureDisabled is returned when a command targets a feature whose
// containers are missing from the page.
var ErrFeatureDisabled = errors.New("feature not present on page")

// API is the remote surface a page drives.
type API interface {
	RandomImages(ctx context.Context) ([]domain.Image, error)
	Favourites(ctx context.Context) ([]domain.Favourite, error)
	SaveFavourite(ctx context.Context, imageID string) (domain.FavouriteCreated, error)
	DeleteFavourite(ctx context.Context, favouriteID string) error
	Uploads(ctx context.Context) ([]domain.Image, error)
	DeleteUpload(ctx context.Context, imageID string) error
	UploadImage(ctx context.Context, filename string, r io.Reader) (domain.Image, error)
	Breeds(ctx context.Context) ([]domain.Breed, error)
}

// EventPublisher receives activity events. *publishers.Fanout satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Options tune a page. Zero values are usable; a nil Pool gives the page a
// private pool that Close stops.
type Options struct {
	Name   string
	Pool   pond.Pool
	Events EventPublisher
	Log    logger.Logger
}

// Page owns one rendered document and the local state of its components.
// Remote calls run outside the lock; every document mutation happens under it.
type Page struct {
	mu  sync.Mutex
	doc *goquery.Document

	name   string
	api    API
	events EventPublisher
	pool   pond.Pool
	owned  bool
	log    logger.Logger

	random     *Collection
	favourites *Collection
	uploads    *Collection

	refresh    *goquery.Selection
	uploadForm *goquery.Selection
	status     *goquery.Selection
	refreshing int

	breedSelect *goquery.Selection
	breedsBox   *goquery.Selection
	breeds      []domain.Breed
	selected    string
}

// NewPage parses markup and binds the components whose containers exist.
func NewPage(markup io.Reader, api API, opts Options) (*Page, error) {
	if api == nil {
		return nil, fmt.Errorf("api must not be nil")
	}
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, fmt.Errorf("parse page markup: %w", err)
	}

	pool, owned := opts.Pool, false
	if pool == nil {
		pool, owned = pond.NewPool(initLoadWorkers), true
	}

	p := &Page{
		doc:         doc,
		name:        strings.TrimSpace(opts.Name),
		api:         api,
		events:      opts.Events,
		pool:        pool,
		owned:       owned,
		log:         logger.Ensure(opts.Log),
		refresh:     doc.Find(SelRefresh).First(),
		uploadForm:  doc.Find(SelUploadForm).First(),
		status:      doc.Find(SelStatus).First(),
		breedSelect: doc.Find(SelBreedSelect).First(),
		breedsBox:   doc.Find(SelBreeds).First(),
	}

	randomBox := doc.Find(SelRandom).First()
	favouritesBox := doc.Find(SelFavourites).First()
	if randomBox.Length() > 0 && favouritesBox.Length() > 0 {
		p.random = newCollection("random", randomBox, render.CardOptions{
			ActionLabel: "Save in favorites",
			ActionKind:  string(KindSaveFavourite),
		})
		p.favourites = newCollection("favourites", favouritesBox, render.CardOptions{
			ActionLabel:  "Remove from favorites",
			EmptyMessage: "No favorite cats yet.",
			ActionKind:   string(KindDeleteFavourite),
		})
		p.uploads = newCollection("uploads", doc.Find(SelUploads).First(), render.CardOptions{
			ActionLabel:  "Delete Upload",
			EmptyMessage: "You haven't uploaded any cats yet.",
			ActionKind:   string(KindDeleteUpload),
			Confirm:      ConfirmUploadDelete,
		})
	}

	return p, nil
}

// Close stops the load pool when the page created its own. A shared pool
// from Options is left running.
func (p *Page) Close() {
	if p.owned {
		p.pool.StopAndWait()
	}
}

// Name is the page name used in activity events.
func (p *Page) Name() string { return p.name }

func (p *Page) homeEnabled() bool { return p.random != nil && p.favourites != nil }

func (p *Page) breedsEnabled() bool {
	return p.breedSelect.Length() > 0 && p.breedsBox.Length() > 0
}

// Init runs the initial loads of every present feature concurrently and
// returns once all of them resolved.
func (p *Page) Init(ctx context.Context) {
	group := p.pool.NewGroup()
	if p.homeEnabled() {
		group.Submit(
			func() { p.loadRandom(ctx) },
			func() { p.loadFavourites(ctx) },
			func() { p.loadUploads(ctx) },
		)
	}
	if p.breedsEnabled() {
		group.Submit(func() { p.loadBreeds(ctx) })
	}
	if err := group.Wait(); err != nil {
		p.log.WarnObj("page init interrupted", "page_error", map[string]any{
			"page":  p.name,
			"error": err.Error(),
		})
	}
}

// Dispatch handles one card or toolbar command. Remote failures end up in the
// status region; only malformed commands return an error.
func (p *Page) Dispatch(ctx context.Context, cmd Command) error {
	if !p.homeEnabled() {
		return ErrFeatureDisabled
	}

	switch cmd.Kind {
	case KindSaveFavourite:
		if _, err := p.api.SaveFavourite(ctx, cmd.ID); err != nil {
			p.actionFailed(cmd, err, MsgFavouriteSaveFailed)
			return nil
		}
		p.publish(ctx, publishers.KindFavouriteSaved, cmd.ID)
		p.loadFavourites(ctx)
		p.setStatus(MsgFavouriteSaved)
	case KindDeleteFavourite:
		if err := p.api.DeleteFavourite(ctx, cmd.ID); err != nil {
			p.actionFailed(cmd, err, MsgFavouriteRemoveFail)
			return nil
		}
		p.publish(ctx, publishers.KindFavouriteDeleted, cmd.ID)
		p.loadFavourites(ctx)
		p.setStatus(MsgFavouriteRemoved)
	case KindDeleteUpload:
		if p.uploads == nil {
			return ErrFeatureDisabled
		}
		if err := p.api.DeleteUpload(ctx, cmd.ID); err != nil {
			p.actionFailed(cmd, err, MsgUploadDeleteFailed)
			return nil
		}
		p.publish(ctx, publishers.KindUploadDeleted, cmd.ID)
		p.loadUploads(ctx)
		p.setStatus(MsgUploadDeleted)
	case KindRefreshRandom:
		p.refreshRandom(ctx)
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Kind)
	}
	return nil
}

// Upload sends one photo and re-renders the uploads collection. size is the
// byte length reported by the form; zero means no file was chosen.
func (p *Page) Upload(ctx context.Context, filename string, r io.Reader, size int64) error {
	if !p.homeEnabled() || p.uploadForm.Length() == 0 {
		return ErrFeatureDisabled
	}
	if r == nil || size <= 0 {
		p.setStatus(MsgUploadEmpty)
		return nil
	}

	p.withLock(func() { render.SetBusy(p.uploadForm, true) })
	defer p.withLock(func() { render.SetBusy(p.uploadForm, false) })

	img, err := p.api.UploadImage(ctx, filename, r)
	if err != nil {
		p.log.WarnObj("upload failed", "upload_error", map[string]any{
			"page":     p.name,
			"filename": filename,
			"error":    err.Error(),
		})
		p.setStatus(MsgUploadFailed)
		return nil
	}
	p.publish(ctx, publishers.KindUploadCreated, img.ID.String())
	p.loadUploads(ctx)
	p.setStatus(MsgUploadSucceeded)
	return nil
}

// SelectBreed shows the detail of the breed with id. Unknown ids show the
// placeholder instead.
func (p *Page) SelectBreed(id string) error {
	if !p.breedsEnabled() {
		return ErrFeatureDisabled
	}
	id = strings.TrimSpace(id)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = id
	p.renderBreedsLocked()
	return nil
}

// Render writes the current document.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.doc.Nodes) == 0 {
		return fmt.Errorf("page has no document")
	}
	return html.Render(w, p.doc.Nodes[0])
}

// Status returns the current status text.
func (p *Page) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status.Text()
}

// CollectionState reports the state of the named collection ("random",
// "favourites" or "uploads").
func (p *Page) CollectionState(name string) (State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range []*Collection{p.random, p.favourites, p.uploads} {
		if c != nil && c.name == name {
			return c.state, true
		}
	}
	return Idle, false
}

func (p *Page) refreshRandom(ctx context.Context) {
	p.withLock(func() {
		p.refreshing++
		render.SetDisabled(p.refresh, true)
	})
	p.loadRandom(ctx)
	p.withLock(func() {
		p.refreshing--
		if p.refreshing == 0 {
			render.SetDisabled(p.refresh, false)
		}
	})
}

func (p *Page) loadRandom(ctx context.Context) {
	err := p.load(ctx, p.random, func(ctx context.Context) ([]domain.Record, error) {
		images, err := p.api.RandomImages(ctx)
		return domain.RecordsFromImages(images), err
	})
	if err != nil {
		p.setStatus(MsgRandomLoadFailed)
		return
	}
	p.setStatus("")
}

func (p *Page) loadFavourites(ctx context.Context) {
	err := p.load(ctx, p.favourites, func(ctx context.Context) ([]domain.Record, error) {
		favs, err := p.api.Favourites(ctx)
		return domain.RecordsFromFavourites(favs), err
	})
	if err != nil {
		p.setStatus(MsgFavouritesLoadFailed)
	}
}

func (p *Page) loadUploads(ctx context.Context) {
	if p.uploads == nil {
		return
	}
	err := p.load(ctx, p.uploads, func(ctx context.Context) ([]domain.Record, error) {
		images, err := p.api.Uploads(ctx)
		return domain.RecordsFromImages(images), err
	})
	if err != nil {
		p.setStatus(MsgUploadsLoadFailed)
	}
}

// load runs one fetch for c. The fetch runs unlocked so concurrent loads of
// the same collection may resolve in any order.
func (p *Page) load(ctx context.Context, c *Collection, fetch func(context.Context) ([]domain.Record, error)) error {
	if c == nil {
		return nil
	}
	p.withLock(c.begin)

	records, err := fetch(ctx)
	if err != nil {
		p.log.WarnObj("collection load failed", "load_error", map[string]any{
			"page":       p.name,
			"collection": c.name,
			"error":      err.Error(),
		})
	}

	p.withLock(func() { c.finish(records, err) })
	return err
}

func (p *Page) loadBreeds(ctx context.Context) {
	breeds, err := p.api.Breeds(ctx)
	if err != nil {
		p.log.ErrorObj("failed to fetch breeds", "breeds_error", map[string]any{
			"page":  p.name,
			"error": err.Error(),
		})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.breeds = breeds
	render.BreedOptions(p.breedSelect, breeds, p.selected)
	if p.selected != "" {
		render.BreedDetail(p.doc, p.findBreed(p.selected))
	}
}

func (p *Page) renderBreedsLocked() {
	render.BreedOptions(p.breedSelect, p.breeds, p.selected)
	render.BreedDetail(p.doc, p.findBreed(p.selected))
}

func (p *Page) findBreed(id string) *domain.Breed {
	if id == "" {
		return nil
	}
	for i := range p.breeds {
		if p.breeds[i].ID == id {
			return &p.breeds[i]
		}
	}
	return nil
}

func (p *Page) actionFailed(cmd Command, err error, msg string) {
	p.log.WarnObj("command failed", "command_error", map[string]any{
		"page":  p.name,
		"kind":  string(cmd.Kind),
		"id":    cmd.ID,
		"error": err.Error(),
	})
	p.setStatus(msg)
}

func (p *Page) publish(ctx context.Context, kind, subjectID string) {
	if p.events == nil {
		return
	}
	evt := publishers.NewEvent(kind, subjectID, p.name)
	if _, err := p.events.Publish(ctx, evt); err != nil {
		p.log.WarnObj("activity publish failed", "publish_error", map[string]any{
			"kind":  kind,
			"id":    subjectID,
			"error": err.Error(),
		})
	}
}

func (p *Page) setStatus(msg string) {
	p.withLock(func() { render.SetStatus(p.status, msg) })
}

func (p *Page) withLock(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}
