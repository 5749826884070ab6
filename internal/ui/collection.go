package ui

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/billi-gallery/internal/domain"
	"github.com/samvad-hq/billi-gallery/internal/render"
)

// State is the load state of a collection.
type State int

const (
	Idle State = iota
	Loading
	Rendered
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Collection is one card container on a page. Its methods must be called with
// the owning page's lock held.
type Collection struct {
	name      string
	container *goquery.Selection
	opts      render.CardOptions

	state    State
	last     State
	inflight int
}

func newCollection(name string, container *goquery.Selection, opts render.CardOptions) *Collection {
	if container.Length() == 0 {
		return nil
	}
	return &Collection{name: name, container: container, opts: opts}
}

func (c *Collection) begin() {
	c.inflight++
	c.state = Loading
	render.SetBusy(c.container, true)
}

// finish applies one resolved load. Loads are never cancelled, so whichever
// resolves last leaves its content in the container.
func (c *Collection) finish(records []domain.Record, err error) {
	if err == nil {
		render.Cards(c.container, records, c.opts)
		c.last = Rendered
	} else {
		c.last = Failed
	}

	if c.inflight > 0 {
		c.inflight--
	}
	if c.inflight == 0 {
		c.state = c.last
		render.SetBusy(c.container, false)
	}
}
