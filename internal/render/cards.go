package render

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/samvad-hq/billi-gallery/internal/domain"
)

const (
	// DefaultEmptyMessage is shown when a collection has no records.
	DefaultEmptyMessage = "No cats available yet."
	// DefaultActionPath is where card actions are submitted.
	DefaultActionPath = "/commands"

	cardImageWidth = "350"
	cardImageAlt   = "Photo of a cat"
)

// CardOptions configure one collection render. ActionKind names the command
// each card's button dispatches with the record id. A non-empty Confirm makes
// the browser ask before the form submits.
type CardOptions struct {
	ActionLabel  string
	EmptyMessage string
	ActionKind   string
	ActionPath   string
	Confirm      string
}

// Cards replaces the children of container with one card per record, or a
// single empty-state node. An empty selection is ignored.
func Cards(container *goquery.Selection, records []domain.Record, opts CardOptions) {
	if container == nil || container.Length() == 0 {
		return
	}
	container.Empty()

	if len(records) == 0 {
		msg := opts.EmptyMessage
		if msg == "" {
			msg = DefaultEmptyMessage
		}
		container.AppendNodes(appendAll(element(atom.P, "class", "emptyState"), text(msg)))
		return
	}

	nodes := make([]*html.Node, 0, len(records))
	for _, rec := range records {
		nodes = append(nodes, Card(rec, opts))
	}
	container.AppendNodes(nodes...)
}

// Card builds one detached card: a media block with a lazily loaded image and
// an action form posting the command kind and the record id.
func Card(rec domain.Record, opts CardOptions) *html.Node {
	path := opts.ActionPath
	if path == "" {
		path = DefaultActionPath
	}

	img := element(atom.Img,
		"width", cardImageWidth,
		"loading", "lazy",
		"decoding", "async",
		"alt", cardImageAlt,
		"src", rec.Source(),
	)
	media := appendAll(element(atom.Div, "class", "catCard__media"), img)

	formAttrs := []string{"class", "catCard__action", "method", "post", "action", path}
	if opts.Confirm != "" {
		formAttrs = append(formAttrs,
			"data-confirm", opts.Confirm,
			"onsubmit", "return confirm("+strconv.Quote(opts.Confirm)+")",
		)
	}
	form := appendAll(element(atom.Form, formAttrs...),
		element(atom.Input, "type", "hidden", "name", "kind", "value", opts.ActionKind),
		element(atom.Input, "type", "hidden", "name", "id", "value", rec.ID.String()),
		appendAll(element(atom.Button, "type", "submit"), text(opts.ActionLabel)),
	)

	return appendAll(element(atom.Article, "class", "catCard"), media, form)
}
