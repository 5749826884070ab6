package render

import (
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"

	"github.com/samvad-hq/billi-gallery/internal/domain"
)

// FallbackBreedImage is shown for breeds without an image.
const FallbackBreedImage = "https://cdn2.thecatapi.com/images/0XYvRd7oD.jpg"

const maxTraitScore = 5

// BreedOptions fills the selector with one option per breed, replacing any
// options it added before. Options with an empty value (placeholders) stay.
func BreedOptions(selector *goquery.Selection, breeds []domain.Breed, selectedID string) {
	if selector == nil || selector.Length() == 0 {
		return
	}
	selector.Find("option").Not(`[value=""]`).Remove()
	selector.Find("option").RemoveAttr("selected")

	for _, b := range breeds {
		opt := element(atom.Option, "value", b.ID)
		if b.ID == selectedID {
			opt.Attr = append(opt.Attr, htmlAttr("selected", ""))
		}
		selector.AppendNodes(appendAll(opt, text(b.Name)))
	}
}

// BreedDetail renders the detail panel of doc for breed, or shows the
// placeholder when breed is nil.
func BreedDetail(doc *goquery.Document, breed *domain.Breed) {
	if doc == nil {
		return
	}
	detail := doc.Find("#breedDetail")
	placeholder := doc.Find("#breedPlaceholder")

	if breed == nil {
		SetHidden(detail, true)
		SetHidden(placeholder, false)
		return
	}
	SetHidden(placeholder, true)
	SetHidden(detail, false)

	doc.Find("#breedName").SetText(breed.Name)
	doc.Find("#breedDescription").SetText(breed.Description)
	doc.Find("#breedOrigin").SetText(fmt.Sprintf("🌍 %s", breed.Origin))
	doc.Find("#breedLifeSpan").SetText(fmt.Sprintf("❤️ %s years", breed.LifeSpan))

	wiki := doc.Find("#wikiLink")
	if breed.WikipediaURL != "" {
		wiki.SetAttr("href", breed.WikipediaURL)
		SetHidden(wiki, false)
	} else {
		SetHidden(wiki, true)
	}

	src := FallbackBreedImage
	if breed.Image != nil && breed.Image.URL != "" {
		src = breed.Image.URL
	}
	doc.Find("#breedImage").SetAttr("src", src)

	stats := doc.Find("#breedStats")
	if stats.Length() == 0 {
		return
	}
	stats.Empty()
	for _, trait := range breed.Traits() {
		row := appendAll(element(atom.Div, "class", "statRow"),
			appendAll(element(atom.Span, "class", "statLabel"), text(trait.Label)),
			appendAll(element(atom.Div, "class", "statBar"),
				element(atom.Div, "class", "statFill", "style", "width: "+TraitWidth(trait.Value)),
			),
		)
		stats.AppendNodes(row)
	}
}

// TraitWidth converts a score in [0,5] to a CSS percentage. Out-of-range
// scores are clamped.
func TraitWidth(score int) string {
	if score < 0 {
		score = 0
	}
	if score > maxTraitScore {
		score = maxTraitScore
	}
	pct := float64(score) / maxTraitScore * 100
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
