package render

import (
	"testing"

	"github.com/samvad-hq/billi-gallery/internal/domain"
)

const breedsPage = `<!DOCTYPE html>
<html><body>
  <div id="breedsContainer">
    <select id="breedSelector" name="breed"><option value="">Choose a breed</option></select>
    <p id="breedPlaceholder">Pick a breed to see details.</p>
    <div id="breedDetail" hidden>
      <img id="breedImage" src="">
      <h2 id="breedName"></h2>
      <p id="breedDescription"></p>
      <span id="breedOrigin"></span>
      <span id="breedLifeSpan"></span>
      <a id="wikiLink" hidden>Wikipedia</a>
      <div id="breedStats"></div>
    </div>
  </div>
</body></html>`

var sampleBreeds = []domain.Breed{
	{
		ID: "abys", Name: "Abyssinian", Description: "Active", Origin: "Egypt", LifeSpan: "14 - 15",
		WikipediaURL: "https://en.wikipedia.org/wiki/Abyssinian_(cat)",
		Image:        &domain.ImageRef{URL: "https://cdn/abys.jpg"},
		Adaptability: 5, AffectionLevel: 4, ChildFriendly: 3, EnergyLevel: 5, Intelligence: 5, SocialNeeds: 5,
	},
	{ID: "beng", Name: "Bengal", Origin: "United States", LifeSpan: "12 - 15"},
}

func TestBreedOptionsReplacesPreviousOptions(t *testing.T) {
	doc := loadDoc(t, breedsPage)
	selector := doc.Find("#breedSelector")

	BreedOptions(selector, sampleBreeds, "")
	BreedOptions(selector, sampleBreeds, "beng")

	options := selector.Find("option")
	if options.Length() != 3 {
		t.Fatalf("expected placeholder + 2 options, got %d", options.Length())
	}
	selected := selector.Find("option[selected]")
	if v, _ := selected.Attr("value"); selected.Length() != 1 || v != "beng" {
		t.Fatalf("expected bengal selected, got %d %q", selected.Length(), v)
	}
}

func TestBreedDetailRendersFields(t *testing.T) {
	doc := loadDoc(t, breedsPage)
	BreedDetail(doc, &sampleBreeds[0])

	if _, hidden := doc.Find("#breedDetail").Attr("hidden"); hidden {
		t.Fatalf("expected detail visible")
	}
	if _, hidden := doc.Find("#breedPlaceholder").Attr("hidden"); !hidden {
		t.Fatalf("expected placeholder hidden")
	}
	if got := doc.Find("#breedName").Text(); got != "Abyssinian" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := doc.Find("#breedOrigin").Text(); got != "🌍 Egypt" {
		t.Fatalf("unexpected origin %q", got)
	}
	if got := doc.Find("#breedLifeSpan").Text(); got != "❤️ 14 - 15 years" {
		t.Fatalf("unexpected life span %q", got)
	}
	if href, _ := doc.Find("#wikiLink").Attr("href"); href != sampleBreeds[0].WikipediaURL {
		t.Fatalf("unexpected wiki href %q", href)
	}
	if src, _ := doc.Find("#breedImage").Attr("src"); src != "https://cdn/abys.jpg" {
		t.Fatalf("unexpected image %q", src)
	}

	rows := doc.Find("#breedStats .statRow")
	if rows.Length() != 6 {
		t.Fatalf("expected 6 stat rows, got %d", rows.Length())
	}
	if style, _ := rows.Eq(1).Find(".statFill").Attr("style"); style != "width: 80%" {
		t.Fatalf("unexpected affection width %q", style)
	}
}

func TestBreedDetailFallbacks(t *testing.T) {
	doc := loadDoc(t, breedsPage)
	BreedDetail(doc, &sampleBreeds[0])
	BreedDetail(doc, &sampleBreeds[1])

	if _, hidden := doc.Find("#wikiLink").Attr("hidden"); !hidden {
		t.Fatalf("expected wiki link hidden without url")
	}
	if src, _ := doc.Find("#breedImage").Attr("src"); src != FallbackBreedImage {
		t.Fatalf("expected fallback image, got %q", src)
	}
	if rows := doc.Find("#breedStats .statRow").Length(); rows != 6 {
		t.Fatalf("expected stats replaced, got %d rows", rows)
	}
}

func TestBreedDetailNilShowsPlaceholder(t *testing.T) {
	doc := loadDoc(t, breedsPage)
	BreedDetail(doc, &sampleBreeds[0])
	BreedDetail(doc, nil)

	if _, hidden := doc.Find("#breedDetail").Attr("hidden"); !hidden {
		t.Fatalf("expected detail hidden")
	}
	if _, hidden := doc.Find("#breedPlaceholder").Attr("hidden"); hidden {
		t.Fatalf("expected placeholder visible")
	}
}

func TestTraitWidth(t *testing.T) {
	cases := map[int]string{0: "0%", 1: "20%", 3: "60%", 5: "100%", 9: "100%", -2: "0%"}
	for score, want := range cases {
		if got := TraitWidth(score); got != want {
			t.Fatalf("TraitWidth(%d) = %q, want %q", score, got, want)
		}
	}
}
