package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Domain contains core models shared by the client, renderer and UI.

// ID is an identifier the remote service sends either as a JSON string or a
// JSON number (favourite ids are numeric).
type ID string

// UnmarshalJSON accepts strings and numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// ImageRef is the nested image shape carried by favourites and breeds.
type ImageRef struct {
	ID  ID     `json:"id,omitempty"`
	URL string `json:"url"`
}

// Image is a flat image record (search results, uploads).
type Image struct {
	ID     ID     `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Favourite links a favourite-record id to an image. ID, not ImageID, is
// what deletion needs.
type Favourite struct {
	ID        ID       `json:"id"`
	ImageID   ID       `json:"image_id"`
	SubID     string   `json:"sub_id,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	Image     ImageRef `json:"image"`
}

// FavouriteCreated is the service reply to a save.
type FavouriteCreated struct {
	ID      ID     `json:"id"`
	Message string `json:"message"`
}

// Breed is a read-only breed record with trait scores in [0,5].
type Breed struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Origin         string    `json:"origin"`
	LifeSpan       string    `json:"life_span"`
	Temperament    string    `json:"temperament,omitempty"`
	WikipediaURL   string    `json:"wikipedia_url,omitempty"`
	Image          *ImageRef `json:"image,omitempty"`
	Adaptability   int       `json:"adaptability"`
	AffectionLevel int       `json:"affection_level"`
	ChildFriendly  int       `json:"child_friendly"`
	EnergyLevel    int       `json:"energy_level"`
	Intelligence   int       `json:"intelligence"`
	SocialNeeds    int       `json:"social_needs"`
}

// Trait is one labelled breed score.
type Trait struct {
	Label string
	Value int
}

// Traits returns the breed scores in display order.
func (b Breed) Traits() []Trait {
	return []Trait{
		{Label: "Adaptability", Value: b.Adaptability},
		{Label: "Affection", Value: b.AffectionLevel},
		{Label: "Child Friendly", Value: b.ChildFriendly},
		{Label: "Energy Level", Value: b.EnergyLevel},
		{Label: "Intelligence", Value: b.Intelligence},
		{Label: "Social", Value: b.SocialNeeds},
	}
}

// Record is the renderer input. It covers both remote shapes: flat {id, url}
// and nested {id, image: {url}}.
type Record struct {
	ID    ID        `json:"id"`
	URL   string    `json:"url,omitempty"`
	Image *ImageRef `json:"image,omitempty"`
}

// Source returns the image url, preferring the nested shape.
func (r Record) Source() string {
	if r.Image != nil && r.Image.URL != "" {
		return r.Image.URL
	}
	return r.URL
}

// RecordsFromImages maps flat images to records.
func RecordsFromImages(images []Image) []Record {
	if images == nil {
		return nil
	}
	out := make([]Record, 0, len(images))
	for _, img := range images {
		out = append(out, Record{ID: img.ID, URL: img.URL})
	}
	return out
}

// RecordsFromFavourites maps favourites to records keyed by favourite-record id.
func RecordsFromFavourites(favs []Favourite) []Record {
	if favs == nil {
		return nil
	}
	out := make([]Record, 0, len(favs))
	for _, fav := range favs {
		img := fav.Image
		out = append(out, Record{ID: fav.ID, Image: &img})
	}
	return out
}
