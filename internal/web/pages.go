package web

import (
	"bytes"
	"embed"
	"fmt"
)

//go:embed pages/*.html
var pagesFS embed.FS

// Page names. Each maps to pages/<name>.html.
const (
	PageHome   = "home"
	PageBreeds = "breeds"
)

func pageMarkup(name string) (*bytes.Reader, error) {
	raw, err := pagesFS.ReadFile("pages/" + name + ".html")
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", name, err)
	}
	return bytes.NewReader(raw), nil
}
