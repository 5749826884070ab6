package httpclient

import (
	"context"
	"io"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// FileField is a single file part of a multipart form body.
type FileField struct {
	Param    string
	FileName string
	Reader   io.Reader
}

// Request describes one HTTP call. Body is sent verbatim; File switches the
// request to multipart and leaves the content type to the transport.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	File    *FileField
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Do(ctx context.Context, req Request) (Response, error)
}
