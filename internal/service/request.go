package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

const (
	ContentTypeJSON        = "application/json"
	ContentTypeText        = "text/plain"
	ContentTypeOctetStream = "application/octet-stream"
)

// Request describes a single call relative to the service endpoint. Path is
// already escaped.
type Request struct {
	Operation   string
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
}

// FilePart is one file attached to a multipart/form-data body.
type FilePart struct {
	Name        string
	Filename    string
	ContentType string
	Content     io.Reader
}

// RequestBuilder assembles a Request. The first error encountered is
// reported by Build.
type RequestBuilder struct {
	req Request
	err error
}

func newBuilder(method, path string) *RequestBuilder {
	return &RequestBuilder{req: Request{
		Method: method,
		Path:   path,
		Query:  url.Values{},
		Header: http.Header{},
	}}
}

func Get(path string) *RequestBuilder    { return newBuilder(http.MethodGet, path) }
func Post(path string) *RequestBuilder   { return newBuilder(http.MethodPost, path) }
func Delete(path string) *RequestBuilder { return newBuilder(http.MethodDelete, path) }

// Query adds a query parameter.
func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	b.req.Query.Add(key, value)
	return b
}

// Operation names the call for logs and metrics.
func (b *RequestBuilder) Operation(name string) *RequestBuilder {
	b.req.Operation = name
	return b
}

// Header sets a request header.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.req.Header.Set(key, value)
	return b
}

// BodyJSON marshals v as the request body.
func (b *RequestBuilder) BodyJSON(v any) *RequestBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.fail(fmt.Errorf("failed to marshal request: %w", err))
		return b
	}
	b.req.Body = data
	b.req.ContentType = ContentTypeJSON
	return b
}

// BodyContent uses content verbatim as the body.
func (b *RequestBuilder) BodyContent(content, contentType string) *RequestBuilder {
	b.req.Body = []byte(content)
	b.req.ContentType = contentType
	return b
}

// Multipart encodes parts as a multipart/form-data body, one part per entry,
// in order.
func (b *RequestBuilder) Multipart(parts []FilePart) *RequestBuilder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(p.Name), escapeQuotes(p.Filename)))
		ct := p.ContentType
		if ct == "" {
			ct = ContentTypeOctetStream
		}
		h.Set("Content-Type", ct)

		pw, err := w.CreatePart(h)
		if err != nil {
			b.fail(fmt.Errorf("failed to create part %s: %w", p.Name, err))
			return b
		}
		if p.Content != nil {
			if _, err := io.Copy(pw, p.Content); err != nil {
				b.fail(fmt.Errorf("failed to read %s: %w", p.Name, err))
				return b
			}
		}
	}

	if err := w.Close(); err != nil {
		b.fail(fmt.Errorf("failed to finish multipart body: %w", err))
		return b
	}

	b.req.Body = buf.Bytes()
	b.req.ContentType = w.FormDataContentType()
	return b
}

// Build returns the assembled request.
func (b *RequestBuilder) Build() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	req := b.req
	return &req, nil
}

func (b *RequestBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Pathf formats a path template, escaping every argument as a single path
// segment.
func Pathf(format string, segments ...string) string {
	args := make([]any, len(segments))
	for i, s := range segments {
		args[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(format, args...)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
