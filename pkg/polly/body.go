package polly

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BodyKind tells which variant of Body is populated.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyText
)

// Body is a response body decoded for display: either a JSON value or raw text.
type Body struct {
	Kind BodyKind
	JSON any
	Text string
	// Title is the page title when a text body is an HTML document.
	Title string
}

// DecodeBody attempts JSON decoding and falls back to the raw text. Numbers
// are kept as json.Number so large ids survive unchanged.
func DecodeBody(raw []byte, contentType string) Body {
	if value, ok := decodeJSON(raw); ok {
		return Body{Kind: BodyJSON, JSON: value}
	}

	body := Body{Kind: BodyText, Text: string(raw)}
	if looksLikeHTML(raw, contentType) {
		body.Title = htmlTitle(raw)
	}
	return body
}

// decodeJSON accepts exactly one JSON value, surrounded only by whitespace.
func decodeJSON(raw []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, false
	}
	var trailing any
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return value, true
}

func looksLikeHTML(raw []byte, contentType string) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/html" {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(raw))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

func htmlTitle(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
