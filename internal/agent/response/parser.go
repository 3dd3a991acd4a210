package response

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"kitabi-buddy/backend/internal/agent/sanitize"
	"kitabi-buddy/backend/internal/model"
)

// Book is the title and author parsed from a model reply
type Book struct {
	Title   string
	Author  string
	Error   string
	Outcome model.Outcome
}

const (
	jsonFence = "```json"
	fence     = "```"
)

var (
	titleRegex  = regexp.MustCompile(`"title":\s*"([^"]+)"`)
	authorRegex = regexp.MustCompile(`"author":\s*"([^"]+)"`)

	errNotObject = errors.New("reply is not a JSON object")
)

// Parse turns the model's free-form reply into a Book.
// A JSON object (bare or inside a ```json fence) is used directly; an object
// missing either field yields the unknown sentinels; anything that is not
// JSON falls back to Scan.
func Parse(text string) Book {
	fields, err := Decode(text)
	if err != nil {
		return Scan(text)
	}

	title, okTitle := stringField(fields, "title")
	author, okAuthor := stringField(fields, "author")
	if !okTitle || !okAuthor {
		return Book{
			Title:   model.UnknownTitle,
			Author:  model.UnknownAuthor,
			Error:   model.ErrIncompleteResponse,
			Outcome: model.OutcomeIncomplete,
		}
	}

	return Book{
		Title:   title,
		Author:  author,
		Outcome: model.OutcomeSuccess,
	}
}

// Decode strictly decodes the reply as a JSON object. When the reply contains
// a ```json fence only the fenced block is decoded.
func Decode(text string) (map[string]any, error) {
	payload := text
	if block, ok := FencedJSON(text); ok {
		payload = block
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotObject
	}
	return fields, nil
}

// FencedJSON returns the content of the first ```json fence in text.
// An unterminated fence runs to the end of the text.
func FencedJSON(text string) (string, bool) {
	_, after, found := strings.Cut(text, jsonFence)
	if !found {
		return "", false
	}
	block, _, _ := strings.Cut(after, fence)
	return strings.TrimSpace(block), true
}

// Scan is the fallback for replies that are not valid JSON. It looks for
// "title": "..." and "author": "..." pairs anywhere in the raw text and
// fills in the unknown sentinels for whichever is missing.
func Scan(text string) Book {
	book := Book{
		Title:   model.UnknownTitle,
		Author:  model.UnknownAuthor,
		Error:   model.ErrResponseParsing,
		Outcome: model.OutcomeRecovered,
	}
	if m := titleRegex.FindStringSubmatch(text); len(m) > 1 {
		if v := sanitize.Field(unescape(m[1])); v != "" {
			book.Title = v
		}
	}
	if m := authorRegex.FindStringSubmatch(text); len(m) > 1 {
		if v := sanitize.Field(unescape(m[1])); v != "" {
			book.Author = v
		}
	}
	return book
}

// stringField reads key as display text. Numbers and booleans are rendered;
// null, objects, arrays and blank strings count as missing.
func stringField(fields map[string]any, key string) (string, bool) {
	var s string
	switch v := fields[key].(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	default:
		return "", false
	}
	s = sanitize.Field(s)
	return s, s != ""
}

// unescape resolves JSON escapes such as \u0627 in a scanned value, leaving
// the raw text alone when it is not a valid JSON string body
func unescape(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
		return raw
	}
	return s
}
