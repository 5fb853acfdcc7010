package htmlutil

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	ErrFormNotFound      = errors.New("htmlutil: no form found in document")
	ErrFormMissingAction = errors.New("htmlutil: form has no action attribute")
)

const (
	MethodGet  = "get"
	MethodPost = "post"
)

// Form is the submittable state of an html <form>: where it goes, how,
// and the default value of each named input.
type Form struct {
	Action string
	Method string
	Fields map[string]string
}

// Values returns the form fields as url.Values for submission.
func (f Form) Values() url.Values {
	values := url.Values{}
	for name, value := range f.Fields {
		values.Set(name, value)
	}
	return values
}

// ResolveAction resolves the (possibly relative) action against the url
// of the page the form was served from.
func (f Form) ResolveAction(base *url.URL) (*url.URL, error) {
	action, err := url.Parse(f.Action)
	if err != nil {
		return nil, fmt.Errorf("parse form action %q: %w", f.Action, err)
	}
	if base == nil {
		return action, nil
	}
	return base.ResolveReference(action), nil
}

// ParseDocument parses an html document into a goquery document.
func ParseDocument(r io.Reader) (*goquery.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}

// ParseForm parses an html document and extracts its first form.
func ParseForm(r io.Reader) (Form, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return Form{}, err
	}
	return FirstForm(doc)
}

// FirstForm extracts the first <form> of the document.
//
// The action and method are lowercased, a missing or empty method means GET.
// Only <input> elements are collected, inputs without a name are skipped and
// a repeated name keeps the last value.
func FirstForm(doc *goquery.Document) (Form, error) {
	sel := doc.Find("form").First()
	if sel.Length() == 0 {
		return Form{}, ErrFormNotFound
	}

	action, ok := sel.Attr("action")
	if !ok {
		return Form{}, ErrFormMissingAction
	}

	method := strings.ToLower(strings.TrimSpace(sel.AttrOr("method", "")))
	if method == "" {
		method = MethodGet
	}

	fields := map[string]string{}
	sel.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		fields[name] = input.AttrOr("value", "")
	})

	return Form{
		Action: strings.ToLower(strings.TrimSpace(action)),
		Method: method,
		Fields: fields,
	}, nil
}
