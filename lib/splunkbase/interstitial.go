package splunkbase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"splunkbase-dl/lib/htmlutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// finalUrl is the url the response was actually served from, after redirects.
func finalUrl(res *resty.Response) *url.URL {
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL
	}
	link, err := url.Parse(res.Request.URL)
	if err != nil {
		return nil
	}
	return link
}

// ResolveInterstitial fetches `link`, which serves a confirmation page
// instead of the release, and submits the page's first form through the
// session. The response of the submission is discarded.
func (c *Client) ResolveInterstitial(ctx context.Context, link string) error {
	ctx, span := tracer.Start(ctx, "client:ResolveInterstitial")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch interstitial page")
		return err
	}
	err = checkStatusCode(res.StatusCode())
	if err != nil {
		span.SetStatus(codes.Error, "interstitial page returned an error status")
		return fmt.Errorf("fetch interstitial page: %w", err)
	}

	doc, err := htmlutil.ParseDocument(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse interstitial html")
		return err
	}
	form, err := htmlutil.FirstForm(doc)
	if err != nil {
		span.SetStatus(codes.Error, "failed to find interstitial form")
		return err
	}
	action, err := form.ResolveAction(finalUrl(res))
	if err != nil {
		span.SetStatus(codes.Error, "failed to resolve form action")
		return err
	}

	span.SetAttributes(
		attribute.String("form.action", action.String()),
		attribute.String("form.method", form.Method),
		attribute.Int("form.fields", len(form.Fields)),
	)
	slog.DebugContext(
		ctx, "submitting interstitial form",
		"title", htmlutil.Title(doc),
		"action", action.String(),
		"method", form.Method,
		"fields", len(form.Fields),
	)

	req := c.Http.R().SetContext(ctx)
	switch form.Method {
	case htmlutil.MethodPost:
		res, err = req.SetFormDataFromValues(form.Values()).Post(action.String())
	case htmlutil.MethodGet:
		res, err = req.SetQueryParamsFromValues(form.Values()).Get(action.String())
	default:
		span.SetStatus(codes.Error, "unsupported form method")
		return fmt.Errorf("%w: %q", ErrUnsupportedFormMethod, form.Method)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit interstitial form")
		return err
	}
	err = checkStatusCode(res.StatusCode())
	if err != nil {
		span.SetStatus(codes.Error, "interstitial submission returned an error status")
		return fmt.Errorf("submit interstitial form: %w", err)
	}

	return nil
}
