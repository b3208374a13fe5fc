package petfinder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// StatusError is a non-2xx response from the listing API.
type StatusError struct {
	StatusCode int
	Url        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.Url, e.StatusCode)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	switch e.StatusCode {
	case 429, 502, 503, 504:
		return true
	}
	return false
}

// pageStatus distinguishes "this page has data" from "stop paginating" so
// callers cannot conflate end-of-data with a failed request.
type pageStatus int

const (
	pageOK pageStatus = iota
	// pageGone means the page could not be fetched, either from a
	// permanent HTTP error or an exhausted retry budget. the pagination
	// loop treats it as end-of-data and keeps what it has collected.
	pageGone
)

// Query bounds a paginated fetch of one resource collection.
type Query struct {
	Location string
	PageSize int
	MaxPages int
}

func (c *Client) FetchAnimals(ctx context.Context, q Query) ([]Animal, error) {
	ctx, span := tracer.Start(ctx, "FetchAnimals")
	defer span.End()

	params := map[string]string{
		"location": q.Location,
		"sort":     "recent",
	}
	animals, err := fetchPages(ctx, c, "/animals", params, q,
		func(body []byte) ([]Animal, error) {
			var page animalsPage
			err := json.Unmarshal(body, &page)
			return page.Animals, err
		})

	span.SetAttributes(attribute.Int("total", len(animals)))
	return animals, err
}

func (c *Client) FetchOrganizations(ctx context.Context, q Query) ([]Organization, error) {
	ctx, span := tracer.Start(ctx, "FetchOrganizations")
	defer span.End()

	params := map[string]string{
		"location": q.Location,
	}
	orgs, err := fetchPages(ctx, c, "/organizations", params, q,
		func(body []byte) ([]Organization, error) {
			var page organizationsPage
			err := json.Unmarshal(body, &page)
			return page.Organizations, err
		})

	span.SetAttributes(attribute.Int("total", len(orgs)))
	return orgs, err
}

// fetchPages walks one resource collection page by page, accumulating
// records until the collection ends, a page fails permanently, or MaxPages
// is reached. whatever has been collected so far is always returned,
// partial results are an expected outcome.
func fetchPages[T any](
	ctx context.Context,
	c *Client,
	resource string,
	params map[string]string,
	q Query,
	decode func(body []byte) ([]T, error),
) ([]T, error) {
	params["limit"] = strconv.Itoa(q.PageSize)

	var records []T
	for page := 1; page <= q.MaxPages; page++ {
		params["page"] = strconv.Itoa(page)
		slog.InfoContext(
			ctx, "fetching page",
			"resource", resource,
			"page", page,
			"max_pages", q.MaxPages,
		)

		body, status, err := c.get(ctx, resource, params)
		if err != nil {
			return records, err
		}
		if status == pageGone {
			break
		}

		items, err := decode(body)
		if err != nil {
			slog.ErrorContext(
				ctx, "failed to decode page body",
				"resource", resource,
				"page", page,
				"err", err,
			)
			break
		}
		if len(items) == 0 {
			slog.InfoContext(
				ctx, "no records returned, stopping early",
				"resource", resource,
				"page", page,
			)
			break
		}

		records = append(records, items...)

		if len(items) < q.PageSize {
			slog.InfoContext(
				ctx, "short page, assuming end of data",
				"resource", resource,
				"page", page,
				"count", len(items),
			)
			break
		}

		if page < q.MaxPages {
			err := sleep(ctx, c.pageInterval)
			if err != nil {
				return records, err
			}
		}
	}

	slog.InfoContext(
		ctx, "finished fetching",
		"resource", resource,
		"total", len(records),
	)
	return records, nil
}

// get is the sole place retry and backoff policy lives. a 429 sleeps for
// the server-supplied interval and retries without consuming an attempt,
// 502/503/504 sleep a fixed interval and consume one, any other error
// status stops immediately. the error return is reserved for failures that
// abort the whole run (auth, cancellation).
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, pageStatus, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, pageGone, err
	}

	for attempt := 0; attempt < c.retryAttempts; {
		res, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetQueryParams(params).
			Get(path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, pageGone, ctx.Err()
			}
			slog.ErrorContext(ctx, "request failed", "path", path, "err", err)
			attempt++
			err = sleep(ctx, c.backoffInterval)
			if err != nil {
				return nil, pageGone, err
			}
			continue
		}

		statusErr := &StatusError{StatusCode: res.StatusCode(), Url: res.Request.URL}
		switch {
		case res.StatusCode() == 429:
			wait := retryAfter(res.Header().Get("Retry-After"), c.retryAfterDefault)
			slog.WarnContext(ctx, "rate limit hit", "path", path, "wait", wait)
			err = sleep(ctx, wait)
			if err != nil {
				return nil, pageGone, err
			}
			continue
		case statusErr.Transient():
			slog.WarnContext(ctx, "transient upstream error", "path", path, "status", res.StatusCode())
			attempt++
			err = sleep(ctx, c.backoffInterval)
			if err != nil {
				return nil, pageGone, err
			}
			continue
		case res.IsError():
			slog.ErrorContext(ctx, "permanent http error", "err", statusErr)
			return nil, pageGone, nil
		}

		return res.Body(), pageOK, nil
	}

	slog.ErrorContext(ctx, "retry budget exhausted", "path", path)
	return nil, pageGone, nil
}

func retryAfter(header string, fallback time.Duration) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
