// Package feed reads club membership and activities from the upstream API.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-club-sync/activities"
	apperrors "github.com/jrsteele09/go-club-sync/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPageSize   = 30
	DefaultMaxRetries = 3
)

// Authenticator supplies the bearer header and refreshes it after a 403.
type Authenticator interface {
	AuthHeader(ctx context.Context) (string, error)
	RefreshIfNeeded(ctx context.Context) (bool, error)
}

type Client struct {
	baseURL    string
	auth       Authenticator
	httpClient *http.Client
	pageSize   int
	maxRetries int
}

type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

func WithPageSize(size int) ClientOption {
	return func(c *Client) {
		c.pageSize = size
	}
}

func WithMaxRetries(retries int) ClientOption {
	return func(c *Client) {
		c.maxRetries = retries
	}
}

func New(baseURL string, auth Authenticator, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		auth:       auth,
		httpClient: http.DefaultClient,
		pageSize:   DefaultPageSize,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	return c
}

// FetchMembers counts the club's members by walking every page. A page
// shorter than the page size is the last one.
func (c *Client) FetchMembers(ctx context.Context, clubID string) (int, error) {
	path := fmt.Sprintf("/clubs/%s/members", url.PathEscape(clubID))
	retry := &authRetry{max: c.maxRetries}
	total := 0

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(c.pageSize))

		var members []json.RawMessage
		// a 403 retries this page; members already counted are kept
		err := c.withAuthRetry(ctx, retry, func() error {
			members = nil
			return c.getJSON(ctx, path, query, &members)
		})
		if err != nil {
			return 0, errors.Wrapf(err, "[Client.FetchMembers] club %s page %d", clubID, page)
		}

		total += len(members)
		log.Ctx(ctx).Debug().Int("page", page).Int("page_len", len(members)).Int("total", total).Msg("fetched members page")
		if len(members) < c.pageSize {
			return total, nil
		}
	}
}

// FetchActivities returns the first page of club activities, most recent first.
func (c *Client) FetchActivities(ctx context.Context, clubID string) ([]activities.Activity, error) {
	path := fmt.Sprintf("/clubs/%s/activities", url.PathEscape(clubID))
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(c.pageSize))

	var batch []activities.Activity
	err := c.withAuthRetry(ctx, &authRetry{max: c.maxRetries}, func() error {
		batch = nil
		return c.getJSON(ctx, path, query, &batch)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.FetchActivities] club %s", clubID)
	}
	log.Ctx(ctx).Debug().Int("count", len(batch)).Msg("fetched activities")
	return batch, nil
}

var errForbidden = errors.New("forbidden")

// authRetry counts 403 retries across one Fetch call.
type authRetry struct {
	count int
	max   int
}

// withAuthRetry runs fn until it stops failing with 403. Each 403 refreshes
// the token and retries; a 403 once max retries were spent is ErrRetryExhausted.
func (c *Client) withAuthRetry(ctx context.Context, retry *authRetry, fn func() error) error {
	for {
		err := fn()
		if !errors.Is(err, errForbidden) {
			return err
		}
		if retry.count >= retry.max {
			return errors.Wrapf(apperrors.ErrRetryExhausted, "after %d retries", retry.count)
		}
		if _, err := c.auth.RefreshIfNeeded(ctx); err != nil {
			return err
		}
		retry.count++
		log.Ctx(ctx).Warn().Int("retry", retry.count).Msg("upstream returned 403, retrying")
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, result any) error {
	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.URL.RawQuery = query.Encode()

	header, err := c.auth.AuthHeader(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", header)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", reqURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		_, _ = io.Copy(io.Discard, resp.Body)
		return errForbidden
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Ctx(ctx).Error().Int("status", resp.StatusCode).Bytes("body", body).Str("url", reqURL).Msg("upstream request failed")
		return &apperrors.UpstreamError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
