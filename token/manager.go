package token

import (
	"context"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/jrsteele09/go-club-sync/internal/errors"
	"github.com/jrsteele09/go-club-sync/oauthmodel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Manager owns the OAuth credential for one invocation. The credential is
// loaded from the repo on first use and kept in memory until the Manager is
// dropped; a new invocation builds a new Manager and loads it again.
type Manager struct {
	repo       CredentialRepo
	tokenURL   string
	httpClient *http.Client
	nowFunc    func() time.Time
	credential *oauthmodel.Credential
}

type ManagerOption func(*Manager)

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithHTTPClient sets the client used to call the token endpoint.
func WithHTTPClient(client *http.Client) ManagerOption {
	return func(m *Manager) {
		m.httpClient = client
	}
}

func New(repo CredentialRepo, tokenURL string, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:     repo,
		tokenURL: tokenURL,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// AuthHeader returns the Authorization header value for the current access token.
func (m *Manager) AuthHeader(ctx context.Context) (string, error) {
	c, err := m.load(ctx)
	if err != nil {
		return "", err
	}
	return "Bearer " + c.AccessToken, nil
}

// RefreshIfNeeded exchanges the refresh token for a new access token when the
// current one has expired and persists the result. It reports whether a
// refresh happened. A rejected refresh is returned as ErrAuthRefresh and must
// not be retried.
func (m *Manager) RefreshIfNeeded(ctx context.Context) (bool, error) {
	c, err := m.load(ctx)
	if err != nil {
		return false, err
	}

	if !c.Expired(m.nowFunc().Unix()) {
		log.Ctx(ctx).Debug().Int64("expires_at", c.ExpiresAt).Msg("access token not expired")
		return false, nil
	}

	log.Ctx(ctx).Debug().Msg("refreshing access token")
	tok, err := m.exchange(ctx, c)
	if err != nil {
		return false, err
	}

	c.AccessToken = tok.AccessToken
	c.RefreshToken = tok.RefreshToken
	c.ExpiresAt = expiresAt(tok)

	if err := m.repo.Save(ctx, c); err != nil {
		return false, errors.Wrap(err, "[Manager.RefreshIfNeeded] Save")
	}
	log.Ctx(ctx).Info().Int64("expires_at", c.ExpiresAt).Msg("access token refreshed")
	return true, nil
}

func (m *Manager) load(ctx context.Context) (*oauthmodel.Credential, error) {
	if m.credential != nil {
		return m.credential, nil
	}
	c, err := m.repo.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.load]")
	}
	m.credential = c
	return c, nil
}

func (m *Manager) exchange(ctx context.Context, c *oauthmodel.Credential) (*oauth2.Token, error) {
	cfg := &oauth2.Config{
		ClientID:     c.ClientID.String(),
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  m.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	if m.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	}

	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			log.Ctx(ctx).Error().Int("status", retrieveErr.Response.StatusCode).Bytes("body", retrieveErr.Body).Msg("error refreshing OAuth data")
		}
		return nil, errors.Wrapf(apperrors.ErrAuthRefresh, "[Manager.exchange] %v", err)
	}
	return tok, nil
}

// expiresAt prefers the absolute expires_at the upstream reports over the
// expiry the library derives from expires_in.
func expiresAt(tok *oauth2.Token) int64 {
	switch v := tok.Extra("expires_at").(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case interface{ Int64() (int64, error) }:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if tok.Expiry.IsZero() {
		return 0
	}
	return tok.Expiry.Unix()
}
