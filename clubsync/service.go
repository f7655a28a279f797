// Package clubsync runs one invocation of the member or activity sync.
package clubsync

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-club-sync/activities"
	"github.com/jrsteele09/go-club-sync/blobstore"
	"github.com/jrsteele09/go-club-sync/feed"
	"github.com/jrsteele09/go-club-sync/internal/config"
	"github.com/jrsteele09/go-club-sync/sink"
	"github.com/jrsteele09/go-club-sync/token"
	"github.com/jrsteele09/go-club-sync/token/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MembersResult is returned by the members sync.
type MembersResult struct {
	Message string `json:"message"`
	Members int    `json:"members"`
}

// ActivitiesResult is returned by the activities sync.
type ActivitiesResult struct {
	Message       string `json:"message"`
	NewActivities int    `json:"new_activities"`
}

type Service struct {
	cfg        config.Config
	store      *blobstore.Store
	sink       sink.Sink
	httpClient *http.Client
	nowFunc    func() time.Time
}

type ServiceOption func(*Service)

// WithHTTPClient sets the client used for the upstream API and token endpoint.
func WithHTTPClient(client *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = client
	}
}

func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func New(cfg config.Config, store *blobstore.Store, sk sink.Sink, options ...ServiceOption) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("[clubsync.New] config is required")
	}
	if store == nil {
		return nil, errors.New("[clubsync.New] blob store is required")
	}
	if sk == nil {
		return nil, errors.New("[clubsync.New] sink is required")
	}

	s := &Service{
		cfg:        cfg,
		store:      store,
		sink:       sk,
		httpClient: http.DefaultClient,
		nowFunc:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// newFeed wires a feed client to a fresh token manager, so the credential is
// loaded from the store once per invocation.
func (s *Service) newFeed() *feed.Client {
	tm := token.New(
		credentials.NewRepo(s.store, s.cfg.GetOAuthKey()),
		s.cfg.GetTokenURL(),
		token.WithHTTPClient(s.httpClient),
		token.WithNowFunc(s.nowFunc),
	)
	return feed.New(
		s.cfg.GetAPIBaseURL(),
		tm,
		feed.WithHTTPClient(s.httpClient),
		feed.WithPageSize(s.cfg.GetPageSize()),
		feed.WithMaxRetries(s.cfg.GetMaxRetries()),
	)
}

// SyncMembers forwards the club's member count as a single metric point.
func (s *Service) SyncMembers(ctx context.Context) (MembersResult, error) {
	log.Ctx(ctx).Debug().Msg("fetching club member total")
	total, err := s.newFeed().FetchMembers(ctx, s.cfg.GetClubID())
	if err != nil {
		return MembersResult{}, errors.Wrap(err, "[Service.SyncMembers]")
	}
	log.Ctx(ctx).Info().Int("members", total).Msg("got member total")

	err = s.sink.SubmitMetric(ctx, sink.MetricPoint{
		Name:      s.cfg.GetMembersMetric(),
		Timestamp: s.nowFunc().Unix(),
		Value:     float64(total),
	})
	if err != nil {
		return MembersResult{}, errors.Wrap(err, "[Service.SyncMembers] SubmitMetric")
	}
	return MembersResult{Message: "success", Members: total}, nil
}

// SyncActivities forwards every activity not seen in the previous fetch as
// one log entry, then replaces the cache with the fetched batch if anything
// was new.
func (s *Service) SyncActivities(ctx context.Context) (ActivitiesResult, error) {
	log.Ctx(ctx).Debug().Msg("fetching new club activities")
	batch, err := s.newFeed().FetchActivities(ctx, s.cfg.GetClubID())
	if err != nil {
		return ActivitiesResult{}, errors.Wrap(err, "[Service.SyncActivities]")
	}

	cache := activities.NewCache(s.store, s.cfg.GetActivitiesKey())
	cached, ok := cache.Load(ctx)
	newActivities := activities.DiffNew(batch, cached, ok)
	log.Ctx(ctx).Info().Int("fetched", len(batch)).Int("new", len(newActivities)).Bool("had_cache", ok).Msg("found new activities")

	for _, a := range newActivities {
		message, err := json.Marshal(a)
		if err != nil {
			return ActivitiesResult{}, errors.Wrap(err, "[Service.SyncActivities] Marshal")
		}
		err = s.sink.SubmitLog(ctx, sink.LogItem{
			Source:  s.cfg.GetSource(),
			Tags:    s.cfg.GetTags(),
			Message: string(message),
			Service: s.cfg.GetService(),
		})
		if err != nil {
			return ActivitiesResult{}, errors.Wrapf(err, "[Service.SyncActivities] SubmitLog %q", a.Name)
		}
	}

	if len(newActivities) > 0 {
		log.Ctx(ctx).Debug().Msg("uploading activities")
		if err := cache.Save(ctx, batch); err != nil {
			return ActivitiesResult{}, errors.Wrap(err, "[Service.SyncActivities]")
		}
	}
	return ActivitiesResult{Message: "synced", NewActivities: len(newActivities)}, nil
}
