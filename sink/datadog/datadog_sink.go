// Package datadog submits logs and metrics to the Datadog v2 intake APIs.
package datadog

import (
	"context"
	"net/http"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
	apperrors "github.com/jrsteele09/go-club-sync/internal/errors"
	"github.com/jrsteele09/go-club-sync/secrets"
	"github.com/jrsteele09/go-club-sync/sink"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultSite = "datadoghq.com"

// LogsAPI is the part of datadogV2.LogsApi the sink uses.
type LogsAPI interface {
	SubmitLog(ctx context.Context, body []datadogV2.HTTPLogItem, o ...datadogV2.SubmitLogOptionalParameters) (interface{}, *http.Response, error)
}

// MetricsAPI is the part of datadogV2.MetricsApi the sink uses.
type MetricsAPI interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, o ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

var _ sink.Sink = (*Sink)(nil)

type Sink struct {
	logs        LogsAPI
	metrics     MetricsAPI
	secrets     secrets.Store
	apiKeyParam string
	site        string
}

type Option func(*Sink)

func WithSite(site string) Option {
	return func(s *Sink) {
		s.site = site
	}
}

// WithAPIs replaces the Datadog API clients.
func WithAPIs(logs LogsAPI, metrics MetricsAPI) Option {
	return func(s *Sink) {
		s.logs = logs
		s.metrics = metrics
	}
}

// New builds a sink that reads the API key from secretStore under
// apiKeyParam on every submission.
func New(secretStore secrets.Store, apiKeyParam string, options ...Option) *Sink {
	s := &Sink{
		secrets:     secretStore,
		apiKeyParam: apiKeyParam,
		site:        DefaultSite,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.logs == nil || s.metrics == nil {
		client := datadog.NewAPIClient(datadog.NewConfiguration())
		if s.logs == nil {
			s.logs = datadogV2.NewLogsApi(client)
		}
		if s.metrics == nil {
			s.metrics = datadogV2.NewMetricsApi(client)
		}
	}
	return s
}

func (s *Sink) SubmitLog(ctx context.Context, item sink.LogItem) error {
	log.Ctx(ctx).Debug().Str("message", item.Message).Msg("submitting log")
	ctx, err := s.authContext(ctx)
	if err != nil {
		return errors.Wrap(err, "[Sink.SubmitLog]")
	}

	params := datadogV2.NewSubmitLogOptionalParameters().WithContentEncoding(datadogV2.CONTENTENCODING_DEFLATE)
	resp, httpResp, err := s.logs.SubmitLog(ctx, LogItems(item), *params)
	if err != nil {
		return errors.Wrapf(apperrors.ErrSinkSubmit, "[Sink.SubmitLog] %s: %v", status(httpResp), err)
	}
	log.Ctx(ctx).Info().Interface("response", resp).Msg("log submitted")
	return nil
}

func (s *Sink) SubmitMetric(ctx context.Context, point sink.MetricPoint) error {
	log.Ctx(ctx).Debug().Str("metric", point.Name).Float64("value", point.Value).Msg("submitting metric")
	ctx, err := s.authContext(ctx)
	if err != nil {
		return errors.Wrap(err, "[Sink.SubmitMetric]")
	}

	resp, httpResp, err := s.metrics.SubmitMetrics(ctx, MetricPayload(point), *datadogV2.NewSubmitMetricsOptionalParameters())
	if err != nil {
		return errors.Wrapf(apperrors.ErrSinkSubmit, "[Sink.SubmitMetric] %s: %v", status(httpResp), err)
	}
	log.Ctx(ctx).Info().Interface("response", resp).Msg("metric submitted")
	return nil
}

// authContext fetches the API key fresh and attaches it the way the
// Datadog client expects.
func (s *Sink) authContext(ctx context.Context) (context.Context, error) {
	apiKey, err := s.secrets.GetParameter(ctx, s.apiKeyParam)
	if err != nil {
		return nil, errors.Wrap(err, "api key")
	}
	ctx = context.WithValue(ctx, datadog.ContextAPIKeys, map[string]datadog.APIKey{
		"apiKeyAuth": {Key: apiKey},
	})
	ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{
		"site": s.site,
	})
	return ctx, nil
}

// LogItems converts a log item into the intake body.
func LogItems(item sink.LogItem) []datadogV2.HTTPLogItem {
	return []datadogV2.HTTPLogItem{
		{
			Ddsource: datadog.PtrString(item.Source),
			Ddtags:   datadog.PtrString(item.Tags),
			Message:  item.Message,
			Service:  datadog.PtrString(item.Service),
		},
	}
}

// MetricPayload converts a point into a single-series intake payload with an
// unspecified metric type.
func MetricPayload(point sink.MetricPoint) datadogV2.MetricPayload {
	return datadogV2.MetricPayload{
		Series: []datadogV2.MetricSeries{
			{
				Metric: point.Name,
				Type:   datadogV2.METRICINTAKETYPE_UNSPECIFIED.Ptr(),
				Points: []datadogV2.MetricPoint{
					{
						Timestamp: datadog.PtrInt64(point.Timestamp),
						Value:     datadog.PtrFloat64(point.Value),
					},
				},
			},
		},
	}
}

func status(resp *http.Response) string {
	if resp == nil {
		return "no response"
	}
	return resp.Status
}
