// Package app wires the AWS and Datadog collaborators into a clubsync.Service
// and adapts it to the Lambda runtime.
package app

import (
	"context"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-club-sync/blobstore"
	"github.com/jrsteele09/go-club-sync/blobstore/s3backend"
	"github.com/jrsteele09/go-club-sync/clubsync"
	"github.com/jrsteele09/go-club-sync/internal/config"
	"github.com/jrsteele09/go-club-sync/internal/logging"
	"github.com/jrsteele09/go-club-sync/secrets/ssm"
	"github.com/jrsteele09/go-club-sync/sink/datadog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	OperationMembers    = "members"
	OperationActivities = "activities"
)

// Syncer runs the two sync operations.
type Syncer interface {
	SyncMembers(ctx context.Context) (clubsync.MembersResult, error)
	SyncActivities(ctx context.Context) (clubsync.ActivitiesResult, error)
}

// InitLogging configures the global logger from the environment config.
func InitLogging(cfg config.Config, format string) {
	if format == "" {
		format = cfg.GetLogFormat()
	}
	logging.Init(logging.Config{
		Level:  cfg.GetLogLevel(),
		Format: format,
		Fields: map[string]string{
			"service": cfg.GetService(),
			"env":     cfg.GetEnv(),
			"version": cfg.GetVersion(),
		},
	})
}

// NewService builds the production service: S3 for the durable store, SSM
// for the Datadog API key and Datadog as the sink.
func NewService(ctx context.Context, cfg config.Config) (*clubsync.Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[app.NewService] LoadDefaultConfig")
	}

	store := blobstore.New(s3backend.NewFromConfig(awsCfg), cfg.GetCacheBucket())
	sk := datadog.New(ssm.NewFromConfig(awsCfg), cfg.GetAPIKeyParam(), datadog.WithSite(cfg.GetSite()))
	return clubsync.New(cfg, store, sk, clubsync.WithHTTPClient(http.DefaultClient))
}

// Handler is a Lambda handler for one sync operation.
type Handler func(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error)

// NewHandler returns the handler for operation. A failed sync is returned as
// an error so the runtime marks the invocation failed.
func NewHandler(svc Syncer, operation string) (Handler, error) {
	var run func(ctx context.Context) (any, error)
	switch operation {
	case OperationMembers:
		run = func(ctx context.Context) (any, error) { return svc.SyncMembers(ctx) }
	case OperationActivities:
		run = func(ctx context.Context) (any, error) { return svc.SyncActivities(ctx) }
	default:
		return nil, errors.Errorf("[app.NewHandler] unknown operation %q", operation)
	}

	return func(ctx context.Context, _ json.RawMessage) (events.APIGatewayProxyResponse, error) {
		ctx, _ = logging.WithInvocation(ctx, operation)
		result, err := run(ctx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("sync failed")
			return events.APIGatewayProxyResponse{}, err
		}
		return Response(result)
	}, nil
}

// Response wraps a sync result in a 200 response with a JSON body.
func Response(result any) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return events.APIGatewayProxyResponse{}, errors.Wrap(err, "[app.Response] Marshal")
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
