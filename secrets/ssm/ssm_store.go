// Package ssm reads secrets from AWS Systems Manager Parameter Store.
package ssm

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	apperrors "github.com/jrsteele09/go-club-sync/internal/errors"
	"github.com/jrsteele09/go-club-sync/secrets"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// API is the subset of the SSM client the store uses.
type API interface {
	GetParameter(ctx context.Context, params *awsssm.GetParameterInput, optFns ...func(*awsssm.Options)) (*awsssm.GetParameterOutput, error)
}

var _ secrets.Store = (*Store)(nil)

type Store struct {
	client API
}

func New(client API) *Store {
	return &Store{client: client}
}

func NewFromConfig(cfg aws.Config) *Store {
	return New(awsssm.NewFromConfig(cfg))
}

// GetParameter returns the decrypted value of the named parameter.
func (s *Store) GetParameter(ctx context.Context, name string) (string, error) {
	log.Ctx(ctx).Debug().Str("parameter", name).Msg("fetching SSM parameter")
	out, err := s.client.GetParameter(ctx, &awsssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", errors.Wrapf(err, "[ssm.GetParameter] %s", name)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", errors.Wrapf(apperrors.ErrSecretNotFound, "[ssm.GetParameter] %s has no value", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}
