package config

type SinkConfig interface {
	GetAPIKeyParam() string
	GetMembersMetric() string
	GetTags() string
	GetSite() string
}

type Sink struct {
	APIKeyParam   string `env:"DD_API_KEY_PARAM" envDefault:"DDApiKey"`
	MembersMetric string `env:"MEMBERS_METRIC" envDefault:"dd.cycling.club.members"`
	Site          string `env:"DD_SITE" envDefault:"datadoghq.com"`
}

func (s Sink) GetAPIKeyParam() string {
	return s.APIKeyParam
}

func (s Sink) GetMembersMetric() string {
	return s.MembersMetric
}

func (s Sink) GetSite() string {
	return s.Site
}
