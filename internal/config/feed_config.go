package config

type FeedConfig interface {
	GetClubID() string
	GetAPIBaseURL() string
	GetTokenURL() string
	GetPageSize() int
	GetMaxRetries() int
}

type Feed struct {
	ClubID     string `env:"DD_CLUB_ID"`
	APIBaseURL string `env:"STRAVA_API_URL" envDefault:"https://www.strava.com/api/v3"`
	TokenURL   string `env:"STRAVA_TOKEN_URL" envDefault:"https://www.strava.com/api/v3/oauth/token"`
	PageSize   int    `env:"PAGE_SIZE" envDefault:"30"`
	MaxRetries int    `env:"MAX_RETRIES" envDefault:"3"`
}

var _ FeedConfig = Feed{}

func (f Feed) GetClubID() string {
	return f.ClubID
}

func (f Feed) GetAPIBaseURL() string {
	return f.APIBaseURL
}

func (f Feed) GetTokenURL() string {
	return f.TokenURL
}

func (f Feed) GetPageSize() int {
	return f.PageSize
}

func (f Feed) GetMaxRetries() int {
	return f.MaxRetries
}
