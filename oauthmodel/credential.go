package oauthmodel

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// RefreshTokenGrant is the grant_type sent to the upstream token endpoint.
const RefreshTokenGrant = "refresh_token"

// Credential is the OAuth state persisted between invocations. ExpiresAt is
// the unix expiry of AccessToken as last reported by the token endpoint.
type Credential struct {
	ClientID     ClientID `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
}

// Expired reports whether the access token is no longer valid at now (unix seconds).
func (c *Credential) Expired(now int64) bool {
	return c.ExpiresAt <= now
}

// ClientID accepts the numeric ids the upstream issues as well as quoted strings.
type ClientID string

func (id *ClientID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ClientID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return errors.Errorf("client_id: unexpected value %s", raw)
	}
	*id = ClientID(raw)
	return nil
}

func (id ClientID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ClientID) String() string {
	return string(id)
}
