package clubsync_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-club-sync/blobstore"
	blobrepofake "github.com/jrsteele09/go-club-sync/blobstore/repofake"
	"github.com/jrsteele09/go-club-sync/clubsync"
	"github.com/jrsteele09/go-club-sync/internal/config"
	apperrors "github.com/jrsteele09/go-club-sync/internal/errors"
	"github.com/jrsteele09/go-club-sync/oauthmodel"
	sinkrepofake "github.com/jrsteele09/go-club-sync/sink/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testBucket  = "dd-cycling-club"
	testClubID  = "12345"
	testVersion = "1.4.0"
)

var testNow = time.Unix(1_700_000_000, 0)

// testFixture holds a fake upstream API plus the in-memory collaborators.
type testFixture struct {
	server        *httptest.Server
	backend       *blobrepofake.FakeBlobBackend
	sink          *sinkrepofake.FakeSink
	service       *clubsync.Service
	mu            sync.Mutex
	memberPages   map[int]int
	activities    string
	forbidden     int // upcoming data requests answered with 403
	tokenCalls    int
	dataRequests  []string
	authorization []string
}

func setupTestFixture(t *testing.T, env map[string]string) *testFixture {
	t.Helper()

	f := &testFixture{
		backend:     blobrepofake.NewFakeBlobBackend(),
		sink:        sinkrepofake.NewFakeSink(),
		memberPages: map[int]int{},
		activities:  "[]",
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)

	vars := map[string]string{
		"DD_CLUB_ID":       testClubID,
		"ENV":              "prod",
		"VERSION":          testVersion,
		"STRAVA_API_URL":   f.server.URL + "/api/v3",
		"STRAVA_TOKEN_URL": f.server.URL + "/oauth/token",
	}
	for k, v := range env {
		vars[k] = v
	}
	cfg, err := config.LoadFrom(vars)
	require.NoError(t, err)

	f.service, err = clubsync.New(cfg, blobstore.New(f.backend, testBucket), f.sink,
		clubsync.WithHTTPClient(f.server.Client()),
		clubsync.WithNowFunc(func() time.Time { return testNow }),
	)
	require.NoError(t, err)
	return f
}

func (f *testFixture) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/oauth/token" {
		f.tokenCalls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token_type":    "Bearer",
			"access_token":  fmt.Sprintf("access-%d", f.tokenCalls),
			"refresh_token": fmt.Sprintf("refresh-%d", f.tokenCalls),
			"expires_at":    testNow.Unix() + 21600,
		})
		return
	}

	f.dataRequests = append(f.dataRequests, r.URL.Path+"?"+r.URL.RawQuery)
	f.authorization = append(f.authorization, r.Header.Get("Authorization"))
	if f.forbidden > 0 {
		f.forbidden--
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Authorization Error"}`))
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/members"):
		var page int
		_, _ = fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		items := make([]string, f.memberPages[page])
		for i := range items {
			items[i] = `{"firstname":"A","lastname":"B."}`
		}
		_, _ = w.Write([]byte("[" + strings.Join(items, ",") + "]"))
	case strings.HasSuffix(r.URL.Path, "/activities"):
		_, _ = w.Write([]byte(f.activities))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *testFixture) seedCredential(t *testing.T, expiresAt int64) {
	t.Helper()
	data, err := json.Marshal(&oauthmodel.Credential{
		ClientID:     "999",
		ClientSecret: "secret",
		AccessToken:  "stored-access",
		RefreshToken: "stored-refresh",
		ExpiresAt:    expiresAt,
	})
	require.NoError(t, err)
	f.backend.Seed(testBucket, "oauth.json", string(data))
}

func (f *testFixture) cacheWrites() []string {
	var out []string
	for _, w := range f.backend.Writes() {
		if w.Key == "activities-prod.json" {
			out = append(out, w.Data)
		}
	}
	return out
}

const (
	rideA = `{"name":"Morning Ride","distance":10000,"elapsed_time":1800,"total_elevation_gain":50,"type":"Ride"}`
	rideB = `{"name":"Hill Repeats","distance":15000,"elapsed_time":3000,"total_elevation_gain":400,"type":"Ride"}`
	rideC = `{"name":"Commute","distance":8000,"elapsed_time":1500,"total_elevation_gain":12,"type":"Ride"}`
)

func TestSyncMembers(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.seedCredential(t, testNow.Unix()+3600)
	f.memberPages = map[int]int{1: 30, 2: 30, 3: 12}

	result, err := f.service.SyncMembers(context.Background())
	require.NoError(t, err)
	require.Equal(t, clubsync.MembersResult{Message: "success", Members: 72}, result)

	metrics := f.sink.Metrics()
	require.Len(t, metrics, 1)
	require.Equal(t, "dd.cycling.club.members", metrics[0].Name)
	require.Equal(t, 72.0, metrics[0].Value)
	require.Equal(t, testNow.Unix(), metrics[0].Timestamp)
	require.Len(t, f.dataRequests, 3)
	require.Zero(t, f.tokenCalls)
}

func TestSyncMembersRefreshesOn403(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.seedCredential(t, testNow.Unix()-1)
	f.memberPages = map[int]int{1: 5}
	f.forbidden = 1

	result, err := f.service.SyncMembers(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, result.Members)
	require.Equal(t, 1, f.tokenCalls)
	require.Equal(t, []string{"Bearer stored-access", "Bearer access-1"}, f.authorization)

	stored, ok := f.backend.Blob(testBucket, "oauth.json")
	require.True(t, ok)
	var c oauthmodel.Credential
	require.NoError(t, json.Unmarshal([]byte(stored), &c))
	require.Equal(t, "access-1", c.AccessToken)
	require.Equal(t, "refresh-1", c.RefreshToken)
	require.Equal(t, testNow.Unix()+21600, c.ExpiresAt)
}

func TestSyncMembersRetryExhaustedSendsNothing(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.seedCredential(t, testNow.Unix()-1)
	f.forbidden = 4

	_, err := f.service.SyncMembers(context.Background())
	require.ErrorIs(t, err, apperrors.ErrRetryExhausted)
	require.Empty(t, f.sink.Metrics())
	// the first refresh makes the token valid, later 403s do not refresh again
	require.Equal(t, 1, f.tokenCalls)
	require.Len(t, f.dataRequests, 4)
}

func TestSyncActivitiesFirstRun(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.seedCredential(t, testNow.Unix()+3600)
	f.activities = "[" + rideA + "," + rideB + "]"

	result, err := f.service.SyncActivities(context.Background())
	require.NoError(t, err)
	require.Equal(t, clubsync.ActivitiesResult{Message: "synced", NewActivities: 2}, result)

	logs := f.sink.Logs()
	require.Len(t, logs, 2)
	require.JSONEq(t, rideA, logs[0].Message)
	require.JSONEq(t, rideB, logs[1].Message)
	require.Equal(t, "strava", logs[0].Source)
	require.Equal(t, "env:prod,version:"+testVersion, logs[0].Tags)
	require.Equal(t, "dd-cycling-club", logs[0].Service)

	writes := f.cacheWrites()
	require.Len(t, writes, 1)
	require.JSONEq(t, "["+rideA+","+rideB+"]", writes[0])
}

func TestSyncActivitiesReplacesCacheWithFreshBatch(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.seedCredential(t, testNow.Unix()+3600)
	f.backend.Seed(testBucket, "activities-prod.json", "["+rideA+","+rideC+"]")
	renamedA := strings.Replace(rideA, "Morning Ride", "Evening Ride", 1)
	f.activities = "[" + rideB + "," + renamedA + "]"

	result, err := f.service.SyncActivities(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.NewActivities)

	logs := f.sink.Logs()
	require.Len(t, logs, 1)
	require.JSONEq(t, rideB, logs[0].Message)

	// replaced with the fetched batch, not merged with the old cache
	writes := f.cacheWrites()
	require.Len(t, writes, 1)
	require.JSONEq(t, "["+rideB+","+renamedA+"]", writes[0])
}

func TestSyncActivitiesNothingNewLeavesCache(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.seedCredential(t, testNow.Unix()+3600)
	cached := "[" + rideA + "," + rideB + "," + rideC + "]"
	f.backend.Seed(testBucket, "activities-prod.json", cached)
	f.activities = "[" + rideB + "," + rideA + "]"

	result, err := f.service.SyncActivities(context.Background())
	require.NoError(t, err)
	require.Equal(t, clubsync.ActivitiesResult{Message: "synced", NewActivities: 0}, result)
	require.Empty(t, f.sink.Logs())
	require.Empty(t, f.cacheWrites())

	data, _ := f.backend.Blob(testBucket, "activities-prod.json")
	require.Equal(t, cached, data)
}

func TestSyncActivitiesSinkFailureKeepsCache(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.seedCredential(t, testNow.Unix()+3600)
	f.activities = "[" + rideA + "," + rideB + "," + rideC + "]"
	f.sink.FailAfter(1, errors.New("intake unavailable"))

	_, err := f.service.SyncActivities(context.Background())
	require.Error(t, err)
	require.Len(t, f.sink.Logs(), 1)
	require.Empty(t, f.cacheWrites())
}

func TestSyncActivitiesMissingCredentials(t *testing.T) {
	f := setupTestFixture(t, nil)

	_, err := f.service.SyncActivities(context.Background())
	require.ErrorIs(t, err, apperrors.ErrCredentialsNotFound)
	require.Empty(t, f.dataRequests)
}

func TestSyncActivitiesCustomCacheKey(t *testing.T) {
	f := setupTestFixture(t, map[string]string{"CACHE_ACTIVITIES_KEY": "club.json"})
	f.seedCredential(t, testNow.Unix()+3600)
	f.activities = "[" + rideA + "]"

	_, err := f.service.SyncActivities(context.Background())
	require.NoError(t, err)
	data, ok := f.backend.Blob(testBucket, "club.json")
	require.True(t, ok)
	require.JSONEq(t, "["+rideA+"]", data)
}

func TestNewRequiresCollaborators(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"DD_CLUB_ID": testClubID})
	require.NoError(t, err)

	_, err = clubsync.New(cfg, nil, sinkrepofake.NewFakeSink())
	require.Error(t, err)
	_, err = clubsync.New(cfg, blobstore.New(blobrepofake.NewFakeBlobBackend(), testBucket), nil)
	require.Error(t, err)
}
