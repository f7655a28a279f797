// Package activities models club activities from the upstream feed and
// detects which of them have not been seen before.
package activities

import (
	"github.com/goccy/go-json"
)

// Activity is an upstream club activity. Only the fields used for
// deduplication and logging are decoded; the original JSON is kept and
// re-encoded unchanged.
type Activity struct {
	Name               string
	Distance           float64
	ElapsedTime        float64
	TotalElevationGain float64

	raw json.RawMessage
}

type activityFields struct {
	Name               string  `json:"name"`
	Distance           float64 `json:"distance"`
	ElapsedTime        float64 `json:"elapsed_time"`
	TotalElevationGain float64 `json:"total_elevation_gain"`
}

func (a *Activity) UnmarshalJSON(data []byte) error {
	var f activityFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	a.Name = f.Name
	a.Distance = f.Distance
	a.ElapsedTime = f.ElapsedTime
	a.TotalElevationGain = f.TotalElevationGain
	a.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (a Activity) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}
	return json.Marshal(activityFields{
		Name:               a.Name,
		Distance:           a.Distance,
		ElapsedTime:        a.ElapsedTime,
		TotalElevationGain: a.TotalElevationGain,
	})
}

// Fingerprint identifies an activity by its physical metrics. Names change
// when athletes rename rides; these do not.
type Fingerprint struct {
	Distance           float64
	ElapsedTime        float64
	TotalElevationGain float64
}

func (a Activity) Fingerprint() Fingerprint {
	return Fingerprint{
		Distance:           a.Distance,
		ElapsedTime:        a.ElapsedTime,
		TotalElevationGain: a.TotalElevationGain,
	}
}

// Same reports whether a and b are the same activity, possibly renamed.
func Same(a, b Activity) bool {
	return a.Fingerprint() == b.Fingerprint()
}
