package activities

// DiffNew returns the activities in fresh that match no cached activity,
// in their original order. When there is no cache (ok is false) every fresh
// activity is new and fresh is returned as is.
func DiffNew(fresh []Activity, cached []Activity, ok bool) []Activity {
	if !ok {
		return fresh
	}

	newActivities := make([]Activity, 0)
	for _, a := range fresh {
		duplicate := false
		for _, b := range cached {
			if Same(a, b) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			newActivities = append(newActivities, a)
		}
	}
	return newActivities
}
