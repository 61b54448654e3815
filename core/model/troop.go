package model

// Troop is a group attending one camp week.
type Troop struct {
	Name     string `json:"name" yaml:"name"`
	Campsite string `json:"campsite,omitempty" yaml:"campsite,omitempty"`
	// Commissioner holds the commissioner group identifier once resolved.
	Commissioner string `json:"commissioner,omitempty" yaml:"commissioner,omitempty"`
	Scouts       int    `json:"scouts" yaml:"scouts"`
	Adults       int    `json:"adults" yaml:"adults"`
	// Preferences is ordered from most to least desired.
	Preferences []string `json:"preferences" yaml:"preferences"`
	// DayRequests pins a preference to a requested day.
	DayRequests map[string]Day `json:"day_requests,omitempty" yaml:"day_requests,omitempty"`
}

// People returns the total headcount of the troop.
func (t Troop) People() int { return t.Scouts + t.Adults }

// Rank returns the 1-based rank of activity in the troop preferences or 0
// when the troop did not rank it.
func (t Troop) Rank(activity string) int {
	for i, p := range t.Preferences {
		if p == activity {
			return i + 1
		}
	}
	return 0
}

// Top returns the first n preferences.
func (t Troop) Top(n int) []string {
	if n > len(t.Preferences) {
		n = len(t.Preferences)
	}
	return t.Preferences[:n]
}
