package scoring

import "fmt"

// Weights are the scoring coefficients supplied as configuration.
type Weights struct {
	// RankPoints[i] is awarded for satisfying the preference ranked i+1.
	RankPoints []float64 `json:"rank_points"`
	// TopCount preferences are guaranteed; each one missed costs
	// TopMissPenalty.
	TopCount       int     `json:"top_count"`
	TopMissPenalty float64 `json:"top_miss_penalty"`

	HardPenalty         float64 `json:"hard_penalty"`
	SoftPenalty         float64 `json:"soft_penalty"`
	BeachSlotTwoPenalty float64 `json:"beach_slot_two_penalty"`
	ClusterGapPenalty   float64 `json:"cluster_gap_penalty"`
	// ClusterExcessPenalty applies per cluster day beyond the minimum of
	// ceil(sessions / ClusterSessionsPerDay).
	ClusterExcessPenalty  float64 `json:"cluster_excess_penalty"`
	ClusterSessionsPerDay int     `json:"cluster_sessions_per_day"`
	StaffOverTarget       float64 `json:"staff_over_target"`
	SharingBonus          float64 `json:"sharing_bonus"`
}

// DefaultWeights returns the standard scoring coefficients.
func DefaultWeights() Weights {
	return Weights{
		RankPoints: []float64{
			5.4, 4.7, 4.1, 3.4, 2.7,
			2.6, 2.4, 2.3, 2.2, 2.0,
			1.8, 1.6, 1.4, 1.2, 1.0,
			0.8, 0.6, 0.4, 0.2,
		},
		TopCount:              5,
		TopMissPenalty:        3.2,
		HardPenalty:           1000,
		SoftPenalty:           3.4,
		BeachSlotTwoPenalty:   5.0,
		ClusterGapPenalty:     1.6,
		ClusterExcessPenalty:  2.0,
		ClusterSessionsPerDay: 3,
		StaffOverTarget:       1.5,
		SharingBonus:          4.0,
	}
}

// Validate checks the weights are usable.
func (w Weights) Validate() error {
	if w.TopCount < 0 {
		return fmt.Errorf("top_count must be >= 0")
	}
	if w.ClusterSessionsPerDay <= 0 {
		return fmt.Errorf("cluster_sessions_per_day must be > 0")
	}
	for i, p := range w.RankPoints {
		if p < 0 {
			return fmt.Errorf("rank_points[%d] must be >= 0", i)
		}
	}
	return nil
}
