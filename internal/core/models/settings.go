package models

// ModelSettings holds the sampling parameters persisted per model name.
type ModelSettings struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   *int    `json:"maxTokens,omitempty"`
}

// DefaultModelSettings returns the settings used when a model has none saved.
func DefaultModelSettings() ModelSettings {
	return ModelSettings{Temperature: 1.0}
}

// UsageInfo is an informational quota snapshot from the completion
// endpoint. All fields are optional; it never gates other operations.
type UsageInfo struct {
	PremiumRequestsLeft  *int `json:"premiumRequestsLeft,omitempty"`
	TotalPremiumRequests *int `json:"totalPremiumRequests,omitempty"`
}

// Used derives the number of consumed premium requests. The second return
// is false unless both the total and the remaining count are known.
func (u *UsageInfo) Used() (int, bool) {
	if u == nil || u.PremiumRequestsLeft == nil || u.TotalPremiumRequests == nil {
		return 0, false
	}
	return *u.TotalPremiumRequests - *u.PremiumRequestsLeft, true
}
