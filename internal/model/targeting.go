package model

type CoverageMetrics struct {
	Location        string  `json:"location"`
	ProvinceName    string  `json:"province_name"`
	CityName        string  `json:"city_name,omitempty"`
	TotalHouseholds int     `json:"total_households"`
	TotalPoor       int     `json:"total_poor"`
	PoorWithPPPP    int     `json:"poor_with_pppp"`
	CoverageRate    float64 `json:"coverage_rate"`
	UnmetNeed       int     `json:"unmet_need"`
}

type EfficiencyMetrics struct {
	Location          string  `json:"location"`
	TotalRecipients   int     `json:"total_recipients"`
	PoorRecipients    int     `json:"poor_recipients"`
	NonPoorRecipients int     `json:"nonpoor_recipients"`
	TargetingAccuracy float64 `json:"targeting_accuracy"`
	LeakageRate       float64 `json:"leakage_rate"`
}
