package models

// DashboardStats is the admin overview.
type DashboardStats struct {
	UsersByRole      map[string]int64 `json:"usersByRole"`
	DonationsByState map[string]int64 `json:"donationsByStatus"`
	TotalFunds       float64          `json:"totalFunds"`
}
