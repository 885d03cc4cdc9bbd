package dashboard

import "time"

// DashboardResponse is the KPI snapshot of one tenant for one local day.
type DashboardResponse struct {
	Date               string         `json:"date"`
	WorkdaysByStatus   map[string]int `json:"workdays_by_status"`
	PendingLeave       int            `json:"pending_leave_requests"`
	ActiveEmployees    int            `json:"active_employees"`
	OnLeaveToday       int            `json:"on_leave_today"`
	AverageMinutesLate float64        `json:"average_minutes_late"`
	GeneratedAt        time.Time      `json:"generated_at"`
}
