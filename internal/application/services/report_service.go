package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/reportlog"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
)

// SessionCounter exposes the live session count for the users report.
type SessionCounter interface {
	Count(ctx context.Context) (int, error)
}

// PeriodComparison is a current-vs-previous metric pair. ChangePercent is nil
// when a percentage cannot be computed (unknown previous, divide by zero).
type PeriodComparison struct {
	CurrentPeriod  *float64 `json:"currentPeriod"`
	PreviousPeriod *float64 `json:"previousPeriod"`
	ChangePercent  *float64 `json:"changePercent"`
	Note           string   `json:"note,omitempty"`
}

// UsersReportMetrics is the metrics block of the users report.
type UsersReportMetrics struct {
	TotalUsers int `json:"totalUsers"`
	NewSignups struct {
		CurrentPeriod  int      `json:"currentPeriod"`
		PreviousPeriod int      `json:"previousPeriod"`
		ChangePercent  *float64 `json:"changePercent"`
	} `json:"newSignups"`
	ActiveSessions struct {
		Current *int   `json:"current"`
		Note    string `json:"note"`
	} `json:"activeSessions"`
	RetentionRate struct {
		CurrentPeriod  float64  `json:"currentPeriod"`
		PreviousPeriod float64  `json:"previousPeriod"`
		ChangePercent  *float64 `json:"changePercent"`
	} `json:"retentionRate"`
}

// UsersReportPayload is the response body of GET /api/reports/users.
type UsersReportPayload struct {
	Success         bool               `json:"success"`
	GeneratedAt     string             `json:"generatedAt"`
	Metrics         UsersReportMetrics `json:"metrics"`
	Recommendations []string           `json:"recommendations"`
}

// TrafficReportPayload is the response body of GET /api/reports/traffic.
// Traffic analytics has no data source yet, so every metric is a null
// placeholder with a note.
type TrafficReportPayload struct {
	Success     bool   `json:"success"`
	GeneratedAt string `json:"generatedAt"`
	Metrics     struct {
		Visits                 PeriodComparison `json:"visits"`
		UniqueVisitors         PeriodComparison `json:"uniqueVisitors"`
		AverageSessionDuration PeriodComparison `json:"averageSessionDuration"`
		BounceRate             PeriodComparison `json:"bounceRate"`
		TopTrafficSources      []string         `json:"topTrafficSources"`
	} `json:"metrics"`
	Recommendations []string `json:"recommendations"`
}

// AdsReportMetrics is the metrics block of the ads report. All figures are
// proxies derived from approved-review volume until a real ad provider is
// integrated.
type AdsReportMetrics struct {
	Impressions struct {
		CurrentPeriod  int      `json:"currentPeriod"`
		PreviousPeriod int      `json:"previousPeriod"`
		ChangePercent  *float64 `json:"changePercent"`
		Note           string   `json:"note"`
	} `json:"impressions"`
	Clicks struct {
		CurrentPeriod  int      `json:"currentPeriod"`
		PreviousPeriod int      `json:"previousPeriod"`
		ChangePercent  *float64 `json:"changePercent"`
		Note           string   `json:"note"`
	} `json:"clicks"`
	ClickThroughRate struct {
		CurrentPeriod  float64  `json:"currentPeriod"`
		PreviousPeriod float64  `json:"previousPeriod"`
		ChangePercent  *float64 `json:"changePercent"`
	} `json:"clickThroughRate"`
	EstimatedRevenue struct {
		CurrentPeriod  float64  `json:"currentPeriod"`
		PreviousPeriod float64  `json:"previousPeriod"`
		ChangePercent  *float64 `json:"changePercent"`
		Note           string   `json:"note"`
	} `json:"estimatedRevenue"`
}

// AdsReportPayload is the response body of GET /api/reports/ads.
type AdsReportPayload struct {
	Success         bool             `json:"success"`
	GeneratedAt     string           `json:"generatedAt"`
	Metrics         AdsReportMetrics `json:"metrics"`
	Recommendations []string         `json:"recommendations"`
}

// ReportService builds the admin analytics reports and records the audit
// trail for every access.
type ReportService struct {
	users     repositories.UserRepository
	reviews   repositories.StateReviewRepository
	sessions  SessionCounter
	reportLog *reportlog.Logger
}

// NewReportService creates a new report service.
func NewReportService(users repositories.UserRepository, reviews repositories.StateReviewRepository, sessions SessionCounter, reportLog *reportlog.Logger) *ReportService {
	return &ReportService{
		users:     users,
		reviews:   reviews,
		sessions:  sessions,
		reportLog: reportLog,
	}
}

// UsersReport computes signup and retention metrics over 7/14 and 30/60-day
// windows. actorEmail identifies the admin for the audit trail.
func (s *ReportService) UsersReport(ctx context.Context, actorEmail string) (*UsersReportPayload, error) {
	generatedAt := time.Now()

	totalUsers, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	sevenDaysAgo := generatedAt.AddDate(0, 0, -7)
	fourteenDaysAgo := generatedAt.AddDate(0, 0, -14)

	newSignups, err := s.users.CountCreatedBetween(ctx, sevenDaysAgo, generatedAt)
	if err != nil {
		return nil, err
	}
	previousSignups, err := s.users.CountCreatedBetween(ctx, fourteenDaysAgo, sevenDaysAgo)
	if err != nil {
		return nil, err
	}

	thirtyDaysAgo := generatedAt.AddDate(0, 0, -30)
	sixtyDaysAgo := generatedAt.AddDate(0, 0, -60)

	activeLast30, err := s.users.CountActiveBetween(ctx, thirtyDaysAgo, generatedAt)
	if err != nil {
		return nil, err
	}
	activePrevious30, err := s.users.CountActiveBetween(ctx, sixtyDaysAgo, thirtyDaysAgo)
	if err != nil {
		return nil, err
	}

	var currentRetention, previousRetention float64
	if totalUsers > 0 {
		currentRetention = float64(activeLast30) / float64(totalUsers) * 100
		previousRetention = float64(activePrevious30) / float64(totalUsers) * 100
	}
	retentionChange := calculatePercentChange(currentRetention, &previousRetention)

	payload := &UsersReportPayload{
		Success:     true,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Recommendations: []string{
			"Review onboarding funnel if new signups drop more than 10% week-over-week.",
			"Monitor cohort retention to ensure returning user percentage stays above 40%.",
			"Audit session expiration cadence to prevent session fixation.",
		},
	}
	payload.Metrics.TotalUsers = totalUsers
	payload.Metrics.NewSignups.CurrentPeriod = newSignups
	payload.Metrics.NewSignups.PreviousPeriod = previousSignups
	prevSignupsF := float64(previousSignups)
	payload.Metrics.NewSignups.ChangePercent = calculatePercentChange(float64(newSignups), &prevSignupsF)
	payload.Metrics.RetentionRate.CurrentPeriod = round2(currentRetention)
	payload.Metrics.RetentionRate.PreviousPeriod = round2(previousRetention)
	payload.Metrics.RetentionRate.ChangePercent = retentionChange

	sessionNote := "Total active sessions across the cluster."
	activeSessionsValue := "Data unavailable"
	if count, err := s.sessions.Count(ctx); err == nil {
		payload.Metrics.ActiveSessions.Current = &count
		activeSessionsValue = strconv.Itoa(count)
	} else {
		sessionNote = "Session store does not expose a count metric."
		observability.GetLogger().Warn().Err(err).Msg("Failed to read active session count")
	}
	payload.Metrics.ActiveSessions.Note = sessionNote

	s.audit(actorEmail, "/api/reports/users")
	s.reportLog.LogUserReport([]reportlog.Entry{
		{
			Date:   payload.GeneratedAt,
			Metric: "Total registered users",
			Value:  strconv.Itoa(totalUsers),
			Change: "N/A",
			Notes:  "Aggregate across Google and Facebook providers.",
		},
		{
			Date:   payload.GeneratedAt,
			Metric: "New signups (7 days)",
			Value:  strconv.Itoa(newSignups),
			Change: formatPercentChange(payload.Metrics.NewSignups.ChangePercent),
			Notes:  "Week-over-week comparison calculated against prior 7-day window.",
		},
		{
			Date:   payload.GeneratedAt,
			Metric: "Active sessions",
			Value:  activeSessionsValue,
			Change: "N/A",
			Notes:  sessionNote,
		},
		{
			Date:   payload.GeneratedAt,
			Metric: "30-day retention rate",
			Value:  fmt.Sprintf("%.2f%%", payload.Metrics.RetentionRate.CurrentPeriod),
			Change: formatPercentChange(retentionChange),
			Notes:  "Retention derived from lastLogin timestamps.",
		},
	})

	return payload, nil
}

// TrafficReport returns the stubbed traffic payload and records the access.
func (s *ReportService) TrafficReport(ctx context.Context, actorEmail string) (*TrafficReportPayload, error) {
	payload := &TrafficReportPayload{
		Success:     true,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Recommendations: []string{
			"Deploy client-side analytics SDK with server-side event validation.",
			"Schedule nightly ETL job to snapshot week-over-week traffic deltas.",
			"Configure alerting when bounce rate exceeds 55%.",
		},
	}
	payload.Metrics.Visits.Note = "Integrate with an analytics provider to populate visit metrics."
	payload.Metrics.UniqueVisitors.Note = "Awaiting analytics data ingestion pipeline."
	payload.Metrics.AverageSessionDuration.Note = "Pending instrumentation."
	payload.Metrics.BounceRate.Note = "Pending instrumentation."
	payload.Metrics.TopTrafficSources = []string{}

	s.audit(actorEmail, "/api/reports/traffic")
	s.reportLog.LogTrafficReport([]reportlog.Entry{
		{
			Date:   payload.GeneratedAt,
			Metric: "Traffic data status",
			Value:  "Pending integration",
			Change: "N/A",
			Notes:  "Awaiting analytics provider connection.",
		},
	})

	return payload, nil
}

// AdsReport derives proxy ad metrics from approved-review volume: 25
// impressions and 4 clicks per review, revenue at a placeholder $0.85 CPC.
func (s *ReportService) AdsReport(ctx context.Context, actorEmail string) (*AdsReportPayload, error) {
	generatedAt := time.Now()
	sevenDaysAgo := generatedAt.AddDate(0, 0, -7)
	fourteenDaysAgo := generatedAt.AddDate(0, 0, -14)

	currentReviews, err := s.reviews.CountApprovedBetween(ctx, sevenDaysAgo, generatedAt)
	if err != nil {
		return nil, err
	}
	previousReviews, err := s.reviews.CountApprovedBetween(ctx, fourteenDaysAgo, sevenDaysAgo)
	if err != nil {
		return nil, err
	}

	impressions := currentReviews * 25
	clicks := currentReviews * 4
	previousImpressions := previousReviews * 25
	previousClicks := previousReviews * 4

	var ctr, previousCTR float64
	if impressions > 0 {
		ctr = float64(clicks) / float64(impressions) * 100
	}
	if previousImpressions > 0 {
		previousCTR = float64(previousClicks) / float64(previousImpressions) * 100
	}

	revenue := float64(clicks) * 0.85
	previousRevenue := float64(previousClicks) * 0.85

	payload := &AdsReportPayload{
		Success:     true,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Recommendations: []string{
			"Integrate ad tracking pixels to replace proxy metrics with real impressions/clicks.",
			"Validate ad performance weekly; flag CTR variance greater than 20%.",
			"Ensure Sponsored labels remain visible to comply with FTC guidelines.",
		},
	}

	prevImpressionsF := float64(previousImpressions)
	payload.Metrics.Impressions.CurrentPeriod = impressions
	payload.Metrics.Impressions.PreviousPeriod = previousImpressions
	payload.Metrics.Impressions.ChangePercent = calculatePercentChange(float64(impressions), &prevImpressionsF)
	payload.Metrics.Impressions.Note = "Proxy metric using approved review volume until ad provider integration is complete."

	prevClicksF := float64(previousClicks)
	payload.Metrics.Clicks.CurrentPeriod = clicks
	payload.Metrics.Clicks.PreviousPeriod = previousClicks
	payload.Metrics.Clicks.ChangePercent = calculatePercentChange(float64(clicks), &prevClicksF)
	payload.Metrics.Clicks.Note = "Proxy metric derived from review submissions (assumes 16% click-through)."

	payload.Metrics.ClickThroughRate.CurrentPeriod = round2(ctr)
	payload.Metrics.ClickThroughRate.PreviousPeriod = round2(previousCTR)
	payload.Metrics.ClickThroughRate.ChangePercent = calculatePercentChange(ctr, &previousCTR)

	payload.Metrics.EstimatedRevenue.CurrentPeriod = round2(revenue)
	payload.Metrics.EstimatedRevenue.PreviousPeriod = round2(previousRevenue)
	payload.Metrics.EstimatedRevenue.ChangePercent = calculatePercentChange(revenue, &previousRevenue)
	payload.Metrics.EstimatedRevenue.Note = "Estimated using placeholder CPC of $0.85."

	s.audit(actorEmail, "/api/reports/ads")
	s.reportLog.LogAdReport([]reportlog.Entry{
		{
			Date:   payload.GeneratedAt,
			Metric: "Ad impressions (7 days)",
			Value:  strconv.Itoa(impressions),
			Change: formatPercentChange(payload.Metrics.Impressions.ChangePercent),
			Notes:  payload.Metrics.Impressions.Note,
		},
		{
			Date:   payload.GeneratedAt,
			Metric: "Estimated revenue (7 days)",
			Value:  fmt.Sprintf("$%.2f", payload.Metrics.EstimatedRevenue.CurrentPeriod),
			Change: formatPercentChange(payload.Metrics.EstimatedRevenue.ChangePercent),
			Notes:  payload.Metrics.EstimatedRevenue.Note,
		},
	})

	return payload, nil
}

func (s *ReportService) audit(actorEmail, path string) {
	if actorEmail == "" {
		actorEmail = "unknown-user"
	}
	s.reportLog.LogSecurityEvent(fmt.Sprintf("%s accessed %s", actorEmail, path), "Info")
}

// calculatePercentChange returns the percent difference between periods, nil
// when it cannot be computed: unknown previous, or a previous of zero with a
// non-zero current (the quotient would be infinite).
func calculatePercentChange(current float64, previous *float64) *float64 {
	if previous == nil {
		return nil
	}
	if *previous == 0 {
		if current == 0 {
			zero := 0.0
			return &zero
		}
		return nil
	}
	change := (current - *previous) / math.Abs(*previous) * 100
	if math.IsInf(change, 0) || math.IsNaN(change) {
		return nil
	}
	change = round2(change)
	return &change
}

func formatPercentChange(value *float64) string {
	if value == nil {
		return "N/A"
	}
	sign := ""
	if *value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, *value)
}
