package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/reportlog"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	apperrors "github.com/DewyHRite/test.jamwathq.test-sub000/pkg/errors"
)

type fakeUserRepo struct {
	total          int
	createdCounts  []int
	activeCounts   []int
	createdCursor  int
	activeCursor   int
	usersByID      map[string]*entities.User
	usersByProv    map[string]*entities.User
	created        []*entities.User
	touchedIDs     []string
	getProviderErr error
	touchErr       error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if u, ok := f.usersByID[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (f *fakeUserRepo) GetByProvider(ctx context.Context, provider entities.AuthProvider, providerID string) (*entities.User, error) {
	if f.getProviderErr != nil {
		return nil, f.getProviderErr
	}
	if u, ok := f.usersByProv[string(provider)+":"+providerID]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, id string) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touchedIDs = append(f.touchedIDs, id)
	return nil
}

func (f *fakeUserRepo) CountAll(ctx context.Context) (int, error) {
	return f.total, nil
}

func (f *fakeUserRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	n := f.createdCounts[f.createdCursor]
	f.createdCursor++
	return n, nil
}

func (f *fakeUserRepo) CountActiveBetween(ctx context.Context, from, to time.Time) (int, error) {
	n := f.activeCounts[f.activeCursor]
	f.activeCursor++
	return n, nil
}

type fakeSessionCounter struct {
	count int
	err   error
}

func (f *fakeSessionCounter) Count(ctx context.Context) (int, error) {
	return f.count, f.err
}

func newTestReportLog(t *testing.T) (*reportlog.Logger, string) {
	t.Helper()
	dir := t.TempDir()
	l, err := reportlog.New(dir, 64)
	require.NoError(t, err)
	return l, dir
}

func TestCalculatePercentChange(t *testing.T) {
	zero := 0.0
	hundred := 100.0

	t.Run("unknown previous yields nil", func(t *testing.T) {
		assert.Nil(t, calculatePercentChange(5, nil))
	})

	t.Run("both zero yields zero", func(t *testing.T) {
		got := calculatePercentChange(0, &zero)
		require.NotNil(t, got)
		assert.Equal(t, 0.0, *got)
	})

	t.Run("previous zero with nonzero current yields nil", func(t *testing.T) {
		assert.Nil(t, calculatePercentChange(5, &zero))
	})

	t.Run("normal change rounded to 2 decimals", func(t *testing.T) {
		got := calculatePercentChange(110, &hundred)
		require.NotNil(t, got)
		assert.Equal(t, 10.0, *got)

		third := 3.0
		got = calculatePercentChange(4, &third)
		require.NotNil(t, got)
		assert.Equal(t, 33.33, *got)
	})

	t.Run("negative previous uses absolute value", func(t *testing.T) {
		negative := -50.0
		got := calculatePercentChange(-25, &negative)
		require.NotNil(t, got)
		assert.Equal(t, 50.0, *got)
	})
}

func TestFormatPercentChange(t *testing.T) {
	assert.Equal(t, "N/A", formatPercentChange(nil))

	up := 12.5
	assert.Equal(t, "+12.50%", formatPercentChange(&up))

	down := -3.0
	assert.Equal(t, "-3.00%", formatPercentChange(&down))

	flat := 0.0
	assert.Equal(t, "0.00%", formatPercentChange(&flat))
}

func TestReportService_UsersReport(t *testing.T) {
	users := &fakeUserRepo{
		total:         200,
		createdCounts: []int{20, 10}, // current then previous 7-day window
		activeCounts:  []int{80, 100},
	}
	reportLog, dir := newTestReportLog(t)

	svc := NewReportService(users, &fakeStateReviewRepo{}, &fakeSessionCounter{count: 12}, reportLog)

	payload, err := svc.UsersReport(context.Background(), "admin@example.com")
	require.NoError(t, err)

	assert.True(t, payload.Success)
	assert.Equal(t, 200, payload.Metrics.TotalUsers)
	assert.Equal(t, 20, payload.Metrics.NewSignups.CurrentPeriod)
	require.NotNil(t, payload.Metrics.NewSignups.ChangePercent)
	assert.Equal(t, 100.0, *payload.Metrics.NewSignups.ChangePercent)

	assert.Equal(t, 40.0, payload.Metrics.RetentionRate.CurrentPeriod)
	assert.Equal(t, 50.0, payload.Metrics.RetentionRate.PreviousPeriod)
	require.NotNil(t, payload.Metrics.RetentionRate.ChangePercent)
	assert.Equal(t, -20.0, *payload.Metrics.RetentionRate.ChangePercent)

	require.NotNil(t, payload.Metrics.ActiveSessions.Current)
	assert.Equal(t, 12, *payload.Metrics.ActiveSessions.Current)

	reportLog.Close()
	userReport, err := os.ReadFile(filepath.Join(dir, "reports", "analytics", "USER_REPORT.md"))
	require.NoError(t, err)
	assert.Contains(t, string(userReport), "Total registered users")
	assert.Contains(t, string(userReport), "+100.00%")

	secReport, err := os.ReadFile(filepath.Join(dir, "reports", "security", "SECURITY_REPORT.md"))
	require.NoError(t, err)
	assert.Contains(t, string(secReport), "admin@example.com accessed /api/reports/users")
}

func TestReportService_UsersReport_SessionStoreUnavailable(t *testing.T) {
	users := &fakeUserRepo{total: 1, createdCounts: []int{0, 0}, activeCounts: []int{0, 0}}
	reportLog, _ := newTestReportLog(t)
	defer reportLog.Close()

	svc := NewReportService(users, &fakeStateReviewRepo{}, &fakeSessionCounter{err: fmt.Errorf("redis down")}, reportLog)

	payload, err := svc.UsersReport(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Nil(t, payload.Metrics.ActiveSessions.Current)
	assert.Contains(t, payload.Metrics.ActiveSessions.Note, "does not expose")
}

func TestReportService_TrafficReport_Stubbed(t *testing.T) {
	reportLog, dir := newTestReportLog(t)

	svc := NewReportService(&fakeUserRepo{}, &fakeStateReviewRepo{}, &fakeSessionCounter{}, reportLog)

	payload, err := svc.TrafficReport(context.Background(), "")
	require.NoError(t, err)

	assert.Nil(t, payload.Metrics.Visits.CurrentPeriod)
	assert.Nil(t, payload.Metrics.Visits.ChangePercent)
	assert.NotEmpty(t, payload.Metrics.Visits.Note)
	assert.Empty(t, payload.Metrics.TopTrafficSources)

	reportLog.Close()
	secReport, err := os.ReadFile(filepath.Join(dir, "reports", "security", "SECURITY_REPORT.md"))
	require.NoError(t, err)
	assert.Contains(t, string(secReport), "unknown-user accessed /api/reports/traffic")
}

func TestReportService_AdsReport_ProxyMath(t *testing.T) {
	reviews := &fakeStateReviewRepo{}
	reportLog, _ := newTestReportLog(t)
	defer reportLog.Close()

	// Both windows see the same fake count; the interesting part is the
	// multiplier chain.
	reviews.approvedCount = 10

	svc := NewReportService(&fakeUserRepo{}, reviews, &fakeSessionCounter{}, reportLog)

	payload, err := svc.AdsReport(context.Background(), "admin@example.com")
	require.NoError(t, err)

	assert.Equal(t, 250, payload.Metrics.Impressions.CurrentPeriod)
	assert.Equal(t, 40, payload.Metrics.Clicks.CurrentPeriod)
	assert.Equal(t, 16.0, payload.Metrics.ClickThroughRate.CurrentPeriod)
	assert.Equal(t, 34.0, payload.Metrics.EstimatedRevenue.CurrentPeriod)

	require.NotNil(t, payload.Metrics.Impressions.ChangePercent)
	assert.Equal(t, 0.0, *payload.Metrics.Impressions.ChangePercent)
}
