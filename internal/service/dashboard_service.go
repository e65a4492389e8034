package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/crmdash/student-crm-api/internal/dto"
	"github.com/crmdash/student-crm-api/internal/models"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
)

type dashboardStudentStore interface {
	ListAll(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

type dashboardReminderStore interface {
	ListPendingInRange(ctx context.Context, from, to time.Time) ([]models.Reminder, error)
	CountPendingBefore(ctx context.Context, cutoff time.Time) (int, error)
	List(ctx context.Context, status string) ([]models.Reminder, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the landing-page summary: population counts,
// breakdowns, and the upcoming/overdue reminder split.
type DashboardService struct {
	students  dashboardStudentStore
	reminders dashboardReminderStore
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
	cfg       DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(students dashboardStudentStore, reminders dashboardReminderStore, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students:  students,
		reminders: reminders,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Stats builds the dashboard summary, served from cache when possible.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	const cacheKey = "dashboard:stats"
	if s.cache != nil {
		var cached dto.DashboardStats
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	students, err := s.students.ListAll(ctx, models.StudentFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to fetch students for dashboard")
	}

	stats := &dto.DashboardStats{
		TotalStudents:    len(students),
		StatusBreakdown:  computeStatusBreakdown(students),
		CountryBreakdown: map[string]int{},
	}
	for _, student := range students {
		country := student.Country
		if country == "" {
			country = "Unknown"
		}
		stats.CountryBreakdown[country]++
		if student.HighIntent {
			stats.HighIntentCount++
		}
		if student.NeedsEssayHelp {
			stats.NeedsEssayHelpCount++
		}
	}

	now := s.now().UTC()
	upcoming, err := s.reminders.ListPendingInRange(ctx, now, now.AddDate(0, 0, 7))
	if err != nil {
		return nil, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to fetch upcoming reminders")
	}
	overdue, err := s.reminders.CountPendingBefore(ctx, now)
	if err != nil {
		return nil, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to count overdue reminders")
	}
	all, err := s.reminders.List(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to list reminders")
	}
	stats.UpcomingReminders = len(upcoming)
	stats.OverdueReminders = overdue
	stats.TotalReminders = len(all)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}
