package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/crmdash/student-crm-api/internal/dto"
	"github.com/crmdash/student-crm-api/internal/models"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
	"github.com/crmdash/student-crm-api/pkg/export"
)

type analyticsStore interface {
	ListAll(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

// AnalyticsServiceConfig tunes analytics behaviour.
type AnalyticsServiceConfig struct {
	CacheTTL time.Duration
}

// AnalyticsService computes population-level aggregates over the student
// collection: overview counts, status and country breakdowns, engagement
// windows, and time-bucketed registration trends.
type AnalyticsService struct {
	store   analyticsStore
	cache   *CacheService
	metrics *MetricsService
	pdf     *export.PDFRenderer
	logger  *zap.Logger
	now     func() time.Time
	cfg     AnalyticsServiceConfig
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(store analyticsStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg AnalyticsServiceConfig) *AnalyticsService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		pdf:     export.NewPDFRenderer(),
		logger:  logger,
		now:     time.Now,
		cfg:     cfg,
	}
}

// Analyze builds the full snapshot. The reference time is taken once up
// front so the 7- and 30-day windows stay consistent across the whole
// computation. All-or-nothing: a store failure fails the request.
func (s *AnalyticsService) Analyze(ctx context.Context, opts dto.AnalyticsOptions) (*dto.AnalyticsSnapshot, error) {
	groupBy := opts.GroupBy
	switch groupBy {
	case "":
		groupBy = "day"
	case "day", "week", "month":
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "groupBy must be one of: day, week, month")
	}

	cacheKey := analyticsCacheKey(opts, groupBy)
	if s.cache != nil {
		var cached dto.AnalyticsSnapshot
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	students, err := s.store.ListAll(ctx, models.StudentFilter{
		CreatedFrom: opts.CreatedFrom,
		CreatedTo:   opts.CreatedTo,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "ANALYTICS_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to fetch students for analytics")
	}

	now := s.now().UTC()
	snapshot := &dto.AnalyticsSnapshot{
		Overview:         computeOverview(students, now),
		StatusBreakdown:  computeStatusBreakdown(students),
		CountryBreakdown: computeCountryBreakdown(students),
		Engagement:       computeEngagement(students, now),
		Trend:            computeTrend(students, groupBy),
		GroupBy:          groupBy,
		GeneratedAt:      now,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, snapshot, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("analytics cache write failed", zap.Error(err))
		}
	}
	return snapshot, nil
}

// Report renders the snapshot as a one-page PDF summary.
func (s *AnalyticsService) Report(ctx context.Context, opts dto.AnalyticsOptions) ([]byte, string, error) {
	snapshot, err := s.Analyze(ctx, opts)
	if err != nil {
		return nil, "", err
	}

	rows := []map[string]interface{}{
		{"metric": "Total students", "value": snapshot.Overview.TotalStudents},
		{"metric": "New (7 days)", "value": snapshot.Overview.NewStudents},
		{"metric": "Active (7 days)", "value": snapshot.Overview.ActiveStudents},
		{"metric": "High intent", "value": snapshot.Overview.HighIntentStudents},
		{"metric": "Needs essay help", "value": snapshot.Overview.NeedsEssayHelpStudents},
		{"metric": "Not contacted (7 days)", "value": snapshot.Engagement.NotContacted7Days},
		{"metric": "Not contacted (30 days)", "value": snapshot.Engagement.NotContacted30Days},
		{"metric": "Communication rate (%)", "value": snapshot.Engagement.CommunicationRate},
	}
	for _, status := range models.StudentStatuses {
		rows = append(rows, map[string]interface{}{
			"metric": fmt.Sprintf("Status: %s", status),
			"value":  snapshot.StatusBreakdown[string(status)],
		})
	}

	payload, err := s.pdf.Render(export.Dataset{Fields: []string{"metric", "value"}, Rows: rows}, "Student Analytics Report")
	if err != nil {
		return nil, "", appErrors.Wrap(err, "REPORT_RENDER_FAILED", appErrors.ErrInternal.Status, "failed to render analytics report")
	}
	filename := fmt.Sprintf("analytics_report_%s.pdf", s.now().UTC().Format("2006-01-02"))
	return payload, filename, nil
}

func analyticsCacheKey(opts dto.AnalyticsOptions, groupBy string) string {
	from, to := "-", "-"
	if opts.CreatedFrom != nil {
		from = opts.CreatedFrom.UTC().Format("2006-01-02")
	}
	if opts.CreatedTo != nil {
		to = opts.CreatedTo.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("analytics:%s:%s:%s", from, to, groupBy)
}

func computeOverview(students []models.Student, now time.Time) dto.AnalyticsOverview {
	weekAgo := now.AddDate(0, 0, -7)
	overview := dto.AnalyticsOverview{TotalStudents: len(students)}
	for _, student := range students {
		if !student.CreatedAt.Before(weekAgo) {
			overview.NewStudents++
		}
		if !student.LastActive.Before(weekAgo) {
			overview.ActiveStudents++
		}
		if student.HighIntent {
			overview.HighIntentStudents++
		}
		if student.NeedsEssayHelp {
			overview.NeedsEssayHelpStudents++
		}
	}
	return overview
}

// computeStatusBreakdown always emits every member of the fixed status set,
// zero when absent.
func computeStatusBreakdown(students []models.Student) map[string]int {
	breakdown := make(map[string]int, len(models.StudentStatuses))
	for _, status := range models.StudentStatuses {
		breakdown[string(status)] = 0
	}
	for _, student := range students {
		breakdown[string(student.Status)]++
	}
	return breakdown
}

func computeCountryBreakdown(students []models.Student) []dto.CountryBucket {
	counts := map[string]int{}
	for _, student := range students {
		country := student.Country
		if country == "" {
			country = "Unknown"
		}
		counts[country]++
	}

	total := len(students)
	buckets := make([]dto.CountryBucket, 0, len(counts))
	for country, count := range counts {
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(float64(count) / float64(total) * 100))
		}
		buckets = append(buckets, dto.CountryBucket{Country: country, Count: count, Percentage: percentage})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Country < buckets[j].Country
	})
	return buckets
}

// computeEngagement averages days-since-contact over contacted students
// only; a never-contacted student counts as "not contacted" for every
// window but never drags the average toward zero.
func computeEngagement(students []models.Student, now time.Time) dto.EngagementMetrics {
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	metrics := dto.EngagementMetrics{}
	contacted := 0
	var totalDays float64
	for _, student := range students {
		if student.LastContactedAt == nil {
			metrics.NotContacted7Days++
			metrics.NotContacted30Days++
			continue
		}
		contacted++
		totalDays += now.Sub(*student.LastContactedAt).Hours() / 24
		if student.LastContactedAt.Before(weekAgo) {
			metrics.NotContacted7Days++
		}
		if student.LastContactedAt.Before(monthAgo) {
			metrics.NotContacted30Days++
		}
	}
	if contacted > 0 {
		metrics.AvgDaysSinceLastContact = int(math.Round(totalDays / float64(contacted)))
	}
	if total := len(students); total > 0 {
		metrics.CommunicationRate = int(math.Round(float64(total-metrics.NotContacted7Days) / float64(total) * 100))
	}
	return metrics
}

func computeTrend(students []models.Student, groupBy string) []dto.TrendBucket {
	counts := map[string]int{}
	for _, student := range students {
		counts[trendBucket(student.CreatedAt.UTC(), groupBy)]++
	}

	buckets := make([]dto.TrendBucket, 0, len(counts))
	for bucket, count := range counts {
		buckets = append(buckets, dto.TrendBucket{Bucket: bucket, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Bucket < buckets[j].Bucket })
	return buckets
}

// trendBucket derives the bucket label. Week buckets are labelled by the
// Sunday that starts the week.
func trendBucket(ts time.Time, groupBy string) string {
	switch groupBy {
	case "week":
		sunday := ts.AddDate(0, 0, -int(ts.Weekday()))
		return sunday.Format("2006-01-02")
	case "month":
		return ts.Format("2006-01")
	default:
		return ts.Format("2006-01-02")
	}
}
