package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campusgrid/scheduler-api/internal/models"
	"github.com/campusgrid/scheduler-api/pkg/config"
	appErrors "github.com/campusgrid/scheduler-api/pkg/errors"
)

// matrixEnrollmentRepository abstracts enrollment request reads for matrix builds.
type matrixEnrollmentRepository interface {
	ListByYear(ctx context.Context, year int) ([]models.EnrollmentRequest, error)
	CountByCourses(ctx context.Context, year int) (map[string]int, error)
}

// matrixCourseRepository abstracts course reads for singleton tagging.
type matrixCourseRepository interface {
	ListByYear(ctx context.Context, year int) ([]models.Course, error)
}

type yearMatrix struct {
	year    int
	entries map[string]models.ConflictMatrixEntry
	builtAt time.Time
}

func matrixEntryKey(a, b string) string {
	a, b = models.PairKey(a, b)
	return a + "|" + b
}

// ConflictMatrixService maintains per-year course pair co-request counts.
// Rebuilds construct a fresh matrix and swap it in atomically, so readers
// never observe a partially built matrix.
type ConflictMatrixService struct {
	enrollments matrixEnrollmentRepository
	courses     matrixCourseRepository
	cache       *CacheService
	metrics     *MetricsService
	cfg         config.MatrixConfig
	logger      *zap.Logger

	mu    sync.RWMutex
	years map[int]*yearMatrix
}

// NewConflictMatrixService constructs a conflict matrix service.
func NewConflictMatrixService(enrollments matrixEnrollmentRepository, courses matrixCourseRepository, cache *CacheService, metrics *MetricsService, cfg config.MatrixConfig, logger *zap.Logger) *ConflictMatrixService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictMatrixService{
		enrollments: enrollments,
		courses:     courses,
		cache:       cache,
		metrics:     metrics,
		cfg:         cfg,
		logger:      logger,
		years:       make(map[int]*yearMatrix),
	}
}

// Build recomputes the matrix for the given year from enrollment requests.
// The previous matrix stays readable until the swap; on error nothing changes.
func (s *ConflictMatrixService) Build(ctx context.Context, year int) (int, error) {
	start := time.Now()

	requests, err := s.enrollments.ListByYear(ctx, year)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment requests")
	}
	enrollmentByCourse, err := s.enrollments.CountByCourses(ctx, year)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count course enrollments")
	}
	courses, err := s.courses.ListByYear(ctx, year)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	singleton := make(map[string]bool, len(courses))
	for i := range courses {
		singleton[courses[i].Code] = courses[i].IsSingleton()
	}

	// Distinct course codes per student, then every unordered pair.
	byStudent := make(map[string]map[string]struct{})
	for _, req := range requests {
		if req.CourseCode == "" {
			continue
		}
		set, ok := byStudent[req.StudentID]
		if !ok {
			set = make(map[string]struct{})
			byStudent[req.StudentID] = set
		}
		set[req.CourseCode] = struct{}{}
	}

	counts := make(map[string]int)
	for _, set := range byStudent {
		codes := make([]string, 0, len(set))
		for code := range set {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for i := 0; i < len(codes); i++ {
			for j := i + 1; j < len(codes); j++ {
				counts[matrixEntryKey(codes[i], codes[j])]++
			}
		}
	}

	entries := make(map[string]models.ConflictMatrixEntry, len(counts))
	for key, count := range counts {
		a, b := splitMatrixKey(key)
		entry := models.ConflictMatrixEntry{
			CourseA:    a,
			CourseB:    b,
			Year:       year,
			Count:      count,
			Percentage: pairPercentage(count, enrollmentByCourse[a], enrollmentByCourse[b]),
		}
		if singleton[a] || singleton[b] {
			entry.Singleton = true
			entry.PriorityLevel = s.cfg.SingletonPriorityLevel
		}
		entries[key] = entry
	}

	s.mu.Lock()
	s.years[year] = &yearMatrix{year: year, entries: entries, builtAt: time.Now().UTC()}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, fmt.Sprintf("matrix:heatmap:%d*", year)); err != nil {
			s.logger.Warn("heatmap cache invalidation failed", zap.Int("year", year), zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveMatrixRebuild(time.Since(start))
	}
	s.logger.Info("conflict matrix rebuilt",
		zap.Int("year", year),
		zap.Int("students", len(byStudent)),
		zap.Int("pairs", len(entries)),
		zap.Duration("elapsed", time.Since(start)))

	return len(entries), nil
}

// Entry returns the matrix entry for a course pair, in either argument order.
func (s *ConflictMatrixService) Entry(courseA, courseB string, year int) (models.ConflictMatrixEntry, bool) {
	if courseA == courseB {
		return models.ConflictMatrixEntry{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	matrix, ok := s.years[year]
	if !ok {
		return models.ConflictMatrixEntry{}, false
	}
	entry, ok := matrix.entries[matrixEntryKey(courseA, courseB)]
	return entry, ok
}

// ConflictCount returns the number of students requesting both courses.
// Unknown pairs and self-pairs count zero.
func (s *ConflictMatrixService) ConflictCount(courseA, courseB string, year int) int {
	entry, ok := s.Entry(courseA, courseB, year)
	if !ok {
		return 0
	}
	return entry.Count
}

// ConflictPercentage returns the share of the smaller course's enrollment
// that requested both courses, in [0, 100].
func (s *ConflictMatrixService) ConflictPercentage(courseA, courseB string, year int) float64 {
	entry, ok := s.Entry(courseA, courseB, year)
	if !ok {
		return 0
	}
	return entry.Percentage
}

// SingletonConflicts lists pairs where at least one course has a single
// section, ordered by descending count.
func (s *ConflictMatrixService) SingletonConflicts(year int) ([]models.ConflictMatrixEntry, error) {
	s.mu.RLock()
	matrix, ok := s.years[year]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrMatrixNotBuilt
	}

	out := make([]models.ConflictMatrixEntry, 0)
	for _, entry := range matrix.entries {
		if entry.Singleton {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].CourseA != out[j].CourseA {
			return out[i].CourseA < out[j].CourseA
		}
		return out[i].CourseB < out[j].CourseB
	})
	return out, nil
}

// Heatmap returns the full pair-count map for a year, cached in Redis.
func (s *ConflictMatrixService) Heatmap(ctx context.Context, year int) (map[string]map[string]int, error) {
	cacheKey := fmt.Sprintf("matrix:heatmap:%d", year)
	if s.cache != nil {
		var cached map[string]map[string]int
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	s.mu.RLock()
	matrix, ok := s.years[year]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrMatrixNotBuilt
	}

	heatmap := make(map[string]map[string]int)
	add := func(a, b string, count int) {
		row, ok := heatmap[a]
		if !ok {
			row = make(map[string]int)
			heatmap[a] = row
		}
		row[b] = count
	}
	for _, entry := range matrix.entries {
		add(entry.CourseA, entry.CourseB, entry.Count)
		add(entry.CourseB, entry.CourseA, entry.Count)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, heatmap, s.cfg.HeatmapCacheTTL); err != nil {
			s.logger.Warn("heatmap cache write failed", zap.Int("year", year), zap.Error(err))
		}
	}
	return heatmap, nil
}

// BuiltAt returns when the year's matrix was last rebuilt.
func (s *ConflictMatrixService) BuiltAt(year int) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matrix, ok := s.years[year]
	if !ok {
		return time.Time{}, false
	}
	return matrix.builtAt, true
}

func splitMatrixKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func pairPercentage(count, enrollA, enrollB int) float64 {
	if enrollA <= 0 || enrollB <= 0 {
		return 0
	}
	smaller := enrollA
	if enrollB < smaller {
		smaller = enrollB
	}
	pct := float64(count) / float64(smaller) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
