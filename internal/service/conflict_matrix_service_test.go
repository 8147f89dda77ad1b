package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/scheduler-api/internal/models"
	"github.com/campusgrid/scheduler-api/pkg/config"
	appErrors "github.com/campusgrid/scheduler-api/pkg/errors"
)

type fakeEnrollmentRepo struct {
	requests []models.EnrollmentRequest
	counts   map[string]int
}

func (f *fakeEnrollmentRepo) ListByYear(_ context.Context, year int) ([]models.EnrollmentRequest, error) {
	out := make([]models.EnrollmentRequest, 0)
	for _, r := range f.requests {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) CountByCourses(_ context.Context, _ int) (map[string]int, error) {
	if f.counts == nil {
		return map[string]int{}, nil
	}
	return f.counts, nil
}

type fakeCourseRepo struct {
	courses []models.Course
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id string) (*models.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == id {
			c := f.courses[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCourseRepo) ListByYear(_ context.Context, year int) ([]models.Course, error) {
	out := make([]models.Course, 0)
	for _, c := range f.courses {
		if c.Year == year {
			out = append(out, c)
		}
	}
	return out, nil
}

func request(student, course string, year int) models.EnrollmentRequest {
	return models.EnrollmentRequest{StudentID: student, CourseCode: course, Year: year}
}

func newMatrixService(enrollments *fakeEnrollmentRepo, courses *fakeCourseRepo) *ConflictMatrixService {
	cfg := config.MatrixConfig{SingletonPriorityLevel: 10}
	return NewConflictMatrixService(enrollments, courses, nil, nil, cfg, nil)
}

func TestMatrixBuildCountsDistinctPairs(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{
		requests: []models.EnrollmentRequest{
			request("stu1", "MATH", 2026),
			request("stu1", "PHYS", 2026),
			request("stu2", "MATH", 2026),
			request("stu2", "PHYS", 2026),
			request("stu2", "CHEM", 2026),
			// Duplicate request must not double count.
			request("stu2", "CHEM", 2026),
			request("stu3", "MATH", 2026),
		},
		counts: map[string]int{"MATH": 3, "PHYS": 2, "CHEM": 1},
	}
	svc := newMatrixService(enrollments, &fakeCourseRepo{})

	pairs, err := svc.Build(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, pairs)

	assert.Equal(t, 2, svc.ConflictCount("MATH", "PHYS", 2026))
	assert.Equal(t, 1, svc.ConflictCount("MATH", "CHEM", 2026))
	assert.Equal(t, 1, svc.ConflictCount("PHYS", "CHEM", 2026))

	// Argument order does not matter; self-pairs count zero.
	assert.Equal(t, 2, svc.ConflictCount("PHYS", "MATH", 2026))
	assert.Equal(t, 0, svc.ConflictCount("MATH", "MATH", 2026))
	assert.Equal(t, 0, svc.ConflictCount("MATH", "BIO", 2026))
}

func TestMatrixPercentageUsesSmallerEnrollment(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{
		requests: []models.EnrollmentRequest{
			request("stu1", "MATH", 2026),
			request("stu1", "PHYS", 2026),
		},
		counts: map[string]int{"MATH": 10, "PHYS": 2},
	}
	svc := newMatrixService(enrollments, &fakeCourseRepo{})
	_, err := svc.Build(context.Background(), 2026)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, svc.ConflictPercentage("MATH", "PHYS", 2026), 0.001)
}

func TestMatrixPercentageZeroEnrollment(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{
		requests: []models.EnrollmentRequest{
			request("stu1", "MATH", 2026),
			request("stu1", "PHYS", 2026),
		},
		counts: map[string]int{"MATH": 10},
	}
	svc := newMatrixService(enrollments, &fakeCourseRepo{})
	_, err := svc.Build(context.Background(), 2026)
	require.NoError(t, err)

	assert.Zero(t, svc.ConflictPercentage("MATH", "PHYS", 2026))
}

func TestMatrixSingletons(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{
		requests: []models.EnrollmentRequest{
			request("stu1", "MATH", 2026),
			request("stu1", "ART", 2026),
			request("stu2", "MATH", 2026),
			request("stu2", "PHYS", 2026),
		},
		counts: map[string]int{"MATH": 2, "ART": 1, "PHYS": 1},
	}
	courses := &fakeCourseRepo{courses: []models.Course{
		{ID: "c1", Code: "MATH", Year: 2026, SectionCount: 3},
		{ID: "c2", Code: "ART", Year: 2026, SectionCount: 1},
		{ID: "c3", Code: "PHYS", Year: 2026, SectionCount: 2},
	}}
	svc := newMatrixService(enrollments, courses)
	_, err := svc.Build(context.Background(), 2026)
	require.NoError(t, err)

	singletons, err := svc.SingletonConflicts(2026)
	require.NoError(t, err)
	require.Len(t, singletons, 1)
	assert.Equal(t, "ART", singletons[0].CourseA)
	assert.Equal(t, "MATH", singletons[0].CourseB)
	assert.True(t, singletons[0].Singleton)
	assert.Equal(t, 10, singletons[0].PriorityLevel)
}

func TestMatrixNotBuilt(t *testing.T) {
	svc := newMatrixService(&fakeEnrollmentRepo{}, &fakeCourseRepo{})

	_, err := svc.SingletonConflicts(2026)
	assert.ErrorIs(t, err, appErrors.ErrMatrixNotBuilt)

	_, err = svc.Heatmap(context.Background(), 2026)
	assert.ErrorIs(t, err, appErrors.ErrMatrixNotBuilt)

	assert.Zero(t, svc.ConflictCount("MATH", "PHYS", 2026))
}

func TestMatrixRebuildReplacesPreviousMatrix(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{
		requests: []models.EnrollmentRequest{
			request("stu1", "MATH", 2026),
			request("stu1", "PHYS", 2026),
		},
		counts: map[string]int{"MATH": 1, "PHYS": 1},
	}
	svc := newMatrixService(enrollments, &fakeCourseRepo{})
	_, err := svc.Build(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.ConflictCount("MATH", "PHYS", 2026))

	enrollments.requests = []models.EnrollmentRequest{
		request("stu1", "MATH", 2026),
		request("stu1", "CHEM", 2026),
	}
	_, err = svc.Build(context.Background(), 2026)
	require.NoError(t, err)

	assert.Zero(t, svc.ConflictCount("MATH", "PHYS", 2026))
	assert.Equal(t, 1, svc.ConflictCount("MATH", "CHEM", 2026))
}

func TestMatrixHeatmapSymmetry(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{
		requests: []models.EnrollmentRequest{
			request("stu1", "MATH", 2026),
			request("stu1", "PHYS", 2026),
		},
		counts: map[string]int{"MATH": 1, "PHYS": 1},
	}
	svc := newMatrixService(enrollments, &fakeCourseRepo{})
	_, err := svc.Build(context.Background(), 2026)
	require.NoError(t, err)

	heatmap, err := svc.Heatmap(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, heatmap["MATH"]["PHYS"])
	assert.Equal(t, 1, heatmap["PHYS"]["MATH"])
}
