// Package audit composes the catalog, record, program, and mapping
// providers with the evaluation engines behind the operations the UI/API
// layer calls: progress evaluation, GPA computation, recommendations, and
// flexible-mapping mutation.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/pathwise/degree-audit/internal/catalog"
	"github.com/pathwise/degree-audit/internal/degree"
	"github.com/pathwise/degree-audit/internal/gpa"
	"github.com/pathwise/degree-audit/internal/mapping"
	"github.com/pathwise/degree-audit/internal/progress"
	"github.com/pathwise/degree-audit/internal/recommend"
	"github.com/pathwise/degree-audit/internal/records"
)

// ProgramProvider resolves a major name to its degree program.
type ProgramProvider interface {
	DegreeProgram(major string) (*degree.DegreeProgram, bool)
}

// Config holds the service dependencies. Nil stores fall back to in-memory
// implementations; a nil cache disables snapshot caching.
type Config struct {
	Catalog     *catalog.Catalog
	Programs    ProgramProvider
	Records     records.Store
	Mappings    mapping.Store
	Tables      *recommend.Tables
	Cache       SnapshotCache
	SnapshotTTL time.Duration
}

// Service is the audit engine façade.
type Service struct {
	catalog   *catalog.Catalog
	programs  ProgramProvider
	records   records.Store
	mappings  mapping.Store
	resolver  *mapping.Resolver
	recommend *recommend.Engine
	cache     SnapshotCache
	ttl       time.Duration
}

// New creates the audit service.
func New(cfg Config) *Service {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.New(nil)
	}
	if cfg.Records == nil {
		cfg.Records = records.NewMemoryStore()
	}
	if cfg.Mappings == nil {
		cfg.Mappings = mapping.NewMemoryStore()
	}
	ttl := cfg.SnapshotTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		catalog:   cfg.Catalog,
		programs:  cfg.Programs,
		records:   cfg.Records,
		mappings:  cfg.Mappings,
		resolver:  mapping.NewResolver(cfg.Mappings),
		recommend: recommend.NewEngine(cfg.Tables),
		cache:     cfg.Cache,
		ttl:       ttl,
	}
}

// EvaluateProgress evaluates a student against their major's requirement
// tree. A major with no known program yields an empty report, not an error.
func (s *Service) EvaluateProgress(ctx context.Context, studentID, major string) (progress.Report, error) {
	program, ok := s.lookupProgram(major)
	if !ok {
		slog.Warn("no degree program for major", "major", major)
		return progress.Report{}, nil
	}

	recs, err := s.records.CourseRecords(ctx, studentID)
	if err != nil {
		return progress.Report{}, err
	}
	maps, err := s.mappings.Mappings(ctx, studentID)
	if err != nil {
		return progress.Report{}, err
	}

	key := snapshotKey(program.ID, recs, maps)
	if report, ok := s.cachedReport(ctx, key); ok {
		return report, nil
	}

	report := progress.Evaluate(program, recs, maps, s.catalog)
	s.storeReport(ctx, key, report)
	return report, nil
}

// ComputeGPA returns semester, cumulative, and trend GPA data for a
// student.
func (s *Service) ComputeGPA(ctx context.Context, studentID string) (gpa.Data, error) {
	recs, err := s.records.CourseRecords(ctx, studentID)
	if err != nil {
		return gpa.Data{}, err
	}
	return gpa.Compute(recs), nil
}

// GPAGoal computes the future average needed to hit a target GPA.
func (s *Service) GPAGoal(ctx context.Context, studentID string, target float64, remainingSemesters, creditsPerSemester int) (gpa.GoalPlan, error) {
	recs, err := s.records.CourseRecords(ctx, studentID)
	if err != nil {
		return gpa.GoalPlan{}, err
	}
	return gpa.RequiredGPAForGoal(gpa.ComputeCumulativeGPA(recs), target, remainingSemesters, creditsPerSemester), nil
}

// Recommend ranks next-course suggestions for a student.
func (s *Service) Recommend(ctx context.Context, studentID, major string, threads []string, f recommend.Filters) ([]recommend.Recommendation, error) {
	recs, err := s.records.CourseRecords(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.recommend.Recommend(s.catalog, recs, major, threads, f), nil
}

// ProposeMapping binds a course to a selection requirement for a student.
func (s *Service) ProposeMapping(ctx context.Context, studentID, major, path, courseCode string) (mapping.Mapping, error) {
	snap, err := s.snapshot(ctx, studentID, major)
	if err != nil {
		return mapping.Mapping{}, err
	}
	return s.resolver.Propose(ctx, studentID, path, courseCode, snap)
}

// RemoveMapping removes a mapping; removing a missing one is a no-op.
func (s *Service) RemoveMapping(ctx context.Context, studentID, path, courseCode string) error {
	return s.resolver.Remove(ctx, studentID, path, courseCode)
}

// ValidateMappings re-checks a student's stored mappings against current
// pools without mutating anything.
func (s *Service) ValidateMappings(ctx context.Context, studentID, major string) (mapping.ValidationReport, error) {
	snap, err := s.snapshot(ctx, studentID, major)
	if err != nil {
		return mapping.ValidationReport{}, err
	}
	maps, err := s.mappings.Mappings(ctx, studentID)
	if err != nil {
		return mapping.ValidationReport{}, err
	}
	return mapping.ValidateAll(maps, snap), nil
}

func (s *Service) snapshot(ctx context.Context, studentID, major string) (mapping.Snapshot, error) {
	program, ok := s.lookupProgram(major)
	if !ok {
		program = &degree.DegreeProgram{}
	}
	recs, err := s.records.CourseRecords(ctx, studentID)
	if err != nil {
		return mapping.Snapshot{}, err
	}
	return mapping.Snapshot{
		Program: program,
		Records: recs,
		Catalog: s.catalog,
	}, nil
}

func (s *Service) lookupProgram(major string) (*degree.DegreeProgram, bool) {
	if s.programs == nil {
		return nil, false
	}
	return s.programs.DegreeProgram(major)
}
