package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/pathwise/degree-audit/internal/mapping"
	"github.com/pathwise/degree-audit/internal/progress"
	"github.com/pathwise/degree-audit/internal/records"
)

// SnapshotCache stores serialized progress reports keyed by an input
// digest. *redis.Client satisfies it. Cache failures never surface to
// callers; evaluation just recomputes.
type SnapshotCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// snapshotKey digests the evaluation inputs. Records and mappings are
// sorted first so the key does not depend on provider ordering.
func snapshotKey(programID string, recs []records.CourseRecord, maps []mapping.Mapping) string {
	sortedRecs := make([]records.CourseRecord, len(recs))
	copy(sortedRecs, recs)
	sort.Slice(sortedRecs, func(i, j int) bool {
		if sortedRecs[i].Code != sortedRecs[j].Code {
			return sortedRecs[i].Code < sortedRecs[j].Code
		}
		return sortedRecs[i].SlotID < sortedRecs[j].SlotID
	})

	sortedMaps := make([]mapping.Mapping, len(maps))
	copy(sortedMaps, maps)
	sort.Slice(sortedMaps, func(i, j int) bool {
		if sortedMaps[i].Path != sortedMaps[j].Path {
			return sortedMaps[i].Path < sortedMaps[j].Path
		}
		return sortedMaps[i].CourseCode < sortedMaps[j].CourseCode
	})

	h, _ := blake2b.New256(nil)
	enc := json.NewEncoder(h)
	enc.Encode(programID)
	for _, r := range sortedRecs {
		enc.Encode(r)
	}
	for _, m := range sortedMaps {
		enc.Encode(struct{ Path, Code string }{m.Path, m.CourseCode})
	}
	return fmt.Sprintf("audit:progress:%x", h.Sum(nil))
}

func (s *Service) cachedReport(ctx context.Context, key string) (progress.Report, bool) {
	if s.cache == nil {
		return progress.Report{}, false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return progress.Report{}, false
	}
	var report progress.Report
	if err := json.Unmarshal(data, &report); err != nil {
		slog.Warn("discarding unreadable progress snapshot", "key", key, "error", err)
		return progress.Report{}, false
	}
	return report, true
}

func (s *Service) storeReport(ctx context.Context, key string, report progress.Report) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl).Err(); err != nil {
		slog.Warn("failed to cache progress snapshot", "key", key, "error", err)
	}
}
