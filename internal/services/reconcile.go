package services

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
)

type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchFuzzy
)

// MatchMajor resolves a model-proposed name against the catalog: an exact
// case-insensitive match first, otherwise the first entry whose name contains
// the proposal or is contained in it. Catalog order decides ties.
func MatchMajor(name string, catalog []CatalogEntry) (CatalogEntry, MatchKind, bool) {
	want := strings.ToLower(name)
	if want == "" {
		return CatalogEntry{}, MatchNone, false
	}
	for _, entry := range catalog {
		if strings.ToLower(entry.Name) == want {
			return entry, MatchExact, true
		}
	}
	for _, entry := range catalog {
		have := strings.ToLower(entry.Name)
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return entry, MatchFuzzy, true
		}
	}
	return CatalogEntry{}, MatchNone, false
}

// NormalizeConfidence clamps to [0,100] and rescales anything above 1 into
// [0,1]. Values already in [0,1] are kept.
func NormalizeConfidence(raw float64, ok bool) float64 {
	if !ok || math.IsNaN(raw) {
		return 0
	}
	c := raw
	if c < 0 {
		c = 0
	}
	if c > 100 {
		c = 100
	}
	if c > 1 {
		c = c / 100
	}
	return c
}

// Reconcile maps model output onto catalog majors, preserving model order.
// Entries without a name or without a catalog match are dropped; zero
// survivors is an upstream failure.
func Reconcile(
	studentID uuid.UUID,
	raw []ModelRecommendation,
	catalog []CatalogEntry,
	modelVersion string,
	now time.Time,
) ([]*types.Recommendation, error) {
	if len(raw) == 0 {
		return nil, upstream("no_usable_recommendations", "AI model returned no usable recommendations")
	}
	rows := make([]*types.Recommendation, 0, len(raw))
	for _, rec := range raw {
		if rec.MajorName == "" {
			continue
		}
		entry, _, ok := MatchMajor(rec.MajorName, catalog)
		if !ok {
			continue
		}
		rows = append(rows, &types.Recommendation{
			StudentID:          studentID,
			MajorID:            entry.ID,
			GeneratedAt:        now,
			RecommendationText: rec.Reason,
			ConfidenceScore:    NormalizeConfidence(rec.Confidence, rec.HasConfidence),
			BiasDetected:       false,
			ModelVersion:       modelVersion,
		})
	}
	if len(rows) == 0 {
		return nil, upstream("no_usable_recommendations", "could not match AI recommendations to available majors")
	}
	return rows, nil
}
