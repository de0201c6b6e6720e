package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SolidLabResearch/hive-scout-bee/pkg/approach"
	"github.com/SolidLabResearch/hive-scout-bee/pkg/signature"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func TestPutGetApproach(t *testing.T) {
	st := setupTestStore(t)

	cfg := approach.Config{
		Name:          "frequency-analysis",
		Description:   "windows with rich spectral structure",
		MinThresholds: map[string]float64{signature.MetricFFTEntropy: 1.5},
		MaxThresholds: map[string]float64{signature.MetricTripleCount: 10000},
		Priority:      5,
	}
	require.NoError(t, st.PutApproach(cfg))

	got, err := st.GetApproach("frequency-analysis")
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestGetApproachAbsent(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.GetApproach("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutApproachValidation(t *testing.T) {
	st := setupTestStore(t)

	assert.ErrorIs(t, st.PutApproach(approach.Config{}), ErrInvalidName)

	err := st.PutApproach(approach.Config{
		Name:          "typo",
		MinThresholds: map[string]float64{"varaince": 1},
	})
	require.Error(t, err, "unknown metrics must not reach the catalog")
}

func TestPutApproachUpsert(t *testing.T) {
	st := setupTestStore(t)

	require.NoError(t, st.PutApproach(approach.Config{Name: "a", Priority: 1}))
	require.NoError(t, st.PutApproach(approach.Config{Name: "a", Priority: 9}))

	got, err := st.GetApproach("a")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Priority)

	configs, err := st.Approaches()
	require.NoError(t, err)
	assert.Len(t, configs, 1)
}

func TestDeleteApproach(t *testing.T) {
	st := setupTestStore(t)
	require.NoError(t, st.PutApproach(approach.Config{Name: "a"}))

	existed, err := st.DeleteApproach("a")
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = st.GetApproach("a")
	assert.ErrorIs(t, err, ErrNotFound)

	existed, err = st.DeleteApproach("a")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestApproachesNameOrder(t *testing.T) {
	st := setupTestStore(t)

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, st.PutApproach(approach.Config{Name: name}))
	}

	configs, err := st.Approaches()
	require.NoError(t, err)

	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		names = append(names, cfg.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names, "catalog scans in key order")
}

func TestAppendAnalysisFillsIdentity(t *testing.T) {
	st := setupTestStore(t)

	rec, err := st.AppendAnalysis(AnalysisRecord{
		WindowID: "window-7",
		Recommendation: approach.Recommendation{
			RecommendedApproach: "frequency-analysis",
			MatchingApproaches:  []string{"frequency-analysis"},
			Confidence:          1,
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID, "an ID is assigned when missing")
	assert.False(t, rec.Timestamp.IsZero(), "a timestamp is assigned when missing")
}

func TestRecentAnalysesNewestFirst(t *testing.T) {
	st := setupTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := st.AppendAnalysis(AnalysisRecord{
			ID:        string(rune('a' + i)),
			WindowID:  string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	records, err := st.RecentAnalyses(3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "e", records[0].WindowID)
	assert.Equal(t, "d", records[1].WindowID)
	assert.Equal(t, "c", records[2].WindowID)
}

func TestRecentAnalysesLimits(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.AppendAnalysis(AnalysisRecord{WindowID: "w"})
	require.NoError(t, err)

	records, err := st.RecentAnalyses(0)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = st.RecentAnalyses(10)
	require.NoError(t, err)
	assert.Len(t, records, 1, "limit above the journal size returns everything")
}

func TestJournalRoundTripsRecommendation(t *testing.T) {
	st := setupTestStore(t)

	rec := AnalysisRecord{
		WindowID: "window-9",
		Recommendation: approach.Recommendation{
			RecommendedApproach: "low-volume",
			MatchingApproaches:  []string{"low-volume", "catch-all"},
			Signature: signature.Signature{
				TripleCount: 4,
				Variance:    2.5,
				Entropy:     1,
				FFTEntropy:  1.2,
			},
			Confidence: 0.875,
		},
	}
	stored, err := st.AppendAnalysis(rec)
	require.NoError(t, err)

	records, err := st.RecentAnalyses(1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, stored.ID, records[0].ID)
	assert.Equal(t, rec.Recommendation, records[0].Recommendation)
}

func TestClosedStore(t *testing.T) {
	st := setupTestStore(t)
	require.NoError(t, st.Close())

	assert.ErrorIs(t, st.PutApproach(approach.Config{Name: "a"}), ErrStoreClosed)

	_, err := st.GetApproach("a")
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = st.DeleteApproach("a")
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = st.Approaches()
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = st.AppendAnalysis(AnalysisRecord{})
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = st.RecentAnalyses(1)
	assert.ErrorIs(t, err, ErrStoreClosed)

	assert.NoError(t, st.Close(), "closing twice is fine")
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	st, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, st.PutApproach(approach.Config{Name: "durable", Priority: 2}))
	require.NoError(t, st.Close())

	st, err = Open(dir)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.GetApproach("durable")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Priority)
}
