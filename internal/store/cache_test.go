package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wealthpath/wealthpath/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "scenarios.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleScenario(name string) Scenario {
	return Scenario{
		Name: name,
		Summary: model.CashFlowSummary{
			BurnRate: 500,
			Categories: []model.CategorySpend{
				{Name: "Rent", Amount: 1500},
				{Name: "Dining", Amount: 600},
				{Name: "Groceries", Amount: 1500},
			},
		},
		Profile: model.UserProfile{CurrentSavings: 10000, Goal: 25000},
		Lever:   model.OptimizationLever{ReductionPercent: 10},
	}
}

func TestSaveAndGetScenario(t *testing.T) {
	s := openTestStore(t)

	saved, err := s.SaveScenario(sampleScenario("baseline"))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.False(t, saved.CreatedAt.IsZero())

	byID, err := s.GetScenario(saved.ID)
	require.NoError(t, err)
	require.Equal(t, "baseline", byID.Name)
	require.Equal(t, saved.Summary, byID.Summary)
	require.Equal(t, saved.Profile, byID.Profile)
	require.Equal(t, saved.Lever, byID.Lever)

	byName, err := s.GetScenario("baseline")
	require.NoError(t, err)
	require.Equal(t, saved.ID, byName.ID)
}

func TestCategoryOrderPreserved(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SaveScenario(sampleScenario("order"))
	require.NoError(t, err)

	got, err := s.GetScenario("order")
	require.NoError(t, err)
	names := make([]string, 0, len(got.Summary.Categories))
	for _, c := range got.Summary.Categories {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"Rent", "Dining", "Groceries"}, names)
}

func TestSaveUpsertsByName(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	first, err := s.SaveScenario(sampleScenario("plan"))
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(time.Hour) }
	next := sampleScenario("plan")
	next.Lever.ReductionPercent = 40
	next.Summary.Categories = next.Summary.Categories[:1]
	second, err := s.SaveScenario(next)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, base, second.CreatedAt)
	require.Equal(t, base.Add(time.Hour), second.UpdatedAt)

	count, err := s.ScenarioCount()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	got, err := s.GetScenario("plan")
	require.NoError(t, err)
	require.Equal(t, 40.0, got.Lever.ReductionPercent)
	require.Len(t, got.Summary.Categories, 1)
}

func TestSaveRequiresName(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SaveScenario(sampleScenario(""))
	require.Error(t, err)
}

func TestListScenarios(t *testing.T) {
	s := openTestStore(t)

	empty, err := s.ListScenarios()
	require.NoError(t, err)
	require.Empty(t, empty)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := s.SaveScenario(sampleScenario(name))
		require.NoError(t, err)
	}
	noCats := sampleScenario("bare")
	noCats.Summary.Categories = nil
	_, err = s.SaveScenario(noCats)
	require.NoError(t, err)

	list, err := s.ListScenarios()
	require.NoError(t, err)
	require.Len(t, list, 4)
	require.Equal(t, "alpha", list[0].Name)
	require.Equal(t, "bare", list[1].Name)
	require.Empty(t, list[1].Summary.Categories)
	require.Equal(t, "zeta", list[3].Name)
	require.Len(t, list[3].Summary.Categories, 3)
}

func TestDeleteScenario(t *testing.T) {
	s := openTestStore(t)

	saved, err := s.SaveScenario(sampleScenario("gone"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteScenario(saved.ID))

	_, err = s.GetScenario("gone")
	require.True(t, errors.Is(err, ErrNotFound))

	err = s.DeleteScenario("gone")
	require.True(t, errors.Is(err, ErrNotFound))

	// categories cascade with the scenario
	cats, err := s.loadCategories("")
	require.NoError(t, err)
	require.Empty(t, cats)
}

func TestGetMissingScenario(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetScenario("nope")
	require.ErrorIs(t, err, ErrNotFound)
}
