package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
)

var fixture = catalogs.Topics{
	{ID: "1", System: "Nervous System", Title: "Stroke Localization", YieldScore: 5,
		Keywords: []string{"MCA", "ACA"}, Summary: "MCA: arm/face weakness", ExamTip: "Homonymous hemianopia"},
	{ID: "2", System: "Nervous System", Title: "CNS Infection", YieldScore: 5,
		Keywords: []string{"Meningitis"}, Summary: "CSF analysis"},
	{ID: "3", System: "Cardiovascular System", Title: "ACS: EKG & Management", YieldScore: 5,
		Keywords: []string{"MONA"}},
	{ID: "4", System: "Cardiovascular System", Title: "Valvular Heart Diseases", YieldScore: 4},
	{ID: "5", System: "Hematology System", Title: "Warfarin vs Heparin", YieldScore: 5,
		Summary: "Warfarin: monitor PT/INR"},
	{ID: "6", System: "Hematology System", Title: "Platelet: ITP vs TTP", YieldScore: 3},
	{ID: "7", System: "Renal & Urinary System", Title: "Urolithiasis", YieldScore: 2},
}

func titles(ts catalogs.Topics) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Title
	}
	return out
}

func TestFilterBySystem(t *testing.T) {
	f := Filter{System: "Cardiovascular System", MinYield: 1}
	got := f.Apply(fixture)
	require.Len(t, got, 2)
	for _, topic := range got {
		assert.Equal(t, "Cardiovascular System", topic.System)
	}
}

func TestFilterAllSystemsAndMinYield(t *testing.T) {
	f := Filter{System: AllSystems, MinYield: 4}
	got := f.Apply(fixture)
	require.Len(t, got, 5)
	for _, topic := range got {
		assert.GreaterOrEqual(t, topic.YieldScore, 4)
	}
}

func TestFilterQueryMatchesKeywordsAndSummary(t *testing.T) {
	f := Filter{System: AllSystems, MinYield: 1, Query: "meningitis"}
	assert.Equal(t, []string{"CNS Infection"}, titles(f.Apply(fixture)))

	f.Query = "PT/INR"
	assert.Equal(t, []string{"Warfarin vs Heparin"}, titles(f.Apply(fixture)))

	f.Query = "  MONA " // trimmed, case-folded
	assert.Equal(t, []string{"ACS: EKG & Management"}, titles(f.Apply(fixture)))
}

func TestFilterSortYieldDescThenTitleAsc(t *testing.T) {
	f := Filter{System: AllSystems, MinYield: 1}
	got := titles(f.Apply(fixture))

	want := []string{
		// yield 5, titles ascending
		"ACS: EKG & Management",
		"CNS Infection",
		"Stroke Localization",
		"Warfarin vs Heparin",
		// yield 4
		"Valvular Heart Diseases",
		// yield 3
		"Platelet: ITP vs TTP",
		// yield 2
		"Urolithiasis",
	}
	assert.Equal(t, want, got)
}

func TestFilterSortTieBreak(t *testing.T) {
	topics := catalogs.Topics{
		{System: "X", Title: "Zebra", YieldScore: 4},
		{System: "X", Title: "Apple", YieldScore: 4},
	}
	got := Filter{System: AllSystems, MinYield: 1}.Apply(topics)
	assert.Equal(t, []string{"Apple", "Zebra"}, titles(got))
}

func TestFilterIsPure(t *testing.T) {
	f := Filter{System: AllSystems, MinYield: 3, Query: "a"}
	first := f.Apply(fixture)
	second := f.Apply(fixture)
	assert.Equal(t, first, second, "same view and filter state yield identical output")

	// The input order is untouched.
	assert.Equal(t, "1", fixture[0].ID)
	assert.Equal(t, "7", fixture[6].ID)
}

func TestDefaultFilter(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, AllSystems, f.System)
	assert.Equal(t, 3, f.MinYield)
	assert.Empty(t, f.Query)
}
