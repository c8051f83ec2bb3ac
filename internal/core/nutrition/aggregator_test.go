package nutrition

import (
	"errors"
	"testing"

	"freshmeal-bot/internal/core/menu"
	"freshmeal-bot/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleFacts = Map{
	"Rice":   {Kcal: 300, Carbs: 65, Protein: 6, Fat: 1},
	"Kimchi": {Kcal: 15, Carbs: 3, Protein: 1, Fat: 0},
	"Egg":    {Kcal: 80, Carbs: 1, Protein: 7, Fat: 5},
}

func TestAggregate_SumsMainAndSides(t *testing.T) {
	item := menu.MenuItem{Main: "Rice", Side: "Kimchi|fresh, Egg, Unknown(1,2)"}

	s := Aggregate(item, Enriched(sampleFacts))

	assert.True(t, s.HasData)
	assert.True(t, s.MainKnown)
	assert.Equal(t, sampleFacts["Rice"], s.Main)
	require.Len(t, s.Sides, 3)
	assert.Equal(t, menu.SideEntry{Title: "Kimchi", Description: "fresh"}, s.Sides[0].Side)
	assert.True(t, s.Sides[0].Known)
	assert.False(t, s.Sides[2].Known)
	assert.Equal(t, Facts{}, s.Sides[2].Facts)
	assert.Equal(t, Facts{Kcal: 395, Carbs: 69, Protein: 14, Fat: 6}, s.Total)
}

func TestAggregate_IsAdditive(t *testing.T) {
	items := []menu.MenuItem{
		{Main: "Rice", Side: "Kimchi, Egg"},
		{Main: "Soup", Side: "Kimchi, Kimchi"},
		{Main: "Egg"},
		{Main: "Rice", Side: "  Egg  |boiled, (x, y)"},
	}

	for _, e := range []Enrichment{Enriched(sampleFacts), Unavailable(errDisabled), Enriched(Map{"Kimchi": {Kcal: 1}})} {
		for _, item := range items {
			s := Aggregate(item, e)

			want := s.Main
			for _, side := range s.Sides {
				want = want.Add(side.Facts)
			}
			assert.Equal(t, want, s.Total, "item %+v", item)
		}
	}
}

func TestAggregate_NoDataVersusZero(t *testing.T) {
	item := menu.MenuItem{Main: "Water", Side: "Ice"}

	empty := Aggregate(item, Unavailable(errDisabled))
	assert.False(t, empty.HasData)
	assert.Equal(t, Facts{}, empty.Total)

	zeros := Aggregate(item, Enriched(Map{"Water": {}, "Ice": {}}))
	assert.True(t, zeros.HasData)
	assert.True(t, zeros.MainKnown)
	assert.Equal(t, Facts{}, zeros.Total)

	assert.False(t, Aggregate(item, Enriched(Map{})).HasData)
	assert.False(t, Aggregate(item, Enriched(nil)).HasData)
}

func TestAggregate_RiceAndSoupScenario(t *testing.T) {
	meals := []menu.RawMeal{
		{"name": "Rice", "mealDt": "20240315"},
		{"name": "Soup", "mealDt": "20240315"},
	}
	daily := menu.Normalize(meals, "")
	items := daily["03.15"]
	require.Len(t, items, 2)

	e := Enriched(Map{"Rice": {Kcal: 300, Carbs: 65, Protein: 6, Fat: 1}})

	rice := Aggregate(items[0], e)
	assert.Equal(t, Facts{Kcal: 300, Carbs: 65, Protein: 6, Fat: 1}, rice.Total)

	soup := Aggregate(items[1], e)
	assert.Equal(t, Facts{}, soup.Total)
	assert.True(t, soup.HasData, "zero comes from a missed lookup, not from a missing map")
	assert.False(t, soup.MainKnown)

	day := AggregateDay(items, e)
	assert.Equal(t, Facts{Kcal: 300, Carbs: 65, Protein: 6, Fat: 1}, day.Total)
	assert.True(t, day.HasData)
	assert.Len(t, day.Items, 2)
}

func TestAggregate_IsPure(t *testing.T) {
	facts := Map{"Rice": {Kcal: 300}}
	item := menu.MenuItem{Main: "Rice", Side: "Rice"}

	first := Aggregate(item, Enriched(facts))
	second := Aggregate(item, Enriched(facts))

	assert.Equal(t, first, second)
	assert.Equal(t, Map{"Rice": {Kcal: 300}}, facts)
}

func TestFoodNames(t *testing.T) {
	items := []menu.MenuItem{
		{Main: "Rice", Side: "Kimchi|국내산, Egg(삶은, 반숙)"},
		{Main: "Soup", Side: "Kimchi"},
		{Main: " Rice "},
	}
	assert.Equal(t, []string{"Rice", "Kimchi", "Egg(삶은, 반숙)", "Soup"}, FoodNames(items))
	assert.Nil(t, FoodNames(nil))
}

func TestEnrichment(t *testing.T) {
	e := Enriched(sampleFacts)
	f, ok := e.Lookup(" Rice ")
	assert.True(t, ok)
	assert.Equal(t, 300, f.Kcal)
	assert.NoError(t, e.Reason())

	u := Unavailable(errDisabled)
	assert.False(t, u.Available())
	assert.Nil(t, u.Facts())
	assert.True(t, errors.Is(u.Reason(), common.ErrEnrichmentUnavailable))

	data, err := u.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"available":false,"facts":{}}`, string(data))
}
