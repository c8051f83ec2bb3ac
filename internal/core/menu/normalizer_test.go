package menu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	assert.Equal(t, "03.15", DateKey("20240315"))
	assert.Equal(t, "abc", DateKey("abc"))
	assert.Equal(t, "", DateKey(""))
	assert.Equal(t, "03.15", DateKey("03.15"))
	assert.Equal(t, "2024-03-15", DateKey("2024-03-15"))
}

func TestRawMeal_Coalesce(t *testing.T) {
	meal := RawMeal{
		"name":   "  ",
		"corner": "한식",
		"kcal":   "650",
		"mealDt": float64(20240315),
		"side":   nil,
		"extra":  []any{1},
	}

	assert.Equal(t, "한식", meal.String("name", "corner"))
	assert.Equal(t, "", meal.String("side", "missing"))
	assert.Equal(t, "20240315", meal.String("mealDt"))
	assert.Equal(t, "", meal.String("extra"))
	assert.Equal(t, 650, meal.Int("kcal"))
	assert.Equal(t, 0, meal.Int("missing"))

	assert.Equal(t, 712, RawMeal{"kcal": float64(712.6)}.Int("kcal"))
	assert.Equal(t, 0, RawMeal{"kcal": "약 700"}.Int("kcal"))
	assert.Equal(t, 480, RawMeal{"kcal": json.Number("480")}.Int("kcal"))
}

func TestRawMealInt_DecimalStrings(t *testing.T) {
	tests := []struct {
		value any
		want  int
	}{
		{"0700", 700},
		{"0820", 820},
		{"712.5", 712},
		{" 0300 ", 300},
		{"0x10", 0},
		{true, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RawMeal{"kcal": tt.value}.Int("kcal"), "%v", tt.value)
	}

	assert.Equal(t, 650, RawMeal{"kcal": "0x10", "calories": "650"}.Int("kcal", "calories"), "falls through to the next key")
}

func TestProject(t *testing.T) {
	item, err := Project(RawMeal{
		"name":         "제육볶음",
		"side":         "쌀밥, 미역국",
		"thumbnailUrl": "https://img/1.jpg",
		"kcal":         float64(820),
	})
	require.NoError(t, err)
	assert.Equal(t, MenuItem{
		Corner:   "제육볶음",
		Main:     "제육볶음",
		Side:     "쌀밥, 미역국",
		ImageURL: "https://img/1.jpg",
		Kcal:     820,
	}, item)

	item, err = Project(RawMeal{"corner": "샐러드바"})
	require.NoError(t, err)
	assert.Equal(t, "샐러드바", item.Main)
	assert.Equal(t, "샐러드바", item.Corner)

	_, err = Project(RawMeal{"side": "김치"})
	assert.Error(t, err)
}

func TestNormalize_GroupsByDateInOrder(t *testing.T) {
	meals := []RawMeal{
		{"name": "Rice", "mealDt": "20240315", "corner": "A"},
		{"name": "Soup", "mealDt": "20240315"},
		{"name": "Noodle", "mealDt": "20240316"},
		{"name": "Rice", "mealDt": "20240315", "corner": "A"},
		{"name": "Odd", "mealDt": "abc"},
		{"name": "NoDate"},
		nil,
		{"side": "orphan side", "mealDt": "20240315"},
	}

	got := Normalize(meals, "")

	require.Len(t, got["03.15"], 3)
	assert.Equal(t, []string{"Rice", "Soup", "Rice"}, mains(got["03.15"]))
	assert.Equal(t, "A", got["03.15"][0].Corner)
	assert.Equal(t, "Soup", got["03.15"][1].Corner)
	assert.Equal(t, []string{"Noodle"}, mains(got["03.16"]))
	assert.Equal(t, []string{"Odd"}, mains(got["abc"]))
	assert.Equal(t, []string{"NoDate"}, mains(got[""]))
	assert.Equal(t, []string{"", "03.15", "03.16", "abc"}, got.Dates())
}

func TestNormalize_FilterIsExactString(t *testing.T) {
	meals := []RawMeal{
		{"name": "Rice", "mealDt": "20240315"},
		{"name": "Bread", "mealDt": "20240316"},
		{"name": "Short", "mealDt": "0315"},
	}

	got := Normalize(meals, "20240315")
	assert.Equal(t, WeeklyMenu{"03.15": {{Corner: "Rice", Main: "Rice"}}}, got)

	assert.Empty(t, Normalize(meals, "2024-03-15"))
	assert.Equal(t, []string{"Short"}, mains(Normalize(meals, "0315")["0315"]))
	assert.Empty(t, Normalize(meals[:2], "0315"))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil, ""))
	assert.Empty(t, Normalize([]RawMeal{}, "20240315"))
}

func mains(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Main)
	}
	return out
}
