package nutrition

import (
	"strings"

	"freshmeal-bot/internal/core/menu"
)

// SideFacts 配菜與其營養成分
type SideFacts struct {
	Side  menu.SideEntry `json:"side"`
	Facts Facts          `json:"facts"`
	Known bool           `json:"known"`
}

// Summary 單一餐點（主菜 + 配菜）的營養彙總。
// HasData 為 false 時所有數值皆為 0，顯示端應隱藏營養資訊。
type Summary struct {
	Main      Facts       `json:"main"`
	MainKnown bool        `json:"main_known"`
	Sides     []SideFacts `json:"sides"`
	Total     Facts       `json:"total"`
	HasData   bool        `json:"has_data"`
}

// DaySummary 一天所有餐點的營養彙總
type DaySummary struct {
	Items   []Summary `json:"items"`
	Total   Facts     `json:"total"`
	HasData bool      `json:"has_data"`
}

// Aggregate 計算餐點的營養彙總，查不到的名稱以 0 計
func Aggregate(item menu.MenuItem, e Enrichment) Summary {
	main, mainKnown := e.Lookup(item.Main)

	summary := Summary{
		Main:      main,
		MainKnown: mainKnown,
		Total:     main,
		HasData:   e.Available(),
	}

	for _, side := range item.Sides() {
		facts, known := e.Lookup(side.Title)
		summary.Sides = append(summary.Sides, SideFacts{
			Side:  side,
			Facts: facts,
			Known: known,
		})
		summary.Total = summary.Total.Add(facts)
	}

	return summary
}

// AggregateDay 彙總一天的所有餐點
func AggregateDay(items []menu.MenuItem, e Enrichment) DaySummary {
	day := DaySummary{
		Items:   make([]Summary, 0, len(items)),
		HasData: e.Available(),
	}
	for _, item := range items {
		s := Aggregate(item, e)
		day.Items = append(day.Items, s)
		day.Total = day.Total.Add(s.Total)
	}
	return day
}

// FoodNames 收集主菜與配菜名稱，去重並保留出現順序
func FoodNames(items []menu.MenuItem) []string {
	seen := make(map[string]bool)
	var names []string

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, item := range items {
		add(item.Main)
		for _, side := range item.Sides() {
			add(side.Title)
		}
	}
	return names
}
