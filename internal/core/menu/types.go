package menu

import (
	"sort"
	"strings"

	"freshmeal-bot/internal/pkg/common"

	"github.com/spf13/cast"
)

// RawMeal 週菜單 API 回傳的單筆餐點，欄位型別不保證
type RawMeal map[string]any

// String 依序取第一個非空字串欄位，皆無則回傳空字串
func (m RawMeal) String(keys ...string) string {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Int 依序取第一個可轉為整數的欄位（十進位，小數捨去），皆無則回傳 0
func (m RawMeal) Int(keys ...string) int {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		n, err := common.ToInt(v)
		if err != nil {
			continue
		}
		return n
	}
	return 0
}

// MenuItem 正規化後的單一餐點
type MenuItem struct {
	Corner   string `json:"corner"`
	Main     string `json:"main"`
	Side     string `json:"side"`
	ImageURL string `json:"image_url"`
	Kcal     int    `json:"kcal"`
}

// Sides 解析 Side 欄位
func (i MenuItem) Sides() []SideEntry {
	return ParseSides(i.Side)
}

// WeeklyMenu 以日期鍵（MM.DD）分組的菜單
type WeeklyMenu map[string][]MenuItem

// Dates 排序後的日期鍵
func (w WeeklyMenu) Dates() []string {
	dates := make([]string, 0, len(w))
	for date := range w {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// SideEntry 從 Side 文字拆出的單一配菜
type SideEntry struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
