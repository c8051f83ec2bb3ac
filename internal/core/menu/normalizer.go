package menu

import (
	"fmt"

	"freshmeal-bot/internal/pkg/common"

	"go.uber.org/zap"
)

// RawMeal 欄位名稱
const (
	fieldName      = "name"
	fieldCorner    = "corner"
	fieldSide      = "side"
	fieldThumbnail = "thumbnailUrl"
	fieldKcal      = "kcal"
	fieldMealDate  = "mealDt"
)

// DateKey 將 YYYYMMDD 轉為 MM.DD；長度不是 8 的字串原樣回傳
func DateKey(raw string) string {
	r := []rune(raw)
	if len(r) != 8 {
		return raw
	}
	return string(r[4:6]) + "." + string(r[6:8])
}

// Project 將 RawMeal 投影為 MenuItem，缺欄位時補預設值
func Project(meal RawMeal) (MenuItem, error) {
	item := MenuItem{
		Corner:   meal.String(fieldCorner, fieldName),
		Main:     meal.String(fieldName, fieldCorner),
		Side:     meal.String(fieldSide),
		ImageURL: meal.String(fieldThumbnail),
		Kcal:     meal.Int(fieldKcal),
	}
	if item.Main == "" {
		return MenuItem{}, fmt.Errorf("%w: no name or corner", common.ErrMalformedRecord)
	}
	return item, nil
}

// Normalize 依日期鍵分組餐點，保留輸入順序且不去重。
// filterDate 非空時只保留原始日期字串與其完全相同的餐點。
func Normalize(meals []RawMeal, filterDate string) WeeklyMenu {
	daily := WeeklyMenu{}

	for idx, meal := range meals {
		if meal == nil {
			continue
		}

		rawDate := meal.String(fieldMealDate)
		if filterDate != "" && rawDate != filterDate {
			continue
		}

		item, err := Project(meal)
		if err != nil {
			common.LogDebug("略過無法辨識的餐點",
				zap.Error(err),
				zap.Int("index", idx),
				zap.String("meal_date", rawDate),
			)
			continue
		}

		key := DateKey(rawDate)
		daily[key] = append(daily[key], item)
	}

	return daily
}
