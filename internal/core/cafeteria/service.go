package cafeteria

import (
	"context"
	"fmt"
	"time"

	"freshmeal-bot/internal/core/ai"
	"freshmeal-bot/internal/core/card"
	"freshmeal-bot/internal/core/menu"
	"freshmeal-bot/internal/core/nutrition"
	"freshmeal-bot/internal/infrastructure/config"
	"freshmeal-bot/internal/pkg/common"

	"go.uber.org/zap"
)

// dateLayout 週菜單 API 使用的日期格式
const dateLayout = "20060102"

// MenuSource 週菜單來源
type MenuSource interface {
	FetchWeek(ctx context.Context) []menu.RawMeal
}

// Analyzer 營養分析
type Analyzer interface {
	Enrich(ctx context.Context, names []string) nutrition.Enrichment
}

// DayReport 單日菜單與營養彙總
type DayReport struct {
	Date      string               `json:"date"`
	Items     []menu.MenuItem      `json:"items"`
	Nutrition nutrition.DaySummary `json:"nutrition"`
	Analysis  nutrition.Enrichment `json:"analysis"`
}

// Card 轉為單日菜單卡片
func (r DayReport) Card() card.Card {
	return card.DailyMenu(r.Date, r.Items, r.Nutrition)
}

// Service 餐廳菜單服務
type Service struct {
	source   MenuSource
	analyzer Analyzer
	location *time.Location
	now      func() time.Time
}

// New 依設定組裝菜單來源與營養分析
func New(cfg *config.Config) *Service {
	var completer nutrition.Completer
	if client := ai.NewClient(cfg.AI); client != nil {
		completer = client
	}

	return NewService(
		menu.NewFetcher(cfg.Menu),
		nutrition.NewEnricher(completer),
		cfg.Menu.UTCOffsetHours,
	)
}

// NewService 創建餐廳菜單服務；offsetHours 為「今天」所在時區相對 UTC 的時差
func NewService(source MenuSource, analyzer Analyzer, offsetHours int) *Service {
	return &Service{
		source:   source,
		analyzer: analyzer,
		location: time.FixedZone("menu", offsetHours*60*60),
		now:      time.Now,
	}
}

// TodayDate 今天的原始日期字串（YYYYMMDD）
func (s *Service) TodayDate() string {
	return s.now().In(s.location).Format(dateLayout)
}

// Today 今天的菜單與營養分析；沒有菜單時 ok 為 false
func (s *Service) Today(ctx context.Context) (DayReport, bool) {
	today := s.TodayDate()
	daily := menu.Normalize(s.source.FetchWeek(ctx), today)

	dates := daily.Dates()
	if len(dates) == 0 {
		common.LogInfo("今日沒有菜單", zap.String("date", today))
		return DayReport{Date: menu.DateKey(today)}, false
	}

	date := dates[0]
	return s.report(ctx, date, daily[date], true), true
}

// Week 本週菜單，依日期鍵排序；analyze 為 true 時每天各分析一次
func (s *Service) Week(ctx context.Context, analyze bool) []DayReport {
	daily := menu.Normalize(s.source.FetchWeek(ctx), "")

	reports := make([]DayReport, 0, len(daily))
	for _, date := range daily.Dates() {
		reports = append(reports, s.report(ctx, date, daily[date], analyze))
	}
	return reports
}

// ValidateDate 檢查 YYYYMMDD 日期；空字串代表不篩選
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil || len(date) != len(dateLayout) {
		return common.NewValidationError(fmt.Sprintf("date must be YYYYMMDD, got %q", date))
	}
	return nil
}

// Raw 正規化後的菜單，date 非空時只保留該日期
func (s *Service) Raw(ctx context.Context, date string) menu.WeeklyMenu {
	return menu.Normalize(s.source.FetchWeek(ctx), date)
}

// Analyze 直接分析一組食物名稱
func (s *Service) Analyze(ctx context.Context, names []string) nutrition.Enrichment {
	if s.analyzer == nil {
		return nutrition.Unavailable(common.ErrEnrichmentUnavailable)
	}
	return s.analyzer.Enrich(ctx, names)
}

func (s *Service) report(ctx context.Context, date string, items []menu.MenuItem, analyze bool) DayReport {
	enrichment := nutrition.Unavailable(nil)
	if analyze {
		enrichment = s.Analyze(ctx, nutrition.FoodNames(items))
	}

	return DayReport{
		Date:      date,
		Items:     items,
		Nutrition: nutrition.AggregateDay(items, enrichment),
		Analysis:  enrichment,
	}
}
