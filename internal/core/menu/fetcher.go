package menu

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"freshmeal-bot/internal/infrastructure/config"
	"freshmeal-bot/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const weekMealPath = "/week-meal"

// Fetcher 週菜單 API 客戶端
type Fetcher struct {
	config config.MenuSourceConfig
	client *resty.Client
}

// NewFetcher 創建週菜單客戶端
func NewFetcher(cfg config.MenuSourceConfig) *Fetcher {
	origin := strings.TrimRight(cfg.Origin, "/")

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeaders(map[string]string{
			"User-Agent": cfg.UserAgent,
			"Origin":     origin,
			"Referer":    origin + "/",
			"Accept":     "application/json",
		})

	return &Fetcher{
		config: cfg,
		client: client,
	}
}

// FetchWeek 取得本週所有餐點並攤平成一個列表。
// 任何失敗都記錄後回傳空列表，呼叫端應視為「沒有資料」。
func (f *Fetcher) FetchWeek(ctx context.Context) []RawMeal {
	start := time.Now()

	meals, err := f.fetchWeek(ctx)
	if err != nil {
		common.LogWarn("週菜單取得失敗",
			zap.Error(err),
			zap.String("store_idx", f.config.StoreIdx),
			zap.Duration("耗時", time.Since(start)),
		)
		return []RawMeal{}
	}

	common.LogInfo("週菜單取得成功",
		zap.String("store_idx", f.config.StoreIdx),
		zap.Int("meals", len(meals)),
		zap.Duration("耗時", time.Since(start)),
	)
	return meals
}

func (f *Fetcher) fetchWeek(ctx context.Context) ([]RawMeal, error) {
	// 已送出的請求只受 client timeout 限制
	resp, err := f.client.R().
		SetContext(context.WithoutCancel(ctx)).
		SetQueryParams(map[string]string{
			"storeIdx": f.config.StoreIdx,
			"weekType": f.config.WeekType,
		}).
		Get(weekMealPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrFetchFailure, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", common.ErrFetchFailure, resp.StatusCode())
	}

	return parseWeek(resp.Body())
}

// parseWeek 依文件順序走訪 data -> 日 -> 餐別 -> 餐點列表，形狀不符的層級直接略過
func parseWeek(body []byte) ([]RawMeal, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON body", common.ErrFetchFailure)
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		return nil, fmt.Errorf("%w: data is not an object", common.ErrFetchFailure)
	}

	meals := []RawMeal{}
	data.ForEach(func(_, day gjson.Result) bool {
		if !day.IsObject() {
			return true
		}
		day.ForEach(func(_, slot gjson.Result) bool {
			if !slot.IsArray() {
				return true
			}
			slot.ForEach(func(_, meal gjson.Result) bool {
				if raw, ok := meal.Value().(map[string]interface{}); ok {
					meals = append(meals, RawMeal(raw))
				}
				return true
			})
			return true
		})
		return true
	})

	return meals, nil
}
