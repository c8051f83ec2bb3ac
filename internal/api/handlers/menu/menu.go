package menu

import (
	"errors"
	"fmt"
	"net/http"

	"freshmeal-bot/internal/core/cafeteria"
	"freshmeal-bot/internal/core/card"
	"freshmeal-bot/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// ActionRequest 卡片按鈕送出的資料
type ActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// TodayResponse 今日菜單
type TodayResponse struct {
	RequestID string               `json:"request_id"`
	Date      string               `json:"date"`
	Found     bool                 `json:"found"`
	Message   string               `json:"message,omitempty"`
	Report    *cafeteria.DayReport `json:"report,omitempty"`
	Card      *card.Attachment     `json:"card,omitempty"`
}

// WeekResponse 本週菜單
type WeekResponse struct {
	RequestID string                `json:"request_id"`
	Analyzed  bool                  `json:"analyzed"`
	Days      []cafeteria.DayReport `json:"days"`
	Cards     []card.Attachment     `json:"cards"`
}

// Handler 菜單處理程序
type Handler struct {
	service *cafeteria.Service
}

// NewHandler 創建菜單處理程序
func NewHandler(service *cafeteria.Service) *Handler {
	return &Handler{service: service}
}

// requestID 優先使用 requestid 中間件產生的 ID
func requestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	id := common.GenerateUUID()
	c.Header("X-Request-ID", id)
	return id
}

// HandleToday 今日菜單與營養分析
func (h *Handler) HandleToday(c *gin.Context) {
	rid := requestID(c)

	report, ok := h.service.Today(c.Request.Context())
	resp := TodayResponse{
		RequestID: rid,
		Date:      h.service.TodayDate(),
		Found:     ok,
	}

	if !ok {
		resp.Message = fmt.Sprintf("오늘(%s)은 식단이 없습니다.", resp.Date)
	} else {
		attachment := card.Attach(report.Card())
		resp.Report = &report
		resp.Card = &attachment
	}

	common.LogInfo("今日菜單查詢完成",
		zap.String("request_id", rid),
		zap.Bool("found", ok),
		zap.Bool("analyzed", report.Nutrition.HasData),
	)
	c.JSON(http.StatusOK, resp)
}

// HandleWeek 本週菜單；analyze=true 時每天做一次營養分析
func (h *Handler) HandleWeek(c *gin.Context) {
	rid := requestID(c)

	analyze, err := cast.ToBoolE(c.DefaultQuery("analyze", "false"))
	if err != nil {
		common.LogWarn("analyze 參數無效",
			zap.String("request_id", rid),
			zap.String("analyze", c.Query("analyze")),
		)
		c.JSON(http.StatusBadRequest, common.ErrInvalidRequest.Response(false))
		return
	}

	days := h.service.Week(c.Request.Context(), analyze)
	cards := make([]card.Attachment, 0, len(days))
	for _, day := range days {
		cards = append(cards, card.Attach(day.Card()))
	}

	common.LogInfo("本週菜單查詢完成",
		zap.String("request_id", rid),
		zap.Int("days", len(days)),
		zap.Bool("analyze", analyze),
	)
	c.JSON(http.StatusOK, WeekResponse{
		RequestID: rid,
		Analyzed:  analyze,
		Days:      days,
		Cards:     cards,
	})
}

// HandleRaw 正規化後的菜單，可用 date=YYYYMMDD 篩選
func (h *Handler) HandleRaw(c *gin.Context) {
	rid := requestID(c)
	date := c.Query("date")

	if err := cafeteria.ValidateDate(date); err != nil {
		if common.IsValidationError(err) {
			resp := common.ErrInvalidRequest.Response(false)
			resp.Details = err.Error()
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response(false))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": rid,
		"date":       date,
		"menu":       h.service.Raw(c.Request.Context(), date),
	})
}

// HandleSelection 動作選單卡片
func (h *Handler) HandleSelection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"request_id": requestID(c),
		"activities": h.service.Welcome(),
	})
}

// HandleAction 執行卡片按鈕的動作
func (h *Handler) HandleAction(c *gin.Context) {
	rid := requestID(c)

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", rid),
		)
		c.JSON(http.StatusBadRequest, common.ErrInvalidRequest.Response(false))
		return
	}

	activities, err := h.service.Handle(c.Request.Context(), req.Action)
	if err != nil {
		var customErr *common.CustomError
		if errors.As(err, &customErr) {
			c.JSON(customErr.Status, customErr.Response(false))
			return
		}
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response(false))
		return
	}

	common.LogInfo("動作處理完成",
		zap.String("request_id", rid),
		zap.String("action", req.Action),
		zap.Int("activities", len(activities)),
	)
	c.JSON(http.StatusOK, gin.H{
		"request_id": rid,
		"action":     req.Action,
		"activities": activities,
	})
}
