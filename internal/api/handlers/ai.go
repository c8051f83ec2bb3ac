package handlers

import (
	"net/http"

	"freshmeal-bot/internal/core/cafeteria"
	"freshmeal-bot/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzeRequest 營養分析請求，一次最多 100 個名稱
type AnalyzeRequest struct {
	Names []string `json:"names" binding:"required,min=1,max=100,dive,max=200"`
}

// NutritionHandler AI 營養分析處理器
type NutritionHandler struct {
	service *cafeteria.Service
}

// NewNutritionHandler 創建營養分析處理器
func NewNutritionHandler(service *cafeteria.Service) *NutritionHandler {
	return &NutritionHandler{
		service: service,
	}
}

// Analyze 分析任意食物名稱。分析失敗時仍回傳 200，available 為 false。
func (h *NutritionHandler) Analyze(c *gin.Context) {
	rid := requestid.Get(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", rid),
		)
		c.JSON(http.StatusBadRequest, common.ErrInvalidRequest.Response(false))
		return
	}

	result := h.service.Analyze(c.Request.Context(), req.Names)
	if !result.Available() {
		common.LogInfo("營養分析無結果",
			zap.String("request_id", rid),
			zap.Int("names", len(req.Names)),
			zap.NamedError("reason", result.Reason()),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": rid,
		"analysis":   result,
	})
}
