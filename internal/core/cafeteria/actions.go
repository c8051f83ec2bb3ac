package cafeteria

import (
	"context"
	"fmt"

	"freshmeal-bot/internal/core/card"
	"freshmeal-bot/internal/pkg/common"

	"go.uber.org/zap"
)

// 訊息排版
const (
	LayoutList     = "list"
	LayoutCarousel = "carousel"
)

// Activity 回覆給使用者的一則訊息：文字或卡片
type Activity struct {
	Text             string            `json:"text,omitempty"`
	AttachmentLayout string            `json:"attachmentLayout,omitempty"`
	Attachments      []card.Attachment `json:"attachments,omitempty"`
}

func textActivity(text string) Activity {
	return Activity{Text: text}
}

func cardActivity(cards ...card.Card) Activity {
	a := Activity{AttachmentLayout: LayoutList}
	if len(cards) > 1 {
		a.AttachmentLayout = LayoutCarousel
	}
	for _, c := range cards {
		a.Attachments = append(a.Attachments, card.Attach(c))
	}
	return a
}

// Welcome 新成員加入時的回覆
func (s *Service) Welcome() []Activity {
	return []Activity{cardActivity(card.Selection())}
}

// Handle 執行使用者選擇的動作，回傳依序要送出的訊息，最後一則固定是動作選單。
// 未知動作回傳 ErrUnknownAction。
func (s *Service) Handle(ctx context.Context, action string) ([]Activity, error) {
	var activities []Activity

	switch action {
	case card.ActionTodayMenu:
		activities = append(activities, textActivity("🤖 전체 영양 성분을 정밀 계산 중입니다..."))
		report, ok := s.Today(ctx)
		if !ok {
			activities = append(activities, textActivity(fmt.Sprintf("오늘(%s)은 식단이 없습니다.", s.TodayDate())))
		} else {
			activities = append(activities, cardActivity(report.Card()))
		}

	case card.ActionWeekMenu, card.ActionWeekMenuAI:
		analyze := action == card.ActionWeekMenuAI
		if analyze {
			activities = append(activities, textActivity("🤖 주간 식단을 정밀 분석 중입니다... (시간 소요)"))
		} else {
			activities = append(activities, textActivity("📅 주간 식단을 불러옵니다..."))
		}

		reports := s.Week(ctx, analyze)
		if len(reports) == 0 {
			activities = append(activities, textActivity("데이터가 없습니다."))
		} else {
			cards := make([]card.Card, 0, len(reports))
			for _, r := range reports {
				cards = append(cards, r.Card())
			}
			a := cardActivity(cards...)
			a.AttachmentLayout = LayoutCarousel
			activities = append(activities, a)
		}

	default:
		common.LogWarn("未知的動作", zap.String("action", action))
		return nil, common.ErrUnknownAction
	}

	return append(activities, cardActivity(card.Selection())), nil
}
