// Package notify sends fire-and-forget Telegram notifications to the
// trainer's chat. Failures are logged and never fed back into the
// booking flow.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"fitbook/internal/refdate"
	"fitbook/internal/reservation"
)

// Telegram delivers messages to a fixed chat, rate limited to stay
// inside the Bot API send limits.
type Telegram struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewTelegram creates a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64, logger zerolog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		logger:  logger.With().Str("component", "notify").Logger(),
	}, nil
}

func (t *Telegram) send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// ReservationCreated announces a new booking.
func (t *Telegram) ReservationCreated(ctx context.Context, r reservation.Reservation) error {
	text := "🆕 <b>새로운 예약이 등록되었습니다!</b>\n\n" +
		fmt.Sprintf("📅 날짜: %s\n", formatDate(r.Date)) +
		fmt.Sprintf("⏰ 시간: %s\n", r.Time) +
		fmt.Sprintf("👤 회원명: %s\n", r.MemberName) +
		fmt.Sprintf("🆔 회원번호: %s", r.MemberID)
	return t.send(ctx, text)
}

// ReservationRescheduled announces a changed booking.
func (t *Telegram) ReservationRescheduled(ctx context.Context, prev, next reservation.Reservation) error {
	text := "🔄 <b>예약이 변경되었습니다!</b>\n\n" +
		fmt.Sprintf("👤 회원명: %s\n", next.MemberName) +
		fmt.Sprintf("🆔 회원번호: %s\n\n", next.MemberID) +
		"<b>변경 전</b>\n" +
		fmt.Sprintf("📅 날짜: %s\n", formatDate(prev.Date)) +
		fmt.Sprintf("⏰ 시간: %s\n\n", prev.Time) +
		"<b>변경 후</b>\n" +
		fmt.Sprintf("📅 날짜: %s\n", formatDate(next.Date)) +
		fmt.Sprintf("⏰ 시간: %s", next.Time)
	return t.send(ctx, text)
}

// PeriodExpiry warns that the reservation period ends in daysLeft days.
func (t *Telegram) PeriodExpiry(ctx context.Context, endDate string, daysLeft int) error {
	var text string
	switch {
	case daysLeft == 0:
		text = "🚨 예약 기간이 오늘 만료됩니다\n\n" +
			fmt.Sprintf("만료일: %s", formatDate(endDate))
	case daysLeft == 7:
		text = "⚠️ 예약 기간 만료 1주일 전 알림\n\n" +
			fmt.Sprintf("만료일: %s\n남은 기간: 7일", formatDate(endDate))
	default:
		text = "⚠️ 예약 기간 만료 임박\n\n" +
			fmt.Sprintf("만료일: %s\n남은 기간: %d일", formatDate(endDate), daysLeft)
	}
	return t.send(ctx, text)
}

var weekdayNames = [...]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

func formatDate(date string) string {
	day, err := refdate.Parse(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", day.String(), weekdayNames[day.Weekday()])
}
