package telegram

import (
	"fmt"
	"go-mostaql-watcher/internal/scraper"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"

	descriptionLimit = 600
	// Telegram rejects callback data longer than 64 bytes.
	maxCallbackData = 64
)

var projectIDRegex = regexp.MustCompile(`/project/\d+`)

// FormatProject renders the notification text. The ellipsis is always appended.
func FormatProject(p scraper.Project) string {
	desc := []rune(p.Description)
	if len(desc) > descriptionLimit {
		desc = desc[:descriptionLimit]
	}
	return fmt.Sprintf(
		"📢 %s\n"+
			"💰 الميزانية: %s\n"+
			"👤 العميل: %s\n"+
			"🔗 %s\n\n"+
			"%s...",
		p.Title,
		p.Budget,
		p.Owner,
		p.URL,
		string(desc),
	)
}

// ProjectKeyboard builds approve/reject controls plus an "open" link.
func ProjectKeyboard(p scraper.Project) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ موافقة", CallbackData(ActionApprove, p.URL)),
			tgbotapi.NewInlineKeyboardButtonData("❌ رفض", CallbackData(ActionReject, p.URL)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 فتح المشروع", p.URL),
		),
	)
}

// CallbackData encodes "action|id". The id is shortened (full URL, then path,
// then /project/<n>) until it fits Telegram's limit.
func CallbackData(action, projectURL string) string {
	prefix := action + "|"
	budget := maxCallbackData - len(prefix)

	candidates := []string{projectURL}
	if u, err := url.Parse(projectURL); err == nil && u.Path != "" {
		candidates = append(candidates, u.EscapedPath())
	}
	if id := projectIDRegex.FindString(projectURL); id != "" {
		candidates = append(candidates, id)
	}
	for _, c := range candidates {
		if len(c) <= budget {
			return prefix + c
		}
	}
	return prefix + truncateBytes(candidates[len(candidates)-1], budget)
}

// ParseCallback splits "action|id"; data without a separator is all action.
func ParseCallback(data string) (action, id string) {
	action, id, _ = strings.Cut(data, "|")
	return action, id
}

func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
