package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// moodEmojis index the five rating values 0..4.
var moodEmojis = []string{"😐", "🤔", "😄", "😎", "🐕"}

func activateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnActivate)),
	)
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSettings)),
	)
}

func settingsKeyboard(active bool) tgbotapi.ReplyKeyboardMarkup {
	toggle := btnActivate
	if active {
		toggle = btnDeactivate
	}
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnChangeTime)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(toggle)),
	)
}

// markKeyboard is the rating control attached to every mood prompt.
func markKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(moodEmojis))
	for i, emoji := range moodEmojis {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(emoji, fmt.Sprintf("mark=%d", i)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// hoursKeyboard offers hours 0..23 for the start or end picker; label is
// the callback prefix ("start_hour" or "end_hour").
func hoursKeyboard(label string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for base := 0; base < 24; base += 6 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 6)
		for h := base; h < base+6; h++ {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%02d", h), fmt.Sprintf("%s=%d", label, h)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func frequenciesKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	for _, f := range []int{1, 2, 3, 4, 6, 8} {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%dh", f), fmt.Sprintf("freq=%d", f)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func minutesKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	for _, m := range []int{0, 15, 30, 45} {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf(":%02d", m), fmt.Sprintf("minute=%d", m)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func clinkKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🥂", "dzyn")),
	)
}
