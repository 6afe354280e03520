package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/mood-bot/internal/domain"
	"github.com/ykvlv/mood-bot/internal/store"
)

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	_, _ = r.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendWithKeyboard(chatID int64, text string, kb any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	_, _ = r.bot.Send(msg)
}

func (r *Router) answerCallback(id string) {
	_, _ = r.bot.Request(tgbotapi.NewCallback(id, ""))
}

func (r *Router) editTo(cb *tgbotapi.CallbackQuery, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, text, kb)
	_, _ = r.bot.Send(edit)
}

// callbackInt extracts N from callback data shaped "prefix=N".
func callbackInt(data string) (int, bool) {
	_, val, ok := strings.Cut(data, "=")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

// markFromCallback parses "mark=N" and rejects values outside the rating
// domain. Callback data is client-supplied and can be forged.
func markFromCallback(data string) (int, bool) {
	n, ok := callbackInt(data)
	if !ok || n < 0 || n >= len(moodEmojis) {
		return 0, false
	}
	return n, true
}

// scheduleSummary renders the slot list shown after every rebuild.
func scheduleSummary(slots []domain.Slot) string {
	if len(slots) == 0 {
		return notificationsOffText
	}
	times := make([]string, len(slots))
	for i, s := range slots {
		times[i] = s.Civil()
	}
	return "🔔:\n    " + strings.Join(times, "\n    ")
}

// --- Dialog handlers ---

func (r *Router) handleStart(ctx context.Context, chatID int64) state {
	_, err := r.repo.GetUser(ctx, chatID)
	if errors.Is(err, store.ErrNotFound) {
		r.sendWithKeyboard(chatID, welcomeNewText, activateKeyboard())
		return stateRegister
	}
	if err != nil {
		r.log.Error("get user failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateRegister
	}
	r.sendWithKeyboard(chatID, welcomeText, mainMenuKeyboard())
	return stateMainMenu
}

func (r *Router) handleRegister(ctx context.Context, chatID int64) state {
	if err := r.repo.CreateUser(ctx, chatID); err != nil {
		r.log.Error("create user failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateRegister
	}
	r.sendWithKeyboard(chatID, "Choose the start hour:", hoursKeyboard("start_hour"))
	return stateMainMenu
}

func (r *Router) handleSettings(ctx context.Context, chatID int64) state {
	u, err := r.repo.GetUser(ctx, chatID)
	if err != nil {
		r.log.Error("get user failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateMainMenu
	}

	text := notificationsOffText
	if u.Active {
		loc := r.sched.Location()
		text = scheduleSummary(domain.DeriveSlots(*u, loc, r.sched.Now().In(loc)))
	}
	r.sendWithKeyboard(chatID, text+"\n"+chooseMoveText, settingsKeyboard(u.Active))
	return stateSettings
}

func (r *Router) handleActivate(ctx context.Context, chatID int64) state {
	u, err := r.repo.GetUser(ctx, chatID)
	if err != nil {
		r.log.Error("get user failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateMainMenu
	}
	// A user who never finished setup has nothing to schedule yet; send
	// them to the schedule prompt instead of flipping the flag.
	if domain.ValidateSchedule(u.StartHour, u.EndHour, u.Frequency, u.Minute) != nil {
		r.sendText(chatID, scheduleUnsetText)
		return r.handleAskSchedule(ctx, chatID)
	}
	if err := r.repo.SetActive(ctx, chatID, true); err != nil {
		r.log.Error("activate failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateMainMenu
	}
	slots, err := r.sched.RebuildJobs(ctx, chatID)
	if err != nil {
		r.log.Error("rebuild failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateMainMenu
	}
	r.sendWithKeyboard(chatID, scheduleSummary(slots), mainMenuKeyboard())
	return stateMainMenu
}

func (r *Router) handleDeactivate(ctx context.Context, chatID int64) state {
	if err := r.sched.Deactivate(ctx, chatID); err != nil {
		r.log.Error("deactivate failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateMainMenu
	}
	r.sendWithKeyboard(chatID, deactivatedText, mainMenuKeyboard())
	return stateMainMenu
}

func (r *Router) handleAskSchedule(_ context.Context, chatID int64) state {
	msg := tgbotapi.NewMessage(chatID, askScheduleText)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	_, _ = r.bot.Send(msg)
	return stateAwaitSchedule
}

func (r *Router) handleScheduleText(ctx context.Context, chatID int64, text string) state {
	startHour, endHour, frequency, minute, err := domain.ParseSchedule(text)
	if err != nil {
		r.sendText(chatID, invalidScheduleText)
		return stateAwaitSchedule
	}
	return r.applySchedule(ctx, chatID, startHour, endHour, frequency, minute)
}

// applySchedule persists a complete schedule, turns notifications on and
// rebuilds the trigger set. Shared by the text flow and the inline picker.
func (r *Router) applySchedule(ctx context.Context, chatID int64, startHour, endHour, frequency, minute int) state {
	if err := r.repo.SetWindow(ctx, chatID, startHour, endHour, minute); err != nil {
		r.log.Error("set window failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateMainMenu
	}
	if err := r.repo.SetFrequency(ctx, chatID, frequency); err != nil {
		r.log.Error("set frequency failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateMainMenu
	}
	if err := r.repo.SetActive(ctx, chatID, true); err != nil {
		r.log.Error("set active failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateMainMenu
	}

	slots, err := r.sched.RebuildJobs(ctx, chatID)
	if err != nil {
		r.log.Error("rebuild failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return stateMainMenu
	}

	r.sendWithKeyboard(chatID, scheduleSetText+"\n"+scheduleSummary(slots), mainMenuKeyboard())
	return stateMainMenu
}

// --- Inline callbacks ---

func (r *Router) handleMarkCallback(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	r.answerCallback(cb.ID)
	value, ok := markFromCallback(cb.Data)
	if !ok {
		return
	}
	if _, err := r.repo.AddMark(ctx, chatID, value, r.sched.Now()); err != nil {
		r.log.Error("add mark failed", zap.Int64("user", chatID), zap.Error(err))
		r.sendText(chatID, genericErrorText)
		return
	}
	r.log.Info("mark recorded", zap.Int64("user", chatID), zap.Int("value", value))
	r.editTo(cb, markSavedText, clinkKeyboard())
}

func (r *Router) handleStartHourCallback(_ context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	r.answerCallback(cb.ID)
	hour, ok := callbackInt(cb.Data)
	if !ok {
		return
	}
	r.setDraft(chatID, scheduleDraft{startHour: hour})
	r.editTo(cb, "Choose the end hour:", hoursKeyboard("end_hour"))
}

func (r *Router) handleEndHourCallback(_ context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	r.answerCallback(cb.ID)
	hour, ok := callbackInt(cb.Data)
	if !ok {
		return
	}
	d := r.getDraft(chatID)
	if hour < d.startHour {
		r.editTo(cb, "End hour must not be before the start hour. Choose the end hour:", hoursKeyboard("end_hour"))
		return
	}
	d.endHour = hour
	r.setDraft(chatID, d)
	r.editTo(cb, "Choose the frequency:", frequenciesKeyboard())
}

func (r *Router) handleFrequencyCallback(_ context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	r.answerCallback(cb.ID)
	freq, ok := callbackInt(cb.Data)
	if !ok {
		return
	}
	d := r.getDraft(chatID)
	d.frequency = freq
	r.setDraft(chatID, d)
	r.editTo(cb, "Choose the minute:", minutesKeyboard())
}

func (r *Router) handleMinuteCallback(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	r.answerCallback(cb.ID)
	minute, ok := callbackInt(cb.Data)
	if !ok {
		return
	}
	d := r.getDraft(chatID)
	if err := domain.ValidateSchedule(d.startHour, d.endHour, d.frequency, minute); err != nil {
		r.sendText(chatID, invalidScheduleText)
		return
	}
	r.setState(chatID, r.applySchedule(ctx, chatID, d.startHour, d.endHour, d.frequency, minute))
}

func (r *Router) handleClinkCallback(_ context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	r.answerCallback(cb.ID)
	r.sendText(chatID, clinkText)
}

// --- Outbound callbacks for the scheduling core ---

// Notify delivers the mood prompt for one fired slot. Delivery failures
// are logged only; the slot stays armed for its next daily occurrence.
func (r *Router) Notify(userID int64, hour int) {
	msg := tgbotapi.NewMessage(userID, promptText)
	msg.ReplyMarkup = markKeyboard()
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Error("notification send failed",
			zap.Int64("user", userID),
			zap.Int("hour", hour),
			zap.Error(err),
		)
		return
	}
	r.log.Info("notification sent", zap.Int64("user", userID), zap.Int("hour", hour))
}

// SendChart uploads a rendered report chart as a photo.
func (r *Router) SendChart(userID int64, png []byte) error {
	photo := tgbotapi.NewPhoto(userID, tgbotapi.FileBytes{Name: "mood.png", Bytes: png})
	_, err := r.bot.Send(photo)
	return err
}
