package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/mood-bot/internal/schedule"
	"github.com/ykvlv/mood-bot/internal/store"
)

// Dialog states. Each chat is in exactly one state; button presses are
// the events that move it through the table below.
type state int

const (
	stateRegister state = iota // no user row yet, waiting for Activate
	stateMainMenu
	stateSettings
	stateAwaitSchedule // waiting for the "11 18 3 15" text line
)

// handler processes one event for a chat and returns the next state.
type handler func(ctx context.Context, chatID int64) state

// scheduleDraft accumulates the inline-picker schedule input. The picker
// walks start hour -> end hour -> frequency -> minute; nothing is
// persisted until the minute lands.
type scheduleDraft struct {
	startHour int
	endHour   int
	frequency int
}

// Router wires Telegram updates to handlers. Dialog state lives in
// memory only; a restart drops every chat back to its entry point.
type Router struct {
	bot   *tgbotapi.BotAPI
	log   *zap.Logger
	repo  store.Repo
	sched *schedule.Scheduler

	transitions map[state]map[string]handler

	mu     sync.RWMutex
	states map[int64]state
	drafts map[int64]scheduleDraft
}

func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, sched *schedule.Scheduler) *Router {
	r := &Router{
		bot:    bot,
		log:    log,
		repo:   repo,
		sched:  sched,
		states: make(map[int64]state),
		drafts: make(map[int64]scheduleDraft),
	}
	r.transitions = map[state]map[string]handler{
		stateRegister: {
			btnActivate: r.handleRegister,
		},
		stateMainMenu: {
			btnSettings: r.handleSettings,
		},
		stateSettings: {
			btnActivate:   r.handleActivate,
			btnDeactivate: r.handleDeactivate,
			btnChangeTime: r.handleAskSchedule,
		},
	}
	return r
}

func (r *Router) setState(chatID int64, s state) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[chatID] = s
}

func (r *Router) getState(chatID int64) state {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[chatID]
}

func (r *Router) setDraft(chatID int64, d scheduleDraft) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[chatID] = d
}

func (r *Router) getDraft(chatID int64) scheduleDraft {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.drafts[chatID]
}

// HandleUpdate routes a single update through the dialog table.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		chatID := upd.Message.Chat.ID
		text := strings.TrimSpace(upd.Message.Text)

		if strings.HasPrefix(text, "/start") {
			r.setState(chatID, r.handleStart(ctx, chatID))
			return
		}

		cur := r.getState(chatID)
		if h, ok := r.transitions[cur][text]; ok {
			r.setState(chatID, h(ctx, chatID))
			return
		}
		// Free text is an event only while waiting for the schedule line.
		if cur == stateAwaitSchedule {
			r.setState(chatID, r.handleScheduleText(ctx, chatID, text))
		}
		return
	}

	// Inline button presses are stateless events: a mark keyboard from
	// yesterday must keep working regardless of the dialog position.
	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		chatID := cb.Message.Chat.ID
		data := cb.Data

		switch {
		case strings.HasPrefix(data, "mark="):
			r.handleMarkCallback(ctx, chatID, cb)
		case strings.HasPrefix(data, "start_hour="):
			r.handleStartHourCallback(ctx, chatID, cb)
		case strings.HasPrefix(data, "end_hour="):
			r.handleEndHourCallback(ctx, chatID, cb)
		case strings.HasPrefix(data, "freq="):
			r.handleFrequencyCallback(ctx, chatID, cb)
		case strings.HasPrefix(data, "minute="):
			r.handleMinuteCallback(ctx, chatID, cb)
		case data == "dzyn":
			r.handleClinkCallback(ctx, chatID, cb)
		default:
			// Unknown callback, ignore silently.
		}
	}
}
