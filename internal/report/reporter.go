package report

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/mood-bot/internal/schedule"
	"github.com/ykvlv/mood-bot/internal/store"
)

// Report cadences, UTC.
const (
	weeklySpec  = "0 9 * * 1" // Monday morning, previous ISO week
	monthlySpec = "0 9 1 * *" // first of month, previous calendar month
)

// Sender delivers a rendered chart to a user.
type Sender interface {
	SendChart(userID int64, png []byte) error
}

// Reporter periodically renders and sends mood charts to every user who
// recorded marks in the report window.
type Reporter struct {
	repo store.Repo
	disp *schedule.CronDispatcher
	send Sender
	log  *zap.Logger
	now  func() time.Time
}

func NewReporter(repo store.Repo, disp *schedule.CronDispatcher, send Sender, log *zap.Logger) *Reporter {
	return &Reporter{
		repo: repo,
		disp: disp,
		send: send,
		log:  log,
		now:  time.Now,
	}
}

// Start registers the weekly and monthly report jobs on the dispatcher.
func (r *Reporter) Start() error {
	if _, err := r.disp.Schedule(weeklySpec, r.runWeekly); err != nil {
		return err
	}
	if _, err := r.disp.Schedule(monthlySpec, r.runMonthly); err != nil {
		return err
	}
	return nil
}

func (r *Reporter) runWeekly() {
	from, to := prevWeekBounds(r.now().UTC())
	r.run(from, to, WeekChart())
}

func (r *Reporter) runMonthly() {
	from, to := prevMonthBounds(r.now().UTC())
	r.run(from, to, MonthChart())
}

// run sends one report pass. Failures are logged per user; one bad chart
// or delivery never stops the rest of the pass.
func (r *Reporter) run(from, to time.Time, chart Chart) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	users, err := r.repo.ListUsersWithMarks(ctx, from, to)
	if err != nil {
		r.log.Error("list report users failed", zap.Error(err))
		return
	}

	for _, userID := range users {
		marks, err := r.repo.ListMarks(ctx, userID, from, to)
		if err != nil {
			r.log.Error("list marks failed", zap.Int64("user", userID), zap.Error(err))
			continue
		}
		png, err := chart.Render(marks, from, to)
		if errors.Is(err, ErrNoMarks) {
			continue
		}
		if err != nil {
			r.log.Error("chart render failed", zap.Int64("user", userID), zap.Error(err))
			continue
		}
		if err := r.send.SendChart(userID, png); err != nil {
			r.log.Error("chart send failed", zap.Int64("user", userID), zap.Error(err))
			continue
		}
		r.log.Info("report sent", zap.Int64("user", userID), zap.Int("marks", len(marks)))
	}
}

// prevWeekBounds returns the previous ISO week [Monday 00:00, Monday 00:00).
func prevWeekBounds(now time.Time) (from, to time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	weekStart := day.AddDate(0, 0, -offset)
	return weekStart.AddDate(0, 0, -7), weekStart
}

// prevMonthBounds returns the previous calendar month [1st 00:00, 1st 00:00).
func prevMonthBounds(now time.Time) (from, to time.Time) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return monthStart.AddDate(0, -1, 0), monthStart
}
