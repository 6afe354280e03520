package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/mood-bot/internal/domain"
	"github.com/ykvlv/mood-bot/internal/store"
)

// NotifyFunc delivers the mood prompt for one fired slot. The hour is
// opaque labeling; implementations must not recompute anything from it.
type NotifyFunc func(userID int64, hour int)

// Scheduler keeps each user's registered trigger set consistent with the
// settings persisted for that user.
type Scheduler struct {
	repo   store.Repo
	reg    *Registry
	log    *zap.Logger
	loc    *time.Location
	notify NotifyFunc
	now    func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewScheduler(repo store.Repo, reg *Registry, loc *time.Location, notify NotifyFunc, log *zap.Logger) *Scheduler {
	return &Scheduler{
		repo:   repo,
		reg:    reg,
		log:    log,
		loc:    loc,
		notify: notify,
		now:    time.Now,
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Location returns the civil zone schedule hours are interpreted in.
func (s *Scheduler) Location() *time.Location { return s.loc }

// Now returns the current UTC instant from the scheduler's clock.
func (s *Scheduler) Now() time.Time { return s.now().UTC() }

// userLock returns the mutex serializing schedule mutations for one user.
// Settings fetches suspend on I/O, so two overlapping rebuilds for the
// same user could otherwise interleave their registry mutations.
func (s *Scheduler) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// RebuildJobs replaces a user's trigger set with one derived from the
// currently persisted settings. Existing triggers are always cancelled
// first, even when the user turns out to be inactive, so leftovers from
// a previous activation never survive a rebuild. The returned slots feed
// the human-readable schedule summary; an inactive user yields an empty
// slice and no registrations.
func (s *Scheduler) RebuildJobs(ctx context.Context, userID int64) ([]domain.Slot, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}

	s.reg.CancelAllForUser(userID)

	if !u.Active {
		return nil, nil
	}

	// Stored settings can predate configuration (NULL columns scan as
	// zeros); deriving from them is undefined, so they are re-checked
	// here. Triggers stay cancelled.
	if err := domain.ValidateSchedule(u.StartHour, u.EndHour, u.Frequency, u.Minute); err != nil {
		return nil, fmt.Errorf("stored settings for user %d: %w", userID, err)
	}

	slots := domain.DeriveSlots(*u, s.loc, s.now().In(s.loc))
	for _, slot := range slots {
		hour := slot.Hour
		err := s.reg.Register(userID, hour, slot.UTCHour, slot.UTCMinute, func() {
			s.notify(userID, hour)
		})
		if err != nil {
			return nil, fmt.Errorf("register slot %s: %w", slot.Civil(), err)
		}
	}
	return slots, nil
}

// InitializeAllActive re-arms triggers for every active user on process
// startup. A failure for one user is logged and does not abort the pass
// for the others.
func (s *Scheduler) InitializeAllActive(ctx context.Context) error {
	users, err := s.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}

	for _, u := range users {
		if _, err := s.RebuildJobs(ctx, u.TelegramID); err != nil {
			s.log.Error("startup rebuild failed", zap.Int64("user", u.TelegramID), zap.Error(err))
			continue
		}
	}
	s.log.Info("triggers re-armed", zap.Int("active_users", len(users)))
	return nil
}

// Deactivate clears the active flag and tears down the user's triggers.
// Cancellation happens even when the flag update fails: stopping the
// notifications locally is the guarantee the user actually sees.
func (s *Scheduler) Deactivate(ctx context.Context, userID int64) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	err := s.repo.SetActive(ctx, userID, false)
	s.reg.CancelAllForUser(userID)
	if err != nil {
		return fmt.Errorf("persist active flag: %w", err)
	}
	return nil
}
