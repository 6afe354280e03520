package schedule

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

type slotKey struct {
	userID int64
	hour   int
}

// Registry is the process-wide mapping of (user, hour) to the live
// trigger installed in the dispatcher. It is the only shared mutable
// structure in the scheduling core; the mutex covers the map because
// dispatcher callbacks run on their own goroutine.
type Registry struct {
	disp Dispatcher
	log  *zap.Logger

	mu       sync.Mutex
	triggers map[slotKey]TriggerID
}

func NewRegistry(disp Dispatcher, log *zap.Logger) *Registry {
	return &Registry{
		disp:     disp,
		log:      log,
		triggers: make(map[slotKey]TriggerID),
	}
}

// Register installs a daily recurring trigger for (userID, hour) firing
// at utcHour:utcMinute. It performs no de-duplication: callers must
// cancel a user's triggers before re-registering.
func (r *Registry) Register(userID int64, hour, utcHour, utcMinute int, fn func()) error {
	id, err := r.disp.ScheduleDaily(utcHour, utcMinute, fn)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.triggers[slotKey{userID: userID, hour: hour}] = id
	r.mu.Unlock()

	r.log.Info("trigger registered",
		zap.Int64("user", userID),
		zap.Int("hour", hour),
		zap.Int("utc_hour", utcHour),
		zap.Int("utc_minute", utcMinute),
	)
	return nil
}

// CancelAllForUser walks the full hour domain 0..23 and cancels every
// trigger registered for the user. Calling it with nothing registered is
// a no-op; after it returns no trigger fires for the user until a new
// Register.
func (r *Registry) CancelAllForUser(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hour := 0; hour < 24; hour++ {
		key := slotKey{userID: userID, hour: hour}
		id, ok := r.triggers[key]
		if !ok {
			continue
		}
		r.disp.Cancel(id)
		delete(r.triggers, key)
		r.log.Info("trigger removed", zap.Int64("user", userID), zap.Int("hour", hour))
	}
}

// Hours returns the sorted hour labels currently registered for a user.
func (r *Registry) Hours(userID int64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var hours []int
	for key := range r.triggers {
		if key.userID == userID {
			hours = append(hours, key.hour)
		}
	}
	sort.Ints(hours)
	return hours
}
