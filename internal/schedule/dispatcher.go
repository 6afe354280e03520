package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// TriggerID is a handle for one registered recurring trigger.
type TriggerID int

// Dispatcher is the cooperative timer runtime the registry drives. It
// fires callbacks best-effort at approximately the scheduled time.
type Dispatcher interface {
	// ScheduleDaily registers fn to run every day at utcHour:utcMinute.
	ScheduleDaily(utcHour, utcMinute int, fn func()) (TriggerID, error)
	// Cancel removes a trigger; unknown ids are ignored.
	Cancel(id TriggerID)
}

// CronDispatcher implements Dispatcher on a robfig/cron runner pinned to UTC.
type CronDispatcher struct{ c *cron.Cron }

func NewCronDispatcher() *CronDispatcher {
	return &CronDispatcher{c: cron.New(cron.WithLocation(time.UTC))}
}

// Start launches the cron goroutine.
func (d *CronDispatcher) Start() { d.c.Start() }

// Stop halts the runner and waits for in-flight callbacks to finish.
func (d *CronDispatcher) Stop() {
	<-d.c.Stop().Done()
}

func (d *CronDispatcher) ScheduleDaily(utcHour, utcMinute int, fn func()) (TriggerID, error) {
	id, err := d.c.AddFunc(fmt.Sprintf("%d %d * * *", utcMinute, utcHour), fn)
	if err != nil {
		return 0, err
	}
	return TriggerID(id), nil
}

func (d *CronDispatcher) Cancel(id TriggerID) {
	d.c.Remove(cron.EntryID(id))
}

// Schedule registers fn on a raw cron expression. Used for the fixed
// weekly and monthly report cadences, which are not per-user slots.
func (d *CronDispatcher) Schedule(spec string, fn func()) (TriggerID, error) {
	id, err := d.c.AddFunc(spec, fn)
	if err != nil {
		return 0, err
	}
	return TriggerID(id), nil
}
