package domain

import "time"

// User represents per-user notification schedule settings.
// Schedule fields are meaningless until the user finishes the setup
// dialog; Active gates whether any triggers may exist.
type User struct {
	TelegramID int64
	StartHour  int // 0..23
	EndHour    int // 0..23, >= StartHour
	Frequency  int // hours between slots, >= 1
	Minute     int // 0..59, minute offset applied to every slot
	Active     bool
	CreatedAt  time.Time // UTC
}

// Mark is one recorded mood rating. Append-only, never mutated.
type Mark struct {
	ID         int64
	TelegramID int64
	Value      int       // 0..4
	CreatedAt  time.Time // UTC
}
