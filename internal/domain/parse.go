package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidSchedule = errors.New("invalid schedule")

// ValidateSchedule checks the schedule fields against their contract:
// 0 <= start <= end <= 23, frequency >= 1, 0 <= minute < 60.
// Callers must reject input here before it reaches DeriveSlots.
func ValidateSchedule(startHour, endHour, frequency, minute int) error {
	switch {
	case startHour < 0 || startHour > 23:
		return fmt.Errorf("%w: start hour %d out of [0,23]", ErrInvalidSchedule, startHour)
	case endHour < 0 || endHour > 23:
		return fmt.Errorf("%w: end hour %d out of [0,23]", ErrInvalidSchedule, endHour)
	case startHour > endHour:
		return fmt.Errorf("%w: start hour %d after end hour %d", ErrInvalidSchedule, startHour, endHour)
	case frequency < 1:
		return fmt.Errorf("%w: frequency %d below 1", ErrInvalidSchedule, frequency)
	case minute < 0 || minute > 59:
		return fmt.Errorf("%w: minute %d out of [0,59]", ErrInvalidSchedule, minute)
	}
	return nil
}

// ParseSchedule parses the free-text setup line "start end frequency minute",
// e.g. "11 18 3 15" for notifications at 11:15, 14:15 and 17:15.
func ParseSchedule(s string) (startHour, endHour, frequency, minute int, err error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("%w: expected 4 numbers, got %d", ErrInvalidSchedule, len(fields))
	}
	nums := make([]int, 4)
	for i, f := range fields {
		n, convErr := strconv.Atoi(f)
		if convErr != nil {
			return 0, 0, 0, 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSchedule, f)
		}
		nums[i] = n
	}
	startHour, endHour, frequency, minute = nums[0], nums[1], nums[2], nums[3]
	if err = ValidateSchedule(startHour, endHour, frequency, minute); err != nil {
		return 0, 0, 0, 0, err
	}
	return startHour, endHour, frequency, minute, nil
}
