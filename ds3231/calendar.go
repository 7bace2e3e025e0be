package ds3231

import (
	"errors"
	"time"
)

// ErrOutOfRange is returned when a DateTime field is outside its legal
// bounds, or when an instant cannot be represented by the device at all
// (anything before 2000-01-01).
var ErrOutOfRange = errors.New("ds3231: date/time out of range")

// EpochSeconds counts whole seconds since 2000-01-01T00:00:00, the first
// instant the DS3231 can represent. A uint32 covers the chip's entire
// 2000-2099 range with room to spare.
type EpochSeconds uint32

// UnixEpochOffset is the number of seconds between the Unix epoch
// (1970-01-01) and the device epoch (2000-01-01). Unix and FromUnix apply
// it at the boundary so that EpochSeconds never goes negative.
const UnixEpochOffset = 946684800

// Weekday values as stored by the device, 1 through 7. The datasheet
// leaves the mapping to the user; this driver fixes Monday=1.
const (
	Monday uint8 = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// monthDays holds the length of each month in a non-leap year.
var monthDays = [12]uint8{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// weekdayOffset is the per-month term of the Gauss day-of-week congruence.
var weekdayOffset = [12]uint8{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}

// DateTime is the broken-down form of an instant, mirroring the chip's
// seven timekeeping registers. Only 24-hour mode is supported.
//
// Weekday is always derived from the date: FromEpoch fills it in, and
// Device.SetDateTime recomputes it before writing, so a stale value can
// never desynchronize from the date fields.
type DateTime struct {
	Year    uint16 // full year, 2000 through 2099
	Month   uint8  // 1 through 12
	Day     uint8  // day of month, 1 through 31
	Hour    uint8  // 0 through 23
	Minute  uint8  // 0 through 59
	Second  uint8  // 0 through 59
	Weekday uint8  // 1=Monday through 7=Sunday, derived from the date

	// Oscillator reports whether the clock oscillator should run (EOSC).
	// It rides along with the calendar fields because the chip exposes it
	// through the same set/read cycle, but it plays no part in the
	// conversion math.
	Oscillator bool
}

// Validate checks every calendar field against its legal range, including
// the month- and leap-aware day-of-month bound. Weekday is not checked:
// it is derived state, never input truth.
func (dt DateTime) Validate() error {
	if dt.Year < 2000 || dt.Year > 2099 {
		return ErrOutOfRange
	}
	if dt.Month < 1 || dt.Month > 12 {
		return ErrOutOfRange
	}
	if dt.Day < 1 || dt.Day > DaysInMonth(dt.Month, dt.Year) {
		return ErrOutOfRange
	}
	if dt.Hour > 23 || dt.Minute > 59 || dt.Second > 59 {
		return ErrOutOfRange
	}
	return nil
}

// DaysInMonth returns the length of the given month, with February
// extended to 29 days in leap years.
func DaysInMonth(month uint8, year uint16) uint8 {
	if month == 2 && isLeap(year) {
		return 29
	}
	return monthDays[month-1]
}

func isLeap(year uint16) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Epoch converts dt to seconds since 2000-01-01T00:00:00. It rejects any
// value Validate rejects; it never clamps or wraps.
func (dt DateTime) Epoch() (EpochSeconds, error) {
	if err := dt.Validate(); err != nil {
		return 0, err
	}

	y := uint32(dt.Year - 2000)
	days := uint32(dt.Day - 1)
	for m := uint8(1); m < dt.Month; m++ {
		days += uint32(monthDays[m-1])
	}
	// the leap day shifts everything after February in a leap year;
	// within 2000-2099 the plain mod-4 rule is exact
	if dt.Month > 2 && y%4 == 0 {
		days++
	}
	// whole years before this one, plus one leap day per elapsed
	// multiple of four (year 0 = 2000 is itself a leap year, handled above)
	days += 365*y + (y+3)/4

	s := ((days*24+uint32(dt.Hour))*60+uint32(dt.Minute))*60 + uint32(dt.Second)
	return EpochSeconds(s), nil
}

// FromEpoch converts a second count back to broken-down form, filling in
// the weekday. Every input maps to some valid calendar date, so there is
// no error case; callers writing the result to the device are bound by
// the chip's 2099 ceiling.
func FromEpoch(e EpochSeconds) DateTime {
	days := uint32(e) / 86400
	rem := uint32(e) % 86400

	year := uint16(2000)
	for {
		yd := uint32(365)
		if isLeap(year) {
			yd = 366
		}
		if days < yd {
			break
		}
		days -= yd
		year++
	}

	// consume the remaining days month by month; landing exactly on a
	// month's length means the last day of that month, not day 0 of the next
	d := days + 1
	month := uint8(1)
	for d > uint32(DaysInMonth(month, year)) {
		d -= uint32(DaysInMonth(month, year))
		month++
	}

	dt := DateTime{
		Year:   year,
		Month:  month,
		Day:    uint8(d),
		Hour:   uint8(rem / 3600),
		Minute: uint8(rem % 3600 / 60),
		Second: uint8(rem % 60),
	}
	dt.Weekday = DayOfWeek(year, month, dt.Day)
	return dt
}

// DayOfWeek computes the weekday of a date using the Gauss congruence,
// returning 1=Monday through 7=Sunday.
func DayOfWeek(year uint16, month, day uint8) uint8 {
	y := uint32(year)
	if month < 3 {
		y--
	}
	wd := (y + y/4 - y/100 + y/400 + uint32(weekdayOffset[month-1]) + uint32(day)) % 7
	if wd == 0 {
		return Sunday
	}
	return uint8(wd)
}

// Unix converts dt to seconds since the Unix epoch.
func (dt DateTime) Unix() (int64, error) {
	e, err := dt.Epoch()
	if err != nil {
		return 0, err
	}
	return int64(e) + UnixEpochOffset, nil
}

// FromUnix converts seconds since the Unix epoch to broken-down form.
// Instants before 2000-01-01 are not representable and return
// ErrOutOfRange.
func FromUnix(sec int64) (DateTime, error) {
	if sec < UnixEpochOffset || sec-UnixEpochOffset > int64(^EpochSeconds(0)) {
		return DateTime{}, ErrOutOfRange
	}
	return FromEpoch(EpochSeconds(sec - UnixEpochOffset)), nil
}

// Time converts dt to a time.Time in UTC. This is a convenience for code
// living in host-time land; the conversion engine itself never consults
// the time package.
func (dt DateTime) Time() time.Time {
	return time.Date(int(dt.Year), time.Month(dt.Month), int(dt.Day),
		int(dt.Hour), int(dt.Minute), int(dt.Second), 0, time.UTC)
}

// FromTime converts a time.Time to broken-down form, interpreting it in
// UTC. The result may fail Validate if t is outside the chip's range.
func FromTime(t time.Time) DateTime {
	t = t.UTC()
	dt := DateTime{
		Year:       uint16(t.Year()),
		Month:      uint8(t.Month()),
		Day:        uint8(t.Day()),
		Hour:       uint8(t.Hour()),
		Minute:     uint8(t.Minute()),
		Second:     uint8(t.Second()),
		Oscillator: true,
	}
	dt.Weekday = DayOfWeek(dt.Year, dt.Month, dt.Day)
	return dt
}
