package ion

import (
	"fmt"
	"strings"
	"time"
)

// TimestampPrecision tracks how much of a Timestamp's calendar value was
// actually present on the wire: a value known only to the month differs
// from one known to the second, even if their Go time.Time happen to
// coincide.
type TimestampPrecision uint8

const (
	NoPrecision TimestampPrecision = iota
	Year
	Month
	Day
	Minute
	Second
	Nanosecond
)

func (tp TimestampPrecision) String() string {
	switch tp {
	case Year:
		return "Year"
	case Month:
		return "Month"
	case Day:
		return "Day"
	case Minute:
		return "Minute"
	case Second:
		return "Second"
	case Nanosecond:
		return "Nanosecond"
	default:
		return "<no precision>"
	}
}

// TimezoneKind distinguishes the three ways a Timestamp's UTC offset can be
// observed on the wire: unknown (VarInt -0), UTC (offset 0), or a concrete
// local offset.
type TimezoneKind uint8

const (
	// Unspecified marks a timestamp whose local offset is unknown — the
	// wire's negative-zero VarInt offset — or one too coarse to carry an
	// offset at all (Year/Month/Day precision).
	Unspecified TimezoneKind = iota
	// UTC marks an explicit, known offset of zero.
	UTC
	// Local marks a known, non-zero offset.
	Local
)

// Timestamp is an Ion timestamp: a calendar value with recoverable precision
// and a UTC offset that may itself be unknown.
type Timestamp struct {
	DateTime             time.Time
	precision            TimestampPrecision
	kind                 TimezoneKind
	numFractionalSeconds uint8
}

// NewSimpleTimestamp builds a Timestamp with Year/Month/Day precision, which
// never carries timezone information. Calendar fields finer than the
// precision are dropped: the result is midnight UTC on January 1 (Year), on
// the first of the month (Month), or on the given day (Day).
func NewSimpleTimestamp(dateTime time.Time, precision TimestampPrecision) Timestamp {
	y, m, d := dateTime.Date()
	switch precision {
	case Year:
		dateTime = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	case Month:
		dateTime = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case Day:
		dateTime = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return Timestamp{dateTime, precision, Unspecified, 0}
}

// NewTimestamp builds a Timestamp at Minute or finer precision with an
// explicit timezone kind.
func NewTimestamp(dateTime time.Time, precision TimestampPrecision, kind TimezoneKind) Timestamp {
	if precision <= Day {
		kind = Unspecified
	}
	return Timestamp{dateTime, precision, kind, 0}
}

// NewTimestampWithFractionalSeconds builds a Timestamp at the given
// precision, recording how many fractional-second digits were significant
// on the wire (so re-encoding at Nanosecond precision reproduces the same
// exponent).
func NewTimestampWithFractionalSeconds(dateTime time.Time, precision TimestampPrecision, kind TimezoneKind, fractionDigits uint8) Timestamp {
	if fractionDigits > 9 {
		fractionDigits = 9
	}
	return Timestamp{dateTime, precision, kind, fractionDigits}
}

// OffsetUnknown reports whether this timestamp's UTC offset is the "unknown
// local offset" sentinel (the wire's negative-zero VarInt). Year/Month/Day
// precision timestamps never carry an offset and always report true.
func (ts Timestamp) OffsetUnknown() bool {
	return ts.kind == Unspecified
}

// Precision returns the timestamp's recorded precision.
func (ts Timestamp) Precision() TimestampPrecision {
	return ts.precision
}

// FractionDigits returns the number of significant fractional-second digits
// recorded at Nanosecond precision.
func (ts Timestamp) FractionDigits() uint8 {
	return ts.numFractionalSeconds
}

// OffsetMinutes returns the UTC offset in minutes east, valid only when
// OffsetUnknown is false.
func (ts Timestamp) OffsetMinutes() int {
	_, off := ts.DateTime.Zone()
	return off / 60
}

func tryCreateTimestampWithNSecAndOffset(ts []int, nsecs int, offset, sign int64, precision TimestampPrecision, fractionDigits uint8) (Timestamp, error) {
	date := time.Date(ts[0], time.Month(ts[1]), ts[2], ts[3], ts[4], ts[5], nsecs, time.UTC)
	if ts[0] != date.Year() || time.Month(ts[1]) != date.Month() || ts[2] != date.Day() {
		return Timestamp{}, fmt.Errorf("ion: invalid year/month/day combination %d/%d/%d", ts[0], ts[1], ts[2])
	}

	date = date.In(time.FixedZone("", int(offset)*60))

	if precision <= Day {
		return NewSimpleTimestamp(date, precision), nil
	}
	if offset == 0 {
		if sign == -1 {
			return NewTimestampWithFractionalSeconds(date, precision, Unspecified, fractionDigits), nil
		}
		return NewTimestampWithFractionalSeconds(date, precision, UTC, fractionDigits), nil
	}
	return NewTimestampWithFractionalSeconds(date, precision, Local, fractionDigits), nil
}

func tryCreateTimestamp(year, month, day int, precision TimestampPrecision) (Timestamp, error) {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if year != date.Year() || time.Month(month) != date.Month() || day != date.Day() {
		return Timestamp{}, fmt.Errorf("ion: invalid year/month/day combination %d/%d/%d", year, month, day)
	}
	return NewSimpleTimestamp(date, precision), nil
}

func (tp TimestampPrecision) formatString(kind TimezoneKind, fractionDigits uint8) string {
	switch tp {
	case Year:
		return "2006T"
	case Month:
		return "2006-01T"
	case Day:
		return "2006-01-02T"
	case Minute:
		if kind == Unspecified {
			return "2006-01-02T15:04-07:00"
		}
		return "2006-01-02T15:04Z07:00"
	case Second:
		if kind == Unspecified {
			return "2006-01-02T15:04:05-07:00"
		}
		return "2006-01-02T15:04:05Z07:00"
	case Nanosecond:
		layout := "2006-01-02T15:04:05"
		if fractionDigits > 9 {
			fractionDigits = 9
		}
		if fractionDigits > 0 {
			layout += "." + strings.Repeat("9", int(fractionDigits))
		}
		if kind == Unspecified {
			return layout + "-07:00"
		}
		return layout + "Z07:00"
	default:
		return time.RFC3339Nano
	}
}

// Format renders the timestamp using its recorded precision, matching the
// layout Ion text would use for it.
func (ts Timestamp) Format() string {
	return ts.DateTime.Format(ts.precision.formatString(ts.kind, ts.numFractionalSeconds))
}

// Equal reports whether every recorded component — instant, precision,
// timezone kind, and fractional-second digit count — matches.
func (ts Timestamp) Equal(o Timestamp) bool {
	return ts.DateTime.Equal(o.DateTime) &&
		ts.precision == o.precision &&
		ts.kind == o.kind &&
		ts.numFractionalSeconds == o.numFractionalSeconds
}

func (ts Timestamp) Type() Type   { return TimestampType }
func (ts Timestamp) IsNull() bool { return false }
