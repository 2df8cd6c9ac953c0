package fat32

import "time"

// month-length prefix sums (cumulative days before month i), 0-indexed by
// month number. Two tables because FAT dates need to know whether the
// encompassing year is a leap year.
var nonLeapMonthRanges = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
var leapMonthRanges = [13]int{0, 0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}

// isLeapYear intentionally uses the simple year%4==0 rule rather than the
// full Gregorian rule (skip centuries not divisible by 400). This matches
// the behavior of the system being reproduced: it is wrong for 1900/2100/etc,
// but every FAT32 date this package ever encodes or decodes must round-trip
// through this exact rule or cross-implementation byte comparisons will
// disagree on February 29th in century years.
func isLeapYear(year int) bool {
	return year%4 == 0
}

// Date is a decoded FAT32 date: a 7-bit year offset from 1980, 4-bit month
// (1-12), 5-bit day (1-31), packed big-endian-bit-order into a uint16 as
// yyyyyyy mmmm ddddd.
type Date struct {
	Year  int // absolute year, e.g. 2021
	Month int // 1-12
	Day   int // 1-31
}

// EncodeDate packs d into the 16-bit representation FAT32 stores on disk.
func EncodeDate(d Date) uint16 {
	yearField := uint16(d.Year-1980) & 0x7F
	monthField := uint16(d.Month) & 0x0F
	dayField := uint16(d.Day) & 0x1F
	return (yearField << 9) | (monthField << 5) | dayField
}

// DecodeDate unpacks a 16-bit on-disk date field.
func DecodeDate(raw uint16) Date {
	return Date{
		Year:  1980 + int((raw>>9)&0x7F),
		Month: int((raw >> 5) & 0x0F),
		Day:   int(raw & 0x1F),
	}
}

// Time is a decoded FAT32 time-of-day: 5-bit hour, 6-bit minute, 5-bit
// 2-second-resolution second, packed as hhhhh mmmmmm sssss.
type Time struct {
	Hour   int
	Minute int
	Second int // whole seconds; odd values are lost to the 2-second quantum
}

// EncodeTime packs t into the 16-bit representation, rounding Second down to
// the nearest even value (§4.2's simple, non-hi-res encoding).
func EncodeTime(t Time) uint16 {
	hourField := uint16(t.Hour) & 0x1F
	minuteField := uint16(t.Minute) & 0x3F
	secondField := uint16(t.Second/2) & 0x1F
	return (hourField << 11) | (minuteField << 5) | secondField
}

// DecodeTime unpacks a 16-bit on-disk time field into whole seconds.
func DecodeTime(raw uint16) Time {
	return Time{
		Hour:   int((raw >> 11) & 0x1F),
		Minute: int((raw >> 5) & 0x3F),
		Second: int(raw&0x1F) * 2,
	}
}

// TimeWithHiRes splits a time with sub-second precision into the simple
// 16-bit time field plus the separate hi-res byte FAT32 stores alongside
// creation times: tenths of a second, 0-199, where values 100-199 fold the
// odd second back into the tenths byte so the simple field only ever carries
// even seconds.
func TimeWithHiRes(t Time, nanos int) (simple uint16, hiRes uint8) {
	tenths := nanos / 100_000_000
	if t.Second%2 == 1 {
		tenths += 100
	}
	return EncodeTime(Time{Hour: t.Hour, Minute: t.Minute, Second: (t.Second / 2) * 2}), uint8(tenths)
}

const millisPerDay = 24 * 60 * 60 * 1000
const millisPerSecond = 1000

// DateFromEpochMillis converts Unix-epoch milliseconds to a FAT32 Date,
// clamped to FAT32's representable range of 1980-01-01 and later.
func DateFromEpochMillis(epochMillis int64) Date {
	days := epochMillis / millisPerDay
	if epochMillis < 0 && epochMillis%millisPerDay != 0 {
		days--
	}

	year := 1970
	for {
		daysInYear := int64(365)
		if isLeapYear(year) {
			daysInYear = 366
		}
		if days < 0 {
			year--
			daysInYear = 365
			if isLeapYear(year) {
				daysInYear = 366
			}
			days += daysInYear
			continue
		}
		if days < daysInYear {
			break
		}
		days -= daysInYear
		year++
	}

	ranges := nonLeapMonthRanges
	if isLeapYear(year) {
		ranges = leapMonthRanges
	}
	month := 1
	for m := 1; m <= 12; m++ {
		if int(days) < ranges[m] {
			break
		}
		month = m
	}
	day := int(days) - ranges[month] + 1

	if year < 1980 {
		return Date{Year: 1980, Month: 1, Day: 1}
	}
	return Date{Year: year, Month: month, Day: day}
}

// TimeFromEpochMillis extracts the time-of-day component of epochMillis.
func TimeFromEpochMillis(epochMillis int64) Time {
	dayMillis := epochMillis % millisPerDay
	if dayMillis < 0 {
		dayMillis += millisPerDay
	}
	totalSeconds := dayMillis / millisPerSecond
	return Time{
		Hour:   int(totalSeconds / 3600),
		Minute: int((totalSeconds / 60) % 60),
		Second: int(totalSeconds % 60),
	}
}

// epochMillisFromTime converts a time.Time to the epoch-millisecond form the
// two EpochMillis functions above expect; Volume.buildFileEntry uses it to
// derive FAT32 timestamps from a backing entry's time.Time values.
func epochMillisFromTime(t time.Time) int64 {
	return t.UnixMilli()
}
