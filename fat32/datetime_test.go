package fat32_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dargueta/fatsynth/fat32"
)

func TestEncodeDecodeDate__RoundTrip(t *testing.T) {
	d := fat32.Date{Year: 2021, Month: 6, Day: 15}
	raw := fat32.EncodeDate(d)
	got := fat32.DecodeDate(raw)
	assert.Equal(t, d, got)
}

func TestEncodeDecodeTime__RoundTrip__EvenSeconds(t *testing.T) {
	tm := fat32.Time{Hour: 13, Minute: 45, Second: 30}
	raw := fat32.EncodeTime(tm)
	got := fat32.DecodeTime(raw)
	assert.Equal(t, tm, got)
}

func TestEncodeTime__OddSecondsRoundDown(t *testing.T) {
	tm := fat32.Time{Hour: 1, Minute: 0, Second: 31}
	raw := fat32.EncodeTime(tm)
	got := fat32.DecodeTime(raw)
	assert.Equal(t, 30, got.Second)
}

func TestDateFromEpochMillis__ClampedToFAT32Epoch(t *testing.T) {
	d := fat32.DateFromEpochMillis(0) // 1970-01-01, before FAT32's epoch
	assert.Equal(t, fat32.Date{Year: 1980, Month: 1, Day: 1}, d)
}

func TestDateFromEpochMillis__LeapYearBugCompatible(t *testing.T) {
	// Years like 2000 or 2004 are leap years under both rules, so they
	// cannot tell the rules apart. 1900 would differ under the real
	// Gregorian rule (not a leap year) versus this package's rule (treated
	// as one, since 1900%4==0) -- but FAT32 can't represent 1900 at all
	// (before 1980), so the divergence is only observable within the
	// representable range at years like 2100, which this case uses.
	d := fat32.DateFromEpochMillis(epochMillisFor(2100, 2, 29))
	assert.Equal(t, fat32.Date{Year: 2100, Month: 2, Day: 29}, d)
}

func TestTimeWithHiRes__OddSecondFoldsIntoTenths(t *testing.T) {
	simple, hiRes := fat32.TimeWithHiRes(fat32.Time{Hour: 0, Minute: 0, Second: 1}, 500_000_000)
	assert.Equal(t, fat32.EncodeTime(fat32.Time{Hour: 0, Minute: 0, Second: 0}), simple)
	assert.EqualValues(t, 105, hiRes) // 5 tenths + 100 for the folded odd second
}

// epochMillisFor builds epoch milliseconds for a UTC calendar date at
// midnight, using the same day-counting approach this package's converters
// use, so test expectations aren't coupled to time.Date's own leap-year
// handling (which is correct Gregorian, not the bug this package preserves).
func epochMillisFor(year, month, day int) int64 {
	days := int64(0)
	if year >= 1970 {
		for y := 1970; y < year; y++ {
			days += daysInYear(y)
		}
	} else {
		for y := year; y < 1970; y++ {
			days -= daysInYear(y)
		}
	}
	ranges := nonLeapRanges
	if isLeapYearForTest(year) {
		ranges = leapRanges
	}
	days += int64(ranges[month]) + int64(day-1)
	return days * 24 * 60 * 60 * 1000
}

var nonLeapRanges = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
var leapRanges = [13]int{0, 0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}

func isLeapYearForTest(year int) bool {
	return year%4 == 0
}

func daysInYear(year int) int64 {
	if isLeapYearForTest(year) {
		return 366
	}
	return 365
}
