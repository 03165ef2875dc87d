package timeutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PickupDuration is the fixed length of a pickup slot on the calendar.
const PickupDuration = time.Hour

// informalRewrites maps common misspellings and shorthand to canonical words
// before relative-date matching runs.
var informalRewrites = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`\b(tomm?orr?ow|tommorow|tomorow|tmrw|tmr|2morrow|2moro)\b`), "tomorrow"},
	{regexp.MustCompile(`\b(2day|tody|todai)\b`), "today"},
}

var timeOfDayRE = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

// dateWithYearLayouts parse the phrase with the current calendar year appended.
var dateWithYearLayouts = []string{
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"01/02 2006",
	"1/2 2006",
}

// dateAsIsLayouts parse the phrase on its own; the result is accepted only
// when its year is not in the past.
var dateAsIsLayouts = []string{
	"2006-01-02",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"January 2, 2006",
	"01/02/2006",
	"2006/01/02",
	"1/2/2006",
	"2006",
}

// NormalizePickupTime converts a loosely specified date phrase and time phrase
// into a concrete instant in now's location. It never fails: input that no
// rule can interpret degrades to one hour from now, truncated to the top of
// that hour.
func NormalizePickupTime(datePhrase, timePhrase string, now time.Time) time.Time {
	day, ok := normalizeDate(datePhrase, now)
	if !ok {
		return safeDefault(now)
	}
	return applyTimeOfDay(day, timePhrase)
}

// PickupWindow returns the normalized start instant plus a fixed one-hour end.
func PickupWindow(datePhrase, timePhrase string, now time.Time) (time.Time, time.Time) {
	start := NormalizePickupTime(datePhrase, timePhrase, now)
	return start, start.Add(PickupDuration)
}

func normalizeDate(phrase string, now time.Time) (time.Time, bool) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" || phrase == "not specified" {
		return today, true
	}
	for _, rw := range informalRewrites {
		phrase = rw.re.ReplaceAllString(phrase, rw.canonical)
	}

	if strings.Contains(phrase, "today") {
		return today, true
	}
	if strings.Contains(phrase, "tomorrow") {
		return today.AddDate(0, 0, 1), true
	}

	// Bare integers read as years. Shorthand like "22" lands in the distant
	// past; stale years fall back to today rather than the safe default.
	if year, err := strconv.Atoi(phrase); err == nil {
		if year < now.Year() {
			return today, true
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, loc), true
	}

	withYear := phrase + " " + strconv.Itoa(now.Year())
	for _, layout := range dateWithYearLayouts {
		if t, err := time.ParseInLocation(layout, withYear, loc); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
		}
	}

	for _, layout := range dateAsIsLayouts {
		t, err := time.ParseInLocation(layout, phrase, loc)
		if err != nil {
			continue
		}
		// Dated phrases in a past year fall back to today, same as bare
		// stale years above.
		if t.Year() < now.Year() {
			return today, true
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
	}

	return time.Time{}, false
}

// applyTimeOfDay overlays a parsed H[:MM][am|pm] phrase onto the given day.
// When nothing parses the day is returned unchanged (midnight for a freshly
// normalized date).
func applyTimeOfDay(day time.Time, phrase string) time.Time {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" || phrase == "not specified" {
		return day
	}

	m := timeOfDayRE.FindStringSubmatch(phrase)
	if m == nil {
		return day
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return day
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return day
		}
	}

	switch m[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 {
		return day
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func safeDefault(now time.Time) time.Time {
	t := now.Add(time.Hour)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}
