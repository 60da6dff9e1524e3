package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Relative date and time expressions from the extractor are normalised here
// against an injected clock, so "tomorrow" resolves the same way in tests.

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?$`)
	clockRe     = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
)

// NormalizeDate resolves a date expression to "YYYY-MM-DD". Returns "" when
// the expression cannot be resolved.
func NormalizeDate(raw string, now time.Time) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if isoDateRe.MatchString(s) {
		if _, err := time.Parse("2006-01-02", s); err == nil {
			return s
		}
		return ""
	}

	switch s {
	case "today":
		return now.Format("2006-01-02")
	case "tomorrow", "kesho":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	}

	// "friday" or "next friday": the next occurrence of that weekday,
	// never today.
	dayExpr := strings.TrimSpace(strings.TrimPrefix(s, "next "))
	if wd, ok := weekdays[dayExpr]; ok {
		days := (int(wd) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return now.AddDate(0, 0, days).Format("2006-01-02")
	}

	// "25/12" or "25/12/2026" (day first, as written locally).
	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return ""
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
		if d.Day() != day {
			return ""
		}
		if m[3] == "" && d.Before(now.Truncate(24*time.Hour)) {
			d = d.AddDate(1, 0, 0)
		}
		return d.Format("2006-01-02")
	}

	return ""
}

// NormalizeTime resolves a time expression to "HH:MM". Day-part words map to
// fixed representative times. Returns "" when unresolvable.
func NormalizeTime(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	switch s {
	case "morning", "in the morning", "asubuhi":
		return "09:00"
	case "midday", "noon", "lunchtime":
		return "12:00"
	case "afternoon", "in the afternoon", "mchana":
		return "14:00"
	case "evening", "in the evening", "jioni", "tonight":
		return "18:00"
	}

	s = strings.ReplaceAll(s, ".", ":")
	if m := clockRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
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
		if hour > 23 || minute > 59 {
			return ""
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	return ""
}
