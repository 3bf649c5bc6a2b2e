package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"voice-reservations/internal/dialogue"
)

// Rule hits are deterministic pattern matches and carry fixed confidences.
// A bare one-or-two-word reply treated as a name is weaker evidence than an
// explicit "my name is" introduction.
const (
	ruleConfidence     = 0.85
	bareNameConfidence = 0.6
)

// RuleExtractor is the deterministic fallback strategy: keyword and pattern
// matching with no external services. Anything it cannot parse yields no
// candidate at all; a wrong guess is worse than re-asking.
type RuleExtractor struct{}

func (RuleExtractor) Extract(_ context.Context, req dialogue.ExtractRequest) ([]dialogue.Candidate, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	text := strings.TrimSpace(req.Utterance)
	if text == "" {
		return nil, nil
	}
	lower := strings.ToLower(text)

	var out []dialogue.Candidate
	if !req.Known[dialogue.FieldName] {
		if name, conf, ok := parseName(text, lower); ok {
			out = append(out, dialogue.Candidate{
				Field:      dialogue.FieldName,
				Value:      dialogue.Value{Text: name},
				Confidence: conf,
			})
		}
	}
	if !req.Known[dialogue.FieldDate] {
		if d, ok := parseRelativeDate(lower, now); ok {
			out = append(out, dialogue.Candidate{
				Field:      dialogue.FieldDate,
				Value:      dialogue.Value{Date: d},
				Confidence: ruleConfidence,
			})
		}
	}
	if !req.Known[dialogue.FieldTime] {
		if c, ok := parseClockPhrase(lower); ok {
			out = append(out, dialogue.Candidate{
				Field:      dialogue.FieldTime,
				Value:      dialogue.Value{Clock: c},
				Confidence: ruleConfidence,
			})
		}
	}
	if !req.Known[dialogue.FieldPartySize] {
		if n, ok := parsePartySize(lower); ok {
			out = append(out, dialogue.Candidate{
				Field:      dialogue.FieldPartySize,
				Value:      dialogue.Value{Count: n},
				Confidence: ruleConfidence,
			})
		}
	}
	if !req.Known[dialogue.FieldSpecialRequests] {
		if hasSpecialRequest(lower) {
			out = append(out, dialogue.Candidate{
				Field:      dialogue.FieldSpecialRequests,
				Value:      dialogue.Value{Text: text},
				Confidence: 0.8,
			})
		}
	}
	return out, nil
}

/* ===================== NAME ===================== */

var nameIntroRe = regexp.MustCompile(`(?i)\b(?:my name is|name is|this is|i am|i'm|call me)[\s,]+([A-Za-z]+)(?:\s+([A-Za-z]+))?`)

// nameStopwords are words that follow an introduced name but are not part of
// it ("I'm James and I'd like...", "this is Sarah calling").
var nameStopwords = map[string]bool{
	"and": true, "for": true, "please": true, "party": true, "table": true,
	"at": true, "on": true, "the": true, "we": true, "i": true, "i'd": true,
	"calling": true, "speaking": true, "here": true, "again": true,
	"booking": true, "tomorrow": true, "today": true, "tonight": true,
}

// nonNameWords keep a bare short reply from being mistaken for a name when
// it clearly answers a different question.
var nonNameWords = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "no": true, "nope": true,
	"okay": true, "ok": true, "sure": true, "hello": true, "hi": true,
	"today": true, "tomorrow": true, "tonight": true, "morning": true,
	"afternoon": true, "evening": true, "night": true, "lunch": true,
	"dinner": true, "breakfast": true, "noon": true, "midday": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"one": true, "two": true, "three": true, "four": true, "five": true,
	"six": true, "seven": true, "eight": true, "nine": true, "ten": true,
	"eleven": true, "twelve": true, "people": true, "reservation": true,
	"book": true, "booking": true, "reserve": true, "thanks": true,
	"thank": true, "please": true, "next": true,
}

func parseName(text, lower string) (string, float64, bool) {
	if m := nameIntroRe.FindStringSubmatch(text); m != nil {
		name := m[1]
		if m[2] != "" && !nameStopwords[strings.ToLower(m[2])] {
			name += " " + m[2]
		}
		return titleCase(name), ruleConfidence, true
	}

	// A reply of one or two plain words with no other signal is most likely
	// the caller answering the name question.
	words := strings.Fields(strings.Trim(lower, " .,!?;:"))
	if len(words) == 0 || len(words) > 2 {
		return "", 0, false
	}
	for _, w := range words {
		if nonNameWords[w] || !isAlpha(w) {
			return "", 0, false
		}
	}
	return titleCase(strings.Join(words, " ")), bareNameConfidence, true
}

// titleCase normalizes a spoken name: "kim cheolsu" -> "Kim Cheolsu".
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}

/* ===================== DATE ===================== */

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
	"sunday": time.Sunday,
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var dayNumberRe = regexp.MustCompile(`(\d{1,2})`)

func parseRelativeDate(lower string, now time.Time) (time.Time, bool) {
	today := dialogue.DateOf(now)

	if strings.Contains(lower, "tomorrow") {
		return today.AddDate(0, 0, 1), true
	}
	if strings.Contains(lower, "today") || strings.Contains(lower, "tonight") {
		return today, true
	}

	for name, wd := range weekdays {
		if !strings.Contains(lower, name) {
			continue
		}
		ahead := int(wd - now.Weekday())
		if strings.Contains(lower, "next "+name) {
			// "next friday" is always in the following week.
			if ahead < 0 {
				ahead += 7
			}
			ahead += 7
		} else if ahead <= 0 {
			ahead += 7
		}
		return today.AddDate(0, 0, ahead), true
	}

	for name, m := range months {
		if !strings.Contains(lower, name) {
			continue
		}
		rest := lower[strings.Index(lower, name)+len(name):]
		dm := dayNumberRe.FindStringSubmatch(rest)
		if dm == nil {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(dm[1])
		if day < 1 || day > 31 {
			return time.Time{}, false
		}
		d := time.Date(now.Year(), m, day, 0, 0, 0, 0, time.UTC)
		if d.Day() != day {
			// Overflowed the month (e.g. February 30).
			return time.Time{}, false
		}
		if d.Before(today) {
			d = d.AddDate(1, 0, 0)
		}
		return d, true
	}

	return time.Time{}, false
}

/* ===================== TIME ===================== */

var (
	meridiemRe = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\b`)
	oclockRe   = regexp.MustCompile(`\b(\d{1,2})\s*o'?clock`)
	halfPastRe = regexp.MustCompile(`\bhalf past (\w+)`)
	atHourRe   = regexp.MustCompile(`\bat (\d{1,2})(?::(\d{2}))?\b`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

func parseClockPhrase(lower string) (dialogue.Clock, bool) {
	if m := meridiemRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour >= 1 && hour <= 12 && minute <= 59 {
			return dialogue.Clock{Hour: to24(hour, m[3] == "p"), Minute: minute}, true
		}
	}

	if m := oclockRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 1 && hour <= 12 {
			return dialogue.Clock{Hour: assumeMeridiem(hour, lower)}, true
		}
	}

	if m := halfPastRe.FindStringSubmatch(lower); m != nil {
		hour, ok := numberWords[m[1]]
		if !ok {
			hour, _ = strconv.Atoi(m[1])
		}
		if hour >= 1 && hour <= 12 {
			return dialogue.Clock{Hour: assumeMeridiem(hour, lower), Minute: 30}, true
		}
	}

	// "at 6", "at 6:30" with no AM/PM marker.
	if m := atHourRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour >= 1 && hour <= 12 && minute <= 59 {
			return dialogue.Clock{Hour: assumeMeridiem(hour, lower), Minute: minute}, true
		}
	}

	// Spelled-out hours need explicit day-part context ("seven in the
	// evening") to avoid eating party sizes ("seven of us").
	if hasMeridiemContext(lower) {
		for word, n := range numberWords {
			if strings.Contains(lower, " "+word+" ") || strings.HasPrefix(lower, word+" ") || strings.HasSuffix(lower, " "+word) {
				return dialogue.Clock{Hour: contextHour(n, lower)}, true
			}
		}
	}

	switch {
	case strings.Contains(lower, "breakfast"):
		return dialogue.Clock{Hour: 9}, true
	case strings.Contains(lower, "lunch"), strings.Contains(lower, "midday"), strings.Contains(lower, "noon"):
		return dialogue.Clock{Hour: 13}, true
	case strings.Contains(lower, "afternoon"):
		return dialogue.Clock{Hour: 15}, true
	case strings.Contains(lower, "dinner"), strings.Contains(lower, "evening"), strings.Contains(lower, "tonight"), strings.Contains(lower, "night"):
		return dialogue.Clock{Hour: 19}, true
	case strings.Contains(lower, "morning"):
		return dialogue.Clock{Hour: 11}, true
	}

	return dialogue.Clock{}, false
}

func to24(hour int, pm bool) int {
	if pm {
		if hour != 12 {
			return hour + 12
		}
		return 12
	}
	if hour == 12 {
		return 0
	}
	return hour
}

// assumeMeridiem resolves an hour with no AM/PM marker. Day-part words in
// the utterance win ("at 8 tonight" is 20:00); with no context at all, 1-6
// are taken as evening and 7-12 as stated. Dinner hours dominate restaurant
// calls.
func assumeMeridiem(hour int, lower string) int {
	if strings.Contains(lower, "morning") || strings.Contains(lower, " am") || strings.Contains(lower, "a.m") {
		return to24(hour, false)
	}
	if pmContext(lower) {
		return to24(hour, true)
	}
	if hour >= 1 && hour <= 6 {
		return hour + 12
	}
	return hour
}

func pmContext(lower string) bool {
	for _, marker := range []string{"pm", "p.m", "evening", "night", "afternoon", "dinner"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func hasMeridiemContext(lower string) bool {
	for _, marker := range []string{"pm", "p.m", "am", "a.m", "evening", "morning", "afternoon", "night"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func contextHour(hour int, lower string) int {
	return to24(hour, pmContext(lower))
}

/* ===================== PARTY SIZE ===================== */

var (
	partyOfRe  = regexp.MustCompile(`\b(?:party|table|reservation|booking)\s+(?:of|for)\s+(\d{1,2}|[a-z]+)\b`)
	peopleRe   = regexp.MustCompile(`\b(\d{1,2}|[a-z]+)\s+(?:people|persons|person|guests|adults)\b`)
	ofUsRe     = regexp.MustCompile(`\b(\d{1,2}|[a-z]+)\s+of\s+us\b`)
	partyRegex = []*regexp.Regexp{partyOfRe, peopleRe, ofUsRe}
)

func parsePartySize(lower string) (int, bool) {
	for _, re := range partyRegex {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			if n >= 1 && n <= 50 {
				return n, true
			}
			continue
		}
		if n, ok := numberWords[m[1]]; ok {
			return n, true
		}
	}
	return 0, false
}

/* ===================== SPECIAL REQUESTS ===================== */

var specialRequestMarkers = []string{
	"allerg", "vegetarian", "vegan", "gluten", "halal", "kosher",
	"wheelchair", "high chair", "highchair", "birthday", "anniversary",
	"window", "celebrat", "quiet table", "stroller",
}

func hasSpecialRequest(lower string) bool {
	for _, m := range specialRequestMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
