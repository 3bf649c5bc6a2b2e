package dialogue

import "strings"

type verdict int

const (
	answerUnknown verdict = iota
	answerYes
	answerNo
)

var noMarkers = []string{
	"no", "nope", "nah", "wrong", "incorrect", "not right", "not correct",
	"mistake", "change", "actually",
}

var yesMarkers = []string{
	"yes", "yeah", "yep", "yup", "correct", "right", "sure", "confirm",
	"ok", "okay", "perfect", "exactly", "absolutely", "sounds good",
	"that's it",
}

var punctReplacer = strings.NewReplacer(",", " ", ".", " ", "!", " ", "?", " ", ";", " ", ":", " ")

// classifyYesNo is a minimal keyword classifier for the confirmation step.
// Negative markers win over positive ones so "no, the time is right but the
// date is wrong" counts as a disconfirmation.
func classifyYesNo(utterance string) verdict {
	text := " " + punctReplacer.Replace(strings.ToLower(utterance)) + " "
	for _, m := range noMarkers {
		if strings.Contains(text, " "+m+" ") {
			return answerNo
		}
	}
	for _, m := range yesMarkers {
		if strings.Contains(text, " "+m+" ") {
			return answerYes
		}
	}
	return answerUnknown
}

// disputedFields guesses which fields the caller is rejecting. An empty
// result means no specific field was named and the policy default applies.
func disputedFields(utterance string) []Field {
	text := strings.ToLower(utterance)
	var out []Field
	if strings.Contains(text, "name") {
		out = append(out, FieldName)
	}
	if strings.Contains(text, "date") || strings.Contains(text, "day") {
		out = append(out, FieldDate)
	}
	if strings.Contains(text, "time") || strings.Contains(text, "hour") || strings.Contains(text, "clock") {
		out = append(out, FieldTime)
	}
	if strings.Contains(text, "people") || strings.Contains(text, "party") || strings.Contains(text, "size") {
		out = append(out, FieldPartySize)
	}
	return out
}
