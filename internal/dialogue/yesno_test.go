package dialogue

import "testing"

func TestClassifyYesNo(t *testing.T) {
	cases := []struct {
		utterance string
		want      verdict
	}{
		{"yes", answerYes},
		{"Yes, that's right!", answerYes},
		{"yeah sounds good", answerYes},
		{"perfect", answerYes},
		{"no", answerNo},
		{"Nope.", answerNo},
		{"that's wrong", answerNo},
		{"actually, can we change the time", answerNo},
		// Negative markers win even when a positive word appears.
		{"no, the time is right but the date is wrong", answerNo},
		{"hmm let me think", answerUnknown},
		{"", answerUnknown},
		// "yesterday" must not read as yes.
		{"yesterday", answerUnknown},
	}
	for _, tc := range cases {
		if got := classifyYesNo(tc.utterance); got != tc.want {
			t.Fatalf("classifyYesNo(%q) = %v, want %v", tc.utterance, got, tc.want)
		}
	}
}

func TestDisputedFields(t *testing.T) {
	cases := []struct {
		utterance string
		want      []Field
	}{
		{"no, the name is wrong", []Field{FieldName}},
		{"wrong date", []Field{FieldDate}},
		{"no the time isn't right", []Field{FieldTime}},
		{"the party size is off", []Field{FieldPartySize}},
		{"the date and time are both wrong", []Field{FieldDate, FieldTime}},
		{"no", nil},
	}
	for _, tc := range cases {
		got := disputedFields(tc.utterance)
		if len(got) != len(tc.want) {
			t.Fatalf("disputedFields(%q) = %v, want %v", tc.utterance, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("disputedFields(%q) = %v, want %v", tc.utterance, got, tc.want)
			}
		}
	}
}
