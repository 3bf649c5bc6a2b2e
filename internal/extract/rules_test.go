package extract

import (
	"context"
	"testing"
	"time"

	"voice-reservations/internal/dialogue"
)

var ruleNow = time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC) // a Thursday

func extractAll(t *testing.T, utterance string) map[dialogue.Field]dialogue.Candidate {
	t.Helper()
	cands, err := (&RuleExtractor{}).Extract(context.Background(), dialogue.ExtractRequest{
		Utterance: utterance,
		Now:       ruleNow,
	})
	if err != nil {
		t.Fatalf("Extract(%q) returned error: %v", utterance, err)
	}
	out := make(map[dialogue.Field]dialogue.Candidate, len(cands))
	for _, c := range cands {
		if _, dup := out[c.Field]; dup {
			t.Fatalf("Extract(%q) returned duplicate candidates for %s", utterance, c.Field)
		}
		out[c.Field] = c
	}
	return out
}

func TestRuleExtractorFullUtterance(t *testing.T) {
	got := extractAll(t, "My name is Sarah, table for 2 tomorrow at 7pm")

	name, ok := got[dialogue.FieldName]
	if !ok || name.Value.Text != "Sarah" {
		t.Fatalf("expected name Sarah, got %+v", got[dialogue.FieldName])
	}
	date, ok := got[dialogue.FieldDate]
	if !ok {
		t.Fatal("expected a date candidate")
	}
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !date.Value.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, date.Value.Date)
	}
	clk, ok := got[dialogue.FieldTime]
	if !ok || clk.Value.Clock.Hour != 19 || clk.Value.Clock.Minute != 0 {
		t.Fatalf("expected time 19:00, got %+v", got[dialogue.FieldTime])
	}
	size, ok := got[dialogue.FieldPartySize]
	if !ok || size.Value.Count != 2 {
		t.Fatalf("expected party size 2, got %+v", got[dialogue.FieldPartySize])
	}
}

func TestRuleExtractorNames(t *testing.T) {
	cases := []struct {
		utterance string
		want      string
	}{
		{"my name is John Smith", "John Smith"},
		{"this is Maria", "Maria"},
		{"I'm David Lee and I'd like a table", "David Lee"},
		{"call me Alex", "Alex"},
		{"James", "James"},
		{"anna lopez", "Anna Lopez"},
	}
	for _, tc := range cases {
		got := extractAll(t, tc.utterance)
		c, ok := got[dialogue.FieldName]
		if !ok {
			t.Fatalf("Extract(%q): expected a name candidate", tc.utterance)
		}
		if c.Value.Text != tc.want {
			t.Fatalf("Extract(%q): expected name %q, got %q", tc.utterance, tc.want, c.Value.Text)
		}
	}
}

func TestRuleExtractorNameNotFromFillerWords(t *testing.T) {
	for _, utterance := range []string{"yes please", "tomorrow evening", "hello there"} {
		got := extractAll(t, utterance)
		if c, ok := got[dialogue.FieldName]; ok {
			t.Fatalf("Extract(%q): unexpected name candidate %q", utterance, c.Value.Text)
		}
	}
}

func TestRuleExtractorDates(t *testing.T) {
	cases := []struct {
		utterance string
		want      time.Time
	}{
		{"tomorrow please", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"today if possible", time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)},
		{"this friday", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"next thursday", time.Date(2024, time.March, 21, 0, 0, 0, 0, time.UTC)},
		{"march 20th works", time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)},
		{"january 5", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := extractAll(t, tc.utterance)
		c, ok := got[dialogue.FieldDate]
		if !ok {
			t.Fatalf("Extract(%q): expected a date candidate", tc.utterance)
		}
		if !c.Value.Date.Equal(tc.want) {
			t.Fatalf("Extract(%q): expected %v, got %v", tc.utterance, tc.want, c.Value.Date)
		}
	}
}

func TestRuleExtractorInvalidCalendarDate(t *testing.T) {
	got := extractAll(t, "february 30th")
	if c, ok := got[dialogue.FieldDate]; ok {
		t.Fatalf("expected no date for february 30th, got %v", c.Value.Date)
	}
}

func TestRuleExtractorTimes(t *testing.T) {
	cases := []struct {
		utterance string
		hour, min int
	}{
		{"at 7pm", 19, 0},
		{"7:30 p.m. please", 19, 30},
		{"at 11 am", 11, 0},
		{"six o'clock in the evening", 18, 0},
		{"half past six in the evening", 18, 30},
		{"around dinner time", 19, 0},
		{"lunch works for us", 13, 0},
		{"at 6", 18, 0},
		{"table for two at 8 tonight", 20, 0},
		{"at 9 in the evening", 21, 0},
		{"at 10 in the morning", 10, 0},
	}
	for _, tc := range cases {
		got := extractAll(t, tc.utterance)
		c, ok := got[dialogue.FieldTime]
		if !ok {
			t.Fatalf("Extract(%q): expected a time candidate", tc.utterance)
		}
		if c.Value.Clock.Hour != tc.hour || c.Value.Clock.Minute != tc.min {
			t.Fatalf("Extract(%q): expected %02d:%02d, got %s", tc.utterance, tc.hour, tc.min, c.Value.Clock)
		}
	}
}

func TestRuleExtractorPartySizes(t *testing.T) {
	cases := []struct {
		utterance string
		want      int
	}{
		{"table for 4", 4},
		{"party of six", 6},
		{"reservation for 2 people", 2},
		{"there will be 8 of us", 8},
		{"3 people", 3},
	}
	for _, tc := range cases {
		got := extractAll(t, tc.utterance)
		c, ok := got[dialogue.FieldPartySize]
		if !ok {
			t.Fatalf("Extract(%q): expected a party size candidate", tc.utterance)
		}
		if c.Value.Count != tc.want {
			t.Fatalf("Extract(%q): expected %d, got %d", tc.utterance, tc.want, c.Value.Count)
		}
	}
}

func TestRuleExtractorSpecialRequests(t *testing.T) {
	got := extractAll(t, "one of us has a nut allergy")
	c, ok := got[dialogue.FieldSpecialRequests]
	if !ok {
		t.Fatal("expected a special requests candidate")
	}
	if c.Value.Text != "one of us has a nut allergy" {
		t.Fatalf("unexpected special request text %q", c.Value.Text)
	}
}

func TestRuleExtractorNothingToFind(t *testing.T) {
	got := extractAll(t, "um, hold on a second")
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %+v", got)
	}
}

func TestRuleExtractorSkipsKnownFields(t *testing.T) {
	cands, err := (&RuleExtractor{}).Extract(context.Background(), dialogue.ExtractRequest{
		Utterance: "my name is Sarah, tomorrow at 7pm",
		Known: map[dialogue.Field]bool{
			dialogue.FieldName: true,
			dialogue.FieldDate: true,
		},
		Now: ruleNow,
	})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	for _, c := range cands {
		if c.Field == dialogue.FieldName || c.Field == dialogue.FieldDate {
			t.Fatalf("candidate produced for already-known field %s", c.Field)
		}
	}
}
