package telephony

import (
	"strings"
	"testing"

	"voice-reservations/internal/dialogue"
)

func TestRenderReplyGather(t *testing.T) {
	xml, err := RenderReply(dialogue.Reply{Say: "What time would you prefer?"}, "/voice/gather")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{
		`<Gather input="speech" action="/voice/gather" method="POST" speechTimeout="auto">`,
		"<Say>What time would you prefer?</Say>",
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("expected %q in xml:\n%s", want, xml)
		}
	}
	if strings.Contains(xml, "<Hangup") {
		t.Fatalf("mid-call reply must not hang up:\n%s", xml)
	}
}

func TestRenderReplyTerminal(t *testing.T) {
	xml, err := RenderReply(dialogue.Reply{Say: "Goodbye!", EndCall: true}, "/voice/gather")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, "<Say>Goodbye!</Say>") || !strings.Contains(xml, "<Hangup") {
		t.Fatalf("expected say then hangup:\n%s", xml)
	}
	if strings.Contains(xml, "<Gather") {
		t.Fatalf("terminal reply must not gather:\n%s", xml)
	}
}

func TestRenderReplyEscapesText(t *testing.T) {
	xml, err := RenderReply(dialogue.Reply{Say: `a & b <seven>`, EndCall: true}, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, "a &amp; b &lt;seven&gt;") {
		t.Fatalf("expected escaped text:\n%s", xml)
	}
}

func TestRenderReplyRequiresText(t *testing.T) {
	if _, err := RenderReply(dialogue.Reply{}, "/voice/gather"); err == nil {
		t.Fatal("expected error for empty reply")
	}
}

func TestRenderReplyRequiresGatherAction(t *testing.T) {
	if _, err := RenderReply(dialogue.Reply{Say: "hi"}, ""); err == nil {
		t.Fatal("expected error for missing gather action")
	}
}

func TestRenderHangup(t *testing.T) {
	xml, err := RenderHangup()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, "<Hangup") {
		t.Fatalf("expected hangup verb:\n%s", xml)
	}
}
