package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"

	"voice-reservations/internal/dialogue"
)

// Minimal TwiML builder for a speech dialogue. It intentionally avoids any
// provider SDK dependency; only the verbs the adapter boundary needs exist.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr"`
	Say           twimlSay `xml:"Say"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// RenderReply maps a dialogue reply to TwiML. Mid-call replies speak inside a
// Gather so the next utterance posts back to gatherAction; terminal replies
// speak and hang up.
func RenderReply(reply dialogue.Reply, gatherAction string) (string, error) {
	if reply.Say == "" {
		return "", errors.New("telephony: reply text required")
	}

	var r twimlResponse
	if reply.EndCall {
		r.Verbs = append(r.Verbs, twimlSay{Text: reply.Say}, twimlHangup{})
	} else {
		if gatherAction == "" {
			return "", errors.New("telephony: gather action required")
		}
		r.Verbs = append(r.Verbs, twimlGather{
			Input:         "speech",
			Action:        gatherAction,
			Method:        "POST",
			SpeechTimeout: "auto",
			Say:           twimlSay{Text: reply.Say},
		})
	}
	return encodeTwiML(r)
}

// RenderHangup is the response for status callbacks and unusable requests.
func RenderHangup() (string, error) {
	return encodeTwiML(twimlResponse{Verbs: []any{twimlHangup{}}})
}

func encodeTwiML(r twimlResponse) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
