package telephony

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// VoiceForm captures the subset of voice webhook fields we care about. The
// provider sends application/x-www-form-urlencoded by default.
//
// Provider-adapter-only: no dialogue decisions are made here.
type VoiceForm struct {
	CallSid      string
	From         string
	To           string
	SpeechResult string
	Digits       string
	CallStatus   string

	// CallDuration arrives only on status callbacks, in whole seconds.
	CallDuration int

	// IdempotencyToken is the provider's per-delivery token, repeated
	// verbatim when a delivery is retried.
	IdempotencyToken string
}

var ErrMissingCallSid = errors.New("telephony: CallSid is required")

func ParseVoiceForm(r *http.Request) (VoiceForm, error) {
	if err := r.ParseForm(); err != nil {
		return VoiceForm{}, err
	}
	f := VoiceForm{
		CallSid:      strings.TrimSpace(r.PostFormValue("CallSid")),
		From:         strings.TrimSpace(r.PostFormValue("From")),
		To:           strings.TrimSpace(r.PostFormValue("To")),
		SpeechResult: strings.TrimSpace(r.PostFormValue("SpeechResult")),
		Digits:       strings.TrimSpace(r.PostFormValue("Digits")),
		CallStatus:   strings.TrimSpace(r.PostFormValue("CallStatus")),

		IdempotencyToken: strings.TrimSpace(r.Header.Get("I-Twilio-Idempotency-Token")),
	}
	if f.CallSid == "" {
		return VoiceForm{}, ErrMissingCallSid
	}
	if d := r.PostFormValue("CallDuration"); d != "" {
		f.CallDuration, _ = strconv.Atoi(d)
	}
	return f, nil
}
