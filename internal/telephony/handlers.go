package telephony

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"voice-reservations/internal/dialogue"
	"voice-reservations/pkg/logger"

	"github.com/gin-gonic/gin"
)

// DialogueEngine is the slice of the dialogue engine the webhook needs.
type DialogueEngine interface {
	HandleTurn(ctx context.Context, t dialogue.Turn) (dialogue.Reply, error)
	CallEnded(ctx context.Context, callID string, failed bool, duration time.Duration)
}

// VoiceHandler converts provider voice webhooks to dialogue turns and writes
// TwiML back. Replay, when configured, absorbs provider retries; the same
// delivery always gets the same TwiML.
type VoiceHandler struct {
	Engine    DialogueEngine
	Replay    ReplayCache
	ReplayTTL time.Duration

	// GatherPath is where mid-call Gather verbs post the next utterance.
	GatherPath string

	Now func() time.Time
}

const defaultReplayTTL = 10 * time.Minute

// HandleIncoming answers a new call: the first turn carries no utterance and
// yields the greeting.
func (h VoiceHandler) HandleIncoming(c *gin.Context) {
	h.handleTurn(c, false)
}

// HandleGather receives each speech result after the greeting.
func (h VoiceHandler) HandleGather(c *gin.Context) {
	h.handleTurn(c, true)
}

func (h VoiceHandler) handleTurn(c *gin.Context, withSpeech bool) {
	log := logger.FromGin(c)

	if h.Engine == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "dialogue engine not configured"})
		return
	}

	form, err := ParseVoiceForm(c.Request)
	if err != nil {
		log.Warn("voice webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}

	key := ReplayKey(c.FullPath(), form)
	if twiml, ok := h.replayed(c.Request.Context(), log, key); ok {
		writeTwiML(c, twiml)
		return
	}

	turn := dialogue.Turn{
		CallID:     form.CallSid,
		From:       form.From,
		ReceivedAt: h.now(),
	}
	if withSpeech {
		turn.Utterance = form.SpeechResult
	}

	reply, err := h.Engine.HandleTurn(c.Request.Context(), turn)
	if err != nil {
		log.Error("dialogue turn failed", "call_id", form.CallSid, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "dialogue failed"})
		return
	}

	twiml, err := RenderReply(reply, h.GatherPath)
	if err != nil {
		log.Error("twiml render failed", "call_id", form.CallSid, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml failed"})
		return
	}

	h.remember(c.Request.Context(), log, key, twiml)
	writeTwiML(c, twiml)
}

// HandleStatus receives the provider's call status callbacks and tells the
// engine when the caller hung up or the call failed on the provider side.
func (h VoiceHandler) HandleStatus(c *gin.Context) {
	log := logger.FromGin(c)

	form, err := ParseVoiceForm(c.Request)
	if err != nil {
		log.Warn("status callback parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}

	switch form.CallStatus {
	case "completed", "busy", "no-answer", "canceled", "failed":
		if h.Engine != nil {
			failed := form.CallStatus == "failed"
			h.Engine.CallEnded(c.Request.Context(), form.CallSid, failed, time.Duration(form.CallDuration)*time.Second)
		}
	}
	c.Status(http.StatusNoContent)
}

func (h VoiceHandler) replayed(ctx context.Context, log *slog.Logger, key string) (string, bool) {
	if h.Replay == nil {
		return "", false
	}
	twiml, ok, err := h.Replay.Get(ctx, key)
	if err != nil {
		// Cache trouble must not take the call down.
		log.Warn("replay cache get failed", "err", err)
		return "", false
	}
	return twiml, ok
}

func (h VoiceHandler) remember(ctx context.Context, log *slog.Logger, key, twiml string) {
	if h.Replay == nil {
		return
	}
	ttl := h.ReplayTTL
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	if err := h.Replay.Set(ctx, key, twiml, ttl); err != nil {
		log.Warn("replay cache set failed", "err", err)
	}
}

func (h VoiceHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func writeTwiML(c *gin.Context, twiml string) {
	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, twiml)
}
