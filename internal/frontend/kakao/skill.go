// Package kakao serves the chatbot skill webhook: one POST per utterance,
// answered with a single simpleText bubble.
package kakao

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// AnonymousUser is the id used when a payload carries no user id.
const AnonymousUser = "anonymous"

// TurnHandler runs one chat turn and returns the reply text.
type TurnHandler interface {
	Handle(ctx context.Context, uid, text string) string
}

// SkillRequest is the subset of the skill payload the game reads.
type SkillRequest struct {
	UserRequest struct {
		Utterance string `json:"utterance"`
		User      struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"userRequest"`
}

// SkillResponse is a version 2.0 response holding simpleText outputs.
type SkillResponse struct {
	Version  string   `json:"version"`
	Template Template `json:"template"`
}

// Template holds the response outputs.
type Template struct {
	Outputs []Output `json:"outputs"`
}

// Output is one response bubble.
type Output struct {
	SimpleText SimpleText `json:"simpleText"`
}

// SimpleText is a plain text bubble.
type SimpleText struct {
	Text string `json:"text"`
}

// TextResponse wraps text in a single-bubble response.
func TextResponse(text string) SkillResponse {
	return SkillResponse{
		Version:  "2.0",
		Template: Template{Outputs: []Output{{SimpleText: SimpleText{Text: text}}}},
	}
}

// SkillHandler answers skill webhooks.
type SkillHandler struct {
	turns  TurnHandler
	logger *zap.Logger
}

// NewSkillHandler creates a SkillHandler.
//
// Precondition: turns and logger must be non-nil.
func NewSkillHandler(turns TurnHandler, logger *zap.Logger) *SkillHandler {
	return &SkillHandler{turns: turns, logger: logger}
}

// ServeHTTP decodes the payload, runs the turn and writes the reply. A body
// that is not a skill payload is treated as an empty utterance, which yields
// an empty reply.
func (h *SkillHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SkillRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		h.logger.Warn("undecodable skill payload",
			zap.Error(err),
			zap.String("request_id", GetRequestID(r.Context())),
		)
	}
	uid := req.UserRequest.User.ID
	if uid == "" {
		uid = AnonymousUser
	}

	reply := ""
	if req.UserRequest.Utterance != "" {
		reply = h.turns.Handle(r.Context(), uid, req.UserRequest.Utterance)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(TextResponse(reply)); err != nil {
		h.logger.Error("writing skill response", zap.Error(err))
	}
}
