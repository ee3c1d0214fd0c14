package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/px4-agent-org/px4-agent/pkg/api/dto"
	"github.com/px4-agent-org/px4-agent/pkg/session"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// SessionHandler handles session-related requests.
type SessionHandler struct {
	svc         *session.Service
	defaultMode types.SessionMode
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *session.Service, defaultMode types.SessionMode) *SessionHandler {
	return &SessionHandler{svc: svc, defaultMode: defaultMode}
}

// Create godoc
// @Summary      Create a new session
// @Description  Start a new planning session in mission or command mode
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateSessionRequest false "Session request"
// @Success      201 {object} dto.SessionResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/v1/session [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Empty body means defaults.
		req = dto.CreateSessionRequest{}
	}

	mode := h.defaultMode
	switch req.Mode {
	case "":
	case string(types.ModeMission):
		mode = types.ModeMission
	case string(types.ModeCommand):
		mode = types.ModeCommand
	default:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "mode must be mission or command"})
		return
	}

	sess, err := h.svc.Create(mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(sess))
}

// List godoc
// @Summary      List all sessions
// @Description  Returns a list of all sessions
// @Tags         session
// @Produce      json
// @Success      200 {object} dto.SessionListResponse
// @Router       /api/v1/session [get]
func (h *SessionHandler) List(c *gin.Context) {
	sessions := h.svc.List()

	resp := dto.SessionListResponse{
		Sessions: make([]dto.SessionResponse, 0, len(sessions)),
	}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, sessionResponse(sess))
	}

	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get session details
// @Description  Retrieve the mode and approval state of a session
// @Tags         session
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SessionResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/v1/session/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// Delete godoc
// @Summary      Delete a session
// @Description  Delete a session; an unapproved mission is discarded
// @Tags         session
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.DeleteResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/v1/session/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{Deleted: true})
}

// Message godoc
// @Summary      Send a message to a session
// @Description  Run the planning loop for one operator message and return the reply with the mission state
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.MessageRequest true "Message request"
// @Success      200 {object} dto.TurnResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/v1/session/{id}/message [post]
func (h *SessionHandler) Message(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	turn, err := sess.Message(c.Request.Context(), req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.TurnResponse{
		Reply:   turn.Reply,
		Mission: turn.Mission,
		State:   string(turn.State),
		Summary: turn.Summary,
	})
}

// MessageStream godoc
// @Summary      Send a message and stream the turn
// @Description  Run the planning loop for one operator message, streaming assistant text and tool outcomes as server-sent events; the final event carries the full turn
// @Tags         session
// @Accept       json
// @Produce      text/event-stream
// @Param        id path string true "Session ID"
// @Param        request body dto.MessageRequest true "Message request"
// @Success      200 {string} string "SSE stream"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/v1/session/{id}/message/stream [post]
func (h *SessionHandler) MessageStream(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	turn, err := sess.MessageStream(c.Request.Context(), req.Content, func(evt session.StreamEvent) {
		writeEvent(c, evt.Type, evt)
	})
	if err != nil {
		writeEvent(c, "error", dto.ErrorResponse{Error: err.Error()})
		return
	}

	writeEvent(c, "turn", dto.TurnResponse{
		Reply:   turn.Reply,
		Mission: turn.Mission,
		State:   string(turn.State),
		Summary: turn.Summary,
	})
}

// writeEvent emits one SSE frame and flushes it so clients see events as
// they happen rather than on turn completion.
func writeEvent(c *gin.Context, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
	c.Writer.(http.Flusher).Flush()
}

func (h *SessionHandler) lookup(c *gin.Context) (*session.Session, bool) {
	sess, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "session not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return sess, true
}

func sessionResponse(sess *session.Session) dto.SessionResponse {
	return dto.SessionResponse{
		ID:        sess.ID,
		Mode:      string(sess.Mode),
		State:     string(sess.State()),
		CreatedAt: sess.CreatedAt,
	}
}
