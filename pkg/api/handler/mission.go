package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/px4-agent-org/px4-agent/pkg/api/dto"
	"github.com/px4-agent-org/px4-agent/pkg/approval"
)

// Mission godoc
// @Summary      Get the session's mission
// @Description  Returns the mission snapshot, approval state and text summary
// @Tags         mission
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.MissionResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/v1/session/{id}/mission [get]
func (h *SessionHandler) Mission(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.MissionResponse{
		Mission: sess.Snapshot(),
		State:   string(sess.State()),
		Summary: sess.Summary(),
	})
}

// ClearMission godoc
// @Summary      Clear the session's mission
// @Description  Drop the mission and conversation history; the session returns to building
// @Tags         mission
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.MissionResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/v1/session/{id}/mission [delete]
func (h *SessionHandler) ClearMission(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}
	sess.Clear()
	c.JSON(http.StatusOK, dto.MissionResponse{
		Mission: sess.Snapshot(),
		State:   string(sess.State()),
		Summary: sess.Summary(),
	})
}

// Approve godoc
// @Summary      Approve the mission under review
// @Description  Accept the reviewed mission; it is persisted and the session state becomes approved
// @Tags         mission
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.ApprovalResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/v1/session/{id}/approve [post]
func (h *SessionHandler) Approve(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	record, err := sess.Approve(c.Request.Context())
	if err != nil {
		if errors.Is(err, approval.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ApprovalResponse{
		State:      string(sess.State()),
		RecordID:   record.ID,
		MissionID:  record.MissionID,
		ApprovedAt: record.ApprovedAt,
	})
}

// Reject godoc
// @Summary      Reject the mission under review
// @Description  Send the mission back to building; the feedback reaches the model on the next message
// @Tags         mission
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.RejectRequest true "Rejection feedback"
// @Success      200 {object} dto.MissionResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /api/v1/session/{id}/reject [post]
func (h *SessionHandler) Reject(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "feedback is required"})
		return
	}

	if err := sess.Reject(req.Feedback); err != nil {
		if errors.Is(err, approval.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.MissionResponse{
		Mission: sess.Snapshot(),
		State:   string(sess.State()),
		Summary: sess.Summary(),
	})
}
