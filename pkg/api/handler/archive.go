package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/px4-agent-org/px4-agent/pkg/api/dto"
	"github.com/px4-agent-org/px4-agent/pkg/store"
)

// ArchiveHandler serves persisted approved missions.
type ArchiveHandler struct {
	missions store.Store
}

func NewArchiveHandler(missions store.Store) *ArchiveHandler {
	return &ArchiveHandler{missions: missions}
}

// List godoc
// @Summary      List approved missions
// @Description  Returns all persisted approved missions, newest first
// @Tags         archive
// @Produce      json
// @Success      200 {object} dto.RecordListResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/v1/missions [get]
func (h *ArchiveHandler) List(c *gin.Context) {
	records, err := h.missions.ListMissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp := dto.RecordListResponse{
		Missions: make([]dto.RecordResponse, 0, len(records)),
	}
	for i := range records {
		resp.Missions = append(resp.Missions, recordResponse(&records[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one approved mission
// @Description  Returns a persisted approved mission by record ID
// @Tags         archive
// @Produce      json
// @Param        id path string true "Record ID"
// @Success      200 {object} dto.RecordResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/v1/missions/{id} [get]
func (h *ArchiveHandler) Get(c *gin.Context) {
	record, err := h.missions.GetMission(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "mission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, recordResponse(record))
}

func recordResponse(r *store.Record) dto.RecordResponse {
	return dto.RecordResponse{
		ID:         r.ID,
		MissionID:  r.MissionID,
		SessionID:  r.SessionID,
		ApprovedAt: r.ApprovedAt,
		Items:      r.Items,
	}
}
