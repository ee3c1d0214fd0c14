package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/px4-agent-org/px4-agent/pkg/api/dto"
	"github.com/px4-agent-org/px4-agent/pkg/config"
)

// SettingsHandler exposes the runtime-adjustable defaults. Updates swap in a
// new configuration snapshot; in-flight tool calls keep the one they read.
type SettingsHandler struct {
	cfg *config.Store
}

func NewSettingsHandler(cfg *config.Store) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

// Get godoc
// @Summary      Get current settings
// @Description  Returns the takeoff origin and command-mode action defaults
// @Tags         settings
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /api/v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	cfg := h.cfg.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"takeoff_defaults": cfg.Takeoff,
		"current_action":   cfg.CurrentAction,
		"agent":            cfg.Agent,
	})
}

// UpdateTakeoff godoc
// @Summary      Update takeoff defaults
// @Description  Patch the launch origin; omitted fields are unchanged
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body config.TakeoffPatch true "Fields to change"
// @Success      200 {object} map[string]any
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/v1/settings/takeoff [put]
func (h *SettingsHandler) UpdateTakeoff(c *gin.Context) {
	var patch config.TakeoffPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	next, err := h.cfg.UpdateTakeoffDefaults(patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"takeoff_defaults": next.Takeoff})
}

// UpdateCurrentAction godoc
// @Summary      Update command-mode action defaults
// @Description  Patch the current-action defaults; omitted fields are unchanged
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body config.CurrentActionPatch true "Fields to change"
// @Success      200 {object} map[string]any
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/v1/settings/current_action [put]
func (h *SettingsHandler) UpdateCurrentAction(c *gin.Context) {
	var patch config.CurrentActionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	next, err := h.cfg.UpdateCurrentAction(patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"current_action": next.CurrentAction})
}
