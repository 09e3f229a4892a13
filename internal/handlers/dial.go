package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Current decoder state
// @Description Latest persisted snapshot of the pulse decoder.
// @Tags dial
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.DialState
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/dial/state [get]
func (h *Handler) getState(c *gin.Context) {
	state, err := h.services.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "load dial state", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type testKeyInput struct {
	Digit *int `json:"digit" binding:"required"`
}

// @Summary Send a test keystroke
// @Description Emits one keypad press/release for the given digit, bypassing the dial.
// @Tags keys
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body testKeyInput true "digit 0-9"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/keys/test [post]
func (h *Handler) testKey(c *gin.Context) {
	var input testKeyInput
	if !h.bindJSONOrBadRequest(c, &input) {
		return
	}
	if *input.Digit < 0 || *input.Digit > 9 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "digit must be between 0 and 9"})
		return
	}
	if err := h.services.SendTest(*input.Digit); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "send test keystroke", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (h *Handler) logAndJSONError(c *gin.Context, status int, action string, err error) {
	h.log.Errorf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, action, err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) bindJSONOrBadRequest(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
