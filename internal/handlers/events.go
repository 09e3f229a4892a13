package handlers

import (
	"net/http"
	"time"

	"rotarykeypad/internal/models"
	"rotarykeypad/internal/service"

	"github.com/gin-gonic/gin"
)

// Accepted layouts for the from/to query parameters, tried in order.
var queryTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// @Summary Dial event history
// @Description Decoder events (digits, noise, hook transitions) with optional filters.
// @Tags dial
// @Security ApiKeyAuth
// @Produce json
// @Param from query string false "start of range (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "end of range (RFC3339 or YYYY-MM-DD)"
// @Param type query string false "event type, e.g. DIGIT"
// @Success 200 {array} models.DialEvent
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/dial/events [get]
func (h *Handler) getEvents(c *gin.Context) {
	var filter service.EventFilter

	from, ok := h.parseQueryTime(c, "from", false)
	if !ok {
		return
	}
	to, ok := h.parseQueryTime(c, "to", true)
	if !ok {
		return
	}
	filter.From = from
	filter.To = to
	filter.Type = c.Query("type")

	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "list dial events", err)
		return
	}
	if events == nil {
		events = []models.DialEvent{}
	}
	c.JSON(http.StatusOK, events)
}

// parseQueryTime parses an optional time query parameter. A date-only
// "to" bound is pushed to the end of that day so the whole day is
// included in the range.
func (h *Handler) parseQueryTime(c *gin.Context, name string, endOfDay bool) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range queryTimeLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if endOfDay && layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
	return time.Time{}, false
}
