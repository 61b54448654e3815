// Package schedule serves completed weeks read-only over HTTP.
package schedule

import (
	"bytes"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/troopsched/core/model"
	"github.com/kilianp07/troopsched/infra/store"
	"github.com/kilianp07/troopsched/pkg/export"
)

var contentTypes = map[export.Format]string{
	export.FormatCSV:  "text/csv",
	export.FormatPDF:  "application/pdf",
	export.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// WeekSummary is one entry of the week listing.
type WeekSummary struct {
	Week       int       `json:"week"`
	RunID      string    `json:"run_id"`
	Score      float64   `json:"score"`
	Unresolved int       `json:"unresolved"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Handler answers viewer requests from the run store.
type Handler struct {
	store store.RunStore
	cat   *model.Catalog
}

// NewRouter builds the viewer routes. Requests must carry
// "Authorization: Bearer <token>" when token is non-empty; /metrics stays
// open.
func NewRouter(st store.RunStore, cat *model.Catalog, token string) *gin.Engine {
	h := &Handler{store: st, cat: cat}
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	weeks := r.Group("/weeks")
	weeks.Use(bearer(token))
	{
		weeks.GET("", h.ListWeeks)
		weeks.GET("/:week", h.GetWeek)
		weeks.GET("/:week/report", h.GetReport)
		weeks.GET("/:week/troops/:troop", h.GetTroop)
		weeks.GET("/:week/areas/:area", h.GetArea)
		weeks.GET("/:week/commissioners/:group", h.GetCommissioner)
	}
	return r
}

func bearer(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader("Authorization")), []byte("Bearer "+token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// ListWeeks returns the latest run of every stored week.
func (h *Handler) ListWeeks(c *gin.Context) {
	weeks, err := store.Weeks(c.Request.Context(), h.store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]WeekSummary, 0, len(weeks))
	for _, w := range weeks {
		rec, ok, err := store.Latest(c.Request.Context(), h.store, w)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if ok {
			out = append(out, summary(rec))
		}
	}
	c.JSON(http.StatusOK, out)
}

// GetWeek returns the latest snapshot of a week. ?format=csv, pdf or xlsx
// selects another rendering.
func (h *Handler) GetWeek(c *gin.Context) {
	rec, ok := h.latest(c)
	if !ok {
		return
	}
	format := export.FormatJSON
	if f := c.Query("format"); f != "" {
		var err error
		if format, err = export.ParseFormat(f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if format == export.FormatJSON {
		c.JSON(http.StatusOK, rec.Snapshot)
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, rec.Snapshot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, contentTypes[format], buf.Bytes())
}

// GetReport returns the run summary and the unscheduled items.
func (h *Handler) GetReport(c *gin.Context) {
	rec, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":         summary(rec),
		"hard_violations": rec.HardViolations,
		"unscheduled":     rec.Snapshot.Unscheduled,
	})
}

// GetTroop returns one troop board.
func (h *Handler) GetTroop(c *gin.Context) {
	rec, ok := h.latest(c)
	if !ok {
		return
	}
	b, err := export.TroopBoard(rec.Snapshot, c.Param("troop"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetArea returns one area board.
func (h *Handler) GetArea(c *gin.Context) {
	rec, ok := h.latest(c)
	if !ok {
		return
	}
	b, err := export.AreaBoard(rec.Snapshot, h.cat, c.Param("area"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetCommissioner returns the week grid of one commissioner group.
func (h *Handler) GetCommissioner(c *gin.Context) {
	rec, ok := h.latest(c)
	if !ok {
		return
	}
	b, err := export.CommissionerBoard(rec.Snapshot, c.Param("group"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) latest(c *gin.Context) (store.RunRecord, bool) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil || week < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must be a positive integer"})
		return store.RunRecord{}, false
	}
	rec, ok, err := store.Latest(c.Request.Context(), h.store, week)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return store.RunRecord{}, false
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "week not scheduled"})
		return store.RunRecord{}, false
	}
	return rec, true
}

func summary(rec store.RunRecord) WeekSummary {
	return WeekSummary{
		Week:       rec.Week,
		RunID:      rec.RunID,
		Score:      rec.Score,
		Unresolved: rec.Unresolved,
		Error:      rec.Error,
		Timestamp:  rec.Timestamp,
	}
}
