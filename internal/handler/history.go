package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mygame/football/internal/store"
)

// NewHistoryRouter serves the recorded matches of the history store.
func NewHistoryRouter(st *store.Store, mode string) *gin.Engine {
	if mode == gin.ReleaseMode || mode == gin.TestMode {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), Cors())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/api/history", HandleGetHistory(st))
	return r
}

// HandleGetHistory: GET /api/history?room=CODE&page=1&limit=20
func HandleGetHistory(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		records, err := st.GetHistory(c.Request.Context(), c.Query("room"), page, limit)
		if err != nil {
			log.Error().Err(err).Msg("history query failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
			return
		}

		history := make([]gin.H, 0, len(records))
		for _, r := range records {
			history = append(history, gin.H{
				"match_id":   r.MatchID,
				"room":       r.Room,
				"result":     r.Result,
				"winner":     r.Winner,
				"score_red":  r.ScoreRed,
				"score_blue": r.ScoreBlue,
				"duration":   r.Duration,
				"players":    r.Players,
				"ended_at":   r.EndedAt.Unix(),
			})
		}
		c.JSON(http.StatusOK, gin.H{"history": history})
	}
}
