package core

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	pb "mygame/football/proto"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleWebSocket attaches a participant holding a join ticket to its room:
// GET /ws?room=CODE&ticket=JWT.
func (m *Manager) HandleWebSocket(c *gin.Context) {
	code := c.Query("room")
	raw := c.Query("ticket")
	if code == "" || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room and ticket required"})
		return
	}

	// 升级连接前校验 ticket
	claims, err := m.Tickets.Parse(raw, code)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid ticket"})
		return
	}
	room := m.GetRoom(code)
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("room", code).Msg("upgrade failed")
		return
	}
	conn := NewConn(ws, claims.Participant())
	defer conn.Close()

	ctx := c.Request.Context()
	if err := room.Enter(ctx, conn, claims.Name); err != nil {
		log.Info().Err(err).Str("room", code).Str("peer", conn.ID()).Msg("join refused")
		conn.CloseWith(websocket.ClosePolicyViolation, err.Error())
		return
	}
	defer room.Exit(conn)

	err = conn.ReadLoop(ctx, func(data []byte) {
		msg, err := pb.Unmarshal(data)
		if err != nil {
			// 畸形输入按空输入处理
			room.Input(conn.ID(), nil)
			return
		}
		if in, ok := msg.(*pb.Input); ok {
			room.Input(conn.ID(), in)
		}
	})
	if err != nil && !errors.Is(err, ctx.Err()) {
		log.Debug().Err(err).Str("room", code).Str("peer", conn.ID()).Msg("connection lost")
	}
}
