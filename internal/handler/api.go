package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mygame/football/internal/core"
	"mygame/football/internal/lobby"
)

const requestTimeout = 5 * time.Second

// API is the HTTP lobby surface in front of the room manager.
type API struct {
	Rooms   *core.Manager
	Catalog RoomCatalog
}

// NewAPI wires the lobby to rooms. A nil catalog lists only this
// instance's rooms.
func NewAPI(rooms *core.Manager, catalog RoomCatalog) *API {
	if catalog == nil {
		catalog = localCatalog{rooms: rooms}
	}
	return &API{Rooms: rooms, Catalog: catalog}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(rooms *core.Manager, catalog RoomCatalog, mode string) *gin.Engine {
	if mode == gin.ReleaseMode || mode == gin.TestMode {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), Cors())
	NewAPI(rooms, catalog).Register(r)
	return r
}

// Cors allows browser clients from any origin.
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (a *API) Register(r gin.IRouter) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/ws", a.Rooms.HandleWebSocket)

	api := r.Group("/api")
	{
		api.POST("/rooms", a.HandleCreateRoom)
		api.GET("/rooms", a.HandleListRooms)
		api.GET("/rooms/:code", a.HandleGetRoom)
		api.POST("/rooms/:code/join", a.HandleJoinRoom)
		api.GET("/directory", a.HandleListDirectory)
		api.GET("/directory/:code", a.HandleGetDirectoryEntry)

		// 房主操作 (需要 host ticket)
		host := api.Group("/rooms/:code")
		host.Use(a.HostOnly())
		{
			host.DELETE("", a.HandleCloseRoom)
			host.POST("/bots", a.HandleAddBot)
			host.DELETE("/bots/:id", a.HandleRemoveBot)
			host.POST("/players/:id/move", a.HandleMovePlayer)
			host.DELETE("/players/:id", a.HandleRemovePlayer)
			host.POST("/start", a.HandleStart)
			host.POST("/lobby", a.HandleReturnToLobby)
		}
	}
}

// HostOnly admits requests carrying the room's host ticket as a bearer
// token and stores the room under "room".
func (a *API) HostOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		claims, err := a.Rooms.Tickets.Parse(raw, code)
		if err != nil || claims.Participant() != lobby.HostID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "host ticket required"})
			return
		}
		room := a.Rooms.GetRoom(code)
		if room == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": errNoRoom.Error()})
			return
		}
		c.Set("room", room)
		c.Next()
	}
}

func fail(c *gin.Context, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func hostRoom(c *gin.Context) *core.Room { return c.MustGet("room").(*core.Room) }

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// Create Room
func (a *API) HandleCreateRoom(c *gin.Context) {
	var req struct {
		DisplayOnly bool   `json:"display_only"`
		Password    string `json:"password"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}

	room, err := a.Rooms.CreateRoom(req.DisplayOnly, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	tk, err := a.Rooms.Tickets.Issue(room.Code, lobby.HostID, "Host")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code":           room.Code,
		"participant_id": lobby.HostID,
		"ticket":         tk,
	})
}

// List Rooms
func (a *API) HandleListRooms(c *gin.Context) {
	infos := a.Rooms.List()
	rooms := make([]map[string]interface{}, 0, len(infos))
	for _, i := range infos {
		rooms = append(rooms, roomView(i))
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (a *API) HandleGetRoom(c *gin.Context) {
	room := a.Rooms.GetRoom(c.Param("code"))
	if room == nil {
		fail(c, errNoRoom)
		return
	}
	c.JSON(http.StatusOK, roomView(room.Info()))
}

// Join Room: checks the password and capacity, then hands out a ticket
// for /ws under a fresh participant id.
func (a *API) HandleJoinRoom(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}
	room := a.Rooms.GetRoom(c.Param("code"))
	if room == nil {
		fail(c, errNoRoom)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	if err := room.Admit(ctx, req.Password); err != nil {
		fail(c, err)
		return
	}

	id := uuid.NewString()
	tk, err := a.Rooms.Tickets.Issue(room.Code, id, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":           room.Code,
		"participant_id": id,
		"ticket":         tk,
	})
}

func (a *API) HandleCloseRoom(c *gin.Context) {
	a.Rooms.RemoveRoom(hostRoom(c).Code)
	c.Status(http.StatusNoContent)
}

func (a *API) HandleAddBot(c *gin.Context) {
	var req struct {
		Team string `json:"team" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team is required"})
		return
	}
	team, ok := parseTeam(req.Team)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team must be red or blue"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	slot, err := hostRoom(c).AddBot(ctx, team)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": slot.ID, "name": slot.Name, "team": team.String()})
}

func (a *API) HandleRemoveBot(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := hostRoom(c).RemoveBot(ctx, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) HandleMovePlayer(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	team, err := hostRoom(c).Move(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "team": team.String()})
}

func (a *API) HandleRemovePlayer(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := hostRoom(c).RemoveParticipant(ctx, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) HandleStart(c *gin.Context) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	room := hostRoom(c)
	if err := room.Start(ctx, req.Minutes); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roomView(room.Info()))
}

func (a *API) HandleReturnToLobby(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	room := hostRoom(c)
	if err := room.ReturnToLobby(ctx); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roomView(room.Info()))
}
