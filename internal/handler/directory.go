package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mygame/football/internal/core"
)

// RoomCatalog reads the shared room directory every authority instance
// advertises into.
type RoomCatalog interface {
	GetRoom(ctx context.Context, code string) (map[string]string, error)
	GetAllRooms(ctx context.Context) ([]map[string]string, error)
}

// localCatalog answers from this instance's rooms when no shared directory
// is configured.
type localCatalog struct {
	rooms *core.Manager
}

func (l localCatalog) GetRoom(_ context.Context, code string) (map[string]string, error) {
	room := l.rooms.GetRoom(code)
	if room == nil {
		return map[string]string{}, nil
	}
	return directoryEntry(room.Info()), nil
}

func (l localCatalog) GetAllRooms(context.Context) ([]map[string]string, error) {
	var out []map[string]string
	for _, info := range l.rooms.List() {
		out = append(out, directoryEntry(info))
	}
	return out, nil
}

// directoryEntry renders Info the way redis hands the hash back.
func directoryEntry(i core.Info) map[string]string {
	out := map[string]string{"code": i.Code}
	for k, v := range i.Fields() {
		switch v := v.(type) {
		case bool:
			out[k] = "0"
			if v {
				out[k] = "1"
			}
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

// Directory: GET /api/directory
func (a *API) HandleListDirectory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	rooms, err := a.Catalog.GetAllRooms(ctx)
	if err != nil {
		log.Error().Err(err).Msg("directory list failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "directory unavailable"})
		return
	}
	if rooms == nil {
		rooms = []map[string]string{}
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (a *API) HandleGetDirectoryEntry(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	code := c.Param("code")
	entry, err := a.Catalog.GetRoom(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("room", code).Msg("directory lookup failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "directory unavailable"})
		return
	}
	if len(entry) == 0 {
		fail(c, errNoRoom)
		return
	}
	entry["code"] = code
	c.JSON(http.StatusOK, entry)
}
