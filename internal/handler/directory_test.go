package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygame/football/internal/core"
	"mygame/football/internal/dao"
	"mygame/football/internal/ticket"
)

func TestDirectoryFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	dir, err := dao.InitRedis(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { dir.Close() })

	rooms := core.NewManager(core.Options{Directory: dir}, ticket.NewIssuer("secret", time.Minute), time.Minute)
	t.Cleanup(rooms.Shutdown)
	a := &apiClient{t: t, router: NewRouter(rooms, dir, gin.TestMode), rooms: rooms}

	code, _ := a.create(map[string]interface{}{"password": "pw"})
	// another instance advertising into the same directory
	mr.HSet("room:REMOTE", "phase", "running", "score", "2-1")
	mr.SAdd("rooms:available", "REMOTE")

	status, body := a.do(http.MethodGet, "/api/directory", "", nil)
	require.Equal(t, http.StatusOK, status)
	listed := map[string]string{}
	for _, r := range body["rooms"].([]interface{}) {
		entry := r.(map[string]interface{})
		listed[entry["code"].(string)] = entry["phase"].(string)
	}
	assert.Equal(t, map[string]string{code: "lobby", "REMOTE": "running"}, listed)

	status, body = a.do(http.MethodGet, "/api/directory/REMOTE", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2-1", body["score"])

	status, _ = a.do(http.MethodGet, "/api/directory/NOPE00", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	mr.Close()
	status, _ = a.do(http.MethodGet, "/api/directory", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestDirectoryFallsBackToLocalRooms(t *testing.T) {
	a := newAPI(t)
	code, _ := a.create(map[string]interface{}{"password": "pw"})

	status, body := a.do(http.MethodGet, "/api/directory", "", nil)
	require.Equal(t, http.StatusOK, status)
	list := body["rooms"].([]interface{})
	require.Len(t, list, 1)
	entry := list[0].(map[string]interface{})
	assert.Equal(t, code, entry["code"])
	assert.Equal(t, "1", entry["locked"])
	assert.Equal(t, "0-0", entry["score"])

	status, body = a.do(http.MethodGet, "/api/directory/"+code, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "lobby", body["phase"])
}
