package handler

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"mygame/football/internal/core"
	"mygame/football/internal/lobby"
	"mygame/football/internal/model"
	"mygame/football/internal/ticket"
)

var errNoRoom = errors.New("room not found")

// roomView is the public shape of a room. It only holds values structpb can
// carry so the HTTP and gRPC surfaces share it.
func roomView(i core.Info) map[string]interface{} {
	return map[string]interface{}{
		"code":         i.Code,
		"match_id":     i.MatchID,
		"phase":        i.Phase.String(),
		"red":          slotsView(i.Roster.Red),
		"blue":         slotsView(i.Roster.Blue),
		"score_red":    i.Score.Red,
		"score_blue":   i.Score.Blue,
		"time_left":    i.TimeLeft,
		"result":       i.Result,
		"peers":        i.Peers,
		"locked":       i.Locked,
		"display_only": i.DisplayOnly,
	}
}

func slotsView(slots []model.Slot) []interface{} {
	out := make([]interface{}, 0, len(slots))
	for _, s := range slots {
		out = append(out, map[string]interface{}{"id": s.ID, "name": s.Name, "bot": s.Bot})
	}
	return out
}

func parseTeam(s string) (model.Team, bool) {
	switch s {
	case "red":
		return model.Red, true
	case "blue":
		return model.Blue, true
	}
	return model.Red, false
}

// httpStatus maps domain errors onto response codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, errNoRoom), errors.Is(err, lobby.ErrNotFound), errors.Is(err, core.ErrClosed):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrWrongPassword), errors.Is(err, ticket.ErrInvalid):
		return http.StatusForbidden
	case errors.Is(err, lobby.ErrNotBot), errors.Is(err, lobby.ErrBadDuration), errors.Is(err, core.ErrEmptyRoster):
		return http.StatusBadRequest
	case errors.Is(err, lobby.ErrTeamFull), errors.Is(err, lobby.ErrRoomFull), errors.Is(err, lobby.ErrDuplicate),
		errors.Is(err, core.ErrStarted), errors.Is(err, core.ErrNotEnded), errors.Is(err, core.ErrConnected):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func grpcCode(err error) codes.Code {
	switch httpStatus(err) {
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusConflict:
		return codes.FailedPrecondition
	}
	return codes.Internal
}
