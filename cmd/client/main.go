// Command client is a headless participant: it joins (or creates) a room
// through the lobby API, mirrors the match over /ws and chases the ball.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"mygame/football/internal/core"
	"mygame/football/internal/logging"
	"mygame/football/pkg/config"
)

type lobbyClient struct {
	base   string
	bearer string
	http   *http.Client
}

func (c *lobbyClient) post(ctx context.Context, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("POST %s: %s: %s", path, resp.Status, e.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type ticketResp struct {
	Code          string `json:"code"`
	ParticipantID string `json:"participant_id"`
	Ticket        string `json:"ticket"`
}

func main() {
	server := flag.String("server", "http://localhost:8080", "lobby base URL")
	room := flag.String("room", "", "room code to join")
	name := flag.String("name", "", "display name")
	password := flag.String("password", "", "room password")
	create := flag.Bool("create", false, "create a room and host it")
	bots := flag.Int("bots", 2, "bots to add to blue when hosting")
	minutes := flag.Int("minutes", 1, "match length when hosting")
	cfgPath := flag.String("config", "", "config file (default ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := &lobbyClient{base: strings.TrimRight(*server, "/"), http: &http.Client{Timeout: 10 * time.Second}}
	var tk ticketResp
	switch {
	case *create:
		err = api.post(ctx, "/api/rooms", map[string]string{"password": *password}, &tk)
		if err == nil {
			api.bearer = tk.Ticket
			for i := 0; i < *bots && err == nil; i++ {
				err = api.post(ctx, "/api/rooms/"+tk.Code+"/bots", map[string]string{"team": "blue"}, nil)
			}
		}
	case *room != "":
		err = api.post(ctx, "/api/rooms/"+strings.ToUpper(*room)+"/join",
			map[string]string{"name": *name, "password": *password}, &tk)
	default:
		err = fmt.Errorf("either -room or -create is required")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("lobby")
	}
	log.Info().Str("room", tk.Code).Str("peer", tk.ParticipantID).Msg("ticket issued")

	q := url.Values{"room": {tk.Code}, "ticket": {tk.Ticket}}
	wsURL := "ws" + strings.TrimPrefix(api.base, "http") + "/ws?" + q.Encode()
	conn, err := core.Dial(ctx, wsURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}

	p := core.NewParticipant(conn, core.ParticipantOptions{
		Countdown:  cfg.Game.Countdown(),
		InputEvery: cfg.Game.InputEvery(),
		Delay:      cfg.Game.InterpDelay(),
		BufferSize: cfg.Game.BufferSize,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if *create {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := api.post(ctx, "/api/rooms/"+tk.Code+"/start", map[string]int{"minutes": *minutes}, nil); err != nil {
				log.Error().Err(err).Msg("start")
				cancel()
			}
		}()
	}

	var lastPhase core.Phase
	var lastReport time.Time
	var finished bool
	render := func(p *core.Participant) {
		phase := p.Phase()
		if phase != lastPhase {
			log.Info().Str("phase", phase.String()).Msg("phase")
			lastPhase = phase
		}
		if m := p.Match(); m != nil && phase == core.PhaseRunning && time.Since(lastReport) >= time.Second {
			lastReport = time.Now()
			log.Info().Str("score", fmt.Sprintf("%d-%d", m.Score.Red, m.Score.Blue)).
				Float64("time_left", m.TimeLeft).Msg("match")
		}
		if over := p.Result(); over != nil && !finished {
			finished = true
			fmt.Printf("%s  red %d - %d blue\n", over.Result, over.ScoreRed, over.ScoreBlue)
			cancel()
		}
	}

	if err := core.RunParticipant(ctx, conn, p, 16*time.Millisecond, core.ChaseController(tk.ParticipantID), render); err != nil {
		log.Error().Err(err).Msg("connection closed")
	}
}
