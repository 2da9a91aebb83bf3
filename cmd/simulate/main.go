// Command simulate plays a local match against bots on a simulated clock
// and prints the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"mygame/football/internal/core"
	"mygame/football/internal/logging"
	"mygame/football/pkg/config"
)

func main() {
	d := core.DefaultLocalSetup()
	red := flag.Int("red", d.Red, "red players including the host, 1-4")
	blue := flag.Int("blue", d.Blue, "blue bots, 0-4")
	minutes := flag.Int("minutes", d.Minutes, "match length in minutes, 1-5")
	watch := flag.Bool("watch", false, "bots only, no idle host")
	seed := flag.Uint64("seed", 0, "agent seed, 0 for random")
	cfgPath := flag.String("config", "", "config file (default ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	opts := core.DefaultOptions()
	opts.Countdown = cfg.Game.Countdown()
	opts.GoalPause = cfg.Game.GoalPause()
	opts.Physics = cfg.Game.Physics
	opts.Agent = cfg.Game.Agent
	opts.Seed = *seed

	began := time.Now()
	info, err := core.RunLocal(opts, core.LocalSetup{Red: *red, Blue: *blue, Minutes: *minutes, Watch: *watch}, began)
	if err != nil {
		log.Fatal().Err(err).Msg("simulate")
	}

	fmt.Printf("%s  red %d - %d blue  (%d v %d, simulated in %s)\n",
		info.Result, info.Score.Red, info.Score.Blue,
		len(info.Roster.Red), len(info.Roster.Blue), time.Since(began).Round(time.Millisecond))
}
