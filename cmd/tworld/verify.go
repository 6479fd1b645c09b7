package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileworld/internal/pack"
	"github.com/vovakirdan/tileworld/internal/tworld"
	"github.com/vovakirdan/tileworld/internal/tws"
)

var flagNoSelfCheck bool

var verifyCmd = &cobra.Command{
	Use:   "verify <pack-file> <tws-file> [level...]",
	Short: "Replay recorded solutions against the engine",
	Long: `Replay the solutions from a .tws file against the levels of a
pack and check that every replay ends with the level completed at the
recorded time. Levels without a recorded solution are skipped.

Per-tick structural self checks are on unless --no-self-check is given.

Examples:
  tworld verify packs/intro.pak solutions/intro.tws
  tworld verify packs/intro.pak solutions/intro.tws 4 5 9`,
	Args: cobra.MinimumNArgs(2),
	Run:  runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&flagNoSelfCheck, "no-self-check", false, "Disable per-tick structural checks")
}

func runVerify(cmd *cobra.Command, args []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "verify",
	})

	p, err := pack.Load(args[0])
	if err != nil {
		logger.Fatal("cannot load pack", "error", err)
	}
	solutions, err := tws.Load(args[1])
	if err != nil {
		logger.Fatal("cannot load solution file", "error", err)
	}

	var levels []int
	for _, arg := range args[2:] {
		n, convErr := strconv.Atoi(arg)
		if convErr != nil || n < 1 || n > p.LevelCount {
			logger.Fatal("bad level number", "arg", arg)
		}
		levels = append(levels, n)
	}
	if len(levels) == 0 {
		for n := 1; n <= p.LevelCount; n++ {
			levels = append(levels, n)
		}
	}

	passed, failed, skipped := 0, 0, 0
	for _, n := range levels {
		title, _ := p.Title(n)
		sol, solErr := solutions.Solution(n)
		if errors.Is(solErr, tws.ErrNoSolution) {
			skipped++
			continue
		}
		if solErr != nil {
			logger.Error("bad solution record", "level", n, "error", solErr)
			failed++
			continue
		}

		if replayErr := replaySolution(p, n, sol, logger); replayErr != nil {
			logger.Error("FAIL", "level", n, "title", title, "error", replayErr)
			failed++
			continue
		}
		logger.Info("pass", "level", n, "title", title, "ticks", sol.TotalTime)
		passed++
	}

	logger.Info("done", "passed", passed, "failed", failed, "skipped", skipped)
	if failed > 0 {
		os.Exit(1)
	}
}

// replaySolution feeds a solution's inputs tick by tick and checks the
// outcome: the level must complete at exactly the recorded total time.
func replaySolution(p *pack.Pack, number int, sol *tws.Solution, logger *log.Logger) error {
	level, err := p.Level(number)
	if err != nil {
		return err
	}
	sim, err := tworld.NewSim(level)
	if err != nil {
		return err
	}
	sim.SetLogger(logger)
	sim.SetSelfCheck(!flagNoSelfCheck)
	sim.SetInitialConditions(sol.Stepping, sol.InitialSlideDir, sol.Seed)
	if err := sim.Reset(); err != nil {
		return err
	}

	inputs := sol.Inputs()
	for !sim.IsGameOver() && sim.CurrentTime() < sol.TotalTime {
		mask, ok := inputs.Next()
		if !ok {
			mask = 0
		}
		if err := sim.Step(mask); err != nil {
			return fmt.Errorf("tick %d: %w", sim.CurrentTime(), err)
		}
	}

	if cause := sim.EndCause(); cause != tworld.EndCauseComplete {
		return fmt.Errorf("ended with %q at tick %d", cause, sim.CurrentTime())
	}
	if sim.CurrentTime() != sol.TotalTime {
		return fmt.Errorf("completed at tick %d, recorded %d", sim.CurrentTime(), sol.TotalTime)
	}
	return nil
}
