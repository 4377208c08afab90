package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/oroshi/ledger/ingest"
	"github.com/oroshi/ledger/ledger"
	"github.com/oroshi/ledger/storage"
	"github.com/oroshi/ledger/tui"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <file.csv>",
	Short: "Replay a CSV one row at a time on a timer, redrawing balances live.",
	Args:  cobra.ExactArgs(1),
	RunE:  watchRun,
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 300*time.Millisecond, "Delay between rows.")
	rootCmd.AddCommand(watchCmd)
}

func watchRun(cobraCmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(err, "opening %q", args[0])
	}
	rows, err := ingest.ReadRows(f)
	f.Close()
	if err != nil {
		return err
	}

	l := ledger.New(storage.NewMemory())
	board := tui.NewBoard(l)
	logger := tui.NewLogger()

	g, err := tui.CreateGui(board, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	go replayRows(g, l, rows, board, logger)

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func replayRows(g *gocui.Gui, l *ledger.Ledger, rows []ingest.Row, board *tui.Board, logger *tui.Logger) {
	for i, row := range rows {
		board.SetStatus(fmt.Sprintf("replaying row %d/%d", i+1, len(rows)))
		if err := ingest.Apply(l, row); err != nil {
			logger.Append(fmt.Sprintf("row %d (%s %d %s): %v", i+1, row.Type, row.Client, row.Reference, err))
		} else {
			logger.Append(fmt.Sprintf("row %d (%s %d %s): applied", i+1, row.Type, row.Client, row.Reference))
		}
		g.Update(func(g *gocui.Gui) error { return nil })
		time.Sleep(watchInterval)
	}
	board.SetStatus(fmt.Sprintf("done: replayed %d rows", len(rows)))
	g.Update(func(g *gocui.Gui) error { return nil })
}
