// Package tui is a live terminal dashboard for the ledger CLI's watch
// command. It reuses the teaching wallet's gocui view-manager layout
// (a log pane plus an always-redrawn status pane) but drives its
// panes from ledger balances instead of wallet commands.
package tui

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jroimartin/gocui"

	"github.com/oroshi/ledger/ledger"
	"github.com/oroshi/ledger/model"
)

// Board is the gocui view manager that renders the balance table.
type Board struct {
	name string
	l    *ledger.Ledger

	mu     sync.Mutex
	status string
}

// Logger is the view manager for the scrolling event log below the
// balance table.
type Logger struct {
	name string

	mu   sync.Mutex
	rows []string
}

// NewBoard returns a Board rendering l's balances.
func NewBoard(l *ledger.Ledger) *Board {
	return &Board{name: "balances", l: l}
}

// NewLogger returns an empty scrolling log view manager.
func NewLogger() *Logger {
	return &Logger{name: "log"}
}

// SetStatus replaces the one-line status string drawn above the
// balance table, e.g. "replaying row 12/40".
func (b *Board) SetStatus(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = s
}

// Append adds one line to the scrolling log.
func (lg *Logger) Append(line string) {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	lg.rows = append(lg.rows, line)
}

// Layout implements gocui.Manager.
func (b *Board) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	v, err := g.SetView(b.name, 1, 1, maxX-1, maxY*2/3)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Clear()
	v.Wrap = false

	b.mu.Lock()
	status := b.status
	b.mu.Unlock()
	if status != "" {
		fmt.Fprintln(v, status)
		fmt.Fprintln(v)
	}

	balances, err := b.l.GetBalances()
	if err != nil {
		fmt.Fprintln(v, "error:", err)
		return nil
	}

	ids := make([]model.AccountID, 0, len(balances))
	for account := range balances {
		ids = append(ids, account)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Fprintln(v, "client\tavailable")
	for _, account := range ids {
		fmt.Fprintf(v, "%d\t%d\n", account, balances[account])
	}
	return nil
}

// Layout implements gocui.Manager.
func (lg *Logger) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	v, err := g.SetView(lg.name, 1, maxY*2/3+1, maxX-1, maxY-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Autoscroll = true
	v.Wrap = true
	v.Clear()

	lg.mu.Lock()
	defer lg.mu.Unlock()
	for _, row := range lg.rows {
		fmt.Fprintln(v, row)
	}
	return nil
}

// CreateGui builds a gocui.Gui with board and logger as its only
// views, and a quit keybinding on Ctrl-C.
func CreateGui(board *Board, logger *Logger) (*gocui.Gui, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}
	g.Cursor = false
	g.SetManager(board, logger)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
