// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"regexp"
	"strings"

	"github.com/creachadair/mds/mdiff"
	"github.com/creachadair/vsent"
	"github.com/creachadair/vsent/document"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var rejectPattern string

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Check a proof script as it is edited",
	Long: `Keep a dry-run checking session synchronized with a proof script.

Each time the file changes, sentences invalidated by the edit are undone and
the rest of the file is checked again. No prover is run: every sentence is
accepted, except those matching --reject, which are refused as a prover
would refuse an ill-formed command.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&rejectPattern, "reject", "",
		"Refuse sentences matching this regular expression")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ev := new(dryRun)
	if rejectPattern != "" {
		ev.reject, err = regexp.Compile(rejectPattern)
		if err != nil {
			return fmt.Errorf("invalid --reject: %w", err)
		}
	}
	f, err := document.OpenFile(args[0], log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w := &watcher{
		path: args[0],
		doc:  f,
		sess: vsent.New(ev, f, cfg.Options(log)),
		log:  log,
		out:  cmd.OutOrStdout(),
		prev: f.Lines(),
	}
	changed := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return f.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	})
	g.Go(func() error {
		if err := w.check(ctx); err != nil {
			return err
		}
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-changed:
				if err := w.check(ctx); err != nil {
					return err
				}
			}
		}
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// A watcher checks a document each time it changes and reports the result.
type watcher struct {
	path string
	doc  *document.File
	sess *vsent.Session
	log  *slog.Logger
	out  io.Writer
	prev [][]byte
}

func (w *watcher) check(ctx context.Context) error {
	cur := w.doc.Lines()
	if w.log.Enabled(ctx, slog.LevelDebug) {
		w.logDiff(cur)
	}
	w.prev = cur

	if err := w.sess.Step(ctx, math.MaxInt); err != nil {
		return err
	}
	w.report()
	return nil
}

func (w *watcher) logDiff(cur [][]byte) {
	d := mdiff.New(toStrings(w.prev), toStrings(cur)).AddContext(2).Unify()
	if len(d.Chunks) == 0 {
		return
	}
	var buf strings.Builder
	d.Format(&buf, mdiff.Unified, &mdiff.FileInfo{Left: w.path, Right: w.path})
	w.log.Debug("document edited", "diff", buf.String())
}

var (
	okStyle   = color.New(color.FgGreen)
	failStyle = color.New(color.Bold, color.FgRed)
	infoStyle = color.New(color.Faint)
)

func (w *watcher) report() {
	line, col := w.sess.Endpoint()
	okStyle.Fprintf(w.out, "%s: %d sentences checked through %d:%d\n",
		w.path, len(w.sess.Checkpoints()), line, col)
	if rng, ok := w.sess.ErrorRange(); ok {
		failStyle.Fprintf(w.out, "%s:%d:%d: %v\n", w.path, rng.Start.Line+1, rng.Start.Col+1, w.sess.Failure())
	}
	for _, s := range w.sess.Info() {
		infoStyle.Fprintln(w.out, "  "+s)
	}
}

func toStrings(lines [][]byte) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = string(line)
	}
	return out
}

// dryRun is an evaluator that accepts every command, except those matching
// its reject pattern.
type dryRun struct {
	reject *regexp.Regexp
}

func (d *dryRun) Dispatch(ctx context.Context, command string) (vsent.Reply, error) {
	if err := ctx.Err(); err != nil {
		return vsent.Reply{}, err
	}
	if d.reject != nil {
		if loc := d.reject.FindStringIndex(command); loc != nil {
			return vsent.Reply{
				Message: fmt.Sprintf("Refused: %q", command[loc[0]:loc[1]]),
				Error:   vsent.Span{Pos: loc[0], End: loc[1]},
			}, nil
		}
	}
	return vsent.Reply{Accepted: true}, nil
}

func (*dryRun) Rewind(context.Context, int) (vsent.RewindReply, error) {
	return vsent.RewindReply{}, nil
}

func (*dryRun) Interrupt() {}
