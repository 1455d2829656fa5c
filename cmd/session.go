package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/truemediaorg/postanalyzer/metrics"
	"github.com/truemediaorg/postanalyzer/render"
	"github.com/truemediaorg/postanalyzer/service"
	"github.com/truemediaorg/postanalyzer/status"
	"github.com/truemediaorg/postanalyzer/workflow"
	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

const (
	sessionStatusCmd = ":status"
	sessionQuitCmd   = ":quit"
)

var sessionMode string

func init() {
	sessionCmd.Flags().StringVar(&sessionMode, "mode", "", "validation mode, lightweight or advanced (overrides VALIDATION_MODE)")
	rootCmd.AddCommand(sessionCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Runs an interactive analysis session",
	Long: `Runs an interactive analysis session. Each line read from stdin is a
submission of the form "<url> [comment count]". ":status" refreshes the
system status panel and ":quit" ends the session.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		/*
			Graceful shutdown is possible with errgroup + signal.NotifyContext
			NotifyContext returns a context that will close on OS signals to terminate the process
			The session context is also cancelled on :quit or once stdin is exhausted
		*/
		signalCtx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer done()
		ctx, cancel := context.WithCancel(signalCtx)
		defer cancel()

		cfg, client := setup(ctx, sessionMode)

		registry := prometheus.NewRegistry()
		if err := metrics.Register(registry); err != nil {
			log.Fatalf("error registering metrics: %v", err)
		}

		out := &syncWriter{w: os.Stdout}
		controller := newController(cfg, client, os.Stderr)
		poller := status.NewPoller(client)

		g, gCtx := errgroup.WithContext(ctx)

		g.Go(func() error {
			defer log.Info("exiting session")
			return runSession(gCtx, cancel, os.Stdin, out, controller, poller)
		})

		// Diagnostics are opt-in for interactive use
		if cfg.DiagnosticsPort > 0 {
			diagnostics := service.NewDiagnostics(cfg.DiagnosticsPort, registry)
			g.Go(func() error {
				if err := diagnostics.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gCtx.Done()
				defer log.Info("exiting diagnostics")
				return diagnostics.Server.Shutdown(context.Background())
			})
		}

		if err := g.Wait(); err != nil {
			log.Errorf("caught error: %v", err)
		}
	},
}

// runSession dispatches stdin lines until the context ends, :quit is read or
// input runs out. Submissions run in the background so :status stays
// responsive while an analysis is pending.
func runSession(ctx context.Context, cancel context.CancelFunc, in io.Reader, out io.Writer, controller *workflow.Controller, poller *status.Poller) error {
	defer poller.Deactivate()
	defer controller.Deactivate()

	var inflight sync.WaitGroup
	defer inflight.Wait()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Errorf("error reading input: %v", err)
		}
	}()

	poller.Activate(ctx)
	render.Status(out, poller.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				inflight.Wait()
				cancel()
				return nil
			}
			line = strings.TrimSpace(line)
			switch line {
			case "":
				continue
			case sessionQuitCmd:
				cancel()
				return nil
			case sessionStatusCmd:
				poller.Activate(ctx)
				render.Status(out, poller.Snapshot())
				continue
			}

			postURL, commentCount, err := parseSubmission(line)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				submit(ctx, out, controller, postURL, commentCount)
			}()
		}
	}
}

func submit(ctx context.Context, out io.Writer, controller *workflow.Controller, postURL string, commentCount int) {
	err := controller.Submit(ctx, postURL, commentCount)
	switch {
	case err == nil:
		render.Result(out, controller.Snapshot().Result)
	case errors.Is(err, workflow.ErrSubmissionInFlight):
		fmt.Fprintln(out, "an analysis is already in progress, wait for it to finish")
	default:
		log.WithField("url", postURL).Debugf("submission ended: %v", err)
	}
}

// parseSubmission splits "<url> [comment count]". A missing count means the default.
func parseSubmission(line string) (string, int, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 1:
		return fields[0], 0, nil
	case 2:
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return "", 0, fmt.Errorf("invalid comment count %q", fields[1])
		}
		return fields[0], count, nil
	default:
		return "", 0, fmt.Errorf("expected \"<url> [comment count]\", got %q", line)
	}
}
