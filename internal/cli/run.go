package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/ecs/internal/core/frame"
	"github.com/zeusync/ecs/internal/core/observability/log"
	"github.com/zeusync/ecs/internal/demo"
	"github.com/zeusync/ecs/internal/injector"
)

const shutdownTimeout = 5 * time.Second

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Frames  uint64
	Tick    time.Duration
	Inspect string
	Profile string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		Long: `Run the particle simulation until the frame limit is reached or the
process is interrupted, then print a summary of the registry.

Example:
  ecsdemo run --frames 600 --tick 16ms
  ecsdemo run --config ecs.yaml --inspect 127.0.0.1:7070`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.Frames, "frames", 0, "stop after this many frames (0 runs until interrupted)")
	cmd.Flags().DurationVar(&opts.Tick, "tick", 0, "frame interval, overrides loop.tick")
	cmd.Flags().StringVar(&opts.Inspect, "inspect", "", "serve the websocket inspector on this address")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "write a CPU profile into this directory")

	return cmd
}

func runDemo(cmd *cobra.Command, opts *RunOptions) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Loop.Frames = opts.Frames
	}
	if flags.Changed("tick") {
		cfg.Loop.Tick = opts.Tick
	}
	if opts.Inspect != "" {
		cfg.Inspector.Enabled = true
		cfg.Inspector.Addr = opts.Inspect
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if opts.Profile != "" {
		defer profile.Start(
			profile.CPUProfile,
			profile.ProfilePath(opts.Profile),
			profile.NoShutdownHook,
			profile.Quiet,
		).Stop()
	}

	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sim := demo.New(app.Registry, demo.DefaultOptions(), app.Logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	loop := frame.Loop{Interval: cfg.Loop.Tick, MaxFrames: cfg.Loop.Frames, Logger: app.Logger}
	g.Go(func() error {
		defer cancel()
		return loop.Run(gctx, sim.Step)
	})

	if app.Inspector != nil {
		ln, err := net.Listen("tcp", cfg.Inspector.Addr)
		if err != nil {
			cancel()
			_ = g.Wait()
			return fmt.Errorf("inspector listen: %w", err)
		}
		srv := &http.Server{Handler: app.Inspector.Handler(), ReadHeaderTimeout: shutdownTimeout}
		app.Logger.Info("inspector listening", log.String("addr", ln.Addr().String()))

		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("inspector serve: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			_ = app.Inspector.Close()
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancelShutdown()
			return srv.Shutdown(shutdownCtx)
		})
	}

	app.Logger.Info("simulation started",
		log.Uint64("frames", cfg.Loop.Frames),
		log.Duration("tick", cfg.Loop.Tick),
		log.String("allocation", cfg.Registry.Allocation),
		log.Bool("cascade", cfg.Registry.CascadeDelete),
	)
	err = g.Wait()
	if _, werr := fmt.Fprint(cmd.OutOrStdout(), sim.Summary()); werr != nil && err == nil {
		err = werr
	}
	return err
}
