// cmd/dashboard/run.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tamzrod/dashboard-sync/internal/bridge"
	"github.com/tamzrod/dashboard-sync/internal/config"
	"github.com/tamzrod/dashboard-sync/internal/countdown"
	"github.com/tamzrod/dashboard-sync/internal/metrics"
	"github.com/tamzrod/dashboard-sync/internal/poller"
	"github.com/tamzrod/dashboard-sync/internal/reporter"
	"github.com/tamzrod/dashboard-sync/internal/session"
	"github.com/tamzrod/dashboard-sync/internal/source"
	"github.com/tamzrod/dashboard-sync/internal/writer"
)

var serviceAction string

const stopTimeout = 5 * time.Second

// program implements the kardianos/service interface.
type program struct {
	cfg *config.Config

	// run and exit default to runDashboard and os.Exit.
	run    func(ctx context.Context, cfg *config.Config) error
	exit   func(code int)
	logger service.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func newProgram(cfg *config.Config) *program {
	return &program{cfg: cfg, run: runDashboard, exit: os.Exit}
}

func (p *program) Start(s service.Service) error {
	// Start must not block.
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		err := p.run(ctx, p.cfg)
		close(p.done)
		if err != nil {
			p.fail(err)
		}
	}()
	return nil
}

// fail reports a dashboard that stopped on its own and exits non-zero,
// so the service manager sees the failure and may restart it.
func (p *program) fail(err error) {
	log.Printf("dashboard stopped: %v", err)
	if p.logger != nil {
		_ = p.logger.Error(err)
	}
	p.exit(1)
}

func (p *program) Stop(s service.Service) error {
	log.Println("stopping dashboard...")
	p.cancel()

	select {
	case <-p.done:
	case <-time.After(stopTimeout):
		log.Printf("dashboard did not stop within %s", stopTimeout)
	}
	return nil
}

// runDashboard wires the pipeline and blocks until ctx is cancelled.
func runDashboard(ctx context.Context, cfg *config.Config) error {
	d := cfg.Dashboard

	// ---- metrics ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	// ---- poller + source ----
	p, src, err := poller.Build(d, func(source.Document, error) {
		m.Fallback()
	})
	if err != nil {
		return fmt.Errorf("poller build failed: %w", err)
	}

	// ---- status block (optional) ----
	var statusWriter writer.StatusWriter
	if d.StatusBlock != nil {
		sw, closeStatus, err := writer.Build(d.StatusBlock)
		if err != nil {
			log.Printf("status block disabled (endpoint=%s): %v", d.StatusBlock.Endpoint, err)
		} else {
			statusWriter = sw
			defer closeStatus()
		}
	}

	// ---- session ----
	sess, err := session.New(session.Config{
		Countdown: countdown.New(time.Duration(d.Countdown.TickMs) * time.Millisecond),
		Reporter:  reporter.New(src),
		Source:    src,
		Status:    statusWriter,
		Renderer:  session.NewLogRenderer(),
		Metrics:   m,
	})
	if err != nil {
		return fmt.Errorf("session build failed: %w", err)
	}

	// ---- bridge (optional) ----
	if d.Bridge.Listen != "" {
		gin.SetMode(gin.ReleaseMode)
		br := bridge.New(d.Bridge.Listen, sess, reg)
		go func() {
			if err := br.Run(ctx); err != nil {
				log.Printf("bridge stopped (addr=%s): %v", d.Bridge.Listen, err)
			}
		}()
	}

	// ---- channel between poller and session ----
	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	log.Printf("dashboard running (api=%s interval=%dms dirs=%v)", d.API.BaseURL, d.Poll.IntervalMs, src.Dirs())
	sess.Run(ctx, out)
	return nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dashboard loop",
	Long: `Starts the poll loop and, when configured, the renderer bridge and
the status block writer. Can be installed as a system service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svcConfig := &service.Config{
			Name:        "dashboard-sync",
			DisplayName: "Dashboard Sync",
			Description: "Driver-safety dashboard alert and status sync",
			Arguments:   []string{"run"},
		}
		if cfgFile != "" {
			abs, err := filepath.Abs(cfgFile)
			if err != nil {
				return err
			}
			svcConfig.Arguments = append(svcConfig.Arguments, "--config", abs)
		}

		prg := newProgram(cfg)
		s, err := service.New(prg, svcConfig)
		if err != nil {
			return err
		}

		if serviceAction != "" {
			if err := service.Control(s, serviceAction); err != nil {
				return fmt.Errorf("failed to %s service: %w", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return nil
		}

		logger, err := s.Logger(nil)
		if err != nil {
			return err
		}
		prg.logger = logger

		// Blocks until the service manager or an interrupt stops it.
		return s.Run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
