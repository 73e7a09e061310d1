package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"insight-workers/internal/boards"
	"insight-workers/internal/common/config"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/session"
)

const (
	xlsxWorkOrdersID = "work-orders"
	xlsxDealsID      = "deals"
)

type cliOptions struct {
	configPath string
	workOrders string
	deals      string
	sheet      string
	raw        bool
	width      int
	logLevel   string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:   "bi-cli",
		Short: "Business insights from the work-order and deal boards",
		Long: `bi-cli asks business questions, checks data quality and builds leadership
reports against the configured board source or a pair of .xlsx exports.

Pass --work-orders and --deals to read exports from disk; otherwise the board
source from configs/config.yaml (or --config) is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default configs/config.yaml)")
	f.StringVar(&opts.workOrders, "work-orders", "", "work-order board export (.xlsx)")
	f.StringVar(&opts.deals, "deals", "", "deals board export (.xlsx)")
	f.StringVar(&opts.sheet, "sheet", "", "sheet to read from the exports (default first sheet)")
	f.BoolVar(&opts.raw, "raw", false, "print markdown without rendering")
	f.IntVar(&opts.width, "width", 100, "word wrap width for rendered output")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	f.DurationVar(&opts.timeout, "timeout", time.Minute, "timeout per command or chat turn")

	root.AddCommand(
		newAskCmd(opts),
		newChatCmd(opts),
		newReportCmd(opts),
		newQualityCmd(opts),
	)
	return root
}

func (o *cliOptions) logger() logger.Logger {
	return logger.NewStructured(o.logLevel, "console").Named("bi-cli")
}

// loadConfig builds an xlsx-only config when both exports are given and
// reads the config file otherwise.
func (o *cliOptions) loadConfig() (*config.Config, error) {
	if o.workOrders != "" || o.deals != "" {
		if o.workOrders == "" || o.deals == "" {
			return nil, fmt.Errorf("--work-orders and --deals must be given together")
		}
		return &config.Config{
			Boards: config.BoardsConfig{
				Source:            config.SourceXLSX,
				WorkOrdersBoardID: xlsxWorkOrdersID,
				DealsBoardID:      xlsxDealsID,
				XLSX: config.XLSXConfig{
					WorkOrdersFile: o.workOrders,
					DealsFile:      o.deals,
					Sheet:          o.sheet,
				},
			},
		}, nil
	}
	if o.configPath != "" {
		return config.LoadFromFile(o.configPath)
	}
	return config.Load()
}

// provider opens the board source. The returned func releases it.
func (o *cliOptions) provider(ctx context.Context) (*boards.Provider, *config.Config, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := o.logger()
	source, closer, err := boards.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	release := func() {
		if err := closer(); err != nil {
			log.Warn("Failed to close board source", map[string]interface{}{"error": err.Error()})
		}
	}
	return boards.NewProvider(source, cfg.Boards.WorkOrdersBoardID, cfg.Boards.DealsBoardID, log), cfg, release, nil
}

func (o *cliOptions) session(ctx context.Context) (*session.Session, func(), error) {
	p, cfg, release, err := o.provider(ctx)
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(p, session.Options{
		FiscalYear:       cfg.Insights.FiscalYear,
		DisableFollowUps: cfg.Insights.DisableFollowUps,
		HistorySize:      cfg.Insights.ReportHistorySize,
	}, o.logger())
	return sess, release, nil
}

// render writes markdown to w, through glamour unless --raw is set.
func (o *cliOptions) render(w io.Writer, markdown string) error {
	if o.raw {
		_, err := fmt.Fprintln(w, markdown)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(o.width),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}
