package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"insight-workers/internal/insights"
	"insight-workers/internal/models"
)

func newAskCmd(opts *cliOptions) *cobra.Command {
	var answer string
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one business question",
		Example: `  bi-cli ask "What's our win rate?" --work-orders wo.xlsx --deals deals.xlsx
  bi-cli ask "Which sector is best?" --answer Mining`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			sess, release, err := opts.session(ctx)
			if err != nil {
				return err
			}
			defer release()

			reply := sess.HandleMessage(ctx, strings.Join(args, " "))
			if reply.Kind == models.ReplyClarification && answer != "" {
				reply = sess.HandleMessage(ctx, answer)
			}
			return opts.render(cmd.OutOrStdout(), reply.Text)
		},
	}
	cmd.Flags().StringVar(&answer, "answer", "", "reply sent when a clarifying question comes back")
	return cmd
}

func newChatCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `chat reads one question per line. Type /report for a leadership report,
/refresh to reload the boards and start over, /quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setup, cancel := commandContext(cmd, opts.timeout)
			sess, release, err := opts.session(setup)
			cancel()
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				ctx, cancel := commandContext(cmd, opts.timeout)
				var turnErr error
				switch strings.ToLower(line) {
				case "/quit", "/exit":
					cancel()
					return nil
				case "/refresh":
					if turnErr = sess.Refresh(ctx); turnErr == nil {
						fmt.Fprintln(out, "Boards refreshed, conversation cleared.")
					}
				case "/report":
					var report *models.LeadershipReport
					if report, turnErr = sess.GenerateReport(ctx); turnErr == nil {
						turnErr = opts.render(out, report.Document)
					}
				default:
					turnErr = opts.render(out, sess.HandleMessage(ctx, line).Text)
				}
				cancel()
				if turnErr != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "Error:", turnErr)
				}
			}
		},
	}
}

func newReportCmd(opts *cliOptions) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build an executive leadership report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			sess, release, err := opts.session(ctx)
			if err != nil {
				return err
			}
			defer release()

			report, err := sess.GenerateReport(ctx)
			if err != nil {
				return err
			}
			if outDir != "" {
				path := filepath.Join(outDir, insights.ReportFileName(report.Metadata.Timestamp))
				if err := os.WriteFile(path, []byte(report.Document), 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", path)
			}
			return opts.render(cmd.OutOrStdout(), report.Document)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to save the markdown report in")
	return cmd
}

func newQualityCmd(opts *cliOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Report missing values and status coverage on both boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			p, _, release, err := opts.provider(ctx)
			if err != nil {
				return err
			}
			defer release()

			b := p.Load(ctx)
			q := insights.AssessDataQuality(b.WorkOrders, b.Deals)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(q)
			}
			return opts.render(cmd.OutOrStdout(), qualityMarkdown(q))
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the assessment as JSON")
	return cmd
}

func qualityMarkdown(q *models.DataQuality) string {
	var b strings.Builder
	b.WriteString("# 🔍 Data Quality\n\n")
	b.WriteString("| Board | Rows | Missing values |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Work Orders | %d | %d |\n", q.WorkOrderRows, total(q.WorkOrderMissing))
	fmt.Fprintf(&b, "| Deals | %d | %d |\n\n", q.DealRows, total(q.DealMissing))
	fmt.Fprintf(&b, "**Work orders without a sector:** %d\n\n", q.MissingSectors)

	if len(q.StatusDistribution) > 0 {
		b.WriteString("## Deal Status\n\n")
		for _, s := range q.StatusDistribution {
			fmt.Fprintf(&b, "- %s: %d\n", s.Status, s.Count)
		}
		b.WriteString("\n")
	}

	if cols := missingColumns(q.WorkOrderMissing, q.DealMissing); len(cols) > 0 {
		b.WriteString("## Columns With Gaps\n\n")
		for _, c := range cols {
			b.WriteString("- " + c + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Issues\n\n")
	if len(q.Issues) == 0 {
		b.WriteString("✅ No issues found.\n")
	}
	for _, issue := range q.Issues {
		b.WriteString("- " + issue + "\n")
	}
	return b.String()
}

func total(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func missingColumns(work, deals map[string]int) []string {
	var out []string
	for col, n := range work {
		if n > 0 {
			out = append(out, fmt.Sprintf("Work Orders / %s: %d", col, n))
		}
	}
	for col, n := range deals {
		if n > 0 {
			out = append(out, fmt.Sprintf("Deals / %s: %d", col, n))
		}
	}
	sort.Strings(out)
	return out
}
