package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tougaku/sensei/internal/config"
	"github.com/tougaku/sensei/internal/llm"
	"github.com/tougaku/sensei/internal/store"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Inspect recorded grading-engine usage",
}

var usageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent engine calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.Usage().RecentCalls(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query calls: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No engine calls recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("-", 100))

		for _, e := range events {
			ok := "yes"
			if !e.Success {
				ok = "no"
			}
			fmt.Printf("%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var usageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.Usage().StatsByPurpose(context.Background())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No engine usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by Purpose")
		fmt.Println(strings.Repeat("-", 72))
		fmt.Printf("%-16s  %6s  %6s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Fails", "Input", "Output", "Avg Ms")
		fmt.Println(strings.Repeat("-", 72))

		var totalCalls int
		var totalIn, totalOut int64
		for _, st := range stats {
			fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %8d\n",
				st.Purpose, st.Calls, st.Failures, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}

		fmt.Println(strings.Repeat("-", 72))
		fmt.Printf("%-16s  %6d  %6s  %10d  %10d\n", "TOTAL", totalCalls, "", totalIn, totalOut)

		// Rough cost estimate against the configured model's pricing.
		cfg, err := config.Load()
		if err == nil {
			modelID := llm.CanonicalModelID(cfg.Engine.Provider, activeModelID(cfg))
			if cost := llm.LookupCost(modelID); cost != nil {
				c := cost.Cost(int(totalIn), int(totalOut))
				fmt.Printf("\nEstimated cost at %s pricing: $%.4f\n", modelID, c)
			}
		}
		return nil
	},
}

func openStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Store.Path == "" {
		return nil, fmt.Errorf("store.path is not configured")
	}
	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func activeModelID(cfg *config.Config) string {
	switch cfg.Engine.Provider {
	case "anthropic":
		return cfg.Engine.Anthropic.Model
	case "openai":
		return cfg.Engine.OpenAI.Model
	case "gemini":
		return cfg.Engine.Gemini.Model
	default:
		return cfg.Engine.Provider
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func init() {
	usageListCmd.Flags().Int("limit", 20, "Maximum number of calls to list")
	usageCmd.AddCommand(usageListCmd)
	usageCmd.AddCommand(usageStatsCmd)
}
