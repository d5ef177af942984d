package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/config"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/timeline"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <plan.json>",
	Short: "Summarize a movie plan's timeline",
	Long: `Builds the segment timeline for a plan and prints a report:
tree counts by kind, segment boundaries, durations, and the total
movie length at the configured timing.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "text", "output format: text, json, or toml")
	rootCmd.AddCommand(inspectCmd)
}

// inspectReport is the serializable timeline summary.
type inspectReport struct {
	Name       string           `json:"name" toml:"name"`
	Trees      int              `json:"trees" toml:"trees"`
	Anchors    int              `json:"anchors" toml:"anchors"`
	Consensus  int              `json:"consensus" toml:"consensus"`
	Interp     int              `json:"interpolated" toml:"interpolated"`
	TotalMS    float64          `json:"total_ms" toml:"total_ms"`
	Segments   []segmentReport  `json:"segments" toml:"segments"`
	Issues     []string         `json:"issues,omitempty" toml:"issues,omitempty"`
}

type segmentReport struct {
	Index      int     `json:"index" toml:"index"`
	Name       string  `json:"name" toml:"name"`
	Anchor     bool    `json:"anchor" toml:"anchor"`
	FirstTree  int     `json:"first_tree" toml:"first_tree"`
	LastTree   int     `json:"last_tree" toml:"last_tree"`
	StartMS    float64 `json:"start_ms" toml:"start_ms"`
	DurationMS float64 `json:"duration_ms" toml:"duration_ms"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	m, err := movie.Load(args[0])
	if err != nil {
		return err
	}

	report := buildReport(m, cfg.Timeline())
	return writeReport(cmd.OutOrStdout(), report, format)
}

func buildReport(m *movie.Movie, cfg timeline.Config) inspectReport {
	segs, skipped := timeline.BuildSegments(m)
	data := timeline.BuildData(segs, cfg)
	resolver := timeline.NewResolver(m.TreeKinds())

	report := inspectReport{
		Name:    m.Name,
		Trees:   m.TreeCount(),
		TotalMS: data.Total,
	}
	for i := 0; i < resolver.Len(); i++ {
		switch {
		case resolver.IsAnchor(i):
			report.Anchors++
		case resolver.IsConsensus(i):
			report.Consensus++
		default:
			report.Interp++
		}
	}
	for i, seg := range segs {
		report.Segments = append(report.Segments, segmentReport{
			Index:      seg.Index,
			Name:       seg.Name,
			Anchor:     seg.IsAnchor,
			FirstTree:  seg.FirstTreeIndex(),
			LastTree:   seg.LastTreeIndex(),
			StartMS:    data.SegmentStart(i),
			DurationMS: data.Durations[i],
		})
	}
	for _, issue := range skipped {
		report.Issues = append(report.Issues, issue.Error())
	}
	for _, issue := range movie.Validate(m) {
		report.Issues = append(report.Issues, issue.Error())
	}
	return report
}

func writeReport(w io.Writer, report inspectReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "toml":
		return toml.NewEncoder(w).Encode(report)
	case "text":
		writeTextReport(w, report)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json, or toml)", format)
	}
}

func writeTextReport(w io.Writer, r inspectReport) {
	fmt.Fprintf(w, "%s: %d trees (%d anchors, %d consensus, %d interpolated), %.0f ms\n",
		r.Name, r.Trees, r.Anchors, r.Consensus, r.Interp, r.TotalMS)
	for _, seg := range r.Segments {
		marker := " "
		if seg.Anchor {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %2d  %-14s trees %d-%d  %7.1f ms + %.1f ms\n",
			marker, seg.Index, seg.Name, seg.FirstTree, seg.LastTree, seg.StartMS, seg.DurationMS)
	}
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  ! %s\n", issue)
	}
}
