package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ytget/audiofixture/internal/config"
	"github.com/ytget/audiofixture/internal/generate"
	"github.com/ytget/audiofixture/internal/model"
	"github.com/ytget/audiofixture/internal/report"
)

const ruleWidth = 60

func rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}

// printBanner prints the run parameters and the cost estimate
func printBanner(w io.Writer, cfg *config.Config, seed int64) {
	rule(w)
	fmt.Fprintln(w, "Audio fixture generator")
	rule(w)

	rates := make([]string, 0, len(cfg.SampleRates))
	for _, rate := range cfg.SampleRates {
		rates = append(rates, strconv.Itoa(rate))
	}

	fmt.Fprintf(w, "\nOutput directory: %s\n", cfg.OutputDir)
	fmt.Fprintf(w, "Formats: %s\n", strings.Join(model.FormatNames(cfg.Formats), ", "))
	fmt.Fprintf(w, "Sample rates: %s Hz\n", strings.Join(rates, ", "))
	if cfg.Cover.Enabled {
		fmt.Fprintf(w, "Cover: black/white block pattern (%s)\n", strings.Join(cfg.Cover.Formats, ", "))
	} else {
		fmt.Fprintln(w, "Cover: disabled")
	}
	fmt.Fprintf(w, "Jobs: %d\n", cfg.Jobs)
	fmt.Fprintf(w, "Seed: %d\n", seed)

	estimate := report.EstimateFor(cfg.TotalTracks())
	fmt.Fprintf(w, "\nPlanned: %d songs\n", estimate.Songs)
	fmt.Fprintf(w, "Estimated time: %s (depends on the machine)\n", estimate.HumanDuration())
	fmt.Fprintf(w, "Estimated size: %s\n", estimate.HumanSize())
}

// printTree prints the planned folder tree
func printTree(w io.Writer, roots []*model.Playlist) {
	fmt.Fprintln(w, "\nDirectory structure:")
	_ = model.WalkAll(roots, func(p *model.Playlist) error {
		indent := strings.Repeat("  ", p.Depth+1)
		branch := ""
		if p.Depth > 0 {
			branch = "└─ "
		}
		fmt.Fprintf(w, "%s%s%s: %d songs [%d-%d Hz]\n", indent, branch, p.Name, p.Planned, p.Frequency.Min, p.Frequency.Max)
		return nil
	})
}

// printSummary prints the result of a run
func printSummary(w io.Writer, summary *generate.Summary) {
	var size uint64
	_ = model.WalkAll(summary.Roots, func(p *model.Playlist) error {
		for _, track := range p.GetCompletedTracks() {
			size += uint64(track.FileSize)
		}
		return nil
	})

	fmt.Fprintln(w)
	rule(w)
	fmt.Fprintln(w, "Generation complete")
	fmt.Fprintf(w, "Total: %d/%d songs\n", summary.Generated, summary.Planned)
	if summary.Failed > 0 {
		fmt.Fprintf(w, "Failed: %d\n", summary.Failed)
	}
	fmt.Fprintf(w, "Covers: %d\n", summary.Covers)
	fmt.Fprintf(w, "Disk usage: %s\n", humanize.Bytes(size))
	fmt.Fprintf(w, "Elapsed: %.1f s\n", summary.Elapsed.Seconds())
	if summary.Generated > 0 {
		fmt.Fprintf(w, "Average: %.2f s/song\n", summary.Elapsed.Seconds()/float64(summary.Generated))
	}
	rule(w)
}
