// cmd/dashboard/check.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/tamzrod/dashboard-sync/internal/arbiter"
	"github.com/tamzrod/dashboard-sync/internal/poller"
	"github.com/tamzrod/dashboard-sync/internal/source"
)

type checkReport struct {
	Channel  source.Mode       `json:"channel"`
	ProbeErr string            `json:"probe_error,omitempty"`
	Failures map[string]string `json:"failures,omitempty"`
	Display  string            `json:"display"`
	Accident string            `json:"accident"`
	Snapshot any               `json:"snapshot"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the backend and print one snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p, src, err := poller.Build(cfg.Dashboard, nil)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		probeErr := src.Probe(ctx)
		res := p.PollOnce(ctx)
		display, accident := arbiter.Summarize(res.Snapshot)

		if jsonOutput {
			rep := checkReport{
				Channel:  src.Mode(),
				Display:  string(display),
				Accident: accident,
				Snapshot: res.Snapshot,
			}
			if probeErr != nil {
				rep.ProbeErr = probeErr.Error()
			}
			if len(res.Failures) > 0 {
				rep.Failures = map[string]string{}
				for doc, err := range res.Failures {
					rep.Failures[doc] = err.Error()
				}
			}
			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		// ---- human output ----
		if probeErr != nil {
			fmt.Printf("API:        unavailable (%v)\n", probeErr)
		} else {
			fmt.Printf("API:        ok (%s)\n", cfg.Dashboard.API.BaseURL)
		}
		fmt.Printf("Channel:    %s\n", src.Mode())
		fmt.Printf("Polled in:  %s\n", time.Since(res.At).Round(time.Millisecond))

		if len(res.Failures) > 0 {
			docs := make([]string, 0, len(res.Failures))
			for doc := range res.Failures {
				docs = append(docs, doc)
			}
			sort.Strings(docs)
			for _, doc := range docs {
				fmt.Printf("Failed:     %s (%v)\n", doc, res.Failures[doc])
			}
		}

		s := res.Snapshot
		fmt.Println()
		fmt.Printf("Display:    %s\n", display)
		fmt.Printf("Accident:   %s\n", accident)
		fmt.Printf("Drowsiness: %s (EAR %.3f, threshold %.3f)\n", s.Drowsiness, s.EAR, s.Threshold)
		fmt.Printf("Alarm:      %t (%.1fs)\n", s.AlarmOn, s.AlarmDuration)
		fmt.Printf("Accel:      %.2f g\n", s.AccelMagnitude)
		if s.GPSPosition != "" {
			fmt.Printf("GPS:        %s\n", s.GPSPosition)
		}
		fmt.Printf("Score:      %s\n", humanize.Comma(int64(s.MonthlyScore)))

		if len(s.EventCounts) > 0 {
			names := make([]string, 0, len(s.EventCounts))
			for name := range s.EventCounts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %-18s %s\n", name, humanize.Comma(int64(s.EventCounts[name])))
			}
		}

		// ---- data files ----
		fmt.Println()
		fmt.Println("Data files:")
		for _, dir := range src.Dirs() {
			for _, doc := range []source.Document{source.Drowsiness, source.Status, source.LogSummary} {
				path := filepath.Join(dir, doc.File)
				info, err := os.Stat(path)
				if err != nil {
					continue
				}
				fmt.Printf("  %-40s %8s  %s\n", path, humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
