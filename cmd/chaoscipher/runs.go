package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/chaoscipher/internal/storage"
	"github.com/san-kum/chaoscipher/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tSHAPE\tFORMAT\tNPCR\tENTROPY\tTIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%dx%d\t%s\t%.4f\t%.4f\t%s\n",
			run.ID, run.Mode, run.Height, run.Width, run.Channels, run.Format,
			run.Metrics["npcr"], run.Metrics["entropy"], run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(meta.ID))
	fmt.Printf("mode:     %s\n", meta.Mode)
	if meta.Preset != "" {
		fmt.Printf("preset:   %s\n", meta.Preset)
	}
	if meta.Source != "" {
		fmt.Printf("source:   %s\n", meta.Source)
	}
	fmt.Printf("shape:    %dx%dx%d\n", meta.Height, meta.Width, meta.Channels)
	fmt.Printf("format:   %s (%d bytes)\n", meta.Format, meta.ContainerBytes)
	fmt.Printf("permute:  %v\n", meta.Permute)
	fmt.Printf("elapsed:  %.3f ms\n", meta.ElapsedMs)

	names := make([]string, 0, len(meta.Params))
	for name := range meta.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nparams:")
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, meta.Params[name])
	}

	fmt.Println()
	fmt.Println(viz.RenderMetrics(meta.Metrics))

	plain, cipher, err := st.LoadHistogram(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.HistogramPair(plain, cipher, 64, 12))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir)
	data, err := st.LoadContainer(args[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], data, 0644); err != nil {
		return err
	}
	fmt.Printf("exported %s -> %s (%d bytes)\n", args[0], args[1], len(data))
	return nil
}
