package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/phaseline/internal/export/svg"
	"github.com/Makepad-fr/phaseline/internal/geometry"
	"github.com/Makepad-fr/phaseline/internal/lanes"
	"github.com/Makepad-fr/phaseline/internal/report"
	"github.com/Makepad-fr/phaseline/internal/store/filestore"
	"github.com/Makepad-fr/phaseline/internal/tui"
	"github.com/Makepad-fr/phaseline/internal/ui"
)

func newLsCmd(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "ls <file>",
		Short: "Show the laid-out phases as a chart",
		Args:  exactFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, l, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			t := ui.Current()
			header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
				t.Title.Sprint(filepath.Base(args[0])),
				t.Accent.Sprint("phases"), len(l.Items),
				t.Accent.Sprint("lanes"), l.Lanes,
				t.Accent.Sprint("days"), l.Days(),
			)
			lines := []string{header, ""}

			r := geometry.NewRange(l, a.cfg.Geometry.PaddingDays)
			if r.Days > 0 {
				gutter := len(fmt.Sprintf("L%d", l.Lanes-1)) + 1
				chart, err := ui.Gantt(l, r, ui.CellsPerDay(r, width-gutter))
				if err != nil {
					return err
				}
				lines = append(lines, chart...)
				lines = append(lines, "")
			}
			lines = append(lines, ui.PhaseLines(l.Items)...)
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 72, "chart width in columns")
	return cmd
}

func newLanesCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "lanes <file>",
		Short: "Print the lane of every phase, in file order",
		Args:  exactFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			var enc filestore.Format
			text := false
			switch strings.ToLower(format) {
			case "text":
				text = true
			case "json":
				enc = filestore.JSON
			case "yaml", "yml":
				enc = filestore.YAML
			default:
				return usagef("unknown format %q (want text, json or yaml)", format)
			}
			items, l, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			laned := l.InInputOrder(items)
			out := cmd.OutOrStdout()
			if text {
				for _, it := range laned {
					fmt.Fprintf(out, "%d → %d\n", it.ID, it.Lane)
				}
				return nil
			}
			return filestore.Encode(out, enc, laned)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a phase file",
		Long:  "Validate dates, ranges and id uniqueness. Exits 2 on the first bad phase.",
		Args:  exactFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, l, err := a.load(cmd, args[0], lanes.WithStrictIDs())
			if err != nil {
				return err
			}
			peak, err := lanes.Peak(items, a.laneOptions(cmd)...)
			if err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%d phases, %d lanes, peak %d, %s → %s",
				len(items), l.Lanes, peak, l.First, l.Last))
			return nil
		},
	}
}

func newSVGCmd(a *app) *cobra.Command {
	var (
		out   string
		zoom  float64
		title string
	)
	cmd := &cobra.Command{
		Use:   "svg <file>",
		Short: "Export the timeline as SVG",
		Args:  exactFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if zoom < geometry.MinZoom || zoom > geometry.MaxZoom {
				return usagef("--zoom must be within [%g, %g]", geometry.MinZoom, geometry.MaxZoom)
			}
			_, l, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			opts := svg.Options{
				Scale:       a.cfg.Scale(),
				Zoom:        zoom,
				PaddingDays: a.cfg.Geometry.PaddingDays,
				Title:       title,
			}
			if out == "-" {
				return svg.Render(cmd.OutOrStdout(), l, opts)
			}
			name := svg.OutputFilename(args[0], out)
			if err := os.WriteFile(name, []byte(svg.Document(l, opts)), 0o644); err != nil {
				return fmt.Errorf("write svg: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "wrote "+name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", `output file, "-" for stdout (default: <file>.svg)`)
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "horizontal zoom factor")
	cmd.Flags().StringVar(&title, "title", "", "title drawn in the header")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		raw   bool
		width int
	)
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Summarise lanes and phases as Markdown",
		Args:  exactFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, l, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			peak, err := lanes.Peak(items, a.laneOptions(cmd)...)
			if err != nil {
				return err
			}
			md := report.Markdown(l, filepath.Base(args[0]), peak)
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			rendered, err := report.Render(md, width)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown without styling")
	cmd.Flags().IntVarP(&width, "width", "w", 80, "wrap width")
	return cmd
}

type tuiFlags struct {
	watch bool
	save  bool
}

func newTUICmd(a *app) *cobra.Command {
	var f tuiFlags
	cmd := &cobra.Command{
		Use:   "tui <file>",
		Short: "Open the interactive timeline",
		Long: `Open the interactive timeline.

Keys: up/down select, e rename, m move (left/right shift, [ ] end date),
+/- zoom, u undo, esc deselect, q quit.`,
		Args: exactFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, args[0], f)
		},
	}
	cmd.Flags().BoolVar(&f.watch, "watch", false, "reload when the file changes")
	cmd.Flags().BoolVar(&f.save, "save", false, "write edits back to the file on quit")
	return cmd
}

func (a *app) runTUI(cmd *cobra.Command, path string, f tuiFlags) error {
	items, err := filestore.Load(path)
	if err != nil {
		return err
	}
	final, changed, err := tui.Run(items, tui.Options{
		Title:       filepath.Base(path),
		Path:        path,
		Watch:       f.watch,
		Zoom:        a.cfg.TUI.Zoom,
		PaddingDays: a.cfg.Geometry.PaddingDays,
		LaneOptions: a.laneOptions(cmd),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	switch {
	case !changed:
	case f.save:
		if err := filestore.Save(path, final); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		ui.OK(cmd.OutOrStdout(), "saved "+path)
	default:
		ui.Hint(cmd.OutOrStdout(), "edits were not saved; run with --save to keep them")
	}
	return nil
}
