package main

import (
	"fmt"
	"io"
	"regexp"
	"text/tabwriter"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/renderer"
	"github.com/dshills/panes/internal/renderer/backend"
	"github.com/dshills/panes/internal/renderer/core"
	"github.com/dshills/panes/internal/split"
)

var identPattern = regexp.MustCompile(`[\p{L}_-][\p{L}\p{N}_-]*`)

// layoutBuffers creates one buffer for every name the literal mentions.
func layoutBuffers(literal string) map[string]*buffer.Buffer {
	buffers := make(map[string]*buffer.Buffer)
	for _, name := range identPattern.FindAllString(literal, -1) {
		switch name {
		case "Vertical", "Horizontal", "_":
			continue
		}
		if _, ok := buffers[name]; !ok {
			b := buffer.New(buffer.WithName(name))
			b.AddText(name, core.DefaultStyle())
			buffers[name] = b
		}
	}
	return buffers
}

func newLayoutCmd() *cobra.Command {
	var (
		rows, cols int
		separators bool
		render     bool
	)

	cmd := &cobra.Command{
		Use:   "layout <literal>",
		Short: "Show the rectangles a layout literal produces",
		Example: `  panes layout "Vertical: { 1: output, 1!: prompt }" --rows 10 --cols 40
  panes layout "Horizontal: { 1: a, 2: b }" --separators --render`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 0 || cols < 0 {
				return fmt.Errorf("size must not be negative: %dx%d", cols, rows)
			}
			tree, err := split.Parse(args[0], layoutBuffers(args[0]))
			if err != nil {
				return err
			}
			tree.WithSeparators(separators)

			out := cmd.OutOrStdout()
			if render {
				return renderLayout(out, tree, rows, cols)
			}
			return printLayout(out, tree.Layout(split.Viewport{Rows: rows, Cols: cols}))
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 24, "viewport rows")
	cmd.Flags().IntVar(&cols, "cols", 80, "viewport columns")
	cmd.Flags().BoolVar(&separators, "separators", false, "reserve separator lines between panes")
	cmd.Flags().BoolVar(&render, "render", false, "draw the panes instead of listing them")
	return cmd
}

func printLayout(out io.Writer, sm *split.SplitMap) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BUFFER\tTOP\tLEFT\tWIDTH\tHEIGHT")
	for _, e := range sm.Entries {
		r := e.Rect
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", e.Buffer.Name(), r.Top, r.Left, r.Width(), r.Height())
	}
	for _, s := range sm.Separators {
		r := s.Rect
		fmt.Fprintf(tw, "|%s|\t%d\t%d\t%d\t%d\n", s.Orientation, r.Top, r.Left, r.Width(), r.Height())
	}
	return tw.Flush()
}

// renderLayout draws one frame with every pane showing its name and leaves
// the cursor below it.
func renderLayout(out io.Writer, tree *split.Tree, rows, cols int) error {
	w := backend.NewWriter(out, backend.WithSize(cols, rows), backend.WithProfile(termenv.ANSI))
	r := renderer.New(w, renderer.DefaultOptions())
	if err := r.Render(tree); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, termenv.CSI+termenv.CursorPositionSeq+"\n", rows+1, 1)
	return err
}
