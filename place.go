package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cansyan/overlay/ui"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
	colorWhite = lipgloss.Color("255")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleKey   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarn  = lipgloss.NewStyle().Foreground(colorAmber)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)

	styleTargetCell  = lipgloss.NewStyle().Foreground(colorCyan)
	styleOverlayCell = lipgloss.NewStyle().Foreground(colorGreen)
	styleOverlapCell = lipgloss.NewStyle().Foreground(colorAmber)
)

// diagrams larger than this are cropped
const maxDiagramW, maxDiagramH = 120, 60

type placeFlags struct {
	target      string
	overlay     string
	container   string
	placement   string
	points      string
	offset      string
	alignOffset int
	noAdjust    bool
	rtl         bool
	diagram     bool
}

func newPlaceCmd() *cobra.Command {
	var f placeFlags

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Compute where an overlay goes relative to a target",
		Example: `  overlay place --target 10,5,8,1 --overlay 20,6 --container 80,24 --placement top
  overlay place --target 70,20,8,1 --overlay 20,6 --diagram`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd, configFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			logger.Debug("computing placement", "placement", req.Placement, "points", req.Points, "adjust", req.AutoAdjust)

			res, ok := ui.ComputePlacement(req)
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, styleWarn.Render("! target has no size, nothing to place"))
				return nil
			}
			printResult(out, req, res)
			if f.diagram {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderDiagram(req, res))
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.target, "target", "0,0,10,1", "target box as x,y,w,h")
	fl.StringVar(&f.overlay, "overlay", "20,5", "overlay size as w,h")
	fl.StringVar(&f.container, "container", "80,24", "container size as w,h")
	fl.StringVar(&f.placement, "placement", "", "placement code, e.g. top-start or tl (default from config)")
	fl.StringVar(&f.points, "points", "", "raw anchor pair overlay,target used instead of a placement, e.g. cc,cc")
	fl.StringVar(&f.offset, "offset", "", "extra offset as dx,dy")
	fl.IntVar(&f.alignOffset, "align-offset", 0, "gap between target and overlay")
	fl.BoolVar(&f.noAdjust, "no-adjust", false, "disable flipping and clamping")
	fl.BoolVar(&f.rtl, "rtl", false, "mirror horizontal anchors")
	fl.BoolVar(&f.diagram, "diagram", false, "draw the container with target and overlay")
	return cmd
}

// request merges the flags that were set over the config.
func (f *placeFlags) request(cmd *cobra.Command, cfg Config) (ui.PlacementRequest, error) {
	if cmd.Flags().Changed("placement") {
		cfg.Placement = f.placement
	}
	if cmd.Flags().Changed("align-offset") {
		cfg.AlignOffset = f.alignOffset
	}
	if cmd.Flags().Changed("offset") {
		dx, dy, err := parsePair(f.offset)
		if err != nil {
			return ui.PlacementRequest{}, fmt.Errorf("--offset: %w", err)
		}
		cfg.Offset = [2]int{dx, dy}
	}
	if f.noAdjust {
		cfg.AutoAdjust = false
	}
	if f.rtl {
		cfg.RTL = true
	}

	var req ui.PlacementRequest
	if f.points != "" {
		pts, err := parsePoints(f.points)
		if err != nil {
			return req, fmt.Errorf("--points: %w", err)
		}
		req = cfg.PlacementRequest()
		req.Placement = ui.PlacementNone
		req.Points = pts
	} else {
		if err := cfg.Validate(); err != nil {
			return req, err
		}
		req = cfg.PlacementRequest()
	}

	target, err := parseBox(f.target)
	if err != nil {
		return req, fmt.Errorf("--target: %w", err)
	}
	ow, oh, err := parsePair(f.overlay)
	if err != nil {
		return req, fmt.Errorf("--overlay: %w", err)
	}
	cw, ch, err := parsePair(f.container)
	if err != nil {
		return req, fmt.Errorf("--container: %w", err)
	}
	req.Target = target
	req.Overlay = ui.Box{Width: float64(ow), Height: float64(oh)}
	req.Container = ui.Box{Width: float64(cw), Height: float64(ch)}
	return req, nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma separated numbers, got %q", n, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad number %q in %q", p, s)
		}
		out[i] = v
	}
	return out, nil
}

func parsePair(s string) (int, int, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return 0, 0, err
	}
	return v[0], v[1], nil
}

func parseBox(s string) (ui.Box, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return ui.Box{}, err
	}
	if v[2] < 0 || v[3] < 0 {
		return ui.Box{}, fmt.Errorf("negative size in %q", s)
	}
	return ui.Box{
		Left:   float64(v[0]),
		Top:    float64(v[1]),
		Width:  float64(v[2]),
		Height: float64(v[3]),
	}, nil
}

func parsePoints(s string) (ui.Points, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return ui.Points{}, fmt.Errorf("want overlay,target anchors, got %q", s)
	}
	var pts ui.Points
	for i, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if len(p) != 2 || !strings.ContainsRune("tcb", rune(p[0])) || !strings.ContainsRune("lcr", rune(p[1])) {
			return ui.Points{}, fmt.Errorf("bad anchor %q", p)
		}
		pts[i] = ui.Point(p)
	}
	return pts, nil
}

func printResult(w io.Writer, req ui.PlacementRequest, res ui.PlacementResult) {
	kv := func(k, v string) {
		fmt.Fprintln(w, styleKey.Render(k)+" "+styleValue.Render(v))
	}
	fmt.Fprintln(w, styleTitle.Render("Placement"))
	placement := string(res.Placement)
	if res.Placement == ui.PlacementNone {
		placement = "(points)"
	}
	if req.Placement != ui.PlacementNone && res.Placement != req.Placement {
		placement += styleDim.Render(" flipped from " + string(req.Placement))
	}
	kv("placement", placement)
	kv("points", fmt.Sprintf("%s → %s", res.Points[0], res.Points[1]))
	kv("left", strconv.Itoa(res.Style.Left))
	kv("top", strconv.Itoa(res.Style.Top))
	kv("position", res.Style.Position.String())
	if res.Style.Hidden {
		kv("hidden", "true")
	}
}

// diagramRows draws the container as a grid: T marks the target, O the
// overlay and # cells covered by both.
func diagramRows(req ui.PlacementRequest, res ui.PlacementResult) []string {
	w := min(int(req.Container.Width), maxDiagramW)
	h := min(int(req.Container.Height), maxDiagramH)
	if w <= 0 || h <= 0 {
		return nil
	}
	grid := make([][]byte, h)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", w))
	}
	fill := func(r ui.Rect, c byte) {
		for y := max(r.Y, 0); y < min(r.Y+r.H, h); y++ {
			for x := max(r.X, 0); x < min(r.X+r.W, w); x++ {
				switch {
				case grid[y][x] == '.':
					grid[y][x] = c
				case grid[y][x] != c:
					grid[y][x] = '#'
				}
			}
		}
	}
	fill(req.Target.Translate(-req.Container.Left, -req.Container.Top).Rect(), 'T')
	if !res.Style.Hidden {
		fill(ui.Rect{
			X: res.Style.Left,
			Y: res.Style.Top,
			W: int(req.Overlay.Width),
			H: int(req.Overlay.Height),
		}, 'O')
	}

	rows := make([]string, h)
	for y, row := range grid {
		rows[y] = string(row)
	}
	return rows
}

func renderDiagram(req ui.PlacementRequest, res ui.PlacementResult) string {
	var b strings.Builder
	for i, row := range diagramRows(req, res) {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			switch c {
			case 'T':
				b.WriteString(styleTargetCell.Render("T"))
			case 'O':
				b.WriteString(styleOverlayCell.Render("O"))
			case '#':
				b.WriteString(styleOverlapCell.Render("#"))
			default:
				b.WriteString(styleDim.Render("."))
			}
		}
	}
	return b.String()
}
