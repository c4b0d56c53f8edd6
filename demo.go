package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"

	"github.com/cansyan/overlay/ui"
)

func newDemoCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an interactive demo with a dropdown, a modal and a nested menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.New(io.Discard)
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logger = newLogger(f, loggerFromContext(ctx).GetLevel())
			}
			return runDemo(ctx, configFromContext(ctx), logger)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the demo owns the terminal")
	return cmd
}

type demo struct {
	cfg    Config
	logger *log.Logger
	status *ui.Text

	dropdown *ui.Overlay
	modal    *ui.Overlay
	menu     *ui.Overlay

	clipboardErr error
}

func runDemo(ctx context.Context, cfg Config, logger *log.Logger) error {
	d := &demo{cfg: cfg, logger: logger, status: ui.NewText("Status: Ready")}
	if err := clipboard.Init(); err != nil {
		// headless sessions have no clipboard; the copy button reports it
		d.clipboardErr = err
		logger.Warn("clipboard unavailable", "err", err)
	}

	root := d.build()
	app := ui.NewApp(root)
	app.SetLogger(logger)
	app.AddOverlay(d.dropdown)
	app.AddOverlay(d.modal)
	app.AddOverlay(d.menu)
	app.Focus(root)

	go func() {
		<-ctx.Done()
		app.Stop()
	}()
	if err := app.Run(); err != nil {
		if errors.Is(err, ui.ErrNoScreen) {
			return fmt.Errorf("demo needs a terminal: %w", err)
		}
		return err
	}
	return ctx.Err()
}

func (d *demo) setStatus(format string, args ...any) {
	d.status.SetText("Status: " + fmt.Sprintf(format, args...))
}

func (d *demo) build() ui.Element {
	fruits := &ui.List{Index: -1}
	for _, name := range []string{"Apple", "Banana", "Cherry", "Durian", "Elderberry", "Fig", "Grape", "Honeydew", "Kiwi", "Lemon"} {
		fruits.Append(ui.ListItem{Name: name, Value: name})
	}
	fruits.OnSelect = func(it ui.ListItem) {
		d.setStatus("picked %s", it.Name)
		d.dropdown.SetVisible(false)
	}

	pick := ui.NewButton("Pick fruit ▾", func() {
		d.dropdown.SetVisible(d.dropdown.State() != ui.StateVisible)
	})
	d.dropdown = ui.NewOverlay(
		ui.Border(ui.Frame(ui.NewScrollView(fruits), 16, 5)),
		append(d.cfg.OverlayOptions(),
			ui.WithTarget(ui.TargetID("pick")),
			ui.WithAutoFocus(true),
			ui.OnPosition(func(res ui.PlacementResult) {
				d.logger.Debug("dropdown placed", "placement", res.Placement, "left", res.Style.Left, "top", res.Style.Top)
			}),
		)...,
	)

	name := &ui.Input{Placeholder: "your name", Autofocus: true}
	more := ui.NewButton("More…", func() {
		d.menu.SetVisible(true)
	})
	name.OnCommit = func(s string) {
		d.setStatus("hello %s", s)
		d.modal.SetVisible(false)
	}
	dialog := ui.Border(ui.Pad(ui.VStack(
		ui.NewText("Who are you?"),
		ui.Frame(name, 24, 1),
		ui.HStack(
			ui.NewButton("OK", func() { name.OnCommit(name.String()) }),
			ui.Spacer,
			ui.ID(more, "more"),
		),
	).Spacing(1), 1))
	d.modal = ui.NewOverlay(dialog,
		append(d.cfg.OverlayOptions(),
			ui.WithPoints("cc", "cc"),
			ui.WithTarget(ui.TargetViewport()),
			ui.WithMask(true),
			ui.WithDisableScroll(true),
			ui.WithAutoFocus(true),
			ui.OnClose(func() { d.setStatus("dialog closed") }),
		)...,
	)

	menu := &ui.List{Index: 0}
	for _, s := range []string{"Uppercase", "Lowercase", "Clear"} {
		menu.Append(ui.ListItem{Name: s})
	}
	menu.OnSelect = func(it ui.ListItem) {
		switch it.Name {
		case "Uppercase":
			name.SetText(strings.ToUpper(name.String()))
		case "Lowercase":
			name.SetText(strings.ToLower(name.String()))
		case "Clear":
			name.SetText("")
		}
		d.menu.SetVisible(false)
	}
	d.menu = ui.NewOverlay(ui.Border(menu),
		append(d.cfg.OverlayOptions(),
			ui.WithPlacement(ui.PlacementRightStart),
			ui.WithTarget(ui.TargetID("more")),
			ui.WithParent(d.modal),
			ui.WithSafeNodes(ui.TargetID("more")),
			ui.WithAutoFocus(true),
		)...,
	)

	copyBtn := ui.NewButton("Copy placement", d.copyPlacement)
	toolbar := ui.HStack(
		ui.ID(pick, "pick"),
		ui.NewButton("Open dialog", func() { d.modal.SetVisible(true) }),
		copyBtn,
	).Spacing(1)

	var lines []string
	for i := range 60 {
		lines = append(lines, fmt.Sprintf("%3d  scroll this tab; the dropdown follows its target", i+1))
	}
	scroller := ui.NewScrollView(ui.VStack(
		ui.PadV(toolbar, 1),
		ui.NewText(strings.Join(lines, "\n")),
	))

	tabs := ui.NewTabView().
		Append("Overlays", ui.Grow(scroller)).
		Append("About", ui.Pad(ui.NewText("Alt+Left/Right switches tabs.\nEsc closes the innermost overlay.\nCtrl+C quits."), 1))

	return ui.VStack(
		ui.Grow(tabs),
		&ui.Divider{},
		ui.PadH(d.status, 1),
	)
}

func (d *demo) copyPlacement() {
	res := d.dropdown.Placement()
	if res.Style.Position == ui.PositionStatic {
		d.setStatus("open the dropdown first")
		return
	}
	if d.clipboardErr != nil {
		d.setStatus("clipboard unavailable")
		return
	}
	text := fmt.Sprintf("%s left=%d top=%d", res.Placement, res.Style.Left, res.Style.Top)
	clipboard.Write(clipboard.FmtText, []byte(text))
	d.setStatus("copied %q", text)
}
