package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cansyan/overlay/ui"
)

const defaultConfigFile = "overlay.toml"

var errUnknownPlacement = errors.New("unknown placement")

// duration decodes TOML strings such as "150ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds the overlay defaults read from overlay.toml.
type Config struct {
	Placement              string `toml:"placement"`
	AlignOffset            int    `toml:"align_offset"`
	Offset                 [2]int `toml:"offset"`
	AutoAdjust             bool   `toml:"auto_adjust"`
	AutoHideScrollOverflow bool   `toml:"auto_hide_scroll_overflow"`
	RTL                    bool   `toml:"rtl"`

	Cache                  bool `toml:"cache"`
	HasMask                bool `toml:"has_mask"`
	CanCloseByEsc          bool `toml:"can_close_by_esc"`
	CanCloseByOutsideClick bool `toml:"can_close_by_outside_click"`
	CanCloseByMask         bool `toml:"can_close_by_mask"`
	AutoFocus              bool `toml:"auto_focus"`
	DisableScroll          bool `toml:"disable_scroll"`

	RepositionInterval duration `toml:"reposition_interval"`
}

func defaultConfig() Config {
	return Config{
		Placement:              string(ui.PlacementBottomStart),
		AutoAdjust:             true,
		AutoHideScrollOverflow: true,
		CanCloseByEsc:          true,
		CanCloseByOutsideClick: true,
		CanCloseByMask:         true,
		RepositionInterval:     duration{ui.DefaultRepositionInterval},
	}
}

// loadConfig reads path on top of the defaults. An empty path reads
// overlay.toml from the working directory when it exists.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, ok := ui.ParsePlacement(c.Placement); !ok {
		return fmt.Errorf("%w: %q", errUnknownPlacement, c.Placement)
	}
	if c.RepositionInterval.Duration < 0 {
		return fmt.Errorf("reposition_interval must not be negative, got %s", c.RepositionInterval)
	}
	return nil
}

// PlacementRequest returns the placement options of c; geometry is left
// for the caller to fill in.
func (c Config) PlacementRequest() ui.PlacementRequest {
	p, _ := ui.ParsePlacement(c.Placement)
	return ui.PlacementRequest{
		Position:               ui.PositionAbsolute,
		Placement:              p,
		AlignOffset:            c.AlignOffset,
		Offset:                 c.Offset,
		AutoAdjust:             c.AutoAdjust,
		AutoHideScrollOverflow: c.AutoHideScrollOverflow,
		RTL:                    c.RTL,
	}
}

// OverlayOptions turns c into options for ui.NewOverlay.
func (c Config) OverlayOptions() []ui.OverlayOption {
	opts := []ui.OverlayOption{
		ui.WithAlignOffset(c.AlignOffset),
		ui.WithOffset(c.Offset[0], c.Offset[1]),
		ui.WithAutoAdjust(c.AutoAdjust),
		ui.WithAutoHideScrollOverflow(c.AutoHideScrollOverflow),
		ui.WithRTL(c.RTL),
		ui.WithCache(c.Cache),
		ui.WithMask(c.HasMask),
		ui.WithCanCloseByEsc(c.CanCloseByEsc),
		ui.WithCanCloseByOutsideClick(c.CanCloseByOutsideClick),
		ui.WithCanCloseByMask(c.CanCloseByMask),
		ui.WithAutoFocus(c.AutoFocus),
		ui.WithDisableScroll(c.DisableScroll),
		ui.WithRepositionInterval(c.RepositionInterval.Duration),
	}
	if p, ok := ui.ParsePlacement(c.Placement); ok {
		opts = append(opts, ui.WithPlacement(p))
	}
	return opts
}
