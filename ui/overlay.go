package ui

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
)

// CloseReason says why an overlay asks to be closed.
type CloseReason string

const (
	CloseDocClick  CloseReason = "docClick"
	CloseMaskClick CloseReason = "maskClick"
	CloseEsc       CloseReason = "esc"
)

// OverlayState is the lifecycle state of an overlay.
type OverlayState int

const (
	StateUnmounted OverlayState = iota
	// StateMounting waits for the container to exist.
	StateMounting
	// StateHidden is laid out but not positioned yet.
	StateHidden
	StateVisible
	// StateCached is laid out but hidden, kept for the next opening.
	StateCached
)

func (s OverlayState) String() string {
	switch s {
	case StateMounting:
		return "mounting"
	case StateHidden:
		return "hidden"
	case StateVisible:
		return "visible"
	case StateCached:
		return "cached"
	default:
		return "unmounted"
	}
}

// OverlayLifecycleState is a snapshot of the lifecycle flags of an overlay.
type OverlayLifecycleState struct {
	Mounted     bool // attached to the document
	Visible     bool // requested visibility
	EverVisible bool
	Cache       bool
	Container   Element // nil until the container resolved
}

type overlayConfig struct {
	placement   Placement
	points      Points
	alignOffset int
	offset      [2]int
	position    Position

	autoAdjust             bool
	autoHideScrollOverflow bool
	rtl                    bool

	cache                  bool
	hasMask                bool
	canCloseByEsc          bool
	canCloseByOutsideClick bool
	canCloseByMask         bool
	autoFocus              bool
	disableScroll          bool
	interval               time.Duration

	content   Element
	target    Target
	container func() Element
	parent    *Overlay
	safeNodes []Target
	logger    *log.Logger

	beforePosition func(PlacementResult, PositionContext) PlacementResult
	onRequestClose func(CloseReason, tcell.Event)
	onOpen         func(*Node)
	onClose        func()
	onPosition     func(PlacementResult)
}

// OverlayOption configures an Overlay.
type OverlayOption func(*overlayConfig)

// WithPlacement sets the placement code. The default is PlacementBottomStart.
func WithPlacement(p Placement) OverlayOption {
	return func(c *overlayConfig) { c.placement = p }
}

// WithPoints pins the overlay with a raw anchor pair. It is used when no
// placement code is set.
func WithPoints(overlay, target Point) OverlayOption {
	return func(c *overlayConfig) {
		c.points = Points{overlay, target}
		c.placement = PlacementNone
	}
}

// WithAlignOffset sets the gap between target and overlay.
func WithAlignOffset(n int) OverlayOption {
	return func(c *overlayConfig) { c.alignOffset = n }
}

// WithOffset shifts the placed overlay by dx columns and dy rows.
func WithOffset(dx, dy int) OverlayOption {
	return func(c *overlayConfig) { c.offset = [2]int{dx, dy} }
}

// WithFixed positions the overlay at its offset from the screen origin
// and skips placement.
func WithFixed() OverlayOption {
	return func(c *overlayConfig) { c.position = PositionFixed }
}

// WithAutoAdjust flips or clamps the overlay when it crosses the viewport.
// It is on by default.
func WithAutoAdjust(on bool) OverlayOption {
	return func(c *overlayConfig) { c.autoAdjust = on }
}

// WithAutoHideScrollOverflow hides the overlay while its target is
// scrolled out of view. It is on by default.
func WithAutoHideScrollOverflow(on bool) OverlayOption {
	return func(c *overlayConfig) { c.autoHideScrollOverflow = on }
}

// WithRTL mirrors the placement for right-to-left layouts.
func WithRTL(on bool) OverlayOption {
	return func(c *overlayConfig) { c.rtl = on }
}

// WithCache keeps the overlay laid out while it is closed.
func WithCache(on bool) OverlayOption {
	return func(c *overlayConfig) { c.cache = on }
}

// WithMask draws a backdrop over the overlay's viewport.
func WithMask(on bool) OverlayOption {
	return func(c *overlayConfig) { c.hasMask = on }
}

// WithCanCloseByEsc lets Escape request a close. It is on by default.
func WithCanCloseByEsc(on bool) OverlayOption {
	return func(c *overlayConfig) { c.canCloseByEsc = on }
}

// WithCanCloseByOutsideClick lets a click outside the overlay request a
// close. It is on by default.
func WithCanCloseByOutsideClick(on bool) OverlayOption {
	return func(c *overlayConfig) { c.canCloseByOutsideClick = on }
}

// WithCanCloseByMask lets a click on the mask request a close. It is on
// by default.
func WithCanCloseByMask(on bool) OverlayOption {
	return func(c *overlayConfig) { c.canCloseByMask = on }
}

// WithSafeNodes lists elements whose clicks never close the overlay.
func WithSafeNodes(targets ...Target) OverlayOption {
	return func(c *overlayConfig) { c.safeNodes = append(c.safeNodes, targets...) }
}

// WithAutoFocus moves focus into the overlay when it opens and back to
// the previous element when it closes.
func WithAutoFocus(on bool) OverlayOption {
	return func(c *overlayConfig) { c.autoFocus = on }
}

// WithDisableScroll locks scrolling of the main tree while a masked
// overlay is open.
func WithDisableScroll(on bool) OverlayOption {
	return func(c *overlayConfig) { c.disableScroll = on }
}

// WithRepositionInterval sets the minimum time between scroll and resize
// driven placement passes.
func WithRepositionInterval(d time.Duration) OverlayOption {
	return func(c *overlayConfig) { c.interval = d }
}

// WithTarget sets what the overlay is placed against. Clicks on the
// target never close the overlay.
func WithTarget(t Target) OverlayOption {
	return func(c *overlayConfig) { c.target = t }
}

// WithContainer sets where the overlay is mounted. The func is called
// until it returns an element that has been laid out.
func WithContainer(fn func() Element) OverlayOption {
	return func(c *overlayConfig) { c.container = fn }
}

// WithParent nests the overlay under p: clicks inside it do not close p,
// and Escape closes it before p.
func WithParent(p *Overlay) OverlayOption {
	return func(c *overlayConfig) { c.parent = p }
}

// WithBeforePosition lets fn rewrite each placement result before it is
// applied.
func WithBeforePosition(fn func(PlacementResult, PositionContext) PlacementResult) OverlayOption {
	return func(c *overlayConfig) { c.beforePosition = fn }
}

// OnRequestClose is called when the overlay should close. Without it the
// overlay closes itself.
func OnRequestClose(fn func(CloseReason, tcell.Event)) OverlayOption {
	return func(c *overlayConfig) { c.onRequestClose = fn }
}

// OnOpen is called with the wrapper node after the first placement.
func OnOpen(fn func(*Node)) OverlayOption {
	return func(c *overlayConfig) { c.onOpen = fn }
}

// OnClose is called once the overlay is hidden.
func OnClose(fn func()) OverlayOption {
	return func(c *overlayConfig) { c.onClose = fn }
}

// OnPosition is called after every applied placement pass.
func OnPosition(fn func(PlacementResult)) OverlayOption {
	return func(c *overlayConfig) { c.onPosition = fn }
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *log.Logger) OverlayOption {
	return func(c *overlayConfig) { c.logger = l }
}

// WithContent replaces the overlay content. It takes exactly one element.
func WithContent(content ...Element) OverlayOption {
	if len(content) != 1 || content[0] == nil {
		panic("ui: overlay content must be exactly one element")
	}
	return func(c *overlayConfig) { c.content = content[0] }
}

// overlayBox is the positioned wrapper around overlay content.
type overlayBox struct {
	content  Element
	position Position
}

func (b *overlayBox) Size() (int, int)         { return b.content.Size() }
func (b *overlayBox) Position() Position       { return b.position }
func (b *overlayBox) FocusTarget() Element     { return b.content }
func (b *overlayBox) Draw(s Screen, rect Rect) { ResetRect(s, rect, Theme.Popup) }
func (b *overlayBox) Layout(r Rect) *Node {
	n := NewLayoutNode(b, r.X, r.Y, r.W, r.H)
	n.Children = []*Node{b.content.Layout(r)}
	return n
}

// overlayMask is the backdrop under a modal overlay.
type overlayMask struct{}

func (m *overlayMask) Size() (int, int)         { return 0, 0 }
func (m *overlayMask) Draw(s Screen, rect Rect) { ResetRect(s, rect, Theme.Mask) }
func (m *overlayMask) Layout(r Rect) *Node      { return NewLayoutNode(m, r.X, r.Y, r.W, r.H) }

// Overlay is a floating surface positioned next to a target element.
// Its visibility is driven by SetVisible; everything else happens on the
// document's frames.
type Overlay struct {
	id    string
	cfg   overlayConfig
	box   *overlayBox
	mask  *overlayMask
	layer *layer
	doc   *Document
	log   *log.Logger

	state       OverlayState
	visible     bool
	everVisible bool
	open        bool // onOpen fired for the current showing
	container   Element

	repo        *repositioner
	offs        []func()
	cancelMount func()
	cancelPlace func()
	prevFocus   Element
	last        PlacementResult
}

// NewOverlay returns a closed overlay showing content. WithContent, when
// given, takes precedence over content.
func NewOverlay(content Element, opts ...OverlayOption) *Overlay {
	cfg := overlayConfig{
		points:                 DefaultPoints,
		placement:              PlacementBottomStart,
		position:               PositionAbsolute,
		autoAdjust:             true,
		autoHideScrollOverflow: true,
		canCloseByEsc:          true,
		canCloseByOutsideClick: true,
		canCloseByMask:         true,
		interval:               DefaultRepositionInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.content != nil {
		content = cfg.content
	}
	if content == nil {
		panic("ui: overlay content must not be nil")
	}
	o := &Overlay{
		cfg: cfg,
		box: &overlayBox{content: content, position: cfg.position},
		log: cfg.logger,
	}
	if cfg.hasMask {
		o.mask = &overlayMask{}
	}
	return o
}

// ID returns the registry id, empty until the overlay is added to a document.
func (o *Overlay) ID() string { return o.id }

// Content returns the element the overlay shows.
func (o *Overlay) Content() Element { return o.box.content }

func (o *Overlay) State() OverlayState { return o.state }

func (o *Overlay) Lifecycle() OverlayLifecycleState {
	return OverlayLifecycleState{
		Mounted:     o.layer != nil,
		Visible:     o.visible,
		EverVisible: o.everVisible,
		Cache:       o.cfg.cache,
		Container:   o.container,
	}
}

// Node returns the laid-out wrapper node, nil while unmounted.
func (o *Overlay) Node() *Node {
	if o.layer == nil {
		return nil
	}
	return o.layer.node
}

// Placement returns the result of the latest placement pass.
func (o *Overlay) Placement() PlacementResult { return o.last }

// bind connects the overlay to d. Called by Document.AddOverlay.
func (o *Overlay) bind(d *Document) {
	if o.doc == d {
		return
	}
	o.doc = d
	o.id = d.Registry().NewID()
	if o.log == nil {
		o.log = d.Logger()
	}
	o.log = o.log.With("overlay", o.id[:8])
	o.repo = newRepositioner(d, d.Scheduler(), o.cfg.interval, o.log, o.reposition)
	if o.visible {
		o.show()
	}
}

// SetVisible opens or closes the overlay.
func (o *Overlay) SetVisible(v bool) {
	if v == o.visible {
		return
	}
	o.visible = v
	if o.doc == nil {
		return
	}
	if v {
		o.show()
	} else {
		o.hide()
	}
}

// SetTarget changes the target and repositions right away.
func (o *Overlay) SetTarget(t Target) {
	o.cfg.target = t
	o.Reposition()
}

// Reposition schedules a placement pass on the next frame. It also
// retries an overlay whose earlier pass was skipped.
func (o *Overlay) Reposition() {
	if o.layer == nil || o.cancelPlace != nil {
		return
	}
	if o.state != StateVisible && o.state != StateHidden {
		return
	}
	o.cancelPlace = o.doc.Scheduler().NextFrame(func() {
		o.cancelPlace = nil
		o.reposition()
	})
}

func (o *Overlay) setState(s OverlayState) {
	if s == o.state {
		return
	}
	o.log.Debug("lifecycle", "from", o.state, "to", s)
	o.state = s
}

func (o *Overlay) show() {
	o.everVisible = true
	switch o.state {
	case StateCached:
		o.layer.visible = true
		o.layer.placed = false
		o.setState(StateHidden)
		o.doc.invalidate()
		o.watch()
		o.schedulePlace()
	case StateUnmounted:
		o.setState(StateMounting)
		o.mount()
	}
}

// mount resolves the container, retrying on the next frame until it
// exists, then attaches the overlay.
func (o *Overlay) mount() {
	o.cancelMount = nil
	if !o.visible || o.state != StateMounting {
		return
	}
	c := o.resolveMount()
	if c == nil {
		o.log.Debug("container not ready, retrying next frame")
		o.cancelMount = o.doc.Scheduler().NextFrame(o.mount)
		return
	}
	o.attach(c)
}

func (o *Overlay) resolveMount() Element {
	if o.cfg.container == nil {
		return o.doc.Root()
	}
	c := o.cfg.container()
	if c == nil || (c != o.doc.Root() && o.doc.NodeOf(c) == nil) {
		return nil
	}
	return c
}

func (o *Overlay) attach(container Element) {
	o.container = container
	o.layer = &layer{
		content:   o.box,
		container: container,
		visible:   true,
	}
	if o.mask != nil {
		o.layer.mask = o.mask
	}
	o.doc.addLayer(o.layer)
	o.setState(StateHidden)
	o.watch()
	o.schedulePlace()
}

// watch subscribes the repositioner while the layer is shown, placed or not.
func (o *Overlay) watch() {
	o.repo.watch([]Element{o.container, o.box}, o.scrollsTarget)
}

func (o *Overlay) detach() {
	if o.layer != nil {
		o.doc.removeLayer(o.layer)
		o.layer = nil
	}
	o.container = nil
	o.setState(StateUnmounted)
}

// schedulePlace runs the first placement once the layer has been laid out.
func (o *Overlay) schedulePlace() {
	if o.cancelPlace != nil {
		o.cancelPlace()
	}
	o.cancelPlace = o.doc.Scheduler().NextFrame(func() {
		o.cancelPlace = nil
		o.reposition()
	})
}

func (o *Overlay) hide() {
	if o.cancelMount != nil {
		o.cancelMount()
		o.cancelMount = nil
	}
	if o.cancelPlace != nil {
		o.cancelPlace()
		o.cancelPlace = nil
	}
	o.repo.stop()
	if o.open {
		o.close()
	}
	if o.cfg.cache && o.layer != nil {
		o.layer.visible = false
		o.doc.invalidate()
		o.setState(StateCached)
		return
	}
	o.detach()
}

// request builds the placement request from the options.
func (o *Overlay) request() PlacementRequest {
	return PlacementRequest{
		Position:               o.cfg.position,
		Placement:              o.cfg.placement,
		Points:                 o.cfg.points,
		AlignOffset:            o.cfg.alignOffset,
		Offset:                 o.cfg.offset,
		AutoAdjust:             o.cfg.autoAdjust,
		AutoHideScrollOverflow: o.cfg.autoHideScrollOverflow,
		RTL:                    o.cfg.rtl,
		BeforePosition:         o.cfg.beforePosition,
	}
}

// reposition runs one placement pass against the latest layout.
func (o *Overlay) reposition() {
	if o.layer == nil || !o.visible || o.layer.node == nil {
		return
	}
	if o.state != StateHidden && o.state != StateVisible {
		return
	}
	target := o.cfg.target.node(o.doc, o.layer.maskNode)
	res, ok := PlaceNodes(target, o.layer.node, o.doc.NodeOf(o.container), o.request())
	if !ok {
		o.log.Debug("target has no geometry, placement skipped")
		return
	}

	o.last = res
	o.layer.style = res.Style
	o.layer.placed = true
	o.doc.invalidate()
	o.setState(StateVisible)
	if o.cfg.onPosition != nil {
		o.cfg.onPosition(res)
	}
	if !o.open {
		o.opened()
	}
}
