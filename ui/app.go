package ui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
)

// ErrNoScreen is returned by Run when no terminal screen can be opened.
var ErrNoScreen = errors.New("ui: no screen available")

// App runs a Document on a tcell screen.
type App struct {
	Screen  Screen    // created by Run when nil
	QuitKey tcell.Key // key to quit the app, default is Ctrl+C

	doc      *Document
	sched    *loopScheduler
	done     chan struct{}
	stopOnce sync.Once
}

func NewApp(root Element) *App {
	sched := &loopScheduler{}
	return &App{
		QuitKey: tcell.KeyCtrlC,
		doc:     NewDocument(root, sched),
		sched:   sched,
		done:    make(chan struct{}),
	}
}

func (a *App) Document() *Document { return a.doc }

func (a *App) SetLogger(l *log.Logger) { a.doc.SetLogger(l) }

// AddOverlay binds o to the app's document.
func (a *App) AddOverlay(o *Overlay) { a.doc.AddOverlay(o) }

func (a *App) Focus(e Element) { a.doc.Focus(e) }

// Post runs fn on the UI goroutine. It is safe to call from any goroutine.
func (a *App) Post(fn func()) { a.sched.post(fn) }

// Render lays out the document, runs the frame callbacks and draws.
func (a *App) Render() {
	w, h := a.Screen.Size()
	a.doc.Layout(w, h)
	if a.sched.runFrames() || a.doc.Dirty() {
		a.doc.Layout(w, h)
	}
	a.Screen.Clear()
	a.Screen.HideCursor()
	a.doc.Draw(a.Screen)
	a.Screen.Show()
}

func (a *App) Run() error {
	if a.Screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoScreen, err)
		}
		a.Screen = s
	}
	if err := a.Screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer a.Screen.Fini()
	a.Screen.EnableMouse()
	a.sched.attach(a.Screen)

	a.Render()
	for {
		select {
		case <-a.done:
			return nil
		default:
		}

		ev := a.Screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			a.Screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == a.QuitKey {
				return nil
			}
			a.doc.HandleKey(ev)
		case *tcell.EventMouse:
			a.doc.HandleMouse(ev)
		case *tcell.EventInterrupt:
			if fn, ok := ev.Data().(func()); ok && fn != nil {
				fn()
			}
		}
		// redrawing after every event is efficient enough
		// and the most concise for simple TUI
		a.Render()
	}
}

// Stop makes Run return. It is safe to call from any goroutine.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		close(a.done)
		a.sched.post(nil)
	})
}
