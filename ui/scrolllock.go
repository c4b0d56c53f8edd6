package ui

// BodyHost is the document-level style a ScrollLock edits.
type BodyHost interface {
	BodyStyle() BodyStyle
	SetBodyStyle(BodyStyle)
	ScrollbarWidth() int
}

type lockRecord struct {
	owner any
	saved BodyStyle
}

// ScrollLock stops the main tree from scrolling while modal overlays are
// open. Locks nest: each Push saves the body style it found, and the
// style is only restored once every lock pushed after it is gone.
type ScrollLock struct {
	body    BodyHost
	records []lockRecord
}

func NewScrollLock(body BodyHost) *ScrollLock {
	return &ScrollLock{body: body}
}

// Push saves the current body style and locks scrolling for owner.
// Pushing an owner that already holds a lock does nothing.
func (l *ScrollLock) Push(owner any) {
	if l.index(owner) >= 0 {
		return
	}
	saved := l.body.BodyStyle()
	l.records = append(l.records, lockRecord{owner: owner, saved: saved})

	if saved.Overflow == OverflowHidden {
		// already locked, the scrollbar gutter is padded
		return
	}
	locked := saved
	locked.Overflow = OverflowHidden
	locked.PaddingRight = saved.PaddingRight + l.body.ScrollbarWidth()
	l.body.SetBodyStyle(locked)
}

// Pop releases the lock of owner. The saved style is restored only when
// owner pushed last; otherwise it is handed to the lock pushed right
// after owner, which restores it in turn.
func (l *ScrollLock) Pop(owner any) {
	i := l.index(owner)
	if i < 0 {
		return
	}
	rec := l.records[i]
	if i == len(l.records)-1 {
		l.body.SetBodyStyle(rec.saved)
	} else {
		l.records[i+1].saved = rec.saved
	}
	l.records = append(l.records[:i], l.records[i+1:]...)
}

// Locked reports whether any lock is held.
func (l *ScrollLock) Locked() bool { return len(l.records) > 0 }

func (l *ScrollLock) index(owner any) int {
	for i, r := range l.records {
		if r.owner == owner {
			return i
		}
	}
	return -1
}
