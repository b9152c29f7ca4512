package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrQuotationNotFound = errors.New("quotation not found")

type DetailState int

const (
	DetailLoading DetailState = iota
	DetailError
	DetailLoaded
	DetailClosed
)

func (s DetailState) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailError:
		return "error"
	case DetailLoaded:
		return "loaded"
	default:
		return "closed"
	}
}

// KeyEvent is a key press seen while the detail view is open.
type KeyEvent struct {
	Key  string
	Ctrl bool
	Meta bool
}

// Shortcuts swallowed while the detail view is open: copy, save, print,
// select all, view source and the devtools chords. Deterrent only.
var (
	blockedChords = map[string]bool{"c": true, "s": true, "p": true, "a": true, "u": true, "i": true, "j": true}
	blockedKeys   = map[string]bool{"F12": true, "PrintScreen": true}
)

// DetailView shows the sensitive projection of one quotation. The fetch
// runs in the background; Done is closed once it settles.
type DetailView struct {
	id      int64
	cancel  context.CancelFunc
	done    chan struct{}
	onClose func(*DetailView)

	mu    sync.Mutex
	state DetailState
	data  *SensitiveQuotation
	err   error
}

// OpenDetail starts fetching id and returns immediately in the loading state.
func OpenDetail(ctx context.Context, fetcher SensitiveFetcher, id int64, onClose func(*DetailView)) *DetailView {
	ctx, cancel := context.WithCancel(ctx)
	d := &DetailView{
		id:      id,
		cancel:  cancel,
		done:    make(chan struct{}),
		onClose: onClose,
		state:   DetailLoading,
	}
	go d.load(ctx, fetcher)
	return d
}

func (d *DetailView) load(ctx context.Context, fetcher SensitiveFetcher) {
	defer close(d.done)
	data, err := fetcher.GetSensitiveQuotationData(ctx, d.id)
	if err == nil && data == nil {
		err = ErrQuotationNotFound
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == DetailClosed {
		return
	}
	if err != nil {
		d.state, d.err = DetailError, err
		return
	}
	d.state, d.data = DetailLoaded, data
}

func (d *DetailView) ID() int64 { return d.id }

func (d *DetailView) Done() <-chan struct{} { return d.done }

func (d *DetailView) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Data is nil unless the view is loaded.
func (d *DetailView) Data() *SensitiveQuotation {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DetailLoaded {
		return nil
	}
	return d.data
}

func (d *DetailView) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Close is idempotent and cancels a pending fetch.
func (d *DetailView) Close() {
	d.mu.Lock()
	if d.state == DetailClosed {
		d.mu.Unlock()
		return
	}
	d.state = DetailClosed
	d.data = nil
	d.mu.Unlock()

	d.cancel()
	if d.onClose != nil {
		d.onClose(d)
	}
}

func (d *DetailView) open() bool {
	return d.State() != DetailClosed
}

func (d *DetailView) SuppressesContextMenu() bool {
	return d.open()
}

// InterceptKey reports whether the key press must be swallowed.
func (d *DetailView) InterceptKey(ev KeyEvent) bool {
	if !d.open() {
		return false
	}
	if blockedKeys[ev.Key] {
		return true
	}
	return (ev.Ctrl || ev.Meta) && blockedChords[strings.ToLower(ev.Key)]
}

// HandleVisibilityChange closes the view when the tab becomes hidden.
func (d *DetailView) HandleVisibilityChange(hidden bool) {
	if hidden {
		d.Close()
	}
}

// FormatCurrency renders an amount as US dollars with two decimals and
// thousands separators, e.g. $1,234.50.
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if amount.Round(2).Sign() < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func FormatPercentage(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}
