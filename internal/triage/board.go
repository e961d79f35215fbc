package triage

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/glabrego/subtriage/internal/subscription"
)

var (
	ErrUnknownRecord      = errors.New("unknown record")
	ErrTransitionInFlight = errors.New("record already has a classification in flight")
	ErrNotInFlight        = errors.New("no classification in flight for record")
)

// Filter is either FilterAll or one of the subscription statuses.
type Filter string

const FilterAll Filter = "all"

// Filters lists the filter cycle order.
var Filters = []Filter{
	FilterAll,
	Filter(subscription.StatusPending),
	Filter(subscription.StatusKeep),
	Filter(subscription.StatusToss),
	Filter(subscription.StatusArchive),
}

func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	if f == FilterAll || subscription.Status(f).Valid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q", raw)
}

// Next returns the filter that follows f in the cycle.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

func (f Filter) Matches(status subscription.Status) bool {
	return f == FilterAll || subscription.Status(f) == status
}

// Direction is the way a card leaves the screen when classified.
type Direction string

const (
	DirectionRight Direction = "right"
	DirectionLeft  Direction = "left"
	DirectionDown  Direction = "down"
)

func DirectionFor(status subscription.Status) Direction {
	switch status {
	case subscription.StatusKeep:
		return DirectionRight
	case subscription.StatusToss:
		return DirectionLeft
	case subscription.StatusArchive:
		return DirectionDown
	}
	return ""
}

// Transition is a classification that has started but not yet settled.
type Transition struct {
	ID        string
	Status    subscription.Status
	Direction Direction
	// ClearSubscription is set when the remote subscription was removed.
	ClearSubscription bool
	// Generation ties the transition to the list it was started on.
	Generation uint64
}

type Stats struct {
	Total   int
	Pending int
	Keep    int
	Toss    int
	Archive int
}

// Board holds the working list and the derived view state. It is not safe for
// concurrent use; the TUI drives it from its update loop.
type Board struct {
	records    []subscription.Record
	search     string
	filter     Filter
	cursor     int
	inFlight   map[string]Transition
	generation uint64
}

func NewBoard(records []subscription.Record, filter Filter) *Board {
	if filter == "" {
		filter = Filter(subscription.StatusPending)
	}
	b := &Board{filter: filter}
	b.Replace(records)
	return b
}

// Replace swaps in a freshly imported list. Transitions begun on the
// previous list are dropped and can no longer be committed.
func (b *Board) Replace(records []subscription.Record) {
	b.records = subscription.Normalize(records)
	b.cursor = 0
	b.inFlight = make(map[string]Transition)
	b.generation++
}

func (b *Board) SetSearchTerm(term string) {
	b.search = term
	b.cursor = 0
}

func (b *Board) SetFilter(filter Filter) {
	b.filter = filter
	b.cursor = 0
}

func (b *Board) SearchTerm() string { return b.search }
func (b *Board) Filter() Filter     { return b.filter }
func (b *Board) Cursor() int        { return b.cursor }
func (b *Board) Len() int           { return len(b.records) }

// FilteredView returns the records matching the search term and filter, in
// list order.
func (b *Board) FilteredView() []subscription.Record {
	term := strings.ToLower(b.search)
	out := make([]subscription.Record, 0, len(b.records))
	for _, r := range b.records {
		if !b.filter.Matches(r.Status) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Name), term) &&
			!strings.Contains(strings.ToLower(r.Handle), term) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

// Current returns the record under the cursor. ok is false on an empty view.
func (b *Board) Current() (subscription.Record, bool) {
	view := b.FilteredView()
	if len(view) == 0 {
		return subscription.Record{}, false
	}
	return view[clampCursor(b.cursor, len(view))], true
}

func (b *Board) Advance(delta int) {
	b.cursor = clampCursor(b.cursor+delta, len(b.FilteredView()))
}

func (b *Board) Select(index int) {
	b.cursor = clampCursor(index, len(b.FilteredView()))
}

// Record looks up a record by id regardless of the active view.
func (b *Board) Record(id string) (subscription.Record, bool) {
	i := b.indexOf(id)
	if i < 0 {
		return subscription.Record{}, false
	}
	return b.records[i].Clone(), true
}

func (b *Board) InFlight(id string) bool {
	_, ok := b.inFlight[id]
	return ok
}

// Transition returns the unsettled classification of id, if any.
func (b *Board) Transition(id string) (Transition, bool) {
	t, ok := b.inFlight[id]
	return t, ok
}

// Pending reports whether t is the transition currently in flight for its
// record on this list.
func (b *Board) Pending(t Transition) bool {
	current, ok := b.inFlight[t.ID]
	return ok && current.Generation == t.Generation && t.Generation == b.generation
}

// Begin starts classifying id into status. While a transition is in flight
// any further Begin on the same record is rejected.
func (b *Board) Begin(id string, status subscription.Status) (Transition, error) {
	if !status.Valid() || status == subscription.StatusPending {
		return Transition{}, fmt.Errorf("cannot classify into %q", status)
	}
	if b.indexOf(id) < 0 {
		return Transition{}, fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}
	if b.InFlight(id) {
		return Transition{}, fmt.Errorf("%w: %s", ErrTransitionInFlight, id)
	}
	t := Transition{ID: id, Status: status, Direction: DirectionFor(status), Generation: b.generation}
	b.inFlight[id] = t
	return t, nil
}

// Abort drops t and leaves the record untouched. A transition from an
// earlier list is ignored.
func (b *Board) Abort(t Transition) {
	if b.Pending(t) {
		delete(b.inFlight, t.ID)
	}
}

func (b *Board) AttachSubscription(id, subscriptionID string) error {
	i := b.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}
	b.records[i].SubscriptionID = subscriptionID
	return nil
}

// Commit settles a transition: the status is written and the cursor moves on.
// If the record drops out of the filtered view the cursor stays put, stepping
// back only when it would fall off the end. A transition that was aborted, or
// dropped by Replace, is rejected.
func (b *Board) Commit(t Transition) error {
	if !b.Pending(t) {
		return fmt.Errorf("%w: %s", ErrNotInFlight, t.ID)
	}
	i := b.indexOf(t.ID)
	if i < 0 {
		delete(b.inFlight, t.ID)
		return fmt.Errorf("%w: %s", ErrUnknownRecord, t.ID)
	}
	b.records[i].Status = t.Status
	if t.ClearSubscription {
		b.records[i].SubscriptionID = ""
	}
	delete(b.inFlight, t.ID)

	size := len(b.FilteredView())
	leaves := b.filter != FilterAll && !b.filter.Matches(t.Status)
	if leaves {
		if b.cursor >= size && b.cursor > 0 {
			b.cursor--
		}
		b.cursor = clampCursor(b.cursor, size)
		return nil
	}
	b.cursor = clampCursor(b.cursor+1, size)
	return nil
}

// Records returns the full list in import order regardless of filter.
func (b *Board) Records() []subscription.Record {
	out := make([]subscription.Record, len(b.records))
	for i, r := range b.records {
		out[i] = r.Clone()
	}
	return out
}

func (b *Board) Archived() []subscription.Record {
	out := make([]subscription.Record, 0)
	for _, r := range b.records {
		if r.Status == subscription.StatusArchive {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (b *Board) Stats() Stats {
	s := Stats{Total: len(b.records)}
	for _, r := range b.records {
		switch r.Status {
		case subscription.StatusPending:
			s.Pending++
		case subscription.StatusKeep:
			s.Keep++
		case subscription.StatusToss:
			s.Toss++
		case subscription.StatusArchive:
			s.Archive++
		}
	}
	return s
}

func (b *Board) indexOf(id string) int {
	for i, r := range b.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func clampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// ExportSnapshot writes the full list, statuses included, as JSON.
func (b *Board) ExportSnapshot(w io.Writer) error {
	return subscription.WriteJSON(w, b.records)
}
