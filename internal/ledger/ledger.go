// Package ledger owns the authoritative seat counts for every tour instance.
// Per instance it tracks confirmed and held seats under a version counter;
// all mutations go through TryHold/Confirm/Release/CancelConfirmed and are
// linearizable per instance. Different instances are fully independent.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Snapshot a consistent read of one instance's counts
type Snapshot struct {
	InstanceID     int64
	MaxGroup       int
	ConfirmedCount int
	HeldCount      int
	Version        int64
}

// SpotsLeft seats neither confirmed nor held
func (s Snapshot) SpotsLeft() int {
	return s.MaxGroup - s.ConfirmedCount - s.HeldCount
}

// IsFull returns true once every seat is confirmed
func (s Snapshot) IsFull() bool {
	return s.ConfirmedCount >= s.MaxGroup
}

// HoldToken a provisional, time-limited reservation of seats
type HoldToken struct {
	ID         uuid.UUID
	InstanceID int64
	Seats      int
	ExpiresAt  time.Time
}

// ChangeFunc is called after every successful mutation, outside the entry
// lock, with a fresh snapshot. Used to drive catalog index refreshes.
type ChangeFunc func(snap Snapshot)

type entry struct {
	mu        sync.Mutex
	maxGroup  int
	confirmed int
	held      int
	version   int64
}

type holdState struct {
	token    HoldToken
	released bool
	applied  bool // confirmed or released
}

// Ledger the in-process availability ledger
type Ledger struct {
	mu      sync.RWMutex
	entries map[int64]*entry

	holdsMu sync.Mutex
	holds   map[uuid.UUID]*holdState

	onChange ChangeFunc
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		entries: make(map[int64]*entry),
		holds:   make(map[uuid.UUID]*holdState),
	}
}

// OnChange registers the change hook. Must be called before concurrent use.
func (l *Ledger) OnChange(fn ChangeFunc) {
	l.onChange = fn
}

// Register adds an instance to the ledger with the given capacity and
// already-confirmed count (used when rebuilding from storage at startup).
// Registering an existing instance is a no-op.
func (l *Ledger) Register(instanceID int64, maxGroup, confirmed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[instanceID]; ok {
		return
	}
	l.entries[instanceID] = &entry{
		maxGroup:  maxGroup,
		confirmed: confirmed,
		version:   1,
	}
}

// Snapshot returns a consistent read of one instance
func (l *Ledger) Snapshot(instanceID int64) (Snapshot, error) {
	e, err := l.entry(instanceID)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotLocked(instanceID, e), nil
}

// TryHold provisionally reserves n seats. The supplied version must match
// the ledger's current version for the instance (optimistic concurrency);
// a mismatch means the caller read a stale snapshot and must re-read.
// Fails fast on capacity exhaustion, never queues.
func (l *Ledger) TryHold(instanceID int64, n int, version int64, ttl time.Duration) (HoldToken, error) {
	if n <= 0 {
		return HoldToken{}, ErrInvalidSeats
	}

	e, err := l.entry(instanceID)
	if err != nil {
		return HoldToken{}, err
	}

	e.mu.Lock()
	if e.version != version {
		e.mu.Unlock()
		return HoldToken{}, ErrVersionConflict
	}
	if e.confirmed+e.held+n > e.maxGroup {
		e.mu.Unlock()
		return HoldToken{}, ErrCapacityExceeded
	}

	e.held += n
	e.version++
	snap := snapshotLocked(instanceID, e)
	e.mu.Unlock()

	token := HoldToken{
		ID:         uuid.New(),
		InstanceID: instanceID,
		Seats:      n,
		ExpiresAt:  time.Now().Add(ttl),
	}

	l.holdsMu.Lock()
	l.holds[token.ID] = &holdState{token: token}
	l.holdsMu.Unlock()

	l.notify(snap)
	return token, nil
}

// RestoreHold re-establishes a hold persisted before a restart, keeping its
// original token so stored bookings can still confirm or release it. Skips
// the version check: restoration replays known-good state, it does not race
// other writers. Restoring an already-known token is a no-op.
func (l *Ledger) RestoreHold(tokenID uuid.UUID, instanceID int64, seats int, expiresAt time.Time) error {
	if seats <= 0 {
		return ErrInvalidSeats
	}

	l.holdsMu.Lock()
	if _, ok := l.holds[tokenID]; ok {
		l.holdsMu.Unlock()
		return nil
	}
	l.holdsMu.Unlock()

	e, err := l.entry(instanceID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.confirmed+e.held+seats > e.maxGroup {
		e.mu.Unlock()
		return ErrCapacityExceeded
	}
	e.held += seats
	e.version++
	snap := snapshotLocked(instanceID, e)
	e.mu.Unlock()

	l.holdsMu.Lock()
	l.holds[tokenID] = &holdState{token: HoldToken{
		ID:         tokenID,
		InstanceID: instanceID,
		Seats:      seats,
		ExpiresAt:  expiresAt,
	}}
	l.holdsMu.Unlock()

	l.notify(snap)
	return nil
}

// Confirm moves a hold's seats from held to confirmed. Expired holds are
// released instead and the call fails with ErrHoldExpired.
func (l *Ledger) Confirm(tokenID uuid.UUID) (Snapshot, error) {
	return l.confirmAt(tokenID, time.Now())
}

func (l *Ledger) confirmAt(tokenID uuid.UUID, now time.Time) (Snapshot, error) {
	l.holdsMu.Lock()
	hs, ok := l.holds[tokenID]
	if !ok || hs.applied {
		l.holdsMu.Unlock()
		if ok && hs.released {
			return Snapshot{}, ErrHoldExpired
		}
		return Snapshot{}, ErrHoldNotFound
	}
	if now.After(hs.token.ExpiresAt) {
		l.holdsMu.Unlock()
		// release the seats, then report expiry to the caller
		_ = l.Release(tokenID)
		return Snapshot{}, ErrHoldExpired
	}
	hs.applied = true
	token := hs.token
	l.holdsMu.Unlock()

	e, err := l.entry(token.InstanceID)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	e.held -= token.Seats
	e.confirmed += token.Seats
	e.version++
	snap := snapshotLocked(token.InstanceID, e)
	e.mu.Unlock()

	l.notify(snap)
	return snap, nil
}

// Release returns a hold's seats to the pool. Idempotent: releasing an
// unknown or already-released token is a no-op.
func (l *Ledger) Release(tokenID uuid.UUID) error {
	l.holdsMu.Lock()
	hs, ok := l.holds[tokenID]
	if !ok || hs.applied {
		l.holdsMu.Unlock()
		return nil
	}
	hs.applied = true
	hs.released = true
	token := hs.token
	l.holdsMu.Unlock()

	e, err := l.entry(token.InstanceID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.held -= token.Seats
	e.version++
	snap := snapshotLocked(token.InstanceID, e)
	e.mu.Unlock()

	l.notify(snap)
	return nil
}

// CancelConfirmed returns n confirmed seats to the pool (the reverse of
// Confirm), used when a confirmed booking is cancelled
func (l *Ledger) CancelConfirmed(instanceID int64, n int) (Snapshot, error) {
	if n <= 0 {
		return Snapshot{}, ErrInvalidSeats
	}

	e, err := l.entry(instanceID)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	if e.confirmed < n {
		e.mu.Unlock()
		return Snapshot{}, ErrNothingConfirmed
	}
	e.confirmed -= n
	e.version++
	snap := snapshotLocked(instanceID, e)
	e.mu.Unlock()

	l.notify(snap)
	return snap, nil
}

func (l *Ledger) entry(instanceID int64) (*entry, error) {
	l.mu.RLock()
	e, ok := l.entries[instanceID]
	l.mu.RUnlock()
	if !ok {
		return nil, ErrInstanceNotFound
	}
	return e, nil
}

func (l *Ledger) notify(snap Snapshot) {
	if l.onChange != nil {
		l.onChange(snap)
	}
}

func snapshotLocked(instanceID int64, e *entry) Snapshot {
	return Snapshot{
		InstanceID:     instanceID,
		MaxGroup:       e.maxGroup,
		ConfirmedCount: e.confirmed,
		HeldCount:      e.held,
		Version:        e.version,
	}
}
