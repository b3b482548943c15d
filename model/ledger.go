package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jinzhu/copier"
)

var (
	// ErrUTXONotFound is returned when looking up or removing an output that
	// is not in the pool.
	ErrUTXONotFound = errors.New("utxo not found")
	// ErrUTXOExists is returned when inserting an output whose identifier is
	// already in the pool.
	ErrUTXOExists = errors.New("utxo already exists")
)

// Unspent transaction output identifier.
type UTXO struct {
	// Hex string of the transaction.
	PrevTxHash string
	// The index of the output in that transaction. Together with PrevTxHash, it identifies the unique output.
	Index int64
}

func (u UTXO) String() string {
	return fmt.Sprintf("%s:%d", u.PrevTxHash, u.Index)
}

// PoolWriter is handed to UTXOPool.Update; changes made through it are
// committed together or not at all.
type PoolWriter interface {
	AddUTXO(utxo UTXO, output Output) error
	RemoveUTXO(utxo UTXO) error
}

// UTXOPool is the capability surface validation and acceptance need from a
// pool of unspent outputs, regardless of how it is stored.
type UTXOPool interface {
	// GetTxOutput returns the output for utxo, or ErrUTXONotFound.
	GetTxOutput(utxo UTXO) (Output, error)
	Contains(utxo UTXO) (bool, error)
	// GetAllUTXO lists every identifier in the pool, sorted by hash and index.
	GetAllUTXO() ([]UTXO, error)
	// Update runs fn as one atomic unit. If fn returns an error nothing it
	// did is visible afterwards.
	Update(fn func(w PoolWriter) error) error
	// Copy returns an independent deep copy of the pool.
	Copy() (UTXOPool, error)
}

// Ledger is simply a pool of UTXO held in memory.
type Ledger struct {
	L map[UTXO]Output
}

func NewLedger() *Ledger {
	return &Ledger{
		L: make(map[UTXO]Output),
	}
}

// AddUTXO inserts an output directly, outside of any update unit. It is meant
// for seeding a pool.
func (l *Ledger) AddUTXO(utxo UTXO, output Output) error {
	if _, ok := l.L[utxo]; ok {
		return fmt.Errorf("%w: %s", ErrUTXOExists, utxo)
	}
	l.L[utxo] = output
	return nil
}

// RemoveUTXO deletes an output directly, outside of any update unit.
func (l *Ledger) RemoveUTXO(utxo UTXO) error {
	if _, ok := l.L[utxo]; !ok {
		return fmt.Errorf("%w: %s", ErrUTXONotFound, utxo)
	}
	delete(l.L, utxo)
	return nil
}

func (l *Ledger) GetTxOutput(utxo UTXO) (Output, error) {
	output, ok := l.L[utxo]
	if !ok {
		return Output{}, fmt.Errorf("%w: %s", ErrUTXONotFound, utxo)
	}
	return output, nil
}

func (l *Ledger) Contains(utxo UTXO) (bool, error) {
	_, ok := l.L[utxo]
	return ok, nil
}

func (l *Ledger) GetAllUTXO() ([]UTXO, error) {
	utxos := make([]UTXO, 0, len(l.L))
	for u := range l.L {
		utxos = append(utxos, u)
	}
	SortUTXOs(utxos)
	return utxos, nil
}

func (l *Ledger) Update(fn func(w PoolWriter) error) error {
	w := &ledgerWriter{
		l:       l,
		removed: make(map[UTXO]bool),
		added:   make(map[UTXO]Output),
	}
	if err := fn(w); err != nil {
		return err
	}
	// Removals go first so that an identifier removed and re-added in the
	// same unit ends up present.
	for u := range w.removed {
		delete(l.L, u)
	}
	for u, out := range w.added {
		l.L[u] = out
	}
	return nil
}

// Copy returns a deep copy of the ledger. Later changes to either side are
// not visible to the other.
func (l *Ledger) Copy() (UTXOPool, error) {
	cp := &Ledger{
		L: make(map[UTXO]Output, len(l.L)),
	}
	for u, out := range l.L {
		var o Output
		if err := copier.CopyWithOption(&o, &out, copier.Option{DeepCopy: true}); err != nil {
			return nil, err
		}
		cp.L[u] = o
	}
	return cp, nil
}

// ledgerWriter stages changes against a Ledger until the update unit ends.
type ledgerWriter struct {
	l       *Ledger
	removed map[UTXO]bool
	added   map[UTXO]Output
}

func (w *ledgerWriter) exists(utxo UTXO) bool {
	if _, ok := w.added[utxo]; ok {
		return true
	}
	_, ok := w.l.L[utxo]
	return ok && !w.removed[utxo]
}

func (w *ledgerWriter) AddUTXO(utxo UTXO, output Output) error {
	if w.exists(utxo) {
		return fmt.Errorf("%w: %s", ErrUTXOExists, utxo)
	}
	w.added[utxo] = output
	return nil
}

func (w *ledgerWriter) RemoveUTXO(utxo UTXO) error {
	if !w.exists(utxo) {
		return fmt.Errorf("%w: %s", ErrUTXONotFound, utxo)
	}
	if _, ok := w.added[utxo]; ok {
		delete(w.added, utxo)
		return nil
	}
	w.removed[utxo] = true
	return nil
}

// SortUTXOs orders identifiers by transaction hash, then by index.
func SortUTXOs(utxos []UTXO) {
	sort.Slice(utxos, func(i, j int) bool {
		if utxos[i].PrevTxHash != utxos[j].PrevTxHash {
			return utxos[i].PrevTxHash < utxos[j].PrevTxHash
		}
		return utxos[i].Index < utxos[j].Index
	})
}
