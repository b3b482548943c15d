package storage

import (
	"errors"
	"fmt"

	"github.com/Luismorlan/utxo_handler/model"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
)

// Pools are small and short lived, badger's default 64MB memtables are not needed.
const memTableSize = 16 << 20

// seedBatchSize bounds how many entries go into one badger transaction when
// seeding a pool, well below what a 16MB memtable accepts.
const seedBatchSize = 1000

// utxoRecord is what gets stored for every unspent output. The identifier is
// kept in the value as well so that enumeration doesn't need key decoding.
type utxoRecord struct {
	PrevTxHash string
	Index      int64
	Value      int64
	PublicKey  []byte
}

func newUtxoRecord(utxo model.UTXO, output model.Output) utxoRecord {
	return utxoRecord{
		PrevTxHash: utxo.PrevTxHash,
		Index:      utxo.Index,
		Value:      int64(output.Value),
		PublicKey:  output.PublicKey,
	}
}

func (r utxoRecord) utxo() model.UTXO {
	return model.UTXO{PrevTxHash: r.PrevTxHash, Index: r.Index}
}

func (r utxoRecord) output() model.Output {
	return model.Output{Value: model.Amount(r.Value), PublicKey: r.PublicKey}
}

// BadgerLedger is a UTXO pool kept in a badgerhold store. The underlying
// badger instance runs in memory mode, nothing touches the disk.
type BadgerLedger struct {
	store  *badgerhold.Store
	logger badger.Logger
}

// NewBadgerLedger opens an empty in-memory pool. logger may be nil, in which
// case badger's own logging is disabled.
func NewBadgerLedger(logger badger.Logger) (*BadgerLedger, error) {
	store, err := openStore(logger)
	if err != nil {
		return nil, fmt.Errorf("opening utxo store: %w", err)
	}
	return &BadgerLedger{store: store, logger: logger}, nil
}

// NewBadgerLedgerFrom opens an in-memory pool seeded with every entry of src.
func NewBadgerLedgerFrom(src model.UTXOPool, logger badger.Logger) (*BadgerLedger, error) {
	l, err := NewBadgerLedger(logger)
	if err != nil {
		return nil, err
	}
	if err := copyInto(l, src); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func openStore(logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(logger).
		WithCompression(options.None).
		WithBlockCacheSize(0).
		WithMemTableSize(memTableSize)

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

// Close releases the badger instance. The pool is unusable afterwards.
func (l *BadgerLedger) Close() error {
	return l.store.Close()
}

// AddUTXO inserts an output outside of any update unit, for seeding.
func (l *BadgerLedger) AddUTXO(utxo model.UTXO, output model.Output) error {
	return l.Update(func(w model.PoolWriter) error {
		return w.AddUTXO(utxo, output)
	})
}

func (l *BadgerLedger) GetTxOutput(utxo model.UTXO) (model.Output, error) {
	var rec utxoRecord
	if err := l.store.Get(utxo, &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return model.Output{}, fmt.Errorf("%w: %s", model.ErrUTXONotFound, utxo)
		}
		return model.Output{}, err
	}
	return rec.output(), nil
}

func (l *BadgerLedger) Contains(utxo model.UTXO) (bool, error) {
	_, err := l.GetTxOutput(utxo)
	if err != nil {
		if errors.Is(err, model.ErrUTXONotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *BadgerLedger) GetAllUTXO() ([]model.UTXO, error) {
	var recs []utxoRecord
	if err := l.store.Find(&recs, nil); err != nil {
		return nil, err
	}
	utxos := make([]model.UTXO, 0, len(recs))
	for _, r := range recs {
		utxos = append(utxos, r.utxo())
	}
	model.SortUTXOs(utxos)
	return utxos, nil
}

// Update runs fn inside a single read-write badger transaction. Returning
// an error from fn discards the transaction.
func (l *BadgerLedger) Update(fn func(w model.PoolWriter) error) error {
	return l.store.Badger().Update(func(txn *badger.Txn) error {
		return fn(&badgerWriter{store: l.store, txn: txn})
	})
}

// Copy returns a new in-memory pool holding the same entries.
func (l *BadgerLedger) Copy() (model.UTXOPool, error) {
	return NewBadgerLedgerFrom(l, l.logger)
}

type badgerWriter struct {
	store *badgerhold.Store
	txn   *badger.Txn
}

func (w *badgerWriter) AddUTXO(utxo model.UTXO, output model.Output) error {
	err := w.store.TxInsert(w.txn, utxo, newUtxoRecord(utxo, output))
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return fmt.Errorf("%w: %s", model.ErrUTXOExists, utxo)
	}
	return err
}

func (w *badgerWriter) RemoveUTXO(utxo model.UTXO) error {
	var rec utxoRecord
	if err := w.store.TxGet(w.txn, utxo, &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return fmt.Errorf("%w: %s", model.ErrUTXONotFound, utxo)
		}
		return err
	}
	return w.store.TxDelete(w.txn, utxo, utxoRecord{})
}

// copyInto seeds dst with every entry of src. Entries are committed in
// batches, so a failure part way leaves dst partially seeded.
func copyInto(dst *BadgerLedger, src model.UTXOPool) error {
	utxos, err := src.GetAllUTXO()
	if err != nil {
		return err
	}
	for start := 0; start < len(utxos); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(utxos) {
			end = len(utxos)
		}
		batch := utxos[start:end]
		err := dst.Update(func(w model.PoolWriter) error {
			for _, u := range batch {
				out, err := src.GetTxOutput(u)
				if err != nil {
					return err
				}
				if err := w.AddUTXO(u, out); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seeding utxo store: %w", err)
		}
	}
	return nil
}
