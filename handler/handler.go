package handler

import (
	"io"
	"sync"

	"github.com/Luismorlan/utxo_handler/metrics"
	"github.com/Luismorlan/utxo_handler/model"
	"github.com/Luismorlan/utxo_handler/utils"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

// A TxHandler owns a private UTXO pool and folds epochs of candidate
// transactions into it.
type TxHandler struct {
	// The pool it maintains. Only this handler ever touches it.
	pool model.UTXOPool
	// Checks input signatures against the owner's credential.
	verifier utils.Verifier
	// Optional, nil disables metrics.
	metrics *metrics.Collector
	logger  *log.Logger
	// Makes the handler's private copy of the caller's pool.
	copyPool func(model.UTXOPool) (model.UTXOPool, error)
	// A single mutex for changing internal state. Epochs never interleave.
	m sync.Mutex
}

type Option func(*TxHandler)

// WithVerifier sets the signature scheme. Default is RSA-PSS.
func WithVerifier(v utils.Verifier) Option {
	return func(h *TxHandler) {
		h.verifier = v
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(h *TxHandler) {
		h.metrics = c
	}
}

func WithLogger(l *log.Logger) Option {
	return func(h *TxHandler) {
		h.logger = l
	}
}

// WithPoolCopier replaces UTXOPool.Copy as the way the handler takes its
// private copy, e.g. to move the pool into a different store.
func WithPoolCopier(fn func(model.UTXOPool) (model.UTXOPool, error)) Option {
	return func(h *TxHandler) {
		h.copyPool = fn
	}
}

// NewTxHandler creates a handler whose current pool is a deep copy of pool.
// Later changes made by the handler are not visible through pool.
func NewTxHandler(pool model.UTXOPool, opts ...Option) (*TxHandler, error) {
	h := &TxHandler{
		verifier: utils.RSAVerifier{},
		logger:   log.StandardLogger(),
		copyPool: func(p model.UTXOPool) (model.UTXOPool, error) {
			return p.Copy()
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	cp, err := h.copyPool(pool)
	if err != nil {
		return nil, err
	}
	h.pool = cp
	return h, nil
}

// IsValidTx reports whether tx is valid against the current pool. It has no
// side effects.
func (h *TxHandler) IsValidTx(tx *model.Transaction) bool {
	return h.ValidateTx(tx) == nil
}

// ValidateTx is IsValidTx with the reason of the rejection.
func (h *TxHandler) ValidateTx(tx *model.Transaction) error {
	h.m.Lock()
	defer h.m.Unlock()

	return utils.ValidateTransaction(tx, h.pool, h.verifier)
}

// HandleTxs handles each epoch by receiving an unordered array of proposed
// transactions, checking each transaction for correctness, returning a
// mutually valid array of accepted transactions, and updating the current
// UTXO pool as appropriate.
//
// A transaction IsValidTx accepts can still be rejected here: besides losing
// an output to an earlier candidate, its outputs are refused when one of its
// (hash, index) identifiers is already in the pool. Existing entries are
// never overwritten.
func (h *TxHandler) HandleTxs(txs []*model.Transaction) []*model.Transaction {
	return h.HandleEpoch(txs).Accepted
}

// Snapshot returns a deep copy of the current pool.
func (h *TxHandler) Snapshot() (model.UTXOPool, error) {
	h.m.Lock()
	defer h.m.Unlock()

	return h.pool.Copy()
}

// Close releases the pool if its store holds resources.
func (h *TxHandler) Close() error {
	h.m.Lock()
	defer h.m.Unlock()

	if c, ok := h.pool.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newEpochID() string {
	return uuid.NewV4().String()
}
