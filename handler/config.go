package handler

import (
	"github.com/Luismorlan/utxo_handler/config"
	"github.com/Luismorlan/utxo_handler/metrics"
	"github.com/Luismorlan/utxo_handler/model"
	"github.com/Luismorlan/utxo_handler/storage"
	"github.com/Luismorlan/utxo_handler/utils"
	log "github.com/sirupsen/logrus"
)

// NewFromConfig builds a handler over a copy of pool as described by cfg:
// the verifier for the configured scheme, and the handler's pool kept in the
// configured backend. logger and collector may be nil.
func NewFromConfig(cfg config.AppConfig, pool model.UTXOPool, logger *log.Logger, collector *metrics.Collector) (*TxHandler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	verifier, err := utils.NewVerifier(cfg.SignatureScheme)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithVerifier(verifier),
		WithLogger(logger),
		WithMetrics(collector),
	}
	if cfg.PoolBackend == config.PoolBackendBadger {
		opts = append(opts, WithPoolCopier(func(p model.UTXOPool) (model.UTXOPool, error) {
			return storage.NewBadgerLedgerFrom(p, newBadgerLogger(logger))
		}))
	}
	return NewTxHandler(pool, opts...)
}

// badgerLogger sends badger's logs through logrus, with its info messages
// demoted to debug.
type badgerLogger struct {
	*log.Entry
}

func newBadgerLogger(logger *log.Logger) badgerLogger {
	return badgerLogger{logger.WithField("component", "badger")}
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.Entry.Debugf(format, args...)
}
