package handler

import (
	"github.com/Luismorlan/utxo_handler/model"
	"github.com/Luismorlan/utxo_handler/utils"
	log "github.com/sirupsen/logrus"
)

// Rejection records why a candidate was left out of an epoch.
type Rejection struct {
	Tx     *model.Transaction
	Reason string
	Err    error
}

// EpochResult is the outcome of one HandleEpoch call.
type EpochResult struct {
	// ID tags the log lines of this epoch.
	ID string
	// Accepted transactions, in the order they were given.
	Accepted []*model.Transaction
	Rejected []Rejection
	// Fees is the total surplus of inputs over outputs of the accepted
	// transactions. It is only reported, the pool does not hold it.
	Fees model.Amount
}

// HandleEpoch is HandleTxs reporting the rejected candidates with their
// reasons and the fees of the accepted ones.
//
// Candidates are processed strictly one after the other. An accepted
// candidate changes the pool before the next is validated, which is what
// rejects a later spend of the same output. The selection is first-fit in the
// given order.
func (h *TxHandler) HandleEpoch(txs []*model.Transaction) EpochResult {
	h.m.Lock()
	defer h.m.Unlock()

	res := EpochResult{
		ID:       newEpochID(),
		Accepted: make([]*model.Transaction, 0, len(txs)),
	}
	logger := h.logger.WithField("epoch", res.ID)

	for _, tx := range txs {
		fee, err := utils.HandleTransaction(tx, h.pool, h.verifier)
		if err != nil {
			reason := utils.RejectReason(err)
			logger.WithFields(log.Fields{
				"tx":     tx.Hash,
				"reason": reason,
			}).Debug(err)
			res.Rejected = append(res.Rejected, Rejection{Tx: tx, Reason: reason, Err: err})
			if h.metrics != nil {
				h.metrics.Rejected(reason)
			}
			continue
		}

		res.Accepted = append(res.Accepted, tx)
		if h.metrics != nil {
			h.metrics.Accepted()
		}
		if total, err := model.SafeAdd(res.Fees, fee); err != nil {
			logger.WithField("tx", tx.Hash).Warn("epoch fee total overflows, not counting this fee")
		} else {
			res.Fees = total
		}
	}

	fields := log.Fields{
		"accepted": len(res.Accepted),
		"rejected": len(res.Rejected),
		"fees":     res.Fees,
	}
	if utxos, err := h.pool.GetAllUTXO(); err != nil {
		logger.WithError(err).Warn("failed to enumerate pool")
	} else {
		fields["pool_size"] = len(utxos)
		if h.metrics != nil {
			h.metrics.SetPoolSize(len(utxos))
		}
	}
	logger.WithFields(fields).Info("epoch handled")

	return res
}
