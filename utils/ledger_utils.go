package utils

import (
	"github.com/Luismorlan/utxo_handler/model"
	log "github.com/sirupsen/logrus"
)

// ApplyTransaction claims every input and stores every output of tx, as one
// atomic pool update. It does not validate tx.
func ApplyTransaction(tx *model.Transaction, pool model.UTXOPool) error {
	return pool.Update(func(w model.PoolWriter) error {
		// Claim every input
		for i := 0; i < len(tx.Inputs); i++ {
			if err := w.RemoveUTXO(tx.Inputs[i].Utxo()); err != nil {
				return err
			}
		}

		// Store every output
		for i := 0; i < len(tx.Outputs); i++ {
			utxo := model.UTXO{
				PrevTxHash: tx.Hash,
				Index:      int64(i),
			}
			if err := w.AddUTXO(utxo, tx.Outputs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Handle transaction:
// 1. Validate transaction.
// 2. Claim every input and store every output.
// It returns the fee of tx when it was accepted and folded into the pool,
// otherwise the reason it was not. On error the pool is unchanged.
// A valid transaction is still rejected with model.ErrUTXOExists when one of
// its (hash, index) identifiers is already in the pool.
func HandleTransaction(tx *model.Transaction, pool model.UTXOPool, v Verifier) (model.Amount, error) {
	if err := ValidateTransaction(tx, pool, v); err != nil {
		return 0, err
	}
	// The fee has to be read before the inputs leave the pool.
	fee, err := CalcTxFee(tx, pool)
	if err != nil {
		return 0, err
	}
	if err := ApplyTransaction(tx, pool); err != nil {
		return 0, err
	}
	return fee, nil
}

// Handle a bunch of transactions, in the given order, and return the accepted
// ones in that same order. Every accepted transaction changes the pool before
// the next one is looked at, so a later transaction claiming an output
// already spent in this batch is rejected. Selection is greedy: nothing tries
// to maximise the count or value of accepted transactions.
// Note that pool will be changed directly, when passing pool to this function, be sure to pass a deep copy.
func HandleTransactions(txs []*model.Transaction, pool model.UTXOPool, v Verifier) []*model.Transaction {
	accepted := make([]*model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if _, err := HandleTransaction(tx, pool, v); err != nil {
			log.WithFields(log.Fields{
				"tx":     tx.Hash,
				"reason": err,
			}).Debug("transaction rejected")
			continue
		}
		accepted = append(accepted, tx)
	}
	return accepted
}
