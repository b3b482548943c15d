package utils

import (
	"testing"

	"github.com/Luismorlan/utxo_handler/model"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
)

const genesisHash = "0a0a0a0a"

type testKey struct {
	sk ed25519.PrivateKey
	pk ed25519.PublicKey
}

func newTestKey(t *testing.T) testKey {
	sk, pk, err := GenerateEd25519KeyPair()
	require.NoError(t, err)
	return testKey{sk: sk, pk: pk}
}

func (k testKey) pay(value model.Amount) model.Output {
	return model.Output{Value: value, PublicKey: k.pk}
}

// newTestTx builds a transaction spending the given outputs, signing input i
// with signers[i], and fills in its hash.
func newTestTx(t *testing.T, utxos []model.UTXO, signers []testKey, outputs ...model.Output) *model.Transaction {
	tx := &model.Transaction{Outputs: outputs}
	for _, u := range utxos {
		tx.Inputs = append(tx.Inputs, model.Input{PrevTxHash: u.PrevTxHash, Index: u.Index})
	}
	for i := range tx.Inputs {
		data, err := GetInputDataToSignByIndex(tx, i)
		require.NoError(t, err)
		tx.Inputs[i].Signature = SignEd25519(data, signers[i].sk)
	}
	hash, err := ComputeTxHash(tx)
	require.NoError(t, err)
	tx.Hash = hash
	return tx
}

// newTestPool returns a pool where genesis output i belongs to owners[i] and
// holds values[i].
func newTestPool(t *testing.T, owners []testKey, values []model.Amount) *model.Ledger {
	l := model.NewLedger()
	for i, owner := range owners {
		utxo := model.UTXO{PrevTxHash: genesisHash, Index: int64(i)}
		require.NoError(t, l.AddUTXO(utxo, owner.pay(values[i])))
	}
	return l
}

func genesisUtxo(i int64) model.UTXO {
	return model.UTXO{PrevTxHash: genesisHash, Index: i}
}
