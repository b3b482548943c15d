package storage

import (
	"fmt"
	"testing"

	"github.com/Luismorlan/utxo_handler/model"
	"github.com/stretchr/testify/require"
)

func newTestBadgerLedger(t *testing.T) *BadgerLedger {
	seed := model.NewLedger()
	require.NoError(t, seed.AddUTXO(model.UTXO{PrevTxHash: "aa", Index: 0}, model.Output{Value: 5, PublicKey: []byte{1}}))
	require.NoError(t, seed.AddUTXO(model.UTXO{PrevTxHash: "aa", Index: 1}, model.Output{Value: 10, PublicKey: []byte{2}}))

	l, err := NewBadgerLedgerFrom(seed, nil)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestBadgerLedgerLookup(t *testing.T) {
	l := newTestBadgerLedger(t)

	out, err := l.GetTxOutput(model.UTXO{PrevTxHash: "aa", Index: 1})
	require.NoError(t, err)
	require.Equal(t, model.Output{Value: 10, PublicKey: []byte{2}}, out)

	_, err = l.GetTxOutput(model.UTXO{PrevTxHash: "bb", Index: 0})
	require.ErrorIs(t, err, model.ErrUTXONotFound)

	ok, err := l.Contains(model.UTXO{PrevTxHash: "aa", Index: 0})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Contains(model.UTXO{PrevTxHash: "aa", Index: 7})
	require.NoError(t, err)
	require.False(t, ok)

	utxos, err := l.GetAllUTXO()
	require.NoError(t, err)
	require.Equal(t, []model.UTXO{
		{PrevTxHash: "aa", Index: 0},
		{PrevTxHash: "aa", Index: 1},
	}, utxos)
}

func TestBadgerLedgerUpdate(t *testing.T) {
	l := newTestBadgerLedger(t)

	err := l.Update(func(w model.PoolWriter) error {
		if err := w.RemoveUTXO(model.UTXO{PrevTxHash: "aa", Index: 0}); err != nil {
			return err
		}
		return w.AddUTXO(model.UTXO{PrevTxHash: "cc", Index: 0}, model.Output{Value: 5})
	})
	require.NoError(t, err)

	utxos, err := l.GetAllUTXO()
	require.NoError(t, err)
	require.Equal(t, []model.UTXO{
		{PrevTxHash: "aa", Index: 1},
		{PrevTxHash: "cc", Index: 0},
	}, utxos)
}

func TestBadgerLedgerUpdateRollsBack(t *testing.T) {
	l := newTestBadgerLedger(t)
	before, err := l.GetAllUTXO()
	require.NoError(t, err)

	err = l.Update(func(w model.PoolWriter) error {
		if err := w.RemoveUTXO(model.UTXO{PrevTxHash: "aa", Index: 0}); err != nil {
			return err
		}
		if err := w.AddUTXO(model.UTXO{PrevTxHash: "cc", Index: 0}, model.Output{Value: 5}); err != nil {
			return err
		}
		return w.AddUTXO(model.UTXO{PrevTxHash: "aa", Index: 1}, model.Output{Value: 1})
	})
	require.ErrorIs(t, err, model.ErrUTXOExists)

	after, err := l.GetAllUTXO()
	require.NoError(t, err)
	require.Equal(t, before, after)

	err = l.Update(func(w model.PoolWriter) error {
		return w.RemoveUTXO(model.UTXO{PrevTxHash: "dd", Index: 0})
	})
	require.ErrorIs(t, err, model.ErrUTXONotFound)
}

func TestBadgerLedgerCopyIsIndependent(t *testing.T) {
	l := newTestBadgerLedger(t)

	cp, err := l.Copy()
	require.NoError(t, err)
	defer cp.(*BadgerLedger).Close()

	err = cp.Update(func(w model.PoolWriter) error {
		return w.RemoveUTXO(model.UTXO{PrevTxHash: "aa", Index: 0})
	})
	require.NoError(t, err)

	ok, err := l.Contains(model.UTXO{PrevTxHash: "aa", Index: 0})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = cp.Contains(model.UTXO{PrevTxHash: "aa", Index: 0})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewBadgerLedgerFromLargeSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("large seed")
	}
	const n = 100000

	seed := model.NewLedger()
	for i := 0; i < n; i++ {
		utxo := model.UTXO{PrevTxHash: fmt.Sprintf("%08x", i), Index: int64(i % 4)}
		require.NoError(t, seed.AddUTXO(utxo, model.Output{Value: model.Amount(i), PublicKey: []byte{byte(i)}}))
	}

	l, err := NewBadgerLedgerFrom(seed, nil)
	require.NoError(t, err)
	defer l.Close()

	utxos, err := l.GetAllUTXO()
	require.NoError(t, err)
	require.Len(t, utxos, n)

	out, err := l.GetTxOutput(model.UTXO{PrevTxHash: fmt.Sprintf("%08x", n-1), Index: int64((n - 1) % 4)})
	require.NoError(t, err)
	require.Equal(t, model.Amount(n-1), out.Value)
}
