package visualize

import (
	"bytes"
	"testing"

	"github.com/Luismorlan/utxo_handler/handler"
	"github.com/Luismorlan/utxo_handler/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortenString(t *testing.T) {
	assert.Equal(t, "abc", shortenString("abc"))
	assert.Equal(t, "abc...ghi", shortenString("abcdefxyzghi"))
	assert.Equal(t, "...efx...", shortenPK("abcdefxyzghi"))
}

func TestRender(t *testing.T) {
	pool := model.NewLedger()
	require.NoError(t, pool.AddUTXO(model.UTXO{PrevTxHash: "aabbccddeeff", Index: 0}, model.Output{Value: 10, PublicKey: []byte{1, 2, 3}}))

	accepted := &model.Transaction{
		Hash:    "aabbccddeeff",
		Outputs: []model.Output{{Value: 10, PublicKey: []byte{1, 2, 3}}},
	}
	rejected := &model.Transaction{Hash: "0011"}
	res := handler.EpochResult{
		ID:       "epoch-1",
		Accepted: []*model.Transaction{accepted},
		Rejected: []handler.Rejection{{Tx: rejected, Reason: "missing_utxo"}},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, Render(buf, res, pool))

	dot := buf.String()
	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "missing_utxo")
	assert.Contains(t, dot, "aab...eff")
}
