package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Luismorlan/utxo_handler/model"
	"github.com/Luismorlan/utxo_handler/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/ed25519"
)

const genesisHash = "0f0f0f0f"

func signedTx(t *testing.T, sk ed25519.PrivateKey, utxo model.UTXO, outputs ...model.Output) *model.Transaction {
	tx := &model.Transaction{
		Inputs:  []model.Input{{PrevTxHash: utxo.PrevTxHash, Index: utxo.Index}},
		Outputs: outputs,
	}
	data, err := utils.GetInputDataToSignByIndex(tx, 0)
	require.NoError(t, err)
	tx.Inputs[0].Signature = utils.SignEd25519(data, sk)
	tx.Hash, err = utils.ComputeTxHash(tx)
	require.NoError(t, err)
	return tx
}

// writeTestEpoch writes an epoch where two transactions spend the same
// genesis output. The first pays a fee of 3.
func writeTestEpoch(t *testing.T) (string, []*model.Transaction) {
	sk, pk, err := utils.GenerateEd25519KeyPair()
	require.NoError(t, err)

	pool := model.NewLedger()
	for i := int64(0); i < 2; i++ {
		utxo := model.UTXO{PrevTxHash: genesisHash, Index: i}
		require.NoError(t, pool.AddUTXO(utxo, model.Output{Value: 10, PublicKey: pk}))
	}
	genesis := model.UTXO{PrevTxHash: genesisHash, Index: 0}
	txs := []*model.Transaction{
		signedTx(t, sk, genesis, model.Output{Value: 7, PublicKey: pk}),
		signedTx(t, sk, genesis, model.Output{Value: 10, PublicKey: pk}),
	}

	f, err := utils.NewEpochFile(pool, txs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "epoch.yaml")
	require.NoError(t, utils.WriteEpochFile(f, path))
	return path, txs
}

func runApp(t *testing.T, args ...string) string {
	t.Setenv("TXHANDLER_SIGNATURE_SCHEME", "ed25519")

	var buf bytes.Buffer
	app := cli.NewApp()
	app.Writer = &buf
	app.Commands = []*cli.Command{&Handle, &Validate}
	require.NoError(t, app.Run(append([]string{"txhandler"}, args...)))
	return buf.String()
}

func TestHandleCommand(t *testing.T) {
	epochPath, txs := writeTestEpoch(t)
	dotPath := filepath.Join(t.TempDir(), "epoch.dot")

	out := runApp(t, "handle", "--epoch", epochPath, "--dot", dotPath)

	var res handleResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.Epoch)
	assert.Equal(t, []string{txs[0].Hash}, res.Accepted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, txs[1].Hash, res.Rejected[0].Hash)
	assert.Equal(t, "missing_utxo", res.Rejected[0].Reason)
	assert.Equal(t, model.Amount(3), res.Fees)

	require.Len(t, res.Pool, 2)
	hashes := []string{res.Pool[0].TxHash, res.Pool[1].TxHash}
	assert.ElementsMatch(t, []string{genesisHash, txs[0].Hash}, hashes)

	dot, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(dot), "digraph"))
}

func TestHandleCommandPrintsMetrics(t *testing.T) {
	epochPath, _ := writeTestEpoch(t)

	out := runApp(t, "handle", "--epoch", epochPath, "--metrics")
	assert.Contains(t, out, "txhandler_transactions_accepted_total")
}

func TestValidateCommand(t *testing.T) {
	epochPath, txs := writeTestEpoch(t)

	out := runApp(t, "validate", "--epoch", epochPath)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{txs[0].Hash + " valid", txs[1].Hash + " valid"}, lines)
}

func TestHandleCommandMissingEpoch(t *testing.T) {
	app := cli.NewApp()
	app.Commands = []*cli.Command{&Handle}
	err := app.Run([]string{"txhandler", "handle", "--epoch", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.NotNil(t, err)
}
