package visualize

import (
	"fmt"
	"io"

	"github.com/Luismorlan/utxo_handler/handler"
	"github.com/Luismorlan/utxo_handler/model"
	"github.com/Luismorlan/utxo_handler/utils"
	"github.com/bradleyjkemp/memviz"
)

// We re-define the visualize model here because the ledger model carries raw
// keys and signatures that only clutter the graph.
type input struct {
	prevTxHash string
	index      int64
}

type output struct {
	value     int64
	publicKey string
}

type transaction struct {
	hash    string
	inputs  []input
	outputs []output
}

type rejection struct {
	hash   string
	reason string
}

type utxo struct {
	txHash string
	index  int64
	output output
}

type epoch struct {
	id       string
	fees     int64
	accepted []transaction
	rejected []rejection
	pool     []utxo
}

// The string of public key and hash is just too long to render, instead we take only first 3 and last 3
// characters and replace the middle part with '...'. E.g. "abcdefghi" will be rendered as "abc...ghi"
func shortenString(s string) string {
	if len(s) < 9 {
		return s
	}
	return fmt.Sprintf("%s...%s", s[0:3], s[len(s)-3:])
}

// Public keys often share a long common prefix (e.g. PKIX headers), so keep
// the middle instead.
func shortenPK(s string) string {
	if len(s) < 9 {
		return s
	}
	mid := len(s) / 2
	i := mid - 1
	j := mid + 2
	return fmt.Sprintf("...%s...", s[i:j])
}

func outToOut(out model.Output) output {
	return output{
		value:     int64(out.Value),
		publicKey: shortenPK(utils.BytesToHex(out.PublicKey)),
	}
}

func txToTx(tx *model.Transaction) transaction {
	t := transaction{
		hash: shortenString(tx.Hash),
	}
	for i := 0; i < len(tx.Inputs); i++ {
		in := tx.Inputs[i]
		t.inputs = append(t.inputs, input{prevTxHash: shortenString(in.PrevTxHash), index: in.Index})
	}
	for i := 0; i < len(tx.Outputs); i++ {
		t.outputs = append(t.outputs, outToOut(tx.Outputs[i]))
	}
	return t
}

func constructData(res handler.EpochResult, pool model.UTXOPool) (epoch, error) {
	e := epoch{
		id:   res.ID,
		fees: int64(res.Fees),
	}
	for _, tx := range res.Accepted {
		e.accepted = append(e.accepted, txToTx(tx))
	}
	for _, r := range res.Rejected {
		e.rejected = append(e.rejected, rejection{hash: shortenString(r.Tx.Hash), reason: r.Reason})
	}

	utxos, err := pool.GetAllUTXO()
	if err != nil {
		return epoch{}, err
	}
	for _, u := range utxos {
		out, err := pool.GetTxOutput(u)
		if err != nil {
			return epoch{}, err
		}
		e.pool = append(e.pool, utxo{txHash: shortenString(u.PrevTxHash), index: u.Index, output: outToOut(out)})
	}
	return e, nil
}

// Render writes a graphviz dot description of an epoch outcome and the pool
// it left behind to w. Feed it to `dot -Tpng` to get a picture.
func Render(w io.Writer, res handler.EpochResult, pool model.UTXOPool) error {
	e, err := constructData(res, pool)
	if err != nil {
		return err
	}
	memviz.Map(w, &e)
	return nil
}
