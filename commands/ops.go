package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Luismorlan/utxo_handler/config"
	"github.com/Luismorlan/utxo_handler/handler"
	"github.com/Luismorlan/utxo_handler/metrics"
	"github.com/Luismorlan/utxo_handler/model"
	"github.com/Luismorlan/utxo_handler/utils"
	"github.com/Luismorlan/utxo_handler/visualize"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	ConfigFlag  = "config"
	EpochFlag   = "epoch"
	DotFlag     = "dot"
	MetricsFlag = "metrics"
)

var configFlag = &cli.StringFlag{
	Name:  ConfigFlag,
	Usage: "path to a YAML config file, TXHANDLER_* env vars override it",
}

var epochFlag = &cli.StringFlag{
	Name:     EpochFlag,
	Usage:    "path to the YAML epoch file holding the pool and the candidate transactions",
	Required: true,
}

// Handle runs one epoch and prints what got accepted and the resulting pool.
var Handle = cli.Command{
	Name:  "handle",
	Usage: "accept a mutually valid subset of the epoch's transactions and print the updated pool",
	Flags: []cli.Flag{
		configFlag,
		epochFlag,
		&cli.StringFlag{
			Name:  DotFlag,
			Usage: "also write a graphviz rendering of the epoch to this path",
		},
		&cli.BoolFlag{
			Name:  MetricsFlag,
			Usage: "print the epoch metrics after the result",
		},
	},
	Action: handleAction,
}

// Validate checks every transaction of the epoch on its own against the
// initial pool, without accepting anything.
var Validate = cli.Command{
	Name:   "validate",
	Usage:  "check each transaction of the epoch against the initial pool",
	Flags:  []cli.Flag{configFlag, epochFlag},
	Action: validateAction,
}

type rejectedTx struct {
	Hash   string `json:"hash"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

type poolEntry struct {
	TxHash    string       `json:"tx_hash"`
	Index     int64        `json:"index"`
	Value     model.Amount `json:"value"`
	PublicKey string       `json:"public_key"`
}

type handleResult struct {
	Epoch    string       `json:"epoch"`
	Accepted []string     `json:"accepted"`
	Rejected []rejectedTx `json:"rejected"`
	Fees     model.Amount `json:"fees"`
	Pool     []poolEntry  `json:"pool"`
}

func setup(ctx *cli.Context) (config.AppConfig, *model.Ledger, []*model.Transaction, error) {
	cfg, err := config.LoadConfig(ctx.String(ConfigFlag))
	if err != nil {
		return config.AppConfig{}, nil, nil, err
	}
	log.SetLevel(cfg.Level())

	pool, txs, err := utils.ReadEpochFile(ctx.String(EpochFlag), cfg.AmountDecimals)
	if err != nil {
		return config.AppConfig{}, nil, nil, fmt.Errorf("reading epoch: %w", err)
	}
	return cfg, pool, txs, nil
}

func handleAction(ctx *cli.Context) error {
	cfg, pool, txs, err := setup(ctx)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}

	h, err := handler.NewFromConfig(cfg, pool, log.StandardLogger(), collector)
	if err != nil {
		return err
	}
	defer h.Close()

	res := h.HandleEpoch(txs)
	snap, err := h.Snapshot()
	if err != nil {
		return err
	}
	if c, ok := snap.(io.Closer); ok {
		defer c.Close()
	}

	out := handleResult{
		Epoch:    res.ID,
		Accepted: make([]string, 0, len(res.Accepted)),
		Rejected: make([]rejectedTx, 0, len(res.Rejected)),
		Fees:     res.Fees,
	}
	for _, tx := range res.Accepted {
		out.Accepted = append(out.Accepted, tx.Hash)
	}
	for _, r := range res.Rejected {
		out.Rejected = append(out.Rejected, rejectedTx{Hash: r.Tx.Hash, Reason: r.Reason, Error: r.Err.Error()})
	}
	if out.Pool, err = listPool(snap); err != nil {
		return err
	}
	if err := printJSON(ctx.App.Writer, out); err != nil {
		return err
	}

	if path := ctx.String(DotFlag); path != "" {
		if err := writeDot(path, res, snap); err != nil {
			return err
		}
	}

	if ctx.Bool(MetricsFlag) {
		families, err := reg.Gather()
		if err != nil {
			return err
		}
		for _, f := range families {
			fmt.Fprintln(ctx.App.Writer, f.String())
		}
	}
	return nil
}

func validateAction(ctx *cli.Context) error {
	cfg, pool, txs, err := setup(ctx)
	if err != nil {
		return err
	}

	h, err := handler.NewFromConfig(cfg, pool, log.StandardLogger(), nil)
	if err != nil {
		return err
	}
	defer h.Close()

	for _, tx := range txs {
		if err := h.ValidateTx(tx); err != nil {
			fmt.Fprintf(ctx.App.Writer, "%s invalid %s: %s\n", tx.Hash, utils.RejectReason(err), err)
			continue
		}
		fmt.Fprintf(ctx.App.Writer, "%s valid\n", tx.Hash)
	}
	return nil
}

func listPool(pool model.UTXOPool) ([]poolEntry, error) {
	utxos, err := pool.GetAllUTXO()
	if err != nil {
		return nil, err
	}
	entries := make([]poolEntry, 0, len(utxos))
	for _, u := range utxos {
		out, err := pool.GetTxOutput(u)
		if err != nil {
			return nil, err
		}
		entries = append(entries, poolEntry{
			TxHash:    u.PrevTxHash,
			Index:     u.Index,
			Value:     out.Value,
			PublicKey: utils.BytesToHex(out.PublicKey),
		})
	}
	return entries, nil
}

func writeDot(path string, res handler.EpochResult, pool model.UTXOPool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return visualize.Render(f, res, pool)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
