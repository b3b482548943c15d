package utils

import (
	"fmt"
	"strconv"

	"github.com/Luismorlan/utxo_handler/model"
	"gopkg.in/yaml.v2"
)

// EpochFile is the YAML layout of one epoch: the pool to start from and the
// candidate transactions, in order. Hashes, keys and signatures are hex,
// values are decimal strings.
type EpochFile struct {
	Pool         []PoolEntry        `yaml:"pool"`
	Transactions []EpochTransaction `yaml:"transactions"`
}

type PoolEntry struct {
	TxHash    string `yaml:"tx_hash"`
	Index     int64  `yaml:"index"`
	Value     string `yaml:"value"`
	PublicKey string `yaml:"public_key"`
}

type EpochTransaction struct {
	// Computed with ComputeTxHash when empty.
	Hash    string        `yaml:"hash,omitempty"`
	Inputs  []EpochInput  `yaml:"inputs"`
	Outputs []EpochOutput `yaml:"outputs"`
}

type EpochInput struct {
	PrevTxHash string `yaml:"prev_tx_hash"`
	Index      int64  `yaml:"index"`
	Signature  string `yaml:"signature"`
}

type EpochOutput struct {
	Value     string `yaml:"value"`
	PublicKey string `yaml:"public_key"`
}

// ParseEpoch decodes an epoch file. decimals is the number of fractional
// digits of one unit, values are scaled into base units with it.
func ParseEpoch(data []byte, decimals int32) (*model.Ledger, []*model.Transaction, error) {
	var f EpochFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, nil, err
	}
	return f.Decode(decimals)
}

// Decode turns the file contents into a pool and candidate transactions.
func (f *EpochFile) Decode(decimals int32) (*model.Ledger, []*model.Transaction, error) {
	l := model.NewLedger()
	for i, e := range f.Pool {
		out, err := decodeOutput(e.Value, e.PublicKey, decimals)
		if err != nil {
			return nil, nil, fmt.Errorf("pool entry %d: %w", i, err)
		}
		if err := l.AddUTXO(model.UTXO{PrevTxHash: e.TxHash, Index: e.Index}, out); err != nil {
			return nil, nil, fmt.Errorf("pool entry %d: %w", i, err)
		}
	}

	txs := make([]*model.Transaction, 0, len(f.Transactions))
	for i, t := range f.Transactions {
		tx, err := t.decode(decimals)
		if err != nil {
			return nil, nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
	}
	return l, txs, nil
}

func (t *EpochTransaction) decode(decimals int32) (*model.Transaction, error) {
	tx := &model.Transaction{Hash: t.Hash}
	for i, in := range t.Inputs {
		sig, err := HexToBytes(in.Signature)
		if err != nil {
			return nil, fmt.Errorf("input %d signature: %w", i, err)
		}
		tx.Inputs = append(tx.Inputs, model.Input{
			PrevTxHash: in.PrevTxHash,
			Index:      in.Index,
			Signature:  sig,
		})
	}
	for i, out := range t.Outputs {
		o, err := decodeOutput(out.Value, out.PublicKey, decimals)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		tx.Outputs = append(tx.Outputs, o)
	}

	if tx.Hash == "" {
		hash, err := ComputeTxHash(tx)
		if err != nil {
			return nil, err
		}
		tx.Hash = hash
	}
	return tx, nil
}

func decodeOutput(value, publicKey string, decimals int32) (model.Output, error) {
	amount, err := model.ParseAmount(value, decimals)
	if err != nil {
		return model.Output{}, err
	}
	pk, err := HexToBytes(publicKey)
	if err != nil {
		return model.Output{}, fmt.Errorf("public key: %w", err)
	}
	return model.Output{Value: amount, PublicKey: pk}, nil
}

// NewEpochFile encodes pool and txs. Values are written in base units, so the
// file must be read back with zero decimals.
func NewEpochFile(pool model.UTXOPool, txs []*model.Transaction) (*EpochFile, error) {
	f := &EpochFile{}
	utxos, err := pool.GetAllUTXO()
	if err != nil {
		return nil, err
	}
	for _, u := range utxos {
		out, err := pool.GetTxOutput(u)
		if err != nil {
			return nil, err
		}
		f.Pool = append(f.Pool, PoolEntry{
			TxHash:    u.PrevTxHash,
			Index:     u.Index,
			Value:     strconv.FormatInt(int64(out.Value), 10),
			PublicKey: BytesToHex(out.PublicKey),
		})
	}

	for _, tx := range txs {
		t := EpochTransaction{Hash: tx.Hash}
		for _, in := range tx.Inputs {
			t.Inputs = append(t.Inputs, EpochInput{
				PrevTxHash: in.PrevTxHash,
				Index:      in.Index,
				Signature:  BytesToHex(in.Signature),
			})
		}
		for _, out := range tx.Outputs {
			t.Outputs = append(t.Outputs, EpochOutput{
				Value:     strconv.FormatInt(int64(out.Value), 10),
				PublicKey: BytesToHex(out.PublicKey),
			})
		}
		f.Transactions = append(f.Transactions, t)
	}
	return f, nil
}

func (f *EpochFile) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
