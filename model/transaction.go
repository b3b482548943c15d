package model

type Input struct {
	// Hash of the transaction that outputs this coin.
	PrevTxHash string
	// The index of the output in that transaction. Together with PrevTxHash, it identifies the unique output.
	Index int64
	// Signature using the previous owner's key over the raw data to sign for this input.
	Signature []byte
}

type Output struct {
	// How much value to transfer, in base units.
	Value Amount
	// Public key of the receiver, in the form of bytes. Its encoding depends on the signature scheme.
	PublicKey []byte
}

type Transaction struct {
	// Hash of this transaction in hex. Outputs of this transaction are identified by (Hash, index).
	Hash string
	// All inputs of this transaction.
	Inputs []Input
	// All outputs of this transaction.
	Outputs []Output
}

// Utxo returns the unspent output this input claims.
func (in *Input) Utxo() UTXO {
	return UTXO{
		PrevTxHash: in.PrevTxHash,
		Index:      in.Index,
	}
}
