package utils

import (
	"errors"
	"fmt"

	"github.com/Luismorlan/utxo_handler/model"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// Reasons a transaction is rejected. ValidateTransaction wraps exactly one of
// them, use errors.Is to tell them apart.
var (
	ErrMissingUTXO        = errors.New("input claims an output that is not in the pool")
	ErrNegativeInput      = errors.New("input claims an output with negative value")
	ErrInvalidSignature   = errors.New("input signature is invalid")
	ErrDoubleSpend        = errors.New("output claimed more than once")
	ErrNegativeOutput     = errors.New("output value is negative")
	ErrInsufficientInputs = errors.New("inputs are smaller than outputs")
	ErrAmountOverflow     = model.ErrAmountOverflow
	ErrPoolAccess         = errors.New("utxo pool access failed")
)

// GetInputBytes converts input to byte slice. With or without the signature.
func GetInputBytes(input *model.Input, withSig bool) ([]byte, error) {
	var data []byte
	prevHash, err := HexToBytes(input.PrevTxHash)
	if err != nil {
		return nil, err
	}
	data = append(data, prevHash...)
	data = append(data, Int64ToBytes(input.Index)...)
	if withSig {
		data = append(data, input.Signature...)
	}
	return data, nil
}

func GetOutputBytes(output *model.Output) []byte {
	var data []byte
	data = append(data, AmountToBytes(output.Value)...)
	data = append(data, output.PublicKey...)
	return data
}

// Concat all inputs (including signature) and outputs raw data in byte slices.
func GetTransactionBytes(t *model.Transaction) ([]byte, error) {
	var data []byte
	for i := 0; i < len(t.Inputs); i++ {
		inputData, err := GetInputBytes(&t.Inputs[i], true /*withSig=*/)
		if err != nil {
			return nil, err
		}
		data = append(data, inputData...)
	}

	for i := 0; i < len(t.Outputs); i++ {
		data = append(data, GetOutputBytes(&t.Outputs[i])...)
	}
	return data, nil
}

// ComputeTxHash returns the hex BLAKE2b-256 digest of the whole transaction,
// signatures included. Sign every input before computing it.
func ComputeTxHash(t *model.Transaction) (string, error) {
	data, err := GetTransactionBytes(t)
	if err != nil {
		return "", err
	}
	digest := blake2b.Sum256(data)
	return BytesToHex(digest[:]), nil
}

// GetInputDataToSignByIndex returns the raw data the owner of the output
// claimed by input index has to sign: the input itself without signature,
// followed by every output.
func GetInputDataToSignByIndex(t *model.Transaction, index int) ([]byte, error) {
	var data []byte

	if index < 0 || len(t.Inputs)-1 < index {
		return nil, errors.New("index is out of the range")
	}
	// Don't include signature since we haven't signed it yet.
	inputData, err := GetInputBytes(&t.Inputs[index], false /*withSig=*/)
	if err != nil {
		return nil, err
	}
	data = append(data, inputData...)

	for i := 0; i < len(t.Outputs); i++ {
		data = append(data, GetOutputBytes(&t.Outputs[i])...)
	}
	return data, nil
}

// A transaction is valid if:
// 1. All inputs are UTXO in the pool, holding non-negative values.
// 2. Signatures are valid.
// 3. No double spending inside the transaction.
// 4. Outputs are non-negative numbers.
// 5. Total outputs are smaller or equal to inputs.
// ValidateTransaction returns nil for a valid transaction, otherwise an error
// wrapping the first failing reason. The pool is only read.
func ValidateTransaction(t *model.Transaction, pool model.UTXOPool, v Verifier) error {
	var totalInput, totalOutput model.Amount
	var err error

	// Store all seen UTXOs to avoid double spending.
	seenUtxo := make(map[model.UTXO]bool)

	for i := 0; i < len(t.Inputs); i++ {
		// Verify the input is using UTXO.
		input := &t.Inputs[i]
		inputUtxo := input.Utxo()
		output, err := pool.GetTxOutput(inputUtxo)
		if err != nil {
			if errors.Is(err, model.ErrUTXONotFound) {
				return fmt.Errorf("%w: input %d claims %s", ErrMissingUTXO, i, inputUtxo)
			}
			return fmt.Errorf("%w: %s", ErrPoolAccess, err)
		}
		if output.Value < 0 {
			return fmt.Errorf("%w: input %d claims %s of value %d", ErrNegativeInput, i, inputUtxo, output.Value)
		}

		// Verify signature.
		inputData, err := GetInputDataToSignByIndex(t, i)
		if err != nil {
			return fmt.Errorf("%w: input %d: %s", ErrInvalidSignature, i, err)
		}
		if !SafeVerify(v, output.PublicKey, inputData, input.Signature) {
			return fmt.Errorf("%w: input %d", ErrInvalidSignature, i)
		}

		// No double spending.
		if seenUtxo[inputUtxo] {
			return fmt.Errorf("%w: input %d claims %s again", ErrDoubleSpend, i, inputUtxo)
		}
		seenUtxo[inputUtxo] = true

		if totalInput, err = model.SafeAdd(totalInput, output.Value); err != nil {
			return fmt.Errorf("%w: inputs", ErrAmountOverflow)
		}
	}

	for i := 0; i < len(t.Outputs); i++ {
		// Output should be non-negative number.
		value := t.Outputs[i].Value
		if value < 0 {
			return fmt.Errorf("%w: output %d has value %d", ErrNegativeOutput, i, value)
		}
		if totalOutput, err = model.SafeAdd(totalOutput, value); err != nil {
			return fmt.Errorf("%w: outputs", ErrAmountOverflow)
		}
	}

	if totalInput < totalOutput {
		return fmt.Errorf("%w: %d < %d", ErrInsufficientInputs, totalInput, totalOutput)
	}
	return nil
}

// IsValidTransaction is the boolean form of ValidateTransaction.
func IsValidTransaction(t *model.Transaction, pool model.UTXOPool, v Verifier) bool {
	if err := ValidateTransaction(t, pool, v); err != nil {
		log.WithFields(log.Fields{
			"tx":     t.Hash,
			"reason": err,
		}).Debug("transaction is invalid")
		return false
	}
	return true
}

// CalcTxFee returns the surplus of inputs over outputs of a transaction that
// is valid against pool. The fee is not kept anywhere, it just disappears
// once the transaction is applied.
func CalcTxFee(t *model.Transaction, pool model.UTXOPool) (model.Amount, error) {
	inputs := make([]model.Amount, 0, len(t.Inputs))
	for i := 0; i < len(t.Inputs); i++ {
		output, err := pool.GetTxOutput(t.Inputs[i].Utxo())
		if err != nil {
			return 0, err
		}
		inputs = append(inputs, output.Value)
	}
	outputs := make([]model.Amount, 0, len(t.Outputs))
	for i := 0; i < len(t.Outputs); i++ {
		outputs = append(outputs, t.Outputs[i].Value)
	}

	totalInput, err := model.SumAmounts(inputs...)
	if err != nil {
		return 0, err
	}
	totalOutput, err := model.SumAmounts(outputs...)
	if err != nil {
		return 0, err
	}
	return totalInput - totalOutput, nil
}

// RejectReason maps an error from ValidateTransaction or HandleTransaction to
// a short label usable in logs and metrics.
func RejectReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingUTXO):
		return "missing_utxo"
	case errors.Is(err, ErrNegativeInput):
		return "negative_input"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrDoubleSpend):
		return "double_spend"
	case errors.Is(err, ErrNegativeOutput):
		return "negative_output"
	case errors.Is(err, ErrInsufficientInputs):
		return "insufficient_inputs"
	case errors.Is(err, ErrAmountOverflow):
		return "amount_overflow"
	case errors.Is(err, model.ErrUTXOExists):
		return "output_exists"
	default:
		return "pool_error"
	}
}
