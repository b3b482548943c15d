package utils

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/Luismorlan/utxo_handler/model"
)

func BytesToHex(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

func HexToBytes(str string) ([]byte, error) {
	bytes, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// Int64ToBytes encodes i as 8 big-endian bytes.
func Int64ToBytes(i int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(i))
	return b
}

func AmountToBytes(a model.Amount) []byte {
	return Int64ToBytes(int64(a))
}
