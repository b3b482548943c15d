package utils

import (
	"errors"
	"os"

	"github.com/Luismorlan/utxo_handler/model"
	log "github.com/sirupsen/logrus"
)

// ReadEpochFile loads the pool and candidate transactions stored at fPath.
func ReadEpochFile(fPath string, decimals int32) (*model.Ledger, []*model.Transaction, error) {
	if fPath == "" {
		return nil, nil, errors.New("file path is missing")
	}
	fileContent, err := os.ReadFile(fPath)
	if err != nil {
		return nil, nil, err
	}
	if len(fileContent) == 0 {
		return nil, nil, errors.New("epoch file is empty, please check filepath")
	}
	return ParseEpoch(fileContent, decimals)
}

// WriteEpochFile saves f at fPath, replacing any existing file.
func WriteEpochFile(f *EpochFile, fPath string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(fPath, data, 0644); err != nil {
		log.WithError(err).Errorf("failed to save epoch in %s", fPath)
		return err
	}
	log.Debugf("saved epoch in %s", fPath)
	return nil
}
