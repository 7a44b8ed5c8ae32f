package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"quiz-reply-service/internal/domain"
)

// BankLoader reads banks from YAML files named {bankID}.yaml inside dir.
type BankLoader struct {
	dir string
}

func NewBankLoader(dir string) *BankLoader {
	return &BankLoader{dir: dir}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bankID == "" || filepath.Base(bankID) != bankID {
		return domain.Bank{}, fmt.Errorf("%w: bad id %q", domain.ErrBankNotFound, bankID)
	}
	for _, ext := range []string{".yaml", ".yml"} {
		bank, err := ReadBank(filepath.Join(l.dir, bankID+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Bank{}, err
		}
		if bank.ID == "" {
			bank.ID = bankID
		}
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

// ReadBank decodes a single YAML bank file.
func ReadBank(path string) (domain.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Bank{}, err
	}
	var bank domain.Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("decode bank %s: %w", path, err)
	}
	return bank, nil
}
