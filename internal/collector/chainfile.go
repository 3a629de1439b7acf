package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"SignalDesk/internal/model"
)

// ErrNoChain reports that no option chain is available for a symbol.
var ErrNoChain = errors.New("no option chain available")

// FileChainSource reads chain snapshots saved as <Dir>/<SYMBOL>.json.
type FileChainSource struct {
	Dir string
}

func (s *FileChainSource) FetchChain(_ context.Context, symbol string) (*model.ChainSnapshot, error) {
	path := filepath.Join(s.Dir, strings.ToUpper(symbol)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoChain
		}
		return nil, fmt.Errorf("read chain %s: %w", path, err)
	}
	var chain model.ChainSnapshot
	if err := json.Unmarshal(data, &chain); err != nil {
		return nil, fmt.Errorf("decode chain %s: %w", path, err)
	}
	if chain.Underlying == "" {
		chain.Underlying = symbol
	}
	for i := range chain.Contracts {
		if chain.Contracts[i].Expiry.IsZero() {
			chain.Contracts[i].Expiry = chain.Expiry
		}
	}
	return &chain, nil
}
