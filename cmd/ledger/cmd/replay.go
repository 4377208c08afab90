package cmd

import (
	"os"

	"github.com/pkg/errors"

	"github.com/oroshi/ledger/ingest"
	"github.com/oroshi/ledger/ledger"
	"github.com/oroshi/ledger/storage"
)

// newLedger constructs a fresh in-memory ledger and, if replayPath is
// set, applies every row of that CSV to it first. Rows rejected during
// replay are logged and skipped, matching ingest.Batch's own
// row-isolation rule.
func newLedger() (*ledger.Ledger, *storage.Memory, error) {
	if cfg.StorageBackend != "" && cfg.StorageBackend != "memory" {
		return nil, nil, errors.Errorf("unsupported storage_backend %q, only \"memory\" is implemented", cfg.StorageBackend)
	}

	store := storage.NewMemory()
	l := ledger.New(store)

	if replayPath == "" {
		return l, store, nil
	}

	f, err := os.Open(replayPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening replay file %q", replayPath)
	}
	defer f.Close()

	result, err := ingest.Batch(l, f, log, cfg.BatchSize)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "replaying %q", replayPath)
	}
	log.WithField("applied", result.Applied).WithField("failed", len(result.Failed)).Info("replay complete")
	return l, store, nil
}
