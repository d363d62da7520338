package blockdag

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/dagnet/dagd/database"
	"github.com/dagnet/dagd/dbaccess"
	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// BlockDAG provides access to the locally known DAG of block summaries. Every
// summary that was accepted into the DAG had its parents accepted before it,
// so the stored DAG is always dependency-closed.
//
// The BlockDAG is safe for concurrent access.
type BlockDAG struct {
	databaseContext *dbaccess.DatabaseContext

	dagLock sync.RWMutex
}

// Config is a descriptor which specifies the BlockDAG instance configuration.
type Config struct {
	// DatabaseContext defines the database which houses the DAG.
	//
	// This field is required.
	DatabaseContext *dbaccess.DatabaseContext
}

// New returns a BlockDAG instance using the provided configuration details.
func New(config *Config) (*BlockDAG, error) {
	if config.DatabaseContext == nil {
		return nil, AssertError("BlockDAG.New database context is nil")
	}

	dag := &BlockDAG{
		databaseContext: config.DatabaseContext,
	}

	tips, err := dag.Tips()
	if err != nil {
		return nil, err
	}
	log.Infof("DAG state loaded with %d tips", len(tips))

	return dag, nil
}

// IsInDAG returns whether the block summary with the given hash had been
// accepted into the DAG.
func (dag *BlockDAG) IsInDAG(hash *daghash.Hash) (bool, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	return dbaccess.HasSummary(dag.databaseContext.NoTx(), hash)
}

// SummaryByHash returns the block summary with the given hash. Returns an
// error wrapping database.ErrNotFound if no such summary had been accepted
// into the DAG.
func (dag *BlockDAG) SummaryByHash(hash *daghash.Hash) (*wire.BlockSummary, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	return dag.summaryByHash(hash)
}

func (dag *BlockDAG) summaryByHash(hash *daghash.Hash) (*wire.BlockSummary, error) {
	summaryBytes, err := dbaccess.FetchSummary(dag.databaseContext.NoTx(), hash)
	if err != nil {
		return nil, err
	}
	summary := &wire.BlockSummary{}
	err = summary.Deserialize(bytes.NewReader(summaryBytes))
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Tips returns the hashes of the current tips of the DAG. A tip is a block
// summary that no other accepted summary references as a parent.
func (dag *BlockDAG) Tips() ([]*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	return dbaccess.Tips(dag.databaseContext.NoTx())
}

// Justifications returns the hash of the latest justified block of every
// validator known to the DAG.
func (dag *BlockDAG) Justifications() ([]*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	return dbaccess.Justifications(dag.databaseContext.NoTx())
}

// KnownHashes returns the union of the DAG tips and the latest justified
// block of every known validator, with duplicates removed. This is the
// frontier that is reported to peers when requesting missing ancestors.
func (dag *BlockDAG) KnownHashes() ([]*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	tips, err := dbaccess.Tips(dag.databaseContext.NoTx())
	if err != nil {
		return nil, err
	}
	justifications, err := dbaccess.Justifications(dag.databaseContext.NoTx())
	if err != nil {
		return nil, err
	}

	seen := make(map[daghash.Hash]struct{}, len(tips)+len(justifications))
	known := make([]*daghash.Hash, 0, len(tips)+len(justifications))
	for _, hash := range append(tips, justifications...) {
		if _, ok := seen[*hash]; ok {
			continue
		}
		seen[*hash] = struct{}{}
		known = append(known, hash)
	}
	return known, nil
}

// ValidateSummary performs the context-free validity checks on the given
// block summary without mutating the DAG.
func (dag *BlockDAG) ValidateSummary(summary *wire.BlockSummary) error {
	return ValidateSummary(summary)
}

// ProcessSummary validates the given block summary and accepts it into the
// DAG. The summary's parents must have been accepted beforehand, a summary
// with missing parents is rejected with ErrMissingParents.
//
// Acceptance updates the DAG tips, the new summary becomes a tip and its
// parents stop being ones, and records the summary as the latest justified
// block of its validator.
func (dag *BlockDAG) ProcessSummary(summary *wire.BlockSummary) error {
	dag.dagLock.Lock()
	defer dag.dagLock.Unlock()

	err := ValidateSummary(summary)
	if err != nil {
		return err
	}

	exists, err := dbaccess.HasSummary(dag.databaseContext.NoTx(), summary.BlockHash)
	if err != nil {
		return err
	}
	if exists {
		str := fmt.Sprintf("already have block summary %s", summary.BlockHash)
		return ruleError(ErrDuplicateBlock, str)
	}

	missing, err := dag.missingDependencies(summary)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		str := fmt.Sprintf("block summary %s references %d unknown blocks, first missing: %s",
			summary.BlockHash, len(missing), missing[0])
		return ruleError(ErrMissingParents, str)
	}

	err = dag.acceptSummary(summary)
	if err != nil {
		return err
	}

	log.Debugf("Accepted block summary %s with %d parents", summary.BlockHash, len(summary.ParentHashes))
	return nil
}

// missingDependencies returns the dependencies of the given summary, its
// parents and justified blocks, that are not in the DAG, in the order the
// summary references them.
func (dag *BlockDAG) missingDependencies(summary *wire.BlockSummary) ([]*daghash.Hash, error) {
	var missing []*daghash.Hash
	for _, dependency := range summary.Dependencies() {
		exists, err := dbaccess.HasSummary(dag.databaseContext.NoTx(), dependency)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, dependency)
		}
	}
	return missing, nil
}

// MissingDependencies returns the dependencies of the given summary that had
// not been accepted into the DAG.
func (dag *BlockDAG) MissingDependencies(summary *wire.BlockSummary) ([]*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	return dag.missingDependencies(summary)
}

func (dag *BlockDAG) acceptSummary(summary *wire.BlockSummary) error {
	buffer := &bytes.Buffer{}
	err := summary.Serialize(buffer)
	if err != nil {
		return err
	}
	summaryBytes := buffer.Bytes()

	dbTx, err := dag.databaseContext.NewTx()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	err = dbaccess.StoreSummary(dbTx, summary.BlockHash, summaryBytes)
	if err != nil {
		return err
	}

	err = dbaccess.AddTip(dbTx, summary.BlockHash)
	if err != nil {
		return err
	}
	for _, parentHash := range summary.ParentHashes {
		err = dbaccess.RemoveTip(dbTx, parentHash)
		if err != nil {
			return err
		}
	}

	// The summary only becomes its validator's latest justified block if it
	// outranks the block currently recorded for that validator.
	isLatest, err := dag.outranksCurrentJustification(summary)
	if err != nil {
		return err
	}
	if isLatest {
		err = dbaccess.StoreJustification(dbTx, summary.Header.ValidatorPublicKey, summary.BlockHash)
		if err != nil {
			return err
		}
	}

	return dbTx.Commit()
}

func (dag *BlockDAG) outranksCurrentJustification(summary *wire.BlockSummary) (bool, error) {
	currentHash, err := dbaccess.FetchJustification(dag.databaseContext.NoTx(), summary.Header.ValidatorPublicKey)
	if err != nil {
		if database.IsNotFoundError(err) {
			return true, nil
		}
		return false, err
	}

	current, err := dag.summaryByHash(currentHash)
	if err != nil {
		return false, err
	}
	return summary.Header.Rank > current.Header.Rank, nil
}
