package blockdag

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"

	"github.com/dagnet/dagd/dbaccess"
	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// dagSetup opens a BlockDAG over a fresh database for testing purposes and
// returns it together with a teardown function.
func dagSetup(t *testing.T, testName string) (*BlockDAG, func()) {
	dbPath, err := ioutil.TempDir("", testName)
	if err != nil {
		t.Fatalf("%s: error creating temp dir: %s", testName, err)
	}

	databaseContext, err := dbaccess.New(dbPath)
	if err != nil {
		os.RemoveAll(dbPath)
		t.Fatalf("%s: error creating database context: %s", testName, err)
	}

	dag, err := New(&Config{DatabaseContext: databaseContext})
	if err != nil {
		databaseContext.Close()
		os.RemoveAll(dbPath)
		t.Fatalf("%s: error creating DAG: %s", testName, err)
	}

	teardown := func() {
		databaseContext.Close()
		os.RemoveAll(dbPath)
	}
	return dag, teardown
}

// testValidator carries the keys a test uses to produce signed block
// summaries.
type testValidator struct {
	privateKey          *secp256k1.SchnorrKeyPair
	serializedPublicKey []byte
}

func newTestValidator(t *testing.T, testName string) *testValidator {
	privateKey, err := secp256k1.GenerateSchnorrKeyPair()
	if err != nil {
		t.Fatalf("%s: error generating private key: %s", testName, err)
	}
	publicKey, err := privateKey.SchnorrPublicKey()
	if err != nil {
		t.Fatalf("%s: error deriving public key: %s", testName, err)
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		t.Fatalf("%s: error serializing public key: %s", testName, err)
	}
	return &testValidator{
		privateKey:          privateKey,
		serializedPublicKey: serializedPublicKey[:],
	}
}

// newSignedSummary builds a block summary over the given parents, computes
// its hash and signs it with the validator's key.
func (v *testValidator) newSignedSummary(t *testing.T, testName string, rank uint64,
	parentHashes []*daghash.Hash, justifications []*wire.Justification) *wire.BlockSummary {

	summary := &wire.BlockSummary{
		ParentHashes:   parentHashes,
		Justifications: justifications,
		Header: &wire.SummaryHeader{
			Rank:               rank,
			Timestamp:          1600000000000 + int64(rank),
			ValidatorPublicKey: v.serializedPublicKey,
		},
	}

	blockHash, err := summary.ComputeHash()
	if err != nil {
		t.Fatalf("%s: error computing summary hash: %s", testName, err)
	}
	summary.BlockHash = blockHash

	secpHash := secp256k1.Hash(*blockHash)
	signature, err := v.privateKey.SchnorrSign(&secpHash)
	if err != nil {
		t.Fatalf("%s: error signing summary: %s", testName, err)
	}
	summary.Header.Signature = signature.Serialize()[:]

	return summary
}

// checkRuleError ensures the given error is a RuleError carrying the wanted
// error code.
func checkRuleError(t *testing.T, testName string, err error, wantCode ErrorCode) {
	var ruleErr RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("%s: expected a RuleError, got %v (%T)", testName, err, err)
	}
	if ruleErr.ErrorCode != wantCode {
		t.Fatalf("%s: expected error code %s, got %s: %s",
			testName, wantCode, ruleErr.ErrorCode, ruleErr)
	}
}

// containsHash reports whether the given hash appears in the slice.
func containsHash(hashes []*daghash.Hash, hash *daghash.Hash) bool {
	for _, candidate := range hashes {
		if candidate.IsEqual(hash) {
			return true
		}
	}
	return false
}
