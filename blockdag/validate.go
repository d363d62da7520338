package blockdag

import (
	"fmt"

	"github.com/kaspanet/go-secp256k1"

	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// ValidateSummary performs the context-free validity checks on the given
// block summary:
//
//  1. The summary is structurally complete and within the protocol limits.
//  2. The declared block hash matches the hash computed over the summary's
//     contents.
//  3. The validator signature is a valid Schnorr signature of the block hash
//     under the validator public key.
//
// Contextual checks, such as whether the summary's parents are known, are the
// responsibility of ProcessSummary.
func ValidateSummary(summary *wire.BlockSummary) error {
	if summary.Header == nil {
		return ruleError(ErrBadBlockHash, "block summary has no header")
	}
	if summary.BlockHash == nil {
		return ruleError(ErrBadBlockHash, "block summary has no block hash")
	}

	err := checkParents(summary)
	if err != nil {
		return err
	}
	err = checkJustifications(summary)
	if err != nil {
		return err
	}

	computedHash, err := summary.ComputeHash()
	if err != nil {
		return err
	}
	if !computedHash.IsEqual(summary.BlockHash) {
		str := fmt.Sprintf("declared block hash %s does not match computed hash %s",
			summary.BlockHash, computedHash)
		return ruleError(ErrBadBlockHash, str)
	}

	return checkValidatorSignature(summary)
}

func checkParents(summary *wire.BlockSummary) error {
	if len(summary.ParentHashes) > wire.MaxParentsPerSummary {
		str := fmt.Sprintf("block summary %s has %d parents, while only %d are allowed",
			summary.BlockHash, len(summary.ParentHashes), wire.MaxParentsPerSummary)
		return ruleError(ErrTooManyParents, str)
	}

	seen := make(map[daghash.Hash]struct{}, len(summary.ParentHashes))
	for _, parentHash := range summary.ParentHashes {
		if parentHash.IsEqual(summary.BlockHash) {
			str := fmt.Sprintf("block summary %s lists itself as a parent", summary.BlockHash)
			return ruleError(ErrSelfReference, str)
		}
		if _, ok := seen[*parentHash]; ok {
			str := fmt.Sprintf("block summary %s lists parent %s more than once",
				summary.BlockHash, parentHash)
			return ruleError(ErrDuplicateParents, str)
		}
		seen[*parentHash] = struct{}{}
	}
	return nil
}

func checkJustifications(summary *wire.BlockSummary) error {
	for _, justification := range summary.Justifications {
		if justification.LatestBlockHash.IsEqual(summary.BlockHash) {
			str := fmt.Sprintf("block summary %s lists itself as a justified block",
				summary.BlockHash)
			return ruleError(ErrSelfReference, str)
		}
	}
	return nil
}

func checkValidatorSignature(summary *wire.BlockSummary) error {
	pubKey, err := secp256k1.DeserializeSchnorrPubKey(summary.Header.ValidatorPublicKey)
	if err != nil {
		str := fmt.Sprintf("could not parse the validator public key of block summary %s: %s",
			summary.BlockHash, err)
		return ruleError(ErrInvalidPublicKey, str)
	}

	signature, err := secp256k1.DeserializeSchnorrSignatureFromSlice(summary.Header.Signature)
	if err != nil {
		str := fmt.Sprintf("could not parse the validator signature of block summary %s: %s",
			summary.BlockHash, err)
		return ruleError(ErrInvalidSignature, str)
	}

	secpHash := secp256k1.Hash(*summary.BlockHash)
	if !pubKey.SchnorrVerify(&secpHash, signature) {
		str := fmt.Sprintf("the validator signature of block summary %s does not sign its block hash",
			summary.BlockHash)
		return ruleError(ErrInvalidSignature, str)
	}
	return nil
}
