package poe

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ProofOfExecution is the signed attestation binding a block's (or batch's)
// state transition: {batch_hash, state_hash, prev_state_root,
// new_state_root, withdrawal_root, signature}. Grounded on poe.rs's Poe.
type ProofOfExecution struct {
	BatchHash      common.Hash
	StateHash      common.Hash
	PrevStateRoot  common.Hash
	NewStateRoot   common.Hash
	WithdrawalRoot common.Hash
	Signature      [65]byte
}

// signArgs is the tuple SignMsg encodes: (chain_id, batch_hash, state_hash,
// prev_state_root, new_state_root, withdrawal_root, signature).
var signArgs abi.Arguments

// encodeArgs is the tuple Encode emits: the same fields minus chain_id,
// matching poe.rs's Poe::encode (the on-chain payload carries no chain id).
var encodeArgs abi.Arguments

func init() {
	uint256Ty, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	bytes32Ty, err := abi.NewType("bytes32", "", nil)
	if err != nil {
		panic(err)
	}
	bytesTy, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(err)
	}
	signArgs = abi.Arguments{
		{Type: uint256Ty},
		{Type: bytes32Ty},
		{Type: bytes32Ty},
		{Type: bytes32Ty},
		{Type: bytes32Ty},
		{Type: bytes32Ty},
		{Type: bytesTy},
	}
	encodeArgs = abi.Arguments{
		{Type: bytes32Ty},
		{Type: bytes32Ty},
		{Type: bytes32Ty},
		{Type: bytes32Ty},
		{Type: bytes32Ty},
		{Type: bytesTy},
	}
}

// SingleBlock builds the per-block PoE with a zeroed signature, ready to be
// signed. Grounded on poe.rs's Poe::single_block.
func SingleBlock(stateHash, prevStateRoot, newStateRoot, withdrawalRoot common.Hash) *ProofOfExecution {
	return &ProofOfExecution{
		StateHash:      stateHash,
		PrevStateRoot:  prevStateRoot,
		NewStateRoot:   newStateRoot,
		WithdrawalRoot: withdrawalRoot,
	}
}

// FoldBatch folds an ordered, non-empty list of per-block PoEs into one
// batch PoE, checking state-root continuity between consecutive blocks.
// Grounded on poe.rs's Poe::batch, including its exact error wording.
func FoldBatch(batchHash common.Hash, blocks []*ProofOfExecution) (*ProofOfExecution, error) {
	if len(blocks) < 1 {
		return nil, fmt.Errorf("length of block poe is zero")
	}

	prevStateRoot := blocks[0].PrevStateRoot
	var newStateRoot, withdrawalRoot common.Hash
	var haveNewStateRoot bool

	for idx, poe := range blocks {
		if haveNewStateRoot && newStateRoot != poe.PrevStateRoot {
			return nil, fmt.Errorf("unexpected state_root in poe[%d]: want: %x, got: %x", idx, newStateRoot, poe.PrevStateRoot)
		}
		newStateRoot = poe.NewStateRoot
		withdrawalRoot = poe.WithdrawalRoot
		haveNewStateRoot = true
	}

	hasher := crypto.NewKeccakState()
	for _, poe := range blocks {
		hasher.Write(poe.StateHash[:])
	}
	var stateHash common.Hash
	hasher.Read(stateHash[:])

	return &ProofOfExecution{
		BatchHash:      batchHash,
		StateHash:      stateHash,
		PrevStateRoot:  prevStateRoot,
		NewStateRoot:   newStateRoot,
		WithdrawalRoot: withdrawalRoot,
	}, nil
}

// SignMsg returns the Solidity ABI-encoded pre-image this PoE signs: the
// tuple (chain_id, batch_hash, state_hash, prev_state_root, new_state_root,
// withdrawal_root, signature) with the signature field zeroed, regardless
// of what Signature currently holds. Grounded on poe.rs's Poe::sign_msg.
func (p *ProofOfExecution) SignMsg(chainID *big.Int) ([]byte, error) {
	return signArgs.Pack(
		chainID,
		p.BatchHash,
		p.StateHash,
		p.PrevStateRoot,
		p.NewStateRoot,
		p.WithdrawalRoot,
		make([]byte, 65),
	)
}

// Encode returns the ABI encoding of the tuple with the current signature
// included, used to serialize a finished PoE for on-chain submission.
// Grounded on poe.rs's Poe::encode.
func (p *ProofOfExecution) Encode() ([]byte, error) {
	return encodeArgs.Pack(
		p.BatchHash,
		p.StateHash,
		p.PrevStateRoot,
		p.NewStateRoot,
		p.WithdrawalRoot,
		append([]byte(nil), p.Signature[:]...),
	)
}

// Sign computes SignMsg and signs it with prvKey, storing the 65-byte
// recoverable signature.
func (p *ProofOfExecution) Sign(chainID *big.Int, prvKey *ecdsa.PrivateKey) error {
	msg, err := p.SignMsg(chainID)
	if err != nil {
		return err
	}
	digest := crypto.Keccak256(msg)
	sig, err := crypto.Sign(digest, prvKey)
	if err != nil {
		return err
	}
	copy(p.Signature[:], sig)
	return nil
}

// Recover recovers the signer address bound to this PoE's signature,
// against a zeroed-signature copy of the same pre-image used to sign.
// Grounded on poe.rs's Poe::recover.
func (p *ProofOfExecution) Recover(chainID *big.Int) (common.Address, error) {
	msg, err := p.SignMsg(chainID)
	if err != nil {
		return common.Address{}, err
	}
	digest := crypto.Keccak256(msg)
	pub, err := crypto.SigToPub(digest, p.Signature[:])
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
