// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ed25519"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/ledger"
)

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnexpectedSigner = errors.New("unexpected signer")
	ErrDuplicateSigner  = errors.New("duplicate signer")
	ErrNoInstruction    = errors.New("no instruction")
)

// Signature is an ed25519 signature over the signing hash.
type Signature struct {
	Signer ledger.Address
	Sig    []byte
}

// Transaction is an immutable, atomically executed list of instructions.
type Transaction struct {
	body body

	cache struct {
		id *ledger.Bytes32
	}
}

// body describes details of a tx.
type body struct {
	Nonce        uint64
	Instructions []*Instruction
	Signatures   []Signature
}

// ID returns the id of tx, which covers the signatures.
// Use SigningHash to identify the signed content.
func (t *Transaction) ID() ledger.Bytes32 {
	if cached := t.cache.id; cached != nil {
		return *cached
	}
	data, _ := rlp.EncodeToBytes(&t.body)
	id := ledger.Blake2b(data)
	t.cache.id = &id
	return id
}

// SigningHash returns hash of tx excludes signatures.
func (t *Transaction) SigningHash() ledger.Bytes32 {
	data, _ := rlp.EncodeToBytes([]any{
		t.body.Nonce,
		t.body.Instructions,
	})
	return ledger.Blake2b(data)
}

// Nonce returns the nonce.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Instructions returns copies of the instructions.
func (t *Transaction) Instructions() []*Instruction {
	ixs := make([]*Instruction, len(t.body.Instructions))
	for i, ix := range t.body.Instructions {
		ixs[i] = ix.Copy()
	}
	return ixs
}

// Signers returns the accounts flagged as signer, in first appearance order.
func (t *Transaction) Signers() []ledger.Address {
	var signers []ledger.Address
	for _, ix := range t.body.Instructions {
		for _, meta := range ix.Accounts {
			if meta.Signer && !slices.Contains(signers, meta.Address) {
				signers = append(signers, meta.Address)
			}
		}
	}
	return signers
}

// Signatures returns the attached signatures.
func (t *Transaction) Signatures() []Signature {
	sigs := make([]Signature, len(t.body.Signatures))
	for i, s := range t.body.Signatures {
		sigs[i] = Signature{Signer: s.Signer, Sig: slices.Clone(s.Sig)}
	}
	return sigs
}

// Sign creates a new tx with the signature of priv attached.
// A previous signature of the same signer is replaced.
func (t *Transaction) Sign(priv ledger.PrivateKey) *Transaction {
	signer := ledger.AddressOf(priv)
	hash := t.SigningHash()

	newTx := Transaction{body: t.body}
	newTx.body.Signatures = slices.DeleteFunc(slices.Clone(t.body.Signatures), func(s Signature) bool {
		return s.Signer == signer
	})
	newTx.body.Signatures = append(newTx.body.Signatures, Signature{
		Signer: signer,
		Sig:    ed25519.Sign(priv, hash.Bytes()),
	})
	return &newTx
}

// IsSignedBy returns whether addr attached a signature.
// It does not verify the signature.
func (t *Transaction) IsSignedBy(addr ledger.Address) bool {
	return slices.ContainsFunc(t.body.Signatures, func(s Signature) bool {
		return s.Signer == addr
	})
}

// Verify checks the tx is well formed and every required signer signed it exactly once.
func (t *Transaction) Verify() error {
	if len(t.body.Instructions) == 0 {
		return ErrNoInstruction
	}
	signers := t.Signers()
	hash := t.SigningHash()
	seen := make(map[ledger.Address]struct{}, len(t.body.Signatures))
	for _, s := range t.body.Signatures {
		if _, dup := seen[s.Signer]; dup {
			return errors.Wrapf(ErrDuplicateSigner, "signer %v", s.Signer)
		}
		seen[s.Signer] = struct{}{}
		if !slices.Contains(signers, s.Signer) {
			return errors.Wrapf(ErrUnexpectedSigner, "signer %v", s.Signer)
		}
		if !ed25519.Verify(ed25519.PublicKey(s.Signer.Bytes()), hash.Bytes(), s.Sig) {
			return errors.Wrapf(ErrInvalidSignature, "signer %v", s.Signer)
		}
	}
	for _, signer := range signers {
		if !t.IsSignedBy(signer) {
			return errors.Wrapf(ErrMissingSignature, "signer %v", signer)
		}
	}
	return nil
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{
		body: body,
	}
	return nil
}
