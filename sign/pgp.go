package sign

import (
	"bytes"
	"fmt"
	"hash"
	"io"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/etnz/rpm-sign/rpm"
)

// ExtractPrivateKey reads an ASCII-armored secret key ring, picks the
// first entity carrying a private key, and decrypts it with the
// passphrase when the key material is encrypted. Every failure mode
// (malformed armor, no private key, rejected passphrase) wraps
// rpm.ErrCrypto.
func ExtractPrivateKey(r io.Reader, passphrase string) (*packet.PrivateKey, error) {
	entities, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading key ring: %v", rpm.ErrCrypto, err)
	}
	var key *packet.PrivateKey
	for _, e := range entities {
		if e.PrivateKey != nil {
			key = e.PrivateKey
			break
		}
	}
	if key == nil {
		return nil, fmt.Errorf("%w: no private key found", rpm.ErrCrypto)
	}
	if key.Encrypted {
		if err := key.Decrypt([]byte(passphrase)); err != nil {
			return nil, fmt.Errorf("%w: decrypting private key: %v", rpm.ErrCrypto, err)
		}
	}
	return key, nil
}

// signatureProcessor digests the payload header followed by the
// payload, then produces a detached OpenPGP signature over that digest
// and emits the signature packet bytes.
type signatureProcessor struct {
	key  *packet.PrivateKey
	algo rpm.HashAlgorithm
	h    hash.Hash
}

// newSignatureProcessor validates the hash selection up front so an
// unsupported algorithm aborts before any byte is fed.
func newSignatureProcessor(key *packet.PrivateKey, algo rpm.HashAlgorithm) (*signatureProcessor, error) {
	h, err := algo.New()
	if err != nil {
		return nil, err
	}
	return &signatureProcessor{key: key, algo: algo, h: h}, nil
}

func (p *signatureProcessor) Init(int64)           {}
func (p *signatureProcessor) FeedHeader(b []byte)  { p.h.Write(b) }
func (p *signatureProcessor) FeedPayload(b []byte) { p.h.Write(b) }

func (p *signatureProcessor) Finish(h *rpm.Header) error {
	sig, err := signDetached(p.key, p.algo, p.h)
	if err != nil {
		return err
	}
	return h.PutBinary(rpm.SigTagPGP, sig)
}

// signDetached finalizes the fed digest state into a binary detached
// signature packet made with key.
func signDetached(key *packet.PrivateKey, algo rpm.HashAlgorithm, digest hash.Hash) ([]byte, error) {
	cryptoHash, err := algo.CryptoHash()
	if err != nil {
		return nil, err
	}
	sig := &packet.Signature{
		Version:           key.PublicKey.Version,
		SigType:           packet.SigTypeBinary,
		PubKeyAlgo:        key.PublicKey.PubKeyAlgo,
		Hash:              cryptoHash,
		CreationTime:      time.Now(),
		IssuerKeyId:       &key.PublicKey.KeyId,
		IssuerFingerprint: key.PublicKey.Fingerprint,
	}
	if err := sig.Sign(digest, key, nil); err != nil {
		return nil, fmt.Errorf("%w: signing digest: %v", rpm.ErrCrypto, err)
	}
	var buf bytes.Buffer
	if err := sig.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("%w: serializing signature: %v", rpm.ErrCrypto, err)
	}
	return buf.Bytes(), nil
}
