package sign

import (
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/etnz/rpm-sign/rpm"
)

// Sign re-signs the package file at path with the armored private key
// read from key, writing the fully re-signed package to out. The
// output is byte-identical to the input outside the replaced
// signature-header region.
//
// algo selects the digest used for the PGP signature; format decides
// the width of the size entries in the new signature header.
func Sign(path string, key io.Reader, passphrase string, out io.Writer, algo rpm.HashAlgorithm, format rpm.Format) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s does not exist", rpm.ErrInput, path)
	}

	priv, err := ExtractPrivateKey(key, passphrase)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", rpm.ErrInput, path, err)
	}
	defer f.Close()

	pkg, err := rpm.ReadPackage(f)
	if err != nil {
		return err
	}
	if pkg.SignatureRegion.Start == 0 || pkg.SignatureRegion.Length == 0 ||
		pkg.PayloadRegion.Start == 0 || pkg.PayloadRegion.Length == 0 ||
		pkg.PayloadStart == 0 || pkg.ArchiveSize == 0 {
		return fmt.Errorf("%w: unable to read %s information", rpm.ErrFormat, path)
	}

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", rpm.ErrIO, path, err)
	}
	payloadSize := info.Size() - pkg.PayloadStart

	// Read the exact extents the processors digest.
	header := make([]byte, pkg.PayloadRegion.Length)
	if _, err := f.ReadAt(header, pkg.PayloadRegion.Start); err != nil {
		return fmt.Errorf("%w: reading payload header: %v", rpm.ErrIO, err)
	}
	payload := make([]byte, payloadSize)
	if _, err := f.ReadAt(payload, pkg.PayloadStart); err != nil {
		return fmt.Errorf("%w: reading payload: %v", rpm.ErrIO, err)
	}

	signature, err := buildSignatureHeader(priv, header, payload, pkg.ArchiveSize, algo, format)
	if err != nil {
		return err
	}

	// Splice: lead unchanged, new signature header, then everything
	// from the payload header onward unchanged.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", rpm.ErrIO, err)
	}
	if _, err := io.CopyN(out, f, rpm.LeadLength); err != nil {
		return fmt.Errorf("%w: copying lead: %v", rpm.ErrIO, err)
	}
	if _, err := out.Write(signature); err != nil {
		return fmt.Errorf("%w: writing signature header: %v", rpm.ErrIO, err)
	}
	if _, err := f.Seek(pkg.SignatureRegion.End(), io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", rpm.ErrIO, err)
	}
	if _, err := io.Copy(out, f); err != nil {
		return fmt.Errorf("%w: copying payload: %v", rpm.ErrIO, err)
	}
	return nil
}

// buildSignatureHeader runs the full processor chain over the payload
// header and payload buffers and renders the resulting signature
// header, zero-padded to an 8-byte boundary. Any processor failure
// discards the partially filled store along with the operation.
func buildSignatureHeader(priv *packet.PrivateKey, header, payload []byte, archiveSize int64, algo rpm.HashAlgorithm, format rpm.Format) ([]byte, error) {
	processors, err := Processors(priv, algo, format)
	if err != nil {
		return nil, err
	}
	store := rpm.NewSignatureHeader()
	for _, p := range processors {
		p.Init(archiveSize)
		p.FeedHeader(header)
		p.FeedPayload(payload)
		if err := p.Finish(store); err != nil {
			return nil, err
		}
	}
	return rpm.RenderPadded(store, true, rpm.SigTagHeaderSignatures)
}
