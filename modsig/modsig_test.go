// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package modsig

import (
	"encoding/binary"
	"testing"
)

// buildTrailer assembles payload + signer + keyID + sig + footer + magic,
// mirroring the layout struct module_signature describes.
func buildTrailer(payload, signer, keyID, sig []byte, idType IDType) []byte {
	var out []byte
	out = append(out, payload...)
	out = append(out, signer...)
	out = append(out, keyID...)
	out = append(out, sig...)

	footer := make([]byte, footerSize)
	footer[0] = 1 // Algo, arbitrary
	footer[1] = 2 // Hash, arbitrary
	footer[2] = byte(idType)
	footer[3] = byte(len(signer))
	footer[4] = byte(len(keyID))
	binary.BigEndian.PutUint32(footer[8:12], uint32(len(sig)))
	out = append(out, footer...)
	out = append(out, []byte(magic)...)
	return out
}

func TestParsePGPTrailer(t *testing.T) {
	payload := []byte("ELF-ish payload bytes")
	signer := []byte("signer-id")
	keyID := []byte("key-42")
	sigBlob := []byte{0xAA, 0xBB, 0xCC}

	data := buildTrailer(payload, signer, keyID, sigBlob, IDTypePGP)
	sig, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if string(sig.Payload) != string(payload) {
		t.Errorf("Payload = %q, want %q", sig.Payload, payload)
	}
	if string(sig.Signer) != string(signer) {
		t.Errorf("Signer = %q, want %q", sig.Signer, signer)
	}
	if string(sig.KeyID) != string(keyID) {
		t.Errorf("KeyID = %q, want %q", sig.KeyID, keyID)
	}
	if sig.SigLen != uint32(len(sigBlob)) {
		t.Errorf("SigLen = %d, want %d", sig.SigLen, len(sigBlob))
	}
	if sig.PKCS7 != nil {
		t.Error("PKCS7 should be nil for a PGP signature")
	}
}

func TestParsePKCS7TrailerInvalidBlobDoesNotError(t *testing.T) {
	payload := []byte("module bytes")
	sigBlob := []byte{0x01, 0x02, 0x03} // not a real PKCS#7 DER blob

	data := buildTrailer(payload, nil, nil, sigBlob, IDTypePKCS7)
	sig, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sig.IDType != IDTypePKCS7 {
		t.Errorf("IDType = %v, want IDTypePKCS7", sig.IDType)
	}
	if sig.PKCS7 != nil {
		t.Error("PKCS7 should be nil when the blob fails to decode")
	}
	if string(sig.RawPKCS7) != string(sigBlob) {
		t.Errorf("RawPKCS7 = %x, want %x", sig.RawPKCS7, sigBlob)
	}
}

func TestParseNoSignature(t *testing.T) {
	if _, err := Parse([]byte("plain object file, no trailer")); err != ErrNoSignature {
		t.Errorf("Parse(no trailer) = %v, want ErrNoSignature", err)
	}
}

func TestParseTruncatedFooter(t *testing.T) {
	data := append([]byte("x"), []byte(magic)...)
	if _, err := Parse(data); err != ErrTruncated {
		t.Errorf("Parse(short footer) = %v, want ErrTruncated", err)
	}
}

func TestParseTruncatedBlock(t *testing.T) {
	footer := make([]byte, footerSize)
	footer[3] = 100 // SignerLen claims 100 bytes that don't exist
	data := append(footer, []byte(magic)...)
	if _, err := Parse(data); err != ErrTruncated {
		t.Errorf("Parse(oversized signer/key/sig lengths) = %v, want ErrTruncated", err)
	}
}
