// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package modsig parses the PKCS#7 signature trailer the Linux kernel
// appends to a signed loadable module (a .ko ELF relocatable object), as
// described by linux/module_signature.h and documented in
// Documentation/admin-guide/module-signing.rst. The trailer sits entirely
// outside the structures elf.Parse folds into its region tree — it is
// simply the last bytes of the file, past the last section — so this
// package is implemented as a standalone consumer of the byte buffer rather
// than a method on elf.Elf.
package modsig

import (
	"encoding/binary"
	"errors"

	"go.mozilla.org/pkcs7"
)

// magic is MODULE_SIG_STRING, the fixed marker the kernel writes as the
// very last bytes of a signed module.
const magic = "~Module signature appended~\n"

// footerSize is sizeof(struct module_signature): algo, hash, id_type,
// signer_len, key_id_len, 3 bytes padding, then a big-endian u32 sig_len.
const footerSize = 12

// Errors returned by Parse.
var (
	// ErrNoSignature is returned when data does not end with the module
	// signature magic string.
	ErrNoSignature = errors.New("modsig: no module signature trailer present")

	// ErrTruncated is returned when the declared footer or signer/key-id/
	// signature lengths run past the start of the file.
	ErrTruncated = errors.New("modsig: truncated signature trailer")
)

// Algorithm identifiers from linux/module_signature.h's enum pkey_algo.
type Algorithm uint8

// HashAlgorithm identifiers from the same header's enum pkey_hash_algo.
type HashAlgorithm uint8

// IDType identifiers: PKEY_ID_PGP or PKEY_ID_X509/PKCS7.
type IDType uint8

// Known id types.
const (
	IDTypePGP  IDType = 0
	IDTypeX509 IDType = 1
	IDTypePKCS7 IDType = 2
)

// Signature is a parsed module_signature trailer.
type Signature struct {
	Algo      Algorithm
	Hash      HashAlgorithm
	IDType    IDType
	SignerLen uint8
	KeyIDLen  uint8
	SigLen    uint32

	// Signer and KeyID are present only for PKEY_ID_PGP signatures; PKCS#7
	// signatures (the common case for kernel modules) carry this
	// information inside the PKCS7 blob itself instead.
	Signer []byte
	KeyID  []byte

	// PKCS7 is the parsed signature blob, nil if IDType is not
	// IDTypePKCS7/IDTypeX509.
	PKCS7 *pkcs7.PKCS7

	// RawPKCS7 is the signature blob's undecoded bytes.
	RawPKCS7 []byte

	// Payload is the portion of data the signature covers: everything
	// before the trailer.
	Payload []byte
}

// Parse locates and parses the module signature trailer at the end of
// data, if present.
func Parse(data []byte) (*Signature, error) {
	if len(data) < len(magic) || string(data[len(data)-len(magic):]) != magic {
		return nil, ErrNoSignature
	}
	rest := data[:len(data)-len(magic)]

	if len(rest) < footerSize {
		return nil, ErrTruncated
	}
	footer := rest[len(rest)-footerSize:]
	rest = rest[:len(rest)-footerSize]

	sig := &Signature{
		Algo:      Algorithm(footer[0]),
		Hash:      HashAlgorithm(footer[1]),
		IDType:    IDType(footer[2]),
		SignerLen: footer[3],
		KeyIDLen:  footer[4],
		SigLen:    binary.BigEndian.Uint32(footer[8:12]),
	}

	total := int(sig.SignerLen) + int(sig.KeyIDLen) + int(sig.SigLen)
	if total > len(rest) {
		return nil, ErrTruncated
	}

	sig.Payload = rest[:len(rest)-total]
	block := rest[len(rest)-total:]

	sig.Signer = block[:sig.SignerLen]
	block = block[sig.SignerLen:]
	sig.KeyID = block[:sig.KeyIDLen]
	block = block[sig.KeyIDLen:]
	sig.RawPKCS7 = block[:sig.SigLen]

	if sig.IDType == IDTypePKCS7 || sig.IDType == IDTypeX509 {
		p, err := pkcs7.Parse(sig.RawPKCS7)
		if err == nil {
			sig.PKCS7 = p
		}
	}

	return sig, nil
}
