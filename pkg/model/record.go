package model

import "encoding/hex"

// Digest is a SHA-256 checksum.
type Digest [32]byte

// ParseDigest decodes an uppercase or lowercase hex SHA-256 string as
// returned by the storage API into a Digest for endianness/case-insensitive
// comparison against locally computed checksums.
func ParseDigest(hexDigest string) (Digest, error) {
	var d Digest
	n, err := hex.Decode(d[:], []byte(hexDigest))
	if err != nil {
		return Digest{}, err
	}
	if n != len(d) {
		return Digest{}, hex.ErrLength
	}
	return d, nil
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// FileRecord is the fingerprint of one file: its zone-relative path, size,
// and checksum. Identity is Path; equality for reconciliation purposes is
// Size and Checksum both matching.
type FileRecord struct {
	Path     Path
	Size     uint64
	Checksum Digest
}

// Equal reports whether two records have the same size and checksum.
// Paths are not compared; callers are expected to have already matched by
// Path before calling Equal.
func (r FileRecord) Equal(other FileRecord) bool {
	return r.Size == other.Size && r.Checksum == other.Checksum
}

// RecordSet is a zone-relative Path to FileRecord mapping, as produced by
// both the local and remote scanners.
type RecordSet map[Path]FileRecord
