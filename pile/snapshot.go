package pile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/blobgo/internal/conv"
	"github.com/hupe1980/blobgo/ref"
)

// Snapshot files are self-describing: the header names the compression
// codec, so a reader never has to guess how the payload was written.
const (
	// snapshotMagic identifies pile snapshot files (ASCII "PLE0").
	snapshotMagic = 0x504C4530
	// snapshotVersion is the current snapshot format version (v1.0.0).
	snapshotVersion = 0x00010000
)

// Compression codec names accepted by Save and stored in snapshot headers.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

var (
	// ErrInvalidMagic is returned for files that are not pile snapshots.
	ErrInvalidMagic = errors.New("pile: invalid snapshot magic")
	// ErrInvalidVersion is returned for unsupported snapshot versions.
	ErrInvalidVersion = errors.New("pile: unsupported snapshot version")
	// ErrChecksum is returned when the payload does not match its checksum.
	ErrChecksum = errors.New("pile: snapshot checksum mismatch")
	// ErrUnknownCompression is returned for codec names the build does not
	// carry.
	ErrUnknownCompression = errors.New("pile: unknown compression codec")
)

// snapshotHeader is the fixed-size header at the start of every snapshot.
type snapshotHeader struct {
	Magic    uint32
	Version  uint32
	Codec    [8]byte // zero-padded codec name
	Length   uint64  // uncompressed region length in bytes
	Checksum uint32  // CRC-32 (IEEE) of the uncompressed region
	Reserved [4]byte
}

// Save writes the currently published region to w: header first, then the
// payload compressed with the named codec.
func (p *Pile) Save(w io.Writer, codecName string) error {
	if p.closed.Load() {
		return ErrClosed
	}
	snap := p.Snapshot()

	var hdr snapshotHeader
	hdr.Magic = snapshotMagic
	hdr.Version = snapshotVersion
	if len(codecName) > len(hdr.Codec) {
		return fmt.Errorf("%w: %q", ErrUnknownCompression, codecName)
	}
	copy(hdr.Codec[:], codecName)
	hdr.Length = snap.Len()
	hdr.Checksum = crc32.ChecksumIEEE(snap.Bytes())

	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	cw, err := compressWriter(codecName, w)
	if err != nil {
		return err
	}
	if _, err := cw.Write(snap.Bytes()); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// SaveFile writes the region to a snapshot file at path.
func (p *Pile) SaveFile(path, codecName string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := p.Save(bw, codecName); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a snapshot from r into a fresh in-memory pile. The header's
// magic, version, and checksum are verified before any byte is trusted.
func Load(r io.Reader) (*Pile, error) {
	var hdr snapshotHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if hdr.Magic != snapshotMagic {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, hdr.Magic)
	}
	if hdr.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, hdr.Version)
	}
	if hdr.Length%ref.WordSize != 0 {
		return nil, fmt.Errorf("pile: snapshot length %d not word-aligned", hdr.Length)
	}

	cr, err := compressReader(codecName(hdr.Codec), r)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	n, err := conv.Uint64ToInt(hdr.Length)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(cr, buf); err != nil {
		return nil, fmt.Errorf("pile: truncated snapshot payload: %w", err)
	}
	if got := crc32.ChecksumIEEE(buf); got != hdr.Checksum {
		return nil, fmt.Errorf("%w: want 0x%08x, got 0x%08x", ErrChecksum, hdr.Checksum, got)
	}

	p := New()
	p.data.Store(&buf)
	p.length.Store(hdr.Length)
	return p, nil
}

// LoadFile reads a snapshot file at path.
func LoadFile(path string) (*Pile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(bufio.NewReader(f))
}

func codecName(raw [8]byte) string {
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func compressWriter(name string, w io.Writer) (io.WriteCloser, error) {
	switch name {
	case CompressionNone, "":
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

func compressReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch name {
	case CompressionNone, "":
		return io.NopCloser(r), nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}
