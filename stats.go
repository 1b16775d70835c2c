package vecscan

import (
	"encoding/binary"

	"github.com/hupe1980/vecscan/internal/assert"
	"github.com/hupe1980/vecscan/internal/hash"
)

// IntHist counts the values of v into hist: hist[k] becomes the number of
// occurrences of k for k in [0, len(hist)). hist is zeroed first. Returns
// how many values fell outside that range.
func IntHist(v []int, hist []int) int {
	for i := range hist {
		hist[i] = 0
	}

	outside := 0
	for _, x := range v {
		if x < 0 || x >= len(hist) {
			outside++
			continue
		}
		hist[x]++
	}
	return outside
}

// BitHist computes a per-bit population histogram over packed binary codes:
// hist[j] becomes the number of codes whose bit j is set. Each code occupies
// (nbits+7)/8 bytes, bit j of a code living at byte j/8, position j%8.
// len(hist) must equal nbits and codes must hold whole codes.
func BitHist(codes []byte, nbits int, hist []int) {
	const op = "vecscan.BitHist"
	assert.That(nbits > 0, op, "nbits must be positive, got %d", nbits)
	assert.That(len(hist) == nbits, op, "hist length %d != nbits %d", len(hist), nbits)

	stride := (nbits + 7) / 8
	assert.That(len(codes)%stride == 0, op, "codes length %d is not a multiple of the %d byte code size", len(codes), stride)

	for i := range hist {
		hist[i] = 0
	}

	for off := 0; off < len(codes); off += stride {
		c := codes[off : off+stride]
		for j := range nbits {
			hist[j] += int(c[j>>3] >> (j & 7) & 1)
		}
	}
}

// Checksum fingerprints a label sequence with CRC32-Castagnoli over its
// little-endian byte image. Useful for cheap equality checks of result ids
// across runs.
func Checksum(ids []int64) uint32 {
	h := hash.NewCRC32C()
	var buf [8]byte
	for _, id := range ids {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		h.Write(buf[:])
	}
	return h.Sum32()
}

// ChecksumBytes fingerprints raw bytes with CRC32-Castagnoli.
func ChecksumBytes(p []byte) uint32 {
	return hash.CRC32C(p)
}
