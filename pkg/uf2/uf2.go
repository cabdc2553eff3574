// Package uf2 parses the UF2 firmware container format, ported from
// original_source/cli/src/uf2.rs's Uf2Block layout. The original leans on
// zerocopy/bitflags for a zero-copy #[repr(C)] transmute; the pack has no
// equivalent Go library for that, so this is a plain encoding/binary
// field-by-field decode (flag bits as named uint32 constants instead of a
// bitflags type, DESIGN.md).
package uf2

import (
	"encoding/binary"
	"fmt"
)

const blockSize = 512

// PayloadMax is the largest payload a single UF2 block may carry.
const PayloadMax = 476

var (
	magicStart0 = [4]byte{0x55, 0x46, 0x32, 0x0A}
	magicStart1 = [4]byte{0x57, 0x51, 0x5D, 0x9E}
	magicEnd    = [4]byte{0x30, 0x6F, 0xB1, 0x0A}
)

// Flags is the UF2 block flags word.
type Flags uint32

// Named flag bits, ported from uf2.rs's Uf2Flags bitflags set.
const (
	FlagNotMainFlash Flags = 1 << 0
	FlagFileContainer Flags = 1 << 12
	FlagFamilyIDPresent Flags = 1 << 13
	FlagChecksumPresent Flags = 1 << 14
	FlagExtTagsPresent  Flags = 1 << 15

	knownFlags = FlagNotMainFlash | FlagFileContainer | FlagFamilyIDPresent | FlagChecksumPresent | FlagExtTagsPresent
)

// Has reports whether f has any bit of bit set.
func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Block is one decoded 512-byte UF2 block.
type Block struct {
	Flags       Flags
	TargetAddr  uint32
	PayloadSize uint32
	BlockNum    uint32
	NumBlocks   uint32
	ExtraData   uint32
	Payload     []byte
}

// Bounds returns the block's [start, end) target address range.
func (b Block) Bounds() (start, end uint32) {
	return b.TargetAddr, b.TargetAddr + b.PayloadSize
}

// Parse decodes every 512-byte block in data. data's length must be a
// multiple of 512.
func Parse(data []byte) ([]Block, error) {
	if len(data)%blockSize != 0 {
		return nil, fmt.Errorf("uf2: invalid container size (%d %% 512 == %d)", len(data), len(data)%blockSize)
	}

	blocks := make([]Block, 0, len(data)/blockSize)
	for offset := 0; offset < len(data); offset += blockSize {
		block, err := parseBlock(data[offset : offset+blockSize])
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func parseBlock(raw []byte) (Block, error) {
	var magic0, magic1, magic2 [4]byte
	copy(magic0[:], raw[0:4])
	copy(magic1[:], raw[4:8])
	copy(magic2[:], raw[508:512])

	if magic0 != magicStart0 {
		return Block{}, fmt.Errorf("uf2: invalid header (magic0: %x)", magic0)
	}
	if magic1 != magicStart1 {
		return Block{}, fmt.Errorf("uf2: invalid header (magic1: %x)", magic1)
	}
	if magic2 != magicEnd {
		return Block{}, fmt.Errorf("uf2: invalid header (magic2: %x)", magic2)
	}

	flags := Flags(binary.LittleEndian.Uint32(raw[8:12]))
	if flags&^knownFlags != 0 {
		return Block{}, fmt.Errorf("uf2: invalid flags (%#x)", uint32(flags))
	}

	targetAddr := binary.LittleEndian.Uint32(raw[12:16])
	payloadSize := binary.LittleEndian.Uint32(raw[16:20])
	if payloadSize > PayloadMax {
		return Block{}, fmt.Errorf("uf2: invalid payload size (%d)", payloadSize)
	}
	blockNum := binary.LittleEndian.Uint32(raw[20:24])
	numBlocks := binary.LittleEndian.Uint32(raw[24:28])
	extraData := binary.LittleEndian.Uint32(raw[28:32])

	payload := make([]byte, payloadSize)
	copy(payload, raw[32:32+payloadSize])

	return Block{
		Flags:       flags,
		TargetAddr:  targetAddr,
		PayloadSize: payloadSize,
		BlockNum:    blockNum,
		NumBlocks:   numBlocks,
		ExtraData:   extraData,
		Payload:     payload,
	}, nil
}

// Range is one coalesced run of contiguous flash-bound blocks.
type Range struct {
	Start  uint32
	Length uint32
}

// Coalesce walks blocks in order, skipping any flagged NotMainFlash, and
// merges runs where one block's end address equals the next block's
// start address into a single Range (spec §4.8/§6).
func Coalesce(blocks []Block) []Range {
	var ranges []Range

	for _, b := range blocks {
		if b.Flags.Has(FlagNotMainFlash) {
			continue
		}
		start, end := b.Bounds()

		if n := len(ranges); n > 0 && ranges[n-1].Start+ranges[n-1].Length == start {
			ranges[n-1].Length += end - start
			continue
		}
		ranges = append(ranges, Range{Start: start, Length: end - start})
	}

	return ranges
}
