package uf2

import (
	"encoding/binary"
	"testing"
)

func buildBlock(targetAddr, payloadSize uint32, flags Flags, blockNum, numBlocks uint32) []byte {
	raw := make([]byte, blockSize)
	copy(raw[0:4], magicStart0[:])
	copy(raw[4:8], magicStart1[:])
	binary.LittleEndian.PutUint32(raw[8:12], uint32(flags))
	binary.LittleEndian.PutUint32(raw[12:16], targetAddr)
	binary.LittleEndian.PutUint32(raw[16:20], payloadSize)
	binary.LittleEndian.PutUint32(raw[20:24], blockNum)
	binary.LittleEndian.PutUint32(raw[24:28], numBlocks)
	copy(raw[508:512], magicEnd[:])
	return raw
}

func TestParseRejectsBadMagic(t *testing.T) {
	raw := buildBlock(0x10000000, 100, 0, 0, 1)
	raw[0] = 0xFF
	if _, err := Parse(raw); err == nil {
		t.Fatal("expected error for corrupted magic0")
	}
}

func TestParseRejectsOversizePayload(t *testing.T) {
	raw := buildBlock(0x10000000, 500, 0, 0, 1)
	if _, err := Parse(raw); err == nil {
		t.Fatal("expected error for payload size > 476")
	}
}

func TestCoalesceMergesContiguousRuns(t *testing.T) {
	sizes := []uint32{476, 476, 476, 100}
	var data []byte
	addr := uint32(0x10000000)
	for i, size := range sizes {
		data = append(data, buildBlock(addr, size, 0, uint32(i), uint32(len(sizes)))...)
		addr += size
	}

	blocks, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ranges := Coalesce(blocks)
	if len(ranges) != 1 {
		t.Fatalf("expected 1 coalesced range, got %d: %+v", len(ranges), ranges)
	}
	if ranges[0].Start != 0x10000000 || ranges[0].Length != 1528 {
		t.Fatalf("range = %+v, want {0x10000000, 1528}", ranges[0])
	}
}

func TestCoalesceSkipsNotMainFlash(t *testing.T) {
	data := append(
		buildBlock(0x10000000, 100, 0, 0, 2),
		buildBlock(0x20000000, 50, FlagNotMainFlash, 1, 2)...,
	)

	blocks, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ranges := Coalesce(blocks)
	if len(ranges) != 1 || ranges[0].Start != 0x10000000 || ranges[0].Length != 100 {
		t.Fatalf("ranges = %+v, want exactly [{0x10000000, 100}]", ranges)
	}
}
