package runtime

import (
	"fmt"
	"sync"
)

// FlashWriteBlock is the fixed block size a FirmwareSession coalesces
// Data chunks into before handing them to the FlashWriter, matching
// original_source/firmware/src/dfu.rs's FLASH_WRITE_BLOCK.
const FlashWriteBlock = 4 * 1024

type firmwareCmdKind byte

const (
	firmwareCmdBegin firmwareCmdKind = iota
	firmwareCmdBlock
	firmwareCmdFinish
)

type firmwareCmd struct {
	kind   firmwareCmdKind
	offset uint32
	data   []byte
}

// FirmwareState owns the bounded command channel between CommandServer
// and the FlashWriter goroutine. Ported in spirit from dfu.rs's
// FirmwareState/FirmwareIntf/FirmwareSession/FirmwareRecvr three-way
// split, collapsed to Go's channel idiom: no borrow-checker-driven
// Mutex<Sender> is needed, so a plain sync.Mutex serializes sessions.
type FirmwareState struct {
	ch  chan firmwareCmd
	mu  sync.Mutex
}

// NewFirmwareState returns a FirmwareState with the spec's 4-deep
// command channel.
func NewFirmwareState() *FirmwareState {
	return &FirmwareState{ch: make(chan firmwareCmd, 4)}
}

// Lock blocks until no other FirmwareSession is in progress, then returns
// a session that owns the channel's send side until Finish is called.
func (s *FirmwareState) Lock(initialOffset uint32) *FirmwareSession {
	s.mu.Lock()
	return &FirmwareSession{state: s, offset: initialOffset}
}

// Run drains the command channel, coalescing Block commands into the
// FlashWriter, until recv returns a closed-channel zero value forever
// (the caller is expected to run this for the lifetime of the process).
func (s *FirmwareState) Run(writer FlashWriter) error {
	for cmd := range s.ch {
		switch cmd.kind {
		case firmwareCmdBegin:
			// Begin needs no action from the writer; every Begin is
			// ignored.
		case firmwareCmdBlock:
			if err := writer.WriteBlock(cmd.offset, cmd.data); err != nil {
				return fmt.Errorf("firmware: write block at offset %d: %w", cmd.offset, err)
			}
		case firmwareCmdFinish:
			if err := writer.MarkUpdated(); err != nil {
				return fmt.Errorf("firmware: mark updated: %w", err)
			}
		}
	}
	return nil
}

// FirmwareSession accumulates Data chunks into FlashWriteBlock-sized
// blocks and forwards them over the owning FirmwareState's channel.
type FirmwareSession struct {
	state  *FirmwareState
	offset uint32
	buf    []byte
}

// Begin announces the start of a DFU transfer.
func (f *FirmwareSession) Begin() {
	f.state.ch <- firmwareCmd{kind: firmwareCmdBegin}
}

// Write appends one Data chunk, flushing a full block as needed.
func (f *FirmwareSession) Write(data []byte) {
	if len(f.buf)+len(data) > FlashWriteBlock {
		f.flush()
	}
	f.buf = append(f.buf, data...)
	if len(f.buf) == FlashWriteBlock {
		f.flush()
	}
}

func (f *FirmwareSession) flush() {
	if len(f.buf) == 0 {
		return
	}
	block := make([]byte, len(f.buf))
	copy(block, f.buf)
	f.state.ch <- firmwareCmd{kind: firmwareCmdBlock, offset: f.offset, data: block}
	f.offset += uint32(len(block))
	f.buf = f.buf[:0]
}

// Finish flushes any partial block and releases the session lock.
func (f *FirmwareSession) Finish() {
	f.flush()
	f.state.ch <- firmwareCmd{kind: firmwareCmdFinish}
	f.state.mu.Unlock()
}
