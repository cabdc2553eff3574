package runtime

import (
	"sync"
	"testing"
)

func TestFirmwareSessionCoalescesIntoBlocks(t *testing.T) {
	state := NewFirmwareState()
	writer := &fakeFlashWriter{}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		state.Run(writer)
	}()

	session := state.Lock(0)
	session.Begin()
	chunk := make([]byte, 8)
	for written := 0; written < FlashWriteBlock+8; written += 8 {
		session.Write(chunk)
	}
	session.Finish()

	close(state.ch)
	wg.Wait()

	if len(writer.blocks) != 2 {
		t.Fatalf("expected 2 flushed blocks (one full, one partial), got %d", len(writer.blocks))
	}
	if len(writer.blocks[0]) != FlashWriteBlock {
		t.Fatalf("first block length = %d, want %d", len(writer.blocks[0]), FlashWriteBlock)
	}
	if len(writer.blocks[1]) != 8 {
		t.Fatalf("second block length = %d, want 8", len(writer.blocks[1]))
	}
}

func TestFirmwareStateSerializesSessions(t *testing.T) {
	state := NewFirmwareState()
	writer := &fakeFlashWriter{}
	go state.Run(writer)

	first := state.Lock(0)

	locked := make(chan struct{})
	go func() {
		state.Lock(0) // blocks until first.Finish() unlocks
		close(locked)
	}()

	select {
	case <-locked:
		t.Fatal("second Lock should not succeed before first session finishes")
	default:
	}

	first.Begin()
	first.Finish()

	<-locked // must now proceed
}
