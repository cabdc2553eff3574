package runtime

import (
	"fmt"
	"sync"
)

// panicBufferSize mirrors original_source/firmware/src/panic_handler.rs's
// fixed 1024-byte PANIC_BUFFER.
const panicBufferSize = 1024

var (
	panicMu  sync.Mutex
	panicBuf []byte
)

// RecoverAndEnterBootloader is meant to be deferred at the top of a task
// goroutine. On panic it renders the panic value into a dedicated,
// separately-capped buffer (spec §7's fatal-invariant-violation policy,
// ported from panic_handler.rs's PanicBuffer writer) and calls
// boot.EnterBootloader instead of letting the goroutine crash the
// process, matching the original's "write record, jump to ROM bootloader"
// behavior.
func RecoverAndEnterBootloader(boot BootloaderEntry) {
	if r := recover(); r != nil {
		record := fmt.Sprintf("panic: %v", r)

		panicMu.Lock()
		panicBuf = []byte(record)
		if len(panicBuf) > panicBufferSize {
			panicBuf = panicBuf[:panicBufferSize]
		}
		panicMu.Unlock()

		boot.EnterBootloader()
	}
}

// PanicRecord returns the most recently captured panic text, or "" if no
// panic has been recorded since process start.
func PanicRecord() string {
	panicMu.Lock()
	defer panicMu.Unlock()
	return string(panicBuf)
}
