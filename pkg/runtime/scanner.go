package runtime

import (
	"context"
	"time"

	"github.com/splitwing/splitwing/pkg/proto"
)

// DefaultScanInterval is the matrix scan tick, spec §4.3's default 20 ms.
const DefaultScanInterval = 20 * time.Millisecond

const columnSettleTime = 20 * time.Microsecond

// MatrixScanner drives one half's key matrix: per tick, raise each column
// pin, settle, sample every row pin, lower the column, and publish the
// resulting proto.KeyUpdate (original_source/firmware/src/key_matrix.rs's
// KeyMatrix::run, ported verbatim in structure).
type MatrixScanner struct {
	Bus      GPIOBus
	Signal   *Signal[proto.KeyUpdate]
	Interval time.Duration
}

// Run scans until ctx is done. It never returns nil; it returns ctx.Err()
// on cancellation.
func (m *MatrixScanner) Run(ctx context.Context) error {
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultScanInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			update, err := m.scanOnce()
			if err != nil {
				return err
			}
			m.Signal.Set(update)
		}
	}
}

func (m *MatrixScanner) scanOnce() (proto.KeyUpdate, error) {
	var keys []proto.MatrixLoc

	for col := 0; col < m.Bus.NumCols(); col++ {
		if err := m.Bus.SetColumn(col, true); err != nil {
			return proto.KeyUpdate{}, err
		}
		time.Sleep(columnSettleTime)

		for row := 0; row < m.Bus.NumRows(); row++ {
			high, err := m.Bus.ReadRow(row)
			if err != nil {
				return proto.KeyUpdate{}, err
			}
			if high {
				keys = append(keys, proto.NewMatrixLoc(row, col))
			}
		}

		if err := m.Bus.SetColumn(col, false); err != nil {
			return proto.KeyUpdate{}, err
		}
	}

	return proto.KeyUpdate{Keys: keys}, nil
}
