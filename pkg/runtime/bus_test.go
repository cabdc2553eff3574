package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/splitwing/splitwing/pkg/proto"
)

// chanBusLink is an in-memory BusLink connecting a BusMaster to a
// BusSlave within one test process.
type chanBusLink struct {
	ch chan []byte
}

func newChanBusLink() *chanBusLink {
	return &chanBusLink{ch: make(chan []byte, 1)}
}

func (l *chanBusLink) Write(ctx context.Context, addr byte, frame []byte) error {
	select {
	case l.ch <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *chanBusLink) Read(ctx context.Context, addr byte) ([]byte, error) {
	select {
	case frame := <-l.ch:
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestBusMasterSlaveRoundTrip(t *testing.T) {
	link := newChanBusLink()
	local := NewSignal[proto.KeyUpdate]()
	remote := NewSignal[proto.KeyUpdate]()

	master := &BusMaster{Link: link, Local: local}
	slave := &BusSlave{Link: link, Remote: remote}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go master.Run(ctx)
	go slave.Run(ctx)

	want := proto.KeyUpdate{Keys: []proto.MatrixLoc{proto.NewMatrixLoc(2, 3)}}
	local.Set(want)

	deadline := time.After(time.Second)
	for {
		if got, ok := remote.TryTake(); ok {
			if len(got.Keys) != 1 || got.Keys[0] != want.Keys[0] {
				t.Fatalf("remote received %+v, want %+v", got, want)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for remote signal")
		case <-time.After(time.Millisecond):
		}
	}
}
