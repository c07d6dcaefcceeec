package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/onboard/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore(), memory.NewLoader(nil))
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.WithLock(ctx, sid, func(ctx context.Context) error { return nil })
		_ = mgr.Delete(ctx, sid)
	}

	lockCount := len(mgr.locks)
	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
