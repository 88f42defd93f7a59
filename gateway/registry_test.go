package gateway

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Registry_First_And_Last_Transitions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	laptop := newConn(nil, nil, "alice", 1)
	phone := newConn(nil, nil, "alice", 1)

	req.True(registry.Bind("alice", laptop))
	req.False(registry.Bind("alice", phone))
	req.Equal(2, registry.Connections("alice"))

	req.False(registry.Unbind("alice", laptop))
	req.True(registry.Unbind("alice", phone))
	req.Zero(registry.Connections("alice"))

	// Unbinding an unknown connection reports the channel as gone.
	req.True(registry.Unbind("alice", laptop))
}

func Test_Registry_Broadcast_Skips_Saturated_Connections(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.False(registry.Broadcast("ghost", []byte("nobody home")))

	slow := newConn(nil, nil, "alice", 1)
	registry.Bind("alice", slow)
	req.True(registry.Broadcast("alice", []byte("fills the buffer")))

	// The buffer is full, the frame is dropped instead of blocking.
	req.False(registry.Broadcast("alice", []byte("dropped")))

	fast := newConn(nil, nil, "alice", 8)
	registry.Bind("alice", fast)
	req.True(registry.Broadcast("alice", []byte("one taker is enough")))
}

func Test_Registry_Concurrent_Churn(t *testing.T) {
	registry := NewRegistry()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n%4)
			for j := 0; j < 100; j++ {
				conn := newConn(nil, nil, userID, 4)
				registry.Bind(userID, conn)
				registry.Broadcast(userID, []byte("tick"))
				registry.Unbind(userID, conn)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		require.Zero(t, registry.Connections(fmt.Sprintf("user-%d", i)))
	}
}
