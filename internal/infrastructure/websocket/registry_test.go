package websocket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	name   string
	mu     sync.Mutex
	frames [][]byte
	closed string
}

func (f *fakeHandle) Deliver(payload []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, payload)
	return true
}

func (f *fakeHandle) Close(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = reason
}

func TestRegistry_LastConnectWins(t *testing.T) {
	r := NewRegistry()
	h1 := &fakeHandle{name: "h1"}
	h2 := &fakeHandle{name: "h2"}

	t1, replaced := r.Register("A", h1)
	assert.Nil(t, replaced)

	t2, replaced := r.Register("A", h2)
	assert.Equal(t, h1, replaced)
	assert.Greater(t, t2, t1)

	got, ok := r.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, h2, got)

	assert.False(t, r.Unregister("A", t1), "stale token must not evict the newer session")
	got, ok = r.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, h2, got)

	assert.True(t, r.Unregister("A", t2))
	_, ok = r.Lookup("A")
	assert.False(t, ok)
	assert.False(t, r.Unregister("A", t2))
}

func TestRegistry_ReRegisterSameHandle(t *testing.T) {
	r := NewRegistry()
	h := &fakeHandle{}

	r.Register("A", h)
	_, replaced := r.Register("A", h)
	assert.Nil(t, replaced)
}

func TestRegistry_ListOnlineAndEach(t *testing.T) {
	r := NewRegistry()
	r.Register("c", &fakeHandle{})
	r.Register("a", &fakeHandle{})
	r.Register("b", &fakeHandle{})

	assert.Equal(t, []string{"a", "b", "c"}, r.ListOnline())

	seen := 0
	r.Each(func(string, Handle) bool {
		seen++
		return seen < 2
	})
	assert.Equal(t, 2, seen)
}

func TestRegistry_ConcurrentParticipants(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			token, _ := r.Register(id, &fakeHandle{})
			if i%2 == 0 {
				r.Unregister(id, token)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.ListOnline(), 25)
}
