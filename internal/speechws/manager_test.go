package speechws

import (
	"strconv"
	"sync"
	"testing"

	"github.com/coder/websocket"
)

func TestSessionManager_Register(t *testing.T) {
	sm := NewSessionManager()
	conn := &websocket.Conn{}

	sm.Register("user123", "tab-1", conn)

	if active := sm.GetActive("user123", "tab-1"); active != conn {
		t.Errorf("Expected connection %v, got %v", conn, active)
	}
	if sm.Len() != 1 {
		t.Errorf("Expected 1 active socket, got %d", sm.Len())
	}
}

func TestSessionManager_UnregisterStale(t *testing.T) {
	sm := NewSessionManager()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	sm.Register("user123", "tab-1", conn1)
	sm.Register("user123", "tab-2", conn2)
	sm.Unregister("user123", "tab-1", conn1)
	// A connection that is no longer registered is ignored.
	sm.Unregister("user123", "tab-2", conn1)

	if active := sm.GetActive("user123", "tab-2"); active != conn2 {
		t.Errorf("Expected connection %v, got %v", conn2, active)
	}
	if sm.GetActive("user123", "tab-1") != nil {
		t.Error("Expected tab-1 to be gone")
	}
}

func TestSessionManager_ConcurrentAccess(t *testing.T) {
	sm := NewSessionManager()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := range 1000 {
			sm.Register("concurrentUser", "tab-"+strconv.Itoa(i), &websocket.Conn{})
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 1000 {
			sm.GetActive("concurrentUser", "tab-"+strconv.Itoa(i))
		}
	}()
	wg.Wait()

	if sm.Len() != 1000 {
		t.Errorf("Expected 1000 sockets, got %d", sm.Len())
	}
}
