package session

import (
	"sync"
	"testing"

	"github.com/agentmux/agentmux/core"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_AppendAndSnapshot(t *testing.T) {
	store := NewInMemoryStore()
	key := core.ConversationKey{AgentID: "calc", UserID: "u1"}

	if err := store.Append(key, core.NewUserMessage("hi")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(key, core.NewAssistantMessage("calc", "hello")); err != nil {
		t.Fatalf("append: %v", err)
	}

	msgs, err := store.Messages(key)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	// Returned slice is a snapshot
	msgs[0] = core.NewUserMessage("mutated")
	again, _ := store.Messages(key)
	if again[0].Text() != "hi" {
		t.Fatalf("expected snapshot isolation, got %q", again[0].Text())
	}
}

func TestInMemoryStore_ScopesByConversation(t *testing.T) {
	store := NewInMemoryStore()
	k1 := core.ConversationKey{AgentID: "calc", UserID: "u1"}
	k2 := core.ConversationKey{AgentID: "calc", UserID: "u2"}

	_ = store.Append(k1, core.NewUserMessage("for u1"))

	msgs, _ := store.Messages(k2)
	if len(msgs) != 0 {
		t.Fatalf("expected empty transcript for other user, got %d messages", len(msgs))
	}
}

func TestInMemoryStore_Reset(t *testing.T) {
	store := NewInMemoryStore()
	key := core.ConversationKey{AgentID: "calc", UserID: "u1"}

	_ = store.Append(key, core.NewUserMessage("hi"))
	if err := store.Reset(key); err != nil {
		t.Fatalf("reset: %v", err)
	}
	msgs, _ := store.Messages(key)
	if len(msgs) != 0 {
		t.Fatalf("expected empty transcript after reset, got %d", len(msgs))
	}
}

func TestInMemoryStore_Concurrency(t *testing.T) {
	store := NewInMemoryStore()
	key := core.ConversationKey{AgentID: "calc", UserID: "u1"}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Append(key, core.NewUserMessage("m")); err != nil {
				t.Errorf("append err: %v", err)
			}
			_, _ = store.Messages(key)
		}()
	}
	wg.Wait()

	msgs, err := store.Messages(key)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 100 {
		t.Fatalf("expected 100 messages, got %d", len(msgs))
	}
}
