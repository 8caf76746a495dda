package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockClientSequence(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockClient(
		MockResponse{Content: "one"},
		MockResponse{Error: boom},
		MockResponse{Content: "last"},
	)
	ctx := context.Background()

	resp, err := m.Chat(ctx, ChatRequest{Model: "m"})
	if err != nil || resp.Content != "one" {
		t.Fatalf("first: %v %+v", err, resp)
	}
	if _, err := m.Chat(ctx, ChatRequest{}); !errors.Is(err, boom) {
		t.Fatalf("second should fail with configured error, got %v", err)
	}
	for i := 0; i < 3; i++ {
		resp, err = m.Chat(ctx, ChatRequest{})
		if err != nil || resp.Content != "last" {
			t.Fatalf("exhausted sequence should repeat the last response, got %v %+v", err, resp)
		}
	}

	if n := len(m.Calls()); n != 5 {
		t.Fatalf("calls = %d, want 5", n)
	}
	if m.Calls()[0].Model != "m" {
		t.Fatalf("call history should keep request fields")
	}

	m.Reset()
	if len(m.Calls()) != 0 {
		t.Fatalf("reset should clear call history")
	}
	resp, _ = m.Chat(ctx, ChatRequest{})
	if resp.Content != "one" {
		t.Fatalf("reset should rewind the sequence, got %q", resp.Content)
	}
}

func TestMockClientNoResponses(t *testing.T) {
	m := NewMockClient()
	if _, err := m.Chat(context.Background(), ChatRequest{}); err == nil {
		t.Fatalf("unconfigured mock should error")
	}
}
