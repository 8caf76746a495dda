package guide

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"athena/internal/llm"
)

func TestGatewayNoCredential(t *testing.T) {
	gw := NewGateway("", "model-x", 256)
	gw.NewClient = func(string) llm.Client {
		t.Fatalf("no client should be built without a credential")
		return nil
	}
	_, err := gw.Complete(context.Background(), "", "sys", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	_, err = gw.Complete(context.Background(), "   ", "sys", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("whitespace key: err = %v, want ErrUnavailable", err)
	}
}

func TestGatewayWrapsProviderFailure(t *testing.T) {
	cause := fmt.Errorf("rate limited")
	gw := NewGateway("key", "model-x", 256)
	gw.NewClient = func(string) llm.Client {
		return llm.NewMockClient(llm.MockResponse{Error: cause})
	}
	_, err := gw.Complete(context.Background(), "", "sys", nil)
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("ProviderError should unwrap to the cause")
	}
}

func TestGatewayRejectsEmptyResponse(t *testing.T) {
	gw := NewGateway("key", "model-x", 256)
	gw.NewClient = func(string) llm.Client {
		return llm.NewMockClient(llm.MockResponse{Content: "   \n"})
	}
	_, err := gw.Complete(context.Background(), "", "sys", nil)
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
}

func TestGatewayPassesModelAndLimits(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Content: "ok"})
	gw := NewGateway("key", "model-x", 512)
	gw.NewClient = func(string) llm.Client { return mock }

	text, err := gw.Complete(context.Background(), "", "sys", []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "ok" {
		t.Fatalf("text = %q", text)
	}
	call := mock.Calls()[0]
	if call.Model != "model-x" || call.MaxTokens != 512 || call.System != "sys" {
		t.Fatalf("request not forwarded: %+v", call)
	}
}
