package webhook

import (
	"testing"
)

func TestCanonicalJSONSortsKeys(t *testing.T) {
	body, err := CanonicalJSON(map[string]any{
		"zebra": 1,
		"alpha": map[string]any{"delta": true, "bravo": "x"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"alpha":{"bravo":"x","delta":true},"zebra":1}`
	if string(body) != want {
		t.Errorf("got %s, want %s", body, want)
	}
}

func TestCanonicalJSONDeterministic(t *testing.T) {
	envelope := map[string]any{
		"event":     "task.created",
		"timestamp": "2025-01-01T00:00:00Z",
		"data":      map[string]any{"b": 2, "a": 1},
	}
	first, err := CanonicalJSON(envelope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := CanonicalJSON(envelope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("serialization not deterministic: %s vs %s", again, first)
		}
	}
}

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"event":"task.created"}`)
	sig := Sign("topsecret", body)

	if len(sig) != 64 {
		t.Errorf("signature length = %d, want 64 hex chars", len(sig))
	}
	if !VerifySignature("topsecret", body, sig) {
		t.Error("valid signature rejected")
	}
	if VerifySignature("wrongsecret", body, sig) {
		t.Error("signature verified under wrong secret")
	}
	if VerifySignature("topsecret", []byte(`{"event":"tampered"}`), sig) {
		t.Error("signature verified for tampered body")
	}
	if VerifySignature("topsecret", body, "not-hex") {
		t.Error("non-hex signature must not verify")
	}
}
