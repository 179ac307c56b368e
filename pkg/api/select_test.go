package api

import (
	"errors"
	"testing"
)

func TestFirst_SingleEntry(t *testing.T) {
	want := Completion{ID: "cmpl-42", Model: "test-model"}
	data := CompletionData{
		Completions: map[string]ModelResult{
			"test-model": {Completion: want},
		},
	}

	got, err := data.First()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.Model != want.Model {
		t.Errorf("expected completion %+v, got %+v", want, got)
	}
}

func TestFirst_MultipleEntriesReturnsSomeMember(t *testing.T) {
	data := CompletionData{
		Completions: map[string]ModelResult{
			"model-a": {Completion: Completion{ID: "cmpl-a"}},
			"model-b": {Completion: Completion{ID: "cmpl-b"}},
		},
	}

	got, err := data.First()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Map order is undefined; the only guarantee is membership.
	if got.ID != "cmpl-a" && got.ID != "cmpl-b" {
		t.Errorf("expected one of the stored completions, got %q", got.ID)
	}
}

func TestFirst_Empty(t *testing.T) {
	tests := []struct {
		name string
		data CompletionData
	}{
		{"nil map", CompletionData{}},
		{"empty map", CompletionData{Completions: map[string]ModelResult{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.data.First()
			if !errors.Is(err, ErrNoCompletions) {
				t.Errorf("expected ErrNoCompletions, got %v", err)
			}
		})
	}
}
