package memo

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDefinition_Validate(t *testing.T) {
	producer := func(ctx context.Context, args ...any) (any, error) { return nil, nil }

	tests := []struct {
		name    string
		def     Definition
		wantErr error
	}{
		{"valid", Definition{Name: "number", Producer: producer}, nil},
		{"empty name", Definition{Name: "", Producer: producer}, ErrInvalidName},
		{"blank name", Definition{Name: "   ", Producer: producer}, ErrInvalidName},
		{"nil producer", Definition{Name: "number"}, ErrNilProducer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefinition_InvokePanicBecomesError(t *testing.T) {
	sentinel := errors.New("producer exploded")

	tests := []struct {
		name      string
		producer  Producer
		wantErr   error  // exact error identity, when the panic carried one
		wantInMsg string // message fragment otherwise
	}{
		{
			name:     "panic with error keeps identity",
			producer: func(ctx context.Context, args ...any) (any, error) { panic(sentinel) },
			wantErr:  sentinel,
		},
		{
			name:      "panic with string is wrapped",
			producer:  func(ctx context.Context, args ...any) (any, error) { panic("boom") },
			wantInMsg: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := &Definition{Name: "volatile", Producer: tt.producer}
			_, err := def.invoke(context.Background(), nil)
			if err == nil {
				t.Fatal("invoke should surface the panic as an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("invoke() error = %v, want %v verbatim", err, tt.wantErr)
			}
			if tt.wantInMsg != "" && !strings.Contains(err.Error(), tt.wantInMsg) {
				t.Errorf("invoke() error = %q, want it to mention %q", err, tt.wantInMsg)
			}
		})
	}
}

func TestDefinition_InvokePassesArguments(t *testing.T) {
	var got []any
	def := &Definition{
		Name: "echo",
		Producer: func(ctx context.Context, args ...any) (any, error) {
			got = append([]any(nil), args...)
			return "ok", nil
		},
	}

	want := []any{"remy", 42}
	if _, err := def.invoke(context.Background(), want); err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("producer received %v, want %v", got, want)
	}
}

func TestRegistry_Lifecycle(t *testing.T) {
	reg := newRegistry()
	producer := func(ctx context.Context, args ...any) (any, error) { return nil, nil }

	if def := reg.lookup("number"); def != nil {
		t.Errorf("lookup on empty registry = %v, want nil", def)
	}

	reg.put(&Definition{Name: "number", Producer: producer})
	reg.put(&Definition{Name: "location", Producer: producer})

	if def := reg.lookup("number"); def == nil || def.Name != "number" {
		t.Errorf("lookup(number) = %v, want the number definition", def)
	}

	// Replacement is silent
	reg.put(&Definition{Name: "number", Producer: producer, TTR: 1})
	if def := reg.lookup("number"); def == nil || def.TTR != 1 {
		t.Error("put should replace the existing definition")
	}

	if got, want := reg.names(), []string{"location", "number"}; !reflect.DeepEqual(got, want) {
		t.Errorf("names() = %v, want %v", got, want)
	}

	reg.remove("number")
	if def := reg.lookup("number"); def != nil {
		t.Error("lookup after remove should return nil")
	}
	reg.remove("number") // idempotent

	reg.clear()
	if got := reg.names(); len(got) != 0 {
		t.Errorf("names() after clear = %v, want empty", got)
	}
}
