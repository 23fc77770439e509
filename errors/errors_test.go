package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := New(PhaseAlloc, KindExhaustion).
		Op("malloc").
		Addr(0x40).
		Detail("request for %d bytes", 128).
		Build()

	msg := err.Error()
	for _, want := range []string{"[alloc]", "exhaustion", "malloc", "0x40", "128 bytes"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q missing %q", msg, want)
		}
	}
}

func TestError_Is(t *testing.T) {
	err := Exhaustion(PhaseExchange, 64, 8)
	if !stderrors.Is(err, &Error{Phase: PhaseExchange, Kind: KindExhaustion}) {
		t.Fatal("expected Is match on phase+kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseAlloc, Kind: KindExhaustion}) {
		t.Fatal("unexpected Is match across phases")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(PhaseUpcall, KindFatal, cause, "service failed")
	if !stderrors.Is(err, cause) {
		t.Fatal("expected unwrap to reach cause")
	}
	if !strings.Contains(err.Error(), "caused by: boom") {
		t.Fatalf("cause not rendered: %q", err.Error())
	}
}

func TestForeignPanic(t *testing.T) {
	err := ForeignPanic("call_shim_on_c_stack", "segfault")
	if err.Kind != KindForeignPanic {
		t.Fatalf("wrong kind %q", err.Kind)
	}
	if !strings.Contains(err.Error(), "native code threw an exception") {
		t.Fatalf("diagnostic missing: %q", err.Error())
	}
}
