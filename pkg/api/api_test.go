package api

import (
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestElaborateSimpleDef(t *testing.T) {
	source := `def answer : U32 = 42;`

	result := Elaborate(source, Options{})
	if result.Failed() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if len(result.Module.Names) != 1 || result.Module.Names[0] != "answer" {
		t.Fatalf("expected one item named answer, got %v", result.Module.Names)
	}
}

func TestElaborateUnboundName(t *testing.T) {
	source := `def x : U32 = y;`

	result := Elaborate(source, Options{})
	if !result.Failed() {
		t.Fatalf("expected elaboration to fail on an unbound name")
	}
}

func TestElaborateWithLogger(t *testing.T) {
	source := `def ok : Bool = true;`

	result := Elaborate(source, Options{Logger: hclog.NewNullLogger()})
	if result.Failed() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
}

func TestReadSimpleFormat(t *testing.T) {
	source := `def entry : Format = u8;`

	elab := Elaborate(source, Options{})
	if elab.Failed() {
		t.Fatalf("unexpected diagnostics: %v", elab.Diagnostics)
	}

	result, err := Read(elab.Context, "entry", []byte{0x2a})
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if result.Root == nil {
		t.Fatalf("expected a decoded root value")
	}
}

func TestReadUnknownEntrypoint(t *testing.T) {
	source := `def entry : Format = u8;`

	elab := Elaborate(source, Options{})
	if elab.Failed() {
		t.Fatalf("unexpected diagnostics: %v", elab.Diagnostics)
	}

	if _, err := Read(elab.Context, "missing", []byte{0x00}); err == nil {
		t.Fatalf("expected an error for an unknown entrypoint")
	}
}
