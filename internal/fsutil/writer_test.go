package fsutil

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestOutputWriter_Write(t *testing.T) {
	m := NewMemoryFileSystem()
	w := NewOutputWriter(m, "out/eyemaps")

	path, err := w.Write([]byte("<svg/>"), "ME_Tm1_L_synapse_density.svg")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := filepath.Join("out/eyemaps", "ME_Tm1_L_synapse_density.svg")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	got, err := m.ReadFile(path)
	if err != nil || string(got) != "<svg/>" {
		t.Errorf("stored content = %q, %v", got, err)
	}
}

func TestOutputWriter_RejectsTraversal(t *testing.T) {
	w := NewOutputWriter(NewMemoryFileSystem(), "out")
	for _, name := range []string{"../up.svg", "a/b.svg", ""} {
		if _, err := w.Write([]byte("x"), name); err == nil {
			t.Errorf("Write(%q) succeeded, want error", name)
		}
	}
}

func TestClaim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.claim")

	release, err := Claim(path)
	if err != nil {
		t.Fatalf("first Claim: %v", err)
	}

	// Second claim must lose while the first holds the file.
	if _, err := Claim(path); !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("second Claim = %v, want ErrAlreadyClaimed", err)
	}

	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	// After release the claim is up for grabs again.
	release2, err := Claim(path)
	if err != nil {
		t.Fatalf("re-Claim after release: %v", err)
	}
	if err := release2(); err != nil {
		t.Fatalf("release2: %v", err)
	}
}
