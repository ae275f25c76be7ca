package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	Version, GitCommit = "1.2.3", ""
	if got := String(); got != "loom 1.2.3" {
		t.Fatalf("String() = %q", got)
	}
	GitCommit = "abc123def456"
	if got := String(); got != "loom 1.2.3 (abc123d)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestWriteBanner(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })
	Version, GitCommit, BuildDate = "1.2.3", "abc", "2024-01-15"

	var plain bytes.Buffer
	if err := WriteBanner(&plain, false); err != nil {
		t.Fatal(err)
	}
	want := "loom 1.2.3\ncommit abc\nbuilt  2024-01-15\n"
	if plain.String() != want {
		t.Fatalf("plain banner = %q, want %q", plain.String(), want)
	}

	var colored bytes.Buffer
	if err := WriteBanner(&colored, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("coloured banner has no escapes: %q", colored.String())
	}
}
