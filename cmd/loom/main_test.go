package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"loom/internal/feed"
	"loom/internal/version"
)

func writeProject(t *testing.T) (dir, header, main string) {
	t.Helper()
	dir = t.TempDir()
	header = filepath.Join(dir, "stdio.mp")
	main = filepath.Join(dir, "main.mp")
	hdr := &feed.Document{
		Files: []feed.File{{Path: "/usr/include/stdio.h", Foreign: true}},
		Decls: []feed.Decl{{Path: "/usr/include/stdio.h", Node: &feed.Node{
			Kind: "func", Name: "puts", Type: feed.Named("int"), Flags: []string{"extern"},
		}}},
	}
	// int main() { hello(); nope(); }
	prog := &feed.Document{
		Main:  "main.c",
		Files: []feed.File{{Path: "main.c"}, {Path: "/usr/include/stdio.h", Foreign: true}},
		Decls: []feed.Decl{{Path: "main.c", Node: &feed.Node{
			Kind: "func", Name: "main", Type: feed.Named("int"),
			Children: []*feed.Node{{Kind: "block", Children: []*feed.Node{
				{Kind: "invoke", Name: "hello"},
				{Kind: "invoke", Name: "nope"},
			}}},
		}}},
		Edges: []feed.Edge{{From: "main.c", To: "/usr/include/stdio.h", At: feed.Pos{Line: 1, Col: 1}}},
	}
	if err := feed.WriteFile(header, hdr); err != nil {
		t.Fatal(err)
	}
	if err := feed.WriteFile(main, prog); err != nil {
		t.Fatal(err)
	}
	return dir, header, main
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestLinkPrintsForest(t *testing.T) {
	_, header, main := writeProject(t)
	out, errOut, err := execute(t, "link", "--color", "never", header, main)
	if err != nil {
		t.Fatalf("link: %v\n%s", err, errOut)
	}
	for _, want := range []string{
		"/usr/include/stdio.h (1 decls)\n",
		"main.c [main] (1 decls)\n  -> /usr/include/stdio.h\n",
		"2 modules, 1 includes resolved, 0 dropped",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestExpandReportsUnknownAction(t *testing.T) {
	_, header, main := writeProject(t)
	out, errOut, err := execute(t, "expand", "--format", "short", "--dump", "tree", header, main)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	if !strings.Contains(errOut, "error PLG3004 main.c:") || !strings.Contains(errOut, `no plugin action named "nope"`) {
		t.Fatalf("diagnostics:\n%s", errOut)
	}
	if !strings.Contains(out, "2 invocations: 1 expanded") || !strings.Contains(out, "1 unknown") {
		t.Fatalf("expansion summary:\n%s", out)
	}
	if !strings.Contains(out, "Hello World!") {
		t.Fatalf("dump lacks the expanded literal:\n%s", out)
	}
}

func TestExpandWithoutBuiltins(t *testing.T) {
	_, header, main := writeProject(t)
	out, _, err := execute(t, "expand", "--builtin=false", header, main)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	if !strings.Contains(out, "0 expanded") || !strings.Contains(out, "2 unknown") {
		t.Fatalf("expansion summary:\n%s", out)
	}
}

func TestGraphFromManifest(t *testing.T) {
	dir, _, _ := writeProject(t)
	manifest := filepath.Join(dir, "loom.toml")
	body := "[build]\nfeeds = [\"stdio.mp\", \"main.mp\"]\n\n[diagnostics]\nformat = \"short\"\n"
	if err := os.WriteFile(manifest, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	out, errOut, err := execute(t, "graph", "--config", manifest, "--format", "json")
	if err != nil {
		t.Fatalf("graph: %v\n%s", err, errOut)
	}
	var report graphJSON
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("bad JSON %q: %v", out, err)
	}
	if !slices.Equal(report.Order, []string{"/usr/include/stdio.h", "main.c"}) {
		t.Fatalf("order = %v", report.Order)
	}
	if len(report.Batches) != 2 || len(report.Cycles) != 0 {
		t.Fatalf("report = %+v", report)
	}
}

func TestLoadSettingsFlagsOverrideManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "loom.toml")
	body := "[build]\nmain = \"app.c\"\nfeeds = [\"a.mp\"]\n\n[link]\nstrict = true\n\n[plugins]\nload = [\"p.so\"]\n\n[diagnostics]\nmax = 5\nformat = \"short\"\n"
	if err := os.WriteFile(manifest, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	cmd, _, err := root.Find([]string{"link"})
	if err != nil {
		t.Fatal(err)
	}
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.ParseFlags([]string{"--config", manifest, "--format", "json", "--strict=false", "--plugin", "q.so"}); err != nil {
		t.Fatal(err)
	}
	s, err := loadSettings(cmd, nil)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if s.main != "app.c" || s.format != "json" || s.maxDiagnostics != 5 || s.link.Strict {
		t.Fatalf("settings = %+v", s)
	}
	if !slices.Equal(s.feeds, []string{filepath.Join(dir, "a.mp")}) {
		t.Fatalf("feeds = %v", s.feeds)
	}
	if !slices.Equal(s.plugins, []string{filepath.Join(dir, "p.so"), "q.so"}) {
		t.Fatalf("plugins = %v", s.plugins)
	}
	if !s.builtin || s.color {
		t.Fatalf("builtin/color = %v/%v", s.builtin, s.color)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	for _, args := range [][]string{
		{"--format", "xml", "a.mp"},
		{"--color", "sometimes", "a.mp"},
		{"--max-diagnostics", "-1", "a.mp"},
	} {
		root := newRootCmd()
		cmd, _, _ := root.Find([]string{"link"})
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}
		if _, err := loadSettings(cmd, cmd.Flags().Args()); err == nil {
			t.Fatalf("%v: expected an error", args)
		}
	}
}

func TestResolveColor(t *testing.T) {
	cases := []struct {
		mode string
		want bool
	}{
		{"always", true},
		{"on", true},
		{"never", false},
		{"auto", false}, // буфер не терминал
	}
	for _, tc := range cases {
		got, err := resolveColor(tc.mode, &bytes.Buffer{})
		if err != nil || got != tc.want {
			t.Fatalf("resolveColor(%q) = %v, %v", tc.mode, got, err)
		}
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "--color", "never")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "loom "+version.Version+"\n") {
		t.Fatalf("version output %q", out)
	}
	out, _, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil || payload.Tool != "loom" {
		t.Fatalf("payload %q: %v", out, err)
	}
}

func TestLinkWritesProfiles(t *testing.T) {
	dir, header, main := writeProject(t)
	mem := filepath.Join(dir, "mem.out")
	if _, errOut, err := execute(t, "link", "--memprofile", mem, header, main); err != nil {
		t.Fatalf("link: %v\n%s", err, errOut)
	}
	if info, err := os.Stat(mem); err != nil || info.Size() == 0 {
		t.Fatalf("heap profile missing: %v", err)
	}
}
