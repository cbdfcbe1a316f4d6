package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/adrg/xdg"

	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/errors"
	"github.com/matzehuels/framegrid/pkg/pipeline"
	"github.com/matzehuels/framegrid/pkg/session"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

const mailTOML = `
name   = "mail"
width  = 304
height = 200

[root]
cols   = "100,*"
border = 4

  [[root.children]]
  name = "toc"

  [[root.children]]
  name = "body"
`

// workspace writes mail.toml to a temp dir and returns its path and a
// cache dir next to it.
func workspace(t *testing.T) (input, cacheDir string) {
	t.Helper()
	dir := t.TempDir()
	input = filepath.Join(dir, "mail.toml")
	if err := os.WriteFile(input, []byte(mailTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	return input, filepath.Join(dir, "cache")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCacheDir(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheTarget(t *testing.T) {
	t.Setenv(cacheEnv, "redis://localhost:6379/0")
	c := New(io.Discard, LogInfo)
	if got := c.cacheTargetOrDefault(); got != "redis://localhost:6379/0" {
		t.Errorf("target from env = %q", got)
	}
	c.cacheTarget = "none"
	if got := c.cacheTargetOrDefault(); got != "none" {
		t.Errorf("flag should win over env, got %q", got)
	}
}

func TestKeyer(t *testing.T) {
	t.Setenv(cachePrefixEnv, "")
	c := New(io.Discard, LogInfo)
	plain := c.keyer().SessionKey("abc")

	t.Setenv(cachePrefixEnv, "staging:")
	if got := c.keyer().SessionKey("abc"); got != "staging:"+plain {
		t.Errorf("env prefix: %q", got)
	}
	c.cachePrefix = "prod:"
	if got := c.keyer().SessionKey("abc"); got != "prod:"+plain {
		t.Errorf("flag prefix: %q", got)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,txt,dot", []string{"svg", "txt", "dot"}},
		{" png , pdf,", []string{"png", "pdf"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "frames/mail.toml", "frames/mail"},
		{"out/mail.svg", "mail.toml", "out/mail"},
		{"out/mail.txt", "mail.toml", "out/mail"},
		{"out/mail", "mail.toml", "out/mail"},
		{"out/mail.v2", "mail.toml", "out/mail.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestTrimLayoutSuffix(t *testing.T) {
	tests := map[string]string{
		"mail.layout.json": "mail.json",
		"mail.json":        "mail.json",
		".layout.json":     ".layout.json",
	}
	for in, want := range tests {
		if got := trimLayoutSuffix(in); got != want {
			t.Errorf("trimLayoutSuffix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KiB",
		1536:    "1.5 KiB",
		1 << 20: "1.0 MiB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	input, cacheDir := workspace(t)

	if _, err := runCLI(t, "render", input, "-f", "svg,txt,dot", "--labels", "--cache", cacheDir); err != nil {
		t.Fatal(err)
	}
	base := strings.TrimSuffix(input, ".toml")
	for format, want := range map[string]string{
		"svg": "<svg",
		"txt": "toc",
		"dot": "digraph frames",
	} {
		data, err := os.ReadFile(base + "." + format)
		if err != nil {
			t.Fatalf("missing %s output: %v", format, err)
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s output missing %q", format, want)
		}
	}
}

func TestRenderCommandStdout(t *testing.T) {
	input, cacheDir := workspace(t)

	out, err := runCLI(t, "render", input, "-f", "txt", "-o", "-", "--cache", cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "toc") || !strings.Contains(out, "body") {
		t.Errorf("stdout = %q", out)
	}

	if _, err := runCLI(t, "render", input, "-f", "svg,txt", "-o", "-", "--cache", "none"); err == nil {
		t.Error("several formats to stdout should fail")
	}
	if _, err := runCLI(t, "render", input, "-f", "gif", "--cache", "none"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("invalid format error = %v", err)
	}
}

func TestLayoutAndVisualize(t *testing.T) {
	input, cacheDir := workspace(t)
	base := strings.TrimSuffix(input, ".toml")

	if _, err := runCLI(t, "layout", input, "--width", "404", "--cache", cacheDir); err != nil {
		t.Fatal(err)
	}
	snap, err := snapshot.ReadFile(base + ".layout.json")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Width != 404 {
		t.Errorf("width = %d, want 404", snap.Width)
	}
	if got := snap.Frames[0].Grid.Cols.Sizes; !slices.Equal(got, []int{100, 300}) {
		t.Errorf("cols = %v, want [100 300]", got)
	}

	if _, err := runCLI(t, "visualize", base+".layout.json", "-f", "dot", "--cache", cacheDir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "toc") {
		t.Errorf("dot output = %q", data)
	}
}

func TestInspectCommand(t *testing.T) {
	input, _ := workspace(t)

	out, err := runCLI(t, "inspect", input, "--leaves", "--cache", "none")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"mail 304x200", "root", "100=100 *=200", "toc", "body"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestSessionCommands(t *testing.T) {
	input, cacheDir := workspace(t)
	ctx := context.Background()

	_, docHash, err := pipeline.Load(pipeline.Options{Path: input})
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(docHash, 304, 200)
	sess.Merge(map[string]frameset.AxisDeltas{"root": {Rows: []int{0}, Cols: []int{10, -10}}})
	if err := session.NewStore(fc, nil).Save(ctx, sess); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "render", input, "-f", "json", "-o", "-", "--session", sess.ID, "--cache", cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := snapshot.Unmarshal([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.Frames[0].Grid.Cols.Sizes; !slices.Equal(got, []int{110, 190}) {
		t.Errorf("cols with session = %v, want [110 190]", got)
	}

	out, err = runCLI(t, "session", "export", sess.ID, "--cache", cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	var exported session.Session
	if err := json.Unmarshal([]byte(out), &exported); err != nil {
		t.Fatal(err)
	}
	if exported.ID != sess.ID || exported.Document != docHash {
		t.Errorf("exported = %+v", exported)
	}

	if _, err := runCLI(t, "session", "delete", sess.ID, "--cache", cacheDir); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "session", "show", sess.ID, "--cache", cacheDir); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("show after delete error = %v", err)
	}
	if _, err := runCLI(t, "session", "show", "not-a-uuid", "--cache", cacheDir); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("invalid id error = %v", err)
	}
	if _, err := runCLI(t, "session", "show", sess.ID, "--cache", "none"); err == nil {
		t.Error("sessions without a backend should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	input, cacheDir := workspace(t)

	if _, err := runCLI(t, "render", input, "-f", "txt", "--cache", cacheDir); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "cache", "stats", "--cache", cacheDir); err != nil {
		t.Errorf("cache stats: %v", err)
	}
	if _, err := runCLI(t, "cache", "clear", "--expired", "--cache", cacheDir); err != nil {
		t.Errorf("cache clear --expired: %v", err)
	}
	if _, err := runCLI(t, "cache", "clear", "--cache", cacheDir); err != nil {
		t.Errorf("cache clear: %v", err)
	}
	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if stats, err := fc.Stats(); err != nil || stats.Entries != 0 {
		t.Errorf("after clear: %+v, %v", stats, err)
	}
	if _, err := runCLI(t, "cache", "clear", "--cache", "none"); err == nil {
		t.Error("clearing a non-directory backend should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := runCLI(t, "completion", shell)
		if err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		if !strings.Contains(out, "framegrid") {
			t.Errorf("%s completion does not mention framegrid", shell)
		}
	}
}
