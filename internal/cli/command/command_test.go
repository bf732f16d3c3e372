package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// ============================================================
// Test Helpers
// ============================================================

// startServer runs a respkv server on a loopback port and returns its address.
func startServer(t *testing.T) string {
	t.Helper()

	store := memory.New()
	t.Cleanup(func() { _ = store.Close() })

	cfg := redisserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	srv := redisserver.New(cfg, store, redisserver.WithLogger(logger.Discard()))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

// runApp runs respkv-cli with args and returns what it printed.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)

	err := app.Run(append([]string{"respkv-cli"}, args...))
	return out.String(), err
}

// ============================================================
// App
// ============================================================

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "respkv-cli" {
		t.Errorf("Name = %q", app.Name)
	}

	commands := make(map[string]bool)
	for _, cmd := range app.Commands {
		commands[cmd.Name] = true
	}
	for _, name := range []string{"ping", "echo", "set", "get", "repl"} {
		if !commands[name] {
			t.Errorf("missing command: %s", name)
		}
	}

	flags := make(map[string]bool)
	for _, f := range app.Flags {
		flags[f.Names()[0]] = true
	}
	for _, name := range []string{"server", "output", "timeout", "config"} {
		if !flags[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

// ============================================================
// Single commands
// ============================================================

func TestCommands(t *testing.T) {
	addr := startServer(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ping", []string{"ping"}, "PONG\n"},
		{"echo", []string{"echo", "hello world"}, "\"hello world\"\n"},
		{"set", []string{"set", "greeting", "hi"}, "OK\n"},
		{"get", []string{"get", "greeting"}, "\"hi\"\n"},
		{"get missing", []string{"get", "nope"}, "(nil)\n"},
		{"json", []string{"-o", "json", "get", "greeting"}, "\"hi\"\n"},
		{"json null", []string{"-o", "json", "get", "nope"}, "null\n"},
		{"yaml", []string{"-o", "yaml", "ping"}, "PONG\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runApp(t, "", append([]string{"-s", addr}, tt.args...)...)
			if err != nil {
				t.Fatalf("run %v: %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetCommand_PX(t *testing.T) {
	addr := startServer(t)

	if _, err := runApp(t, "", "-s", addr, "set", "--px", "50", "temp", "v"); err != nil {
		t.Fatalf("set --px: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := runApp(t, "", "-s", addr, "get", "temp")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got == "(nil)\n" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("key did not expire, last output %q", got)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestCommands_Errors(t *testing.T) {
	addr := startServer(t)

	tests := []struct {
		name string
		args []string
	}{
		{"echo without message", []string{"-s", addr, "echo"}},
		{"set without value", []string{"-s", addr, "set", "k"}},
		{"get with two keys", []string{"-s", addr, "get", "a", "b"}},
		{"bad output format", []string{"-s", addr, "-o", "table", "ping"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, "", tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCommands_Unreachable(t *testing.T) {
	// Nothing listens on port 1 of the loopback.
	if _, err := runApp(t, "", "-s", "127.0.0.1:1", "-t", "500ms", "ping"); err == nil {
		t.Error("ping against a closed port should fail")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettings_FromEnv(t *testing.T) {
	addr := startServer(t)
	t.Setenv("RESPKV_SERVER", addr)
	t.Setenv("RESPKV_OUTPUT", "json")

	got, err := runApp(t, "", "ping")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if got != "\"PONG\"\n" {
		t.Errorf("output = %q, want JSON string", got)
	}
}

func TestSettings_FromConfigFile(t *testing.T) {
	addr := startServer(t)

	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := "server: " + addr + "\noutput: yaml\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := runApp(t, "", "--config", path, "echo", "a b")
	if err != nil {
		t.Fatalf("echo: %v", err)
	}
	if got != "a b\n" {
		t.Errorf("output = %q, want YAML scalar", got)
	}

	// Flags win over the file.
	got, err = runApp(t, "", "--config", path, "-o", "raw", "echo", "a b")
	if err != nil {
		t.Fatalf("echo: %v", err)
	}
	if got != "\"a b\"\n" {
		t.Errorf("output = %q, want raw", got)
	}
}

func TestSettings_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("unknown_key: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := runApp(t, "", "--config", path, "ping"); err == nil {
		t.Error("invalid config file should fail")
	}
}

// ============================================================
// REPL
// ============================================================

func TestReplCommand(t *testing.T) {
	addr := startServer(t)

	input := "SET k \"two words\"\nGET k\nFLUSHALL\nping\nexit\n"
	got, err := runApp(t, input, "-s", addr, "repl", "--no-history")
	if err != nil {
		t.Fatalf("repl: %v", err)
	}

	for _, want := range []string{
		addr + "> ",
		"OK\n",
		"\"two words\"\n",
		"(error) command not implemented: FLUSHALL\n",
		"PONG\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestReplCommand_WritesHistory(t *testing.T) {
	addr := startServer(t)

	var out bytes.Buffer
	home := t.TempDir()
	t.Setenv("HOME", home)

	app := App()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader("PING\n")

	if err := app.Run([]string{"respkv-cli", "-s", addr, "repl"}); err != nil {
		t.Fatalf("repl: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".respkv", "history"))
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if string(data) != "PING\n" {
		t.Errorf("history = %q", data)
	}
}

func TestReplCommand_ServerDown(t *testing.T) {
	got, err := runApp(t, "PING\n", "-s", "127.0.0.1:1", "-t", "500ms", "repl", "--no-history")
	if err != nil {
		t.Fatalf("repl should survive a dial failure, got %v", err)
	}
	if !strings.Contains(got, "Error: dial 127.0.0.1:1") {
		t.Errorf("output = %q", got)
	}
}
