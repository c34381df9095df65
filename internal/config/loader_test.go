package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launch.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadParsesManifest(t *testing.T) {
	path := writeManifest(t, `
version: "1"
command: ["/bin/sh", "-c", "exit 0"]
env:
  FOO: bar
stdout: logs/out.log
timeout: 1m30s
`)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Command) != 3 || doc.Command[0] != "/bin/sh" {
		t.Fatalf("unexpected command %v", doc.Command)
	}
	if doc.Env["FOO"] != "bar" {
		t.Fatalf("unexpected env %v", doc.Env)
	}
	if doc.Timeout.Duration != 90*time.Second {
		t.Fatalf("unexpected timeout %v", doc.Timeout.Duration)
	}

	wantStdout := filepath.Join(filepath.Dir(path), "logs", "out.log")
	if doc.Stdout != wantStdout {
		t.Fatalf("expected stdout resolved to %q, got %q", wantStdout, doc.Stdout)
	}
}

func TestLoadExpandsEnvironmentReferences(t *testing.T) {
	t.Setenv("CHILDPROC_PROGRAM", "/bin/echo")
	t.Setenv("CHILDPROC_VALUE", "expanded")

	path := writeManifest(t, `
command: ["$CHILDPROC_PROGRAM", "hi"]
env:
  COPY: $CHILDPROC_VALUE
`)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Command[0] != "/bin/echo" {
		t.Fatalf("expected expanded program, got %q", doc.Command[0])
	}
	if doc.Env["COPY"] != "expanded" {
		t.Fatalf("expected expanded env value, got %q", doc.Env["COPY"])
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
command: ["/bin/true"]
restart: always
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing manifest")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		launch  Launch
		wantErr string
	}{
		{
			name:    "empty command",
			launch:  Launch{},
			wantErr: "command",
		},
		{
			name:    "empty program",
			launch:  Launch{Command: []string{""}},
			wantErr: "command[0]",
		},
		{
			name:    "negative timeout",
			launch:  Launch{Command: []string{"/bin/true"}, Timeout: Duration{Duration: -time.Second}},
			wantErr: "timeout",
		},
		{
			name:    "detach with timeout",
			launch:  Launch{Command: []string{"/bin/true"}, Detach: true, Timeout: Duration{Duration: time.Second}},
			wantErr: "detach",
		},
		{
			name:   "valid",
			launch: Launch{Command: []string{"/bin/true"}, Timeout: Duration{Duration: time.Second}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.launch.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}
