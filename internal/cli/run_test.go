package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	stdruntime "runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/example/childproc/internal/child"
	"github.com/example/childproc/internal/platform"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if stdruntime.GOOS == "windows" {
		t.Skip("cli tests use /bin/sh, skipped on windows")
	}
}

func execRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errw bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errw)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errw.String(), err
}

func TestBuildSpecMergesManifestFlagsAndArgs(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "launch.yaml")
	contents := `
command: ["/bin/true"]
workdir: /tmp
env:
  FROM_FILE: yes
timeout: 30s
`
	if err := os.WriteFile(manifest, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	opts := &runOptions{
		manifestPath: manifest,
		workdir:      "/var",
		env:          []string{"EXTRA=1"},
	}
	spec, timeout, err := buildSpec(opts, []string{"/bin/false"})
	if err != nil {
		t.Fatalf("build spec: %v", err)
	}
	if spec.Command[0] != "/bin/false" {
		t.Fatalf("trailing args must override the manifest command, got %v", spec.Command)
	}
	if spec.Workdir != "/var" {
		t.Fatalf("flag must override manifest workdir, got %q", spec.Workdir)
	}
	if spec.Env["FROM_FILE"] != "yes" || spec.Env["EXTRA"] != "1" {
		t.Fatalf("expected merged env, got %v", spec.Env)
	}
	if timeout != 30*time.Second {
		t.Fatalf("expected manifest timeout, got %v", timeout)
	}
}

func TestBuildSpecRejectsBadInput(t *testing.T) {
	if _, _, err := buildSpec(&runOptions{}, nil); err == nil {
		t.Fatal("expected an error when no command is given")
	}
	if _, _, err := buildSpec(&runOptions{env: []string{"NOEQUALS"}}, []string{"/bin/true"}); err == nil {
		t.Fatal("expected an error for a malformed --env value")
	}
	opts := &runOptions{detach: true, timeout: time.Second}
	if _, _, err := buildSpec(opts, []string{"/bin/true"}); err == nil {
		t.Fatal("expected an error for --detach with --timeout")
	}
}

func TestBuildSpecDetachMode(t *testing.T) {
	spec, _, err := buildSpec(&runOptions{detach: true}, []string{"/bin/true"})
	if err != nil {
		t.Fatalf("build spec: %v", err)
	}
	if spec.Mode != child.Detached {
		t.Fatalf("expected detached mode, got %v", spec.Mode)
	}
}

func TestRunPropagatesExitCode(t *testing.T) {
	requireUnix(t)

	_, _, err := execRoot(t, "run", "--", "/bin/sh", "-c", "exit 3")
	var exitErr *exitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected an exit code error, got %v", err)
	}
	if exitErr.code != 3 {
		t.Fatalf("expected code 3, got %d", exitErr.code)
	}

	if _, _, err := execRoot(t, "run", "--", "/bin/sh", "-c", "exit 0"); err != nil {
		t.Fatalf("clean exit should not error: %v", err)
	}
}

func TestRunTimeoutTerminatesChild(t *testing.T) {
	requireUnix(t)

	start := time.Now()
	_, _, err := execRoot(t, "run", "--timeout", "100ms", "--", "/bin/sh", "-c", "sleep 30")
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("run blocked for %v despite timeout", elapsed)
	}
	var exitErr *exitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected an exit code error after termination, got %v", err)
	}
	if exitErr.code == 0 {
		t.Fatal("terminated child cannot report a clean exit")
	}
}

func TestRunDetachPrintsPid(t *testing.T) {
	requireUnix(t)

	out, _, err := execRoot(t, "run", "--detach", "--", "/bin/sh", "-c", "sleep 30")
	if err != nil {
		t.Fatalf("detached run: %v", err)
	}
	pid, convErr := strconv.Atoi(strings.TrimSpace(out))
	if convErr != nil {
		t.Fatalf("expected a pid on stdout, got %q", out)
	}
	defer func() { _ = platform.Kill(pid) }()

	if !platform.Alive(pid) {
		t.Fatalf("detached pid %d is not running", pid)
	}
}

func TestRunFromManifest(t *testing.T) {
	requireUnix(t)

	dir := t.TempDir()
	manifest := filepath.Join(dir, "launch.yaml")
	contents := fmt.Sprintf(`
command: ["/bin/sh", "-c", "echo from-manifest"]
stdout: %s
`, filepath.Join(dir, "out.log"))
	if err := os.WriteFile(manifest, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	if _, _, err := execRoot(t, "run", "-f", manifest); err != nil {
		t.Fatalf("run from manifest: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.log"))
	if err != nil {
		t.Fatalf("read redirect file: %v", err)
	}
	if strings.TrimSpace(string(data)) != "from-manifest" {
		t.Fatalf("unexpected redirect contents %q", string(data))
	}
}

func TestStatusSelf(t *testing.T) {
	out, _, err := execRoot(t, "status", strconv.Itoa(os.Getpid()))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "running=true") {
		t.Fatalf("expected running=true for self, got %q", out)
	}
}

func TestStatusRejectsBadPid(t *testing.T) {
	if _, _, err := execRoot(t, "status", "not-a-pid"); err == nil {
		t.Fatal("expected an error for a non-numeric pid")
	}
}

func TestKillCommand(t *testing.T) {
	requireUnix(t)

	victim := exec.Command("/bin/sh", "-c", "sleep 30")
	if err := victim.Start(); err != nil {
		t.Fatalf("start victim: %v", err)
	}
	defer func() { _ = victim.Wait() }()

	out, _, err := execRoot(t, "kill", strconv.Itoa(victim.Process.Pid))
	if err != nil {
		t.Fatalf("kill: %v", err)
	}
	if !strings.Contains(out, "killed") {
		t.Fatalf("unexpected kill output %q", out)
	}
}
