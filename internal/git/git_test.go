package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/secretgate/secretgate/internal/types"
)

func initRepo(t *testing.T) (string, func(args ...string)) {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, string(out))
		}
	}
	run("init", ".")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "tester")
	return dir, run
}

func TestRepoMetadata(t *testing.T) {
	dir, run := initRepo(t)
	run("commit", "--allow-empty", "-m", "init")

	repo, commit, branch := RepoMetadata(dir)
	if commit == "" {
		t.Fatalf("expected non-empty commit")
	}
	if branch == "" {
		t.Fatalf("expected non-empty branch")
	}
	_ = repo // may be empty when no remote configured
}

func TestRepoMetadataBadRoot(t *testing.T) {
	repo, commit, branch := RepoMetadata(filepath.Join(t.TempDir(), "missing"))
	if repo != "" || commit != "" || branch != "" {
		t.Fatalf("expected empty metadata for missing root, got %q %q %q", repo, commit, branch)
	}
}

func TestFileAgeDays(t *testing.T) {
	dir, run := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "config.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", "config.py")
	run("commit", "-m", "add config")

	age, err := FileAgeDays(dir, "config.py")
	if err != nil {
		t.Fatalf("FileAgeDays: %v", err)
	}
	if age != 0 {
		t.Fatalf("fresh commit should be zero days old, got %d", age)
	}
}

func TestFileAgeDaysNoHistory(t *testing.T) {
	dir, run := initRepo(t)
	run("commit", "--allow-empty", "-m", "init")

	age, err := FileAgeDays(dir, "never-committed.py")
	if err != nil {
		t.Fatalf("FileAgeDays: %v", err)
	}
	if age != 0 {
		t.Fatalf("expected zero age for untracked path, got %d", age)
	}
}

func TestFileAgeDaysOutsideRepo(t *testing.T) {
	age, err := FileAgeDays(t.TempDir(), "anything.py")
	if err != nil {
		t.Fatalf("FileAgeDays: %v", err)
	}
	if age != 0 {
		t.Fatalf("expected zero age outside a repository, got %d", age)
	}
}

func TestAnnotateHistory(t *testing.T) {
	dir, run := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte("k = 's'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", "app.py")
	run("commit", "-m", "add app")

	findings := []types.Finding{
		{Path: "app.py", Rule: "api_key", Line: 1, Match: "s"},
		{Path: "app.py", Rule: "password", Line: 1, Match: "s", HistoryAgeDays: 120},
	}
	out := AnnotateHistory(dir, findings)

	if out[0].HistoryAgeDays != 0 {
		t.Fatalf("fresh file should have zero age, got %d", out[0].HistoryAgeDays)
	}
	// Pre-populated ages are kept as the detector reported them.
	if out[1].HistoryAgeDays != 120 {
		t.Fatalf("pre-set age overwritten: got %d", out[1].HistoryAgeDays)
	}
	if findings[0].HistoryAgeDays != 0 {
		t.Fatalf("input slice mutated")
	}
}
