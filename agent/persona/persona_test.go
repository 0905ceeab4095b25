package persona

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	contractx "github.com/tanpawarit/persona-agent/agent/contract"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTextDocuments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Config{
		Name:        "Ada Lovelace",
		ProfilePath: writeFile(t, dir, "profile.md", "profile text"),
		ResumePath:  writeFile(t, dir, "resume.txt", "resume text"),
		SummaryPath: writeFile(t, dir, "summary.txt", "summary text"),
	}

	p, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Name != "Ada Lovelace" || p.Profile != "profile text" || p.Resume != "resume text" || p.Summary != "summary text" {
		t.Fatalf("unexpected persona: %#v", p)
	}
}

func TestLoadMissingDocumentIsStartupFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Config{
		Name:        "Ada",
		ProfilePath: writeFile(t, dir, "profile.txt", "p"),
		ResumePath:  filepath.Join(dir, "missing.txt"),
		SummaryPath: writeFile(t, dir, "summary.txt", "s"),
	}

	_, err := Load(cfg)
	if !errors.Is(err, contractx.ErrStartup) {
		t.Fatalf("expected ErrStartup, got %v", err)
	}
	if contractx.KindOf(err) != contractx.KindStartupFailure {
		t.Fatalf("unexpected kind: %v", contractx.KindOf(err))
	}
}

func TestLoadCorruptPDFIsStartupFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Config{
		Name:        "Ada",
		ProfilePath: writeFile(t, dir, "Profile.pdf", "this is not a pdf"),
		ResumePath:  writeFile(t, dir, "resume.txt", "r"),
		SummaryPath: writeFile(t, dir, "summary.txt", "s"),
	}

	if _, err := Load(cfg); !errors.Is(err, contractx.ErrStartup) {
		t.Fatalf("expected ErrStartup, got %v", err)
	}
}

func TestLoadRequiresName(t *testing.T) {
	t.Parallel()

	if _, err := Load(Config{Name: "  "}); !errors.Is(err, contractx.ErrStartup) {
		t.Fatalf("expected ErrStartup, got %v", err)
	}
}
