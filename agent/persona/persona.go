package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
)

type Config struct {
	Name        string `envconfig:"NAME" required:"true"`
	ProfilePath string `split_words:"true" default:"me/Profile.pdf"`
	ResumePath  string `split_words:"true" default:"me/resume.pdf"`
	SummaryPath string `split_words:"true" default:"me/summary.txt"`
}

// Load reads the three persona documents. Any failure is fatal to startup.
func Load(cfg Config) (contractx.Persona, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return contractx.Persona{}, fmt.Errorf("%w: persona name is empty", contractx.ErrStartup)
	}

	profile, err := readDocument(cfg.ProfilePath)
	if err != nil {
		return contractx.Persona{}, fmt.Errorf("%w: load profile: %v", contractx.ErrStartup, err)
	}
	resume, err := readDocument(cfg.ResumePath)
	if err != nil {
		return contractx.Persona{}, fmt.Errorf("%w: load resume: %v", contractx.ErrStartup, err)
	}
	summary, err := readDocument(cfg.SummaryPath)
	if err != nil {
		return contractx.Persona{}, fmt.Errorf("%w: load summary: %v", contractx.ErrStartup, err)
	}

	log.Info().
		Str("name", name).
		Int("profile_chars", len(profile)).
		Int("resume_chars", len(resume)).
		Int("summary_chars", len(summary)).
		Msg("persona loaded")

	return contractx.Persona{
		Name:    name,
		Profile: profile,
		Resume:  resume,
		Summary: summary,
	}, nil
}

func readDocument(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("document path is empty")
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// readPDF concatenates the plain text of every page that has any.
func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d of %s: %w", i, path, err)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
