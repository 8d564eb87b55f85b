package bank

import (
	_ "embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultBank []byte

// bankFile is the on-disk layout of a bank file. Questions are decoded
// loosely first so each one can be schema-checked on its own.
type bankFile struct {
	Topics    []Topic `yaml:"topics"`
	Questions []any   `yaml:"questions"`
}

// Default returns the embedded sample bank.
func Default() (*Bank, error) {
	topics, questions, err := Parse(defaultBank, "default.yaml")
	if err != nil {
		return nil, fmt.Errorf("parse embedded bank: %w", err)
	}
	return New(topics, questions), nil
}

// Load reads a bank from a single YAML file or from every .yaml/.yml file
// under a directory. Unreadable or invalid files are skipped with a
// warning; invalid questions inside a valid file are skipped individually.
func Load(path string) (*Bank, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat bank path: %w", err)
	}

	var files []string
	if info.IsDir() {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk bank dir: %w", err)
		}
	} else {
		files = []string{path}
	}

	var topics []Topic
	var questions []Question
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			slog.Warn("skipping unreadable bank file", "path", f, "error", err)
			continue
		}
		t, q, err := Parse(data, f)
		if err != nil {
			slog.Warn("skipping invalid bank file", "path", f, "error", err)
			continue
		}
		topics = append(topics, t...)
		questions = append(questions, q...)
	}

	b := New(topics, questions)
	slog.Info("question bank loaded", "path", path, "files", len(files), "topics", len(b.topics), "questions", b.Len())
	return b, nil
}

// Parse decodes one bank document. source only labels log lines.
func Parse(data []byte, source string) ([]Topic, []Question, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("unmarshal bank yaml: %w", err)
	}

	questions := make([]Question, 0, len(f.Questions))
	for i, raw := range f.Questions {
		q, err := decodeQuestion(raw)
		if err != nil {
			slog.Warn("skipping invalid question", "source", source, "index", i, "error", err)
			continue
		}
		questions = append(questions, q)
	}
	return f.Topics, questions, nil
}

// WriteYAML writes topics and questions as a bank file.
func WriteYAML(w io.Writer, topics []Topic, questions []Question) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := struct {
		Topics    []Topic    `yaml:"topics"`
		Questions []Question `yaml:"questions"`
	}{Topics: topics, Questions: questions}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode bank yaml: %w", err)
	}
	return enc.Close()
}
