package input

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/solvecheck/internal/model"
)

// Format is an input encoding.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Stdin is the path that reads JSON Lines from standard input.
const Stdin = "-"

// maxLineBytes bounds one JSON Lines record.
const maxLineBytes = 4 * 1024 * 1024

// FormatOf returns the format for a file path.
func FormatOf(path string) (Format, error) {
	if path == Stdin {
		return FormatJSONL, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// Load reads the problems of one file.
func Load(path string) ([]*model.Problem, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if path == Stdin {
		return Read(os.Stdin, format)
	}
	f, err := os.Open(path) //nolint:gosec // user-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	problems, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return problems, nil
}

// LoadAll reads every file in order and concatenates the problems.
func LoadAll(paths []string) ([]*model.Problem, error) {
	var out []*model.Problem
	for _, p := range paths {
		problems, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, problems...)
	}
	if len(out) == 0 {
		return nil, ErrEmptyInput
	}
	return out, nil
}

// Read decodes problems from r.
func Read(r io.Reader, format Format) ([]*model.Problem, error) {
	var (
		out []*model.Problem
		err error
	)
	switch format {
	case FormatJSON:
		out, err = readJSON(r)
	case FormatJSONL:
		out, err = readJSONL(r)
	case FormatYAML:
		out, err = readYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrEmptyInput
	}
	return out, nil
}

func readJSON(r io.Reader) ([]*model.Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var out []*model.Problem
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return compact(out), nil
	}
	var p model.Problem
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return []*model.Problem{&p}, nil
}

func readJSONL(r io.Reader) ([]*model.Problem, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var out []*model.Problem
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var p model.Problem
		if err := json.Unmarshal(text, &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, &p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func readYAML(r io.Reader) ([]*model.Problem, error) {
	dec := yaml.NewDecoder(r)
	var out []*model.Problem
	for doc := 1; ; doc++ {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		if len(node.Content) == 0 {
			continue
		}
		if node.Content[0].Kind == yaml.SequenceNode {
			var ps []*model.Problem
			if err := node.Decode(&ps); err != nil {
				return nil, fmt.Errorf("document %d: %w", doc, err)
			}
			out = append(out, compact(ps)...)
			continue
		}
		var p model.Problem
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		out = append(out, &p)
	}
	return out, nil
}

// compact drops null entries of a decoded array.
func compact(ps []*model.Problem) []*model.Problem {
	out := ps[:0]
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
