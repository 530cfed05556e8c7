package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFile reads and parses a manifest file.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse reads a manifest from r.
//
// Grammar (line-oriented, recursive only in the sense that block bodies are
// parsed by the same key=value loop as the top level):
//
//	manifest  = { topKV | block }
//	block     = ident string? "{" { kv } "}"
//	kv        = ident "=" value
//	value     = string | ident | list
//	list      = "[" [ value { "," value } ] "]"
//
// Comments start with "#" and run to end of line; blank lines are ignored.
func Parse(r io.Reader) (*Manifest, error) {
	lines, err := readLogicalLines(r)
	if err != nil {
		return nil, err
	}

	m := &Manifest{}
	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "root"):
			key, val, err := splitKV(line)
			if err != nil {
				return nil, err
			}
			if key != "root" {
				return nil, fmt.Errorf("line %d: expected %q, got %q", i+1, "root", key)
			}
			m.Root = unquote(val)
			i++

		case strings.HasPrefix(line, "artifact "):
			decl, consumed, err := parseArtifact(lines, i)
			if err != nil {
				return nil, err
			}
			m.Artifacts = append(m.Artifacts, decl)
			i += consumed

		case strings.HasPrefix(line, "command "):
			decl, consumed, err := parseCommand(lines, i)
			if err != nil {
				return nil, err
			}
			m.Commands = append(m.Commands, decl)
			i += consumed

		default:
			return nil, fmt.Errorf("line %d: unexpected %q", i+1, line)
		}
	}
	return m, nil
}

// readLogicalLines strips comments and blank lines, returning the
// remaining lines trimmed of surrounding whitespace.
func readLogicalLines(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func header(line, keyword string) (id string, ok bool) {
	if !strings.HasPrefix(line, keyword+" ") {
		return "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, keyword))
	rest = strings.TrimSuffix(rest, "{")
	return unquote(strings.TrimSpace(rest)), true
}

func parseArtifact(lines []string, start int) (ArtifactDecl, int, error) {
	id, ok := header(lines[start], "artifact")
	if !ok || id == "" {
		return ArtifactDecl{}, 0, fmt.Errorf("line %d: malformed artifact header %q", start+1, lines[start])
	}
	decl := ArtifactDecl{ID: id, Path: id}

	end, body, err := block(lines, start)
	if err != nil {
		return ArtifactDecl{}, 0, err
	}
	for ln, line := range body {
		key, val, err := splitKV(line)
		if err != nil {
			return ArtifactDecl{}, 0, fmt.Errorf("line %d: %w", start+2+ln, err)
		}
		switch key {
		case "path":
			decl.Path = unquote(val)
		default:
			return ArtifactDecl{}, 0, fmt.Errorf("line %d: unknown artifact field %q", start+2+ln, key)
		}
	}
	return decl, end - start + 1, nil
}

func parseCommand(lines []string, start int) (CommandDecl, int, error) {
	id, ok := header(lines[start], "command")
	if !ok || id == "" {
		return CommandDecl{}, 0, fmt.Errorf("line %d: malformed command header %q", start+1, lines[start])
	}
	decl := CommandDecl{ID: id}

	end, body, err := block(lines, start)
	if err != nil {
		return CommandDecl{}, 0, err
	}
	for ln, line := range body {
		key, val, err := splitKV(line)
		if err != nil {
			return CommandDecl{}, 0, fmt.Errorf("line %d: %w", start+2+ln, err)
		}
		switch key {
		case "action":
			decl.Action = unquote(val)
		case "compiler":
			decl.Compiler = unquote(val)
		case "line":
			decl.Line = unquote(val)
		case "predecessors":
			decl.Predecessors, err = parseList(val)
		case "successors":
			decl.Successors, err = parseList(val)
		default:
			return CommandDecl{}, 0, fmt.Errorf("line %d: unknown command field %q", start+2+ln, key)
		}
		if err != nil {
			return CommandDecl{}, 0, fmt.Errorf("line %d: %w", start+2+ln, err)
		}
	}
	return decl, end - start + 1, nil
}

// block returns the index of the closing "}" line and the body lines
// between the header and it. Nested braces are not supported: the
// manifest format is flat, one level of block nesting only.
func block(lines []string, start int) (end int, body []string, err error) {
	if !strings.HasSuffix(lines[start], "{") {
		return 0, nil, fmt.Errorf("line %d: expected block to open with %q", start+1, "{")
	}
	for i := start + 1; i < len(lines); i++ {
		if lines[i] == "}" {
			return i, lines[start+1 : i], nil
		}
	}
	return 0, nil, fmt.Errorf("line %d: unterminated block", start+1)
}

func splitKV(line string) (key, val string, err error) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return "", "", fmt.Errorf("expected key = value, got %q", line)
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), nil
}

func parseList(val string) ([]string, error) {
	val = strings.TrimSpace(val)
	if !strings.HasPrefix(val, "[") || !strings.HasSuffix(val, "]") {
		return nil, fmt.Errorf("expected [ ... ], got %q", val)
	}
	inner := strings.TrimSpace(val[1 : len(val)-1])
	if inner == "" {
		return nil, nil
	}
	parts := strings.Split(inner, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, unquote(strings.TrimSpace(p)))
	}
	return out, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
