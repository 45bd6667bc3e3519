package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/obscura/pkg/core"
	"github.com/google/shlex"
)

// ErrFormat is returned for any malformed scene description
var ErrFormat = errors.New("improper scene file formatting")

// Entry is one definition in a scene description: a type, an optional name
// and the properties listed under it
type Entry struct {
	Type       string
	Name       string
	Properties map[string]string
	Line       int // Line of the entry header, for error messages
}

// LoadScene parses the scene description in filename
func LoadScene(filename string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	entries, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return entries, nil
}

// ParseScene reads a scene description. Entry headers start in the first
// column as `type [name]`; properties follow indented by two spaces as
// `key value`. Everything after // is a comment.
func ParseScene(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line, _, _ := strings.Cut(scanner.Text(), "//")

		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "  ") {
			if len(entries) == 0 {
				return nil, fmt.Errorf("line %d: property before any entry: %w", lineNumber, ErrFormat)
			}

			key, value, found := strings.Cut(strings.TrimSpace(line), " ")
			value = strings.TrimSpace(value)
			if !found || value == "" {
				return nil, fmt.Errorf("line %d: property %q has no value: %w", lineNumber, key, ErrFormat)
			}
			value, err := unquote(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: property %q: %v: %w", lineNumber, key, err, ErrFormat)
			}

			entries[len(entries)-1].Properties[key] = value
			continue
		}

		fields, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", lineNumber, err, ErrFormat)
		}
		if len(fields) == 0 {
			continue
		}

		entries = append(entries, Entry{
			Type:       fields[0],
			Name:       strings.Join(fields[1:], " "),
			Properties: make(map[string]string),
			Line:       lineNumber,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scene description: %w", err)
	}

	return entries, nil
}

// unquote strips shell-style quoting from a property value, so names written
// as `material "matte red"` match the entry header `lambertian "matte red"`
func unquote(value string) (string, error) {
	if !strings.ContainsAny(value, `"'`) {
		return value, nil
	}
	fields, err := shlex.Split(value)
	if err != nil {
		return "", err
	}
	return strings.Join(fields, " "), nil
}

// Has reports whether the entry defines key
func (e Entry) Has(key string) bool {
	_, ok := e.Properties[key]
	return ok
}

func (e Entry) property(key string) (string, error) {
	value, ok := e.Properties[key]
	if !ok {
		return "", fmt.Errorf("%s: missing property %q: %w", e, key, ErrFormat)
	}
	return value, nil
}

// String identifies the entry in error messages
func (e Entry) String() string {
	if e.Name == "" {
		return fmt.Sprintf("%s (line %d)", e.Type, e.Line)
	}
	return fmt.Sprintf("%s %q (line %d)", e.Type, e.Name, e.Line)
}

// Float returns a numeric property
func (e Entry) Float(key string) (float64, error) {
	value, err := e.property(key)
	if err != nil {
		return 0, err
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: improper number %q for %s: %w", e, value, key, ErrFormat)
	}
	return number, nil
}

// Int returns an integer property
func (e Entry) Int(key string) (int, error) {
	value, err := e.property(key)
	if err != nil {
		return 0, err
	}
	number, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: improper integer %q for %s: %w", e, value, key, ErrFormat)
	}
	return number, nil
}

// Vector returns a property written as (x, y, z)
func (e Entry) Vector(key string) (core.Vec3, error) {
	values, err := e.Tuple(key, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// Color returns a property written as #RRGGBB
func (e Entry) Color(key string) (core.Color, error) {
	value, err := e.property(key)
	if err != nil {
		return core.Color{}, err
	}
	color, err := core.ParseHexColor(value)
	if err != nil {
		return core.Color{}, fmt.Errorf("%s: %v: %w", e, err, ErrFormat)
	}
	return color, nil
}

// Tuple returns a property written as a parenthesized list of size numbers
func (e Entry) Tuple(key string, size int) ([]float64, error) {
	value, err := e.property(key)
	if err != nil {
		return nil, err
	}
	values, err := ParseTuple(value, size)
	if err != nil {
		return nil, fmt.Errorf("%s: property %s: %w", e, key, err)
	}
	return values, nil
}

// ParseTuple parses "(a, b, ...)" holding exactly size numbers
func ParseTuple(desc string, size int) ([]float64, error) {
	desc = strings.TrimSpace(desc)
	if !strings.HasPrefix(desc, "(") || !strings.HasSuffix(desc, ")") {
		return nil, fmt.Errorf("unknown tuple format %q: %w", desc, ErrFormat)
	}

	parts := strings.Split(desc[1:len(desc)-1], ",")
	if len(parts) != size {
		return nil, fmt.Errorf("expected %d values in %q, got %d: %w", size, desc, len(parts), ErrFormat)
	}

	values := make([]float64, size)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("improper number %q in %q: %w", part, desc, ErrFormat)
		}
		values[i] = value
	}
	return values, nil
}
