package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrNoFilePath = errors.New("no file path provided")

// section is one open mapping of the YAML file and the indentation its keys use.
type section struct {
	name   string
	indent int
}

// LoadYamlFile flattens a YAML mapping into environment variables: the key
// `session.cookie_name` becomes SESSION_COOKIE_NAME. Only nested mappings and
// scalar values are understood. `${VAR}` and `${VAR:-default}` are expanded,
// and variables already set are left alone.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	var (
		stack   []section
		scanner = bufio.NewScanner(file)
		lineNo  int
	)
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		content := strings.TrimSpace(raw)
		if content == "" || strings.HasPrefix(content, "#") {
			continue
		}
		indent := len(raw) - len(strings.TrimLeft(raw, " "))

		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}

		key, value, ok := strings.Cut(content, ":")
		if !ok {
			return fmt.Errorf("line %d: expected \"key: value\"", lineNo)
		}
		key = strings.TrimSpace(key)
		value = stripComment(strings.TrimSpace(value))

		if value == "" {
			stack = append(stack, section{name: key, indent: indent})
			continue
		}

		name := envName(stack, key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, expand(unquote(value))); err != nil {
			return fmt.Errorf("could not set env var %s: %w", name, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	return nil
}

func envName(stack []section, key string) string {
	parts := make([]string, 0, len(stack)+1)
	for _, s := range stack {
		parts = append(parts, s.name)
	}
	parts = append(parts, key)
	return strings.ToUpper(strings.Join(parts, "_"))
}

// stripComment drops a trailing " # comment" from an unquoted value.
func stripComment(value string) string {
	if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "'") {
		return value
	}
	if i := strings.Index(value, " #"); i >= 0 {
		return strings.TrimSpace(value[:i])
	}
	return value
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// expand resolves ${VAR} and ${VAR:-default} references.
func expand(value string) string {
	return os.Expand(value, func(ref string) string {
		name, fallback, hasDefault := strings.Cut(ref, ":-")
		if v := os.Getenv(name); v != "" || !hasDefault {
			return v
		}
		return fallback
	})
}
