package yamlenv

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ${NAME} или ${NAME:default}
var envRef = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)(?::(.*))?\}$`)

// Env — значение конфигурации, которое можно задать литералом или ссылкой на переменную окружения.
type Env[T any] struct {
	Value T
}

func New[T any](v T) *Env[T] {
	return &Env[T]{Value: v}
}

func (e *Env[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return node.Decode(&e.Value)
	}

	m := envRef.FindStringSubmatch(strings.TrimSpace(node.Value))
	if m == nil {
		return node.Decode(&e.Value)
	}

	raw, ok := os.LookupEnv(m[1])
	if !ok {
		raw = m[2]
	}

	if raw == "" {
		var zero T
		e.Value = zero
		return nil
	}

	if err := yaml.Unmarshal([]byte(raw), &e.Value); err != nil {
		return fmt.Errorf("env %s: %w", m[1], err)
	}

	return nil
}

// Get возвращает значение или нулевое значение для nil.
func (e *Env[T]) Get() T {
	if e == nil {
		var zero T
		return zero
	}

	return e.Value
}
