package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed events
var schemasFS embed.FS

var (
	compiledSchemas map[string]*jsonschema.Schema
	loadOnce        sync.Once
	loadErr         error
)

// Load компилирует все схемы из events/ один раз за процесс
func Load() error {
	loadOnce.Do(func() {
		compiledSchemas, loadErr = compileAll(schemasFS)
	})
	return loadErr
}

func compileAll(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	// сначала все ресурсы, чтобы работали $ref между схемами
	err := fs.WalkDir(fsys, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("contracts: walking schemas: %w", err)
	}

	schemas := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		key := KeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("contracts: unexpected schema path %s", path)
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("contracts: compile %s: %w", path, err)
		}
		schemas[key] = schema
	}
	return schemas, nil
}

// KeyFromPath: "events/scraped-listing/v1.json" -> "ScrapedListingEvent/1.0.0"
func KeyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "events/"), ".json")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[1], "v"))
}

// ValidateEvent проверяет тело сообщения по схеме события заданной версии
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	if err := Load(); err != nil {
		return err
	}

	key := eventType + "/" + eventVersion
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
