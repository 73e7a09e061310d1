package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"insight-workers/pkg/registry"
)

// Field is one generated struct field.
type Field struct {
	Name     string
	Type     string
	JSONName string
	Required bool
}

// Scaffold is the template data for one worker package.
type Scaffold struct {
	Package     string
	TaskType    string
	Category    string
	Description string
	TimeoutExpr string
	Input       []Field
	Output      []Field
}

var files = []struct {
	name string
	tmpl *template.Template
}{
	{"config.go", template.Must(template.New("config").Parse(configTemplate))},
	{"models.go", template.Must(template.New("models").Parse(modelsTemplate))},
	{"handler.go", template.Must(template.New("handler").Parse(handlerTemplate))},
	{"handler_test.go", template.Must(template.New("test").Parse(testTemplate))},
}

func NewScaffold(a registry.Activity) (*Scaffold, error) {
	if a.TaskType == "" || a.Category == "" {
		return nil, fmt.Errorf("activity %s needs a taskType and a category", a.ID)
	}
	return &Scaffold{
		Package:     strings.ReplaceAll(a.TaskType, "-", ""),
		TaskType:    a.TaskType,
		Category:    a.Category,
		Description: a.Description,
		TimeoutExpr: timeoutExpr(a.Timeout),
		Input:       schemaFields(a.InputSchema),
		Output:      schemaFields(a.OutputSchema),
	}, nil
}

// Dir is where the package lives below root.
func (s *Scaffold) Dir(root string) string {
	return filepath.Join(root, s.Category, s.TaskType)
}

// Render executes every template and gofmts the result.
func (s *Scaffold) Render() (map[string][]byte, error) {
	out := make(map[string][]byte, len(files))
	for _, f := range files {
		var buf bytes.Buffer
		if err := f.tmpl.Execute(&buf, s); err != nil {
			return nil, fmt.Errorf("render %s: %w", f.name, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", f.name, err)
		}
		out[f.name] = src
	}
	return out, nil
}

// Write renders the package into its directory below root. An existing
// directory is only overwritten with force.
func (s *Scaffold) Write(root string, force bool) (string, error) {
	dir := s.Dir(root)
	if _, err := os.Stat(dir); err == nil && !force {
		return "", fmt.Errorf("%s already exists, use --force to overwrite", dir)
	}
	rendered, err := s.Render()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	for name, src := range rendered {
		if err := os.WriteFile(filepath.Join(dir, name), src, 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// schemaFields turns the properties of a JSON schema into struct fields,
// sorted by name. A schema without properties contributes its required
// names as untyped fields.
func schemaFields(schema map[string]interface{}) []Field {
	required := map[string]bool{}
	if list, ok := schema["required"].([]interface{}); ok {
		for _, r := range list {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	var fields []Field
	props, _ := schema["properties"].(map[string]interface{})
	for name, raw := range props {
		prop, _ := raw.(map[string]interface{})
		fields = append(fields, Field{
			Name:     goName(name),
			Type:     goType(prop),
			JSONName: name,
			Required: required[name],
		})
	}
	if len(props) == 0 {
		for name := range required {
			fields = append(fields, Field{Name: goName(name), Type: "interface{}", JSONName: name, Required: true})
		}
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].JSONName < fields[j].JSONName })
	return fields
}

func goType(prop map[string]interface{}) string {
	switch prop["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := prop["items"].(map[string]interface{}); ok {
			if t := goType(items); t != "interface{}" {
				return "[]" + t
			}
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

func goName(jsonName string) string {
	if jsonName == "" {
		return jsonName
	}
	name := strings.ToUpper(jsonName[:1]) + jsonName[1:]
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

func timeoutExpr(timeout string) string {
	d, err := time.ParseDuration(timeout)
	if err != nil || d <= 0 {
		d = 30 * time.Second
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	}
	return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
}
