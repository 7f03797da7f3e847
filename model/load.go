package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawModel is the YAML shape of one model definition file.
type rawModel struct {
	Name   string     `yaml:"name"`
	Schema string     `yaml:"schema"`
	Table  string     `yaml:"table"`
	Global bool       `yaml:"global"`
	Fields []rawField `yaml:"fields"`

	Join       []string       `yaml:"join"` // two parent-id field names
	BelongsTo  []rawBelongsTo `yaml:"belongs_to"`
	Children   []rawChild     `yaml:"children"`
	References []rawReference `yaml:"references"`
	Sort       []rawSortRule  `yaml:"sort"`
}

type rawField struct {
	Name       string `yaml:"name"`
	Column     string `yaml:"column"`
	Type       string `yaml:"type"`
	OwnerWrite bool   `yaml:"owner_write"`
	Writable   bool   `yaml:"writable"`
	NeverRead  bool   `yaml:"never_read"`
	Unique     bool   `yaml:"unique"`
	Nullable   bool   `yaml:"nullable"`
}

type rawBelongsTo struct {
	Name  string `yaml:"name"`
	Field string `yaml:"field"`
}

type rawChild struct {
	Name        string `yaml:"name"`
	Model       string `yaml:"model"`
	ParentField string `yaml:"parent_field"`
	OnGet       bool   `yaml:"on_get"`
}

type rawReference struct {
	Name   string   `yaml:"name"`
	Field  string   `yaml:"field"`
	Model  string   `yaml:"model"`
	Fields []string `yaml:"fields"`
	OnGet  bool     `yaml:"on_get"`
}

type rawSortRule struct {
	Field     string `yaml:"field"`
	Direction string `yaml:"direction"`
}

var fieldTypes = map[string]bool{
	StringType:   true,
	TextType:     true,
	IntegerType:  true,
	BigintType:   true,
	BooleanType:  true,
	FloatType:    true,
	DecimalType:  true,
	DatetimeType: true,
	JSONType:     true,
	BinaryType:   true,
}

// LoadDir reads every .yaml/.yml file under dir, builds the full model set,
// and resolves cross-model relations. Any malformed or inconsistent
// definition aborts the load with the offending file path in the error.
func LoadDir(dir string) ([]*Model, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading models directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no model definitions found in %s", dir)
	}

	// First pass: parse and validate each model in isolation.
	models := make([]*Model, 0, len(paths))
	byName := make(map[string]*Model)
	rawByName := make(map[string]rawModel)
	for _, path := range paths {
		raw, m, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if _, dup := byName[m.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate model %q", path, m.Name)
		}
		models = append(models, m)
		byName[m.Name] = m
		rawByName[m.Name] = raw
	}

	// Second pass: resolve children and references against the full set.
	for i, m := range models {
		if err := resolveRelations(paths[i], m, rawByName[m.Name], byName); err != nil {
			return nil, err
		}
	}

	return models, nil
}

func loadFile(path string) (rawModel, *Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rawModel{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw rawModel
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return rawModel{}, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	m, err := build(raw)
	if err != nil {
		return rawModel{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, m, nil
}

// build converts a parsed definition into a Model, enforcing the schema
// invariants. Relations to other models are resolved later.
func build(raw rawModel) (*Model, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("model has no name")
	}
	if raw.Schema == "" || raw.Table == "" {
		return nil, fmt.Errorf("model %q: schema and table are required", raw.Name)
	}
	if len(raw.Fields) == 0 {
		return nil, fmt.Errorf("model %q: at least one field is required", raw.Name)
	}

	m := &Model{
		Name:   raw.Name,
		Schema: raw.Schema,
		Table:  raw.Table,
		Global: raw.Global,
	}

	seen := make(map[string]bool)
	for _, rf := range raw.Fields {
		if rf.Name == "" {
			return nil, fmt.Errorf("model %q: field with empty name", raw.Name)
		}
		if seen[rf.Name] {
			return nil, fmt.Errorf("model %q: duplicate field %q", raw.Name, rf.Name)
		}
		seen[rf.Name] = true

		if rf.Type == "" {
			rf.Type = StringType
		}
		if !fieldTypes[rf.Type] {
			return nil, fmt.Errorf("model %q: field %q has unknown type %q", raw.Name, rf.Name, rf.Type)
		}

		col := rf.Column
		if col == "" {
			col = rf.Name
		}
		m.Fields = append(m.Fields, Field{
			Name:       rf.Name,
			Column:     col,
			FullName:   "tb." + col,
			Type:       rf.Type,
			OwnerWrite: rf.OwnerWrite,
			Writable:   rf.Writable,
			NeverRead:  rf.NeverRead,
			Unique:     rf.Unique,
			Nullable:   rf.Nullable,
		})
	}

	if len(raw.Join) > 0 {
		if len(raw.Join) != 2 {
			return nil, fmt.Errorf("model %q: a join model requires exactly two parent-id fields, got %d", raw.Name, len(raw.Join))
		}
		if raw.Join[0] == raw.Join[1] {
			return nil, fmt.Errorf("model %q: join parent-id fields must differ", raw.Name)
		}
		for _, name := range raw.Join {
			if !seen[name] {
				return nil, fmt.Errorf("model %q: join parent-id field %q is not declared", raw.Name, name)
			}
		}
		if seen["id"] {
			return nil, fmt.Errorf("model %q: a join model must not declare an %q field", raw.Name, "id")
		}
		m.Join = &Join{ParentFields: [2]string{raw.Join[0], raw.Join[1]}}
	} else if !seen["id"] {
		return nil, fmt.Errorf("model %q: an %q field is required", raw.Name, "id")
	}

	for _, rb := range raw.BelongsTo {
		if rb.Name == "" || rb.Field == "" {
			return nil, fmt.Errorf("model %q: belongs_to requires name and field", raw.Name)
		}
		if !seen[rb.Field] {
			return nil, fmt.Errorf("model %q: belongs_to %q names unknown field %q", raw.Name, rb.Name, rb.Field)
		}
		m.BelongsTo = append(m.BelongsTo, BelongsTo{Name: rb.Name, Field: rb.Field})
	}

	for _, rs := range raw.Sort {
		if !seen[rs.Field] {
			return nil, fmt.Errorf("model %q: sort whitelist names unknown field %q", raw.Name, rs.Field)
		}
		dir := rs.Direction
		if dir == "" {
			dir = DirAny
		}
		if dir != DirAny && dir != DirAsc && dir != DirDesc {
			return nil, fmt.Errorf("model %q: sort field %q has invalid direction %q", raw.Name, rs.Field, rs.Direction)
		}
		m.Sort = append(m.Sort, SortRule{Field: rs.Field, Direction: dir})
	}

	return m, nil
}

// resolveRelations fills in the target-model details of children and
// references, validating each against the loaded model set.
func resolveRelations(path string, m *Model, raw rawModel, byName map[string]*Model) error {
	if m.IsJoin() && len(raw.Children) > 0 {
		return fmt.Errorf("%s: join model %q cannot declare children relations", path, m.Name)
	}
	for _, rc := range raw.Children {
		child, ok := byName[rc.Model]
		if !ok {
			return fmt.Errorf("%s: children relation %q targets unknown model %q", path, rc.Name, rc.Model)
		}
		if _, ok := child.Field(rc.ParentField); !ok {
			return fmt.Errorf("%s: children relation %q: model %q has no field %q", path, rc.Name, rc.Model, rc.ParentField)
		}
		if !m.Global && child.Global {
			return fmt.Errorf("%s: children relation %q: tenant-scoped model %q cannot nest global model %q", path, rc.Name, m.Name, rc.Model)
		}
		m.Children = append(m.Children, Child{
			Name:        rc.Name,
			Model:       child.Name,
			Schema:      child.Schema,
			Table:       child.Table,
			ParentField: rc.ParentField,
			Fields:      child.ReadableFields(),
			OnGet:       rc.OnGet,
		})
	}

	for _, rr := range raw.References {
		target, ok := byName[rr.Model]
		if !ok {
			return fmt.Errorf("%s: reference %q targets unknown model %q", path, rr.Name, rr.Model)
		}
		if _, ok := m.Field(rr.Field); !ok {
			return fmt.Errorf("%s: reference %q names unknown field %q", path, rr.Name, rr.Field)
		}

		var fields []Field
		if len(rr.Fields) == 0 {
			fields = target.ReadableFields()
		} else {
			for _, name := range rr.Fields {
				f, ok := target.Field(name)
				if !ok {
					return fmt.Errorf("%s: reference %q: model %q has no field %q", path, rr.Name, rr.Model, name)
				}
				if f.NeverRead {
					return fmt.Errorf("%s: reference %q: field %q of model %q is never read", path, rr.Name, name, rr.Model)
				}
				fields = append(fields, f)
			}
		}

		m.References = append(m.References, Reference{
			Name:   rr.Name,
			Field:  rr.Field,
			Schema: target.Schema,
			Table:  target.Table,
			Fields: fields,
			OnGet:  rr.OnGet,
		})
	}

	return nil
}
