package targets

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Backend names the kind of database the targets live in.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendMongo    Backend = "mongo"
	BackendMemory   Backend = "memory"
)

var idTypes = map[Backend][]string{
	BackendPostgres: {"text", "bigint", "uuid"},
	BackendMongo:    {"objectid", "string", "int"},
	BackendMemory:   {},
}

// File is the parsed targets file.
type File struct {
	Backend Backend `yaml:"backend"`
	Targets []Spec  `yaml:"targets"`
}

// Spec describes one target.
type Spec struct {
	Name string `yaml:"name"`
	// Collection is the table or collection name. Defaults to Name.
	Collection string `yaml:"collection,omitempty"`
	// ID is the key column or member. Defaults depend on the backend.
	ID string `yaml:"id,omitempty"`
	// IDType selects how cursors are bound: text, bigint or uuid for
	// postgres; objectid, string or int for mongo.
	IDType     string         `yaml:"id_type,omitempty"`
	Filter     map[string]any `yaml:"filter,omitempty"`
	Fields     []string       `yaml:"fields,omitempty"`
	Structured []string       `yaml:"structured,omitempty"`
	// Data is the JSON file holding the records of a memory target.
	Data string `yaml:"data,omitempty"`
}

// Table returns the collection name, falling back to the target name.
func (s Spec) Table() string {
	if s.Collection != "" {
		return s.Collection
	}
	return s.Name
}

// Load reads and validates a targets file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}
	return Parse(data)
}

// Parse decodes and validates a targets file. Unknown keys are rejected so
// typos do not silently drop a field from the scan.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Join(ErrParseFile, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate reports every problem in the file at once.
func (f *File) Validate() error {
	allowed, ok := idTypes[f.Backend]
	if !ok {
		return errors.Join(ErrInvalidFile, ErrUnknownBackend, fmt.Errorf("%q", f.Backend))
	}
	if len(f.Targets) == 0 {
		return errors.Join(ErrInvalidFile, errors.New("no targets"))
	}

	var errs []error
	names := make(map[string]struct{}, len(f.Targets))
	for i, s := range f.Targets {
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
			errs = append(errs, fmt.Errorf("target %s: name is required", label))
		}
		if _, dup := names[s.Name]; dup && s.Name != "" {
			errs = append(errs, fmt.Errorf("target %s: defined twice", label))
		}
		names[s.Name] = struct{}{}

		if len(s.Fields)+len(s.Structured) == 0 {
			errs = append(errs, fmt.Errorf("target %s: at least one field is required", label))
		}
		if s.IDType != "" && !slices.Contains(allowed, s.IDType) {
			errs = append(errs, fmt.Errorf("target %s: id_type %q is not valid for %s", label, s.IDType, f.Backend))
		}
		if f.Backend == BackendMemory && s.Data == "" {
			errs = append(errs, fmt.Errorf("target %s: data file is required for the memory backend", label))
		}
		for k, v := range s.Filter {
			switch v.(type) {
			case nil, string, bool, int, int64, float64:
			default:
				errs = append(errs, fmt.Errorf("target %s: filter %q must be a scalar or null", label, k))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidFile}, errs...)...)
	}
	return nil
}

// Names returns the target names in file order.
func (f *File) Names() []string {
	names := make([]string, len(f.Targets))
	for i, s := range f.Targets {
		names[i] = s.Name
	}
	return names
}

// Marshal renders the file as YAML.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
