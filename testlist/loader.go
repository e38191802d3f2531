package testlist

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/ethereum-optimism/infra/op-regress/types"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const schemaFile = "testlist.schema.json"

//go:embed testlist.schema.json
var schemaFS embed.FS

var (
	listSchema  *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

// Document is a parsed test list: an ordered sequence of import and test nodes.
type Document struct {
	Path  string
	Nodes []types.Node
}

// DocumentLoader turns a path into a Document.
type DocumentLoader interface {
	Load(path string) (*Document, error)
}

var _ DocumentLoader = (*YAMLLoader)(nil)

// YAMLLoader loads YAML test lists and validates them against the embedded schema.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML document loader
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Load reads, validates and decodes the test list at path.
// Every failure is reported as a *LoadError.
func (l *YAMLLoader) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("reading file: %w", err)}
	}

	if err := validate(data); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var nodes []types.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("parsing file: %w", err)}
	}

	return &Document{Path: path, Nodes: nodes}, nil
}

// compileSchema compiles the embedded schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		data, err := schemaFS.ReadFile(schemaFile)
		if err != nil {
			compileErr = fmt.Errorf("read test list schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal test list schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaFile, doc); err != nil {
			compileErr = fmt.Errorf("add test list schema resource: %w", err)
			return
		}

		listSchema, err = compiler.Compile(schemaFile)
		if err != nil {
			compileErr = fmt.Errorf("compile test list schema: %w", err)
			return
		}
	})

	return compileErr
}

// validate checks raw YAML against the test list schema. An empty document is valid.
func validate(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("parsing file: %w", err)
	}
	if tree == nil {
		return nil
	}

	// Round-trip through JSON so the validator sees plain JSON values.
	raw, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("converting document: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("converting document: %w", err)
	}

	if err := listSchema.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
