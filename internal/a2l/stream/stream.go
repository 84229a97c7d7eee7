// Package stream reads and writes node trees as YAML or JSON documents.
// A document holds one node or a list of nodes:
//
//	- tag: PROJECT
//	  params: {name: P, longIdentifier: demo}
//	  children:
//	    - tag: MODULE
//	      params: {name: ECU, longIdentifier: ""}
package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/a2ldb/a2ldb/internal/a2l/model"
)

// Format is a document encoding
type Format int

const (
	YAML Format = iota
	JSON
)

// ErrUnknownFormat is returned for unsupported file extensions or format names
var ErrUnknownFormat = errors.New("unknown stream format")

// String returns the format name
func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "yaml"
}

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	default:
		return YAML, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Decode reads every node of a document
func Decode(r io.Reader, format Format) ([]*model.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var nodes []*model.Node
	switch format {
	case JSON:
		nodes, err = decodeJSON(data)
	default:
		nodes, err = decodeYAML(data)
	}
	if err != nil {
		return nil, err
	}

	for i, n := range nodes {
		if err := check(n); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}
	return nodes, nil
}

func decodeYAML(data []byte) ([]*model.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var nodes []*model.Node
		if err := root.Decode(&nodes); err != nil {
			return nil, fmt.Errorf("failed to decode nodes: %w", err)
		}
		return nodes, nil
	}

	var n model.Node
	if err := root.Decode(&n); err != nil {
		return nil, fmt.Errorf("failed to decode node: %w", err)
	}
	return []*model.Node{&n}, nil
}

func decodeJSON(data []byte) ([]*model.Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	if trimmed[0] == '[' {
		var nodes []*model.Node
		if err := dec.Decode(&nodes); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
		return nodes, nil
	}

	var n model.Node
	if err := dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	return []*model.Node{&n}, nil
}

func check(n *model.Node) error {
	if n == nil {
		return fmt.Errorf("%w: empty node", model.ErrInvalidValue)
	}
	if n.Tag == "" {
		return fmt.Errorf("%w: node without tag", model.ErrInvalidValue)
	}
	for _, child := range n.Children {
		if err := check(child); err != nil {
			return fmt.Errorf("%s: %w", n.Tag, err)
		}
	}
	return nil
}

// Encode writes nodes as one document
func Encode(w io.Writer, nodes []*model.Node, format Format) error {
	if format == JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nodes); err != nil {
		return err
	}
	return enc.Close()
}

// ReadFile decodes a document, picking the format from the extension
func ReadFile(path string) ([]*model.Node, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}
