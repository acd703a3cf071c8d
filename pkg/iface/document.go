package iface

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/service"
	"github.com/mash-protocol/svcbus/pkg/version"
)

// Document is an interface descriptor file. Messages are declared by name;
// ids are assigned in declaration order starting at each category's first id.
type Document struct {
	Name       string            `yaml:"name"`
	Version    version.Version   `yaml:"version"`
	Type       string            `yaml:"type"`
	Requests   []RawRequestDef   `yaml:"requests"`
	Responses  []RawResponseDef  `yaml:"responses"`
	Attributes []RawAttributeDef `yaml:"attributes"`
}

// RawRequestDef declares a request. An empty Response marks it
// fire-and-forget.
type RawRequestDef struct {
	Name     string `yaml:"name"`
	Response string `yaml:"response"`
}

// RawResponseDef declares a response and its parameter names.
type RawResponseDef struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
}

// RawAttributeDef declares an attribute.
type RawAttributeDef struct {
	Name string `yaml:"name"`
}

// Definition numbers the document's messages and resolves request to
// response references.
func (doc *Document) Definition() (Definition, error) {
	typ, err := service.ParseType(doc.Type)
	if err != nil {
		return Definition{}, fmt.Errorf("interface %s: %w", doc.Name, err)
	}

	def := Definition{
		Name:    doc.Name,
		Version: doc.Version,
		Type:    typ,
		Names:   make(map[msgid.ID]string),
	}
	var errs []error

	respByName := make(map[string]msgid.ID, len(doc.Responses))
	for i, r := range doc.Responses {
		id := msgid.ResponseID(i)
		if _, dup := respByName[r.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate response %q", r.Name))
		}
		respByName[r.Name] = id
		def.Responses = append(def.Responses, id)
		def.ResponseParams = append(def.ResponseParams, len(r.Params))
		def.Names[id] = r.Name
	}

	seen := make(map[string]bool, len(doc.Requests))
	for i, r := range doc.Requests {
		id := msgid.RequestID(i)
		if seen[r.Name] {
			errs = append(errs, fmt.Errorf("duplicate request %q", r.Name))
		}
		seen[r.Name] = true

		resp := msgid.ResponseNone
		if r.Response != "" {
			var ok bool
			if resp, ok = respByName[r.Response]; !ok {
				errs = append(errs, fmt.Errorf("request %q references unknown response %q", r.Name, r.Response))
			}
		}
		def.Requests = append(def.Requests, id)
		def.RequestToResponse = append(def.RequestToResponse, resp)
		def.Names[id] = r.Name
	}

	clear(seen)
	for i, a := range doc.Attributes {
		id := msgid.AttributeID(i)
		if seen[a.Name] {
			errs = append(errs, fmt.Errorf("duplicate attribute %q", a.Name))
		}
		seen[a.Name] = true
		def.Attributes = append(def.Attributes, id)
		def.Names[id] = a.Name
	}

	if len(errs) > 0 {
		return Definition{}, fmt.Errorf("%w: interface %s: %w", ErrInvalidDefinition, doc.Name, errors.Join(errs...))
	}
	return def, nil
}

// ParseDocument parses an interface descriptor from YAML bytes.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing interface document: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("interface document missing name")
	}
	return &doc, nil
}

// Parse parses an interface descriptor and builds its Descriptor.
func Parse(data []byte) (*Descriptor, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	def, err := doc.Definition()
	if err != nil {
		return nil, err
	}
	return New(def)
}

// LoadFile reads and parses an interface descriptor file.
func LoadFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}
