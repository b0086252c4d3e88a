// Package schema checks decoded JSON objects against JSON Schema documents.
//
// Every keyword is evaluated, so a payload with several problems gets one message per
// problem instead of failing on the first one.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed book.json
var bookDocument []byte

// Book validates the member of a {"book": {...}} request body.
var Book = MustNew("book", bookDocument)

const rootContext = "(root)"

type Schema struct {
	name   string
	schema *gojsonschema.Schema
	// order ranks properties for reporting, declared required properties first.
	order    map[string]int
	integers []string
}

// document is the part of a schema needed to order messages and normalise integers.
type document struct {
	Required   []string `json:"required"`
	Properties map[string]struct {
		Type string `json:"type"`
	} `json:"properties"`
}

// New compiles doc. name is the member the validated object is reported under.
func New(name string, doc []byte) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, errors.Wrapf(err, "compile %s schema", name)
	}
	var d document
	if err = json.Unmarshal(doc, &d); err != nil {
		return nil, errors.Wrapf(err, "decode %s schema", name)
	}

	s := &Schema{
		name:   name,
		schema: compiled,
		order:  make(map[string]int, len(d.Properties)),
	}
	for _, p := range d.Required {
		s.order[p] = len(s.order)
	}
	rest := make([]string, 0, len(d.Properties))
	for p, prop := range d.Properties {
		if _, ok := s.order[p]; !ok {
			rest = append(rest, p)
		}
		if prop.Type == "integer" {
			s.integers = append(s.integers, p)
		}
	}
	sort.Strings(rest)
	for _, p := range rest {
		s.order[p] = len(s.order)
	}
	sort.Strings(s.integers)
	return s, nil
}

func MustNew(name string, doc []byte) *Schema {
	s, err := New(name, doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate returns one message per violation, ordered by property, or nil when raw is valid.
// Empty raw means the member was absent from the request.
func (s *Schema) Validate(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []string{fmt.Sprintf("instance requires property %q", s.name)}
	}
	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return []string{fmt.Sprintf("instance.%s is not valid JSON", s.name)}
	}
	if res.Valid() {
		return nil
	}

	resErrs := res.Errors()
	sort.SliceStable(resErrs, func(i, j int) bool {
		return s.rank(resErrs[i]) < s.rank(resErrs[j])
	})
	msgs := make([]string, 0, len(resErrs))
	for _, e := range resErrs {
		msgs = append(msgs, s.message(e))
	}
	return msgs
}

// Decode unmarshals a validated raw into dst. Integer properties written as 1e2 or 100.0
// are rewritten as plain integers first, encoding/json refuses them for int fields.
func (s *Schema) Decode(raw json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return errors.Wrapf(err, "decode %s", s.name)
	}
	for _, p := range s.integers {
		n, ok := fields[p].(json.Number)
		if !ok {
			continue
		}
		r, ok := new(big.Rat).SetString(n.String())
		if !ok || !r.IsInt() {
			return errors.Errorf("instance.%s.%s is not of a type(s) integer", s.name, p)
		}
		fields[p] = json.Number(r.Num().String())
	}
	normalised, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrapf(err, "encode %s", s.name)
	}
	return json.Unmarshal(normalised, dst)
}

// property names the property an error is about, empty for the object itself.
func (s *Schema) property(e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		p, _ := e.Details()["property"].(string)
		return p
	}
	ctx := strings.TrimPrefix(e.Context().String(), rootContext)
	return strings.TrimPrefix(ctx, ".")
}

func (s *Schema) rank(e gojsonschema.ResultError) int {
	p := s.property(e)
	if p == "" {
		return -1
	}
	if r, ok := s.order[p]; ok {
		return r
	}
	return len(s.order)
}

func (s *Schema) message(e gojsonschema.ResultError) string {
	path := "instance." + s.name + strings.TrimPrefix(e.Context().String(), rootContext)
	d := e.Details()
	switch e.Type() {
	case "required":
		return fmt.Sprintf("%s requires property %q", path, s.property(e))
	case "invalid_type":
		return fmt.Sprintf("%s is not of a type(s) %v", path, d["expected"])
	case "number_lte":
		return fmt.Sprintf("%s must be less than or equal to %s", path, number(d["max"]))
	case "number_gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", path, number(d["min"]))
	default:
		return path + " " + e.Description()
	}
}

func number(v any) string {
	switch n := v.(type) {
	case *big.Rat:
		return n.RatString()
	case *big.Float:
		return n.Text('f', -1)
	default:
		return fmt.Sprint(v)
	}
}
