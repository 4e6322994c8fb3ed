// Package searchjs reads and writes the searchindex.js files that Sphinx
// generates for its client-side search box.
package searchjs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/fwojciec/sphinxdex"
)

// rawIndex mirrors the serialized layout of searchindex.js.
type rawIndex struct {
	AllTitles    map[string][]anchorTuple   `json:"alltitles,omitzero"`
	DocNames     []string                   `json:"docnames"`
	EnvVersion   map[string]int             `json:"envversion,omitempty"`
	Filenames    []string                   `json:"filenames"`
	IndexEntries map[string][]anchorTuple   `json:"indexentries,omitzero"`
	Objects      map[string]json.RawMessage `json:"objects"`
	ObjNames     map[string][]string        `json:"objnames"`
	ObjTypes     map[string]string          `json:"objtypes"`
	Terms        map[string]postings        `json:"terms"`
	Titles       []string                   `json:"titles"`
	TitleTerms   map[string]postings        `json:"titleterms"`
}

// postings is a list of document indices. Sphinx writes a list with a single
// element as a bare number.
type postings []int

func (p *postings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var docs []int
		if err := json.Unmarshal(data, &docs); err != nil {
			return err
		}
		*p = docs
		return nil
	}

	var doc int
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*p = postings{doc}
	return nil
}

func (p postings) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(p[0])
	}
	return json.Marshal([]int(p))
}

// objTuple is [doc, type, prio, anchor] in the nested layout and
// [doc, type, prio, anchor, name] in the list layout.
type objTuple struct {
	doc, typ, prio int
	anchor         string
	name           string
	named          bool
}

func (t *objTuple) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 4 && len(fields) != 5 {
		return fmt.Errorf("object entry has %d fields, want 4 or 5", len(fields))
	}

	for i, dst := range []*int{&t.doc, &t.typ, &t.prio} {
		if err := json.Unmarshal(fields[i], dst); err != nil {
			return fmt.Errorf("object entry field %d: %w", i, err)
		}
	}
	if err := json.Unmarshal(fields[3], &t.anchor); err != nil {
		return fmt.Errorf("object entry anchor: %w", err)
	}
	if len(fields) == 5 {
		if err := json.Unmarshal(fields[4], &t.name); err != nil {
			return fmt.Errorf("object entry name: %w", err)
		}
		t.named = true
	}
	return nil
}

func (t objTuple) MarshalJSON() ([]byte, error) {
	fields := []any{t.doc, t.typ, t.prio, t.anchor}
	if t.named {
		fields = append(fields, t.name)
	}
	return marshal(fields)
}

// anchorTuple is [doc, anchor]; the anchor is null for whole documents.
// Trailing fields written by newer Sphinx versions are ignored.
type anchorTuple struct {
	doc    int
	anchor string
	null   bool
}

func (t *anchorTuple) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) < 2 {
		return fmt.Errorf("title entry has %d fields, want at least 2", len(fields))
	}
	if err := json.Unmarshal(fields[0], &t.doc); err != nil {
		return fmt.Errorf("title entry document: %w", err)
	}

	var anchor *string
	if err := json.Unmarshal(fields[1], &anchor); err != nil {
		return fmt.Errorf("title entry anchor: %w", err)
	}
	if anchor != nil {
		t.anchor = *anchor
	}
	return nil
}

func (t anchorTuple) MarshalJSON() ([]byte, error) {
	if t.null && t.anchor == "" {
		return marshal([]any{t.doc, nil})
	}
	return marshal([]any{t.doc, t.anchor})
}

// Parse decodes a searchindex.js file. The input may be wrapped in a
// Search.setIndex(...) call or be a bare object, written either as strict
// JSON or as a JavaScript literal with unquoted keys. Both object layouts are
// supported. Returns EINVALID for malformed input; bounds are not checked,
// see sphinxdex.Index.Check.
func Parse(data []byte) (*sphinxdex.Index, error) {
	body, err := unwrap(data)
	if err != nil {
		return nil, err
	}

	js, err := toJSON(body)
	if err != nil {
		return nil, err
	}

	var raw rawIndex
	if err := json.Unmarshal(js, &raw); err != nil {
		return nil, decodeError(err)
	}

	return raw.index()
}

// index converts the serialized form into the domain type.
func (raw *rawIndex) index() (*sphinxdex.Index, error) {
	idx := &sphinxdex.Index{
		DocNames:   raw.DocNames,
		Filenames:  raw.Filenames,
		Titles:     raw.Titles,
		Terms:      make(map[string][]int, len(raw.Terms)),
		TitleTerms: make(map[string][]int, len(raw.TitleTerms)),
		ObjTypes:   make(map[int]sphinxdex.ObjType, len(raw.ObjNames)),
	}
	if len(raw.EnvVersion) > 0 {
		idx.EnvVersion = raw.EnvVersion
	}

	for term, docs := range raw.Terms {
		idx.Terms[term] = docs
	}
	for term, docs := range raw.TitleTerms {
		idx.TitleTerms[term] = docs
	}

	if err := raw.objTypes(idx); err != nil {
		return nil, err
	}
	if err := raw.objects(idx); err != nil {
		return nil, err
	}

	idx.AllTitles = anchors(raw.AllTitles)
	idx.IndexEntries = anchors(raw.IndexEntries)

	// Without objects, the title tables, even empty, mark the list layout.
	if len(idx.Objects) == 0 && (raw.AllTitles != nil || raw.IndexEntries != nil) {
		idx.Layout = sphinxdex.LayoutList
	}

	return idx, nil
}

func (raw *rawIndex) objTypes(idx *sphinxdex.Index) error {
	for key, names := range raw.ObjNames {
		n, err := strconv.Atoi(key)
		if err != nil {
			return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: object type key %q is not a number", key)
		}
		if len(names) != 3 {
			return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: object type %d has %d names, want 3", n, len(names))
		}
		idx.ObjTypes[n] = sphinxdex.ObjType{Domain: names[0], Name: names[1], Label: names[2]}
	}

	for key, role := range raw.ObjTypes {
		n, err := strconv.Atoi(key)
		if err != nil {
			return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: object type key %q is not a number", key)
		}
		typ := idx.ObjTypes[n]
		typ.Role = role
		idx.ObjTypes[n] = typ
	}
	return nil
}

func (raw *rawIndex) objects(idx *sphinxdex.Index) error {
	prefixes := make([]string, 0, len(raw.Objects))
	for prefix := range raw.Objects {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	for _, prefix := range prefixes {
		data := bytes.TrimSpace(raw.Objects[prefix])
		if len(data) == 0 {
			continue
		}

		switch data[0] {
		case '{':
			var entries map[string]objTuple
			if err := json.Unmarshal(data, &entries); err != nil {
				return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: objects[%q]: %v", prefix, err)
			}
			names := make([]string, 0, len(entries))
			for name := range entries {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				t := entries[name]
				idx.Objects = append(idx.Objects, sphinxdex.Object{
					Prefix: prefix, Name: name, Doc: t.doc, Type: t.typ, Prio: t.prio, Anchor: t.anchor,
				})
			}

		case '[':
			var entries []objTuple
			if err := json.Unmarshal(data, &entries); err != nil {
				return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: objects[%q]: %v", prefix, err)
			}
			for _, t := range entries {
				if !t.named {
					return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: objects[%q]: entry without name", prefix)
				}
				idx.Objects = append(idx.Objects, sphinxdex.Object{
					Prefix: prefix, Name: t.name, Doc: t.doc, Type: t.typ, Prio: t.prio, Anchor: t.anchor,
				})
			}
			idx.Layout = sphinxdex.LayoutList

		default:
			return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: objects[%q] must be an object or a list", prefix)
		}
	}
	return nil
}

func anchors(raw map[string][]anchorTuple) map[string][]sphinxdex.Anchor {
	if len(raw) == 0 {
		return nil
	}
	m := make(map[string][]sphinxdex.Anchor, len(raw))
	for key, tuples := range raw {
		refs := make([]sphinxdex.Anchor, len(tuples))
		for i, t := range tuples {
			refs[i] = sphinxdex.Anchor{Doc: t.doc, ID: t.anchor}
		}
		m[key] = refs
	}
	return m
}

// decodeError converts encoding/json errors into EINVALID errors with the
// byte offset of the problem.
func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: syntax error at offset %d: %v", syntaxErr.Offset, err)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: field %q at offset %d: cannot use %s as %s",
			typeErr.Field, typeErr.Offset, typeErr.Value, typeErr.Type)
	}
	return sphinxdex.Errorf(sphinxdex.EINVALID, "search index: %v", err)
}
