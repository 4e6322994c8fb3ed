package searchjs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fwojciec/sphinxdex"
)

// Encode writes idx as a searchindex.js file: a Search.setIndex(...) call
// around a JSON object with sorted keys. Objects are written in the layout
// recorded on the index. Terms found in a single document are written as a
// bare number, as Sphinx does. List layout indexes always carry alltitles
// and indexentries, empty if need be, so the layout survives Parse.
func Encode(w io.Writer, idx *sphinxdex.Index) error {
	raw, err := fromIndex(idx)
	if err != nil {
		return err
	}

	body, err := marshal(raw)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, callPrefix); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err = io.WriteString(w, ")")
	return err
}

// fromIndex converts the domain type into its serialized form.
func fromIndex(idx *sphinxdex.Index) (*rawIndex, error) {
	raw := &rawIndex{
		DocNames:   nonNil(idx.DocNames),
		Filenames:  nonNil(idx.Filenames),
		Titles:     nonNil(idx.Titles),
		EnvVersion: idx.EnvVersion,
		Terms:      make(map[string]postings, len(idx.Terms)),
		TitleTerms: make(map[string]postings, len(idx.TitleTerms)),
		Objects:    make(map[string]json.RawMessage),
		ObjNames:   make(map[string][]string, len(idx.ObjTypes)),
		ObjTypes:   make(map[string]string, len(idx.ObjTypes)),
	}

	for term, docs := range idx.Terms {
		raw.Terms[term] = docs
	}
	for term, docs := range idx.TitleTerms {
		raw.TitleTerms[term] = docs
	}

	for n, typ := range idx.ObjTypes {
		key := strconv.Itoa(n)
		raw.ObjNames[key] = []string{typ.Domain, typ.Name, typ.Label}
		raw.ObjTypes[key] = typ.Role
	}

	if idx.Layout == sphinxdex.LayoutList {
		grouped := make(map[string][]objTuple)
		for _, o := range idx.Objects {
			grouped[o.Prefix] = append(grouped[o.Prefix], objTuple{
				doc: o.Doc, typ: o.Type, prio: o.Prio, anchor: o.Anchor, name: o.Name, named: true,
			})
		}
		for prefix, tuples := range grouped {
			data, err := marshal(tuples)
			if err != nil {
				return nil, fmt.Errorf("encode objects[%q]: %w", prefix, err)
			}
			raw.Objects[prefix] = data
		}
	} else {
		grouped := make(map[string]map[string]objTuple)
		for _, o := range idx.Objects {
			if grouped[o.Prefix] == nil {
				grouped[o.Prefix] = make(map[string]objTuple)
			}
			grouped[o.Prefix][o.Name] = objTuple{doc: o.Doc, typ: o.Type, prio: o.Prio, anchor: o.Anchor}
		}
		for prefix, entries := range grouped {
			data, err := marshal(entries)
			if err != nil {
				return nil, fmt.Errorf("encode objects[%q]: %w", prefix, err)
			}
			raw.Objects[prefix] = data
		}
	}

	raw.AllTitles = anchorTuples(idx.AllTitles, true)
	raw.IndexEntries = anchorTuples(idx.IndexEntries, false)
	if idx.Layout == sphinxdex.LayoutList {
		if raw.AllTitles == nil {
			raw.AllTitles = map[string][]anchorTuple{}
		}
		if raw.IndexEntries == nil {
			raw.IndexEntries = map[string][]anchorTuple{}
		}
	}

	return raw, nil
}

func anchorTuples(m map[string][]sphinxdex.Anchor, nullable bool) map[string][]anchorTuple {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]anchorTuple, len(m))
	for key, refs := range m {
		tuples := make([]anchorTuple, len(refs))
		for i, ref := range refs {
			tuples[i] = anchorTuple{doc: ref.Doc, anchor: ref.ID, null: nullable}
		}
		out[key] = tuples
	}
	return out
}

// marshal encodes v as compact JSON without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
