// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fieldmap renames JSON object keys between the API wire format
// and the client-side record format. The mapping is a single table so the
// two directions cannot drift apart.
package fieldmap

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMixedRecord is returned when a record already carries a key from the
// namespace it is being renamed into.
var ErrMixedRecord = errors.New("fieldmap: record mixes wire and client keys")

// Pair links an API key to its client-side name.
type Pair struct {
	Wire   string
	Client string
}

// Content is the mapping used for posts and categories.
var Content = MustNew(
	Pair{Wire: "id", Client: "id"},
	Pair{Wire: "category", Client: "category_id"},
	Pair{Wire: "image", Client: "featured_image"},
	Pair{Wire: "author", Client: "author_id"},
	Pair{Wire: "createdAt", Client: "created_at"},
	Pair{Wire: "updatedAt", Client: "updated_at"},
	Pair{Wire: "categoryName", Client: "category_name"},
)

// Map is a bijective key mapping.
type Map struct {
	toClient map[string]string
	toWire   map[string]string
}

// New builds a map from pairs. Each wire key and each client key may
// appear only once.
func New(pairs ...Pair) (*Map, error) {
	m := &Map{
		toClient: make(map[string]string, len(pairs)),
		toWire:   make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		if p.Wire == "" || p.Client == "" {
			return nil, fmt.Errorf("fieldmap: empty key in pair %+v", p)
		}
		if _, dup := m.toClient[p.Wire]; dup {
			return nil, fmt.Errorf("fieldmap: duplicate wire key %q", p.Wire)
		}
		if _, dup := m.toWire[p.Client]; dup {
			return nil, fmt.Errorf("fieldmap: duplicate client key %q", p.Client)
		}
		m.toClient[p.Wire] = p.Client
		m.toWire[p.Client] = p.Wire
	}
	return m, nil
}

// MustNew is like New but panics on an invalid table.
func MustNew(pairs ...Pair) *Map {
	m, err := New(pairs...)
	if err != nil {
		panic(err)
	}
	return m
}

// ClientKey returns the client-side name for a wire key.
func (m *Map) ClientKey(wire string) string {
	if k, ok := m.toClient[wire]; ok {
		return k
	}
	return wire
}

// WireKey returns the wire name for a client-side key.
func (m *Map) WireKey(client string) string {
	if k, ok := m.toWire[client]; ok {
		return k
	}
	return client
}

// ToClient renames the keys of a wire record. Unknown keys pass through.
// A record holding a client-only key is rejected with ErrMixedRecord.
func (m *Map) ToClient(rec map[string]any) (map[string]any, error) {
	return rename(rec, m.toClient, m.toWire)
}

// ToWire renames the keys of a client record. Unknown keys pass through.
// A record holding a wire-only key is rejected with ErrMixedRecord.
func (m *Map) ToWire(rec map[string]any) (map[string]any, error) {
	return rename(rec, m.toWire, m.toClient)
}

// DecodeClient unmarshals a wire JSON object into v after renaming its keys
// to client names. v is expected to use client names in its json tags.
func (m *Map) DecodeClient(data []byte, v any) error {
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode wire record: %w", err)
	}
	renamed, err := m.ToClient(rec)
	if err != nil {
		return err
	}
	out, err := json.Marshal(renamed)
	if err != nil {
		return fmt.Errorf("encode client record: %w", err)
	}
	if err := json.Unmarshal(out, v); err != nil {
		return fmt.Errorf("decode client record: %w", err)
	}
	return nil
}

// EncodeWire marshals a client-shaped value and renames its keys to wire
// names.
func (m *Map) EncodeWire(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode client record: %w", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode client record: %w", err)
	}
	renamed, err := m.ToWire(rec)
	if err != nil {
		return nil, err
	}
	return json.Marshal(renamed)
}

// rename maps every key through from. A key unknown to from but present in
// back belongs to the target namespace and is rejected.
func rename(rec map[string]any, from, back map[string]string) (map[string]any, error) {
	if rec == nil {
		return nil, nil
	}
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		to, ok := from[k]
		if !ok {
			if _, foreign := back[k]; foreign {
				return nil, fmt.Errorf("%w: %q", ErrMixedRecord, k)
			}
			to = k
		}
		out[to] = v
	}
	return out, nil
}
