package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NameRef is a backend field that arrives either as a bare string or as an
// {id, name} object (the id itself may be a number or a string). It is decoded
// once here so downstream code never branches on input shape.
type NameRef struct {
	ID   string
	Name string
}

// UnmarshalJSON accepts `"Marketing"`, `{"id":7,"name":"Marketing"}` and
// `{"id":"7","name":"Marketing"}`.
func (r *NameRef) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*r = NameRef{}
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = NameRef{Name: s}
		return nil
	}

	var obj struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return fmt.Errorf("decode name ref: %w", err)
	}
	*r = NameRef{ID: obj.ID.String(), Name: obj.Name}
	return nil
}

// MarshalJSON always emits the object form.
func (r NameRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name"`
	}{ID: r.ID, Name: r.Name})
}

// NameRefList is a backend field that arrives as a bare string, a single
// object, or an array of either. Normalized to a flat list.
type NameRefList []NameRef

// UnmarshalJSON accepts `"HR"`, `{"id":1,"name":"HR"}`,
// `["HR","Finance"]` and `[{"id":1,"name":"HR"}]`.
func (l *NameRefList) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}

	if b[0] == '[' {
		var items []NameRef
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var single NameRef
	if err := single.UnmarshalJSON(b); err != nil {
		return err
	}
	*l = NameRefList{single}
	return nil
}
