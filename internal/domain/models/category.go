// internal/domain/models/category.go
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups posts or products. Slugs are unique per kind.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind        ContentKind        `bson:"kind" json:"kind"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// CategoryRef is a reference to a category as a client sends it: either a bare
// id or a populated category object. ID extracts the id from either form.
type CategoryRef struct {
	id        string
	name      string
	slug      string
	populated bool
}

// ErrMalformedCategoryRef is returned when a reference has no usable id.
var ErrMalformedCategoryRef = errors.New("malformed category reference")

// CategoryRefID builds a bare-id reference.
func CategoryRefID(id string) CategoryRef {
	return CategoryRef{id: strings.TrimSpace(id)}
}

// PopulatedCategoryRef builds a reference from a loaded category.
func PopulatedCategoryRef(c Category) CategoryRef {
	return CategoryRef{id: c.ID.Hex(), name: c.Name, slug: c.Slug, populated: true}
}

// ID returns the referenced category id as sent (not yet parsed).
func (r CategoryRef) ID() string { return r.id }

// Populated reports whether the reference arrived with name/slug attached.
func (r CategoryRef) Populated() bool { return r.populated }

// Name returns the populated name, if any.
func (r CategoryRef) Name() string { return r.name }

// ObjectID parses the referenced id.
func (r CategoryRef) ObjectID() (primitive.ObjectID, error) {
	if r.id == "" {
		return primitive.NilObjectID, ErrMalformedCategoryRef
	}
	oid, err := primitive.ObjectIDFromHex(r.id)
	if err != nil {
		return primitive.NilObjectID, ErrMalformedCategoryRef
	}
	return oid, nil
}

// categoryRefObject is the object form. Any one of id, _id or value may carry the id.
type categoryRefObject struct {
	ID    json.RawMessage `json:"id"`
	OID   json.RawMessage `json:"_id"`
	Value json.RawMessage `json:"value"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
}

// UnmarshalJSON accepts "id", {"id": "..."}, {"_id": "..."}, {"value": "..."},
// {"_id": {"$oid": "..."}} and populated {"id", "name", "slug"} objects.
func (r *CategoryRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ErrMalformedCategoryRef
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ErrMalformedCategoryRef
		}
		*r = CategoryRefID(s)
		return nil
	}

	if b[0] != '{' {
		return ErrMalformedCategoryRef
	}

	var obj categoryRefObject
	if err := json.Unmarshal(b, &obj); err != nil {
		return ErrMalformedCategoryRef
	}

	var id string
	for _, raw := range []json.RawMessage{obj.ID, obj.OID, obj.Value} {
		if s := rawID(raw); s != "" {
			id = s
			break
		}
	}
	if id == "" {
		return ErrMalformedCategoryRef
	}

	*r = CategoryRef{
		id:        id,
		name:      obj.Name,
		slug:      obj.Slug,
		populated: obj.Name != "" || obj.Slug != "",
	}
	return nil
}

// rawID reads an id that is either a JSON string or an extended-JSON {"$oid": "..."}.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var ext struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &ext); err == nil {
		return strings.TrimSpace(ext.OID)
	}
	return ""
}

// MarshalJSON writes a bare id, or the populated object when name/slug are known.
func (r CategoryRef) MarshalJSON() ([]byte, error) {
	if !r.populated {
		return json.Marshal(r.id)
	}
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
		Slug string `json:"slug,omitempty"`
	}{r.id, r.name, r.slug})
}
