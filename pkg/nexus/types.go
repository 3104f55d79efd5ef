package nexus

import (
	"encoding/json"
)

// Well-known resource field names used by the catalog service.
const (
	FieldID          = "@id"
	FieldContext     = "@context"
	FieldLabel       = "_label"
	FieldRev         = "_rev"
	FieldDeprecated  = "_deprecated"
	FieldUUID        = "_uuid"
	FieldName        = "name"
	FieldDescription = "description"
)

// Resource is a versioned catalog resource. The service attaches fields beyond
// the well-known ones; Extra preserves them so a fetched resource can be
// submitted back without losing anything.
type Resource struct {
	ID          string `json:"-" yaml:"-"`
	Label       string `json:"-" yaml:"-"`
	Rev         int    `json:"-" yaml:"-"`
	Deprecated  bool   `json:"-" yaml:"-"`
	UUID        string `json:"-" yaml:"-"`
	Name        string `json:"-" yaml:"-"`
	Description string `json:"-" yaml:"-"`

	Extra map[string]interface{} `json:"-" yaml:"-"`
}

// ToMap flattens the resource into a single map, well-known fields included.
// Fields never observed on the wire are omitted rather than emitted as zero
// values, so a round trip does not invent keys the service never sent.
func (r *Resource) ToMap() map[string]interface{} {
	fields := make(map[string]interface{}, len(r.Extra)+7)
	for k, v := range r.Extra {
		fields[k] = v
	}

	if r.ID != "" {
		fields[FieldID] = r.ID
	}

	if r.Label != "" {
		fields[FieldLabel] = r.Label
	}

	if r.Rev != 0 {
		fields[FieldRev] = r.Rev
	}

	if r.UUID != "" {
		fields[FieldUUID] = r.UUID
	}

	if r.Name != "" {
		fields[FieldName] = r.Name
	}

	if r.Description != "" {
		fields[FieldDescription] = r.Description
	}

	if r.Deprecated || hasKey(r.Extra, FieldDeprecated) {
		fields[FieldDeprecated] = r.Deprecated
	}

	return fields
}

// MarshalJSON implements json.Marshaler. Map-based marshaling gives sorted
// keys, which keeps the serialized form deterministic.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Resource) UnmarshalJSON(data []byte) error {
	var fields map[string]interface{}

	err := json.Unmarshal(data, &fields)
	if err != nil {
		return err
	}

	*r = FromMap(fields)

	return nil
}

// FromMap builds a Resource from a decoded JSON object, lifting well-known
// fields out of the map and keeping the rest in Extra.
func FromMap(fields map[string]interface{}) Resource {
	res := Resource{Extra: make(map[string]interface{})}

	for key, value := range fields {
		switch key {
		case FieldID:
			res.ID, _ = value.(string)
		case FieldLabel:
			res.Label, _ = value.(string)
		case FieldRev:
			if f, ok := value.(float64); ok {
				res.Rev = int(f)
			}
		case FieldDeprecated:
			res.Deprecated, _ = value.(bool)
			// Remembered in Extra so ToMap re-emits false values the
			// service actually sent.
			res.Extra[FieldDeprecated] = res.Deprecated
		case FieldUUID:
			res.UUID, _ = value.(string)
		case FieldName:
			res.Name, _ = value.(string)
		case FieldDescription:
			res.Description, _ = value.(string)
		default:
			res.Extra[key] = value
		}
	}

	return res
}

func hasKey(m map[string]interface{}, key string) bool {
	_, ok := m[key]

	return ok
}

// Link represents a single hypermedia link.
type Link struct {
	Href string `json:"href" yaml:"href"`
}

// PageLinks carries the cursor links of a collection page. Next is the raw
// URL of the subsequent page; empty means the page is the last one.
type PageLinks struct {
	Next string `json:"next,omitempty" yaml:"next,omitempty"`
}

// ResultRef is a single entry of a collection page, minimally an identifying URL.
type ResultRef struct {
	ResultID string `json:"resultId" yaml:"resultId"`
}

// ResultPage is one page of a cursor-paginated collection response.
type ResultPage struct {
	Results []ResultRef `json:"results"         yaml:"results"`
	Links   PageLinks   `json:"links,omitempty" yaml:"links,omitempty"`
	Total   int         `json:"total,omitempty" yaml:"total,omitempty"`
}

// OrganizationList is the organizations collection response. Unlike the
// cursor-paginated endpoints it carries full resources inline.
type OrganizationList struct {
	Results []Resource `json:"_results" yaml:"_results"`
	Total   int        `json:"_total"   yaml:"_total"`
}
