package entity

import (
	"context"
	"fmt"

	"github.com/soratech/storefront/internal/backend"
)

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldNumber
	FieldDate
	FieldDateTime
	FieldFK
)

// Lookup describes where a foreign-key select loads its options from.
type Lookup struct {
	Entity   string
	ValueKey string
	LabelKey string
}

type FormField struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Lookup   *Lookup
}

type Column struct {
	Key   string
	Label string
	// Render overrides the default fmt.Sprint of the cell value.
	Render func(rec backend.Record) string
}

// API binds a descriptor to its backend resource. ListAll is only set for
// soft-delete entities and fetches the include-deleted view.
type API struct {
	List    func(ctx context.Context) ([]backend.Record, error)
	ListAll func(ctx context.Context) ([]backend.Record, error)
	Create  func(ctx context.Context, rec backend.Record) (backend.Record, error)
	Update  func(ctx context.Context, id int, rec backend.Record) error
	Delete  func(ctx context.Context, id int) error
}

// Descriptor is the full declarative CRUD configuration for one entity.
// The generic table and form engines consume nothing but this.
type Descriptor struct {
	Key          string
	Title        string
	API          API
	Columns      []Column
	SearchFields []string
	FormFields   []FormField
	GetItemName  func(rec backend.Record) string
	// BuildPayload maps the submitted form onto the transmit payload, filling
	// untouched fields from the original record. Rules are bespoke per entity.
	BuildPayload func(form, original backend.Record) backend.Record
	SoftDelete   bool
	// ReadOnly entities (orders) expose view plus status change only.
	ReadOnly bool
}

// Registry is the entity-key to descriptor map. Lookups go through Get so an
// unknown key is an error instead of a silent fallthrough.
type Registry map[string]Descriptor

func (r Registry) Get(key string) (Descriptor, error) {
	d, ok := r[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown entity %q", key)
	}
	return d, nil
}

func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	return keys
}
