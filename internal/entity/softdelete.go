package entity

import (
	"context"
	"fmt"

	"github.com/soratech/storefront/internal/backend"
)

// SplitView is the merged soft-delete admin view: active rows from the plain
// list, deleted rows from the include-deleted fetch.
type SplitView struct {
	Active  []backend.Record `json:"active"`
	Deleted []backend.Record `json:"deleted"`
}

func LoadSplitView(ctx context.Context, d Descriptor) (*SplitView, error) {
	if !d.SoftDelete || d.API.ListAll == nil {
		return nil, fmt.Errorf("entity %q has no soft-delete view", d.Key)
	}

	all, err := d.API.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	view := &SplitView{Active: []backend.Record{}, Deleted: []backend.Record{}}
	for _, rec := range all {
		if deleted, _ := rec["deleted"].(bool); deleted {
			view.Deleted = append(view.Deleted, rec)
		} else {
			view.Active = append(view.Active, rec)
		}
	}
	return view, nil
}
