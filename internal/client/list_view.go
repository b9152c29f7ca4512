package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// StatusAll disables the status filter.
const StatusAll = "all"

var listStatuses = []string{StatusAll, "draft", "pending", "approved", "rejected", "expired"}

type PublicLister interface {
	ListPublicQuotations(ctx context.Context) ([]PublicQuotation, error)
}

type SensitiveFetcher interface {
	GetSensitiveQuotationData(ctx context.Context, id int64) (*SensitiveQuotation, error)
}

// ListView holds the state of the quotation list screen. Filtering happens
// locally over the last fetched public projections.
type ListView struct {
	lister  PublicLister
	fetcher SensitiveFetcher

	mu           sync.Mutex
	items        []PublicQuotation
	loading      bool
	err          error
	searchTerm   string
	statusFilter string
	detail       *DetailView
}

func NewListView(lister PublicLister, fetcher SensitiveFetcher) *ListView {
	return &ListView{lister: lister, fetcher: fetcher, statusFilter: StatusAll}
}

// Refresh refetches the list. On failure the list is emptied and the error
// is kept for display until the next successful refresh.
func (v *ListView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.err = nil
	v.mu.Unlock()

	items, err := v.lister.ListPublicQuotations(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.items = nil
		v.err = err
		return err
	}
	v.items = items
	return nil
}

func (v *ListView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *ListView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *ListView) SetSearchTerm(term string) {
	v.mu.Lock()
	v.searchTerm = term
	v.mu.Unlock()
}

// SetStatusFilter accepts a quotation status or StatusAll.
func (v *ListView) SetStatusFilter(status string) error {
	for _, s := range listStatuses {
		if s == status {
			v.mu.Lock()
			v.statusFilter = status
			v.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("unknown status filter %q", status)
}

// Visible returns the fetched items matching both filters, in fetch order.
func (v *ListView) Visible() []PublicQuotation {
	v.mu.Lock()
	defer v.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(v.searchTerm))
	out := make([]PublicQuotation, 0, len(v.items))
	for _, q := range v.items {
		if v.statusFilter != StatusAll && q.Status != v.statusFilter {
			continue
		}
		if term != "" && !matchesSearch(q, term) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func matchesSearch(q PublicQuotation, term string) bool {
	fields := []string{q.ClientName, q.Title, q.ReferenceNumber}
	if q.Description != nil {
		fields = append(fields, *q.Description)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Select opens the detail view for id, closing any detail already open.
func (v *ListView) Select(ctx context.Context, id int64) *DetailView {
	v.mu.Lock()
	prev := v.detail
	v.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	d := OpenDetail(ctx, v.fetcher, id, v.clearDetail)

	v.mu.Lock()
	v.detail = d
	v.mu.Unlock()
	return d
}

// SelectedID reports the id shown in the detail view, if one is open.
func (v *ListView) SelectedID() (int64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.detail == nil {
		return 0, false
	}
	return v.detail.ID(), true
}

func (v *ListView) Detail() *DetailView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.detail
}

func (v *ListView) CloseDetail() {
	v.mu.Lock()
	d := v.detail
	v.mu.Unlock()
	if d != nil {
		d.Close()
	}
}

func (v *ListView) clearDetail(d *DetailView) {
	v.mu.Lock()
	if v.detail == d {
		v.detail = nil
	}
	v.mu.Unlock()
}
