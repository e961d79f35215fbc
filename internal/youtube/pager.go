package youtube

import "context"

// PageLister fetches one page of subscriptions.
type PageLister interface {
	ListSubscriptions(ctx context.Context, pageToken string) (Page, error)
}

// Pager walks subscription pages lazily, in order, up to a fixed page budget.
type Pager struct {
	lister    PageLister
	maxPages  int
	nextToken string
	fetched   int
	done      bool
	truncated bool
}

func NewPager(lister PageLister, maxPages int) *Pager {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Pager{lister: lister, maxPages: maxPages}
}

// Next returns the next page. ok is false once the listing is exhausted or the
// page budget is spent.
func (p *Pager) Next(ctx context.Context) (page Page, ok bool, err error) {
	if p.done {
		return Page{}, false, nil
	}
	if p.fetched >= p.maxPages {
		p.done = true
		p.truncated = true
		return Page{}, false, nil
	}

	page, err = p.lister.ListSubscriptions(ctx, p.nextToken)
	if err != nil {
		p.done = true
		return Page{}, false, err
	}
	p.fetched++
	if page.NextPageToken == "" || page.NextPageToken == p.nextToken {
		p.done = true
	}
	p.nextToken = page.NextPageToken
	return page, true, nil
}

func (p *Pager) Pages() int { return p.fetched }

// Truncated reports whether the walk stopped on the page budget with pages left.
func (p *Pager) Truncated() bool { return p.truncated }
