package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/erp/reconciler/internal/domain/shared"
)

// SyncPlan is the set of changes that brings an account's products in line
// with its platform feed.
type SyncPlan struct {
	Delete []int64
	Update []Product
	Create []Product
}

// IsEmpty reports whether the plan changes nothing
func (p SyncPlan) IsEmpty() bool {
	return len(p.Delete) == 0 && len(p.Update) == 0 && len(p.Create) == 0
}

// PlanSync compares the stored products of an account with a feed.
//
// Products whose barcode is absent from the feed are deleted unless they take
// part in a manual connection. Feed items update the lowest-id stored product
// with the same barcode; the rest become new products. A feed item that fails
// validation rejects the whole plan.
func PlanSync(account *Account, existing []Product, feed []FeedItem) (SyncPlan, error) {
	for i, item := range feed {
		if err := item.Validate(); err != nil {
			code := ErrInvalidProductName.Code
			var de *shared.DomainError
			if errors.As(err, &de) {
				code = de.Code
			}
			return SyncPlan{}, shared.NewDomainError(code, fmt.Sprintf("feed item %d: %s", i, err.Error()))
		}
	}

	inFeed := make(map[string]struct{}, len(feed))
	for _, item := range feed {
		inFeed[item.Barcode] = struct{}{}
	}

	stored := slices.Clone(existing)
	slices.SortFunc(stored, func(a, b Product) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	var plan SyncPlan
	kept := make(map[string]int, len(stored))
	for i, p := range stored {
		if _, ok := inFeed[p.Barcode]; !ok && !p.HasManualConnection {
			plan.Delete = append(plan.Delete, p.ID)
			continue
		}
		if _, ok := kept[p.Barcode]; !ok {
			kept[p.Barcode] = i
		}
	}

	updated := make(map[int]struct{})
	order := make([]int, 0)
	for _, item := range feed {
		if i, ok := kept[item.Barcode]; ok {
			// Validated above
			_ = stored[i].ApplyFeed(item)
			if _, seen := updated[i]; !seen {
				updated[i] = struct{}{}
				order = append(order, i)
			}
			continue
		}
		p, err := NewProduct(account.ID, account.PlatformType, item)
		if err != nil {
			return SyncPlan{}, err
		}
		plan.Create = append(plan.Create, *p)
	}
	for _, i := range order {
		plan.Update = append(plan.Update, stored[i])
	}
	return plan, nil
}
