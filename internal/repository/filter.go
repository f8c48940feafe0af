package repository

import (
	"slices"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

func matchOrder(o entity.Order, f entity.OrderFilter) bool {
	switch {
	case f.Status != nil && o.Status != *f.Status:
		return false
	case f.FiscalStatus != nil && o.FiscalStatus != *f.FiscalStatus:
		return false
	case f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom):
		return false
	case f.CreatedTo != nil && !o.CreatedAt.Before(*f.CreatedTo):
		return false
	}

	return true
}

// pageOrders filters, sorts by creation time and cuts one page out of orders.
func pageOrders(orders []entity.Order, f entity.OrderFilter) ([]entity.Order, int) {
	matched := make([]entity.Order, 0, len(orders))

	for _, o := range orders {
		if matchOrder(o, f) {
			matched = append(matched, o)
		}
	}

	slices.SortFunc(matched, func(a, b entity.Order) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = compareIDs(a.ID, b.ID)
		}

		if f.OrderBy == entity.DESC {
			return -c
		}

		return c
	})

	total := len(matched)

	if f.Page == 0 {
		f.Page = 1
	}

	from := min(int((f.Page-1)*f.Limit), total)
	to := min(from+int(f.Limit), total)

	return matched[from:to], total
}

// compareIDs orders numeric ids of different length correctly.
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}

	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}
