package analyze

import "time"

// MarkDuplicates groups hashed reports by size and content and sets
// DuplicateOf on every member but the canonical one. It returns the number
// of reports marked.
//
// The canonical report of a group is the one with the earliest estimate.
// Reports without an estimate count as newest; ties go to the smallest path.
// Reports without a hash or with an error are ignored.
func MarkDuplicates(reports []Report) int {
	type key struct {
		size int64
		hash string
	}
	groups := make(map[key][]int)
	var order []key
	for i := range reports {
		r := &reports[i]
		if r.SHA256 == "" || r.Error != "" {
			continue
		}
		k := key{r.Size, r.SHA256}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	marked := 0
	for _, k := range order {
		members := groups[k]
		if len(members) < 2 {
			continue
		}

		canon := pickOldest(reports, members)
		for _, i := range members {
			if i == canon {
				continue
			}
			reports[i].DuplicateOf = reports[canon].Path
			marked++
		}
	}
	return marked
}

func pickOldest(reports []Report, members []int) int {
	best := -1
	var bestTime time.Time
	for _, i := range members {
		t := estimated(&reports[i])
		if t.IsZero() {
			continue
		}
		if best < 0 || t.Before(bestTime) || (t.Equal(bestTime) && reports[i].Path < reports[best].Path) {
			best, bestTime = i, t
		}
	}
	if best >= 0 {
		return best
	}

	best = members[0]
	for _, i := range members[1:] {
		if reports[i].Path < reports[best].Path {
			best = i
		}
	}
	return best
}

func estimated(r *Report) time.Time {
	if r.Estimate == nil || r.Estimate.Estimated == nil {
		return time.Time{}
	}
	return *r.Estimate.Estimated
}
