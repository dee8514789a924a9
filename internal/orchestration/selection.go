package orchestration

import (
	"sort"

	"github.com/agbru/rangesum/internal/reducer"
)

// Candidate is a summer selected for execution, with the short name it is
// registered under (used as the metrics label and in reports).
type Candidate struct {
	Key    string
	Summer reducer.Summer
}

// GetSummersToRun resolves the algorithm selection. "all" returns every
// registered summer in sorted key order; an unknown name returns nil.
func GetSummersToRun(algo string, factory *reducer.Factory) []Candidate {
	if algo == "all" {
		all := factory.GetAll()
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		candidates := make([]Candidate, 0, len(keys))
		for _, k := range keys {
			candidates = append(candidates, Candidate{Key: k, Summer: all[k]})
		}
		return candidates
	}
	if s, err := factory.Get(algo); err == nil {
		return []Candidate{{Key: algo, Summer: s}}
	}
	return nil
}
