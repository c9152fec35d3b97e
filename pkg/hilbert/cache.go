package hilbert

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// decompositionCacheCapacity matches the recommended ~500-entry bound for
// the process-wide range-decomposition cache.
const decompositionCacheCapacity = 500

var (
	decompositionCacheOnce sync.Once
	decompositionCache     *lru.Cache[string, RangeDecomposition]
)

func getDecompositionCache() *lru.Cache[string, RangeDecomposition] {
	decompositionCacheOnce.Do(func() {
		c, err := lru.New[string, RangeDecomposition](decompositionCacheCapacity)
		if err != nil {
			panic(err)
		}
		decompositionCache = c
	})
	return decompositionCache
}

// ResetDecompositionCache clears the process-wide decomposition cache.
// Exposed so tests can assert cache determinism without leaking state
// across test cases.
func ResetDecompositionCache() {
	getDecompositionCache().Purge()
}

func decompositionCacheKey(identity string, min, max []float64, overInclusiveOnEdge bool, maxRanges int) string {
	return fmt.Sprintf("%s|%v|%v|%t|%d", identity, min, max, overInclusiveOnEdge, maxRanges)
}
