package facet

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collators are not safe for concurrent use
var collatorPool = sync.Pool{
	New: func() any {
		return collate.New(language.Und, collate.Numeric)
	},
}

// NaturalCompare orders strings the way people read them: locale aware and
// with digit runs compared by value ("Series 2" < "Series 10"). Strings the
// collator considers equal fall back to byte order so sorting stays stable.
func NaturalCompare(a, b string) int {
	c := collatorPool.Get().(*collate.Collator)
	defer collatorPool.Put(c)
	if r := c.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}
