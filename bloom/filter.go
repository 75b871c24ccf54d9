// Package bloom provides a probabilistic seen-URL check for the crawl
// frontier. A negative test proves a URL was never added, so the exact
// session sets only need to be consulted on positives.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a Bloom filter over URL strings.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter sizes a filter for the expected number of URLs at the given
// false positive rate. Capacities below 1 are clamped so a zero-budget
// session still gets a working filter.
func NewFilter(expected int, fpRate float64) *Filter {
	if expected < 1 {
		expected = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(uint(expected), fpRate),
	}
}

// Add records a URL.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// AddAll records every URL in urls.
func (f *Filter) AddAll(urls ...string) {
	for _, u := range urls {
		f.f.AddString(u)
	}
}

// Test reports whether the URL may have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}
