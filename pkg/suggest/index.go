package suggest

import (
	"sort"

	"github.com/bastiangx/searchfield/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// prefixIndex maps folded titles (NFC, lowercased) to candidate positions so Inline passes
// only visit titles sharing the typed prefix. Lookups come back in candidate
// order, which keeps the output identical to a linear scan.
type prefixIndex struct {
	trie   *patricia.Trie
	empty  []int // untitled candidates, reachable only by the empty prefix
	size   int
	titles int
}

func newPrefixIndex(items []*Item) *prefixIndex {
	idx := &prefixIndex{
		trie: patricia.NewTrie(),
		size: len(items),
	}
	for i, item := range items {
		if item.Title == "" {
			idx.empty = append(idx.empty, i)
			continue
		}
		key := patricia.Prefix(string(utils.FoldNFC(item.Title)))
		if existing := idx.trie.Get(key); existing != nil {
			idx.trie.Set(key, append(existing.([]int), i))
			continue
		}
		idx.trie.Insert(key, []int{i})
		idx.titles++
	}
	log.Debugf("Indexed %d candidates under %d distinct titles", idx.size, idx.titles)
	return idx
}

// lookup returns the ascending positions of candidates whose folded title
// starts with prefix.
func (idx *prefixIndex) lookup(prefix []rune) []int {
	if len(prefix) == 0 {
		all := make([]int, idx.size)
		for i := range all {
			all[i] = i
		}
		return all
	}

	var hits []int
	err := idx.trie.VisitSubtree(patricia.Prefix(string(prefix)), func(_ patricia.Prefix, item patricia.Item) error {
		hits = append(hits, item.([]int)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting prefix index: %v", err)
		return nil
	}
	sort.Ints(hits)
	return hits
}
