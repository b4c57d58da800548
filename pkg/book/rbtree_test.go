package book

import (
	"math/rand"
	"sort"
	"testing"
)

func TestRBTreeOrderedIteration(t *testing.T) {
	tree := newRBTree()
	keys := []int64{50, 10, 90, 30, 70, 20, 40, 60, 80}
	for _, k := range keys {
		tree.Insert(k, &level{price: k})
	}

	var got []int64
	for rn := tree.Min(); rn != nil; rn = tree.Successor(rn) {
		got = append(got, rn.key)
	}

	want := append([]int64{}, keys...)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	if len(got) != len(want) {
		t.Fatalf("len(got)=%d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRBTreeSearchAndDelete(t *testing.T) {
	tree := newRBTree()
	nodes := make(map[int64]*rbNode)
	for _, k := range []int64{5, 1, 9, 3, 7} {
		nodes[k] = tree.Insert(k, &level{price: k})
	}

	if rn := tree.Search(7); rn == nil || rn.lvl.price != 7 {
		t.Fatalf("search(7) failed: %+v", rn)
	}
	if rn := tree.Search(42); rn != nil {
		t.Fatalf("search(42) found nonexistent key")
	}

	tree.Delete(nodes[1])
	if tree.Search(1) != nil {
		t.Fatal("deleted key still found")
	}
	if tree.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", tree.Len())
	}
}

func TestRBTreeRandomizedInsertDeleteStaysOrdered(t *testing.T) {
	tree := newRBTree()
	rng := rand.New(rand.NewSource(7))
	present := make(map[int64]*rbNode)

	for i := 0; i < 2000; i++ {
		key := int64(rng.Intn(500))
		if rn, ok := present[key]; ok {
			tree.Delete(rn)
			delete(present, key)
			continue
		}
		present[key] = tree.Insert(key, &level{price: key})
	}

	if tree.Len() != len(present) {
		t.Fatalf("Len() = %d, want %d", tree.Len(), len(present))
	}

	var got []int64
	for rn := tree.Min(); rn != nil; rn = tree.Successor(rn) {
		got = append(got, rn.key)
		if rn.color != red && rn.color != black {
			t.Fatal("corrupted color")
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("iteration not strictly ascending at %d: %v", i, got)
		}
	}
}
