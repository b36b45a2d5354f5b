package state

import (
	"reflect"
	"testing"
)

func TestSortPairsInt(t *testing.T) {
	pairs := []Pair[int, int]{
		{V1: 3, V2: 10},
		{V1: 1, V2: 20},
		{V1: 1, V2: 5},
		{V1: 2, V2: 15},
	}
	expected := []Pair[int, int]{
		{V1: 1, V2: 5},
		{V1: 1, V2: 20},
		{V1: 2, V2: 15},
		{V1: 3, V2: 10},
	}
	SortPairs(pairs)
	if !reflect.DeepEqual(pairs, expected) {
		t.Fatalf("expected %v, got %v", expected, pairs)
	}
}

func TestSortPairsNodeId(t *testing.T) {
	pairs := []Pair[NodeId, NodeId]{
		{V1: "bob", V2: "kat"},
		{V1: "ada", V2: "kat"},
		{V1: "ada", V2: "eve"},
		{V1: "eve", V2: "jeb"},
	}
	expected := []Pair[NodeId, NodeId]{
		{V1: "ada", V2: "eve"},
		{V1: "ada", V2: "kat"},
		{V1: "bob", V2: "kat"},
		{V1: "eve", V2: "jeb"},
	}
	SortPairs(pairs)
	if !reflect.DeepEqual(pairs, expected) {
		t.Fatalf("expected %v, got %v", expected, pairs)
	}
}

func TestMakeSortedPair(t *testing.T) {
	if MakeSortedPair("b", "a") != (Pair[string, string]{"a", "b"}) {
		t.Fatal("pair was not normalized")
	}
	if MakeSortedPair("a", "b") != (Pair[string, string]{"a", "b"}) {
		t.Fatal("sorted pair must be unchanged")
	}
	if MakeSortedPair("a", "a") != (Pair[string, string]{"a", "a"}) {
		t.Fatal("self pair must be preserved")
	}
}
