package diag

import "testing"

type node struct {
	Ranging
}

func TestRanging_EmbeddingImplementsRanger(t *testing.T) {
	want := Ranging{3, 17}
	var r Ranger = node{want}
	if r.Range() != want {
		t.Errorf("Range() = %v, want %v", r.Range(), want)
	}
}

func TestPointRanging(t *testing.T) {
	want := Ranging{5, 5}
	if got := PointRanging(5); got != want {
		t.Errorf("PointRanging(5) = %v, want %v", got, want)
	}
}

func TestMixedRanging(t *testing.T) {
	want := Ranging{2, 11}
	if got := MixedRanging(node{Ranging{2, 6}}, node{Ranging{8, 11}}); got != want {
		t.Errorf("MixedRanging = %v, want %v", got, want)
	}
}
