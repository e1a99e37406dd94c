package boson

import "testing"

func TestOpString(t *testing.T) {
	cases := map[Op]string{Rising: "A+", Lowering: "A-", N: "N1", N2: "N2"}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Errorf("Op(%d).String() = %q, want %q", op, got, want)
		}
	}
}

func TestOpTranspose(t *testing.T) {
	if Rising.transpose() != Lowering {
		t.Error("Rising.transpose() != Lowering")
	}
	if Lowering.transpose() != Rising {
		t.Error("Lowering.transpose() != Rising")
	}
	if N.transpose() != N {
		t.Error("N.transpose() != N")
	}
	if N2.transpose() != N2 {
		t.Error("N2.transpose() != N2")
	}
}

func TestLayoutSizeAndDim(t *testing.T) {
	layout := Layout{2, 1, 3}
	if got, want := layout.TotalBits(), 6; got != want {
		t.Errorf("TotalBits() = %d, want %d", got, want)
	}
	if got, want := layout.Size(), 64; got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
	if got, want := layout.Dim(0), 4; got != want {
		t.Errorf("Dim(0) = %d, want %d", got, want)
	}
	if got, want := layout.Dim(2), 8; got != want {
		t.Errorf("Dim(2) = %d, want %d", got, want)
	}
}

func TestTermTranspose(t *testing.T) {
	term := NewTerm([]int{0, 2}, []Op{Rising, N})
	tr := term.transpose()
	want := []Op{Lowering, N}
	for i, op := range want {
		if tr.Ops[i] != op {
			t.Errorf("transpose().Ops[%d] = %v, want %v", i, tr.Ops[i], op)
		}
	}
	if tr.Positions[0] != term.Positions[0] || tr.Positions[1] != term.Positions[1] {
		t.Error("transpose() must not reorder positions")
	}
}

func TestTermValid(t *testing.T) {
	layout := Layout{1, 1, 1}
	cases := []struct {
		name string
		term Term
		want bool
	}{
		{"ok", NewTerm([]int{0, 2}, []Op{Rising, N}), true},
		{"too many positions", NewTerm([]int{0, 1, 2, 0, 1}, []Op{Rising, Rising, Rising, Rising, Rising}), false},
		{"duplicate position", NewTerm([]int{0, 0}, []Op{Rising, Lowering}), false},
		{"out of range", NewTerm([]int{3}, []Op{Rising}), false},
		{"mismatched lengths", Term{Positions: []int{0, 1}, Ops: []Op{Rising}}, false},
		{"empty", Term{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.term.valid(layout); got != c.want {
				t.Errorf("valid() = %v, want %v", got, c.want)
			}
		})
	}
}
