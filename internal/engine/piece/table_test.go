package piece

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestNewEmpty(t *testing.T) {
	tbl := New(nil)
	if tbl.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tbl.Len())
	}
	if got := tbl.Bytes(); len(got) != 0 {
		t.Fatalf("Bytes() = %q, want empty", got)
	}
}

func TestNewFromData(t *testing.T) {
	tbl := New([]byte("hello"))
	if tbl.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", tbl.Len())
	}
	if got := string(tbl.Bytes()); got != "hello" {
		t.Fatalf("Bytes() = %q, want %q", got, "hello")
	}
}

func TestInsertAtBoundary(t *testing.T) {
	tbl := New([]byte("helloworld"))
	tbl.Insert(5, []byte(" "))
	if got := string(tbl.Bytes()); got != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestInsertInsideMiddleSplitsPiece(t *testing.T) {
	tbl := New([]byte("helloworld"))
	tbl.Insert(5, []byte(" brave new "))
	tbl.Insert(0, []byte(">"))
	if got, want := string(tbl.Bytes()), ">hello brave new world"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInsertAtEnd(t *testing.T) {
	tbl := New([]byte("abc"))
	tbl.Insert(3, []byte("def"))
	if got, want := string(tbl.Bytes()), "abcdef"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInsertIntoEmpty(t *testing.T) {
	tbl := New(nil)
	tbl.Insert(0, []byte("x"))
	if got, want := string(tbl.Bytes()), "x"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDeleteWhollyContainedPiece(t *testing.T) {
	tbl := New([]byte("abc"))
	tbl.Insert(3, []byte("def"))
	tbl.Delete(3, 3) // drop the whole "def" piece
	if got, want := string(tbl.Bytes()), "abc"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDeleteNarrowsBothEnds(t *testing.T) {
	tbl := New([]byte("hello world"))
	tbl.Delete(3, 5) // "lo wo" removed -> "helrld"
	if got, want := string(tbl.Bytes()), "helrld"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDeleteEntireDocument(t *testing.T) {
	tbl := New([]byte("abc"))
	tbl.Delete(0, 3)
	if tbl.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tbl.Len())
	}
}

func TestReadByteAndRange(t *testing.T) {
	tbl := New([]byte("abc"))
	tbl.Insert(3, []byte("def"))
	tbl.Insert(0, []byte("XY"))
	// document is "XYabcdef"
	if b := tbl.ReadByte(0); b != 'X' {
		t.Fatalf("ReadByte(0) = %q, want 'X'", b)
	}
	if got := string(tbl.ReadRange(2, 5)); got != "abc" {
		t.Fatalf("ReadRange(2,5) = %q, want %q", got, "abc")
	}
}

func TestInsertOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range insert")
		}
	}()
	tbl := New([]byte("abc"))
	tbl.Insert(10, []byte("x"))
}

func TestDeleteOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range delete")
		}
	}()
	tbl := New([]byte("abc"))
	tbl.Delete(2, 5)
}

// TestRoundTripAgainstFlatBuffer exercises P1: a random sequence of
// inserts and deletes applied to a Table must match the same sequence
// applied to a plain byte slice.
func TestRoundTripAgainstFlatBuffer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tbl := New(nil)
	var ref []byte

	for i := 0; i < 500; i++ {
		if len(ref) == 0 || rng.Intn(2) == 0 {
			pos := 0
			if len(ref) > 0 {
				pos = rng.Intn(len(ref) + 1)
			}
			n := rng.Intn(5) + 1
			data := make([]byte, n)
			for j := range data {
				data[j] = byte('a' + rng.Intn(26))
			}
			tbl.Insert(pos, data)
			ref = append(ref[:pos:pos], append(append([]byte{}, data...), ref[pos:]...)...)
		} else {
			pos := rng.Intn(len(ref))
			maxLen := len(ref) - pos
			n := rng.Intn(maxLen) + 1
			tbl.Delete(pos, n)
			ref = append(ref[:pos:pos], ref[pos+n:]...)
		}

		if !bytes.Equal(tbl.Bytes(), ref) {
			t.Fatalf("iteration %d: table diverged from reference\n got=%q\nwant=%q", i, tbl.Bytes(), ref)
		}
	}
}
