package binreader

import "testing"

func TestReadPrimitives(t *testing.T) {
	buf := []byte{
		0x01,                   // u8
		0xFF,                   // i8 == -1
		0x00, 0x02,             // u16 == 2
		0x00, 0x00, 0x00, 0x2A, // u32 == 42
	}
	r := New(buf)

	u8, err := r.ReadU8()
	if err != nil || u8 != 1 {
		t.Fatalf("ReadU8: got %v, %v", u8, err)
	}
	i8, err := r.ReadI8()
	if err != nil || i8 != -1 {
		t.Fatalf("ReadI8: got %v, %v", i8, err)
	}
	u16, err := r.ReadU16BE()
	if err != nil || u16 != 2 {
		t.Fatalf("ReadU16BE: got %v, %v", u16, err)
	}
	u32, err := r.ReadU32BE()
	if err != nil || u32 != 42 {
		t.Fatalf("ReadU32BE: got %v, %v", u32, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", r.Remaining())
	}
}

func TestReadPastEndFails(t *testing.T) {
	r := New([]byte{0x01})
	if _, err := r.ReadU32BE(); err != ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadCString(t *testing.T) {
	r := New([]byte("hello\x00world"))
	s, err := r.ReadCString()
	if err != nil || s != "hello" {
		t.Fatalf("ReadCString: got %q, %v", s, err)
	}
	rest, err := r.ReadString(5)
	if err != nil || rest != "world" {
		t.Fatalf("ReadString: got %q, %v", rest, err)
	}
}

func TestReadCStringNoTerminator(t *testing.T) {
	r := New([]byte("noterm"))
	if _, err := r.ReadCString(); err != ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadStringStripsTrailingNuls(t *testing.T) {
	r := New([]byte("abc\x00\x00"))
	s, err := r.ReadString(5)
	if err != nil || s != "abc" {
		t.Fatalf("ReadString: got %q, %v", s, err)
	}
}

func TestReaderAtIsIndependent(t *testing.T) {
	buf := []byte{0, 0, 0, 1, 0, 0, 0, 2}
	r := New(buf)
	r2 := r.ReaderAt(4)

	v1, _ := r.ReadU32BE()
	v2, _ := r2.ReadU32BE()
	if v1 != 1 || v2 != 2 {
		t.Fatalf("got v1=%d v2=%d", v1, v2)
	}
	if r.Tell() != 4 {
		t.Fatalf("original reader position should be unaffected, got %d", r.Tell())
	}
}

func TestReadU32ArrayUntilZero(t *testing.T) {
	buf := []byte{
		0, 0, 0, 10,
		0, 0, 0, 20,
		0, 0, 0, 0,
	}
	r := New(buf)
	arr, err := r.ReadU32ArrayUntil(func(v uint32) bool { return v == 0 })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []uint32{10, 20, 0}
	if len(arr) != len(want) {
		t.Fatalf("got %v, want %v", arr, want)
	}
	for i := range want {
		if arr[i] != want[i] {
			t.Fatalf("got %v, want %v", arr, want)
		}
	}
}

func TestPeekU32BEDoesNotAdvance(t *testing.T) {
	r := New([]byte{0, 0, 0, 7})
	v, err := r.PeekU32BE()
	if err != nil || v != 7 {
		t.Fatalf("PeekU32BE: got %v, %v", v, err)
	}
	if r.Tell() != 0 {
		t.Fatalf("peek should not advance cursor, got %d", r.Tell())
	}
}
