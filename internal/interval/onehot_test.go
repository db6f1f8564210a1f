package interval

import "testing"

func TestOneHotRoundTrip(t *testing.T) {
	for d := -40; d <= 40; d++ {
		iv := FromSemitones(d)
		decoded, err := FromOneHot(iv.OneHot())
		if err != nil {
			t.Fatalf("distance %d: %v", d, err)
		}
		if decoded != iv {
			t.Fatalf("distance %d: decoded %+v, want %+v", d, decoded, iv)
		}
	}
}

func TestOneHotSilenceRoundTrip(t *testing.T) {
	decoded, err := FromOneHot(Silence().OneHot())
	if err != nil {
		t.Fatalf("decode silence: %v", err)
	}
	if !decoded.IsSilence() {
		t.Fatalf("decoded %+v, want silence", decoded)
	}
}

func TestOneHotLayout(t *testing.T) {
	iv, err := FromSpecs(Specs{3, 2, 1, 0})
	if err != nil {
		t.Fatalf("from specs: %v", err)
	}
	encoded := iv.OneHot()

	hot := 0
	for _, v := range encoded {
		hot += int(v)
	}
	if hot != 4 {
		t.Fatalf("expected exactly one hot bit per block, got %d total", hot)
	}
	if encoded[3] != 1 { // order 3
		t.Fatal("order block: class 3 not hot")
	}
	if encoded[8+4] != 1 { // quality +2 -> class 4
		t.Fatal("quality block: class 4 not hot")
	}
	if encoded[8+5+0] != 1 { // octave 0
		t.Fatal("octave block: class 0 not hot")
	}
	if encoded[8+5+10+1] != 1 { // descending
		t.Fatal("direction block: descending not hot")
	}
}

func TestFromOneHotValidation(t *testing.T) {
	var none [OneHotDimensions]int8
	if _, err := FromOneHot(none); err == nil {
		t.Fatal("expected error for empty order block")
	}

	double := Silence().OneHot()
	double[1] = 1 // second hot bit in the order block
	if _, err := FromOneHot(double); err == nil {
		t.Fatal("expected error for double-hot order block")
	}

	bad := Silence().OneHot()
	bad[0] = 2
	if _, err := FromOneHot(bad); err == nil {
		t.Fatal("expected error for non-binary value")
	}
}
