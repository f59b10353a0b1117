package valuetype

import "testing"

func TestAddressParseAndEquality(t *testing.T) {
	a, err := ParseAddress("0x0000000000000000000000000000000000000001")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseAddress("0000000000000000000000000000000000000001")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("expected equal addresses regardless of 0x prefix")
	}
	if a.String() != "0x0000000000000000000000000000000000000001" {
		t.Fatalf("unexpected canonical form: %s", a.String())
	}
}

func TestAddressRejectsWrongLength(t *testing.T) {
	if _, err := ParseAddress("0x1234"); err == nil {
		t.Fatal("expected rejection of non-20-byte address")
	}
}

func TestHashRoundTrip(t *testing.T) {
	h, err := ParseHash("0x" + repeat("ab", 32))
	if err != nil {
		t.Fatal(err)
	}
	if h.String() != "0x"+repeat("ab", 32) {
		t.Fatalf("unexpected hash form %s", h.String())
	}
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestWeiFromEther(t *testing.T) {
	w, err := FromEther("1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Cmp(FromUint64(1_000_000_000_000_000_000)) != 0 {
		t.Fatalf("1 ether = %s, want 10^18", w.String())
	}
	if OneEther.Cmp(w) != 0 {
		t.Fatal("OneEther constant mismatch")
	}
}

func TestWeiFromEtherTooManyFracDigitsFails(t *testing.T) {
	if _, err := FromEther("1.0000000000000000001"); err == nil {
		t.Fatal("expected OutOfRange for 19 fractional digits")
	}
}

func TestWeiFromGwei(t *testing.T) {
	w, err := FromGwei("1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Cmp(FromUint64(1_000_000_000)) != 0 {
		t.Fatalf("1 gwei = %s, want 10^9", w.String())
	}
}

func TestWeiArithmetic(t *testing.T) {
	a := FromUint64(100)
	b := FromUint64(40)
	if a.Sub(b).Cmp(FromUint64(60)) != 0 {
		t.Fatal("subtraction wrong")
	}
	if b.Add(a).Cmp(FromUint64(140)) != 0 {
		t.Fatal("addition wrong")
	}
}

func TestBlockTagRoundTrip(t *testing.T) {
	if TagLatest.String() != "latest" {
		t.Fatalf("TagLatest = %s", TagLatest.String())
	}
	tag := TagNumber(255)
	if tag.String() != "0xff" {
		t.Fatalf("TagNumber(255) = %s, want 0xff", tag.String())
	}
	parsed, err := ParseBlockTag("0xff")
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.IsNumber() || parsed.Number() != 255 {
		t.Fatalf("parsed tag = %+v", parsed)
	}
}
