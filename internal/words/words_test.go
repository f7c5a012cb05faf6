package words

import "testing"

func TestParseListFilters(t *testing.T) {
	raw := []byte(`["CRANE", " slate ", "mamma", "abc", "toolong", "crane", "ñoño"]`)
	l, err := parseList("en", 5, raw)
	if err != nil {
		t.Fatalf("parseList: %v", err)
	}
	if !l.Contains("crane") {
		t.Fatal("uppercase input should be normalized and kept")
	}
	if !l.Contains("slate") {
		t.Fatal("whitespace should be trimmed")
	}
	if l.Contains("mamma") {
		t.Fatal("words with too few distinct letters must be dropped")
	}
	if l.Contains("abc") || l.Contains("toolong") {
		t.Fatal("length mismatches must be dropped")
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 words after filtering, got %d", l.Len())
	}
}

func TestParseListRuneLength(t *testing.T) {
	// "señal" is five runes but six bytes; it must survive a length-5 filter.
	l, err := parseList("es", 5, []byte(`["señal"]`))
	if err != nil {
		t.Fatalf("parseList: %v", err)
	}
	if !l.Contains("señal") {
		t.Fatal("rune-length filtering broken for multibyte words")
	}
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	l, err := Load("en", 5)
	if err != nil {
		t.Fatalf("Load en/5: %v", err)
	}
	if l.Length() != 5 {
		t.Fatalf("expected length 5, got %d", l.Length())
	}
	if l.Len() == 0 {
		t.Fatal("embedded en/5 list is empty")
	}
	if !l.Contains("crane") || !l.Contains("speed") || !l.Contains("erase") {
		t.Fatal("expected embedded defaults to carry crane/speed/erase")
	}

	w := l.Random()
	if !l.Contains(w) {
		t.Fatalf("Random returned a word outside the list: %q", w)
	}
}

func TestLoadUnknownConfiguration(t *testing.T) {
	if _, err := Load("xx", 5); err == nil {
		t.Fatal("expected error for unknown language")
	}
	if _, err := Load("es", 8); err == nil {
		t.Fatal("expected error for missing length")
	}
}

func TestCatalogQueries(t *testing.T) {
	langs := Languages()
	if len(langs) < 2 {
		t.Fatalf("expected at least en and es, got %v", langs)
	}
	enLengths := Lengths("en")
	if len(enLengths) != 5 {
		t.Fatalf("expected en lengths 4..8, got %v", enLengths)
	}
	for i, n := range enLengths {
		if n != MinLength+i {
			t.Fatalf("unexpected en lengths: %v", enLengths)
		}
	}
}
