package corpus

import "testing"

func TestParseReference(t *testing.T) {
	tests := []struct {
		input   string
		want    Reference
		wantErr bool
	}{
		{input: "John", want: Reference{Book: "John"}},
		{input: "John 3", want: Reference{Book: "John", Chapter: 3}},
		{input: "John 3:16", want: Reference{Book: "John", Chapter: 3, Verse: 16}},
		{input: "John 3.16", want: Reference{Book: "John", Chapter: 3, Verse: 16}},
		{input: "1 John 5:7", want: Reference{Book: "1 John", Chapter: 5, Verse: 7}},
		{input: "1John 5", want: Reference{Book: "1 John", Chapter: 5}},
		{input: "Song of Solomon 2:1", want: Reference{Book: "Song of Solomon", Chapter: 2, Verse: 1}},
		{input: "  Jude  ", want: Reference{Book: "Jude"}},
		{input: "", wantErr: true},
		{input: "3:16", wantErr: true},
		{input: "John 3:", wantErr: true},
		{input: "John 3:16 extra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReference(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseReference(%q) = %+v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReference(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseReference(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestReferenceString(t *testing.T) {
	tests := []struct {
		ref  Reference
		want string
	}{
		{Reference{Book: "John"}, "John"},
		{Reference{Book: "John", Chapter: 3}, "John 3"},
		{Reference{Book: "John", Chapter: 3, Verse: 16}, "John 3:16"},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if got := (Reference{Book: "John", Chapter: 3, Verse: 16}).Ref(); got != (VerseRef{"John", 3, 16}) {
		t.Errorf("Ref() = %v", got)
	}
}
