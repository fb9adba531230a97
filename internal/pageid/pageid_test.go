package pageid

import (
	"errors"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "notion.so with workspace and slug",
			input:  "https://www.notion.so/myworkspace/My-Page-1234567890abcdef1234567890abcdef",
			want:   "12345678-90ab-cdef-1234-567890abcdef",
			wantOK: true,
		},
		{
			name:   "notion.so bare id",
			input:  "https://www.notion.so/1234567890abcdef1234567890abcdef",
			want:   "12345678-90ab-cdef-1234-567890abcdef",
			wantOK: true,
		},
		{
			name:   "notion.so with query string",
			input:  "https://notion.so/ws/Reading-List-abcdefabcdefabcdefabcdefabcdefab?pvs=4",
			want:   "abcdefab-cdef-abcd-efab-cdefabcdefab",
			wantOK: true,
		},
		{
			name:   "notion.site with slug",
			input:  "https://team.notion.site/Weekly-Notes-0123456789abcdef0123456789abcdef",
			want:   "01234567-89ab-cdef-0123-456789abcdef",
			wantOK: true,
		},
		{
			name:   "uppercase hex keeps case",
			input:  "https://www.notion.so/ABCDEF0123456789ABCDEF0123456789",
			want:   "ABCDEF01-2345-6789-ABCD-EF0123456789",
			wantOK: true,
		},
		{
			name:   "dashed uuid returned verbatim",
			input:  "https://example.com/p/12345678-90AB-cdef-1234-567890abcdef/edit",
			want:   "12345678-90AB-cdef-1234-567890abcdef",
			wantOK: true,
		},
		{
			name:   "bare hex anywhere",
			input:  "page=1234567890abcdef1234567890abcdef",
			want:   "12345678-90ab-cdef-1234-567890abcdef",
			wantOK: true,
		},
		{
			name:   "no identifier",
			input:  "https://example.com/articles/how-to-read",
			wantOK: false,
		},
		{
			name:   "too short hex",
			input:  "https://www.notion.so/abc123def456",
			wantOK: false,
		},
		{
			name:   "empty string",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtract_DashPositions(t *testing.T) {
	inputs := []string{
		"https://www.notion.so/ffffffffffffffffffffffffffffffff",
		"https://x.notion.site/Title-00000000000000000000000000000000",
		"https://www.notion.so/w/a-b-c-0123456789abcdef0123456789abcdef",
	}
	for _, in := range inputs {
		got, ok := Extract(in)
		if !ok {
			t.Fatalf("Extract(%q) failed", in)
		}
		if len(got) != 36 {
			t.Fatalf("len(%q) = %d, want 36", got, len(got))
		}
		for _, pos := range []int{8, 13, 18, 23} {
			if got[pos] != '-' {
				t.Errorf("Extract(%q) = %q, expected dash at %d", in, got, pos)
			}
		}
	}
}

func TestExtract_FailureIsDeterministic(t *testing.T) {
	for range 3 {
		got, ok := Extract("https://example.com/nothing-here")
		if ok || got != "" {
			t.Fatalf("Extract() = (%q, %v), want empty failure", got, ok)
		}
	}
}

func TestMustExtract(t *testing.T) {
	if _, err := MustExtract("not a url"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("MustExtract() error = %v, want ErrInvalidURL", err)
	}
	id, err := MustExtract("https://www.notion.so/1234567890abcdef1234567890abcdef")
	if err != nil {
		t.Fatalf("MustExtract() error = %v", err)
	}
	if id != "12345678-90ab-cdef-1234-567890abcdef" {
		t.Errorf("MustExtract() = %q", id)
	}
}

func TestFormat(t *testing.T) {
	if got := Format("1234567890abcdef1234567890abcdef"); got != "12345678-90ab-cdef-1234-567890abcdef" {
		t.Errorf("Format() = %q", got)
	}
	if got := Format("short"); got != "short" {
		t.Errorf("Format(short) = %q, want unchanged", got)
	}
}
