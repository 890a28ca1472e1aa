package recon

import "testing"

func TestExtractReference(t *testing.T) {
	re := refPattern("AI")

	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{
			name:   "reference embedded in memo",
			fields: []string{"CHUYEN TIEN AI7F3K9Q2M thang 3"},
			want:   "AI7F3K9Q2M",
		},
		{
			name:   "lowercase memo is normalized",
			fields: []string{"chuyen tien ai7f3k9q2m"},
			want:   "AI7F3K9Q2M",
		},
		{
			name:   "falls through to later fields",
			fields: []string{"thanh toan hoa don", "ma AIX9K2Q7PL"},
			want:   "AIX9K2Q7PL",
		},
		{
			name:   "no token anywhere",
			fields: []string{"thanh toan hoa don dien", "tien thue nha"},
			want:   "",
		},
		{
			name:   "prefix mid-word does not match",
			fields: []string{"THAI7F3K9Q2M"},
			want:   "",
		},
		{
			name:   "prefix alone is too short",
			fields: []string{"AI123"},
			want:   "",
		},
	}

	for _, tt := range tests {
		if got := extractReference(re, tt.fields...); got != tt.want {
			t.Fatalf("%s: extractReference(%v) = %q, want %q", tt.name, tt.fields, got, tt.want)
		}
	}
}
