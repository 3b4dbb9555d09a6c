package handlers

import "testing"

func TestImageFilenameMatchesContentType(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", "complaint-42.jpg"},
		{"image/png", "complaint-42.png"},
		{"image/gif", "complaint-42.gif"},
		{"image/webp", "complaint-42.webp"},
		{"application/octet-stream", "complaint-42"},
		{"", "complaint-42"},
	}

	for _, tc := range cases {
		if got := imageFilename("42", tc.contentType); got != tc.want {
			t.Errorf("imageFilename(42, %q) = %q, want %q", tc.contentType, got, tc.want)
		}
	}
}
