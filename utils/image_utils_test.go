package utils

import (
	"errors"
	"testing"
)

func TestExtractObjectPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://storage.googleapis.com/my-bucket/products/image.jpg", "products/image.jpg"},
		{"https://storage.googleapis.com/my-bucket/profile_pictures/1700000000_ab12cd34_ada.png", "profile_pictures/1700000000_ab12cd34_ada.png"},
		{"https://firebasestorage.googleapis.com/v0/b/my-bucket/o/products%2Fpizza.jpg?alt=media", "products/pizza.jpg"},
	}
	for _, tc := range tests {
		got, err := ExtractObjectPath(tc.url)
		if err != nil {
			t.Errorf("ExtractObjectPath(%q): %v", tc.url, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ExtractObjectPath(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestExtractObjectPathRejects(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/my-bucket/products/image.jpg",
		"http://storage.googleapis.com/my-bucket/products/image.jpg",
		"https://storage.googleapis.com/nobucket",
		"https://storage.googleapis.com/my-bucket/",
		"https://firebasestorage.googleapis.com/v0/b/my-bucket/products.jpg",
		"%zz",
	} {
		if _, err := ExtractObjectPath(raw); !errors.Is(err, ErrNotStorageURL) {
			t.Errorf("expected %q to be rejected, got %v", raw, err)
		}
	}
}
