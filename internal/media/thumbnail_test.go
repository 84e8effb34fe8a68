package media

import "testing"

func TestThumbnailName(t *testing.T) {
	cases := map[string]string{
		"abc.mp4":              "abc-thumb.jpg",
		"abc.def.mp4":          "abc.def-thumb.jpg",
		"noextension":          "noextension-thumb.jpg",
		"dir/clip.mov":         "dir/clip-thumb.jpg",
		"":                     "",
		"already-thumb.jpg":    "already-thumb-thumb.jpg",
	}

	for input, want := range cases {
		if got := ThumbnailName(input); got != want {
			t.Errorf("ThumbnailName(%q) = %q, want %q", input, got, want)
		}
	}
}
