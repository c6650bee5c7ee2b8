package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNoFileSelected(t *testing.T) {
	for _, name := range []string{"", "cat.jpg", "notes.txt"} {
		err := Validate(UploadRequest{TempPath: "", Name: name, Size: 10})
		require.Error(t, err)
		assert.Equal(t, KindNoFileSelected, KindOf(err), "name %q", name)
		assert.Equal(t, "No file selected!", err.Error())
	}
}

func TestValidateExtensions(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"cat.jpg", true},
		{"cat.JPG", true},
		{"cat.jpeg", true},
		{"cat.Png", true},
		{"cat.gif", true},
		{"cat.bmp", true},
		{"scan.TIFF", true},
		{"archive.tar.png", true},
		{"cat.tif", false},
		{"cat.webp", false},
		{"cat.svg", false},
		{"cat.jpg.exe", false},
		{"cat", false},
		{"cat.", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(UploadRequest{TempPath: "/tmp/x", Name: tt.name, Size: 2048})
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, KindInvalidFileType, KindOf(err))
			assert.Equal(t, "file type is invalid!", err.Error())
		})
	}
}

func TestValidateSizeBoundary(t *testing.T) {
	file := UploadRequest{TempPath: "/tmp/x", Name: "cat.png"}

	file.Size = MaxFileSizeBytes
	assert.NoError(t, Validate(file), "limit is inclusive")

	file.Size = MaxFileSizeBytes + 1
	err := Validate(file)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Contains(t, err.Error(), "100MB")

	file.Size = 0
	assert.NoError(t, Validate(file))
}

func TestValidateOrder(t *testing.T) {
	// Extension is checked before size.
	err := Validate(UploadRequest{TempPath: "/tmp/x", Name: "movie.mp4", Size: MaxFileSizeBytes * 2})
	assert.Equal(t, KindInvalidFileType, KindOf(err))

	// Presence is checked before everything else.
	err = Validate(UploadRequest{Name: "movie.mp4", Size: MaxFileSizeBytes * 2})
	assert.Equal(t, KindNoFileSelected, KindOf(err))
}

func TestMaxFileSize(t *testing.T) {
	assert.Equal(t, int64(104_857_600), MaxFileSizeBytes)
}
