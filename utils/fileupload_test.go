package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a mock multipart.FileHeader for testing
func createTestFileHeader(t *testing.T, filename string, size int64) *multipart.FileHeader {
	t.Helper()

	content := []byte("fake image content")
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.NotEmpty(t, form.File["file"])
	fileHeader := form.File["file"][0]
	// Override size for testing purposes
	fileHeader.Size = size
	return fileHeader
}

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		size         int64
		expectedCode string
	}{
		{
			name:     "valid png under size limit",
			filename: "product.png",
			size:     1024,
		},
		{
			name:     "uppercase extension is accepted",
			filename: "product.PNG",
			size:     1024,
		},
		{
			name:     "size exactly at the limit",
			filename: "product.png",
			size:     MaxFileSize,
		},
		{
			name:         "file too large",
			filename:     "product.png",
			size:         MaxFileSize + 1,
			expectedCode: "FILE_TOO_LARGE",
		},
		{
			name:         "jpg is rejected",
			filename:     "product.jpg",
			size:         1024,
			expectedCode: "INVALID_FILE_FORMAT",
		},
		{
			name:         "gif is rejected",
			filename:     "product.gif",
			size:         1024,
			expectedCode: "INVALID_FILE_FORMAT",
		},
		{
			name:         "no extension is rejected",
			filename:     "product",
			size:         1024,
			expectedCode: "INVALID_FILE_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileHeader := createTestFileHeader(t, tt.filename, tt.size)

			err := ValidateImageFile(fileHeader)

			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, tt.expectedCode, fileErr.Code)
			assert.Equal(t, fileErr.Message, err.Error())
		})
	}
}
