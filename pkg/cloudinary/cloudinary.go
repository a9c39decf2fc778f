// Package cloudinary wraps the object-storage service behind the two calls
// the rest of the app needs: upload a buffer into a folder, delete by public
// id. Callers enforce the image MIME type and size limit before reaching out.
package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MaxUploadBytes is the largest accepted image payload.
const MaxUploadBytes = 10 << 20 // 10MB

// Uploader is the narrow contract consumed by handlers. Satisfied by Client
// in production and by fakes in tests.
type Uploader interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
	Delete(ctx context.Context, publicID string) error
}

type Client struct {
	cld *cloudinary.Cloudinary
}

// New builds a client from a CLOUDINARY_URL style connection string.
func New(url string) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("cloudinary URL not provided")
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("error initializing cloudinary: %w", err)
	}
	return &Client{cld: cld}, nil
}

// Upload stores an image and returns its public URL. Images are bounded to
// 800x800 and converted to webp at auto quality on the way in.
func (c *Client) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:         folder,
		ResourceType:   "image",
		Transformation: "w_800,h_800,c_limit,q_auto:good,f_webp",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return resp.SecureURL, nil
}

// Delete removes an image by public id. Missing images are not an error.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary delete failed: %w", err)
	}
	return nil
}

// PublicIDFromURL derives the public id of a previously uploaded asset from
// its delivery URL so it can be deleted when replaced. Returns "" when the
// URL has no usable final path segment.
func PublicIDFromURL(rawURL, folder string) string {
	seg := rawURL[strings.LastIndex(rawURL, "/")+1:]
	if i := strings.LastIndex(seg, "."); i > 0 {
		seg = seg[:i]
	}
	if seg == "" {
		return ""
	}
	return folder + "/" + seg
}
