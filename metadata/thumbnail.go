package metadata

import (
	"bufio"
	"bytes"
	"context"
	"image/jpeg"
	"io"

	"github.com/marpio/photostat"
	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
)

// Thumbnail returns a small JPEG preview of the photo. The embedded EXIF
// thumbnail is used when present, sparing a full decode of the image.
func Thumbnail(ctx context.Context, rd photostat.StorageReadSeeker, path string) ([]byte, error) {
	f, err := rd.NewReadSeeker(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return extractThumb(f)
}

func extractThumb(r io.ReadSeeker) ([]byte, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return downscale(r)
	}
	thumbnail, err := x.JpegThumbnail()
	if err != nil {
		return downscale(r)
	}
	return thumbnail, nil
}

func downscale(r io.ReadSeeker) ([]byte, error) {
	if _, err := r.Seek(0, 0); err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, err
	}
	m := resize.Thumbnail(256, 256, img, resize.Lanczos3)
	var b bytes.Buffer
	writer := bufio.NewWriter(&b)
	if err := jpeg.Encode(writer, m, &jpeg.Options{Quality: 75}); err != nil {
		return nil, err
	}
	if err := writer.Flush(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
