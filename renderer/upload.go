package renderer

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Max time allowed for uploading a frame.
const uploadTimeout = 30 * time.Second

// Upload the frame as a PNG image to an S3 compatible object store.
func UploadFrame(api s3iface.S3API, bucket, key string) PostProcessStage {
	return func(ctx context.Context, frame *Frame) error {
		var buf bytes.Buffer
		if err := png.Encode(&buf, frame.ToImage()); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
		defer cancel()

		size := int64(buf.Len())
		_, err := api.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(buf.Bytes()),
			ContentLength: aws.Int64(size),
			ContentType:   aws.String("image/png"),
		})
		if err != nil {
			return fmt.Errorf("renderer: failed to upload %s: %w", key, err)
		}

		return nil
	}
}
