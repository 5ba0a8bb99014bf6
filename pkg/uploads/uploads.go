// Package uploads issues presigned S3 PUT URLs so avatar images go straight
// from the browser to object storage without passing through the service.
package uploads

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"studio-service/pkg/config"
)

const presignExpiry = 15 * time.Minute

// Signer presigns upload requests against a single bucket.
type Signer struct {
	svc    *s3.S3
	bucket string
	region string
}

func NewSigner(cfg config.AWSConfig) (*Signer, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	return &Signer{
		svc:    s3.New(sess),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// SignedUpload is what the client needs to perform the upload and reference
// the object afterwards.
type SignedUpload struct {
	SignedRequest string `json:"signed_request"`
	URL           string `json:"url"`
}

// SignUpload presigns a PUT for a new object under the given prefix. The key
// is random so uploads never collide.
func (s *Signer) SignUpload(prefix, fileName, contentType string) (*SignedUpload, error) {
	key := fmt.Sprintf("%s/%s-%s", prefix, uuid.New().String(), fileName)

	req, _ := s.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})

	signed, err := req.Presign(presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &SignedUpload{
		SignedRequest: signed,
		URL:           fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
	}, nil
}
