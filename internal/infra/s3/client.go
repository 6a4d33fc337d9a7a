// Package s3 stores access-review exports in S3 and hands out presigned
// download links for them.
package s3

import (
	"access-service/internal/config"
	"access-service/internal/domain/assignment"
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	emptyAWSSessionToken = ""
	contentTypeJSON      = "application/json"
	objectKeyTimeLayout  = "20060102T150405Z"

	errFailedCreateAWSSessionFmt    = "failed to create AWS session: %w"
	errFailedEncodeReportFmt        = "failed to encode access review: %w"
	errFailedUploadReportFmt        = "failed to upload access review: %w"
	errFailedGenerateDownloadURLFmt = "failed to generate presigned download URL: %w"
)

// Report is the document written for one access review.
type Report struct {
	OrganizationID uuid.UUID                `json:"organization_id"`
	GeneratedBy    uuid.UUID                `json:"generated_by"`
	GeneratedAt    time.Time                `json:"generated_at"`
	Entries        []assignment.ReviewEntry `json:"entries"`
}

// Export describes a stored report.
type Export struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Client struct {
	svc       *s3.S3
	bucket    string
	urlExpiry time.Duration
}

func NewClient(cfg *config.AWSConfig, review config.AccessReviewConfig) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return newClient(s3.New(sess), review), nil
}

func newClient(svc *s3.S3, review config.AccessReviewConfig) *Client {
	return &Client{
		svc:       svc,
		bucket:    review.Bucket,
		urlExpiry: review.URLExpiry,
	}
}

// ObjectKey is {org_id}/{UTC timestamp}.json.
func ObjectKey(orgID uuid.UUID, at time.Time) string {
	return orgID.String() + "/" + at.UTC().Format(objectKeyTimeLayout) + ".json"
}

// ExportReview uploads report and returns a presigned link to it.
func (c *Client) ExportReview(ctx context.Context, report Report) (*Export, error) {
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf(errFailedEncodeReportFmt, err)
	}

	key := ObjectKey(report.OrganizationID, report.GeneratedAt)

	_, err = c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentTypeJSON),
	})
	if err != nil {
		return nil, fmt.Errorf(errFailedUploadReportFmt, err)
	}

	url, err := c.presignDownload(ctx, key)
	if err != nil {
		return nil, err
	}

	return &Export{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(c.urlExpiry),
	}, nil
}

func (c *Client) presignDownload(ctx context.Context, key string) (string, error) {
	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(c.urlExpiry)
	if err != nil {
		return "", fmt.Errorf(errFailedGenerateDownloadURLFmt, err)
	}

	return url, nil
}
