package s3

import (
	"access-service/internal/config"
	"access-service/internal/domain/assignment"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPut struct {
	path        string
	contentType string
	body        []byte
}

func newTestClient(t *testing.T, status int) (*Client, *[]recordedPut) {
	t.Helper()

	var mu sync.Mutex
	puts := []recordedPut{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		puts = append(puts, recordedPut{path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: body})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("us-east-1"),
		Endpoint:         aws.String(srv.URL),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(true),
		MaxRetries:       aws.Int(0),
		Credentials:      credentials.NewStaticCredentials("AKIDTEST", "secret", ""),
	})
	require.NoError(t, err)

	return newClient(s3.New(sess), config.AccessReviewConfig{Bucket: "reviews", URLExpiry: 5 * time.Minute}), &puts
}

func TestObjectKey(t *testing.T) {
	orgID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 3600))

	assert.Equal(t, "11111111-2222-3333-4444-555555555555/20260304T040607Z.json", ObjectKey(orgID, at))
}

func TestExportReview(t *testing.T) {
	client, puts := newTestClient(t, http.StatusOK)

	orgID := uuid.New()
	report := Report{
		OrganizationID: orgID,
		GeneratedBy:    uuid.New(),
		GeneratedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Entries: []assignment.ReviewEntry{
			{AssignmentID: uuid.New(), EntityKind: assignment.EntityKindUser, EntityName: "qa@example.com", RoleName: "QA Lead"},
		},
	}

	export, err := client.ExportReview(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, ObjectKey(orgID, report.GeneratedAt), export.Key)
	assert.Contains(t, export.URL, "/reviews/"+export.Key)
	assert.Contains(t, export.URL, "X-Amz-Signature=")
	assert.True(t, export.ExpiresAt.After(time.Now()))

	require.Len(t, *puts, 1)
	put := (*puts)[0]
	assert.Equal(t, "/reviews/"+export.Key, put.path)
	assert.Equal(t, contentTypeJSON, put.contentType)

	var stored Report
	require.NoError(t, json.Unmarshal(put.body, &stored))
	assert.Equal(t, orgID, stored.OrganizationID)
	require.Len(t, stored.Entries, 1)
	assert.Equal(t, "QA Lead", stored.Entries[0].RoleName)
}

func TestExportReview_UploadFailure(t *testing.T) {
	client, _ := newTestClient(t, http.StatusForbidden)

	_, err := client.ExportReview(context.Background(), Report{OrganizationID: uuid.New(), GeneratedAt: time.Now()})

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to upload access review"))
}
