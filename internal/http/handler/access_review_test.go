package handler

import (
	"access-service/internal/audit"
	"access-service/internal/domain/assignment"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportReview_Disabled(t *testing.T) {
	h := NewAccessReviewHandler(&fakeAssignments{}, nil, &fakeEvents{}, &fakeAudit{}, 50)
	c, rec := newJSONContext(http.MethodPost, "/", "", uuid.New(), uuid.New())

	require.NoError(t, h.ExportReview(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExportReview(t *testing.T) {
	userID, orgID := uuid.New(), uuid.New()
	source := &fakeAssignments{assignments: []*assignment.RoleAssignment{
		{ID: uuid.New(), EntityKind: assignment.EntityKindUser, EntityID: uuid.New()},
		{ID: uuid.New(), EntityKind: assignment.EntityKindGroup, EntityID: uuid.New()},
	}}
	exporter := &fakeExporter{}
	auditLog := &fakeAudit{}
	h := NewAccessReviewHandler(source, exporter, &fakeEvents{}, auditLog, 50)

	c, rec := newJSONContext(http.MethodPost, "/", "", userID, orgID)
	require.NoError(t, h.ExportReview(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "reviews/key.json")
	assert.Equal(t, orgID, exporter.report.OrganizationID)
	assert.Equal(t, userID, exporter.report.GeneratedBy)
	assert.Len(t, exporter.report.Entries, 2)
	assert.Equal(t, auditRecord{audit.ResourceTypeAccessReview, audit.ActionExport, audit.StatusSuccess}, auditLog.last())
}

func TestExportReview_UploadFails(t *testing.T) {
	auditLog := &fakeAudit{}
	h := NewAccessReviewHandler(&fakeAssignments{}, &fakeExporter{err: errors.New("access denied")}, &fakeEvents{}, auditLog, 50)

	c, rec := newJSONContext(http.MethodPost, "/", "", uuid.New(), uuid.New())
	require.NoError(t, h.ExportReview(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "access denied")
	assert.Equal(t, audit.StatusFailure, auditLog.last().status)
}

func TestListAuditEvents_Pagination(t *testing.T) {
	orgID := uuid.New()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", http.StatusOK, 50, 0},
		{"explicit", "?limit=10&offset=20", http.StatusOK, 10, 20},
		{"limit too large", "?limit=501", http.StatusBadRequest, 0, 0},
		{"negative offset", "?offset=-1", http.StatusBadRequest, 0, 0},
		{"not a number", "?limit=ten", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &fakeEvents{}
			h := NewAccessReviewHandler(&fakeAssignments{}, nil, events, &fakeAudit{}, 50)
			c, rec := newJSONContext(http.MethodGet, "/"+tt.query, "", uuid.New(), orgID)

			require.NoError(t, h.ListAuditEvents(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, events.filter.OrganizationID)
				assert.Equal(t, orgID, *events.filter.OrganizationID)
				assert.Equal(t, tt.wantLimit, events.filter.Limit)
				assert.Equal(t, tt.wantOffset, events.filter.Offset)
			}
		})
	}
}
