package handler

import (
	"access-service/internal/audit"
	"access-service/internal/auth"
	"access-service/internal/infra/s3"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const maxAuditPageSize = 500

type AccessReviewHandler struct {
	source      ReviewSource
	exporter    ReviewExporter
	events      AuditReader
	auditLogger AuditLogger
	pageSize    int
}

// NewAccessReviewHandler accepts a nil exporter; exports then answer 503.
func NewAccessReviewHandler(source ReviewSource, exporter ReviewExporter, events AuditReader, auditLogger AuditLogger, pageSize int) *AccessReviewHandler {
	return &AccessReviewHandler{
		source:      source,
		exporter:    exporter,
		events:      events,
		auditLogger: auditLogger,
		pageSize:    pageSize,
	}
}

// ExportReview writes every assignment in the organization to object storage
// and returns a time-limited download link.
func (h *AccessReviewHandler) ExportReview(c echo.Context) error {
	if h.exporter == nil {
		return respondError(c, http.StatusServiceUnavailable, msgAccessReviewDisabled)
	}

	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	ctx := c.Request().Context()
	entries, err := h.source.ListForReview(ctx, orgID)
	if err != nil {
		return respondInternal(c, err, msgAccessReviewFail)
	}

	export, err := h.exporter.ExportReview(ctx, s3.Report{
		OrganizationID: orgID,
		GeneratedBy:    userID,
		GeneratedAt:    time.Now().UTC(),
		Entries:        entries,
	})
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeAccessReview, nil, audit.ActionExport, err)
		return respondInternal(c, err, msgAccessReviewFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeAccessReview, nil, audit.ActionExport, audit.StatusSuccess, map[string]any{
		"key":     export.Key,
		"entries": len(entries),
	})

	return c.JSON(http.StatusCreated, export)
}

// ListAuditEvents pages through the organization's audit trail, newest first.
func (h *AccessReviewHandler) ListAuditEvents(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	limit, offset, ok := h.pagination(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, msgInvalidPagination)
	}

	events, err := h.events.Query(c.Request().Context(), audit.QueryFilter{
		OrganizationID: &orgID,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return respondInternal(c, err, msgListAuditEventsFail)
	}

	return c.JSON(http.StatusOK, events)
}

func (h *AccessReviewHandler) pagination(c echo.Context) (int, int, bool) {
	limit, offset := h.pageSize, 0

	if raw := c.QueryParam(queryLimit); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > maxAuditPageSize {
			return 0, 0, false
		}
		limit = v
	}
	if raw := c.QueryParam(queryOffset); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, false
		}
		offset = v
	}

	return limit, offset, true
}
