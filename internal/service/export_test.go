package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportWithoutUploader(t *testing.T) {
	store := newMemStore()
	seedHistory(store, 3)
	svc := NewExportService(NewHistoryService(store, 7), nil)

	out, err := svc.DailyLogs(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.PDF, []byte("%PDF-")))
	assert.Empty(t, out.URL)
}

func TestExportUploads(t *testing.T) {
	store := newMemStore()
	seedHistory(store, 3)
	up := &memUploader{}
	svc := NewExportService(NewHistoryService(store, 7), up)
	svc.now = func() time.Time { return time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC) }

	out, err := svc.DailyLogs(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/daily-logs-20260510T093000Z.pdf"}, up.keys)
	assert.Equal(t, "https://reports.example/reports/daily-logs-20260510T093000Z.pdf", out.URL)
}

func TestExportErrors(t *testing.T) {
	store := newMemStore()
	up := &memUploader{err: errors.New("denied")}
	svc := NewExportService(NewHistoryService(store, 7), up)

	_, err := svc.DailyLogs(context.Background(), 7)
	assert.Error(t, err)

	store.err = errStore
	_, err = svc.DailyLogs(context.Background(), 7)
	assert.ErrorIs(t, err, errStore)
}
