package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/glabrego/subtriage/internal/report"
	"github.com/glabrego/subtriage/internal/subscription"
	"github.com/glabrego/subtriage/internal/youtube"
)

type fakeClient struct {
	pages     map[string]youtube.Page
	listErr   error
	deleteErr error
	insertErr error
	insertID  string
	listed    []string
	deleted   []string
	inserted  []string
}

func (f *fakeClient) ListSubscriptions(_ context.Context, pageToken string) (youtube.Page, error) {
	f.listed = append(f.listed, pageToken)
	if f.listErr != nil {
		return youtube.Page{}, f.listErr
	}
	return f.pages[pageToken], nil
}

func (f *fakeClient) DeleteSubscription(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeClient) InsertSubscription(_ context.Context, channelID string) (string, error) {
	f.inserted = append(f.inserted, channelID)
	if f.insertErr != nil {
		return "", f.insertErr
	}
	return f.insertID, nil
}

type fakeRepo struct {
	saved   []subscription.Record
	stored  []subscription.Record
	saveErr error
	loadErr error
}

func (f *fakeRepo) SaveSnapshot(_ context.Context, records []subscription.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append([]subscription.Record(nil), records...)
	return nil
}

func (f *fakeRepo) LoadSnapshot(context.Context) ([]subscription.Record, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.stored, nil
}

func remoteRecord(id, subID string) subscription.Record {
	return subscription.Record{
		ID:             id,
		Name:           "Channel " + id,
		Handle:         "Channel " + id,
		SubscriptionID: subID,
		SubCount:       "Unknown",
		Status:         subscription.StatusPending,
		Tags:           []string{},
	}
}

func TestService_FetchRemote_ConcatenatesPagesInOrder(t *testing.T) {
	client := &fakeClient{pages: map[string]youtube.Page{
		"":   {Records: []subscription.Record{remoteRecord("UC1", "s1"), remoteRecord("UC2", "s2")}, NextPageToken: "p2"},
		"p2": {Records: []subscription.Record{remoteRecord("UC3", "s3")}},
	}}
	svc := NewService(client, nil)

	records, err := svc.FetchRemote(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"UC1", "UC2", "UC3"}, ids)
	assert.Equal(t, []string{"", "p2"}, client.listed)
}

func TestService_FetchRemote_StopsAtPageBudget(t *testing.T) {
	client := &fakeClient{pages: map[string]youtube.Page{
		"":   {Records: []subscription.Record{remoteRecord("UC1", "s1")}, NextPageToken: "p2"},
		"p2": {Records: []subscription.Record{remoteRecord("UC2", "s2")}, NextPageToken: "p3"},
		"p3": {Records: []subscription.Record{remoteRecord("UC3", "s3")}},
	}}
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(client, nil, WithMaxPages(2), WithLogger(zap.New(core)))

	records, err := svc.FetchRemote(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, logs.FilterMessage("subscription listing truncated").Len())
}

func TestService_FetchRemote_PropagatesListError(t *testing.T) {
	svc := NewService(&fakeClient{listErr: errors.New("quota")}, nil)

	_, err := svc.FetchRemote(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestService_FetchRemote_WithoutClient(t *testing.T) {
	svc := NewService(nil, nil)
	if svc.RemoteAvailable() {
		t.Fatal("expected remote to be unavailable")
	}
	if _, err := svc.FetchRemote(context.Background()); err == nil {
		t.Fatal("expected error without client")
	}
}

func TestService_Sync_TossDeletesSubscription(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, nil)

	res, err := svc.Sync(context.Background(), remoteRecord("UC1", "sub-1"), subscription.StatusToss)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, []string{"sub-1"}, client.deleted)
}

func TestService_Sync_ArchiveWithoutSubscriptionSkipsDelete(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, nil)

	res, err := svc.Sync(context.Background(), remoteRecord("UC1", ""), subscription.StatusArchive)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Empty(t, client.deleted)
}

func TestService_Sync_DeleteFailureIsReported(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	client := &fakeClient{deleteErr: errors.New("forbidden")}
	svc := NewService(client, nil, WithLogger(zap.New(core)))

	res, err := svc.Sync(context.Background(), remoteRecord("UC1", "sub-1"), subscription.StatusArchive)
	require.Error(t, err)
	assert.Equal(t, SyncResult{}, res)
	assert.Equal(t, 1, logs.FilterMessage("unsubscribe failed").Len())
}

func TestService_Sync_KeepSubscribesWhenMissing(t *testing.T) {
	client := &fakeClient{insertID: "new-sub"}
	svc := NewService(client, nil)

	res, err := svc.Sync(context.Background(), remoteRecord("UC9", ""), subscription.StatusKeep)
	require.NoError(t, err)
	assert.Equal(t, "new-sub", res.SubscriptionID)
	assert.False(t, res.Removed)
	assert.Equal(t, []string{"UC9"}, client.inserted)
}

func TestService_Sync_KeepAlreadySubscribedIsNoop(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, nil)

	res, err := svc.Sync(context.Background(), remoteRecord("UC9", "sub-9"), subscription.StatusKeep)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, res)
	assert.Empty(t, client.inserted)
}

func TestService_Sync_InsertFailure(t *testing.T) {
	svc := NewService(&fakeClient{insertErr: errors.New("quota")}, nil)

	if _, err := svc.Sync(context.Background(), remoteRecord("UC9", ""), subscription.StatusKeep); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_ImportText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.txt")
	text := "A-Z\nChannel One\n@handle1•130k subscribers\nA cool channel.\nChannel Two\n@handle2\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	records, err := NewService(nil, nil).ImportText(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "130k", records[0].SubCount)
	assert.Equal(t, "0", records[1].SubCount)
	assert.Equal(t, "1", records[1].ID)
}

func TestService_ExportThenImportJSON_Idempotent(t *testing.T) {
	dir := t.TempDir()
	imported := subscription.Extract("Channel One\n@handle1•130k subscribers\nA cool channel.\nChannel Two\n@handle2\n")
	repo := &fakeRepo{}
	svc := NewService(nil, repo)

	path, err := svc.WriteExport(context.Background(), dir, imported)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ExportFileName), path)

	reloaded, err := svc.ImportJSON(path)
	require.NoError(t, err)
	if diff := cmp.Diff(imported, reloaded); diff != "" {
		t.Fatalf("export round trip mismatch (-want +got):\n%s", diff)
	}
	for _, r := range reloaded {
		assert.Equal(t, subscription.StatusPending, r.Status)
	}
	assert.Len(t, repo.saved, 2)
}

func TestService_WriteExport_SnapshotFailure(t *testing.T) {
	svc := NewService(nil, &fakeRepo{saveErr: errors.New("disk full")})

	path, err := svc.WriteExport(context.Background(), t.TempDir(), subscription.Extract("A\n@a\n"))
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "json export should still be written")
}

func TestService_ImportSnapshot(t *testing.T) {
	repo := &fakeRepo{stored: []subscription.Record{remoteRecord("UC1", "s1")}}
	records, err := NewService(nil, repo).ImportSnapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = NewService(nil, nil).ImportSnapshot(context.Background())
	assert.Error(t, err)
}

func TestService_WriteArchivePDF_NothingArchived(t *testing.T) {
	dir := t.TempDir()
	_, err := NewService(nil, nil).WriteArchivePDF(dir, subscription.Extract("A\n@a\n"), time.Now())
	require.ErrorIs(t, err, report.ErrNothingArchived)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_WriteArchivePDF(t *testing.T) {
	dir := t.TempDir()
	records := subscription.Extract("A\n@a\nB\n@b\n")
	records[1].Status = subscription.StatusArchive

	path, err := NewService(nil, nil).WriteArchivePDF(dir, records, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, report.DefaultFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF")
}
