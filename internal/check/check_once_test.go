package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"jobalert/internal/domain"
	"jobalert/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	postings []domain.JobPosting
	err      error
}

func (f *fakeFetcher) Name() string { return "fake" }
func (f *fakeFetcher) Fetch(ctx context.Context) ([]domain.JobPosting, error) {
	return f.postings, f.err
}

type fakeNotifier struct {
	got [][]domain.JobPosting
	err error
}

func (n *fakeNotifier) Notify(ctx context.Context, fresh []domain.JobPosting) error {
	n.got = append(n.got, fresh)
	return n.err
}

func posting(id string) domain.JobPosting {
	return domain.JobPosting{ID: id, Title: "Engineer " + id, URL: "https://example.com/job/" + id}
}

func newDeps(t *testing.T, f *fakeFetcher, n *fakeNotifier) (Deps, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known_jobs.json")
	return Deps{
		Fetcher:       f,
		Notifier:      n,
		KnownJobsPath: path,
		Drop:          store.SentinelDrop([]string{"unknown_id"}),
	}, path
}

func TestCheckOnceFirstRunNotifiesAndSaves(t *testing.T) {
	fetcher := &fakeFetcher{postings: []domain.JobPosting{posting("A"), posting("B")}}
	notifier := &fakeNotifier{}
	deps, path := newDeps(t, fetcher, notifier)

	rep := CheckOnce(context.Background(), deps)

	assert.Equal(t, 2, rep.Found)
	assert.Equal(t, 2, rep.New)
	assert.True(t, rep.Notified)
	assert.True(t, rep.Saved)

	require.Len(t, notifier.got, 1)
	assert.Len(t, notifier.got[0], 2)

	saved := store.LoadKnownJobs(path, nil)
	assert.Equal(t, []string{"A", "B"}, saved.IDs())
}

func TestCheckOnceOnlyUnseenAreNotified(t *testing.T) {
	fetcher := &fakeFetcher{postings: []domain.JobPosting{posting("A"), posting("B")}}
	notifier := &fakeNotifier{}
	deps, path := newDeps(t, fetcher, notifier)

	seed := store.KnownJobs{"A": {}}
	require.NoError(t, seed.Save(path))

	rep := CheckOnce(context.Background(), deps)

	assert.Equal(t, 1, rep.New)
	require.Len(t, notifier.got, 1)
	require.Len(t, notifier.got[0], 1)
	assert.Equal(t, "B", notifier.got[0][0].ID)

	saved := store.LoadKnownJobs(path, nil)
	assert.Equal(t, []string{"A", "B"}, saved.IDs())
}

func TestCheckOnceEmptyFetchLeavesStateUntouched(t *testing.T) {
	fetcher := &fakeFetcher{}
	notifier := &fakeNotifier{}
	deps, path := newDeps(t, fetcher, notifier)

	rep := CheckOnce(context.Background(), deps)

	assert.Zero(t, rep.Found)
	assert.False(t, rep.Saved)
	assert.Empty(t, notifier.got)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no state file should be written")
}

func TestCheckOnceFetchErrorLeavesStateUntouched(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("network down")}
	notifier := &fakeNotifier{}
	deps, path := newDeps(t, fetcher, notifier)

	rep := CheckOnce(context.Background(), deps)

	assert.False(t, rep.Saved)
	assert.Empty(t, notifier.got)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCheckOnceNotifyFailureStillSaves(t *testing.T) {
	fetcher := &fakeFetcher{postings: []domain.JobPosting{posting("A")}}
	notifier := &fakeNotifier{err: errors.New("smtp auth failed")}
	deps, path := newDeps(t, fetcher, notifier)

	rep := CheckOnce(context.Background(), deps)

	assert.False(t, rep.Notified)
	assert.True(t, rep.Saved)

	saved := store.LoadKnownJobs(path, nil)
	assert.Equal(t, []string{"A"}, saved.IDs())
}

func TestCheckOnceNoNewPostingsSkipsNotifyButSaves(t *testing.T) {
	fetcher := &fakeFetcher{postings: []domain.JobPosting{posting("A")}}
	notifier := &fakeNotifier{}
	deps, path := newDeps(t, fetcher, notifier)

	seed := store.KnownJobs{"A": {}}
	require.NoError(t, seed.Save(path))

	rep := CheckOnce(context.Background(), deps)

	assert.Zero(t, rep.New)
	assert.Empty(t, notifier.got)
	assert.True(t, rep.Saved, "save happens every run so newly validated ids persist")
}

func TestCheckOnceIdlessPostingsNeverNotifiedOrPersisted(t *testing.T) {
	fetcher := &fakeFetcher{postings: []domain.JobPosting{
		posting("A"),
		{Title: "No ID Role", URL: "https://example.com/mystery"},
		{ID: "unknown_id", Title: "Sentinel Role"},
	}}
	notifier := &fakeNotifier{}
	deps, path := newDeps(t, fetcher, notifier)

	rep := CheckOnce(context.Background(), deps)

	assert.Equal(t, 1, rep.New)
	saved := store.LoadKnownJobs(path, nil)
	assert.Equal(t, []string{"A"}, saved.IDs())
}

func TestCheckOnceArchivesEveryPostingWithAnID(t *testing.T) {
	fetcher := &fakeFetcher{postings: []domain.JobPosting{
		posting("A"), posting("B"), {Title: "No ID Role"},
	}}
	notifier := &fakeNotifier{}
	deps, _ := newDeps(t, fetcher, notifier)

	db, err := store.Open(filepath.Join(t.TempDir(), "jobalert.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, store.Migrate(db.Pool))
	deps.Archive = db

	rep := CheckOnce(context.Background(), deps)
	assert.Equal(t, 2, rep.Archived)

	// second run archives nothing new
	rep = CheckOnce(context.Background(), deps)
	assert.Zero(t, rep.Archived)
}
