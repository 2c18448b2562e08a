package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minios-linux/phraseup/keyfile"
	"github.com/minios-linux/phraseup/phrase"
)

// fakeAPI records calls in order and fails the n-th call of a kind when asked.
type fakeAPI struct {
	projects []phrase.Project
	locales  []phrase.Locale

	failKeyAt         int // 1-based; 0 = never
	failTranslationAt int

	calls        []string
	keys         int
	translations int
}

func (f *fakeAPI) ListProjects(ctx context.Context) ([]phrase.Project, error) {
	f.calls = append(f.calls, "GET projects")
	return f.projects, nil
}

func (f *fakeAPI) ListLocales(ctx context.Context, projectID string) ([]phrase.Locale, error) {
	f.calls = append(f.calls, "GET locales "+projectID)
	return f.locales, nil
}

func (f *fakeAPI) CreateKey(ctx context.Context, projectID, name string) (phrase.Key, error) {
	f.keys++
	f.calls = append(f.calls, fmt.Sprintf("POST keys %s name=%s", projectID, name))
	if f.keys == f.failKeyAt {
		return phrase.Key{}, &phrase.RequestFailedError{
			Method: http.MethodPost,
			Path:   "/api/v2/projects/" + projectID + "/keys",
			Status: http.StatusUnprocessableEntity,
		}
	}
	return phrase.Key{ID: fmt.Sprintf("k%d", f.keys), Name: name}, nil
}

func (f *fakeAPI) CreateTranslation(ctx context.Context, projectID, localeID, keyID, content string) error {
	f.translations++
	f.calls = append(f.calls, fmt.Sprintf("POST translations %s locale_id=%s key_id=%s content=%s", projectID, localeID, keyID, content))
	if f.translations == f.failTranslationAt {
		return &phrase.RequestFailedError{
			Method: http.MethodPost,
			Path:   "/api/v2/projects/" + projectID + "/translations",
			Status: http.StatusInternalServerError,
		}
	}
	return nil
}

type countingProgress struct {
	added    int
	finished int
}

func (p *countingProgress) Add(n int) error {
	p.added += n
	return nil
}

func (p *countingProgress) Finish() error {
	p.finished++
	return nil
}

func demoAPI() *fakeAPI {
	return &fakeAPI{
		projects: []phrase.Project{{ID: "p0", Name: "Other"}, {ID: "p1", Name: "Demo"}},
		locales:  []phrase.Locale{{ID: "de1", Name: "de"}, {ID: "en1", Name: "en"}},
	}
}

func demoOptions() Options {
	return Options{ProjectName: "Demo", LocaleName: "en"}
}

func TestRun_CreatesKeysThenTranslations(t *testing.T) {
	api := demoAPI()
	prog := &countingProgress{}
	records := []keyfile.Record{{Key: "greeting", Value: "Hello"}, {Key: "farewell", Value: "Goodbye"}}

	u := New(api, prog, demoOptions())
	require.NoError(t, u.Run(context.Background(), records))

	assert.Equal(t, []string{
		"GET projects",
		"GET locales p1",
		"POST keys p1 name=greeting",
		"POST keys p1 name=farewell",
		"POST translations p1 locale_id=en1 key_id=k1 content=Hello",
		"POST translations p1 locale_id=en1 key_id=k2 content=Goodbye",
	}, api.calls)
	assert.Equal(t, 2, prog.added)
	assert.Equal(t, 1, prog.finished)
	assert.Equal(t, StateSucceeded, u.State())
	assert.Equal(t, 2, u.Uploaded())
	assert.Equal(t, []CreatedKey{
		{Key: phrase.Key{ID: "k1", Name: "greeting"}, Value: "Hello"},
		{Key: phrase.Key{ID: "k2", Name: "farewell"}, Value: "Goodbye"},
	}, u.Created())
}

func TestRun_NoRecords(t *testing.T) {
	api := demoAPI()
	prog := &countingProgress{}

	u := New(api, prog, demoOptions())
	require.NoError(t, u.Run(context.Background(), nil))
	assert.Equal(t, []string{"GET projects", "GET locales p1"}, api.calls)
	assert.Equal(t, 0, prog.added)
	assert.Equal(t, StateSucceeded, u.State())
}

func TestRun_ProjectNotFound(t *testing.T) {
	api := demoAPI()
	opts := demoOptions()
	opts.ProjectName = "demo"

	u := New(api, nil, opts)
	err := u.Run(context.Background(), []keyfile.Record{{Key: "a", Value: "A"}})

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageResolve, se.Stage)
	var nf *phrase.ProjectNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "demo", nf.Name)
	assert.Equal(t, []string{"GET projects"}, api.calls)
	assert.Equal(t, StateFailed, u.State())
}

func TestRun_LocaleNotFound(t *testing.T) {
	api := demoAPI()
	opts := demoOptions()
	opts.LocaleName = "fr"

	u := New(api, nil, opts)
	err := u.Run(context.Background(), []keyfile.Record{{Key: "a", Value: "A"}})

	var nf *phrase.LocaleNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"GET projects", "GET locales p1"}, api.calls)
	assert.Equal(t, StateFailed, u.State())
}

func TestRun_KeyFailureStopsRun(t *testing.T) {
	api := demoAPI()
	api.failKeyAt = 2
	prog := &countingProgress{}
	records := []keyfile.Record{{Key: "a", Value: "A"}, {Key: "b", Value: "B"}, {Key: "c", Value: "C"}}

	u := New(api, prog, demoOptions())
	err := u.Run(context.Background(), records)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageCreateKeys, se.Stage)
	var rf *phrase.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "/api/v2/projects/p1/keys", rf.Path)
	assert.Equal(t, http.StatusUnprocessableEntity, rf.Status)

	assert.Equal(t, []string{
		"GET projects",
		"GET locales p1",
		"POST keys p1 name=a",
		"POST keys p1 name=b",
	}, api.calls)
	assert.Len(t, u.Created(), 1)
	assert.Equal(t, 0, api.translations)
	assert.Equal(t, 0, prog.added)
	assert.Equal(t, 0, prog.finished)
	assert.Equal(t, StateFailed, u.State())
}

func TestRun_TranslationFailureStopsRun(t *testing.T) {
	api := demoAPI()
	api.failTranslationAt = 2
	prog := &countingProgress{}
	records := []keyfile.Record{{Key: "a", Value: "A"}, {Key: "b", Value: "B"}, {Key: "c", Value: "C"}}

	u := New(api, prog, demoOptions())
	err := u.Run(context.Background(), records)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageUploadTranslations, se.Stage)
	assert.Equal(t, 3, api.keys, "all keys are created before translations")
	assert.Equal(t, 2, api.translations)
	assert.Equal(t, 1, prog.added)
	assert.Equal(t, 0, prog.finished)
	assert.Equal(t, 1, u.Uploaded())
	assert.Equal(t, StateFailed, u.State())
}

func TestRun_DryRunMakesNoWrites(t *testing.T) {
	api := demoAPI()
	opts := demoOptions()
	opts.DryRun = true
	var logged []string
	opts.Log = func(format string, args ...any) { logged = append(logged, fmt.Sprintf(format, args...)) }

	u := New(api, nil, opts)
	require.NoError(t, u.Run(context.Background(), []keyfile.Record{{Key: "a", Value: "A"}}))
	assert.Equal(t, []string{"GET projects", "GET locales p1"}, api.calls)
	assert.Equal(t, StateResolved, u.State())
	assert.Equal(t, "p1", u.Project().ID)
	assert.Equal(t, "en1", u.Locale().ID)
	assert.Contains(t, logged[len(logged)-1], "Dry run")
}

func TestRun_CanceledContext(t *testing.T) {
	api := demoAPI()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := New(api, nil, demoOptions())
	err := u.Run(ctx, []keyfile.Record{{Key: "a", Value: "A"}})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, api.keys)
}

func TestRun_OnlyOnce(t *testing.T) {
	u := New(demoAPI(), nil, demoOptions())
	require.NoError(t, u.Run(context.Background(), nil))
	assert.Error(t, u.Run(context.Background(), nil))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "init", StateInit.String())
	assert.Equal(t, "keys-created", StateKeysCreated.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "State(42)", State(42).String())
}
