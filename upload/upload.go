// Package upload drives a single phraseup run: resolve the target project
// and locale, create one key per record, then attach each record's value
// as a translation.
//
// A run is strictly sequential. All keys are created before the first
// translation is sent, and the first failure stops the run. Keys created
// before a failure are left in place on the remote side; nothing is rolled
// back or retried.
package upload

import (
	"context"
	"fmt"

	"github.com/minios-linux/phraseup/keyfile"
	"github.com/minios-linux/phraseup/phrase"
)

// API is the subset of the Phrase API a run needs. *phrase.Client
// implements it.
type API interface {
	phrase.ProjectLister
	phrase.LocaleLister
	CreateKey(ctx context.Context, projectID, name string) (phrase.Key, error)
	CreateTranslation(ctx context.Context, projectID, localeID, keyID, content string) error
}

// Progress is advanced once per uploaded translation. A
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
	Finish() error
}

// Options configure a run.
type Options struct {
	ProjectName string
	LocaleName  string

	// DryRun stops after project and locale are resolved.
	DryRun bool

	// Log receives progress messages.
	Log func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.Log != nil {
		o.Log(format, args...)
	}
}

// CreatedKey pairs a created remote key with the content to attach to it.
type CreatedKey struct {
	Key   phrase.Key
	Value string
}

// ---------------------------------------------------------------------------
// States
// ---------------------------------------------------------------------------

// State is the position of a run. Runs only move forward; StateFailed is
// reachable from every state and final.
type State int

const (
	StateInit State = iota
	StateResolved
	StateKeysCreated
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateResolved:
		return "resolved"
	case StateKeysCreated:
		return "keys-created"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Stage names the step a run failed in.
type Stage string

const (
	StageResolve            Stage = "resolve"
	StageCreateKeys         Stage = "create-keys"
	StageUploadTranslations Stage = "upload-translations"
)

// StageError wraps the error that stopped a run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	switch e.Stage {
	case StageResolve:
		return fmt.Sprintf("resolving project and locale: %v", e.Err)
	case StageCreateKeys:
		return fmt.Sprintf("creating keys: %v", e.Err)
	case StageUploadTranslations:
		return fmt.Sprintf("uploading translations: %v", e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ---------------------------------------------------------------------------
// Uploader
// ---------------------------------------------------------------------------

// Uploader runs one upload. It is not safe for concurrent use and is meant
// to be run once.
type Uploader struct {
	api      API
	progress Progress
	opts     Options

	state    State
	project  phrase.Project
	locale   phrase.Locale
	created  []CreatedKey
	uploaded int
}

// New returns an Uploader in StateInit. A nil progress is replaced by a
// no-op.
func New(api API, progress Progress, opts Options) *Uploader {
	if progress == nil {
		progress = nopProgress{}
	}
	return &Uploader{api: api, progress: progress, opts: opts}
}

// State returns the current state of the run.
func (u *Uploader) State() State { return u.state }

// Project returns the resolved project (zero before StateResolved).
func (u *Uploader) Project() phrase.Project { return u.project }

// Locale returns the resolved locale (zero before StateResolved).
func (u *Uploader) Locale() phrase.Locale { return u.locale }

// Created returns the keys created so far, in record order.
func (u *Uploader) Created() []CreatedKey { return u.created }

// Uploaded returns how many translations were attached.
func (u *Uploader) Uploaded() int { return u.uploaded }

// Run uploads records in order. It returns a *StageError on failure.
func (u *Uploader) Run(ctx context.Context, records []keyfile.Record) error {
	if u.state != StateInit {
		return fmt.Errorf("upload already ran (state %s)", u.state)
	}

	if err := u.resolve(ctx); err != nil {
		return u.fail(StageResolve, err)
	}
	u.state = StateResolved

	if u.opts.DryRun {
		u.opts.log("Dry run: %d key(s) would be created in %s/%s", len(records), u.project.Name, u.locale.Name)
		return nil
	}

	if err := u.createKeys(ctx, records); err != nil {
		return u.fail(StageCreateKeys, err)
	}
	u.state = StateKeysCreated

	if err := u.uploadTranslations(ctx); err != nil {
		return u.fail(StageUploadTranslations, err)
	}

	if err := u.progress.Finish(); err != nil {
		u.opts.log("Progress: %v", err)
	}
	u.state = StateSucceeded
	return nil
}

func (u *Uploader) fail(stage Stage, err error) error {
	u.state = StateFailed
	return &StageError{Stage: stage, Err: err}
}

func (u *Uploader) resolve(ctx context.Context) error {
	project, err := phrase.FindProject(ctx, u.api, u.opts.ProjectName)
	if err != nil {
		return err
	}
	u.project = project
	u.opts.log("Project %q (%s)", project.Name, project.ID)

	locale, err := phrase.FindLocale(ctx, u.api, project, u.opts.LocaleName)
	if err != nil {
		return err
	}
	u.locale = locale
	u.opts.log("Locale %q (%s)", locale.Name, locale.ID)
	return nil
}

func (u *Uploader) createKeys(ctx context.Context, records []keyfile.Record) error {
	u.created = make([]CreatedKey, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		key, err := u.api.CreateKey(ctx, u.project.ID, rec.Key)
		if err != nil {
			return fmt.Errorf("key %d/%d %q: %w", i+1, len(records), rec.Key, err)
		}
		u.created = append(u.created, CreatedKey{Key: key, Value: rec.Value})
		u.opts.log("Created key %q (%s)", key.Name, key.ID)
	}
	return nil
}

func (u *Uploader) uploadTranslations(ctx context.Context) error {
	for i, ck := range u.created {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.api.CreateTranslation(ctx, u.project.ID, u.locale.ID, ck.Key.ID, ck.Value); err != nil {
			return fmt.Errorf("key %d/%d %q: %w", i+1, len(u.created), ck.Key.Name, err)
		}
		u.uploaded++
		if err := u.progress.Add(1); err != nil {
			u.opts.log("Progress: %v", err)
		}
	}
	return nil
}

type nopProgress struct{}

func (nopProgress) Add(int) error { return nil }
func (nopProgress) Finish() error { return nil }
