package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fiabamia/fiaba/internal/api"
	"github.com/fiabamia/fiaba/internal/logging"
)

// BookService is the slice of the backend API the runner needs.
// *api.BooksAPI satisfies it.
type BookService interface {
	Get(ctx context.Context, bookID string) (*api.BookDraft, error)
	Generate(ctx context.Context, bookID string) error
}

// Update is one observation pushed to the consumer: the current status
// with its progress band, or a transient polling error.
type Update struct {
	Status   api.BookStatus
	Progress int
	Err      error
}

// Progress maps a status to its fixed progress band. Progress is a
// function of state, never of elapsed time.
func Progress(s api.BookStatus) int {
	switch s {
	case api.StatusDraft:
		return 5
	case api.StatusPending:
		return 15
	case api.StatusGenerating:
		return 45
	case api.StatusCoverPending:
		return 70
	case api.StatusUploading:
		return 90
	case api.StatusCompleted:
		return 100
	default:
		return 0
	}
}

// Runner tracks one book's generation to a terminal state. It fetches the
// status once, triggers generation when (and only when) the book is in
// DRAFT or FAILED, then polls until COMPLETED or FAILED.
type Runner struct {
	books    BookService
	bookID   string
	interval time.Duration
	onUpdate func(Update)
	log      *logging.Logger

	mu        sync.Mutex
	status    api.BookStatus
	triggered bool
	task      *Task
}

// NewRunner creates a runner for one book. onUpdate is invoked for every
// observation, including the initial fetch; it stops being invoked the
// moment Stop returns or a terminal state is observed.
func NewRunner(books BookService, bookID string, interval time.Duration, onUpdate func(Update)) *Runner {
	return &Runner{
		books:    books,
		bookID:   bookID,
		interval: interval,
		onUpdate: onUpdate,
		log:      logging.New("poller").WithBook(bookID),
	}
}

// Status returns the last observed status.
func (r *Runner) Status() api.BookStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Start fetches the current status, triggers generation when needed, and
// begins polling. Polling never starts before the trigger call resolves.
// Returns an error only when the initial fetch or the trigger fails in a
// way the consumer must act on.
func (r *Runner) Start(ctx context.Context) error {
	book, err := r.books.Get(ctx, r.bookID)
	if err != nil {
		return err
	}

	r.setStatus(book.Status)
	r.emit(Update{Status: book.Status, Progress: Progress(book.Status)})

	if book.Status.Terminal() {
		// COMPLETED needs nothing more. FAILED on entry is retried
		// through the same trigger path as a fresh DRAFT.
		if book.Status == api.StatusCompleted {
			return nil
		}
	}

	if book.Status == api.StatusDraft || book.Status == api.StatusFailed {
		if err := r.triggerOnce(ctx); err != nil {
			return err
		}
		r.setStatus(api.StatusPending)
		r.emit(Update{Status: api.StatusPending, Progress: Progress(api.StatusPending)})
	}

	r.startPolling(ctx)
	return nil
}

// triggerOnce issues the generation-start call at most once for this
// runner's lifetime, no matter how often the entry path re-runs. A
// backend "already generating" rejection counts as a successful trigger.
func (r *Runner) triggerOnce(ctx context.Context) error {
	r.mu.Lock()
	if r.triggered {
		r.mu.Unlock()
		return nil
	}
	r.triggered = true
	r.mu.Unlock()

	err := r.books.Generate(ctx, r.bookID)
	if err != nil {
		var already *api.AlreadyGeneratingError
		if errors.As(err, &already) {
			r.log.Info("generation_in_flight", nil)
			return nil
		}
		// A failed trigger may be retried explicitly.
		r.mu.Lock()
		r.triggered = false
		r.mu.Unlock()
		return err
	}

	r.log.Info("generation_started", nil)
	return nil
}

func (r *Runner) startPolling(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return
	}
	if r.task == nil {
		r.task = NewTask(r.interval, r.poll)
	}
	r.task.Start(ctx)
}

func (r *Runner) poll(ctx context.Context) {
	if r.Status().Terminal() {
		return
	}

	book, err := r.books.Get(ctx, r.bookID)
	if err != nil {
		// Transient: report and let the next tick retry.
		r.log.Warn("poll_error", nil, err)
		r.emit(Update{Status: r.Status(), Progress: Progress(r.Status()), Err: err})
		return
	}

	r.setStatus(book.Status)
	r.emit(Update{Status: book.Status, Progress: Progress(book.Status)})

	if book.Status.Terminal() {
		r.log.Info("terminal_status", map[string]interface{}{"status": string(book.Status)})
		// Stop from inside the tick would deadlock on the loop exit;
		// cancel asynchronously.
		go r.Stop()
	}
}

// Retry resets a FAILED book to DRAFT locally and re-triggers generation.
// A no-op in any other state.
func (r *Runner) Retry(ctx context.Context) error {
	r.mu.Lock()
	if r.status != api.StatusFailed {
		r.mu.Unlock()
		return nil
	}
	r.status = api.StatusDraft
	r.triggered = false
	r.mu.Unlock()

	r.emit(Update{Status: api.StatusDraft, Progress: Progress(api.StatusDraft)})

	if err := r.triggerOnce(ctx); err != nil {
		return err
	}
	r.setStatus(api.StatusPending)
	r.emit(Update{Status: api.StatusPending, Progress: Progress(api.StatusPending)})
	r.startPolling(ctx)
	return nil
}

// Stop tears down the poll loop. Idempotent; required on navigation away
// so no orphaned timer keeps mutating state.
func (r *Runner) Stop() {
	r.mu.Lock()
	task := r.task
	r.mu.Unlock()
	if task != nil {
		task.Stop()
	}
}

func (r *Runner) setStatus(s api.BookStatus) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

func (r *Runner) emit(u Update) {
	if r.onUpdate != nil {
		r.onUpdate(u)
	}
}
