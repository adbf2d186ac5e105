package draft

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

// API is the slice of the server client the manager needs.
type API interface {
	InitDraft(ctx context.Context) (int, error)
	UpdateDraft(ctx context.Context, examID int, name string) error
	DeleteDraft(ctx context.Context, examID int) error
	CompleteDraft(ctx context.Context, examID int) (*model.CompleteResult, error)
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

// State is the lifecycle position of the current draft.
type State string

const (
	StateNone      State = "none"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateAbandoned State = "abandoned"
)

// Manager owns one temporary server-side exam per page session.
type Manager struct {
	api            API
	log            zerolog.Logger
	abandonTimeout time.Duration

	mu    sync.Mutex
	id    int
	state State

	// next holds a draft pre-initialized after a completion.
	next chan int
	wg   sync.WaitGroup
}

// NewManager creates a Manager. abandonTimeout bounds the detached cleanup
// and pre-init calls.
func NewManager(api API, log zerolog.Logger, abandonTimeout time.Duration) *Manager {
	if abandonTimeout <= 0 {
		abandonTimeout = 2 * time.Second
	}
	return &Manager{
		api:            api,
		log:            log.With().Str("component", "draft").Logger(),
		abandonTimeout: abandonTimeout,
		state:          StateNone,
		next:           make(chan int, 1),
	}
}

// ID returns the current draft id, or 0 when none is active.
func (m *Manager) ID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return 0
	}
	return m.id
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Init starts a draft for a freshly opened page. A draft pre-initialized by
// the previous completion is reused when available. A draft still active from
// an earlier page is abandoned first. Failure is blocking: the page cannot be
// used without an id.
func (m *Manager) Init(ctx context.Context) (int, error) {
	if prev := m.ID(); prev != 0 {
		m.log.Warn().Int("exam_id", prev).Msg("Replacing an active draft")
		m.Abandon()
	}

	var id int
	select {
	case id = <-m.next:
		m.log.Debug().Int("exam_id", id).Msg("Using pre-initialized draft")
	default:
		var err error
		id, err = m.api.InitDraft(ctx)
		if err != nil {
			m.log.Error().Err(err).Msg("Draft init failed")
			return 0, err
		}
	}

	if id <= 0 {
		return 0, response.Application("init draft", 0, response.ErrDraftMissing, "Server returned no exam id")
	}

	m.mu.Lock()
	m.id = id
	m.state = StateActive
	m.mu.Unlock()

	m.log.Info().Int("exam_id", id).Msg("Draft initialized")
	return id, nil
}

// Update renames the draft. Failures are logged and never block progress.
func (m *Manager) Update(ctx context.Context, name string) {
	id := m.ID()
	if id == 0 {
		m.log.Warn().Msg("Draft update skipped: no active draft")
		return
	}
	if err := m.api.UpdateDraft(ctx, id, name); err != nil {
		m.log.Warn().Err(err).Int("exam_id", id).Msg("Draft update failed")
		return
	}
	m.log.Debug().Int("exam_id", id).Str("name", name).Msg("Draft updated")
}

// Abandon deletes the draft on page exit without blocking the caller.
// Delivery is not confirmed. A completed draft is left alone.
func (m *Manager) Abandon() {
	m.mu.Lock()
	id := m.id
	active := m.state == StateActive
	if active {
		m.state = StateAbandoned
	}
	m.mu.Unlock()

	if active {
		m.deleteDetached(id, "Draft abandoned")
	}
}

// Close abandons the current draft, discards any pre-initialized spare and
// waits for the detached calls. Each call is bounded by the abandon timeout.
// Call it when the program exits.
func (m *Manager) Close() {
	m.Abandon()
	m.wg.Wait()
	select {
	case spare := <-m.next:
		m.deleteDetached(spare, "Spare draft discarded")
	default:
	}
	m.wg.Wait()
}

// Complete makes the draft permanent after the operator confirms. On success
// a fresh draft is pre-initialized in the background for the next session.
// On failure the draft stays active and nothing is retried.
func (m *Manager) Complete(ctx context.Context, confirm Confirmer, question string) (*model.CompleteResult, error) {
	const op = "complete draft"

	id := m.ID()
	if id == 0 {
		return nil, response.Precondition(op, response.ErrDraftMissing, "")
	}
	if confirm != nil && !confirm.Confirm(question) {
		return nil, response.Precondition(op, response.ErrNotConfirmed, "")
	}

	res, err := m.api.CompleteDraft(ctx, id)
	if err != nil {
		m.log.Error().Err(err).Int("exam_id", id).Msg("Draft completion failed")
		return nil, err
	}

	m.mu.Lock()
	m.state = StateCompleted
	m.mu.Unlock()
	m.log.Info().Int("exam_id", id).Msg("Draft completed")

	m.preInit()
	return res, nil
}

// Wait blocks until detached cleanup and pre-init calls have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) deleteDetached(id int, msg string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.abandonTimeout)
		defer cancel()
		if err := m.api.DeleteDraft(ctx, id); err != nil {
			m.log.Warn().Err(err).Int("exam_id", id).Msg("Draft cleanup not delivered")
			return
		}
		m.log.Info().Int("exam_id", id).Msg(msg)
	}()
}

func (m *Manager) preInit() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.abandonTimeout)
		defer cancel()

		id, err := m.api.InitDraft(ctx)
		if err != nil {
			m.log.Warn().Err(err).Msg("Pre-initializing next draft failed")
			return
		}
		select {
		case m.next <- id:
			m.log.Debug().Int("exam_id", id).Msg("Next draft pre-initialized")
		default:
			// A spare is already waiting; this one is surplus.
			_ = m.api.DeleteDraft(ctx, id)
		}
	}()
}
