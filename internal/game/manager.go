package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/auberginewly/feihualing/internal/config"
	"github.com/auberginewly/feihualing/internal/discord"
	"github.com/auberginewly/feihualing/internal/oracle"
	"github.com/auberginewly/feihualing/internal/poem"
	"github.com/auberginewly/feihualing/internal/store"
)

const (
	minDurationMinutes = 1
	maxDurationMinutes = 60
)

type roundStatus int

const (
	roundActive roundStatus = iota
	// roundEnded means the leaderboard is frozen and waiting for delivery
	// on the next inbound operation for the session.
	roundEnded
	roundClosed
)

type round struct {
	mu           sync.Mutex
	targetChar   string
	durationMin  int
	startedAt    time.Time
	endsAt       time.Time
	status       roundStatus
	usedPhrases  map[string]struct{}
	participants map[string]int
	displayNames map[string]string
	pendingEnd   string
	cancelTimer  context.CancelFunc
}

// Manager owns the per-session round registry and drives every game
// operation. The registry map is guarded by mu; all state of a single round
// lives under that round's own mutex so sessions never contend with each
// other.
type Manager struct {
	cfg        *config.Config
	store      store.Store
	classifier oracle.Classifier
	discord    discord.Client
	loc        *time.Location

	// now is swapped out in tests.
	now func() time.Time

	mu     sync.Mutex
	rounds map[string]*round
	// phraseHistory holds normalized phrases from earlier rounds per
	// session, populated only when cross-round dedup is enabled.
	phraseHistory map[string]map[string]struct{}
}

func NewManager(cfg *config.Config, st store.Store, classifier oracle.Classifier, dc discord.Client) *Manager {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Manager{
		cfg:           cfg,
		store:         st,
		classifier:    classifier,
		discord:       dc,
		loc:           loc,
		now:           time.Now,
		rounds:        make(map[string]*round),
		phraseHistory: make(map[string]map[string]struct{}),
	}
}

func (m *Manager) lookup(sessionID string) *round {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rounds[sessionID]
}

func (m *Manager) removeRound(sessionID string, r *round) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rounds[sessionID] == r {
		delete(m.rounds, sessionID)
	}
}

// deliverDue runs the lazy expiry transition and then takes any pending
// end message, closing the round. Every operation calls it first so the
// frozen leaderboard is delivered at most once, by whichever operation
// touches the session next.
func (m *Manager) deliverDue(sessionID string) (string, bool) {
	r := m.lookup(sessionID)
	if r == nil {
		return "", false
	}
	r.mu.Lock()
	if r.status == roundActive && !m.now().Before(r.endsAt) {
		m.finishLocked(sessionID, r, false)
	}
	if r.status != roundEnded {
		r.mu.Unlock()
		return "", false
	}
	msg := r.pendingEnd
	r.status = roundClosed
	r.mu.Unlock()
	m.removeRound(sessionID, r)
	return msg, true
}

// finishLocked performs the Active -> Ended transition. The caller holds
// r.mu; the status check makes concurrent triggers (timer, lazy path,
// force-stop) collapse to exactly one execution.
func (m *Manager) finishLocked(sessionID string, r *round, forced bool) {
	if r.status != roundActive {
		return
	}
	r.status = roundEnded
	r.cancelTimer()

	deltas := make(map[string]int, len(r.participants))
	for userID, score := range r.participants {
		deltas[userID] = score
	}
	rec := store.RoundRecord{
		TargetChar:      r.targetChar,
		DurationMinutes: r.durationMin,
		StartedAt:       r.startedAt,
		EndedAt:         r.endsAt,
		Participants:    deltas,
		PoemCount:       len(r.usedPhrases),
	}
	r.pendingEnd = buildEndMessage(forced, r.targetChar, r.durationMin, r.participants, r.displayNames, len(r.usedPhrases))

	if m.cfg.CrossRoundDedup {
		m.recordPhraseHistory(sessionID, r.usedPhrases)
	}

	// In-memory state stays authoritative when the save fails; the round
	// still ends and the leaderboard is still delivered.
	if err := m.store.RecordCompletedRound(context.Background(), sessionID, deltas, rec); err != nil {
		slog.Error("failed to persist completed round", "error", err, "session_id", sessionID)
	}
	slog.Info("round ended", "session_id", sessionID, "target_char", r.targetChar, "forced", forced, "participants", len(r.participants), "poems", len(r.usedPhrases))
}

func (m *Manager) recordPhraseHistory(sessionID string, phrases map[string]struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	history, ok := m.phraseHistory[sessionID]
	if !ok {
		history = make(map[string]struct{})
		m.phraseHistory[sessionID] = history
	}
	for phrase := range phrases {
		history[phrase] = struct{}{}
	}
}

func (m *Manager) phraseSeenInEarlierRound(sessionID, key string) bool {
	if !m.cfg.CrossRoundDedup {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, seen := m.phraseHistory[sessionID][key]
	return seen
}

// Start creates a new round for the session. The reply for a pending ended
// round takes precedence; otherwise validation failures map to the error
// taxonomy and an existing round rejects the start.
func (m *Manager) Start(sessionID string, durationMinutes int, targetChar string) (string, error) {
	if msg, ok := m.deliverDue(sessionID); ok {
		return msg, nil
	}
	if durationMinutes < minDurationMinutes || durationMinutes > maxDurationMinutes {
		return "", ErrInvalidDuration
	}
	runes := []rune(targetChar)
	if len(runes) != 1 || !poem.IsHanChar(runes[0]) {
		return "", ErrInvalidTargetChar
	}

	m.mu.Lock()
	if _, exists := m.rounds[sessionID]; exists {
		m.mu.Unlock()
		return "", ErrRoundActive
	}
	now := m.now()
	timerCtx, cancel := context.WithCancel(context.Background())
	r := &round{
		targetChar:   targetChar,
		durationMin:  durationMinutes,
		startedAt:    now,
		endsAt:       now.Add(time.Duration(durationMinutes) * time.Minute),
		status:       roundActive,
		usedPhrases:  make(map[string]struct{}),
		participants: make(map[string]int),
		displayNames: make(map[string]string),
		cancelTimer:  cancel,
	}
	m.rounds[sessionID] = r
	m.mu.Unlock()

	go m.runExpiryTimer(timerCtx, sessionID, r)
	slog.Info("round started", "session_id", sessionID, "target_char", targetChar, "duration_min", durationMinutes)
	return startMessage(targetChar, durationMinutes), nil
}

// runExpiryTimer polls for the deadline at a fixed interval instead of a
// precise alarm; the poll interval bounds end-of-round detection latency.
// Delivery of the frozen leaderboard still piggybacks on the next inbound
// operation.
func (m *Manager) runExpiryTimer(ctx context.Context, sessionID string, r *round) {
	ticker := time.NewTicker(m.cfg.ExpiryPollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.status != roundActive {
				r.mu.Unlock()
				return
			}
			if !m.now().Before(r.endsAt) {
				m.finishLocked(sessionID, r, false)
				r.mu.Unlock()
				return
			}
			r.mu.Unlock()
		}
	}
}

// Submit judges one chat message for the session. An empty reply means the
// message is silently ignored. The oracle call happens with no lock held;
// the round is re-checked afterwards since it may have expired mid-call.
func (m *Manager) Submit(ctx context.Context, sessionID, userID, displayName, text string, addressedToBot bool) string {
	if msg, ok := m.deliverDue(sessionID); ok {
		return msg
	}
	r := m.lookup(sessionID)
	if r == nil {
		return ""
	}
	r.mu.Lock()
	if r.status != roundActive {
		r.mu.Unlock()
		return ""
	}
	targetChar := r.targetChar
	r.mu.Unlock()

	if !poem.IsPlausible(text) {
		if shouldExplainRejection(text, addressedToBot) {
			return guidanceMessage(targetChar)
		}
		return ""
	}
	if !m.oracleAccepts(ctx, text) {
		if shouldExplainRejection(text, addressedToBot) {
			return guidanceMessage(targetChar)
		}
		return ""
	}
	// The sender showed clear intent by this point; target-char misses are
	// always explained.
	if !poem.ContainsTarget(text, targetChar) {
		return fmtMissingTarget(displayName, targetChar)
	}

	key := poem.Normalize(text)
	if m.phraseSeenInEarlierRound(sessionID, key) {
		return fmtDuplicate(displayName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != roundActive {
		return ""
	}
	if !m.now().Before(r.endsAt) {
		m.finishLocked(sessionID, r, false)
		msg := r.pendingEnd
		r.status = roundClosed
		m.removeRound(sessionID, r)
		return msg
	}
	if _, used := r.usedPhrases[key]; used {
		return fmtDuplicate(displayName)
	}
	r.usedPhrases[key] = struct{}{}
	r.participants[userID]++
	r.displayNames[userID] = displayName
	return submitSuccessMessage(displayName, r.participants[userID], r.endsAt.Sub(m.now()))
}

// oracleAccepts applies the fail-open policy: no oracle, an error, or an
// ambiguous answer never blocks gameplay.
func (m *Manager) oracleAccepts(ctx context.Context, text string) bool {
	if m.classifier == nil || !m.classifier.Enabled() {
		return true
	}
	ok, err := m.classifier.ClassifyClassicalPoem(ctx, text)
	if err != nil {
		slog.Warn("oracle classification failed; accepting", "error", err)
		return true
	}
	return ok
}

// ForceStop ends the active round immediately and returns the leaderboard.
func (m *Manager) ForceStop(sessionID string) (string, error) {
	if msg, ok := m.deliverDue(sessionID); ok {
		return msg, nil
	}
	r := m.lookup(sessionID)
	if r == nil {
		return "", ErrNoActiveRound
	}
	r.mu.Lock()
	if r.status != roundActive {
		r.mu.Unlock()
		return "", ErrNoActiveRound
	}
	m.finishLocked(sessionID, r, true)
	msg := r.pendingEnd
	r.status = roundClosed
	r.mu.Unlock()
	m.removeRound(sessionID, r)
	return msg, nil
}

// CumulativeScores renders the all-time leaderboard for the session.
func (m *Manager) CumulativeScores(ctx context.Context, sessionID string) string {
	if msg, ok := m.deliverDue(sessionID); ok {
		return msg
	}
	ledger, err := m.store.Ledger(ctx, sessionID)
	if err != nil {
		slog.Error("failed to load ledger", "error", err, "session_id", sessionID)
		return messageNoScores
	}
	if len(ledger) == 0 {
		return messageNoScores
	}
	return buildCumulativeScoreboard(sessionID, ledger)
}

// LastRoundSummary renders the most recently completed round.
func (m *Manager) LastRoundSummary(ctx context.Context, sessionID string) string {
	if msg, ok := m.deliverDue(sessionID); ok {
		return msg
	}
	rec, err := m.store.LastRound(ctx, sessionID)
	if err != nil {
		slog.Error("failed to load last round", "error", err, "session_id", sessionID)
		return messageNoLastRound
	}
	if rec == nil {
		return messageNoLastRound
	}
	return buildLastRoundSummary(sessionID, rec, m.loc)
}

// Help returns the static help text, after delivering any pending round
// result for the session.
func (m *Manager) Help(sessionID string) string {
	if msg, ok := m.deliverDue(sessionID); ok {
		return msg
	}
	return helpText
}

// Shutdown force-finishes every active round so final scores reach the
// store before the process exits. Pending leaderboards are dropped since
// there is no caller left to deliver them to.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make(map[string]*round, len(m.rounds))
	for sessionID, r := range m.rounds {
		sessions[sessionID] = r
	}
	m.rounds = make(map[string]*round)
	m.mu.Unlock()

	for sessionID, r := range sessions {
		r.mu.Lock()
		m.finishLocked(sessionID, r, true)
		r.status = roundClosed
		r.mu.Unlock()
	}
}
