// Package progress implements ProgressStream (spec.md §4.10): an
// append-only, replayable event log for one generation run. It follows the
// same append-only JSONL idea as the teacher's audit.LogOverride, but made
// durable and replayable via bbolt instead of a flat file, so a late
// subscriber can be served the full history by sequence number instead of
// only ever seeing events emitted after it attached.
package progress

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/genforge/genforge/internal/genmodel"
	bolt "go.etcd.io/bbolt"
)

// EventType enumerates the event kinds spec.md §4.10 names.
type EventType string

const (
	EventGenerationStarted        EventType = "generation_started"
	EventSlotStarted              EventType = "slot_started"
	EventSlotLLMAttemptStarted    EventType = "slot_llm_attempt_started"
	EventSlotContractValidated    EventType = "slot_contract_validated"
	EventSlotEvidence             EventType = "slot_evidence"
	EventSlotContractFailed       EventType = "slot_contract_failed"
	EventSlotDockerValidationRun  EventType = "slot_docker_validation_started"
	EventSlotDockerValidationFail EventType = "slot_docker_validation_failed"
	EventSlotCompleted            EventType = "slot_completed"
	EventSoftFallbackApplied      EventType = "generation_soft_fallback_applied"
	EventGenerationCompleted      EventType = "generation_completed"
	EventGenerationFailed         EventType = "generation_failed"
	EventHeartbeat                EventType = "heartbeat"
)

// Event is one entry in a run's ProgressStream.
type Event struct {
	Seq       int       `json:"seq"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	ActivityID string `json:"activity_id,omitempty"`
	SlotIndex  int    `json:"slot_index,omitempty"`
	Attempt    int    `json:"attempt,omitempty"`

	Message      string                      `json:"message,omitempty"`
	Obligations  []genmodel.ObligationResult `json:"obligations,omitempty"`
	Rewrites     []genmodel.RewriteRecord    `json:"rewrites,omitempty"`
	FailureKind  genmodel.FailureKind        `json:"failure_kind,omitempty"`
	ObligationID string                      `json:"obligation_id,omitempty"`
}

var eventsBucket = []byte("events")

// Stream is a single run's ProgressSink plus replay buffer. The bbolt
// bucket is the durable record; the in-memory ring is what live and
// late subscribers actually read from, bounded so a long run can't grow
// subscriber memory without limit — only heartbeat entries are evicted to
// make room, per spec.md §4.10.
type Stream struct {
	db    *bolt.DB
	runID string

	mu          sync.Mutex
	nextSeq     int
	buffer      []Event
	maxBuffered int
	subscribers map[int]chan Event
	nextSubID   int
}

// NewStream opens (creating if absent) the bbolt bucket for runID and
// returns a fresh Stream. maxBuffered <= 0 means unbounded.
func NewStream(db *bolt.DB, runID string, maxBuffered int) (*Stream, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runBucketName(runID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("progress: open stream bucket: %w", err)
	}
	return &Stream{
		db:          db,
		runID:       runID,
		maxBuffered: maxBuffered,
		subscribers: make(map[int]chan Event),
	}, nil
}

func runBucketName(runID string) []byte {
	return []byte("run:" + runID)
}

// Emit appends evt to the durable log, assigns it the next sequence number
// and timestamp if unset, fans it out to live subscribers, and retains it
// in the replay buffer.
func (s *Stream) Emit(evt Event) error {
	s.mu.Lock()
	evt.Seq = s.nextSeq
	s.nextSeq++
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	if err := s.persist(evt); err != nil {
		s.mu.Unlock()
		return err
	}

	s.appendToBuffer(evt)
	subs := make([]chan Event, 0, len(s.subscribers))
	for _, ch := range s.subscribers {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		ch <- evt
	}
	return nil
}

func (s *Stream) persist(evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("progress: marshal event: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(runBucketName(s.runID))
		return b.Put(seqKey(evt.Seq), payload)
	})
}

func seqKey(seq int) []byte {
	return []byte(fmt.Sprintf("%012d", seq))
}

// appendToBuffer must be called with s.mu held.
func (s *Stream) appendToBuffer(evt Event) {
	if s.maxBuffered <= 0 || len(s.buffer) < s.maxBuffered {
		s.buffer = append(s.buffer, evt)
		return
	}
	if idx := firstHeartbeatIndex(s.buffer); idx >= 0 {
		s.buffer = append(s.buffer[:idx], s.buffer[idx+1:]...)
		s.buffer = append(s.buffer, evt)
		return
	}
	// No heartbeat to evict: keep every substantive event, growing past
	// maxBuffered rather than losing one (spec.md §4.10: only heartbeats
	// are dropped).
	s.buffer = append(s.buffer, evt)
}

func firstHeartbeatIndex(buf []Event) int {
	for i, e := range buf {
		if e.Type == EventHeartbeat {
			return i
		}
	}
	return -1
}

// Subscribe returns a channel that first replays the buffered history (in
// sequence order) then streams live events, plus an unsubscribe func the
// caller must call when done.
func (s *Stream) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Event, len(s.buffer)+16)
	for _, evt := range s.buffer {
		ch <- evt
	}
	s.subscribers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subscribers[id]; ok {
			close(existing)
			delete(s.subscribers, id)
		}
	}
	return ch, cancel
}

// Replay reads every persisted event for this run directly from bbolt, in
// sequence order, bypassing the in-memory buffer entirely.
func (s *Stream) Replay() ([]Event, error) {
	var events []Event
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(runBucketName(s.runID))
		return b.ForEach(func(k, v []byte) error {
			var evt Event
			if err := json.Unmarshal(v, &evt); err != nil {
				return fmt.Errorf("progress: unmarshal event %s: %w", k, err)
			}
			events = append(events, evt)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("progress: replay: %w", err)
	}
	return events, nil
}

// Close unsubscribes every live subscriber without closing the underlying
// bbolt handle, which callers manage independently since it may be shared
// across runs.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
}
