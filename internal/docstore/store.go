// Package docstore owns the in-memory document collection and mirrors it to
// a durable snapshot slot after every mutation. The in-memory collection is
// the source of truth for all reads; persistence is write-behind and a failed
// write is logged, never propagated.
package docstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/logging"
	"github.com/signdesk/signdesk/internal/models"
)

type Store struct {
	mu   sync.RWMutex
	docs []models.Document

	snap Snapshotter
	log  logging.Logger

	// write-behind state, guarded by persistMu
	persistMu sync.Mutex
	persistWd *sync.Cond
	pending   []byte
	writing   bool

	now func() time.Time
}

func NewStore(snap Snapshotter, log logging.Logger) *Store {
	s := &Store{
		snap: snap,
		log:  log.With("component", "docstore"),
		now:  time.Now,
	}
	s.persistWd = sync.NewCond(&s.persistMu)
	return s
}

// Load reads the snapshot slot and replaces the in-memory collection.
// A missing slot yields an empty collection; a corrupt snapshot (including a
// corrupt attachment payload) is logged and likewise degrades to an empty
// collection so a bad write can never take the service down.
func (s *Store) Load(ctx context.Context) {
	data, err := s.snap.Load(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "snapshot load failed, starting empty", "error", err)
		}
		return
	}

	docs, err := unmarshalSnapshot(data)
	if err != nil {
		s.log.Error(ctx, "snapshot is corrupt, starting empty", "error", err)
		return
	}

	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
}

// Create assigns a fresh id, stamps the owner from the calling principal and
// schedules a snapshot write before returning.
func (s *Store) Create(ctx context.Context, principal models.Principal, doc models.Document) models.Document {
	doc.ID = uuid.NewString()
	doc.OwnerEmail = principal.Email
	doc.SharedWith = []string{}
	if doc.Status == "" {
		doc.Status = models.StatusPending
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = s.now()
	}

	s.mu.Lock()
	s.docs = append(s.docs, doc)
	s.persistLocked(ctx)
	s.mu.Unlock()

	return doc
}

// Get returns the document with the given id, if present.
func (s *Store) Get(id string) (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.docs {
		if d.ID == id {
			return d, true
		}
	}
	return models.Document{}, false
}

// All returns a copy of the full collection (administrative listing).
func (s *Store) All() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// UpdateStatus sets the document status. On the transition to signed it
// stamps SignedAt exactly once: re-signing an already-signed document leaves
// the original timestamp in place. The signature is recorded on the signer
// whose email matches the calling principal; if no such signer exists the
// status still changes and the signature part is a silent no-op.
func (s *Store) UpdateStatus(ctx context.Context, principal models.Principal, id string, status models.DocumentStatus, sig *models.Signature) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].ID != id {
			continue
		}

		if status == models.StatusSigned && s.docs[i].Status != models.StatusSigned {
			t := s.now()
			s.docs[i].SignedAt = &t
		}
		s.docs[i].Status = status

		if sig != nil {
			for j := range s.docs[i].Signers {
				if s.docs[i].Signers[j].Email == principal.Email {
					s.docs[i].Signers[j].Signature = sig
					break
				}
			}
		}

		s.persistLocked(ctx)
		return s.docs[i], nil
	}

	return models.Document{}, common.ErrorNotFound
}

// Delete removes the document. Anyone other than the owner gets a silent
// no-op with a warn log; shared parties are not notified beyond that.
func (s *Store) Delete(ctx context.Context, principal models.Principal, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].ID != id {
			continue
		}

		if s.docs[i].OwnerEmail != principal.Email {
			s.log.Warn(ctx, "delete refused: caller is not the owner",
				"doc_id", id, "caller", principal.Email)
			return
		}

		title := s.docs[i].Title
		s.docs = append(s.docs[:i], s.docs[i+1:]...)
		s.persistLocked(ctx)
		s.log.Info(ctx, "document deleted, shared parties lose access", "doc_id", id, "title", title)
		return
	}
}

// Share grants visibility to targetEmail with set semantics. Missing
// documents are a no-op.
func (s *Store) Share(ctx context.Context, id, targetEmail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].ID != id {
			continue
		}
		if s.docs[i].SharedWithEmail(targetEmail) {
			return
		}
		s.docs[i].SharedWith = append(s.docs[i].SharedWith, targetEmail)
		s.persistLocked(ctx)
		return
	}
}

// ListOwned returns documents created by the principal.
func (s *Store) ListOwned(principal models.Principal) []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Document
	for _, d := range s.docs {
		if d.OwnerEmail == principal.Email {
			out = append(out, d)
		}
	}
	return out
}

// ListShared returns documents the principal does not own but can see,
// either via sharing or by being a designated signer.
func (s *Store) ListShared(principal models.Principal) []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Document
	for _, d := range s.docs {
		if d.OwnerEmail == principal.Email {
			continue
		}
		if d.SharedWithEmail(principal.Email) || d.HasSigner(principal.Email) {
			out = append(out, d)
		}
	}
	return out
}

// persistLocked serializes the whole collection (re-encoding every
// attachment) and hands it to the write-behind worker. Called with mu held.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := marshalSnapshot(s.docs)
	if err != nil {
		s.log.Error(ctx, "snapshot marshal failed, mutation not persisted", "error", err)
		return
	}

	s.persistMu.Lock()
	s.pending = data
	if !s.writing {
		s.writing = true
		go s.writeBehind()
	}
	s.persistMu.Unlock()
}

// writeBehind drains pending snapshots one at a time. A newer snapshot
// scheduled while a write is in flight supersedes any queued one; the slot
// always ends up holding the latest self-consistent image.
func (s *Store) writeBehind() {
	for {
		s.persistMu.Lock()
		data := s.pending
		s.pending = nil
		if data == nil {
			s.writing = false
			s.persistWd.Broadcast()
			s.persistMu.Unlock()
			return
		}
		s.persistMu.Unlock()

		if err := s.snap.Save(context.Background(), data); err != nil {
			// The mutation stays applied in memory; the durable copy is
			// stale until the next successful write.
			s.log.Error(context.Background(), "snapshot write failed", "error", err)
		}
	}
}

// Flush blocks until the write-behind queue is empty. Mutating calls never
// wait for durability; callers that need it (shutdown, navigation away)
// flush explicitly.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	var drained bool
	go func() {
		s.persistMu.Lock()
		for (s.writing || s.pending != nil) && ctx.Err() == nil {
			s.persistWd.Wait()
		}
		drained = !s.writing && s.pending == nil
		s.persistMu.Unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Wake the waiter so it observes the cancellation instead of
		// staying parked behind a stuck Snapshotter.
		s.persistMu.Lock()
		s.persistWd.Broadcast()
		s.persistMu.Unlock()
		<-done
	}

	if drained {
		return nil
	}
	return ctx.Err()
}
