package signing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/logging"
	"github.com/signdesk/signdesk/internal/models"
)

type recordingCommitter struct {
	calls int
	doc   string
	sig   *models.Signature
	err   error
}

func (r *recordingCommitter) Commit(ctx context.Context, principal models.Principal, docID string, sig *models.Signature) error {
	if r.err != nil {
		return r.err
	}
	r.calls++
	r.doc = docID
	r.sig = sig
	return nil
}

func testLog() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestSession(c Committer) *Session {
	p := models.Principal{ID: "u1", Email: "a@x.com", Role: common.RoleUser}
	return NewSession("doc-1", p, c, testLog())
}

func TestSession_DrawCommit(t *testing.T) {
	rec := &recordingCommitter{}
	s := newTestSession(rec)
	ctx := context.Background()

	assert.Equal(t, StateMethodSelection, s.State())
	require.NoError(t, s.SelectMethod(MethodDraw))
	assert.Equal(t, StateCapturing, s.State())

	require.NoError(t, s.Draw("data:image/png;base64,AAAA"))
	require.NoError(t, s.Commit(ctx))

	assert.Equal(t, StateCommitted, s.State())
	assert.Equal(t, 1, rec.calls)
	require.NotNil(t, rec.sig)
	assert.Equal(t, models.SignatureDrawn, rec.sig.Kind)
	assert.NotEmpty(t, rec.sig.Image)
}

func TestSession_DrawCommit_EmptySurfaceRejected(t *testing.T) {
	rec := &recordingCommitter{}
	s := newTestSession(rec)

	require.NoError(t, s.SelectMethod(MethodDraw))
	err := s.Commit(context.Background())
	assert.True(t, errors.Is(err, common.ErrValidationFailed))
	assert.Zero(t, rec.calls, "no store call on local rejection")
	assert.Equal(t, StateCapturing, s.State())
}

func TestSession_TypeCommit(t *testing.T) {
	rec := &recordingCommitter{}
	s := newTestSession(rec)
	ctx := context.Background()

	require.NoError(t, s.SelectMethod(MethodType))
	require.NoError(t, s.Type("A", "style1"))
	require.NoError(t, s.Commit(ctx))

	require.NotNil(t, rec.sig)
	assert.Equal(t, models.SignatureTyped, rec.sig.Kind)
	assert.Equal(t, "A", rec.sig.Name)
	assert.Equal(t, "style1", rec.sig.Style)
	assert.Empty(t, rec.sig.Image)
}

func TestSession_TypeCommit_EmptyNameRejected(t *testing.T) {
	rec := &recordingCommitter{}
	s := newTestSession(rec)

	require.NoError(t, s.SelectMethod(MethodType))
	require.NoError(t, s.Type("", "style1"))

	err := s.Commit(context.Background())
	assert.True(t, errors.Is(err, common.ErrValidationFailed))
	assert.Zero(t, rec.calls)
}

func TestSession_AadhaarFlow(t *testing.T) {
	rec := &recordingCommitter{}
	s := newTestSession(rec)
	ctx := context.Background()

	require.NoError(t, s.SelectMethod(MethodAadhaar))

	// Identity methods cannot commit straight from Capturing.
	err := s.Commit(ctx)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	// Malformed number blocks the challenge request.
	require.NoError(t, s.EnterID("12345"))
	err = s.RequestChallenge(ctx)
	assert.True(t, errors.Is(err, common.ErrIdentityFormatInvalid))
	assert.Equal(t, StateCapturing, s.State())

	require.NoError(t, s.EnterID("123456789012"))
	require.NoError(t, s.RequestChallenge(ctx))
	assert.Equal(t, StateAwaitingChallenge, s.State())

	// Wrong code shape is rejected; any well-formed code passes (the value is
	// never verified in this simulated flow).
	err = s.SubmitChallenge(ctx, "12")
	assert.True(t, errors.Is(err, common.ErrValidationFailed))

	require.NoError(t, s.SubmitChallenge(ctx, "000000"))
	assert.Equal(t, StateCommitted, s.State())
	require.NotNil(t, rec.sig)
	assert.Equal(t, models.SignatureAadhaar, rec.sig.Kind)
}

func TestSession_DSCFlow(t *testing.T) {
	rec := &recordingCommitter{}
	s := newTestSession(rec)
	ctx := context.Background()

	require.NoError(t, s.SelectMethod(MethodDSC))
	require.NoError(t, s.EnterID("1234567890"))
	require.NoError(t, s.RequestChallenge(ctx))
	require.NoError(t, s.SubmitChallenge(ctx, "654321"))

	require.NotNil(t, rec.sig)
	assert.Equal(t, models.SignatureDSC, rec.sig.Kind)
}

func TestSession_CaptureRequiresMatchingMethod(t *testing.T) {
	rec := &recordingCommitter{}
	s := newTestSession(rec)

	// No method selected yet.
	err := s.Draw("data:image/png;base64,AAAA")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	err = s.Type("A", "style1")
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	// Draw is selected, so only Draw may capture.
	require.NoError(t, s.SelectMethod(MethodDraw))
	err = s.Type("A", "style1")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	require.NoError(t, s.Draw("data:image/png;base64,AAAA"))

	// After commit no capture call is accepted.
	require.NoError(t, s.Commit(context.Background()))
	err = s.Draw("data:image/png;base64,BBBB")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestSession_MethodChangeResetsCapture(t *testing.T) {
	rec := &recordingCommitter{}
	s := newTestSession(rec)

	require.NoError(t, s.SelectMethod(MethodDraw))
	require.NoError(t, s.Draw("data:image/png;base64,AAAA"))

	// Switching methods discards the drawn image.
	require.NoError(t, s.SelectMethod(MethodDraw))
	err := s.Commit(context.Background())
	assert.True(t, errors.Is(err, common.ErrValidationFailed))
}

func TestSession_CommittedIsTerminal(t *testing.T) {
	rec := &recordingCommitter{}
	s := newTestSession(rec)
	ctx := context.Background()

	require.NoError(t, s.SelectMethod(MethodType))
	require.NoError(t, s.Type("A", "style1"))
	require.NoError(t, s.Commit(ctx))

	assert.Error(t, s.SelectMethod(MethodDraw))
	assert.Error(t, s.Commit(ctx))
	assert.Equal(t, 1, rec.calls, "commit happens exactly once")
}

func TestSession_CommitFailureStaysUncommitted(t *testing.T) {
	rec := &recordingCommitter{err: errors.New("store down")}
	s := newTestSession(rec)
	ctx := context.Background()

	require.NoError(t, s.SelectMethod(MethodType))
	require.NoError(t, s.Type("A", "style1"))

	require.Error(t, s.Commit(ctx))
	assert.Equal(t, StateCapturing, s.State())
}

func TestManager_FreshSessionReplacesCommitted(t *testing.T) {
	m := NewManager(testLog())
	p := models.Principal{ID: "u1", Email: "a@x.com"}
	rec := &recordingCommitter{}

	first := m.Start("doc-1", p, rec)
	require.NoError(t, first.SelectMethod(MethodType))
	require.NoError(t, first.Type("A", "style1"))
	require.NoError(t, first.Commit(context.Background()))

	second := m.Start("doc-1", p, rec)
	assert.NotSame(t, first, second)
	assert.Equal(t, StateMethodSelection, second.State())

	got, ok := m.Get("doc-1", p)
	require.True(t, ok)
	assert.Same(t, second, got)

	m.Drop("doc-1", p)
	_, ok = m.Get("doc-1", p)
	assert.False(t, ok)
}
