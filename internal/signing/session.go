// Package signing drives a single signer through method selection, capture,
// the simulated out-of-band challenge, and the commit that finalizes the
// document status.
package signing

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/logging"
	"github.com/signdesk/signdesk/internal/models"
)

// Method is the signature capture method picked by the user.
type Method string

const (
	MethodDraw    Method = "draw"
	MethodType    Method = "type"
	MethodAadhaar Method = "aadhaar"
	MethodDSC     Method = "dsc"
)

// State of a signing session. Committed is terminal: re-entering the signing
// flow for an already-committed document starts a fresh session.
type State string

const (
	StateMethodSelection   State = "method_selection"
	StateCapturing         State = "capturing"
	StateAwaitingChallenge State = "awaiting_challenge"
	StateCommitted         State = "committed"
)

// ErrInvalidTransition marks an operation not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid signing session transition")

var (
	aadhaarFormat   = regexp.MustCompile(`^\d{12}$`)
	dscSerialFormat = regexp.MustCompile(`^\d{10}$`)
	challengeFormat = regexp.MustCompile(`^\d{6}$`)
)

// Committer records the finished signature against the document. The session
// calls it exactly once, on a successful commit.
type Committer interface {
	Commit(ctx context.Context, principal models.Principal, docID string, sig *models.Signature) error
}

// CommitFunc adapts a function to the Committer interface.
type CommitFunc func(ctx context.Context, principal models.Principal, docID string, sig *models.Signature) error

func (f CommitFunc) Commit(ctx context.Context, principal models.Principal, docID string, sig *models.Signature) error {
	return f(ctx, principal, docID, sig)
}

type Session struct {
	docID     string
	principal models.Principal
	committer Committer
	log       logging.Logger

	state  State
	method Method

	// method-specific captured state
	image      string
	typedName  string
	typedStyle string
	idNumber   string
}

func NewSession(docID string, principal models.Principal, committer Committer, log logging.Logger) *Session {
	return &Session{
		docID:     docID,
		principal: principal,
		committer: committer,
		log:       log.With("component", "signing", "doc_id", docID, "signer", principal.Email),
		state:     StateMethodSelection,
	}
}

func (s *Session) State() State   { return s.state }
func (s *Session) Method() Method { return s.method }

// SelectMethod picks or changes the capture method. Allowed any time before
// commit; changing the method discards captured state.
func (s *Session) SelectMethod(m Method) error {
	if s.state == StateCommitted {
		return fmt.Errorf("%w: session already committed", ErrInvalidTransition)
	}
	switch m {
	case MethodDraw, MethodType, MethodAadhaar, MethodDSC:
	default:
		return fmt.Errorf("%w: unknown method %q", common.ErrValidationFailed, m)
	}

	s.method = m
	s.state = StateCapturing
	s.image = ""
	s.typedName = ""
	s.typedStyle = ""
	s.idNumber = ""
	return nil
}

// requireCapturing guards the capture calls: each one is valid only while
// the session is in Capturing with the matching method selected.
func (s *Session) requireCapturing(m Method) error {
	if s.state != StateCapturing || s.method != m {
		return fmt.Errorf("%w: capture for %s in state %s/%s", ErrInvalidTransition, m, s.state, s.method)
	}
	return nil
}

// Draw records the signature pad image for the draw method.
func (s *Session) Draw(image string) error {
	if err := s.requireCapturing(MethodDraw); err != nil {
		return err
	}
	s.image = image
	return nil
}

// Type records the name and preset style for the type method.
func (s *Session) Type(name, style string) error {
	if err := s.requireCapturing(MethodType); err != nil {
		return err
	}
	s.typedName = name
	s.typedStyle = style
	return nil
}

// EnterID records the identity reference number for the Aadhaar/DSC methods.
func (s *Session) EnterID(number string) error {
	if s.state != StateCapturing || (s.method != MethodAadhaar && s.method != MethodDSC) {
		return fmt.Errorf("%w: EnterID in state %s/%s", ErrInvalidTransition, s.state, s.method)
	}
	s.idNumber = number
	return nil
}

// RequestChallenge validates the identity number format and "sends" the
// challenge code. The send is simulated: nothing leaves the process.
func (s *Session) RequestChallenge(ctx context.Context) error {
	if s.state != StateCapturing {
		return fmt.Errorf("%w: RequestChallenge in state %s", ErrInvalidTransition, s.state)
	}

	switch s.method {
	case MethodAadhaar:
		if !aadhaarFormat.MatchString(s.idNumber) {
			return fmt.Errorf("%w: expected a 12-digit Aadhaar number", common.ErrIdentityFormatInvalid)
		}
	case MethodDSC:
		if !dscSerialFormat.MatchString(s.idNumber) {
			return fmt.Errorf("%w: expected a 10-digit DSC serial", common.ErrIdentityFormatInvalid)
		}
	default:
		return fmt.Errorf("%w: challenge only applies to identity methods", ErrInvalidTransition)
	}

	s.log.Info(ctx, "challenge code sent (simulated)", "method", s.method)
	s.state = StateAwaitingChallenge
	return nil
}

// SubmitChallenge accepts the challenge code and commits. Only the shape of
// the code is checked; the value is never verified against anything. This
// simulated identity flow must not be mistaken for real verification.
func (s *Session) SubmitChallenge(ctx context.Context, code string) error {
	if s.state != StateAwaitingChallenge {
		return fmt.Errorf("%w: SubmitChallenge in state %s", ErrInvalidTransition, s.state)
	}
	if !challengeFormat.MatchString(code) {
		return fmt.Errorf("%w: expected a 6-digit code", common.ErrValidationFailed)
	}

	var sig *models.Signature
	if s.method == MethodAadhaar {
		sig = models.NewAadhaarSignature()
	} else {
		sig = models.NewDSCSignature()
	}
	return s.commit(ctx, sig)
}

// Commit finalizes a draw or type capture. Identity methods must go through
// the challenge step and cannot commit from Capturing.
func (s *Session) Commit(ctx context.Context) error {
	if s.state != StateCapturing {
		return fmt.Errorf("%w: Commit in state %s", ErrInvalidTransition, s.state)
	}

	var sig *models.Signature
	switch s.method {
	case MethodDraw:
		if s.image == "" {
			return fmt.Errorf("%w: draw your signature before completing", common.ErrValidationFailed)
		}
		sig = models.NewDrawnSignature(s.image)
	case MethodType:
		if s.typedName == "" {
			return fmt.Errorf("%w: enter your name before completing", common.ErrValidationFailed)
		}
		sig = models.NewTypedSignature(s.typedName, s.typedStyle)
	case MethodAadhaar, MethodDSC:
		return fmt.Errorf("%w: identity methods require the challenge step", ErrInvalidTransition)
	default:
		return fmt.Errorf("%w: no method selected", ErrInvalidTransition)
	}

	return s.commit(ctx, sig)
}

func (s *Session) commit(ctx context.Context, sig *models.Signature) error {
	if err := s.committer.Commit(ctx, s.principal, s.docID, sig); err != nil {
		return err
	}
	s.state = StateCommitted
	s.log.Info(ctx, "signature committed", "method", s.method)
	return nil
}
