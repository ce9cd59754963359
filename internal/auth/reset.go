package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/email"
)

// The reset code lives only on this side and in the mailbox. The user agent
// submits a guess; it never receives or generates the source of truth.

const (
	codeTTL     = 10 * time.Minute
	maxAttempts = 3
)

var (
	ErrCodeExpired  = errors.New("код подтверждения истёк")
	ErrCodeMismatch = errors.New("неверный код подтверждения")
	ErrTooManyTries = errors.New("превышено число попыток, запросите новый код")
	ErrWrongStage   = errors.New("недопустимый шаг восстановления")
)

type Stage int

const (
	StageEmail Stage = iota
	StageCode
	StagePassword
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageEmail:
		return "email"
	case StageCode:
		return "code"
	case StagePassword:
		return "password"
	default:
		return "done"
	}
}

// Flow is the linear email → code → password progression for one client.
type Flow struct {
	stage Stage
	email string
}

func NewFlow() *Flow { return &Flow{stage: StageEmail} }

func (f *Flow) Stage() Stage { return f.stage }
func (f *Flow) Email() string { return f.email }

type codeEntry struct {
	Code     string `json:"code"`
	Attempts int    `json:"attempts"`
}

// CodeStore keeps pending reset codes with expiry.
type CodeStore interface {
	Put(ctx context.Context, email string, entry codeEntry, ttl time.Duration) error
	Get(ctx context.Context, email string) (codeEntry, error)
	Delete(ctx context.Context, email string) error
}

type ResetService struct {
	Backend *backend.Client
	Mailer  *email.Relay
	Codes   CodeStore
	Logger  *slog.Logger
}

// Start validates the address, confirms the account exists, then generates
// and mails the code. The flow advances to the code stage.
func (s *ResetService) Start(ctx context.Context, f *Flow, address string) error {
	if f.stage != StageEmail {
		return ErrWrongStage
	}
	if err := ValidateEmail(address); err != nil {
		return err
	}

	exists, err := s.Backend.Auth.UserExists(ctx, address)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("пользователь с таким email не найден")
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	if err := s.Codes.Put(ctx, address, codeEntry{Code: code}, codeTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	if err := s.Mailer.SendResetCode(ctx, address, code); err != nil {
		return fmt.Errorf("не удалось отправить письмо: %w", err)
	}

	f.email = address
	f.stage = StageCode
	return nil
}

// VerifyCode checks the guess against the stored code, burning one attempt
// per mismatch and the whole code after maxAttempts.
func (s *ResetService) VerifyCode(ctx context.Context, f *Flow, guess string) error {
	if f.stage != StageCode {
		return ErrWrongStage
	}

	entry, err := s.Codes.Get(ctx, f.email)
	if err != nil {
		return ErrCodeExpired
	}
	if entry.Code != guess {
		entry.Attempts++
		if entry.Attempts >= maxAttempts {
			if err := s.Codes.Delete(ctx, f.email); err != nil {
				s.logger().Error("reset code delete failed", "error", err)
			}
			return ErrTooManyTries
		}
		if err := s.Codes.Put(ctx, f.email, entry, codeTTL); err != nil {
			s.logger().Error("reset code update failed", "error", err)
		}
		return ErrCodeMismatch
	}

	if err := s.Codes.Delete(ctx, f.email); err != nil {
		s.logger().Error("reset code delete failed", "error", err)
	}
	f.stage = StagePassword
	return nil
}

// ChangeEmail is the single allowed backward transition.
func (s *ResetService) ChangeEmail(ctx context.Context, f *Flow) error {
	if f.stage != StageCode {
		return ErrWrongStage
	}
	if err := s.Codes.Delete(ctx, f.email); err != nil {
		s.logger().Error("reset code delete failed", "error", err)
	}
	f.email = ""
	f.stage = StageEmail
	return nil
}

// Complete sets the new password through the backend and ends the flow.
func (s *ResetService) Complete(ctx context.Context, f *Flow, newPassword string) error {
	if f.stage != StagePassword {
		return ErrWrongStage
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if err := s.Backend.Auth.ResetPassword(ctx, f.email, newPassword); err != nil {
		return err
	}
	f.stage = StageDone
	return nil
}

func (s *ResetService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
