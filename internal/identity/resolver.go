package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobalog/bobalog/internal/events"
	"github.com/bobalog/bobalog/internal/models"
)

// LocalUserID is the fixed sentinel identity for local-only users. It
// namespaces records on-device and is never used to address remote objects.
const LocalUserID = "local-user"

// Resolver maps the current session, or local-only mode, to a stable
// identity. Every remote-touching component goes through it, so the
// local-vs-cloud decision lives in exactly one place.
type Resolver struct {
	flagPath    string
	sessionPath string
	logger      *events.Logger

	session *Session // cached after first load
}

// NewResolver creates a resolver backed by the given flag and session files.
func NewResolver(flagPath, sessionPath string, logger *events.Logger) *Resolver {
	return &Resolver{
		flagPath:    flagPath,
		sessionPath: sessionPath,
		logger:      logger.WithField("component", "identity"),
	}
}

// LocalMode reports whether the user opted out of cloud accounts. The flag
// is a durable file independent of the record store.
func (r *Resolver) LocalMode() bool {
	_, err := os.Stat(r.flagPath)
	return err == nil
}

// SetLocalMode persists or clears the local-mode flag.
func (r *Resolver) SetLocalMode(on bool) error {
	if on {
		if err := os.MkdirAll(filepath.Dir(r.flagPath), 0700); err != nil {
			return fmt.Errorf("create flag directory: %w", err)
		}
		if err := os.WriteFile(r.flagPath, []byte("1\n"), 0600); err != nil {
			return fmt.Errorf("write local-mode flag: %w", err)
		}
		r.logger.Info("Local mode enabled")
		return nil
	}

	if err := os.Remove(r.flagPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove local-mode flag: %w", err)
	}
	r.logger.Info("Local mode disabled")
	return nil
}

// Current resolves the effective identity. Local mode short-circuits before
// any session lookup; otherwise a valid persisted session is required.
func (r *Resolver) Current() (string, error) {
	if r.LocalMode() {
		return LocalUserID, nil
	}

	sess, err := r.Session()
	if err != nil {
		return "", err
	}

	return sess.UserID, nil
}

// Session returns the persisted session, or models.ErrNotAuthenticated.
func (r *Resolver) Session() (*Session, error) {
	if r.session != nil && !r.session.IsExpired() {
		return r.session, nil
	}

	data, err := os.ReadFile(r.sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}

	if sess.UserID == "" {
		return nil, models.ErrNotAuthenticated
	}
	if sess.IsExpired() {
		return nil, models.ErrSessionExpired
	}

	r.session = &sess
	return &sess, nil
}

// SaveSession persists a session after sign-in.
func (r *Resolver) SaveSession(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.sessionPath), 0700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := os.WriteFile(r.sessionPath, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	r.session = sess
	r.logger.WithField("user_id", sess.UserID).Info("Session saved")
	return nil
}

// ClearSession removes the persisted session.
func (r *Resolver) ClearSession() error {
	r.session = nil
	if err := os.Remove(r.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
