package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/marketdesk/internal/client/client"
	"github.com/dmitrijs2005/marketdesk/internal/client/models"
	"github.com/dmitrijs2005/marketdesk/internal/client/storage"
	"github.com/dmitrijs2005/marketdesk/internal/logging"
)

// EditState is the profile form's state.
type EditState int

const (
	Viewing EditState = iota
	Editing
	Submitting
)

func (s EditState) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

var ErrNotEditing = errors.New("profile is not being edited")

// ProfileDraft holds the form fields.
type ProfileDraft struct {
	FirstName    string `validate:"required,max=64"`
	LastName     string `validate:"required,max=64"`
	EmailAddress string `validate:"required,email"`
	PhoneNumber  string `validate:"omitempty,e164"`
}

// draftFields maps the names accepted by Update to the draft's fields.
var draftFields = map[string]func(*ProfileDraft) *string{
	"firstName": func(d *ProfileDraft) *string { return &d.FirstName },
	"lastName":  func(d *ProfileDraft) *string { return &d.LastName },
	"email":     func(d *ProfileDraft) *string { return &d.EmailAddress },
	"phone":     func(d *ProfileDraft) *string { return &d.PhoneNumber },
}

// DraftFieldNames lists the fields Update accepts.
func DraftFieldNames() []string {
	return []string{"firstName", "lastName", "email", "phone"}
}

func draftFrom(bio models.BioData) ProfileDraft {
	return ProfileDraft{
		FirstName:    bio.FirstName,
		LastName:     bio.LastName,
		EmailAddress: bio.EmailAddress,
		PhoneNumber:  bio.PhoneNumber,
	}
}

// ProfileEditor drives Viewing → Editing → Submitting → Viewing. The cached
// session is only changed after the server accepts the update.
type ProfileEditor struct {
	api      API
	store    *storage.Adapter
	log      logging.Logger
	validate *validator.Validate

	mu      sync.Mutex
	session *models.AuthenticationResponse
	state   EditState
	draft   ProfileDraft
	lastErr error
}

func NewProfileEditor(api API, store *storage.Adapter, log logging.Logger, session *models.AuthenticationResponse) *ProfileEditor {
	if log == nil {
		log = logging.Nop{}
	}
	return &ProfileEditor{
		api:      api,
		store:    store,
		log:      log,
		validate: validator.New(),
		session:  session,
		draft:    draftFrom(session.User.BioData),
	}
}

func (e *ProfileEditor) State() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *ProfileEditor) Draft() ProfileDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// LastError is the error shown inline, if any.
func (e *ProfileEditor) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *ProfileEditor) DismissError() {
	e.mu.Lock()
	e.lastErr = nil
	e.mu.Unlock()
}

// BeginEdit enters Editing with a draft seeded from the cached profile.
func (e *ProfileEditor) BeginEdit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case Submitting:
		return ErrBusy
	case Viewing:
		e.draft = draftFrom(e.session.User.BioData)
		e.lastErr = nil
		e.state = Editing
	}
	return nil
}

// Update sets one draft field; see DraftFieldNames.
func (e *ProfileEditor) Update(field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Editing {
		return ErrNotEditing
	}
	ref, ok := draftFields[field]
	if !ok {
		return &ValidationError{Field: field, Reason: "unknown field, expected one of " + strings.Join(DraftFieldNames(), ", ")}
	}
	*ref(&e.draft) = strings.TrimSpace(value)
	return nil
}

// Cancel discards the draft and returns to Viewing.
func (e *ProfileEditor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Submitting {
		return ErrBusy
	}
	e.state = Viewing
	e.draft = draftFrom(e.session.User.BioData)
	e.lastErr = nil
	return nil
}

// Submit validates the draft, PATCHes the changed fields under the role's
// prefix, merges the server's profile into the session and persists it.
// On any failure the editor stays in Editing with LastError set and the
// cached session untouched.
func (e *ProfileEditor) Submit(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case Submitting:
		e.mu.Unlock()
		return ErrBusy
	case Viewing:
		e.mu.Unlock()
		return ErrNotEditing
	}

	if err := e.validateDraft(); err != nil {
		e.lastErr = err
		e.mu.Unlock()
		return err
	}

	upd, changed := diffDraft(e.session.User.BioData, e.draft)
	if !changed {
		e.state = Viewing
		e.lastErr = nil
		e.mu.Unlock()
		return nil
	}

	e.state = Submitting
	token := e.session.AccessToken
	role := e.session.PrimaryRole()
	e.mu.Unlock()

	bio, err := e.api.UpdateProfile(ctx, token, role, upd)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.state = Editing
		e.lastErr = err
		e.log.Warn(ctx, "profile update failed", "error", err)
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("%w: %w", ErrLoginRequired, err)
		}
		return fmt.Errorf("update profile: %w", err)
	}

	merged := *e.session
	merged.User.BioData.Roles = slices.Clone(e.session.User.BioData.Roles)
	merged.User.BioData.Media = slices.Clone(e.session.User.BioData.Media)
	merged.MergeProfile(*bio)

	if err := e.store.Save(ctx, storage.KeyAuthResponse, merged); err != nil {
		e.state = Editing
		e.lastErr = err
		return fmt.Errorf("persist profile: %w", err)
	}

	*e.session = merged
	e.draft = draftFrom(merged.User.BioData)
	e.state = Viewing
	e.lastErr = nil
	e.log.Info(ctx, "profile updated", "user_id", merged.User.ID)
	return nil
}

func (e *ProfileEditor) validateDraft() error {
	err := e.validate.Struct(e.draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &ValidationError{Field: fe.Field(), Reason: describeTag(fe)})
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be an international phone number like +2348012345678"
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	}
	return "failed " + fe.Tag() + " check"
}

func diffDraft(bio models.BioData, d ProfileDraft) (client.ProfileUpdate, bool) {
	var upd client.ProfileUpdate
	changed := false
	if d.FirstName != bio.FirstName {
		upd.FirstName, changed = d.FirstName, true
	}
	if d.LastName != bio.LastName {
		upd.LastName, changed = d.LastName, true
	}
	if d.EmailAddress != bio.EmailAddress {
		upd.EmailAddress, changed = d.EmailAddress, true
	}
	if d.PhoneNumber != bio.PhoneNumber {
		upd.PhoneNumber, changed = d.PhoneNumber, true
	}
	return upd, changed
}
