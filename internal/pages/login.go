package pages

import (
	"context"
	"errors"

	"github.com/NaloDAO/community_app/internal/forms"
	"github.com/NaloDAO/community_app/internal/store/authstore"
	"github.com/NaloDAO/community_app/internal/store/uistore"
)

// Login binds the sign-in form to the auth store.
type Login struct {
	auth *authstore.Store
	ui   *uistore.Store
}

func NewLogin(auth *authstore.Store, ui *uistore.Store) *Login {
	return &Login{auth: auth, ui: ui}
}

// Submit validates the form, then signs in. Field errors are returned
// without touching the backend; remote failures additionally raise an error
// toast.
func (p *Login) Submit(ctx context.Context, form forms.Login) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if err := p.auth.SignIn(ctx, form.Email, form.Password); err != nil {
		p.ui.Notify(uistore.NotifyError, "Failed to sign in")
		return err
	}
	p.ui.Notify(uistore.NotifySuccess, "Welcome back!")
	return nil
}

// FieldErrors extracts per-field messages from a Submit error, when present.
func FieldErrors(err error) (forms.FieldErrors, bool) {
	var fe forms.FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
