package pages

import (
	"context"

	"github.com/NaloDAO/community_app/internal/forms"
	"github.com/NaloDAO/community_app/internal/store/authstore"
	"github.com/NaloDAO/community_app/internal/store/uistore"
)

// Register binds the account-creation form to the auth store.
type Register struct {
	auth *authstore.Store
	ui   *uistore.Store
}

func NewRegister(auth *authstore.Store, ui *uistore.Store) *Register {
	return &Register{auth: auth, ui: ui}
}

func (p *Register) Submit(ctx context.Context, form forms.Register) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if err := p.auth.Register(ctx, form.Name, form.Email, form.Password); err != nil {
		p.ui.Notify(uistore.NotifyError, "Failed to create account")
		return err
	}
	p.ui.Notify(uistore.NotifySuccess, "Welcome to NaloDAO!")
	return nil
}
