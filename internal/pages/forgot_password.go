package pages

import (
	"context"
	"sync"

	"github.com/NaloDAO/community_app/internal/forms"
	"github.com/NaloDAO/community_app/internal/store/authstore"
	"github.com/NaloDAO/community_app/internal/store/uistore"
)

// ForgotPassword requests a password-recovery email. After a successful
// submit the page shows its "check your email" state instead of the form.
type ForgotPassword struct {
	auth *authstore.Store
	ui   *uistore.Store

	mu        sync.Mutex
	submitted bool
}

func NewForgotPassword(auth *authstore.Store, ui *uistore.Store) *ForgotPassword {
	return &ForgotPassword{auth: auth, ui: ui}
}

func (p *ForgotPassword) Submit(ctx context.Context, form forms.ForgotPassword) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if err := p.auth.ResetPassword(ctx, form.Email); err != nil {
		p.ui.Notify(uistore.NotifyError, "Reset Failed",
			uistore.WithMessage("Failed to send reset email"))
		return err
	}

	p.mu.Lock()
	p.submitted = true
	p.mu.Unlock()

	p.ui.Notify(uistore.NotifySuccess, "Email Sent",
		uistore.WithMessage("Please check your email for password reset instructions."))
	return nil
}

// Submitted reports whether the reset email was sent.
func (p *ForgotPassword) Submitted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitted
}
