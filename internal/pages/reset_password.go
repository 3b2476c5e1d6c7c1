package pages

import (
	"context"
	"sync"

	"github.com/NaloDAO/community_app/internal/forms"
	"github.com/NaloDAO/community_app/internal/store/authstore"
	"github.com/NaloDAO/community_app/internal/store/uistore"
)

// ResetPassword sets a new password from a recovery link. After success the
// page shows its confirmation state.
type ResetPassword struct {
	auth *authstore.Store
	ui   *uistore.Store

	mu        sync.Mutex
	submitted bool
}

func NewResetPassword(auth *authstore.Store, ui *uistore.Store) *ResetPassword {
	return &ResetPassword{auth: auth, ui: ui}
}

func (p *ResetPassword) Submit(ctx context.Context, form forms.ResetPassword) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if err := p.auth.UpdatePassword(ctx, form.Password); err != nil {
		p.ui.Notify(uistore.NotifyError, "Update Failed",
			uistore.WithMessage("Failed to update password"))
		return err
	}

	p.mu.Lock()
	p.submitted = true
	p.mu.Unlock()

	p.ui.Notify(uistore.NotifySuccess, "Password Updated",
		uistore.WithMessage("Your password has been successfully updated."))
	return nil
}

// Submitted reports whether the password was changed.
func (p *ResetPassword) Submitted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitted
}
