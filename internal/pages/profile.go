package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/NaloDAO/community_app/internal/forms"
	"github.com/NaloDAO/community_app/internal/gateway"
	"github.com/NaloDAO/community_app/internal/store/authstore"
	"github.com/NaloDAO/community_app/internal/store/uistore"
)

// Profile edits the signed-in user's public details. Submit validates and
// reports success without calling the backend; avatar uploads do go through
// storage.
type Profile struct {
	auth    *authstore.Store
	ui      *uistore.Store
	storage gateway.StorageAPI
	bucket  string
}

func NewProfile(auth *authstore.Store, ui *uistore.Store, storage gateway.StorageAPI, bucket string) *Profile {
	return &Profile{auth: auth, ui: ui, storage: storage, bucket: bucket}
}

// Form returns the edit form seeded from the current user, empty when no one
// is signed in.
func (p *Profile) Form() forms.Profile {
	user := p.auth.State().User
	if user == nil {
		return forms.Profile{}
	}
	return forms.Profile{
		Name:             user.Name,
		Bio:              user.Bio,
		Location:         user.Location,
		ProjectInterests: append([]string(nil), user.ProjectInterests...),
	}
}

// Submit validates the form. The actual save is not implemented yet; on
// valid input it only raises the success toast.
// TODO: persist the profile through the users gateway once the backend
// exposes the update policy.
func (p *Profile) Submit(ctx context.Context, form forms.Profile) error {
	if err := form.Validate(); err != nil {
		return err
	}
	p.ui.Notify(uistore.NotifySuccess, "Profile Updated",
		uistore.WithMessage("Your profile has been successfully updated."))
	return nil
}

// UploadAvatar stores the image under avatars/<user id> and returns its
// public URL.
func (p *Profile) UploadAvatar(ctx context.Context, data []byte, contentType string) (string, error) {
	user := p.auth.State().User
	if user == nil {
		return "", errors.New("not signed in")
	}

	path := fmt.Sprintf("avatars/%s", user.ID)
	url, err := p.storage.UploadFile(ctx, p.bucket, path, data, contentType)
	if err != nil {
		p.ui.Notify(uistore.NotifyError, "Update Failed",
			uistore.WithMessage("Failed to upload avatar"))
		return "", err
	}
	p.ui.Notify(uistore.NotifySuccess, "Avatar Updated",
		uistore.WithMessage("Your avatar has been successfully updated."))
	return url, nil
}
