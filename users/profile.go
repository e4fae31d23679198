package users

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/d-madiou/job-board-client/apiclient"
)

const ProfilePath = "/auth/profile/"

// ProfileUpdate is a partial update of the signed-in user's profile. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Location  *string `json:"location,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

func (p ProfileUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.NilOrNotEmpty, validation.Length(1, 150)),
		validation.Field(&p.LastName, validation.NilOrNotEmpty, validation.Length(1, 150)),
		validation.Field(&p.Phone, validation.Length(0, 20)),
		validation.Field(&p.Location, validation.Length(0, 255)),
		validation.Field(&p.Bio, validation.Length(0, 2000)),
	)
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.Location == nil && p.Bio == nil
}

// ProfileService reads and edits the signed-in user's profile.
type ProfileService struct {
	api apiclient.JSONAPI
}

func NewProfileService(api apiclient.JSONAPI) (*ProfileService, error) {
	if api == nil {
		return nil, fmt.Errorf("[NewProfileService] api is required")
	}
	return &ProfileService{api: api}, nil
}

func (s *ProfileService) Get(ctx context.Context) (User, error) {
	var u User
	if err := s.api.GetJSON(ctx, ProfilePath, nil, &u); err != nil {
		return User{}, fmt.Errorf("[ProfileService.Get] %w", err)
	}
	return u, nil
}

// Update sends the non-nil fields and returns the updated record.
func (s *ProfileService) Update(ctx context.Context, update ProfileUpdate) (User, error) {
	if err := update.Validate(); err != nil {
		return User{}, fmt.Errorf("[ProfileService.Update] %w", err)
	}
	var u User
	if err := s.api.PatchJSON(ctx, ProfilePath, update, &u); err != nil {
		return User{}, fmt.Errorf("[ProfileService.Update] %w", err)
	}
	return u, nil
}
