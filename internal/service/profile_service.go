package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"lamx12/nutri-plan/internal/domain"
	"lamx12/nutri-plan/internal/repository"
	"lamx12/nutri-plan/internal/session"
	"lamx12/nutri-plan/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoProfile            = errors.New("no profile has been set")
	ErrPhotoStorageDisabled = errors.New("photo storage is not configured")
	ErrInvalidContentType   = errors.New("photo content type must be image/*")
	ErrForeignPhotoKey      = errors.New("object key was not issued for a profile photo")
)

const photoPrefix = "profile-photos"

// PhotoUpload is returned to the client that is about to upload a photo.
type PhotoUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type ProfileService interface {
	// SetProfile validates p and replaces the stored profile wholesale.
	SetProfile(ctx context.Context, p domain.Profile) error
	Profile() *domain.Profile
	IsComplete() bool

	// Photo handling, available only with photo storage configured.
	RequestPhotoUpload(ctx context.Context, contentType string) (*PhotoUpload, error)
	AttachPhoto(ctx context.Context, objectKey string) (*domain.Profile, error)
	PhotoURL(ctx context.Context) (string, error)
}

type profileService struct {
	state  *session.State
	store  *repository.StateStore
	photos storage.PhotoStorage
	log    *logrus.Entry
}

// NewProfileService creates the profile service. photos may be nil.
func NewProfileService(state *session.State, store *repository.StateStore, photos storage.PhotoStorage, log *logrus.Entry) ProfileService {
	return &profileService{
		state:  state,
		store:  store,
		photos: photos,
		log:    log,
	}
}

func (s *profileService) SetProfile(ctx context.Context, p domain.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.state.SetProfile(&p)
	_ = s.store.SaveProfile(ctx, &p)
	s.log.WithField("goal", p.Goal).Info("profile saved")
	return nil
}

func (s *profileService) Profile() *domain.Profile {
	return s.state.Profile()
}

func (s *profileService) IsComplete() bool {
	return s.state.Profile().IsComplete()
}

func (s *profileService) RequestPhotoUpload(ctx context.Context, contentType string) (*PhotoUpload, error) {
	if s.photos == nil {
		return nil, ErrPhotoStorageDisabled
	}
	if s.state.Profile() == nil {
		return nil, ErrNoProfile
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	parts := strings.Split(contentType, "/")
	if len(parts) != 2 || parts[0] != "image" || parts[1] == "" {
		return nil, ErrInvalidContentType
	}

	objectKey := path.Join(photoPrefix, fmt.Sprintf("%s.%s", uuid.NewString(), parts[1]))
	url, err := s.photos.UploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &PhotoUpload{UploadURL: url, ObjectKey: objectKey}, nil
}

// AttachPhoto records objectKey on the profile. A previously attached photo is
// removed from storage on a best-effort basis.
func (s *profileService) AttachPhoto(ctx context.Context, objectKey string) (*domain.Profile, error) {
	if s.photos == nil {
		return nil, ErrPhotoStorageDisabled
	}
	if !strings.HasPrefix(objectKey, photoPrefix+"/") {
		return nil, ErrForeignPhotoKey
	}
	p := s.state.Profile()
	if p == nil {
		return nil, ErrNoProfile
	}
	previous := p.PhotoURL
	p.PhotoURL = objectKey
	s.state.SetProfile(p)
	_ = s.store.SaveProfile(ctx, p)

	if previous != "" && previous != objectKey {
		if err := s.photos.Remove(ctx, previous); err != nil {
			s.log.WithError(err).WithField("key", previous).Warn("old profile photo left in storage")
		}
	}
	return p, nil
}

// PhotoURL returns a viewable URL, or "" when no photo is attached.
func (s *profileService) PhotoURL(ctx context.Context) (string, error) {
	if s.photos == nil {
		return "", ErrPhotoStorageDisabled
	}
	p := s.state.Profile()
	if p == nil || p.PhotoURL == "" {
		return "", nil
	}
	return s.photos.ViewURL(ctx, p.PhotoURL, storage.DefaultPresignedURLExpiry)
}
