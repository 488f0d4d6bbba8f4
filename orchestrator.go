package avatars

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Orchestrator sequences the remote profile client, the record store and the
// blob store into the get and delete avatar workflows. Record and blob writes
// are not transactional; failed second steps are compensated on best effort.
type Orchestrator struct {
	Profiles ProfileProvider
	Records  AvatarRecordStore
	Blobs    AvatarBlobStore

	// ScopedLookup makes GetAvatar check the record of the requested user.
	// When false the legacy behaviour is kept: any existing record counts as
	// a hit and its blob is returned.
	ScopedLookup bool
}

func (o *Orchestrator) GetAvatar(ctx context.Context, userId UserId) (Avatar, error) {
	profile, err := o.Profiles.ById(ctx, userId)
	if err != nil {
		return Avatar{}, fail(FailureUserNotFound, err)
	}

	record, err := o.lookupRecord(ctx, userId)
	switch {
	case err == nil:
		return o.readExisting(ctx, userId, record)
	case errors.Is(err, ErrRecordNotFound):
		return o.materialize(ctx, userId, profile.AvatarUrl)
	default:
		return Avatar{}, fail(FailureRecordLookup, err)
	}
}

func (o *Orchestrator) lookupRecord(ctx context.Context, userId UserId) (AvatarRecord, error) {
	if o.ScopedLookup {
		return o.Records.ByUserId(ctx, userId)
	}
	return o.Records.Any(ctx)
}

func (o *Orchestrator) readExisting(ctx context.Context, requested UserId, record AvatarRecord) (Avatar, error) {
	if record.UserId != requested {
		logrus.
			WithField("user_id", requested).
			WithField("record_user_id", record.UserId).
			Warningln("Unscoped avatar lookup matched record of another user.")
	}
	img64, err := o.Blobs.Read(ctx, record.UserId)
	if err != nil {
		return Avatar{}, fail(FailureBlobRead, err)
	}
	return Avatar{Status: AvatarExisting, UserId: record.UserId, Base64: img64}, nil
}

func (o *Orchestrator) materialize(ctx context.Context, userId UserId, avatarUrl string) (Avatar, error) {
	img64, err := o.Blobs.Write(ctx, userId, avatarUrl)
	if err != nil {
		return Avatar{}, fail(FailureBlobWrite, err)
	}

	if err := o.Records.Insert(ctx, userId); err != nil {
		// A concurrent miss for the same user may have committed its record
		// first. The blob on disk is then owned by that record.
		_, lookupErr := o.Records.ByUserId(ctx, userId)
		switch {
		case lookupErr == nil:
			logrus.
				WithField("user_id", userId).
				WithError(err).
				Debugln("Avatar record inserted concurrently.")
			return Avatar{Status: AvatarExisting, UserId: userId, Base64: img64}, nil
		case errors.Is(lookupErr, ErrRecordNotFound):
			if delErr := o.Blobs.Delete(ctx, userId); delErr != nil {
				logrus.
					WithField("user_id", userId).
					WithError(delErr).
					Errorln("Could not remove avatar blob after failed record insert.")
			}
		default:
			logrus.
				WithField("user_id", userId).
				WithError(lookupErr).
				Warningln("Could not check avatar record after failed insert, keeping blob.")
		}
		return Avatar{}, fail(FailureRecordWrite, err)
	}
	return Avatar{Status: AvatarCreated, UserId: userId, Base64: img64}, nil
}

// DeleteAvatar removes the record first and the blob second. When the blob
// removal fails with anything but a missing blob the record is inserted back.
func (o *Orchestrator) DeleteAvatar(ctx context.Context, userId UserId) error {
	if _, err := o.Records.ByUserId(ctx, userId); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return fail(FailureRecordNotFound, err)
		}
		return fail(FailureRecordLookup, err)
	}

	exists, err := o.Blobs.Exists(ctx, userId)
	if err != nil {
		return fail(FailureBlobLookup, err)
	}
	if !exists {
		return fail(FailureBlobNotFound, ErrBlobNotFound)
	}

	if err := o.Records.DeleteByUserId(ctx, userId); err != nil {
		return fail(FailureRecordDelete, err)
	}

	if err := o.Blobs.Delete(ctx, userId); err != nil {
		// removed by a concurrent delete, both stores are clean
		if errors.Is(err, ErrBlobNotFound) {
			return nil
		}
		if insErr := o.Records.Insert(ctx, userId); insErr != nil {
			logrus.
				WithField("user_id", userId).
				WithError(insErr).
				Errorln("Could not restore avatar record after failed blob delete.")
		}
		return fail(FailureBlobDelete, err)
	}
	return nil
}
