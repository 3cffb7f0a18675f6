// Package ownership validates and moves tradeable assets between members.
//
// Every mutation is a compare-and-swap against the owner (and optionally the
// version) the caller last observed, so a transfer computed from stale state
// fails instead of silently overwriting a newer owner.
package ownership

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
)

// ErrInvalidAssetSelection is returned when a selected asset does not exist,
// is not owned by the claimed owner, or is already committed.
var ErrInvalidAssetSelection = errs.New(errs.KindOwnership, "invalid asset selection")

// Store is the slice of the ownership store the validator and transfers need.
// Both methods must run inside the caller's atomic unit.
type Store interface {
	// GetAssets returns the current state of every ref that exists: picks
	// first, then players, each in id order. With forUpdate the rows stay
	// locked until the unit ends.
	GetAssets(ctx context.Context, refs []models.AssetRef, forUpdate bool) ([]models.Asset, error)
	// TransferAsset applies t and reports whether exactly one row matched.
	TransferAsset(ctx context.Context, t Transfer) (bool, error)
}

// Transfer moves one asset from ExpectedOwner to NewOwner.
// A nil ExpectedVersion skips the version comparison.
type Transfer struct {
	Ref             models.AssetRef
	ExpectedOwner   *uuid.UUID
	ExpectedVersion *int64
	NewOwner        *uuid.UUID
	IsTraded        bool
}

// ValidateOwnership succeeds iff every ref is owned by userID and not committed.
// Duplicate refs are a malformed request rather than an ownership failure.
func ValidateOwnership(ctx context.Context, s Store, userID uuid.UUID, refs []models.AssetRef, forUpdate bool) ([]models.Asset, error) {
	if err := checkRefs(refs); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}

	assets, err := s.GetAssets(ctx, refs, forUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	matching := 0
	for _, a := range assets {
		if a.OwnedBy(userID) && !a.IsTraded {
			matching++
		}
	}
	if matching != len(refs) {
		return nil, ErrInvalidAssetSelection
	}
	return assets, nil
}

// LoadAssets returns the assets for refs keyed by ref, failing with NotFound
// when any of them does not exist.
func LoadAssets(ctx context.Context, s Store, refs []models.AssetRef, forUpdate bool) (map[models.AssetRef]models.Asset, error) {
	if err := checkRefs(refs); err != nil {
		return nil, err
	}
	out := make(map[models.AssetRef]models.Asset, len(refs))
	if len(refs) == 0 {
		return out, nil
	}

	assets, err := s.GetAssets(ctx, refs, forUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	for _, a := range assets {
		out[a.Ref] = a
	}
	for _, r := range refs {
		if _, ok := out[r]; !ok {
			return nil, errs.NotFound("asset %s not found", r)
		}
	}
	return out, nil
}

// Apply runs every transfer and fails the whole batch with an OwnershipError
// on the first one whose expectation no longer holds. The caller's unit must
// roll back on error.
func Apply(ctx context.Context, s Store, transfers []Transfer) error {
	for _, t := range transfers {
		ok, err := s.TransferAsset(ctx, t)
		if err != nil {
			return fmt.Errorf("failed to transfer %s: %w", t.Ref, err)
		}
		if !ok {
			return errs.Ownership("asset %s changed hands since it was selected", t.Ref)
		}
	}
	return nil
}

func checkRefs(refs []models.AssetRef) error {
	seen := make(map[models.AssetRef]struct{}, len(refs))
	for _, r := range refs {
		if !r.Valid() {
			return errs.Validation("invalid asset reference %q", r.String())
		}
		if _, dup := seen[r]; dup {
			return errs.Validation("asset %s selected more than once", r)
		}
		seen[r] = struct{}{}
	}
	return nil
}
