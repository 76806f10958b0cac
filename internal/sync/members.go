package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sharecount/sharecount/internal/api"
	"github.com/sharecount/sharecount/internal/models"
	"github.com/sharecount/sharecount/internal/storage"
)

// Members reconciles the member collection of a group.
type Members struct {
	store storage.Store
	api   api.Client
	proj  *Projection[models.Member]
	locks *scopeLocks
}

// NewMembers creates a member reconciler over the given store and
// remote client.
func NewMembers(store storage.Store, client api.Client) *Members {
	return &Members{
		store: store,
		api:   client,
		proj:  NewProjection[models.Member](),
		locks: newScopeLocks(),
	}
}

// Projection returns the observable member view for UI consumption.
func (r *Members) Projection() *Projection[models.Member] { return r.proj }

// List returns the non-tombstoned members of a group from the local
// store and publishes them, seeding the projection on startup.
func (r *Members) List(ctx context.Context, groupToken string) ([]models.Member, error) {
	members, err := r.visible(ctx, groupToken)
	if err != nil {
		return nil, err
	}
	r.proj.Publish(members)
	return members, nil
}

// Add creates a member locally and optimistically pushes it. Network
// failure never escapes: the member is then saved pending sync.
func (r *Members) Add(ctx context.Context, groupToken, nickname string) (models.Member, error) {
	lock := r.locks.get(groupToken)
	lock.Lock()
	defer lock.Unlock()

	member := models.Member{
		UUID:       uuid.NewString(),
		GroupToken: groupToken,
		Nickname:   nickname,
		ModifiedAt: models.NowStamp(),
		Status:     models.StatusToCreate,
	}

	_, pushErr := r.api.CreateMembers(ctx, groupToken, []models.Member{member})
	observePush("member", pushErr)
	if pushErr != nil {
		slog.Warn("member push failed, saved locally", "group", groupToken, "error", pushErr)
	}
	member.Status = models.NextStatus(models.StatusToCreate, pushErr != nil)

	if err := r.store.PutMember(ctx, member); err != nil {
		return models.Member{}, fmt.Errorf("add member: %w", err)
	}
	if err := r.publish(ctx, groupToken); err != nil {
		return models.Member{}, err
	}
	return member, nil
}

// Rename changes a member's nickname. Editing a tombstoned member is
// rejected.
func (r *Members) Rename(ctx context.Context, memberUUID, nickname string) error {
	scope, err := r.store.GetMember(ctx, memberUUID)
	if err != nil {
		return fmt.Errorf("rename member: %w", err)
	}
	lock := r.locks.get(scope.GroupToken)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: a concurrent pass may have purged or
	// replaced the row since the scope lookup.
	member, err := r.store.GetMember(ctx, memberUUID)
	if err != nil {
		return fmt.Errorf("rename member: %w", err)
	}
	if member.Status == models.StatusToDelete {
		return fmt.Errorf("rename member %s: member is deleted", memberUUID)
	}

	prev := member.Status
	member.Nickname = nickname
	member.ModifiedAt = models.NowStamp()

	_, pushErr := r.api.CreateMembers(ctx, member.GroupToken, []models.Member{*member})
	observePush("member", pushErr)
	if pushErr != nil {
		slog.Warn("member push failed, saved locally", "member", memberUUID, "error", pushErr)
	}
	member.Status = models.NextStatus(prev, pushErr != nil)

	if err := r.store.PutMember(ctx, *member); err != nil {
		return fmt.Errorf("rename member: %w", err)
	}
	return r.publish(ctx, member.GroupToken)
}

// Delete tombstones a member and optimistically pushes the delete. A
// member the remote has never seen is purged outright with no remote
// call referencing its id.
func (r *Members) Delete(ctx context.Context, memberUUID string) error {
	scope, err := r.store.GetMember(ctx, memberUUID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	lock := r.locks.get(scope.GroupToken)
	lock.Lock()
	defer lock.Unlock()

	member, err := r.store.GetMember(ctx, memberUUID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if member.Status == models.StatusToCreate {
		if err := r.store.DeleteMember(ctx, memberUUID); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
		return r.publish(ctx, member.GroupToken)
	}

	member.ModifiedAt = models.NowStamp()
	pushErr := r.api.DeleteMembers(ctx, member.GroupToken, []models.Member{*member})
	observePush("member", pushErr)
	if pushErr == nil {
		if err := r.store.DeleteMember(ctx, memberUUID); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
	} else {
		slog.Warn("member delete push failed, tombstoned locally", "member", memberUUID, "error", pushErr)
		member.Status = models.StatusToDelete
		if err := r.store.PutMember(ctx, *member); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
	}
	return r.publish(ctx, member.GroupToken)
}

// Synchronize converges the local member collection of one group with
// the remote list. Remote failures abort the pass without touching
// already-synced rows; only local store errors are returned.
func (r *Members) Synchronize(ctx context.Context, groupToken string) error {
	lock := r.locks.get(groupToken)
	lock.Lock()
	defer lock.Unlock()

	local, err := r.store.ListMembers(ctx, groupToken)
	if err != nil {
		return fmt.Errorf("synchronize members: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	remote, err := r.api.ListMembers(fetchCtx, groupToken)
	cancel()
	if err != nil {
		slog.Warn("member fetch failed, keeping local state", "group", groupToken, "error", err)
		syncPasses.WithLabelValues("member", "fetch_failed").Inc()
		return nil
	}

	plan := planMerge(local, remote)
	observePlan("member", plan)

	for _, m := range plan.Upserts {
		m.GroupToken = groupToken
		m.Status = models.StatusNothing
		if err := r.store.PutMember(ctx, m); err != nil {
			return fmt.Errorf("synchronize members: %w", err)
		}
	}
	for _, key := range plan.Purges {
		if err := r.store.DeleteMember(ctx, key); err != nil {
			return fmt.Errorf("synchronize members: %w", err)
		}
	}

	if _, err := r.api.CreateMembers(ctx, groupToken, plan.Pushes); err != nil {
		slog.Warn("member push batch failed, retrying next pass", "group", groupToken, "error", err)
		pushFailures.WithLabelValues("member").Inc()
	} else {
		for _, m := range plan.Pushes {
			m.Status = models.StatusNothing
			if err := r.store.PutMember(ctx, m); err != nil {
				return fmt.Errorf("synchronize members: %w", err)
			}
		}
	}

	if err := r.api.DeleteMembers(ctx, groupToken, plan.RemoteDeletes); err != nil {
		slog.Warn("member delete batch failed, retrying next pass", "group", groupToken, "error", err)
		pushFailures.WithLabelValues("member").Inc()
	} else {
		for _, m := range plan.RemoteDeletes {
			if err := r.store.DeleteMember(ctx, m.UUID); err != nil {
				return fmt.Errorf("synchronize members: %w", err)
			}
		}
	}

	syncPasses.WithLabelValues("member", "ok").Inc()
	return r.publish(ctx, groupToken)
}

func (r *Members) visible(ctx context.Context, groupToken string) ([]models.Member, error) {
	all, err := r.store.ListMembers(ctx, groupToken)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	members := make([]models.Member, 0, len(all))
	for _, m := range all {
		if m.Status != models.StatusToDelete {
			members = append(members, m)
		}
	}
	return members, nil
}

func (r *Members) publish(ctx context.Context, groupToken string) error {
	members, err := r.visible(ctx, groupToken)
	if err != nil {
		return err
	}
	r.proj.Publish(members)
	return nil
}
