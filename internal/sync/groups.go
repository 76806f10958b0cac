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

// groupScope keys the single lock serializing group-collection passes;
// the group scope is the whole device, not one token.
const groupScope = "groups"

// Groups reconciles the set of groups known to this device. It also
// owns the user binding ("who am I in this group"), which is purely
// local state.
//
// Unlike members and transactions there is no remote list endpoint: the
// device only learns about a group through its token, so the remote
// phase works group by group via GET /groups/{token}.
type Groups struct {
	store storage.Store
	api   api.Client
	proj  *Projection[models.Group]
	locks *scopeLocks
}

// NewGroups creates a group reconciler over the given store and remote
// client.
func NewGroups(store storage.Store, client api.Client) *Groups {
	return &Groups{
		store: store,
		api:   client,
		proj:  NewProjection[models.Group](),
		locks: newScopeLocks(),
	}
}

// Projection returns the observable group view.
func (r *Groups) Projection() *Projection[models.Group] { return r.proj }

// List returns the non-tombstoned groups from the local store and
// publishes them.
func (r *Groups) List(ctx context.Context) ([]models.Group, error) {
	groups, err := r.visible(ctx)
	if err != nil {
		return nil, err
	}
	r.proj.Publish(groups)
	return groups, nil
}

// Create makes a new group locally and optimistically pushes it. The
// token is client-generated; sharing it is how others join.
func (r *Groups) Create(ctx context.Context, name, currency string) (models.Group, error) {
	lock := r.locks.get(groupScope)
	lock.Lock()
	defer lock.Unlock()

	now := models.NowStamp()
	group := models.Group{
		Token:      uuid.NewString(),
		Name:       name,
		Currency:   currency,
		CreatedAt:  now,
		ModifiedAt: now,
		Status:     models.StatusToCreate,
	}

	pushErr := r.api.UpsertGroup(ctx, group)
	observePush("group", pushErr)
	if pushErr != nil {
		slog.Warn("group push failed, saved locally", "group", group.Token, "error", pushErr)
	}
	group.Status = models.NextStatus(models.StatusToCreate, pushErr != nil)

	if err := r.store.PutGroup(ctx, group); err != nil {
		return models.Group{}, fmt.Errorf("create group: %w", err)
	}
	if err := r.publish(ctx); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// Modify changes a group's name or currency. Editing a tombstoned group
// is rejected.
func (r *Groups) Modify(ctx context.Context, token, name, currency string) error {
	lock := r.locks.get(groupScope)
	lock.Lock()
	defer lock.Unlock()

	group, err := r.store.GetGroup(ctx, token)
	if err != nil {
		return fmt.Errorf("modify group: %w", err)
	}
	if group.Status == models.StatusToDelete {
		return fmt.Errorf("modify group %s: group is deleted", token)
	}

	prev := group.Status
	group.Name = name
	group.Currency = currency
	group.ModifiedAt = models.NowStamp()

	pushErr := r.api.UpsertGroup(ctx, *group)
	observePush("group", pushErr)
	if pushErr != nil {
		slog.Warn("group push failed, saved locally", "group", token, "error", pushErr)
	}
	group.Status = models.NextStatus(prev, pushErr != nil)

	if err := r.store.PutGroup(ctx, *group); err != nil {
		return fmt.Errorf("modify group: %w", err)
	}
	return r.publish(ctx)
}

// Delete removes a group from this device. Groups are never deleted
// remotely: other members may still use them, so leaving a group only
// tombstones it here and the next pass purges it. A group the remote
// has never seen is purged outright.
func (r *Groups) Delete(ctx context.Context, token string) error {
	lock := r.locks.get(groupScope)
	lock.Lock()
	defer lock.Unlock()

	group, err := r.store.GetGroup(ctx, token)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if group.Status == models.StatusToCreate {
		if err := r.store.DeleteGroup(ctx, token); err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		return r.publish(ctx)
	}

	group.Status = models.StatusToDelete
	group.ModifiedAt = models.NowStamp()
	if err := r.store.PutGroup(ctx, *group); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return r.publish(ctx)
}

// Join fetches a remote group by its shared token and stores it locally
// as already synced. Unlike the optimistic write paths, the remote
// fetch failing here is an error: there is nothing to save without it.
func (r *Groups) Join(ctx context.Context, token string) (models.Group, error) {
	lock := r.locks.get(groupScope)
	lock.Lock()
	defer lock.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	group, err := r.api.GetGroup(fetchCtx, token)
	cancel()
	if err != nil {
		return models.Group{}, fmt.Errorf("join group: %w", err)
	}

	group.Status = models.StatusNothing
	if err := r.store.PutGroup(ctx, *group); err != nil {
		return models.Group{}, fmt.Errorf("join group: %w", err)
	}
	if err := r.publish(ctx); err != nil {
		return models.Group{}, err
	}
	return *group, nil
}

// Synchronize converges every locally known group with the remote
// authority: tombstones are purged, pending rows pushed, then each
// group is refreshed from the remote copy under last-modified-wins.
// Only local store errors are returned.
func (r *Groups) Synchronize(ctx context.Context) error {
	lock := r.locks.get(groupScope)
	lock.Lock()
	defer lock.Unlock()

	local, err := r.store.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("synchronize groups: %w", err)
	}

	for _, group := range local {
		switch group.Status {
		case models.StatusToDelete:
			if err := r.store.DeleteGroup(ctx, group.Token); err != nil {
				return fmt.Errorf("synchronize groups: %w", err)
			}
		case models.StatusToCreate, models.StatusToUpdate:
			if err := r.api.UpsertGroup(ctx, group); err != nil {
				slog.Warn("group push failed, retrying next pass", "group", group.Token, "error", err)
				pushFailures.WithLabelValues("group").Inc()
				continue
			}
			group.Status = models.StatusNothing
			if err := r.store.PutGroup(ctx, group); err != nil {
				return fmt.Errorf("synchronize groups: %w", err)
			}
		}
	}

	// Refresh phase: absorb remote edits for every surviving group.
	remaining, err := r.store.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("synchronize groups: %w", err)
	}
	for _, group := range remaining {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		remote, err := r.api.GetGroup(fetchCtx, group.Token)
		cancel()
		if err != nil {
			slog.Warn("group fetch failed, keeping local state", "group", group.Token, "error", err)
			syncPasses.WithLabelValues("group", "fetch_failed").Inc()
			continue
		}
		// Never-synced content wins an id collision outright, matching
		// the merge planner; other pending rows only win on recency.
		if group.Status == models.StatusToCreate ||
			(group.Status.Pending() && models.StampNewer(group.ModifiedAt, remote.ModifiedAt)) {
			continue
		}
		remote.Status = models.StatusNothing
		if err := r.store.PutGroup(ctx, *remote); err != nil {
			return fmt.Errorf("synchronize groups: %w", err)
		}
	}

	syncPasses.WithLabelValues("group", "ok").Inc()
	return r.publish(ctx)
}

// Claim binds this device to a member within a group (upsert).
func (r *Groups) Claim(ctx context.Context, groupToken, memberUUID string) error {
	err := r.store.PutBinding(ctx, models.UserBinding{GroupToken: groupToken, MemberUUID: memberUUID})
	if err != nil {
		return fmt.Errorf("claim member: %w", err)
	}
	return nil
}

// BoundMember returns the member this device acts as within a group.
func (r *Groups) BoundMember(ctx context.Context, groupToken string) (*models.UserBinding, error) {
	binding, err := r.store.GetBinding(ctx, groupToken)
	if err != nil {
		return nil, fmt.Errorf("bound member: %w", err)
	}
	return binding, nil
}

func (r *Groups) visible(ctx context.Context) ([]models.Group, error) {
	all, err := r.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups := make([]models.Group, 0, len(all))
	for _, g := range all {
		if g.Status != models.StatusToDelete {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

func (r *Groups) publish(ctx context.Context) error {
	groups, err := r.visible(ctx)
	if err != nil {
		return err
	}
	r.proj.Publish(groups)
	return nil
}
