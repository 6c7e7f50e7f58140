package service

import (
	"context"
	"sort"
	"time"

	"clubstake/events"
	"clubstake/models"
)

// memStore backs the in-memory unit of work used by scenario tests. Begin
// takes a deep copy, Commit writes it back, so rollback behavior matches the
// real transactional repositories.
type memStore struct {
	stakes      map[string][]*models.StakeEntry
	bonds       map[string][]*models.BondEntry
	ownerships  map[string]*models.ClubOwnership
	prevRewards map[string]*models.PreviousOwnerReward
	snapshots   map[string]int64
	rewardState models.RewardState
	published   []events.Event
}

func newMemStore() *memStore {
	return &memStore{
		stakes:      make(map[string][]*models.StakeEntry),
		bonds:       make(map[string][]*models.BondEntry),
		ownerships:  make(map[string]*models.ClubOwnership),
		prevRewards: make(map[string]*models.PreviousOwnerReward),
		snapshots:   make(map[string]int64),
	}
}

func (s *memStore) clone() *memStore {
	out := newMemStore()
	for club, entries := range s.stakes {
		out.stakes[club] = cloneStakes(entries)
	}
	for club, bonds := range s.bonds {
		out.bonds[club] = cloneBonds(bonds)
	}
	for club, ownership := range s.ownerships {
		copied := *ownership
		out.ownerships[club] = &copied
	}
	for owner, reward := range s.prevRewards {
		copied := *reward
		out.prevRewards[owner] = &copied
	}
	for club, total := range s.snapshots {
		out.snapshots[club] = total
	}
	out.rewardState = s.rewardState
	return out
}

func cloneStakes(entries []*models.StakeEntry) []*models.StakeEntry {
	out := make([]*models.StakeEntry, len(entries))
	for i, entry := range entries {
		copied := *entry
		out[i] = &copied
	}
	return out
}

func cloneBonds(bonds []*models.BondEntry) []*models.BondEntry {
	out := make([]*models.BondEntry, len(bonds))
	for i, bond := range bonds {
		copied := *bond
		out[i] = &copied
	}
	return out
}

func sortedClubs[T any](m map[string][]T) []string {
	var clubs []string
	for club, entries := range m {
		if len(entries) > 0 {
			clubs = append(clubs, club)
		}
	}
	sort.Strings(clubs)
	return clubs
}

type memUnitOfWork struct {
	store   *memStore
	working *memStore
	pending []events.Event
}

func (u *memUnitOfWork) Begin(ctx context.Context) error {
	u.working = u.store.clone()
	return nil
}

func (u *memUnitOfWork) Commit() error {
	published := append(u.store.published, u.pending...)
	*u.store = *u.working
	u.store.published = published
	u.pending = nil
	return nil
}

func (u *memUnitOfWork) Rollback() error {
	u.working = nil
	u.pending = nil
	return nil
}

func (u *memUnitOfWork) StakeRepository() StakeRepository { return &memStakeRepo{u.working} }
func (u *memUnitOfWork) BondRepository() BondRepository   { return &memBondRepo{u.working} }
func (u *memUnitOfWork) OwnershipRepository() OwnershipRepository {
	return &memOwnershipRepo{u.working}
}
func (u *memUnitOfWork) PreviousOwnerRewardRepository() PreviousOwnerRewardRepository {
	return &memPrevOwnerRepo{u.working}
}
func (u *memUnitOfWork) SnapshotRepository() SnapshotRepository {
	return &memSnapshotRepo{u.working}
}
func (u *memUnitOfWork) RewardStateRepository() RewardStateRepository {
	return &memRewardStateRepo{u.working}
}
func (u *memUnitOfWork) EventBus() EventPublisher { return (*memPublisher)(u) }

type memPublisher memUnitOfWork

func (p *memPublisher) Publish(event events.Event) {
	p.pending = append(p.pending, event)
}

type memUowFactory struct {
	store *memStore
}

func newMemUowFactory(store *memStore) *memUowFactory {
	return &memUowFactory{store: store}
}

func (f *memUowFactory) Create() UnitOfWork {
	return &memUnitOfWork{store: f.store}
}

type memStakeRepo struct{ s *memStore }

func (r *memStakeRepo) ListByClub(ctx context.Context, clubName string) ([]*models.StakeEntry, error) {
	return cloneStakes(r.s.stakes[clubName]), nil
}

func (r *memStakeRepo) ReplaceClub(ctx context.Context, clubName string, entries []*models.StakeEntry) error {
	r.s.stakes[clubName] = cloneStakes(entries)
	return nil
}

func (r *memStakeRepo) ListClubs(ctx context.Context) ([]string, error) {
	return sortedClubs(r.s.stakes), nil
}

func (r *memStakeRepo) ListAll(ctx context.Context) ([]*models.StakeEntry, error) {
	var all []*models.StakeEntry
	for _, club := range sortedClubs(r.s.stakes) {
		all = append(all, cloneStakes(r.s.stakes[club])...)
	}
	return all, nil
}

func (r *memStakeRepo) ListByStaker(ctx context.Context, stakerAddress string) ([]*models.StakeEntry, error) {
	var matched []*models.StakeEntry
	for _, club := range sortedClubs(r.s.stakes) {
		for _, entry := range r.s.stakes[club] {
			if entry.StakerAddress == stakerAddress {
				copied := *entry
				matched = append(matched, &copied)
			}
		}
	}
	return matched, nil
}

type memBondRepo struct{ s *memStore }

func (r *memBondRepo) ListByClub(ctx context.Context, clubName string) ([]*models.BondEntry, error) {
	return cloneBonds(r.s.bonds[clubName]), nil
}

func (r *memBondRepo) ReplaceClub(ctx context.Context, clubName string, bonds []*models.BondEntry) error {
	r.s.bonds[clubName] = cloneBonds(bonds)
	return nil
}

func (r *memBondRepo) ListClubs(ctx context.Context) ([]string, error) {
	return sortedClubs(r.s.bonds), nil
}

func (r *memBondRepo) ListAll(ctx context.Context) ([]*models.BondEntry, error) {
	var all []*models.BondEntry
	for _, club := range sortedClubs(r.s.bonds) {
		all = append(all, cloneBonds(r.s.bonds[club])...)
	}
	return all, nil
}

func (r *memBondRepo) ListByBonder(ctx context.Context, bonderAddress string) ([]*models.BondEntry, error) {
	var matched []*models.BondEntry
	for _, club := range sortedClubs(r.s.bonds) {
		for _, bond := range r.s.bonds[club] {
			if bond.BonderAddress == bonderAddress {
				copied := *bond
				matched = append(matched, &copied)
			}
		}
	}
	return matched, nil
}

type memOwnershipRepo struct{ s *memStore }

func (r *memOwnershipRepo) Get(ctx context.Context, clubName string) (*models.ClubOwnership, error) {
	ownership, ok := r.s.ownerships[clubName]
	if !ok {
		return nil, nil
	}
	copied := *ownership
	return &copied, nil
}

func (r *memOwnershipRepo) Save(ctx context.Context, ownership *models.ClubOwnership) error {
	copied := *ownership
	r.s.ownerships[ownership.ClubName] = &copied
	return nil
}

func (r *memOwnershipRepo) List(ctx context.Context) ([]*models.ClubOwnership, error) {
	var clubs []string
	for club := range r.s.ownerships {
		clubs = append(clubs, club)
	}
	sort.Strings(clubs)
	var out []*models.ClubOwnership
	for _, club := range clubs {
		copied := *r.s.ownerships[club]
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memOwnershipRepo) ListByOwner(ctx context.Context, ownerAddress string) ([]*models.ClubOwnership, error) {
	all, _ := r.List(ctx)
	var matched []*models.ClubOwnership
	for _, ownership := range all {
		if ownership.OwnerAddress == ownerAddress {
			matched = append(matched, ownership)
		}
	}
	return matched, nil
}

type memPrevOwnerRepo struct{ s *memStore }

func (r *memPrevOwnerRepo) Get(ctx context.Context, ownerAddress string) (*models.PreviousOwnerReward, error) {
	reward, ok := r.s.prevRewards[ownerAddress]
	if !ok {
		return nil, nil
	}
	copied := *reward
	return &copied, nil
}

func (r *memPrevOwnerRepo) Save(ctx context.Context, reward *models.PreviousOwnerReward) error {
	copied := *reward
	r.s.prevRewards[reward.OwnerAddress] = &copied
	return nil
}

func (r *memPrevOwnerRepo) Delete(ctx context.Context, ownerAddress string) error {
	delete(r.s.prevRewards, ownerAddress)
	return nil
}

func (r *memPrevOwnerRepo) List(ctx context.Context) ([]*models.PreviousOwnerReward, error) {
	var owners []string
	for owner := range r.s.prevRewards {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	var out []*models.PreviousOwnerReward
	for _, owner := range owners {
		copied := *r.s.prevRewards[owner]
		out = append(out, &copied)
	}
	return out, nil
}

type memSnapshotRepo struct{ s *memStore }

func (r *memSnapshotRepo) Load(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(r.s.snapshots))
	for club, total := range r.s.snapshots {
		out[club] = total
	}
	return out, nil
}

func (r *memSnapshotRepo) Save(ctx context.Context, clubName string, totalStake int64) error {
	r.s.snapshots[clubName] = totalStake
	return nil
}

type memRewardStateRepo struct{ s *memStore }

func (r *memRewardStateRepo) Get(ctx context.Context) (*models.RewardState, error) {
	state := r.s.rewardState
	return &state, nil
}

func (r *memRewardStateRepo) SetPool(ctx context.Context, pool int64) error {
	r.s.rewardState.RewardPool = pool
	return nil
}

func (r *memRewardStateRepo) SetNextDistributionTime(ctx context.Context, next time.Time) error {
	r.s.rewardState.NextDistributionTime = next
	return nil
}
