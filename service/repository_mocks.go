package service

import (
	"context"
	"time"

	"clubstake/events"
	"clubstake/models"

	"github.com/stretchr/testify/mock"
)

// MockStakeRepository is a mock implementation of StakeRepository
type MockStakeRepository struct {
	mock.Mock
}

func (m *MockStakeRepository) ListByClub(ctx context.Context, clubName string) ([]*models.StakeEntry, error) {
	args := m.Called(ctx, clubName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StakeEntry), args.Error(1)
}

func (m *MockStakeRepository) ReplaceClub(ctx context.Context, clubName string, entries []*models.StakeEntry) error {
	args := m.Called(ctx, clubName, entries)
	return args.Error(0)
}

func (m *MockStakeRepository) ListClubs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStakeRepository) ListAll(ctx context.Context) ([]*models.StakeEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StakeEntry), args.Error(1)
}

func (m *MockStakeRepository) ListByStaker(ctx context.Context, stakerAddress string) ([]*models.StakeEntry, error) {
	args := m.Called(ctx, stakerAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StakeEntry), args.Error(1)
}

// MockBondRepository is a mock implementation of BondRepository
type MockBondRepository struct {
	mock.Mock
}

func (m *MockBondRepository) ListByClub(ctx context.Context, clubName string) ([]*models.BondEntry, error) {
	args := m.Called(ctx, clubName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BondEntry), args.Error(1)
}

func (m *MockBondRepository) ReplaceClub(ctx context.Context, clubName string, bonds []*models.BondEntry) error {
	args := m.Called(ctx, clubName, bonds)
	return args.Error(0)
}

func (m *MockBondRepository) ListClubs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBondRepository) ListAll(ctx context.Context) ([]*models.BondEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BondEntry), args.Error(1)
}

func (m *MockBondRepository) ListByBonder(ctx context.Context, bonderAddress string) ([]*models.BondEntry, error) {
	args := m.Called(ctx, bonderAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BondEntry), args.Error(1)
}

// MockOwnershipRepository is a mock implementation of OwnershipRepository
type MockOwnershipRepository struct {
	mock.Mock
}

func (m *MockOwnershipRepository) Get(ctx context.Context, clubName string) (*models.ClubOwnership, error) {
	args := m.Called(ctx, clubName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClubOwnership), args.Error(1)
}

func (m *MockOwnershipRepository) Save(ctx context.Context, ownership *models.ClubOwnership) error {
	args := m.Called(ctx, ownership)
	return args.Error(0)
}

func (m *MockOwnershipRepository) List(ctx context.Context) ([]*models.ClubOwnership, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ClubOwnership), args.Error(1)
}

func (m *MockOwnershipRepository) ListByOwner(ctx context.Context, ownerAddress string) ([]*models.ClubOwnership, error) {
	args := m.Called(ctx, ownerAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ClubOwnership), args.Error(1)
}

// MockPreviousOwnerRewardRepository is a mock implementation of PreviousOwnerRewardRepository
type MockPreviousOwnerRewardRepository struct {
	mock.Mock
}

func (m *MockPreviousOwnerRewardRepository) Get(ctx context.Context, ownerAddress string) (*models.PreviousOwnerReward, error) {
	args := m.Called(ctx, ownerAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PreviousOwnerReward), args.Error(1)
}

func (m *MockPreviousOwnerRewardRepository) Save(ctx context.Context, reward *models.PreviousOwnerReward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockPreviousOwnerRewardRepository) Delete(ctx context.Context, ownerAddress string) error {
	args := m.Called(ctx, ownerAddress)
	return args.Error(0)
}

func (m *MockPreviousOwnerRewardRepository) List(ctx context.Context) ([]*models.PreviousOwnerReward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PreviousOwnerReward), args.Error(1)
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Load(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockSnapshotRepository) Save(ctx context.Context, clubName string, totalStake int64) error {
	args := m.Called(ctx, clubName, totalStake)
	return args.Error(0)
}

// MockRewardStateRepository is a mock implementation of RewardStateRepository
type MockRewardStateRepository struct {
	mock.Mock
}

func (m *MockRewardStateRepository) Get(ctx context.Context) (*models.RewardState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RewardState), args.Error(1)
}

func (m *MockRewardStateRepository) SetPool(ctx context.Context, pool int64) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockRewardStateRepository) SetNextDistributionTime(ctx context.Context, next time.Time) error {
	args := m.Called(ctx, next)
	return args.Error(0)
}

// MockPriceOracle is a mock implementation of PriceOracle
type MockPriceOracle struct {
	mock.Mock
}

func (m *MockPriceOracle) TokensForFee(ctx context.Context, feeAmount int64) (int64, error) {
	args := m.Called(ctx, feeAmount)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// RecordingPublisher collects published events so tests can assert on them
// without mock expectations.
type RecordingPublisher struct {
	Events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) {
	p.Events = append(p.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	stakeRepo      StakeRepository
	bondRepo       BondRepository
	ownershipRepo  OwnershipRepository
	prevOwnerRepo  PreviousOwnerRewardRepository
	snapshotRepo   SnapshotRepository
	rewardRepo     RewardStateRepository
	eventPublisher EventPublisher
}

// SetRepositories wires the repositories returned by the getter methods
func (m *MockUnitOfWork) SetRepositories(
	stakeRepo StakeRepository,
	bondRepo BondRepository,
	ownershipRepo OwnershipRepository,
	prevOwnerRepo PreviousOwnerRewardRepository,
	snapshotRepo SnapshotRepository,
	rewardRepo RewardStateRepository,
) {
	m.stakeRepo = stakeRepo
	m.bondRepo = bondRepo
	m.ownershipRepo = ownershipRepo
	m.prevOwnerRepo = prevOwnerRepo
	m.snapshotRepo = snapshotRepo
	m.rewardRepo = rewardRepo
	m.eventPublisher = &RecordingPublisher{}
}

// SetEventPublisher overrides the default recording publisher
func (m *MockUnitOfWork) SetEventPublisher(publisher EventPublisher) {
	m.eventPublisher = publisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) StakeRepository() StakeRepository {
	return m.stakeRepo
}

func (m *MockUnitOfWork) BondRepository() BondRepository {
	return m.bondRepo
}

func (m *MockUnitOfWork) OwnershipRepository() OwnershipRepository {
	return m.ownershipRepo
}

func (m *MockUnitOfWork) PreviousOwnerRewardRepository() PreviousOwnerRewardRepository {
	return m.prevOwnerRepo
}

func (m *MockUnitOfWork) SnapshotRepository() SnapshotRepository {
	return m.snapshotRepo
}

func (m *MockUnitOfWork) RewardStateRepository() RewardStateRepository {
	return m.rewardRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventPublisher
}

// Published returns the events captured by the default recording publisher
func (m *MockUnitOfWork) Published() []events.Event {
	if recorder, ok := m.eventPublisher.(*RecordingPublisher); ok {
		return recorder.Events
	}
	return nil
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
