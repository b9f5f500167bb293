package synchronizer

import (
	"context"
	errs "errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/errors"
	"github.com/hlra-health/profilesync/metrics"
	"github.com/hlra-health/profilesync/pointer"
	"github.com/hlra-health/profilesync/profiles"
)

// initializeTimeout bounds a shared initialization attempt, which outlives the callers waiting for it
const initializeTimeout = time.Minute

var Module = fx.Provide(
	NewSynchronizer,
	func(s *Synchronizer) profiles.Service { return s },
)

type Params struct {
	fx.In

	Config  *config.Config
	Remote  profiles.RemoteService
	Cache   profiles.Cache
	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics
	Clock   func() time.Time `optional:"true"`
}

// Synchronizer keeps the profile set of the signed in account in memory. The remote
// service is the source of truth, the cache is consulted only when the remote is
// unreachable or has no profiles.
type Synchronizer struct {
	remote             profiles.RemoteService
	cache              profiles.Cache
	logger             *zap.SugaredLogger
	metrics            *metrics.Metrics
	now                func() time.Time
	defaultProfileName string

	group singleflight.Group

	mu         sync.RWMutex
	accountId  string
	generation uint64
	ready      bool
	set        profiles.ProfileSet
	// switchSeq identifies the latest switch, older switches don't roll back newer ones
	switchSeq uint64
	// confirmedActiveId is the active profile last agreed with the remote service, failed switches restore it
	confirmedActiveId *string

	// persistMu orders cache writes so that the cache never moves back to an older snapshot
	persistMu sync.Mutex

	observersMu    sync.Mutex
	observers      map[uint64]*subscription
	nextObserverId uint64
}

var _ profiles.Service = &Synchronizer{}

type subscription struct {
	observer profiles.Observer
	active   atomic.Bool
	once     sync.Once
}

func NewSynchronizer(p Params) (*Synchronizer, error) {
	if p.Remote == nil {
		return nil, errs.New("remote profile service is required")
	}
	if p.Cache == nil {
		return nil, errs.New("profile cache is required")
	}
	now := p.Clock
	if now == nil {
		now = time.Now
	}
	name := "My Profile"
	if p.Config != nil && p.Config.DefaultProfileName != "" {
		name = p.Config.DefaultProfileName
	}
	m := p.Metrics
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Synchronizer{
		remote:             p.Remote,
		cache:              p.Cache,
		logger:             p.Logger,
		metrics:            m,
		now:                now,
		defaultProfileName: name,
		observers:          map[uint64]*subscription{},
	}, nil
}

// Initialize loads the profile set of the account. Concurrent calls for the same account
// share a single attempt. Initializing a different account discards the current state first.
func (s *Synchronizer) Initialize(ctx context.Context, accountId string) error {
	if accountId == "" {
		return fmt.Errorf("%w: account id is required", profiles.ErrValidation)
	}

	s.mu.Lock()
	discarded := false
	if s.accountId != accountId {
		discarded = s.ready
		s.discard(accountId)
	}
	generation := s.generation
	s.mu.Unlock()

	if discarded {
		s.logger.Infow("discarded profiles of the previous account", "accountId", accountId)
		s.notify()
	}

	key := fmt.Sprintf("%s/%d", accountId, generation)
	attempt := s.group.DoChan(key, func() (any, error) {
		attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), initializeTimeout)
		defer cancel()
		return nil, s.initialize(attemptCtx, accountId, generation)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-attempt:
		if result.Shared {
			s.logger.Debugw("joined in-flight initialization", "accountId", accountId)
		}
		return result.Err
	}
}

func (s *Synchronizer) initialize(ctx context.Context, accountId string, generation uint64) error {
	set, strategy, err := s.load(ctx, accountId)
	if err != nil {
		return err
	}
	set.AccountId = accountId
	if strategy != metrics.StrategyCache {
		set.LastSynced = s.now()
	}
	set.EnsureActive()

	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		s.logger.Infow("discarding stale initialization result", "accountId", accountId, "strategy", strategy)
		return profiles.ErrAccountChanged
	}
	s.set = set
	s.confirmedActiveId = pointer.Clone(set.ActiveProfileId)
	s.ready = true
	s.mu.Unlock()

	s.metrics.InitializeTotal.WithLabelValues(strategy).Inc()
	s.logger.Infow("profiles initialized",
		"accountId", accountId,
		"strategy", strategy,
		"count", len(set.Profiles),
		"activeProfileId", set.ActiveProfileId,
	)

	s.persist(ctx, generation)
	s.notify()
	return nil
}

// load resolves the profile set using the remote service, then the cache and finally a default self profile
func (s *Synchronizer) load(ctx context.Context, accountId string) (profiles.ProfileSet, string, error) {
	var cached *profiles.ProfileSet
	var cacheLoaded bool
	loadCache := func() *profiles.ProfileSet {
		if !cacheLoaded {
			cacheLoaded = true
			c, err := s.cache.Load(ctx, accountId)
			if err != nil {
				s.logger.Warnw("unable to load cached profiles", "accountId", accountId, "error", err)
			}
			cached = c
		}
		return cached
	}

	list, err := s.remote.ListProfiles(ctx, accountId)
	if aborted(ctx, err) {
		return profiles.ProfileSet{}, "", abortError(ctx, err)
	}
	if err != nil {
		s.logger.Warnw("unable to fetch profiles from the remote service", "accountId", accountId, "error", err)
	}
	if err == nil && len(list) > 0 {
		set := profiles.ProfileSet{AccountId: accountId, Profiles: s.sanitize(accountId, list)}
		set.ActiveProfileId = s.resolveActive(ctx, accountId, set, loadCache)
		if ctx.Err() != nil {
			return profiles.ProfileSet{}, "", ctx.Err()
		}
		return set, metrics.StrategyRemote, nil
	}

	if c := loadCache(); !c.IsEmpty() {
		set := c.Clone()
		if err := set.Validate(); err != nil {
			s.logger.Warnw("repairing cached profile set", "accountId", accountId, "error", err)
		}
		return set, metrics.StrategyCache, nil
	}

	return s.createDefault(ctx, accountId)
}

// resolveActive prefers the remote active profile, then the cached active profile and finally self
func (s *Synchronizer) resolveActive(ctx context.Context, accountId string, set profiles.ProfileSet, loadCache func() *profiles.ProfileSet) *string {
	active, err := s.remote.GetActiveProfile(ctx, accountId)
	if err != nil {
		s.logger.Warnw("unable to fetch the active profile from the remote service", "accountId", accountId, "error", err)
	} else if active != nil && set.Index(active.Id) >= 0 {
		id := active.Id
		return &id
	}

	if c := loadCache(); c != nil && c.ActiveProfileId != nil && set.Index(*c.ActiveProfileId) >= 0 {
		id := *c.ActiveProfileId
		return &id
	}

	set.EnsureActive()
	return set.ActiveProfileId
}

func (s *Synchronizer) createDefault(ctx context.Context, accountId string) (profiles.ProfileSet, string, error) {
	create, err := profiles.Create{
		Name:              s.defaultProfileName,
		Relationship:      profiles.RelationshipSelf,
		RelationshipLabel: pointer.FromAny("Self"),
	}.Normalize()
	if err != nil {
		return profiles.ProfileSet{}, "", err
	}

	strategy := metrics.StrategyDefault
	profile, err := s.remote.CreateProfile(ctx, accountId, create)
	if aborted(ctx, err) {
		return profiles.ProfileSet{}, "", abortError(ctx, err)
	}
	if err != nil || profile == nil {
		s.logger.Warnw("unable to create the default profile remotely, using a local profile", "accountId", accountId, "error", err)
		profile = s.newLocalProfile(accountId, create)
		strategy = metrics.StrategyDefaultLocal
	}

	self := s.sanitize(accountId, []profiles.Profile{*profile})[0]
	self.Relationship = profiles.RelationshipSelf
	self.Permissions = profiles.FullPermissions()
	set := profiles.ProfileSet{
		AccountId:       accountId,
		Profiles:        []profiles.Profile{self},
		ActiveProfileId: &self.Id,
	}
	return set, strategy, nil
}

func (s *Synchronizer) newLocalProfile(accountId string, create profiles.Create) *profiles.Profile {
	now := s.now()
	profile := &profiles.Profile{
		Id:                uuid.NewString(),
		AccountId:         accountId,
		Name:              create.Name,
		Relationship:      create.Relationship,
		RelationshipLabel: create.RelationshipLabel,
		DateOfBirth:       create.DateOfBirth,
		Gender:            create.Gender,
		BloodType:         create.BloodType,
		Phone:             create.Phone,
		Email:             create.Email,
		Avatar:            create.Avatar,
		Notes:             create.Notes,
		EmergencyContact:  create.EmergencyContact,
		Permissions:       profiles.PermissionsFor(create.Relationship, create.Permissions),
		LocalOnly:         true,
		CreatedTime:       now,
		UpdatedTime:       now,
	}
	if create.HealthInfo != nil {
		profile.HealthInfo = *create.HealthInfo
	}
	return profile
}

// sanitize copies the profiles and enforces ownership and the self profile capabilities
func (s *Synchronizer) sanitize(accountId string, list []profiles.Profile) []profiles.Profile {
	result := deepcopy.Copy(list).([]profiles.Profile)
	for i := range result {
		if result[i].AccountId == "" {
			result[i].AccountId = accountId
		}
		if result[i].IsSelf() {
			result[i].Permissions = profiles.FullPermissions()
		}
	}
	return result
}

// Reset discards the in-memory state. In-flight operations for the previous account are discarded when they complete.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	wasReady := s.ready
	s.discard("")
	s.mu.Unlock()

	if wasReady {
		s.notify()
	}
}

// discard must be called with the lock held
func (s *Synchronizer) discard(accountId string) {
	s.generation++
	s.accountId = accountId
	s.ready = false
	s.set = profiles.ProfileSet{AccountId: accountId}
	s.confirmedActiveId = nil
}

func (s *Synchronizer) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Synchronizer) AccountId() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountId
}

func (s *Synchronizer) GetProfiles() []profiles.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		s.logger.Warnw("profiles requested before initialization", "accountId", s.accountId)
		return []profiles.Profile{}
	}
	return deepcopy.Copy(s.set.Profiles).([]profiles.Profile)
}

func (s *Synchronizer) GetActiveProfile() *profiles.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		s.logger.Warnw("active profile requested before initialization", "accountId", s.accountId)
		return nil
	}
	return s.activeCopy()
}

// activeCopy must be called with the lock held
func (s *Synchronizer) activeCopy() *profiles.Profile {
	active, ok := s.set.Active()
	if !ok {
		return nil
	}
	return deepcopy.Copy(active).(*profiles.Profile)
}

// SwitchProfile makes the profile active locally, then persists the change remotely.
// If the remote service fails the active profile goes back to the last one the remote
// confirmed, unless a newer switch was issued in the meantime.
func (s *Synchronizer) SwitchProfile(ctx context.Context, profileId string) (*profiles.Profile, error) {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return nil, profiles.ErrNotInitialized
	}
	target, ok := s.set.Get(profileId)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", profiles.ErrNotFound, profileId)
	}
	localOnly := target.LocalOnly
	accountId := s.accountId
	generation := s.generation
	s.switchSeq++
	seq := s.switchSeq
	id := profileId
	s.set.ActiveProfileId = &id
	s.mu.Unlock()
	s.notify()

	var err error
	if !localOnly {
		err = s.remote.SetActiveProfile(ctx, accountId, profileId)
	}

	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		return nil, profiles.ErrAccountChanged
	}
	if err != nil {
		rolledBack := false
		if s.switchSeq == seq {
			s.set.ActiveProfileId = pointer.Clone(s.confirmedActiveId)
			s.set.EnsureActive()
			rolledBack = true
		}
		s.mu.Unlock()

		s.logger.Warnw("unable to switch the active profile",
			"accountId", accountId,
			"profileId", profileId,
			"rolledBack", rolledBack,
			"error", err,
		)
		if rolledBack {
			s.metrics.SwitchRollbacksTotal.Inc()
			s.notify()
		}
		return nil, s.remoteError(err)
	}

	// The last completed switch wins
	changed := false
	if s.set.Index(profileId) >= 0 {
		s.confirmedActiveId = pointer.FromAny(profileId)
		if s.set.ActiveProfileId == nil || *s.set.ActiveProfileId != profileId {
			s.set.ActiveProfileId = &id
			changed = true
		}
	}
	result, _ := s.set.Get(profileId)
	var switched *profiles.Profile
	if result != nil {
		switched = deepcopy.Copy(result).(*profiles.Profile)
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	s.persist(ctx, generation)

	if switched == nil {
		return nil, fmt.Errorf("%w: %s", profiles.ErrNotFound, profileId)
	}
	s.logger.Infow("switched active profile", "accountId", accountId, "profileId", profileId)
	return switched, nil
}

// CreateProfile persists the profile remotely and adds the confirmed record to the set
func (s *Synchronizer) CreateProfile(ctx context.Context, create profiles.Create) (*profiles.Profile, error) {
	normalized, err := create.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	if !s.ready {
		s.mu.RUnlock()
		return nil, profiles.ErrNotInitialized
	}
	_, hasSelf := s.set.Self()
	accountId := s.accountId
	generation := s.generation
	s.mu.RUnlock()

	if hasSelf && normalized.Relationship == profiles.RelationshipSelf {
		return nil, fmt.Errorf("%w: a self profile already exists", profiles.ErrValidation)
	}

	profile, err := s.remote.CreateProfile(ctx, accountId, normalized)
	if err != nil {
		s.logger.Warnw("unable to create profile", "accountId", accountId, "error", err)
		return nil, s.remoteError(err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: empty create response", profiles.ErrRemoteUnavailable)
	}

	created := s.sanitize(accountId, []profiles.Profile{*profile})[0]

	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		return nil, profiles.ErrAccountChanged
	}
	s.set.Upsert(created)
	s.set.EnsureActive()
	s.mu.Unlock()

	s.logger.Infow("created profile", "accountId", accountId, "profileId", created.Id)
	s.notify()
	s.persist(ctx, generation)
	return deepcopy.Copy(&created).(*profiles.Profile), nil
}

// UpdateProfile applies the mutable fields of the update. Changes to the identity, ownership,
// relationship and creation time are ignored.
func (s *Synchronizer) UpdateProfile(ctx context.Context, profileId string, update profiles.Update) (*profiles.Profile, error) {
	update = update.Mutable()
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: profile name is required", profiles.ErrValidation)
	}

	s.mu.RLock()
	if !s.ready {
		s.mu.RUnlock()
		return nil, profiles.ErrNotInitialized
	}
	existing, ok := s.set.Get(profileId)
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", profiles.ErrNotFound, profileId)
	}
	current := deepcopy.Copy(*existing).(profiles.Profile)
	accountId := s.accountId
	generation := s.generation
	s.mu.RUnlock()

	updated := update.Apply(current, s.now())
	if !current.LocalOnly {
		confirmed, err := s.remote.UpdateProfile(ctx, accountId, profileId, update)
		if err != nil {
			s.logger.Warnw("unable to update profile", "accountId", accountId, "profileId", profileId, "error", err)
			return nil, s.remoteError(err)
		}
		if confirmed != nil {
			updated = *confirmed
		}
	}

	// The remote response can't change the immutable fields either
	updated.Id = current.Id
	updated.AccountId = current.AccountId
	updated.Relationship = current.Relationship
	updated.CreatedTime = current.CreatedTime
	updated.LocalOnly = current.LocalOnly
	if updated.IsSelf() {
		updated.Permissions = profiles.FullPermissions()
	}

	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		return nil, profiles.ErrAccountChanged
	}
	if s.set.Index(profileId) < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", profiles.ErrNotFound, profileId)
	}
	s.set.Upsert(updated)
	s.mu.Unlock()

	s.logger.Infow("updated profile", "accountId", accountId, "profileId", profileId)
	s.notify()
	s.persist(ctx, generation)
	return deepcopy.Copy(&updated).(*profiles.Profile), nil
}

// DeleteProfile removes a family member profile. The active profile moves to self if the deleted profile was active.
func (s *Synchronizer) DeleteProfile(ctx context.Context, profileId string) error {
	s.mu.RLock()
	if !s.ready {
		s.mu.RUnlock()
		return profiles.ErrNotInitialized
	}
	existing, ok := s.set.Get(profileId)
	if !ok {
		s.mu.RUnlock()
		return fmt.Errorf("%w: %s", profiles.ErrNotFound, profileId)
	}
	isSelf := existing.IsSelf()
	localOnly := existing.LocalOnly
	accountId := s.accountId
	generation := s.generation
	s.mu.RUnlock()

	if isSelf {
		return profiles.ErrCannotDeleteSelf
	}

	if !localOnly {
		if err := s.remote.DeleteProfile(ctx, accountId, profileId); err != nil && !errs.Is(err, errors.NotFound) {
			s.logger.Warnw("unable to delete profile", "accountId", accountId, "profileId", profileId, "error", err)
			return s.remoteError(err)
		}
	}

	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		return profiles.ErrAccountChanged
	}
	s.set.Remove(profileId)
	if pointer.ToString(s.confirmedActiveId) == profileId {
		s.confirmedActiveId = pointer.Clone(s.set.ActiveProfileId)
	}
	s.mu.Unlock()

	s.logger.Infow("deleted profile", "accountId", accountId, "profileId", profileId)
	s.notify()
	s.persist(ctx, generation)
	return nil
}

func (s *Synchronizer) HasPermission(capability string) bool {
	active := s.GetActiveProfile()
	if active == nil {
		return false
	}
	return active.Permissions.Has(capability)
}

// GetHealthInsights returns nil when there is no active profile
func (s *Synchronizer) GetHealthInsights() *profiles.HealthInsights {
	active := s.GetActiveProfile()
	if active == nil {
		return nil
	}
	insights := profiles.NewHealthInsights(*active, s.now())
	return &insights
}

// Subscribe registers an observer that is called after every change. The returned function
// unregisters the observer, it can be called any number of times, including from within the observer.
func (s *Synchronizer) Subscribe(observer profiles.Observer) func() {
	sub := &subscription{observer: observer}
	sub.active.Store(true)

	s.observersMu.Lock()
	id := s.nextObserverId
	s.nextObserverId++
	s.observers[id] = sub
	s.observersMu.Unlock()

	return func() {
		sub.once.Do(func() {
			sub.active.Store(false)
			s.observersMu.Lock()
			delete(s.observers, id)
			s.observersMu.Unlock()
		})
	}
}

// notify delivers a snapshot of the current state to the observers outside of any lock
func (s *Synchronizer) notify() {
	s.observersMu.Lock()
	ids := make([]uint64, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	subs := make([]*subscription, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.observers[id])
	}
	s.observersMu.Unlock()
	if len(subs) == 0 {
		return
	}

	s.mu.RLock()
	snapshot := s.set.Clone()
	s.mu.RUnlock()

	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		view := snapshot.Clone()
		if view.Profiles == nil {
			view.Profiles = []profiles.Profile{}
		}
		sub.observer(view.Profiles, view.ActiveProfileId)
	}
}

// persist writes the current set to the cache. Failures are logged, the cache is best effort.
func (s *Synchronizer) persist(ctx context.Context, generation uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	if s.generation != generation || !s.ready {
		s.mu.RUnlock()
		return
	}
	snapshot := s.set.Clone()
	s.mu.RUnlock()

	if err := s.cache.Save(ctx, snapshot); err != nil {
		s.logger.Warnw("unable to cache profiles", "accountId", snapshot.AccountId, "error", err)
	}
}

// aborted reports whether the attempt was cancelled or ran out of time, which says nothing about the remote service
func aborted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || (err != nil && errs.Is(err, context.Canceled))
}

func abortError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("profile initialization aborted: %w", ctx.Err())
	}
	return fmt.Errorf("profile initialization aborted: %w", err)
}

// remoteError keeps rejections of the caller's input and marks everything else as unavailable
func (s *Synchronizer) remoteError(err error) error {
	if errors.IsRemote(err) {
		return fmt.Errorf("%w: %w", profiles.ErrRemoteUnavailable, err)
	}
	return err
}
