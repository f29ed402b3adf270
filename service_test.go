package projectcache

import (
	"errors"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

// slotOwner implements Holder with a plain field, the way a host-side
// project object would.
type slotOwner struct {
	artifact *int
}

func (o *slotOwner) CachedArtifact() *int     { return o.artifact }
func (o *slotOwner) SetCachedArtifact(a *int) { o.artifact = a }

// recordRing counts offers without retaining anything, for routing tests.
type recordRing struct {
	offers []*int
}

func (r *recordRing) Offer(a *int)           { r.offers = append(r.offers, a) }
func (r *recordRing) Len() int               { return len(r.offers) }
func (r *recordRing) PortionFilled() float64 { return 0 }
func (r *recordRing) Flush()                 { r.offers = nil }

// staticLiveSet is a fixed-answer LiveSetProvider.
type staticLiveSet struct {
	live map[string]bool
	err  error
}

func (p staticLiveSet) IsKeyLive(key string) (bool, error) {
	return p.live[key], p.err
}

func TestHolderSlotWrittenWhenEnabled(t *testing.T) {
	require := require.New(t)

	svc := New(Config[string, *int]{})
	scope := svc.EnableCaching("k")
	defer scope.Release()

	owner := &slotOwner{}
	first, second := new(int), new(int)

	svc.CacheIfEnabled("k", HeldBy[*int](owner), first)
	require.Same(first, owner.CachedArtifact())

	// A new offer overwrites the slot.
	svc.CacheIfEnabled("k", HeldBy[*int](owner), second)
	require.Same(second, owner.CachedArtifact())

	var st Stats
	svc.UpdateStats(&st)
	require.Equal(uint64(2), st.HeldOffers)
	require.Zero(st.FallbackArtifacts)
}

func TestHolderSlotUntouchedWhenDisabled(t *testing.T) {
	require := require.New(t)

	svc := New(Config[string, *int]{})
	owner := &slotOwner{}

	svc.CacheIfEnabled("k", HeldBy[*int](owner), new(int))
	require.Nil(owner.CachedArtifact())

	var st Stats
	svc.UpdateStats(&st)
	require.Equal(uint64(1), st.RejectedDisabled)
}

func TestFallbackIdempotentOnSameArtifact(t *testing.T) {
	require := require.New(t)

	svc := New(Config[string, *int]{})
	scope := svc.EnableCaching("k")
	defer scope.Release()

	a := new(int)
	svc.CacheIfEnabled("k", OwnedBy[*int]("orchestrator"), a)
	svc.CacheIfEnabled("k", OwnedBy[*int]("orchestrator"), a)

	var st Stats
	svc.UpdateStats(&st)
	require.Equal(uint64(1), st.FallbackInserts)
	require.Equal(uint64(1), st.FallbackHits)
	require.Equal(1, st.FallbackArtifacts)
}

func TestFallbackSeparatesOwnerIdentities(t *testing.T) {
	require := require.New(t)

	svc := New(Config[string, *int]{})
	scope := svc.EnableCaching("k")
	defer scope.Release()

	a := new(int)
	svc.CacheIfEnabled("k", OwnedBy[*int]("alpha"), a)
	svc.CacheIfEnabled("k", OwnedBy[*int]("beta"), a)

	var st Stats
	svc.UpdateStats(&st)
	require.Equal(uint64(2), st.FallbackInserts)
	require.Equal(2, st.FallbackArtifacts)
}

func TestOwnerlessOfferIgnoredWithoutImplicitCache(t *testing.T) {
	require := require.New(t)

	svc := New(Config[string, *int]{})
	scope := svc.EnableCaching("k")
	defer scope.Release()

	svc.CacheIfEnabled("k", NoOwner[*int](), new(int))

	var st Stats
	svc.UpdateStats(&st)
	require.Zero(st.ImplicitAccepts)
	require.Equal(uint64(1), st.RejectedDisabled)
}

func TestOwnerlessOfferBypassesScopeState(t *testing.T) {
	require := require.New(t)

	ring := &recordRing{}
	svc := New(Config[string, *int]{
		EnableImplicitCache: true,
		Ring:                ring,
	})

	// No scope has ever been enabled for this key.
	svc.CacheIfEnabled("k", NoOwner[*int](), new(int))
	require.Equal(1, ring.Len())

	var st Stats
	svc.UpdateStats(&st)
	require.Equal(uint64(1), st.ImplicitAccepts)
	require.Equal(1, st.ImplicitLen)
}

func TestLiveKeysRejectedFromImplicitCache(t *testing.T) {
	require := require.New(t)

	ring := &recordRing{}
	svc := New(Config[string, *int]{
		EnableImplicitCache: true,
		Ring:                ring,
		LiveSet:             staticLiveSet{live: map[string]bool{"tracked": true}},
	})

	svc.CacheIfEnabled("tracked", NoOwner[*int](), new(int))
	svc.CacheIfEnabled("orphaned", NoOwner[*int](), new(int))

	require.Equal(1, ring.Len())

	var st Stats
	svc.UpdateStats(&st)
	require.Equal(uint64(1), st.RejectedLive)
	require.Equal(uint64(1), st.ImplicitAccepts)
}

func TestLiveSetFailureRejectsOffer(t *testing.T) {
	require := require.New(t)

	ring := &recordRing{}
	svc := New(Config[string, *int]{
		EnableImplicitCache: true,
		Ring:                ring,
		LiveSet:             staticLiveSet{err: errors.New("host unavailable")},
	})

	// The gate is inconclusive, so the offer must be dropped, never
	// surfaced as a failure.
	svc.CacheIfEnabled("k", NoOwner[*int](), new(int))

	require.Zero(ring.Len())

	var st Stats
	svc.UpdateStats(&st)
	require.Equal(uint64(1), st.RejectedLiveQuery)
	require.Zero(st.ImplicitAccepts)
}

func TestOpaqueOfferDroppedWhenDisabled(t *testing.T) {
	require := require.New(t)

	svc := New(Config[string, *int]{EnableImplicitCache: true})

	// An opaque owner never reaches the implicit ring, even when the ring
	// is configured.
	svc.CacheIfEnabled("k", OwnedBy[*int]("owner"), new(int))

	var st Stats
	svc.UpdateStats(&st)
	require.Equal(uint64(1), st.RejectedDisabled)
	require.Zero(st.ImplicitLen)
}

func TestDefaultImplicitCapacity(t *testing.T) {
	require := require.New(t)

	svc := New(Config[string, *int]{EnableImplicitCache: true})
	for range DefaultImplicitCapacity + 3 {
		svc.CacheIfEnabled("k", NoOwner[*int](), new(int))
	}

	var st Stats
	svc.UpdateStats(&st)
	require.Equal(DefaultImplicitCapacity, st.ImplicitLen)
}

func TestProjectIDKeys(t *testing.T) {
	require := require.New(t)

	svc := New(Config[ids.ID, *int]{})
	key := ids.GenerateTestID()

	scope := svc.EnableCaching(key)
	require.True(svc.CachingEnabled(key))
	require.False(svc.CachingEnabled(ids.GenerateTestID()))

	scope.Release()
	require.False(svc.CachingEnabled(key))
}
