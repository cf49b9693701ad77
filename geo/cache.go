package geo

import (
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var (
	geocodeLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitemapper_geocode_lookups",
		Help: "The total number of geocode resolutions requested",
	})

	geocodeCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitemapper_geocode_cache_hits",
		Help: "The number of geocode resolutions served from cache",
	})

	geocodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitemapper_geocode_failures",
		Help: "The number of failed external geocoding calls",
	})
)

// keyPrecision is the number of decimal places a coordinate is rounded
// to when forming a cache key. Four decimals is roughly 11 meters,
// well below the resolution of the address data, and it absorbs
// floating-point jitter between devices reporting the same location.
const keyPrecision = 4

// Gate paces calls to the external provider. Wait blocks until the
// next call is allowed to proceed.
type Gate interface {
	Wait()
}

type intervalGate struct {
	min   time.Duration
	last  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

// NewIntervalGate creates a Gate enforcing a minimum interval between
// consecutive calls.
func NewIntervalGate(min time.Duration) Gate {
	return &intervalGate{
		min:   min,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

func (g *intervalGate) Wait() {
	now := g.now()

	next := g.last.Add(g.min)

	if g.last.IsZero() || !now.Before(next) {
		g.last = now
		return
	}

	g.sleep(next.Sub(now))

	g.last = next
}

// Resolver memoizes provider results by rounded coordinate and paces
// cache misses through the gate. It is scoped to one extraction run
// and accessed sequentially; it is not safe for concurrent use.
type Resolver struct {
	provider Provider
	cache    *lru.Cache
	gate     Gate
}

// NewResolver creates a Resolver over the given provider.
func NewResolver(provider Provider, cacheSize int, gate Gate) (*Resolver, error) {
	cache, err := lru.New(cacheSize)

	if err != nil {
		return nil, err
	}

	return &Resolver{
		provider: provider,
		cache:    cache,
		gate:     gate,
	}, nil
}

// cacheKey rounds a coordinate pair to the cache precision. Two
// coordinates within rounding tolerance share a cache entry.
func cacheKey(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', keyPrecision, 64) + "," +
		strconv.FormatFloat(lon, 'f', keyPrecision, 64)
}

// Resolve returns the address for a coordinate pair. Cache hits return
// immediately; misses wait on the gate and call the provider. Resolve
// never fails: provider errors degrade to a Fallback result, which is
// cached too so a failing coordinate is attempted at most once per run.
func (r *Resolver) Resolve(lat, lon float64) *Result {
	geocodeLookups.Inc()

	key := cacheKey(lat, lon)

	if v, ok := r.cache.Get(key); ok {
		geocodeCacheHits.Inc()
		return v.(*Result)
	}

	r.gate.Wait()

	result, err := r.provider.Reverse(lat, lon)

	if err != nil {
		geocodeFailures.Inc()

		log.WithFields(log.Fields{
			"error":     err,
			"latitude":  lat,
			"longitude": lon,
		}).Warning("Geocoding failed, using fallback result")

		result = Fallback(lat, lon)
	}

	r.cache.Add(key, result)

	return result
}

// Len returns the number of cached coordinate keys.
func (r *Resolver) Len() int {
	return r.cache.Len()
}
