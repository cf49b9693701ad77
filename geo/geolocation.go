package geo

// Provider resolves a coordinate pair into a structured address.
// Implementations are expected to be stateless per call; caching and
// pacing live in the Resolver.
type Provider interface {
	Reverse(lat, lon float64) (*Result, error)
}
