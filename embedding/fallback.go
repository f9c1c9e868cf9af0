package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"
)

// FallbackProvider generates deterministic vectors from a hash of the
// input text. Used when the remote provider is unreachable, rate-limited,
// or misconfigured, so that writes are never blocked by embedding
// unavailability.
//
// The output is a pure function of the input text: the same text always
// yields the same vector, keeping repeated fallback calls internally
// comparable. The vectors carry no semantic meaning.
type FallbackProvider struct {
	dimension int
}

// NewFallbackProvider constructs a hash-based generator for the given
// dimension.
func NewFallbackProvider(dimension int) *FallbackProvider {
	return &FallbackProvider{dimension: dimension}
}

// Embed derives one component per position from FNV-1a over the text plus
// the position index, maps it into [-1, 1), and L2-normalizes the result.
// Empty text is valid input and yields a fixed vector. Components are
// always finite.
func (p *FallbackProvider) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, p.dimension)
	for i := range v {
		h := fnv.New64a()
		h.Write([]byte(text))
		h.Write([]byte(":" + strconv.Itoa(i)))
		// Map the hash onto [-1, 1).
		v[i] = float32(h.Sum64()%2000)/1000 - 1
	}
	normalize(v)
	return v, nil
}

// EmbedBatch applies Embed to each text independently.
func (p *FallbackProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// normalize scales v to unit length in place. A zero vector is left as-is;
// it cannot produce NaN components.
func normalize(v []float32) {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return
	}
	inv := 1 / math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
