package referral

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/stylesphere/StyleSphere/utils"
)

// IdentifierLength is the number of decimal digits in a referral identifier.
const IdentifierLength = 8

// DefaultMaxGenerateAttempts bounds the candidate draws per Generate call.
const DefaultMaxGenerateAttempts = 100

var identifierSpace = big.NewInt(100000000) // 10^8

// GeneratorConfig tunes identifier generation.
type GeneratorConfig struct {
	// MaxAttempts bounds candidate draws before ErrExhaustedRetries.
	// Zero means DefaultMaxGenerateAttempts.
	MaxAttempts int

	// AdjacencyCheck additionally rejects candidates whose first four digits
	// match the immediately lower existing identifier's first four, or whose
	// last four match the immediately higher identifier's last four. Off by
	// default: the rule shrinks the keyspace as the account base grows and
	// carries no business rationale we could confirm.
	AdjacencyCheck bool
}

// Generator produces new globally unique 8-digit identifiers.
type Generator struct {
	identities IdentityStore
	cfg        GeneratorConfig
}

// NewGenerator creates a Generator backed by the given identity store.
func NewGenerator(identities IdentityStore, cfg GeneratorConfig) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxGenerateAttempts
	}
	return &Generator{identities: identities, cfg: cfg}
}

// Generate draws uniformly random 8-digit candidates until one passes the
// uniqueness (and, when enabled, adjacency) checks, or the attempt budget is
// spent, in which case it returns ErrExhaustedRetries.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, identifierSpace)
		if err != nil {
			return "", fmt.Errorf("draw identifier candidate: %w", err)
		}
		candidate := formatIdentifier(n.Int64())

		taken, err := g.identities.IdentifierTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if taken {
			utils.LogDebug("Identifier candidate collided, retrying (attempt %d)", attempt+1)
			continue
		}

		if g.cfg.AdjacencyCheck {
			ok, err := g.passesAdjacency(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !ok {
				utils.LogDebug("Identifier candidate rejected by adjacency check (attempt %d)", attempt+1)
				continue
			}
		}

		return candidate, nil
	}
	utils.LogError("Identifier generation exhausted %d attempts", g.cfg.MaxAttempts)
	return "", ErrExhaustedRetries
}

func formatIdentifier(n int64) string {
	return fmt.Sprintf("%0*d", IdentifierLength, n)
}

func (g *Generator) passesAdjacency(ctx context.Context, candidate string) (bool, error) {
	lower, higher, err := g.identities.Neighbors(ctx, candidate)
	if err != nil {
		return false, err
	}
	if lower != "" && lower[:4] == candidate[:4] {
		return false, nil
	}
	if higher != "" && higher[4:] == candidate[4:] {
		return false, nil
	}
	return true, nil
}
