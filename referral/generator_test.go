package referral

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylesphere/StyleSphere/models"
)

// stubIdentities lets a test hook the lookups Generate depends on while
// inheriting the rest from the in-memory store.
type stubIdentities struct {
	*memIdentities
	takenFn     func(identifier string) (bool, error)
	neighborsFn func(identifier string) (string, string, error)
}

func (s *stubIdentities) IdentifierTaken(ctx context.Context, identifier string) (bool, error) {
	if s.takenFn != nil {
		return s.takenFn(identifier)
	}
	return s.memIdentities.IdentifierTaken(ctx, identifier)
}

func (s *stubIdentities) Neighbors(ctx context.Context, identifier string) (string, string, error) {
	if s.neighborsFn != nil {
		return s.neighborsFn(identifier)
	}
	return s.memIdentities.Neighbors(ctx, identifier)
}

func TestGenerateProducesEightDigitIdentifiers(t *testing.T) {
	store := newMemIdentities()
	gen := NewGenerator(store, GeneratorConfig{})

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id, err := gen.Generate(context.Background())
		require.NoError(t, err)
		require.Len(t, id, IdentifierLength)
		for _, r := range id {
			require.True(t, r >= '0' && r <= '9', "identifier %q contains non-digit", id)
		}
		require.False(t, seen[id], "identifier %q issued twice", id)
		seen[id] = true

		// Claim it, as registration would, so later draws must avoid it.
		require.NoError(t, store.Create(context.Background(), &models.ReferralIdentity{
			UserID:     uint(i + 1),
			Identifier: id,
		}))
	}
}

func TestGenerateSkipsTakenIdentifiers(t *testing.T) {
	calls := 0
	store := &stubIdentities{
		memIdentities: newMemIdentities(),
		takenFn: func(string) (bool, error) {
			calls++
			return calls <= 3, nil // first three candidates collide
		},
	}
	gen := NewGenerator(store, GeneratorConfig{})

	id, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, id, IdentifierLength)
	assert.Equal(t, 4, calls)
}

func TestGenerateExhaustsRetries(t *testing.T) {
	calls := 0
	store := &stubIdentities{
		memIdentities: newMemIdentities(),
		takenFn: func(string) (bool, error) {
			calls++
			return true, nil
		},
	}
	gen := NewGenerator(store, GeneratorConfig{MaxAttempts: 7})

	_, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, ErrExhaustedRetries)
	assert.Equal(t, 7, calls, "every budgeted attempt must be spent before giving up")
}

func TestGenerateDefaultAttemptBudget(t *testing.T) {
	calls := 0
	store := &stubIdentities{
		memIdentities: newMemIdentities(),
		takenFn: func(string) (bool, error) {
			calls++
			return true, nil
		},
	}
	gen := NewGenerator(store, GeneratorConfig{})

	_, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, ErrExhaustedRetries)
	assert.Equal(t, DefaultMaxGenerateAttempts, calls)
}

func TestGenerateAdjacencyRejection(t *testing.T) {
	// Every candidate's lower neighbor shares its first four digits, so with
	// the check enabled no candidate can ever pass.
	store := &stubIdentities{
		memIdentities: newMemIdentities(),
		neighborsFn: func(identifier string) (string, string, error) {
			return identifier[:4] + "0000", "", nil
		},
	}

	gen := NewGenerator(store, GeneratorConfig{MaxAttempts: 5, AdjacencyCheck: true})
	_, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, ErrExhaustedRetries)

	// The same store is fine with the check disabled.
	gen = NewGenerator(store, GeneratorConfig{MaxAttempts: 5})
	id, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, id, IdentifierLength)
}

func TestPassesAdjacency(t *testing.T) {
	store := newMemIdentities()
	store.add(1, "12340000", false, 0)
	store.add(2, "99991234", false, 0)
	gen := NewGenerator(store, GeneratorConfig{AdjacencyCheck: true})

	cases := []struct {
		candidate string
		want      bool
	}{
		{"12345678", false}, // lower neighbor 12340000 shares the prefix
		{"55551234", false}, // higher neighbor 99991234 shares the suffix
		{"55555555", true},  // neither neighbor overlaps
		{"43215678", true},
	}
	for _, tc := range cases {
		ok, err := gen.passesAdjacency(context.Background(), tc.candidate)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "candidate %s", tc.candidate)
	}
}

func TestGeneratedIdentifierZeroPadding(t *testing.T) {
	// Low draws must pad to the full width rather than shrink the identifier.
	assert.Equal(t, "00000042", formatIdentifier(42))
	assert.Equal(t, "00000000", formatIdentifier(0))
	assert.Equal(t, "99999999", formatIdentifier(99999999))
}
