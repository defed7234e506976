package session

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genEmail generates a valid email-like string.
func genEmail() gopter.Gen {
	return gopter.CombineGens(
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
	).Map(func(vals []interface{}) string {
		return vals[0].(string) + "@" + vals[1].(string) + ".com"
	})
}

// genSecret generates a signing secret of at least 32 bytes.
func genSecret() gopter.Gen {
	return gen.SliceOfN(32, gen.UInt8()).Map(func(bytes []uint8) []byte {
		result := make([]byte, len(bytes))
		copy(result, bytes)
		return result
	})
}

// **Feature: dashboard-sessions, Property 1: Session round trip**
// For any email and secret, issuing a session and validating it with the same
// secret SHALL return the same email and expiry.
func TestSessionRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("issue then validate preserves the user", prop.ForAll(
		func(email string, secret []byte) bool {
			m := NewManager(Config{Secret: secret, Expiry: time.Hour}, nil)

			token, issued, err := m.Issue(email)
			if err != nil {
				t.Logf("issue failed: %v", err)
				return false
			}

			claims, err := m.Validate(token)
			if err != nil {
				t.Logf("validate failed: %v", err)
				return false
			}
			return claims.Email == email && claims.ExpiresAt.Equal(issued.ExpiresAt)
		},
		genEmail(),
		genSecret(),
	))

	properties.TestingRun(t)
}

// **Feature: dashboard-sessions, Property 2: Foreign sessions are rejected**
// For any session signed with one secret, validating with a different secret
// SHALL fail with ErrInvalidToken.
func TestSessionWrongSecret(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("different secret rejects", prop.ForAll(
		func(email string, a, b []byte) bool {
			if string(a) == string(b) {
				return true
			}
			issuer := NewManager(Config{Secret: a, Expiry: time.Hour}, nil)
			verifier := NewManager(Config{Secret: b, Expiry: time.Hour}, nil)

			token, _, err := issuer.Issue(email)
			if err != nil {
				return false
			}
			_, err = verifier.Validate(token)
			return err == ErrInvalidToken
		},
		genEmail(),
		genSecret(),
		genSecret(),
	))

	properties.TestingRun(t)
}
