package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kidpech/runtime_logviewer/internal/config"
)

func TestIssueAndParse(t *testing.T) {
	v := NewVerifier(config.OperatorConfig{TokenSecret: "s3cret", TokenIssuer: "qa"})

	token, err := v.Issue("alice", RoleOperator, time.Minute)
	require.NoError(t, err)

	claims, err := v.Parse(token)
	require.NoError(t, err)
	require.Equal(t, RoleOperator, claims.Role)
	require.Equal(t, "alice", claims.Subject)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	v := NewVerifier(config.OperatorConfig{TokenSecret: "s3cret", TokenIssuer: "qa"})
	other := NewVerifier(config.OperatorConfig{TokenSecret: "different", TokenIssuer: "qa"})
	otherIssuer := NewVerifier(config.OperatorConfig{TokenSecret: "s3cret", TokenIssuer: "prod"})

	forged, err := other.Issue("mallory", RoleOperator, time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := otherIssuer.Issue("bob", RoleOperator, time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(wrongIssuer)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, err := v.Issue("carol", RoleOperator, -time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Parse("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}
