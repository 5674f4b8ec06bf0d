package jwt

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailtony/vidhub/internal/config"
	app_errors "github.com/trailtony/vidhub/internal/errors"
)

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	assert.Nil(t, NewJWTManager(&config.Config{}))
}

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager(&config.Config{JWTSecretKey: "secret"})
	require.NotNil(t, m)

	token, err := m.GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	a := NewJWTManager(&config.Config{JWTSecretKey: "a"})
	b := NewJWTManager(&config.Config{JWTSecretKey: "b"})

	token, err := a.GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)

	_, err = b.ValidateToken(token)
	assert.ErrorIs(t, err, app_errors.ErrFailedToParseToken)
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	m := NewJWTManager(&config.Config{JWTSecretKey: "secret"})
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "x"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ValidateToken(signed)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"empty", "", "", app_errors.ErrAuthHeaderEmpty},
		{"wrong scheme", "Basic abc", "", app_errors.ErrAuthHeaderWrongFormat},
		{"bearer", "Bearer abc.def", "abc.def", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTokenFromHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
