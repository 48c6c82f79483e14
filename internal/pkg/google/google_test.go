package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "client-123.apps.googleusercontent.com"
const testKid = "test-kid"

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwtlib.MapClaims) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func googleClaims(audience string) jwtlib.MapClaims {
	return jwtlib.MapClaims{
		"iss":         "https://accounts.google.com",
		"aud":         audience,
		"exp":         time.Now().Add(time.Hour).Unix(),
		"email":       "fed@x.com",
		"name":        "Fed User",
		"given_name":  "Fed",
		"family_name": "User",
	}
}

func jwksServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := big.NewInt(int64(key.PublicKey.E))
		doc := map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": testKid,
				"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(e.Bytes()),
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
}

func tokenServer(t *testing.T, status int, idToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		body := map[string]string{
			"access_token": "provider-access-token",
			"token_type":   "Bearer",
		}
		if idToken != "" {
			body["id_token"] = idToken
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func newTestClient(tokenURL, certsURL string) *Client {
	return NewClient(Config{
		ClientID:     testClientID,
		ClientSecret: "secret",
		TokenURL:     tokenURL,
		CertsURL:     certsURL,
		RedirectURI:  "http://localhost:5173",
	})
}

func TestExchangeCode_Success(t *testing.T) {
	key := newRSAKey(t)
	idToken := signIDToken(t, key, testKid, googleClaims(testClientID))

	ts := tokenServer(t, http.StatusOK, idToken)
	defer ts.Close()
	jwks := jwksServer(t, key)
	defer jwks.Close()

	client := newTestClient(ts.URL, jwks.URL)
	info, err := client.ExchangeCode(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "fed@x.com", info.Email)
	assert.Equal(t, "Fed", info.GivenName)
	assert.Equal(t, "User", info.FamilyName)
}

func TestExchangeCode_SingleWordName(t *testing.T) {
	key := newRSAKey(t)
	claims := googleClaims(testClientID)
	claims["name"] = "Cher"
	delete(claims, "given_name")
	delete(claims, "family_name")
	idToken := signIDToken(t, key, testKid, claims)

	ts := tokenServer(t, http.StatusOK, idToken)
	defer ts.Close()
	jwks := jwksServer(t, key)
	defer jwks.Close()

	client := newTestClient(ts.URL, jwks.URL)
	info, err := client.ExchangeCode(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "Cher", info.GivenName)
	assert.Equal(t, "", info.FamilyName)
}

func TestExchangeCode_WrongAudience(t *testing.T) {
	key := newRSAKey(t)
	idToken := signIDToken(t, key, testKid, googleClaims("someone-else"))

	ts := tokenServer(t, http.StatusOK, idToken)
	defer ts.Close()
	jwks := jwksServer(t, key)
	defer jwks.Close()

	client := newTestClient(ts.URL, jwks.URL)
	_, err := client.ExchangeCode(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestExchangeCode_BadSignature(t *testing.T) {
	signingKey := newRSAKey(t)
	publishedKey := newRSAKey(t)
	idToken := signIDToken(t, signingKey, testKid, googleClaims(testClientID))

	ts := tokenServer(t, http.StatusOK, idToken)
	defer ts.Close()
	jwks := jwksServer(t, publishedKey)
	defer jwks.Close()

	client := newTestClient(ts.URL, jwks.URL)
	_, err := client.ExchangeCode(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestExchangeCode_ExchangeRejected(t *testing.T) {
	key := newRSAKey(t)
	ts := tokenServer(t, http.StatusBadRequest, "")
	defer ts.Close()
	jwks := jwksServer(t, key)
	defer jwks.Close()

	client := newTestClient(ts.URL, jwks.URL)
	_, err := client.ExchangeCode(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestExchangeCode_MissingIDToken(t *testing.T) {
	key := newRSAKey(t)
	ts := tokenServer(t, http.StatusOK, "")
	defer ts.Close()
	jwks := jwksServer(t, key)
	defer jwks.Close()

	client := newTestClient(ts.URL, jwks.URL)
	_, err := client.ExchangeCode(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrProvider)
}
