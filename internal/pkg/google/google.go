// Package google exchanges an OAuth authorization code for a verified Google
// identity. Only claims from a signature- and audience-checked ID token are
// ever returned; every failure collapses to ErrProvider.
package google

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var ErrProvider = errors.New("google identity could not be verified")

type UserInfo struct {
	Email      string
	Name       string
	GivenName  string
	FamilyName string
}

type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	CertsURL     string
	RedirectURI  string

	// HTTPClient overrides the client used for the token exchange and the
	// JWKS fetch. Tests point it at httptest servers.
	HTTPClient *http.Client
}

type Client struct {
	conf       *oauth2.Config
	clientID   string
	certsURL   string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL},
			Scopes:       []string{"openid", "email", "profile"},
		},
		clientID:   cfg.ClientID,
		certsURL:   cfg.CertsURL,
		httpClient: cfg.HTTPClient,
	}
}

type idTokenClaims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	jwtlib.RegisteredClaims
}

// ExchangeCode performs the two-step protocol: trade the one-time code for a
// provider token, then verify the ID token it carries. The returned identity
// always comes from the verified assertion.
func (cl *Client) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	if cl.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cl.httpClient)
	}

	token, err := cl.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange failed", ErrProvider)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: token response missing id_token", ErrProvider)
	}

	claims, err := cl.verifyIDToken(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	info := &UserInfo{
		Email:      claims.Email,
		Name:       claims.Name,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
	}

	// Display name heuristic carried over as-is: split on the first space,
	// single-word names get an empty family name.
	if info.Name != "" {
		parts := strings.SplitN(info.Name, " ", 2)
		info.GivenName = parts[0]
		if len(parts) > 1 {
			info.FamilyName = parts[1]
		} else {
			info.FamilyName = ""
		}
	}

	return info, nil
}

func (cl *Client) verifyIDToken(ctx context.Context, raw string) (*idTokenClaims, error) {
	keys, err := cl.fetchKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching signing keys failed", ErrProvider)
	}

	claims := &idTokenClaims{}
	token, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		key, ok := keys[kid]
		if !ok {
			return nil, errors.New("unknown key id")
		}
		return key, nil
	},
		jwtlib.WithValidMethods([]string{"RS256"}),
		jwtlib.WithAudience(cl.clientID),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: id_token rejected", ErrProvider)
	}

	return claims, nil
}

type jwksDocument struct {
	Keys []struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (cl *Client) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	httpClient := cl.httpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.certsURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("certs endpoint returned %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAKey(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return nil, errors.New("no usable RSA keys in JWKS")
	}
	return keys, nil
}

func parseRSAKey(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, err
	}

	pub := &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}
	if pub.E == 0 {
		return nil, errors.New("invalid exponent")
	}
	return pub, nil
}
