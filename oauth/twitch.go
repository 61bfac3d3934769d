package oauth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/twitch"
)

// ProviderTwitch is the oauth_tokens row key for the chat credential.
const ProviderTwitch = "twitch"

// TwitchRefresher builds a RefreshFunc that exchanges a refresh token
// against the Twitch token endpoint using the app's client credentials.
func TwitchRefresher(clientID, clientSecret string) RefreshFunc {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     twitch.Endpoint,
	}
	return func(ctx context.Context, refreshToken string) (string, string, time.Time, string, error) {
		src := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
		tok, err := src.Token()
		if err != nil {
			return "", "", time.Time{}, "", fmt.Errorf("twitch token refresh: %w", err)
		}
		scope, _ := tok.Extra("scope").(string)
		return tok.AccessToken, tok.RefreshToken, tok.Expiry, scope, nil
	}
}
