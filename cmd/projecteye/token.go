package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

type tokenInfo struct {
	Present      bool       `json:"present"`
	Subject      string     `json:"subject,omitempty"`
	IssuedAt     *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Expired      bool       `json:"expired"`
	HasRefresh   bool       `json:"hasRefreshToken"`
	ExpiresInSec int64      `json:"expiresInSeconds,omitempty"`
}

// inspectToken reads the claims of an access token without verifying its
// signature. The result is for display only.
func inspectToken(access string, now time.Time) (tokenInfo, error) {
	if access == "" {
		return tokenInfo{}, nil
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		return tokenInfo{Present: true}, fmt.Errorf("decode access token: %w", err)
	}
	info := tokenInfo{Present: true, Subject: claims.Subject}
	if claims.IssuedAt != nil {
		t := claims.IssuedAt.UTC()
		info.IssuedAt = &t
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.UTC()
		info.ExpiresAt = &t
		info.Expired = !now.Before(t)
		if !info.Expired {
			info.ExpiresInSec = int64(t.Sub(now).Seconds())
		}
	}
	return info, nil
}

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect stored credentials",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show expiry of the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			access, err := a.client.GetAccessToken(cmd.Context())
			if err != nil {
				return err
			}
			refresh, err := a.client.GetRefreshToken(cmd.Context())
			if err != nil {
				return err
			}
			info, err := inspectToken(access, time.Now())
			if err != nil {
				return err
			}
			info.HasRefresh = refresh != ""
			return printJSON(cmd.OutOrStdout(), info)
		},
	})
	return cmd
}
