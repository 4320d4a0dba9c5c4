// Package main provides a CLI tool for minting test session tokens for the
// wellspring API. These tokens use a dev signing key and will NOT work against
// a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"wellspring/internal/identity"
	"wellspring/internal/session/token"
)

const (
	// Dev signing key for local runs; set SESSION_SIGNING_KEY to override.
	devSigningKey = "dev-secret-key-change-in-production"

	defaultMobileTTL = 30 * 24 * time.Hour
	defaultAdminTTL  = 24 * time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Policy    string            `json:"policy"`
	ExpiresAt string            `json:"expires_at"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	mobileCmd := flag.NewFlagSet("mobile", flag.ExitOnError)
	mobileUserID := mobileCmd.String("user-id", "", "User ID (UUID). Generated if empty.")
	mobileEmail := mobileCmd.String("email", "dev@example.com", "User email")
	mobileTTL := mobileCmd.Duration("ttl", defaultMobileTTL, "Token time-to-live")
	mobileJSON := mobileCmd.Bool("json", false, "Output as JSON")

	adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)
	adminUserID := adminCmd.String("user-id", "", "User ID (UUID). Generated if empty.")
	adminEmail := adminCmd.String("email", "admin@example.com", "Admin email")
	adminTTL := adminCmd.Duration("ttl", defaultAdminTTL, "Token time-to-live")
	adminJSON := adminCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "mobile":
		_ = mobileCmd.Parse(os.Args[2:])
		generate(*mobileUserID, *mobileEmail, identity.RoleUser, token.PolicyMobileAPI(*mobileTTL), *mobileJSON)
	case "admin":
		_ = adminCmd.Parse(os.Args[2:])
		generate(*adminUserID, *adminEmail, identity.RoleAdmin, token.PolicyAdminWeb(*adminTTL), *adminJSON)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func generate(rawUserID, email string, role identity.Role, policy token.Policy, asJSON bool) {
	userID := uuid.New()
	if rawUserID != "" {
		parsed, err := uuid.Parse(rawUserID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid user-id: %v\n", err)
			os.Exit(1)
		}
		userID = parsed
	}

	signingKey := os.Getenv("SESSION_SIGNING_KEY")
	if signingKey == "" {
		signingKey = devSigningKey
	}

	svc, err := token.NewService(signingKey, "wellspring")
	if err != nil {
		fmt.Fprintf(os.Stderr, "token service: %v\n", err)
		os.Exit(1)
	}

	user := &identity.User{ID: userID, Email: email, Role: role}
	credential, expiresAt, err := svc.Issue(user, policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issuing token: %v\n", err)
		os.Exit(1)
	}

	if asJSON {
		out := tokenOutput{
			Token:     credential,
			Policy:    policy.Name,
			ExpiresAt: expiresAt.Format(time.RFC3339),
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
				"cookie": "token=<token>",
			},
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Printf("policy:     %s\n", policy.Name)
	fmt.Printf("user_id:    %s\n", userID)
	fmt.Printf("email:      %s\n", email)
	fmt.Printf("expires_at: %s\n", expiresAt.Format(time.RFC3339))
	fmt.Printf("\n%s\n", credential)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: tokengen <subcommand> [flags]

Subcommands:
  mobile    Mint a mobile API bearer token (role=user)
  admin     Mint an admin web session token (role=admin)

Flags:
  -user-id  User ID (UUID), generated if empty
  -email    Email claim
  -ttl      Token time-to-live
  -json     Output as JSON

The signing key comes from SESSION_SIGNING_KEY, falling back to the dev key.
`)
}
