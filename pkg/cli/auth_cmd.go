package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication helpers",
	}

	cmd.AddCommand(newAuthTokenCmd())
	cmd.AddCommand(newAuthLoginCmd())
	return cmd
}

func newAuthTokenCmd() *cobra.Command {
	var (
		principal string
		secret    string
		admin     bool
		expires   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a dev-mode JWT token and save it to the active profile",
		Long:  "Generate an HS256 JWT token for development and testing. The token is saved to the active profile automatically.",
		Example: `  # Generate a token for admin_user with the local dev secret
  flowdeck auth token --principal admin_user --secret dev-secret-change-in-production

  # Generate an admin token with custom expiry
  flowdeck auth token --principal admin_user --admin --secret mysecret --expires 48h`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			now := time.Now()
			claims := jwt.MapClaims{
				"sub": principal,
				"iat": now.Unix(),
				"exp": now.Add(expires).Unix(),
			}
			if admin {
				claims["admin"] = true
			}

			token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
			signed, err := token.SignedString([]byte(secret))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			if err := saveToActiveProfile(func(p *Profile) { p.Token = signed }); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(os.Stdout, signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&principal, "principal", "", "Principal name (JWT sub claim)")
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret (HS256)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Include admin claim in the token")
	cmd.Flags().DurationVar(&expires, "expires", 24*time.Hour, "Token expiry duration")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key in the active profile",
		Long:  "Prompt for an API key and save it to the active profile. The key is read without echoing when run in a terminal.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := readAPIKey(cmd)
			if err != nil {
				return err
			}
			if key == "" {
				return fmt.Errorf("no API key entered")
			}

			if err := saveToActiveProfile(func(p *Profile) { p.APIKey = key }); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "API key saved.")
			return nil
		},
	}
	return cmd
}

// readAPIKey prompts on stderr so the prompt never mixes into piped stdout.
// Terminal input is read with echo disabled.
func readAPIKey(cmd *cobra.Command) (string, error) {
	fmt.Fprint(os.Stderr, "API key: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// saveToActiveProfile loads the user config, applies mutate to the active
// profile, and writes the config back.
func saveToActiveProfile(mutate func(*Profile)) error {
	cfg, err := LoadUserConfig()
	if err != nil {
		cfg = &UserConfig{Profiles: make(map[string]Profile)}
	}
	profileName := cfg.CurrentProfile
	if profileName == "" {
		profileName = "default"
		cfg.CurrentProfile = profileName
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	p := cfg.Profiles[profileName]
	mutate(&p)
	cfg.Profiles[profileName] = p
	if err := SaveUserConfig(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
